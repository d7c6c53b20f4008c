package utils

import (
	"errors"
	"testing"
)

func testBudget(max int, perPage bool) *FailureBudget {
	return &FailureBudget{
		MaxConsecutive: max,
		PerPage:        perPage,
		Logger:         NewLogger(false),
	}
}

func TestFailureBudgetExhaustion(t *testing.T) {
	b := testBudget(3, true)
	err := errors.New("connection reset")

	if b.Failed(1, err) {
		t.Fatal("first failure must not exhaust a budget of three")
	}
	if b.Failed(1, err) {
		t.Fatal("second failure must not exhaust a budget of three")
	}
	if !b.Failed(1, err) {
		t.Fatal("third consecutive failure must exhaust the budget")
	}
}

func TestFailureBudgetSuccessResets(t *testing.T) {
	b := testBudget(3, true)
	err := errors.New("connection reset")

	b.Failed(1, err)
	b.Failed(1, err)
	b.Succeeded()

	if b.Failed(1, err) {
		t.Error("a success must reset the consecutive-failure counter")
	}
}

func TestFailureBudgetPerPageReset(t *testing.T) {
	b := testBudget(3, true)
	err := errors.New("connection reset")

	b.Failed(1, err)
	b.Failed(1, err)
	b.EnterPage()

	if b.Failed(2, err) {
		t.Error("entering a new page must reset a per-page budget")
	}
}

func TestFailureBudgetPerRunAccumulates(t *testing.T) {
	b := testBudget(3, false)
	err := errors.New("connection reset")

	b.Failed(1, err)
	b.Failed(1, err)
	b.EnterPage()

	if !b.Failed(2, err) {
		t.Error("a per-run budget must accumulate failures across pages")
	}
}
