package utils

import (
	"time"
)

// FailureBudget tracks consecutive transient failures against a fixed
// threshold. Depending on PerPage it either resets when the crawl moves to
// a new page or accumulates across the whole run.
type FailureBudget struct {
	MaxConsecutive int
	Delay          time.Duration
	PerPage        bool
	Logger         *Logger

	count int
}

// EnterPage tells the budget a new page is starting.
func (b *FailureBudget) EnterPage() {
	if b.PerPage {
		b.count = 0
	}
}

// Succeeded resets the consecutive-failure counter.
func (b *FailureBudget) Succeeded() {
	b.count = 0
}

// Failed records one transient failure. It returns true when the budget is
// exhausted and the run must abort; otherwise it sleeps the fixed backoff
// interval and the caller retries the same page.
func (b *FailureBudget) Failed(page int, err error) bool {
	b.count++
	if b.count >= b.MaxConsecutive {
		b.Logger.Error("[retry] page %d failed (%d/%d): %v — giving up",
			page, b.count, b.MaxConsecutive, err)
		return true
	}

	b.Logger.Warn("[retry] page %d failed (%d/%d): %v — retrying in %v",
		page, b.count, b.MaxConsecutive, err, b.Delay)
	time.Sleep(b.Delay)
	return false
}
