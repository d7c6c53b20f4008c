package services

import (
	"fmt"
	"strings"

	"cian-scraper/models"
)

// Report summarizes one crawl run.
type Report struct {
	DealType  models.DealType
	Committed int
	MeanPrice float64
}

// PriceUnit frames the mean price for the active deal type.
func (r *Report) PriceUnit() string {
	switch r.DealType {
	case models.DealRentLong:
		return "per month"
	case models.DealRentShort:
		return "per day"
	}
	return ""
}

// Print writes the run report to stdout.
func (r *Report) Print() {
	sep := strings.Repeat("─", 54)

	fmt.Printf("\n%s\n", sep)
	fmt.Printf("  Crawl finished\n")
	fmt.Printf("%s\n", sep)
	fmt.Printf("  Listings committed : \033[1m%d\033[0m\n", r.Committed)

	label := "Average price"
	if unit := r.PriceUnit(); unit != "" {
		label = fmt.Sprintf("Average price %s", unit)
	}
	fmt.Printf("  %-19s: \033[1;32m%s rub\033[0m\n", label, FormatRubles(int(r.MeanPrice)))
	fmt.Printf("%s\n\n", sep)
}

// FormatRubles renders an amount with space-grouped thousands, the way
// the source site writes prices.
func FormatRubles(amount int) string {
	digits := fmt.Sprintf("%d", amount)
	neg := strings.HasPrefix(digits, "-")
	if neg {
		digits = digits[1:]
	}

	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)

	out := strings.Join(groups, " ")
	if neg {
		out = "-" + out
	}
	return out
}
