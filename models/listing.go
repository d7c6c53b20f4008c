package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Sentinel marks a numeric field that could not be determined from the
// source markup. Distinct from zero: a zero-ruble price is a parse bug,
// a Sentinel price is expected noise.
const Sentinel = -1

// DealType selects which listings are searched and which price fields
// survive on export.
type DealType string

const (
	DealSale      DealType = "sale"
	DealRentLong  DealType = "rent_long"
	DealRentShort DealType = "rent_short"
)

// ParseDealType maps a config string to a DealType.
func ParseDealType(s string) (DealType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sale", "":
		return DealSale, nil
	case "rent_long":
		return DealRentLong, nil
	case "rent_short":
		return DealRentShort, nil
	}
	return "", fmt.Errorf("unknown deal type %q", s)
}

// QueryValue is the value of the deal_type URL parameter. Both rent
// variants share "rent"; they differ by rent duration.
func (d DealType) QueryValue() string {
	if d == DealSale {
		return "sale"
	}
	return "rent"
}

// RentDuration returns the site's duration-type parameter (4 long-term,
// 2 short-term) and false for sale.
func (d DealType) RentDuration() (int, bool) {
	switch d {
	case DealRentLong:
		return 4, true
	case DealRentShort:
		return 2, true
	}
	return 0, false
}

// AuthorType classifies who published the listing. Exactly one type per
// listing, decided by the first matching keyword in precedence order.
type AuthorType string

const (
	AuthorRealEstateAgent        AuthorType = "real_estate_agent"
	AuthorHomeowner              AuthorType = "homeowner"
	AuthorRealtor                AuthorType = "realtor"
	AuthorOfficialRepresentative AuthorType = "official_representative"
	AuthorRepresentativeDev      AuthorType = "representative_developer"
	AuthorDeveloper              AuthorType = "developer"
	AuthorUnknown                AuthorType = "unknown"
)

// AuthorInfo is the author partial field set extracted from a summary block.
type AuthorInfo struct {
	Author     string
	AuthorType AuthorType
}

// LocationInfo is best-effort. Only Address is populated reliably; the
// remaining fields stay empty unless the markup happens to expose them.
type LocationInfo struct {
	Address            string
	District           string
	Street             string
	Underground        string
	ResidentialComplex string
}

// PriceKind tags the mutually exclusive price variant.
type PriceKind int

const (
	PriceNone PriceKind = iota // no price marker found, soft outcome
	PriceSale                  // lump sum in rubles
	PriceRent                  // rubles per month
)

// PriceInfo carries either a sale price or a monthly rent, never both.
// PricePerM2 is computed after dedup admission, only when the total area
// is known and positive.
type PriceInfo struct {
	Kind        PriceKind
	Amount      int // rubles; per month when Kind == PriceRent
	Commissions int // percent, rent only
	PricePerM2  int
}

// Amount64 returns the price in rubles and whether one is present.
func (p PriceInfo) Amount64() (float64, bool) {
	if p.Kind == PriceNone {
		return 0, false
	}
	return float64(p.Amount), true
}

// SpecificationInfo is the numeric summary extracted from the block title
// row. Every field may be Sentinel.
type SpecificationInfo struct {
	Floor       int
	FloorsCount int
	RoomsCount  int
	TotalMeters float64
}

// DetailInfo is the optional enrichment from a listing's own page. Each
// field is independently Sentinel-able; Phone stays empty when unknown.
type DetailInfo struct {
	YearOfConstruction int
	LivingMeters       float64
	KitchenMeters      float64
	Floor              int
	FloorsCount        int
	RoomsCount         int
	Phone              string
}

// NewDetailInfo returns a DetailInfo with every numeric field at Sentinel.
func NewDetailInfo() *DetailInfo {
	return &DetailInfo{
		YearOfConstruction: Sentinel,
		LivingMeters:       Sentinel,
		KitchenMeters:      Sentinel,
		Floor:              Sentinel,
		FloorsCount:        Sentinel,
		RoomsCount:         Sentinel,
	}
}

// CommonInfo is the field set shared by every listing regardless of deal
// type.
type CommonInfo struct {
	Link              string
	City              string
	DealType          DealType
	AccommodationType string
}

// Record is one listing assembled from all partial field sets. The sets
// are disjoint by construction; a Record becomes immutable once admitted
// into the crawl session.
type Record struct {
	Author   AuthorInfo
	Common   CommonInfo
	Spec     SpecificationInfo
	Price    PriceInfo
	Detail   *DetailInfo // nil in express mode or when the detail fetch failed
	Location LocationInfo
}

// RoomMode tags the room-selector variant.
type RoomMode int

const (
	RoomsAll    RoomMode = iota // no room filter
	RoomsStudio                 // studios only
	RoomsSet                    // explicit set of counts, optionally plus studio
)

// RoomSelection is the tagged room-filter variant handled exhaustively at
// URL-construction time.
type RoomSelection struct {
	Mode          RoomMode
	Counts        []int // 1..5, RoomsSet only
	IncludeStudio bool  // RoomsSet only
}

// ParseRoomSelection reads a room filter from config text: "all",
// "studio", a single count, or a comma list mixing counts and "studio".
func ParseRoomSelection(s string) (RoomSelection, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "", "all":
		return RoomSelection{Mode: RoomsAll}, nil
	case "studio":
		return RoomSelection{Mode: RoomsStudio}, nil
	}

	sel := RoomSelection{Mode: RoomsSet}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "studio" {
			sel.IncludeStudio = true
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 1 || n > 5 {
			return RoomSelection{}, fmt.Errorf("bad room selector element %q", part)
		}
		sel.Counts = append(sel.Counts, n)
	}
	if len(sel.Counts) == 0 && !sel.IncludeStudio {
		return RoomSelection{}, fmt.Errorf("empty room selector %q", s)
	}
	return sel, nil
}
