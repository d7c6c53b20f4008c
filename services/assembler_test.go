package services

import (
	"reflect"
	"strings"
	"testing"

	"cian-scraper/models"
)

func sampleRecord() *models.Record {
	return &models.Record{
		Author: models.AuthorInfo{Author: "Иван", AuthorType: models.AuthorHomeowner},
		Common: models.CommonInfo{
			Link:              "https://kazan.cian.ru/sale/flat/100/",
			City:              "Казань",
			DealType:          models.DealSale,
			AccommodationType: "flat",
		},
		Spec: models.SpecificationInfo{
			Floor: 3, FloorsCount: 9, RoomsCount: 2, TotalMeters: 54.2,
		},
		Price:    models.PriceInfo{Kind: models.PriceSale, Amount: 12500000, PricePerM2: 230627},
		Location: models.LocationInfo{Address: "улица Баумана, 1"},
	}
}

func TestColumnsPerDealType(t *testing.T) {
	tests := []struct {
		name     string
		dealType models.DealType
		wants    []string
		rejects  []string
	}{
		{
			name:     "sale",
			dealType: models.DealSale,
			wants:    []string{"price", "price_per_m2"},
			rejects:  []string{"price_per_month", "commissions"},
		},
		{
			name:     "rent long",
			dealType: models.DealRentLong,
			wants:    []string{"price_per_month", "commissions", "price_per_m2"},
			rejects:  []string{"price"},
		},
		{
			name:     "rent short",
			dealType: models.DealRentShort,
			wants:    []string{"price_per_month", "price_per_m2"},
			rejects:  []string{"price", "commissions"},
		},
	}

	for _, tt := range tests {
		cols := NewAssembler(tt.dealType, false, false).Columns()
		set := make(map[string]bool, len(cols))
		for _, c := range cols {
			set[c] = true
		}
		for _, want := range tt.wants {
			if !set[want] {
				t.Errorf("%s: column %q missing from %v", tt.name, want, cols)
			}
		}
		for _, reject := range tt.rejects {
			if set[reject] {
				t.Errorf("%s: column %q must be pruned, got %v", tt.name, reject, cols)
			}
		}
		if cols[len(cols)-1] != "address" {
			t.Errorf("%s: last column = %q; want address", tt.name, cols[len(cols)-1])
		}
	}
}

func TestColumnsWithDetails(t *testing.T) {
	slim := NewAssembler(models.DealSale, false, false).Columns()
	wide := NewAssembler(models.DealSale, true, false).Columns()

	if len(wide) != len(slim)+4 {
		t.Fatalf("detail schema has %d columns, base has %d; want +4", len(wide), len(slim))
	}
	for _, want := range []string{"year_of_construction", "living_meters", "kitchen_meters", "phone"} {
		found := false
		for _, c := range wide {
			if c == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("detail column %q missing from %v", want, wide)
		}
	}
}

func TestRowMatchesColumns(t *testing.T) {
	a := NewAssembler(models.DealSale, false, false)
	row := a.Row(sampleRecord())

	if len(row) != len(a.Columns()) {
		t.Fatalf("row has %d fields, header has %d", len(row), len(a.Columns()))
	}

	got := make(map[string]string, len(row))
	for i, col := range a.Columns() {
		got[col] = row[i]
	}

	want := map[string]string{
		"author":       "Иван",
		"author_type":  "homeowner",
		"deal_type":    "sale",
		"floor":        "3",
		"floors_count": "9",
		"rooms_count":  "2",
		"total_meters": "54.2",
		"price":        "12500000",
		"price_per_m2": "230627",
		"address":      "улица Баумана, 1",
	}
	for col, w := range want {
		if got[col] != w {
			t.Errorf("column %q = %q; want %q", col, got[col], w)
		}
	}
}

func TestRowRentColumns(t *testing.T) {
	a := NewAssembler(models.DealRentLong, false, false)

	rec := sampleRecord()
	rec.Common.DealType = models.DealRentLong
	rec.Price = models.PriceInfo{Kind: models.PriceRent, Amount: 45000, Commissions: 50}

	row := a.Row(rec)
	got := make(map[string]string, len(row))
	for i, col := range a.Columns() {
		got[col] = row[i]
	}

	if got["price_per_month"] != "45000" {
		t.Errorf("price_per_month = %q; want 45000", got["price_per_month"])
	}
	if got["commissions"] != "50" {
		t.Errorf("commissions = %q; want 50", got["commissions"])
	}
}

func TestRowSentinelForMismatchedPriceKind(t *testing.T) {
	// A sale schema rendering an unpriced record must show the sentinel, not
	// a zero that looks like a real price.
	a := NewAssembler(models.DealSale, false, false)

	rec := sampleRecord()
	rec.Price = models.PriceInfo{Kind: models.PriceNone}

	row := a.Row(rec)
	for i, col := range a.Columns() {
		if col == "price" && row[i] != "-1" {
			t.Errorf("price = %q; want -1", row[i])
		}
	}
}

func TestRowNilDetailYieldsSentinels(t *testing.T) {
	a := NewAssembler(models.DealSale, true, false)

	rec := sampleRecord()
	rec.Detail = nil

	row := a.Row(rec)
	got := make(map[string]string, len(row))
	for i, col := range a.Columns() {
		got[col] = row[i]
	}

	if got["year_of_construction"] != "-1" {
		t.Errorf("year_of_construction = %q; want -1", got["year_of_construction"])
	}
	if got["phone"] != "" {
		t.Errorf("phone = %q; want empty", got["phone"])
	}
}

func TestAssembleLatinTransliteration(t *testing.T) {
	a := NewAssembler(models.DealSale, false, true)

	rec := a.Assemble(
		models.AuthorInfo{Author: "Иван Петров", AuthorType: models.AuthorHomeowner},
		models.CommonInfo{City: "Казань", DealType: models.DealSale},
		models.SpecificationInfo{},
		models.PriceInfo{},
		nil,
		models.LocationInfo{Address: "улица Баумана, 1"},
	)

	for name, value := range map[string]string{
		"author":  rec.Author.Author,
		"city":    rec.Common.City,
		"address": rec.Location.Address,
	} {
		for _, r := range value {
			if r > 127 {
				t.Errorf("%s = %q still contains non-ASCII runes", name, value)
				break
			}
		}
	}
	if !strings.Contains(rec.Common.City, "Kazan") {
		t.Errorf("city = %q; want transliterated Kazan", rec.Common.City)
	}
}

func TestAssembleKeepsFieldSetsDisjoint(t *testing.T) {
	a := NewAssembler(models.DealSale, false, false)

	author := models.AuthorInfo{Author: "Иван", AuthorType: models.AuthorHomeowner}
	common := models.CommonInfo{Link: "https://cian.ru/sale/flat/1/", DealType: models.DealSale}
	spec := models.SpecificationInfo{Floor: 3, FloorsCount: 9, RoomsCount: 2, TotalMeters: 50}
	price := models.PriceInfo{Kind: models.PriceSale, Amount: 5_000_000}
	location := models.LocationInfo{Address: "улица Ленина, 5"}

	rec := a.Assemble(author, common, spec, price, nil, location)

	if !reflect.DeepEqual(rec.Author, author) || !reflect.DeepEqual(rec.Spec, spec) {
		t.Error("assembly must compose the partial sets without altering them")
	}
	if rec.Price != price || rec.Common != common || rec.Location != location {
		t.Error("assembly must compose the partial sets without altering them")
	}
}
