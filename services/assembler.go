package services

import (
	"strconv"

	"github.com/mozillazg/go-unidecode"

	"cian-scraper/models"
)

// fieldOwners restricts a column to specific deal types. Columns absent
// from this table are shared by every deal type and always kept.
var fieldOwners = map[string][]models.DealType{
	"price":           {models.DealSale},
	"price_per_month": {models.DealRentLong, models.DealRentShort},
	"commissions":     {models.DealRentLong},
}

// Assembler merges the partial field sets produced by the extractors into
// one Record and flattens admitted Records into export rows pruned to the
// active deal type's schema.
type Assembler struct {
	dealType    models.DealType
	withDetails bool
	latin       bool
	columns     []string
}

// NewAssembler builds an assembler for one crawl run. withDetails widens
// the schema with the enrichment columns; latin transliterates Cyrillic
// text fields on assembly.
func NewAssembler(dealType models.DealType, withDetails, latin bool) *Assembler {
	a := &Assembler{dealType: dealType, withDetails: withDetails, latin: latin}
	a.columns = a.buildColumns()
	return a
}

// Assemble merges the disjoint partial field sets into one Record. No set
// produces a key owned by another, so the merge is a plain composition;
// overriding happens upstream via the explicit refinement rule, never
// here.
func (a *Assembler) Assemble(author models.AuthorInfo, common models.CommonInfo,
	spec models.SpecificationInfo, price models.PriceInfo,
	detail *models.DetailInfo, location models.LocationInfo) *models.Record {

	if a.latin {
		author.Author = unidecode.Unidecode(author.Author)
		common.City = unidecode.Unidecode(common.City)
		location.Address = unidecode.Unidecode(location.Address)
		location.District = unidecode.Unidecode(location.District)
		location.Street = unidecode.Unidecode(location.Street)
		location.Underground = unidecode.Unidecode(location.Underground)
		location.ResidentialComplex = unidecode.Unidecode(location.ResidentialComplex)
	}

	return &models.Record{
		Author:   author,
		Common:   common,
		Spec:     spec,
		Price:    price,
		Detail:   detail,
		Location: location,
	}
}

// Columns is the export header. It is fixed for the whole run; every row
// must match it exactly.
func (a *Assembler) Columns() []string {
	return a.columns
}

func (a *Assembler) buildColumns() []string {
	cols := []string{
		"author", "author_type", "link", "city", "deal_type", "accommodation_type",
		"floor", "floors_count", "rooms_count", "total_meters",
	}
	for _, c := range []string{"price", "price_per_month", "commissions", "price_per_m2"} {
		if a.keeps(c) {
			cols = append(cols, c)
		}
	}
	if a.withDetails {
		cols = append(cols, "year_of_construction", "living_meters", "kitchen_meters", "phone")
	}
	return append(cols, "address")
}

// keeps reports whether the active deal type owns the column.
func (a *Assembler) keeps(column string) bool {
	owners, restricted := fieldOwners[column]
	if !restricted {
		return true
	}
	for _, owner := range owners {
		if owner == a.dealType {
			return true
		}
	}
	return false
}

// Row flattens a Record into export values, in Columns order.
func (a *Assembler) Row(rec *models.Record) []string {
	row := []string{
		rec.Author.Author,
		string(rec.Author.AuthorType),
		rec.Common.Link,
		rec.Common.City,
		string(rec.Common.DealType),
		rec.Common.AccommodationType,
		itoa(rec.Spec.Floor),
		itoa(rec.Spec.FloorsCount),
		itoa(rec.Spec.RoomsCount),
		ftoa(rec.Spec.TotalMeters),
	}

	if a.keeps("price") {
		row = append(row, itoa(priceValue(rec.Price, models.PriceSale)))
	}
	if a.keeps("price_per_month") {
		row = append(row, itoa(priceValue(rec.Price, models.PriceRent)))
	}
	if a.keeps("commissions") {
		row = append(row, itoa(rec.Price.Commissions))
	}
	row = append(row, itoa(rec.Price.PricePerM2))

	if a.withDetails {
		detail := rec.Detail
		if detail == nil {
			detail = models.NewDetailInfo()
		}
		row = append(row,
			itoa(detail.YearOfConstruction),
			ftoa(detail.LivingMeters),
			ftoa(detail.KitchenMeters),
			detail.Phone,
		)
	}

	return append(row, rec.Location.Address)
}

// priceValue returns the amount when the record's variant matches the
// wanted kind, the sentinel otherwise.
func priceValue(price models.PriceInfo, want models.PriceKind) int {
	if price.Kind == want {
		return price.Amount
	}
	return models.Sentinel
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
