package cian

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"cian-scraper/models"
)

func blockFromHTML(t *testing.T, html string) *goquery.Selection {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	block := doc.Find("article[data-name='CardComponent']")
	if block.Length() == 0 {
		t.Fatal("fixture has no listing block")
	}
	return block.First()
}

func summaryBlock(spans, rows string) string {
	return `<article data-name="CardComponent">
		<div>` + spans + `</div>
		<div data-name="LinkArea">
			<a href="https://kazan.cian.ru/sale/flat/287463900/"></a>
			` + rows + `
		</div>
	</article>`
}

func infoRow(text string) string {
	return `<div data-name="GeneralInfoSectionRowComponent">` + text + `</div>`
}

func TestExtractLink(t *testing.T) {
	block := blockFromHTML(t, summaryBlock("", infoRow("2-комн. кв., 54,2 м², 3/9 этаж")))
	got := extractLink(block)
	want := "https://kazan.cian.ru/sale/flat/287463900/"
	if got != want {
		t.Errorf("extractLink = %q; want %q", got, want)
	}
}

func TestExtractAuthorPrecedence(t *testing.T) {
	// An agency marker must win even when a homeowner marker appears first
	// in the block.
	spans := `<span>Собственник</span><span>Иван Петров</span>` +
		`<span>Агентство недвижимости</span><span>Этажи,</span>`
	block := blockFromHTML(t, summaryBlock(spans, ""))

	got := extractAuthor(block)
	if got.AuthorType != models.AuthorRealEstateAgent {
		t.Errorf("AuthorType = %q; want %q", got.AuthorType, models.AuthorRealEstateAgent)
	}
	if got.Author != "Этажи." {
		t.Errorf("Author = %q; want %q", got.Author, "Этажи.")
	}
}

func TestExtractAuthorTypes(t *testing.T) {
	tests := []struct {
		name  string
		spans string
		want  models.AuthorType
	}{
		{"homeowner", `<span>Собственник</span><span>Иван</span>`, models.AuthorHomeowner},
		{"realtor", `<span>Риелтор</span><span>Мария</span>`, models.AuthorRealtor},
		{"developer", `<span>Застройщик</span><span>ПИК</span>`, models.AuthorDeveloper},
		{"representative", `<span>Представитель застройщика</span><span>ПИК</span>`, models.AuthorRepresentativeDev},
		{"unknown via id", `<span>ID 12345</span>`, models.AuthorUnknown},
	}

	for _, tt := range tests {
		block := blockFromHTML(t, summaryBlock(tt.spans, ""))
		got := extractAuthor(block)
		if got.AuthorType != tt.want {
			t.Errorf("%s: AuthorType = %q; want %q", tt.name, got.AuthorType, tt.want)
		}
	}
}

func TestExtractAuthorNoMarker(t *testing.T) {
	block := blockFromHTML(t, summaryBlock(`<span>Просто текст</span>`, ""))
	got := extractAuthor(block)
	if got.Author != "" || got.AuthorType != "" {
		t.Errorf("expected empty author info, got %+v", got)
	}
}

func TestExtractPriceSale(t *testing.T) {
	block := blockFromHTML(t, summaryBlock("", infoRow("12 500 000 ₽")))
	got := extractPrice(block)

	if got.Kind != models.PriceSale {
		t.Fatalf("Kind = %v; want PriceSale", got.Kind)
	}
	if got.Amount != 12500000 {
		t.Errorf("Amount = %d; want 12500000", got.Amount)
	}
}

func TestExtractPriceRentWithCommission(t *testing.T) {
	block := blockFromHTML(t, summaryBlock("", infoRow("45 000 ₽/мес, комиссия 50%")))
	got := extractPrice(block)

	if got.Kind != models.PriceRent {
		t.Fatalf("Kind = %v; want PriceRent", got.Kind)
	}
	if got.Amount != 45000 {
		t.Errorf("Amount = %d; want 45000", got.Amount)
	}
	if got.Commissions != 50 {
		t.Errorf("Commissions = %d; want 50", got.Commissions)
	}
}

func TestExtractPriceAbsent(t *testing.T) {
	block := blockFromHTML(t, summaryBlock("", infoRow("2-комн. кв., 54,2 м², 3/9 этаж")))
	got := extractPrice(block)
	if got.Kind != models.PriceNone {
		t.Errorf("Kind = %v; want PriceNone", got.Kind)
	}
}

func TestExtractSpecification(t *testing.T) {
	block := blockFromHTML(t, summaryBlock("", infoRow("2-комн. кв., 54,2 м², 3/9 этаж")))
	got := extractSpecification(block)

	if got.TotalMeters != 54.2 {
		t.Errorf("TotalMeters = %v; want 54.2", got.TotalMeters)
	}
	if got.Floor != 3 {
		t.Errorf("Floor = %d; want 3", got.Floor)
	}
	if got.FloorsCount != 9 {
		t.Errorf("FloorsCount = %d; want 9", got.FloorsCount)
	}
	if got.RoomsCount != 2 {
		t.Errorf("RoomsCount = %d; want 2", got.RoomsCount)
	}
}

func TestExtractSpecificationNoiseBeforeArea(t *testing.T) {
	// A leading listing counter must not be mistaken for the area: the
	// last float-like token before the unit marker wins.
	block := blockFromHTML(t, summaryBlock("", infoRow("Объявление 17 из 515. Студия, 28,6 м², 12/24 этаж")))
	got := extractSpecification(block)

	if got.TotalMeters != 28.6 {
		t.Errorf("TotalMeters = %v; want 28.6", got.TotalMeters)
	}
	if got.RoomsCount != 1 {
		t.Errorf("RoomsCount = %d; want 1 (studio)", got.RoomsCount)
	}
}

func TestExtractSpecificationSentinels(t *testing.T) {
	block := blockFromHTML(t, summaryBlock("", infoRow("Машиноместо в паркинге")))
	got := extractSpecification(block)

	if got.TotalMeters != models.Sentinel {
		t.Errorf("TotalMeters = %v; want sentinel", got.TotalMeters)
	}
	if got.Floor != models.Sentinel || got.FloorsCount != models.Sentinel {
		t.Errorf("floor fields = %d/%d; want sentinels", got.Floor, got.FloorsCount)
	}
	if got.RoomsCount != models.Sentinel {
		t.Errorf("RoomsCount = %d; want sentinel", got.RoomsCount)
	}
}

func TestExtractSpecificationMalformedFloor(t *testing.T) {
	block := blockFromHTML(t, summaryBlock("", infoRow("1-комн. кв., 33 м², мансардный этаж")))
	got := extractSpecification(block)

	if got.Floor != models.Sentinel || got.FloorsCount != models.Sentinel {
		t.Errorf("floor fields = %d/%d; want sentinels for missing separator", got.Floor, got.FloorsCount)
	}
	if got.TotalMeters != 33 {
		t.Errorf("TotalMeters = %v; want 33", got.TotalMeters)
	}
}

func TestExtractLocation(t *testing.T) {
	rows := infoRow("2-комн. кв., 54,2 м², 3/9 этаж") +
		infoRow("Казань, Вахитовский р-н, улица Баумана, 1")
	block := blockFromHTML(t, summaryBlock("", rows))

	got := extractLocation(block, "Казань")
	want := "улица Баумана, 1"
	if got.Address != want {
		t.Errorf("Address = %q; want %q", got.Address, want)
	}
}

func TestExtractLocationCityNotMentioned(t *testing.T) {
	block := blockFromHTML(t, summaryBlock("", infoRow("2-комн. кв., 54,2 м², 3/9 этаж")))
	got := extractLocation(block, "Казань")
	if got.Address != "" {
		t.Errorf("Address = %q; want empty", got.Address)
	}
}
