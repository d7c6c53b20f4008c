package cian

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"cian-scraper/models"
	"cian-scraper/services"
)

// Markers the summary-block extractor scans for. The site renders them as
// plain text inside heterogeneous markup, so extraction is keyword-anchored
// rather than selector-anchored.
const (
	rentPriceMarker = "₽/мес"
	salePriceMarker = "₽"
	areaUnitMarker  = "м²"
	floorMarker     = "этаж"
)

// authorMarkers in precedence order; the first marker found anywhere in
// the block decides the author type.
var authorMarkers = []struct {
	marker string
	kind   models.AuthorType
}{
	{"Агентство недвижимости", models.AuthorRealEstateAgent},
	{"Собственник", models.AuthorHomeowner},
	{"Риелтор", models.AuthorRealtor},
	{"Ук・оф.Представитель", models.AuthorOfficialRepresentative},
	{"Представитель застройщика", models.AuthorRepresentativeDev},
	{"Застройщик", models.AuthorDeveloper},
}

// extractLink returns the listing's own URL from the block's link area.
func extractLink(block *goquery.Selection) string {
	href, _ := block.Find("div[data-name='LinkArea']").First().
		Find("a").First().Attr("href")
	return href
}

// extractAuthor scans the block's text nodes for author-type markers in
// precedence order. The author name sits in the text node adjacent to the
// matched marker. A lone "ID" node classifies the listing as unknown; no
// marker at all leaves both fields empty.
func extractAuthor(block *goquery.Selection) models.AuthorInfo {
	var texts []string
	block.Find("div").First().Find("span").Each(func(_ int, span *goquery.Selection) {
		texts = append(texts, span.Text())
	})

	for _, m := range authorMarkers {
		for i, text := range texts {
			if !strings.Contains(text, m.marker) || i+1 >= len(texts) {
				continue
			}
			author := texts[i+1]
			if m.kind == models.AuthorRealEstateAgent {
				author = strings.TrimSpace(strings.ReplaceAll(author, ",", "."))
			}
			return models.AuthorInfo{Author: author, AuthorType: m.kind}
		}
	}

	for _, text := range texts {
		if strings.Contains(text, "ID") {
			return models.AuthorInfo{Author: text, AuthorType: models.AuthorUnknown}
		}
	}
	return models.AuthorInfo{}
}

// extractPrice reads the price variant from the block's info rows. The
// monthly-rent marker is checked before the flat-price marker because the
// rent marker contains the plain ruble sign. No marker at all is a soft
// outcome: the record is still emitted with the price unknown.
func extractPrice(block *goquery.Selection) models.PriceInfo {
	var price models.PriceInfo

	infoRows(block).EachWithBreak(func(_ int, row *goquery.Selection) bool {
		text := row.Text()

		if i := strings.Index(text, rentPriceMarker); i >= 0 {
			amount, ok := parseAmount(text[:i])
			if !ok {
				return true
			}
			price = models.PriceInfo{Kind: models.PriceRent, Amount: amount}
			if m := commissionRe.FindStringSubmatch(text); m != nil {
				if pct, ok := lastInt(m[1]); ok {
					price.Commissions = pct
				}
			}
			return false
		}

		if i := strings.Index(text, salePriceMarker); i >= 0 {
			if amount, ok := parseAmount(text[:i]); ok {
				price = models.PriceInfo{Kind: models.PriceSale, Amount: amount}
				return false
			}
		}
		return true
	})

	return price
}

// extractSpecification parses the numeric summary out of the block's title
// row. Every field degrades to the sentinel independently.
func extractSpecification(block *goquery.Selection) models.SpecificationInfo {
	title := infoRows(block).First().Text()

	spec := models.SpecificationInfo{
		Floor:       models.Sentinel,
		FloorsCount: models.Sentinel,
		RoomsCount:  services.RoomsFromText(title),
		TotalMeters: models.Sentinel,
	}

	if i := strings.Index(title, areaUnitMarker); i >= 0 {
		if v, ok := lastFloat(title[:i]); ok {
			spec.TotalMeters = v
		}
	}

	if i := strings.LastIndex(title, floorMarker); i >= 0 {
		segment := lastRunes(title[:i], 7)
		if parts := strings.SplitN(segment, "/", 2); len(parts) == 2 {
			if v, ok := lastInt(parts[0]); ok {
				spec.Floor = v
			}
			if v, ok := lastInt(parts[1]); ok {
				spec.FloorsCount = v
			}
		}
	}

	return spec
}

// extractLocation takes the best address fragment available: the last two
// comma-separated segments of the first info row mentioning the city.
// Richer decomposition (district, street, underground, residential
// complex) is left to a follow-on extractor.
func extractLocation(block *goquery.Selection, city string) models.LocationInfo {
	var loc models.LocationInfo

	infoRows(block).EachWithBreak(func(_ int, row *goquery.Selection) bool {
		text := row.Text()
		if !strings.Contains(text, city) {
			return true
		}
		segments := strings.Split(text, ",")
		if len(segments) > 2 {
			segments = segments[len(segments)-2:]
		}
		for i := range segments {
			segments[i] = strings.TrimSpace(segments[i])
		}
		loc.Address = strings.Join(segments, ", ")
		return false
	})

	return loc
}

// infoRows selects the general-info rows inside the block's link area.
func infoRows(block *goquery.Selection) *goquery.Selection {
	return block.Find("div[data-name='LinkArea']").First().
		Find("div[data-name='GeneralInfoSectionRowComponent']")
}

// lastRunes returns the trailing n runes of the text.
func lastRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[len(runes)-n:])
}
