package cian

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"cian-scraper/models"
	"cian-scraper/services"
)

// Detail-page markers. The site ships two markup generations: the current
// one exposes structured summary blocks, the older one only label/value
// text pairs. Both are handled.
const (
	kitchenMarker  = "Кухня"
	livingMarker   = "Жилая"
	detailFloorCap = "Этаж"
	floorOfMarker  = "из"
	builtMarker    = "Год постройки"
	handedMarker   = "Год сдачи"
	handoverPhrase = "сдача в"
	handedPhrase   = "сдан в"
	phonePrefix    = "+7"
)

// Enrich extracts supplemental fields from a listing's own page. It never
// fails: any field that cannot be parsed simply stays at its sentinel.
//
// The structured strategy runs first. When it leaves the year of
// construction, kitchen area and floor count all at the sentinel, the
// document is assumed to use the alternate markup shape and the
// label/value fallback re-scans it. The phone is re-derived from the raw
// document either way.
func Enrich(html string) *models.DetailInfo {
	detail := models.NewDetailInfo()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return detail
	}

	parseSummary(doc, detail)

	if detail.YearOfConstruction == models.Sentinel &&
		detail.KitchenMeters == models.Sentinel &&
		detail.FloorsCount == models.Sentinel {
		parseLabelValues(doc, detail)
	}

	if detail.Phone == "" {
		detail.Phone = phoneFromRaw(html)
	}
	return detail
}

// parseSummary is the primary, structured strategy.
func parseSummary(doc *goquery.Document, detail *models.DetailInfo) {
	summary := doc.Find("div[data-name='ObjectSummaryDescription']").First()
	if summary.Length() > 0 {
		text := summary.Text()

		// Values precede their labels in the summary block, so each area
		// is the last float-like token before its marker.
		if i := strings.Index(text, kitchenMarker); i >= 0 {
			if v, ok := lastFloat(text[:i]); ok {
				detail.KitchenMeters = v
			}
		}
		if i := strings.Index(text, livingMarker); i >= 0 {
			if v, ok := lastFloat(text[:i]); ok {
				detail.LivingMeters = v
			}
		}
		if i := strings.Index(text, detailFloorCap); i >= 0 && strings.Contains(text, floorOfMarker) {
			ints := allInts(text[:i])
			if len(ints) >= 2 {
				detail.Floor = ints[len(ints)-2]
				detail.FloorsCount = ints[len(ints)-1]
			}
		}
	}

	if contacts := doc.Find("div[data-name='OfferContactsAside']").First(); contacts.Length() > 0 {
		detail.Phone = phoneAfterPrefix(contacts.Text())
	}

	if title := doc.Find("div[data-name='OfferTitle']").First(); title.Length() > 0 {
		detail.RoomsCount = services.RoomsFromText(title.Text())
	}

	detail.YearOfConstruction = parseYear(doc)
}

// parseYear reads the year of construction from the dedicated
// construction-data block when present, otherwise from a handover-date
// phrase. Handover years are the first 4-digit token above 1000 so that
// quarter numbers in "сдача в 3 кв. 2024" are skipped.
func parseYear(doc *goquery.Document) int {
	if bti := doc.Find("div[data-name='BtiHouseData']").First(); bti.Length() > 0 {
		text := bti.Text()
		if i := strings.Index(text, builtMarker); i >= 0 {
			tail := []rune(text[i+len(builtMarker):])
			if len(tail) > 4 {
				tail = tail[:4]
			}
			if ints := allInts(string(tail)); len(ints) > 0 {
				return ints[0]
			}
		}
	}

	parent := doc.Find("div[data-name='Parent']").First()
	if parent.Length() == 0 {
		return models.Sentinel
	}
	text := parent.Text()

	for _, phrase := range []string{handoverPhrase, handedPhrase} {
		i := strings.Index(text, phrase)
		if i < 0 {
			continue
		}
		for _, n := range allInts(text[i+len(phrase):]) {
			if n > 1000 {
				return n
			}
		}
	}
	return models.Sentinel
}

// parseLabelValues is the fallback strategy: every recognized label is
// paired with the text of the immediately following text-bearing sibling.
func parseLabelValues(doc *goquery.Document, detail *models.DetailInfo) {
	spans := elementTexts(doc, "span")

	detail.YearOfConstruction = yearFromPairs(spans, builtMarker)
	if detail.YearOfConstruction == models.Sentinel {
		detail.YearOfConstruction = yearFromPairs(elementTexts(doc, "p"), builtMarker)
	}
	if detail.YearOfConstruction == models.Sentinel {
		detail.YearOfConstruction = yearFromPairs(spans, handedMarker)
	}

	if value, ok := valueAfterLabel(spans, "Площадь кухни"); ok {
		if v, ok := firstFloat(value); ok {
			detail.KitchenMeters = v
		}
	}
	if value, ok := valueAfterLabel(spans, "Жилая площадь"); ok {
		if v, ok := firstFloat(value); ok {
			detail.LivingMeters = v
		}
	}
	if value, ok := valueAfterLabel(spans, detailFloorCap); ok {
		// "5 из 9": exactly two integers, floor then floor count.
		if ints := allInts(value); len(ints) == 2 {
			detail.Floor = ints[0]
			detail.FloorsCount = ints[1]
		}
	}
}

func yearFromPairs(texts []string, label string) int {
	value, ok := valueAfterLabel(texts, label)
	if !ok {
		return models.Sentinel
	}
	for _, n := range allInts(value) {
		if n > 1000 {
			return n
		}
	}
	return models.Sentinel
}

// valueAfterLabel finds the first text containing the label and returns
// the text right after it.
func valueAfterLabel(texts []string, label string) (string, bool) {
	for i, text := range texts {
		if strings.Contains(text, label) && i+1 < len(texts) {
			return texts[i+1], true
		}
	}
	return "", false
}

func elementTexts(doc *goquery.Document, selector string) []string {
	var texts []string
	doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		texts = append(texts, sel.Text())
	})
	return texts
}

// phoneAfterPrefix takes the 16 characters following the "+7" prefix and
// strips separators.
func phoneAfterPrefix(text string) string {
	i := strings.Index(text, phonePrefix)
	if i < 0 {
		return ""
	}
	window := []rune(text[i:])
	if len(window) > 16 {
		window = window[:16]
	}
	return strings.ReplaceAll(spaceStripper.Replace(string(window)), "-", "")
}

// phoneFromRaw scans the raw document for a "+7" number; attribute quotes
// end the window early when the number sits inside markup.
func phoneFromRaw(html string) string {
	phone := phoneAfterPrefix(html)
	if j := strings.IndexByte(phone, '"'); j >= 0 {
		phone = phone[:j]
	}
	return phone
}
