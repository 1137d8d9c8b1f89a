// Package calendar holds static knowledge of recurring sale events and
// product release cycles, with nearest-future-event matching.
package calendar

import "strings"

// SaleEvent describes a recurring promotional event.
type SaleEvent struct {
	Name            string   `json:"name"`
	Retailer        string   `json:"retailer"`
	TypicalMonth    int      `json:"typicalMonth"`
	TypicalDuration string   `json:"typicalDuration"`
	AvgDiscount     string   `json:"avgDiscount"`
	Categories      []string `json:"categories"`
	Regions         []string `json:"regions"`
}

// ProductCycle describes a brand's typical release cadence.
type ProductCycle struct {
	Brand              string   `json:"brand"`
	ProductLine        string   `json:"productLine"`
	TypicalLaunchMonth int      `json:"typicalLaunchMonth"`
	AnnouncementOffset string   `json:"announcementOffset"`
	PriceDropAfterNew  string   `json:"priceDropAfterNew"`
	Keywords           []string `json:"-"`
}

// DefaultSaleWindow is how many months ahead an event still counts as
// "upcoming". Product policy, not a technical constraint.
const DefaultSaleWindow = 3

// NextSaleEvent returns the nearest upcoming sale event for a region, or nil
// if none falls within the default window.
func NextSaleEvent(currentMonth int, regionCode string) *SaleEvent {
	return NextSaleEventWithin(currentMonth, regionCode, DefaultSaleWindow)
}

// NextSaleEventWithin returns the nearest sale event whose circular forward
// distance from currentMonth is in (0, window] months. An event this month
// (distance 0) is not upcoming. Ties on distance resolve to the earlier table
// entry; the table order is a documented, stable ordering.
func NextSaleEventWithin(currentMonth int, regionCode string, window int) *SaleEvent {
	code := strings.ToUpper(strings.TrimSpace(regionCode))
	if code == "" {
		code = "US"
	}

	var best *SaleEvent
	bestDist := window + 1
	for i := range saleCalendar {
		ev := &saleCalendar[i]
		if !appliesTo(ev, code) {
			continue
		}
		dist := ((ev.TypicalMonth - currentMonth) + 12) % 12
		if dist == 0 || dist > window {
			continue
		}
		if dist < bestDist {
			bestDist = dist
			best = ev
		}
	}
	return best
}

func appliesTo(ev *SaleEvent, code string) bool {
	for _, r := range ev.Regions {
		if r == "ALL" || r == code {
			return true
		}
	}
	return false
}

// FindProductCycle matches a query against each cycle's keywords,
// case-insensitively, by substring. The first table entry that matches wins;
// table order is the tie-break and is stable.
func FindProductCycle(query string) *ProductCycle {
	q := strings.ToLower(query)
	for i := range productCycles {
		for _, kw := range productCycles[i].Keywords {
			if strings.Contains(q, kw) {
				return &productCycles[i]
			}
		}
	}
	return nil
}
