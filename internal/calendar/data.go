package calendar

// saleCalendar lists recurring sale events. Order is significant: it is the
// tie-break when two events are equally distant.
var saleCalendar = []SaleEvent{
	// Global
	{
		Name:            "Black Friday / Cyber Monday",
		Retailer:        "All",
		TypicalMonth:    11,
		TypicalDuration: "4-7 days",
		AvgDiscount:     "15-50% on electronics, 30-60% on fashion",
		Categories:      []string{"smartphones", "laptops", "electronics", "gaming", "fashion", "home"},
		Regions:         []string{"ALL"},
	},
	{
		Name:            "New Year Sales",
		Retailer:        "All",
		TypicalMonth:    12,
		TypicalDuration: "7-14 days",
		AvgDiscount:     "10-30% end-of-year clearance",
		Categories:      []string{"electronics", "fashion", "home"},
		Regions:         []string{"ALL"},
	},

	// India
	{
		Name:            "Amazon Great Republic Day Sale",
		Retailer:        "Amazon India",
		TypicalMonth:    1,
		TypicalDuration: "5-7 days",
		AvgDiscount:     "10-40% on electronics, 30-60% on fashion",
		Categories:      []string{"smartphones", "laptops", "electronics", "fashion"},
		Regions:         []string{"IN"},
	},
	{
		Name:            "Flipkart Republic Day Sale",
		Retailer:        "Flipkart",
		TypicalMonth:    1,
		TypicalDuration: "5-7 days",
		AvgDiscount:     "10-40% on electronics",
		Categories:      []string{"smartphones", "laptops", "electronics", "fashion"},
		Regions:         []string{"IN"},
	},
	{
		Name:            "Flipkart Big Saving Days",
		Retailer:        "Flipkart",
		TypicalMonth:    5,
		TypicalDuration: "5-6 days",
		AvgDiscount:     "15-35% on electronics",
		Categories:      []string{"smartphones", "laptops", "electronics"},
		Regions:         []string{"IN"},
	},
	{
		Name:            "Amazon Prime Day",
		Retailer:        "Amazon",
		TypicalMonth:    7,
		TypicalDuration: "2-3 days",
		AvgDiscount:     "15-40% on electronics, exclusive Prime deals",
		Categories:      []string{"smartphones", "laptops", "electronics", "home"},
		Regions:         []string{"IN", "US", "UK", "DE", "CA", "AU", "FR", "JP"},
	},
	{
		Name:            "Flipkart Big Billion Days",
		Retailer:        "Flipkart",
		TypicalMonth:    10,
		TypicalDuration: "7-10 days",
		AvgDiscount:     "20-50% — biggest Flipkart sale",
		Categories:      []string{"smartphones", "laptops", "electronics", "home", "fashion"},
		Regions:         []string{"IN"},
	},
	{
		Name:            "Amazon Great Indian Festival",
		Retailer:        "Amazon India",
		TypicalMonth:    10,
		TypicalDuration: "7-10 days",
		AvgDiscount:     "20-50% — biggest sale of the year",
		Categories:      []string{"smartphones", "laptops", "electronics", "home", "fashion"},
		Regions:         []string{"IN"},
	},
	{
		Name:            "Diwali Sales (multi-retailer)",
		Retailer:        "All",
		TypicalMonth:    11,
		TypicalDuration: "2-3 weeks",
		AvgDiscount:     "15-40% across categories",
		Categories:      []string{"electronics", "home", "fashion"},
		Regions:         []string{"IN"},
	},

	// US
	{
		Name:            "Presidents' Day Sales",
		Retailer:        "All",
		TypicalMonth:    2,
		TypicalDuration: "3-5 days",
		AvgDiscount:     "10-30% on appliances, TVs, mattresses",
		Categories:      []string{"electronics", "home", "appliances"},
		Regions:         []string{"US"},
	},
	{
		Name:            "Memorial Day Sales",
		Retailer:        "All",
		TypicalMonth:    5,
		TypicalDuration: "4-7 days",
		AvgDiscount:     "15-40% on appliances, outdoor, electronics",
		Categories:      []string{"home", "appliances", "electronics", "outdoor"},
		Regions:         []string{"US"},
	},
	{
		Name:            "4th of July Sales",
		Retailer:        "All",
		TypicalMonth:    7,
		TypicalDuration: "3-5 days",
		AvgDiscount:     "10-25% on electronics",
		Categories:      []string{"electronics", "home", "outdoor"},
		Regions:         []string{"US"},
	},
	{
		Name:            "Labor Day Sales",
		Retailer:        "All",
		TypicalMonth:    9,
		TypicalDuration: "4-7 days",
		AvgDiscount:     "15-35% on electronics, appliances",
		Categories:      []string{"electronics", "appliances", "home"},
		Regions:         []string{"US"},
	},

	// UK
	{
		Name:            "Boxing Day Sales",
		Retailer:        "All",
		TypicalMonth:    12,
		TypicalDuration: "5-10 days",
		AvgDiscount:     "20-50% across categories",
		Categories:      []string{"electronics", "fashion", "home", "gaming"},
		Regions:         []string{"UK", "CA", "AU"},
	},
	{
		Name:            "January Sales",
		Retailer:        "All",
		TypicalMonth:    1,
		TypicalDuration: "2-4 weeks",
		AvgDiscount:     "20-50% clearance",
		Categories:      []string{"electronics", "fashion", "home"},
		Regions:         []string{"UK"},
	},
	{
		Name:            "Bank Holiday Sales",
		Retailer:        "All",
		TypicalMonth:    5,
		TypicalDuration: "3-4 days",
		AvgDiscount:     "10-30%",
		Categories:      []string{"electronics", "home", "fashion"},
		Regions:         []string{"UK"},
	},

	// Germany / EU
	{
		Name:            "Winterschlussverkauf (Winter Sale)",
		Retailer:        "All",
		TypicalMonth:    1,
		TypicalDuration: "2-4 weeks",
		AvgDiscount:     "20-50% clearance",
		Categories:      []string{"fashion", "electronics", "home"},
		Regions:         []string{"DE", "FR"},
	},
	{
		Name:            "Sommerschlussverkauf (Summer Sale)",
		Retailer:        "All",
		TypicalMonth:    7,
		TypicalDuration: "2-4 weeks",
		AvgDiscount:     "20-50% clearance",
		Categories:      []string{"fashion", "electronics", "home"},
		Regions:         []string{"DE", "FR"},
	},

	// Japan
	{
		Name:            "New Year Fukubukuro Sales",
		Retailer:        "All",
		TypicalMonth:    1,
		TypicalDuration: "1-2 weeks",
		AvgDiscount:     "30-60% mystery bags + clearance",
		Categories:      []string{"electronics", "fashion", "home"},
		Regions:         []string{"JP"},
	},
	{
		Name:            "Golden Week Sales",
		Retailer:        "All",
		TypicalMonth:    5,
		TypicalDuration: "7-10 days",
		AvgDiscount:     "10-30%",
		Categories:      []string{"electronics", "fashion", "home"},
		Regions:         []string{"JP"},
	},

	// Australia
	{
		Name:            "EOFY Sales (End of Financial Year)",
		Retailer:        "All",
		TypicalMonth:    6,
		TypicalDuration: "2-3 weeks",
		AvgDiscount:     "20-50% tax-time clearance",
		Categories:      []string{"electronics", "laptops", "home", "appliances"},
		Regions:         []string{"AU"},
	},
	{
		Name:            "Click Frenzy",
		Retailer:        "All",
		TypicalMonth:    11,
		TypicalDuration: "2-3 days",
		AvgDiscount:     "15-40% on electronics",
		Categories:      []string{"electronics", "fashion", "home"},
		Regions:         []string{"AU"},
	},
}

// productCycles lists release cadences for major brands. Order is significant:
// the first keyword match wins.
var productCycles = []ProductCycle{
	// Apple
	{
		Brand:              "Apple",
		ProductLine:        "iPhone",
		TypicalLaunchMonth: 9,
		AnnouncementOffset: "Early September event",
		PriceDropAfterNew:  "15-25% within 2 months",
		Keywords:           []string{"iphone"},
	},
	{
		Brand:              "Apple",
		ProductLine:        "MacBook Pro",
		TypicalLaunchMonth: 10,
		AnnouncementOffset: "October or November event",
		PriceDropAfterNew:  "10-20% on previous gen",
		Keywords:           []string{"macbook pro"},
	},
	{
		Brand:              "Apple",
		ProductLine:        "MacBook Air",
		TypicalLaunchMonth: 3,
		AnnouncementOffset: "March event or WWDC",
		PriceDropAfterNew:  "10-15% on previous gen",
		Keywords:           []string{"macbook air"},
	},
	{
		Brand:              "Apple",
		ProductLine:        "iPad",
		TypicalLaunchMonth: 3,
		AnnouncementOffset: "March-May event",
		PriceDropAfterNew:  "15-25% on previous gen",
		Keywords:           []string{"ipad"},
	},
	{
		Brand:              "Apple",
		ProductLine:        "Apple Watch",
		TypicalLaunchMonth: 9,
		AnnouncementOffset: "September event with iPhone",
		PriceDropAfterNew:  "20-30% on previous gen",
		Keywords:           []string{"apple watch"},
	},
	{
		Brand:              "Apple",
		ProductLine:        "AirPods",
		TypicalLaunchMonth: 9,
		AnnouncementOffset: "September event, every 2 years",
		PriceDropAfterNew:  "15-20% on previous gen",
		Keywords:           []string{"airpods"},
	},

	// Samsung
	{
		Brand:              "Samsung",
		ProductLine:        "Galaxy S",
		TypicalLaunchMonth: 1,
		AnnouncementOffset: "January Unpacked event",
		PriceDropAfterNew:  "20-30% within 3 months",
		Keywords:           []string{"galaxy s", "samsung s"},
	},
	{
		Brand:              "Samsung",
		ProductLine:        "Galaxy Fold/Flip",
		TypicalLaunchMonth: 7,
		AnnouncementOffset: "July Unpacked event",
		PriceDropAfterNew:  "25-35% within 3 months",
		Keywords:           []string{"galaxy fold", "galaxy flip", "galaxy z"},
	},
	{
		Brand:              "Samsung",
		ProductLine:        "Galaxy A (mid-range)",
		TypicalLaunchMonth: 3,
		AnnouncementOffset: "March-April",
		PriceDropAfterNew:  "10-20%",
		Keywords:           []string{"galaxy a"},
	},

	// Google
	{
		Brand:              "Google",
		ProductLine:        "Pixel",
		TypicalLaunchMonth: 10,
		AnnouncementOffset: "October Made by Google event",
		PriceDropAfterNew:  "20-30% on previous gen",
		Keywords:           []string{"pixel"},
	},
	{
		Brand:              "Google",
		ProductLine:        "Pixel A",
		TypicalLaunchMonth: 5,
		AnnouncementOffset: "Google I/O (May)",
		PriceDropAfterNew:  "15-20%",
		Keywords:           []string{"pixel a"},
	},

	// OnePlus
	{
		Brand:              "OnePlus",
		ProductLine:        "OnePlus (flagship)",
		TypicalLaunchMonth: 3,
		AnnouncementOffset: "March launch event",
		PriceDropAfterNew:  "15-25%",
		Keywords:           []string{"oneplus"},
	},
	{
		Brand:              "OnePlus",
		ProductLine:        "OnePlus T/Pro",
		TypicalLaunchMonth: 8,
		AnnouncementOffset: "August-September",
		PriceDropAfterNew:  "15-20%",
		Keywords:           []string{"oneplus"},
	},

	// Consoles
	{
		Brand:              "Sony",
		ProductLine:        "PlayStation",
		TypicalLaunchMonth: 11,
		AnnouncementOffset: "Varies (E3/TGS)",
		PriceDropAfterNew:  "Price cuts announced at events",
		Keywords:           []string{"playstation", "ps5", "ps6"},
	},
	{
		Brand:              "Microsoft",
		ProductLine:        "Xbox",
		TypicalLaunchMonth: 11,
		AnnouncementOffset: "Xbox Showcase (June)",
		PriceDropAfterNew:  "Holiday bundles common",
		Keywords:           []string{"xbox"},
	},

	// Laptops
	{
		Brand:              "Lenovo",
		ProductLine:        "ThinkPad/IdeaPad",
		TypicalLaunchMonth: 1,
		AnnouncementOffset: "CES (January)",
		PriceDropAfterNew:  "10-20% on previous gen",
		Keywords:           []string{"thinkpad", "ideapad", "lenovo"},
	},
	{
		Brand:              "Dell",
		ProductLine:        "XPS/Inspiron",
		TypicalLaunchMonth: 1,
		AnnouncementOffset: "CES (January)",
		PriceDropAfterNew:  "10-20% on previous gen",
		Keywords:           []string{"xps", "dell", "inspiron"},
	},
	{
		Brand:              "ASUS",
		ProductLine:        "ROG/ZenBook",
		TypicalLaunchMonth: 1,
		AnnouncementOffset: "CES (January) + Computex (May)",
		PriceDropAfterNew:  "15-25% on previous gen",
		Keywords:           []string{"rog", "zenbook", "asus"},
	},
}
