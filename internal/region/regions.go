package region

// regionOrder fixes the order regions are reported in.
var regionOrder = []string{"IN", "US", "UK", "DE", "CA", "AU", "FR", "JP"}

// aliases map alternate codes onto canonical entries.
var aliases = map[string]string{
	"GB": "UK",
}

var regions = map[string]Config{
	"IN": {
		Code:           "IN",
		Name:           "India",
		Currency:       "INR",
		CurrencySymbol: "₹",
		Locale:         "en-IN",
		AmazonDomain:   "amazon.in",
		Retailers: []string{
			"Amazon India",
			"Flipkart",
			"Croma",
			"Reliance Digital",
			"Vijay Sales",
			"Tata Cliq",
		},
		builders: []urlBuilder{
			{"amazon india", "https://www.amazon.in/s?k=%s"},
			{"amazon", "https://www.amazon.in/s?k=%s"},
			{"flipkart", "https://www.flipkart.com/search?q=%s"},
			{"croma", "https://www.croma.com/searchB?q=%s"},
			{"reliance digital", "https://www.reliancedigital.in/search?q=%s"},
			{"vijay sales", "https://www.vijaysales.com/search/%s"},
			{"tata cliq", "https://www.tatacliq.com/search/?searchCategory=all&text=%s"},
			{"iplanet", "https://iplanet.one/search?q=%s"},
		},
	},

	"US": {
		Code:           "US",
		Name:           "United States",
		Currency:       "USD",
		CurrencySymbol: "$",
		Locale:         "en-US",
		AmazonDomain:   "amazon.com",
		Retailers: []string{
			"Amazon",
			"Best Buy",
			"Walmart",
			"Target",
			"B&H Photo",
			"Costco",
			"Newegg",
		},
		builders: []urlBuilder{
			{"amazon", "https://www.amazon.com/s?k=%s"},
			{"best buy", "https://www.bestbuy.com/site/searchpage.jsp?st=%s"},
			{"bestbuy", "https://www.bestbuy.com/site/searchpage.jsp?st=%s"},
			{"walmart", "https://www.walmart.com/search?q=%s"},
			{"target", "https://www.target.com/s?searchTerm=%s"},
			{"b&h photo", "https://www.bhphotovideo.com/c/search?q=%s"},
			{"b&h", "https://www.bhphotovideo.com/c/search?q=%s"},
			{"costco", "https://www.costco.com/CatalogSearch?dept=All&keyword=%s"},
			{"newegg", "https://www.newegg.com/p/pl?d=%s"},
		},
	},

	"UK": {
		Code:           "UK",
		Name:           "United Kingdom",
		Currency:       "GBP",
		CurrencySymbol: "£",
		Locale:         "en-GB",
		AmazonDomain:   "amazon.co.uk",
		Retailers: []string{
			"Amazon UK",
			"Currys",
			"Argos",
			"John Lewis",
			"Very",
			"AO.com",
		},
		builders: []urlBuilder{
			{"amazon uk", "https://www.amazon.co.uk/s?k=%s"},
			{"amazon", "https://www.amazon.co.uk/s?k=%s"},
			{"currys", "https://www.currys.co.uk/search/%s"},
			{"argos", "https://www.argos.co.uk/search/%s"},
			{"john lewis", "https://www.johnlewis.com/search?search-term=%s"},
			{"very", "https://www.very.co.uk/search/%s"},
			{"ao.com", "https://ao.com/search?q=%s"},
		},
	},

	"DE": {
		Code:           "DE",
		Name:           "Germany",
		Currency:       "EUR",
		CurrencySymbol: "€",
		Locale:         "de-DE",
		AmazonDomain:   "amazon.de",
		Retailers: []string{
			"Amazon Germany",
			"MediaMarkt",
			"Saturn",
			"Otto",
			"Cyberport",
			"Alternate",
		},
		builders: []urlBuilder{
			{"amazon germany", "https://www.amazon.de/s?k=%s"},
			{"amazon", "https://www.amazon.de/s?k=%s"},
			{"mediamarkt", "https://www.mediamarkt.de/de/search.html?query=%s"},
			{"saturn", "https://www.saturn.de/de/search.html?query=%s"},
			{"otto", "https://www.otto.de/suche/%s"},
			{"cyberport", "https://www.cyberport.de/?q=%s"},
			{"alternate", "https://www.alternate.de/listing.xhtml?q=%s"},
		},
	},

	"CA": {
		Code:           "CA",
		Name:           "Canada",
		Currency:       "CAD",
		CurrencySymbol: "CA$",
		Locale:         "en-CA",
		AmazonDomain:   "amazon.ca",
		Retailers: []string{
			"Amazon Canada",
			"Best Buy Canada",
			"Walmart Canada",
			"Canada Computers",
			"The Source",
		},
		builders: []urlBuilder{
			{"amazon canada", "https://www.amazon.ca/s?k=%s"},
			{"amazon", "https://www.amazon.ca/s?k=%s"},
			{"best buy canada", "https://www.bestbuy.ca/en-ca/search?search=%s"},
			{"best buy", "https://www.bestbuy.ca/en-ca/search?search=%s"},
			{"walmart canada", "https://www.walmart.ca/search?q=%s"},
			{"walmart", "https://www.walmart.ca/search?q=%s"},
			{"canada computers", "https://www.canadacomputers.com/search/results_details.php?keywords=%s"},
			{"the source", "https://www.thesource.ca/en-ca/search?text=%s"},
		},
	},

	"AU": {
		Code:           "AU",
		Name:           "Australia",
		Currency:       "AUD",
		CurrencySymbol: "A$",
		Locale:         "en-AU",
		AmazonDomain:   "amazon.com.au",
		Retailers: []string{
			"Amazon Australia",
			"JB Hi-Fi",
			"Harvey Norman",
			"The Good Guys",
			"Officeworks",
			"Kogan",
		},
		builders: []urlBuilder{
			{"amazon australia", "https://www.amazon.com.au/s?k=%s"},
			{"amazon", "https://www.amazon.com.au/s?k=%s"},
			{"jb hi-fi", "https://www.jbhifi.com.au/search?page=1&query=%s"},
			{"jb hifi", "https://www.jbhifi.com.au/search?page=1&query=%s"},
			{"harvey norman", "https://www.harveynorman.com.au/search?q=%s"},
			{"the good guys", "https://www.thegoodguys.com.au/SearchDisplay?searchTerm=%s"},
			{"officeworks", "https://www.officeworks.com.au/shop/officeworks/search?q=%s"},
			{"kogan", "https://www.kogan.com/au/shop/?q=%s"},
		},
	},

	"FR": {
		Code:           "FR",
		Name:           "France",
		Currency:       "EUR",
		CurrencySymbol: "€",
		Locale:         "fr-FR",
		AmazonDomain:   "amazon.fr",
		Retailers:      []string{"Amazon France", "Fnac", "Darty", "Boulanger", "Cdiscount"},
		builders: []urlBuilder{
			{"amazon france", "https://www.amazon.fr/s?k=%s"},
			{"amazon", "https://www.amazon.fr/s?k=%s"},
			{"fnac", "https://www.fnac.com/SearchResult/ResultList.aspx?Search=%s"},
			{"darty", "https://www.darty.com/nav/recherche?text=%s"},
			{"boulanger", "https://www.boulanger.com/resultats?tr=%s"},
			{"cdiscount", "https://www.cdiscount.com/search/10/%s.html"},
		},
	},

	"JP": {
		Code:           "JP",
		Name:           "Japan",
		Currency:       "JPY",
		CurrencySymbol: "¥",
		Locale:         "ja-JP",
		AmazonDomain:   "amazon.co.jp",
		Retailers: []string{
			"Amazon Japan",
			"Yodobashi Camera",
			"Bic Camera",
			"Kakaku.com",
			"Rakuten",
		},
		builders: []urlBuilder{
			{"amazon japan", "https://www.amazon.co.jp/s?k=%s"},
			{"amazon", "https://www.amazon.co.jp/s?k=%s"},
			{"yodobashi camera", "https://www.yodobashi.com/?word=%s"},
			{"yodobashi", "https://www.yodobashi.com/?word=%s"},
			{"bic camera", "https://www.biccamera.com/bc/category/?q=%s"},
			{"rakuten", "https://search.rakuten.co.jp/search/mall/%s"},
		},
	},
}
