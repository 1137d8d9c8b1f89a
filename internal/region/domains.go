package region

import (
	"net/url"
	"strings"
)

// retailerDomain maps a hostname fragment to a retailer display name. Ordered
// most-specific first so amazon.in wins over the generic amazon match.
type retailerDomain struct {
	fragment string
	name     string
}

var retailerDomains = []retailerDomain{
	{"amazon.in", "Amazon India"},
	{"amazon.co.uk", "Amazon UK"},
	{"amazon.de", "Amazon Germany"},
	{"amazon.ca", "Amazon Canada"},
	{"amazon.com.au", "Amazon Australia"},
	{"amazon.co.jp", "Amazon Japan"},
	{"amazon.fr", "Amazon France"},
	{"amazon.", "Amazon"},
	{"amzn.", "Amazon"},
	{"flipkart.com", "Flipkart"},
	{"fkrt.it", "Flipkart"},
	{"croma.com", "Croma"},
	{"reliancedigital.in", "Reliance Digital"},
	{"vijaysales.com", "Vijay Sales"},
	{"tatacliq.com", "Tata Cliq"},
	{"bestbuy.ca", "Best Buy Canada"},
	{"bestbuy.com", "Best Buy"},
	{"walmart.ca", "Walmart Canada"},
	{"walmart.com", "Walmart"},
	{"target.com", "Target"},
	{"bhphotovideo.com", "B&H Photo"},
	{"costco.com", "Costco"},
	{"newegg.com", "Newegg"},
	{"currys.co.uk", "Currys"},
	{"argos.co.uk", "Argos"},
	{"johnlewis.com", "John Lewis"},
	{"very.co.uk", "Very"},
	{"ao.com", "AO.com"},
	{"mediamarkt.", "MediaMarkt"},
	{"saturn.de", "Saturn"},
	{"otto.de", "Otto"},
	{"cyberport.de", "Cyberport"},
	{"alternate.de", "Alternate"},
	{"fnac.com", "Fnac"},
	{"darty.com", "Darty"},
	{"boulanger.com", "Boulanger"},
	{"cdiscount.com", "Cdiscount"},
	{"jbhifi.com.au", "JB Hi-Fi"},
	{"harveynorman.com.au", "Harvey Norman"},
	{"thegoodguys.com.au", "The Good Guys"},
	{"officeworks.com.au", "Officeworks"},
	{"kogan.com", "Kogan"},
	{"canadacomputers.com", "Canada Computers"},
	{"thesource.ca", "The Source"},
	{"yodobashi.com", "Yodobashi Camera"},
	{"biccamera.com", "Bic Camera"},
	{"rakuten.co.jp", "Rakuten"},
	{"apple.com", "Apple Store"},
	{"samsung.com", "Samsung"},
	{"store.google.com", "Google Store"},
}

// DetectRetailer returns the retailer display name implied by a product URL,
// or false if the host matches no known retailer domain.
func DetectRetailer(rawURL string) (string, bool) {
	host := hostOf(rawURL)
	if host == "" {
		return "", false
	}
	for _, rd := range retailerDomains {
		if strings.Contains(host, rd.fragment) {
			return rd.name, true
		}
	}
	return "", false
}

func hostOf(rawURL string) string {
	if !strings.Contains(rawURL, "://") {
		rawURL = "https://" + rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}
