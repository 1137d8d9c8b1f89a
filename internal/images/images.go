// Package images scores candidate product images returned alongside web
// search results and picks the most likely clean product photo. Pure
// functions, no I/O.
package images

import (
	"strings"
)

// Candidate is an image under consideration.
type Candidate struct {
	URL       string
	OriginURL string
	Title     string
}

// Origins that overwhelmingly yield thumbnails or lifestyle shots rather than
// product photos.
var videoSocialOrigins = []string{
	"youtube.com", "youtu.be", "vimeo.com", "tiktok.com",
	"instagram.com", "facebook.com", "twitter.com", "x.com",
	"pinterest.", "reddit.com",
}

var blogNewsOrigins = []string{
	"medium.com", "blogspot.", "wordpress.", "substack.com",
	"news.", "theverge.com", "engadget.com", "techcrunch.com",
	"cnet.com", "techradar.com", "tomsguide.com", "gadgets360",
}

var manufacturerOrigins = []string{
	"apple.com", "samsung.com", "store.google.com", "sony.com", "sony.co",
	"microsoft.com", "oneplus.com", "oneplus.in", "dell.com", "lenovo.com",
	"hp.com", "dyson.", "bose.com", "nintendo.com", "playstation.com", "asus.com",
}

var retailerOrigins = []string{
	"amazon.", "flipkart.com", "croma.com", "reliancedigital.in",
	"vijaysales.com", "tatacliq.com", "bestbuy.", "walmart.",
	"target.com", "bhphotovideo.com", "costco.com", "newegg.com",
	"currys.co.uk", "argos.co.uk", "johnlewis.com", "mediamarkt.",
	"jbhifi.com.au", "harveynorman.", "fnac.com", "yodobashi.com",
}

var specSiteOrigins = []string{
	"gsmarena.com", "smartprix.com", "91mobiles.com", "kimovil.com",
	"versus.com", "productz.com", "gadgetversus.com",
}

// Retailer image CDNs. Images hosted here are usually catalog renders.
var retailerCDNFragments = []string{
	"m.media-amazon.com", "images-na.ssl-images-amazon.com",
	"rukminim", // Flipkart CDN
	"pisces.bbystatic.com", "i5.walmartimages.com", "target.scene7.com",
}

var titleNoiseWords = []string{"review", "unboxing", "vs", "hands-on", "lifestyle"}

// Pick returns the URL of the highest-scoring candidate, or false if no
// candidate scores strictly positive. No image beats a likely-wrong one.
func Pick(candidates []Candidate) (string, bool) {
	bestScore := 0
	bestURL := ""
	for _, c := range candidates {
		if c.URL == "" {
			continue
		}
		if s := Score(c); s > bestScore {
			bestScore = s
			bestURL = c.URL
		}
	}
	if bestURL == "" {
		return "", false
	}
	return bestURL, true
}

// Score computes the additive score for one candidate.
func Score(c Candidate) int {
	origin := strings.ToLower(c.OriginURL)
	imageURL := strings.ToLower(c.URL)
	title := strings.ToLower(c.Title)

	score := 0

	switch {
	case containsAny(origin, videoSocialOrigins):
		score -= 18
	case containsAny(origin, blogNewsOrigins):
		score -= 5
	case containsAny(origin, manufacturerOrigins):
		score += 15
	case containsAny(origin, retailerOrigins):
		score += 10
	case containsAny(origin, specSiteOrigins):
		score += 8
	}

	if containsAny(title, titleNoiseWords) {
		score -= 5
	}

	// Structural hints in the image URL itself.
	if strings.Contains(imageURL, "/product/") || strings.Contains(imageURL, "/products/") {
		score += 5
	}
	if strings.Contains(imageURL, "/images/i/") {
		score += 3
	}
	if containsAny(imageURL, retailerCDNFragments) {
		score += 8
	}

	// Format hints. Transparent-background renders are commonly PNG.
	if strings.HasSuffix(stripQuery(imageURL), ".png") {
		score += 4
	}
	if containsAny(imageURL, []string{"_sl1500_", "_sl2000_", "1500x", "2000x", "large"}) {
		score += 3
	}
	if containsAny(imageURL, []string{"thumb", "_ss40_", "_sx38_", "icon", "50x50", "100x100"}) {
		score -= 6
	}

	return score
}

func containsAny(s string, fragments []string) bool {
	for _, f := range fragments {
		if strings.Contains(s, f) {
			return true
		}
	}
	return false
}

func stripQuery(u string) string {
	if i := strings.IndexByte(u, '?'); i >= 0 {
		return u[:i]
	}
	return u
}
