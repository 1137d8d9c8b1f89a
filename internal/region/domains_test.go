package region

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectRetailer(t *testing.T) {
	tests := []struct {
		url    string
		want   string
		wantOK bool
	}{
		{"https://www.amazon.in/Apple-iPhone-16/dp/B0ABCDEFXY", "Amazon India", true},
		{"https://www.amazon.com/dp/B0ABCDEFXY", "Amazon", true},
		{"https://www.amazon.co.uk/dp/B0ABCDEFXY", "Amazon UK", true},
		{"https://www.flipkart.com/apple-iphone-16/p/itm123", "Flipkart", true},
		{"https://www.bestbuy.com/site/apple-iphone-16/6525421.p", "Best Buy", true},
		{"https://www.bestbuy.ca/en-ca/product/123", "Best Buy Canada", true},
		{"amzn.in/d/abc123", "Amazon", true},
		{"https://www.apple.com/shop/buy-iphone", "Apple Store", true},
		{"https://www.randomshop.example/product/1", "", false},
		{"not a url at all ::", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got, ok := DetectRetailer(tt.url)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
