package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextSaleEvent(t *testing.T) {
	t.Run("event this month is not upcoming", func(t *testing.T) {
		// September in the US: Labor Day is month 9 (dist 0, excluded),
		// Black Friday is month 11 (dist 2, eligible).
		ev := NextSaleEvent(9, "US")
		require.NotNil(t, ev)
		assert.Equal(t, "Black Friday / Cyber Monday", ev.Name)
	})

	t.Run("events beyond the window are excluded", func(t *testing.T) {
		// March in the US: next events are Memorial Day (5, dist 2).
		ev := NextSaleEvent(3, "US")
		require.NotNil(t, ev)
		assert.Equal(t, "Memorial Day Sales", ev.Name)

		// October in Japan: nothing within 3 months until New Year
		// Fukubukuro in January (dist 3)... Black Friday (11, dist 1) is
		// global, so it wins.
		ev = NextSaleEvent(10, "JP")
		require.NotNil(t, ev)
		assert.Equal(t, "Black Friday / Cyber Monday", ev.Name)
	})

	t.Run("circular wrap across year end", func(t *testing.T) {
		// December in the UK: January Sales wrap around (dist 1).
		ev := NextSaleEvent(12, "UK")
		require.NotNil(t, ev)
		assert.Equal(t, "January Sales", ev.Name)
	})

	t.Run("no event in window returns nil", func(t *testing.T) {
		// February in Japan: Golden Week is May (dist 3)... eligible.
		// Use a 1-month window instead to force a miss.
		ev := NextSaleEventWithin(2, "JP", 1)
		assert.Nil(t, ev)
	})

	t.Run("region filter applies", func(t *testing.T) {
		// August in India: Big Billion Days (10, dist 2).
		ev := NextSaleEvent(8, "IN")
		require.NotNil(t, ev)
		assert.Equal(t, "Flipkart Big Billion Days", ev.Name)

		// August in the US: Labor Day (9, dist 1).
		ev = NextSaleEvent(8, "US")
		require.NotNil(t, ev)
		assert.Equal(t, "Labor Day Sales", ev.Name)
	})

	t.Run("tie on distance resolves to earlier table entry", func(t *testing.T) {
		// August in India: both Flipkart Big Billion Days and Amazon Great
		// Indian Festival are month 10. Big Billion Days appears first.
		ev := NextSaleEvent(8, "IN")
		require.NotNil(t, ev)
		assert.Equal(t, "Flipkart Big Billion Days", ev.Name)
	})

	t.Run("empty region defaults to US", func(t *testing.T) {
		ev := NextSaleEvent(8, "")
		require.NotNil(t, ev)
		assert.Equal(t, "Labor Day Sales", ev.Name)
	})
}

func TestFindProductCycle(t *testing.T) {
	t.Run("keyword substring match", func(t *testing.T) {
		cycle := FindProductCycle("Apple iPhone 16 Pro 256GB")
		require.NotNil(t, cycle)
		assert.Equal(t, "iPhone", cycle.ProductLine)
	})

	t.Run("case insensitive", func(t *testing.T) {
		cycle := FindProductCycle("MACBOOK PRO 14 M4")
		require.NotNil(t, cycle)
		assert.Equal(t, "MacBook Pro", cycle.ProductLine)
	})

	t.Run("first table entry wins", func(t *testing.T) {
		// "pixel" matches the flagship Pixel entry before "pixel a".
		cycle := FindProductCycle("Google Pixel a9")
		require.NotNil(t, cycle)
		assert.Equal(t, "Pixel", cycle.ProductLine)
	})

	t.Run("no match", func(t *testing.T) {
		assert.Nil(t, FindProductCycle("generic kettle 1.5L"))
	})
}
