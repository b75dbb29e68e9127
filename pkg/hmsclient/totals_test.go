package hmsclient

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func totalsRow(currency, total, paid, unpaid string) TotalsRow {
	return TotalsRow{
		Currency: currency,
		Total:    decimal.RequireFromString(total),
		Paid:     decimal.RequireFromString(paid),
		Unpaid:   decimal.RequireFromString(unpaid),
	}
}

func TestTotalsCacheZeroBeforeFirstFetch(t *testing.T) {
	cache := NewTotalsCache(nil)

	rows, err := cache.Rows()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, CurrencyCDF, rows[0].Currency)
	assert.True(t, rows[0].Total.IsZero())
	assert.True(t, rows[1].Unpaid.IsZero())
}

func TestTotalsCacheOverwritesSnapshot(t *testing.T) {
	cache := NewTotalsCache(nil)

	require.NoError(t, cache.Put([]TotalsRow{totalsRow(CurrencyCDF, "1000", "400", "600")}))
	require.NoError(t, cache.Put([]TotalsRow{totalsRow(CurrencyCDF, "1500", "900", "600")}))

	row, err := cache.Row(CurrencyCDF)
	require.NoError(t, err)
	assert.True(t, row.Total.Equal(decimal.RequireFromString("1500")))
	assert.True(t, row.Paid.Equal(decimal.RequireFromString("900")))
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	cache := NewTotalsCache(NewFileStore(dir))
	require.NoError(t, cache.Put([]TotalsRow{
		totalsRow(CurrencyCDF, "1000", "400", "600"),
		totalsRow(CurrencyUSD, "200", "50", "150"),
	}))

	reopened := NewTotalsCache(NewFileStore(dir))
	row, err := reopened.Row(CurrencyUSD)
	require.NoError(t, err)
	assert.True(t, row.Total.Equal(decimal.RequireFromString("200")))
	assert.True(t, row.Unpaid.Equal(decimal.RequireFromString("150")))
}
