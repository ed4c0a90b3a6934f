package marketdata

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStockQuotes(t *testing.T) {
	res := &Result{
		TotalCount: 3,
		Items: []map[string]interface{}{
			{
				"basDt": "20250110", "srtnCd": "005930", "itmsNm": "Samsung Electronics",
				"mrktCtg": "KOSPI", "clpr": "70500", "vs": "-500", "fltRt": "-.7",
				"mkp": "71000", "hipr": "71200", "lopr": "70300",
				"trqu": "12345678", "mktTotAmt": "420908834175000",
			},
			{
				// broken closing price, must be skipped
				"basDt": "20250110", "srtnCd": "000660", "itmsNm": "SK Hynix", "clpr": "",
			},
			{
				"basDt": "20250110", "srtnCd": "035720", "itmsNm": "Kakao",
				"mrktCtg": "KOSPI", "clpr": "41300", "trqu": "not-a-number",
			},
		},
	}

	quotes := StockQuotes(res)
	require.Len(t, quotes, 2)

	samsung := quotes[0]
	assert.Equal(t, "005930", samsung.ShortCode)
	assert.True(t, samsung.Close.Equal(decimal.NewFromInt(70500)))
	assert.True(t, samsung.ChangeRate.Equal(decimal.RequireFromString("-0.7")))
	assert.Equal(t, int64(12345678), samsung.Volume)

	kakao := quotes[1]
	assert.Equal(t, "Kakao", kakao.Name)
	// unparsable volume degrades to zero instead of dropping the record
	assert.Equal(t, int64(0), kakao.Volume)
	assert.True(t, kakao.Change.IsZero())
}

func TestStockQuotesNilResult(t *testing.T) {
	assert.Nil(t, StockQuotes(nil))
	assert.Empty(t, StockQuotes(&Result{}))
}
