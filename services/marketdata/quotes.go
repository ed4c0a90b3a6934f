package marketdata

import (
	"github.com/shopspring/decimal"
)

// StockQuote is a typed view over one stock price record from the nested
// provider. The provider serves every numeric field as a string; prices keep
// exact decimal representation, volumes fit in int64.
type StockQuote struct {
	BaseDate   string          `json:"base_date"`
	ShortCode  string          `json:"short_code"`
	Name       string          `json:"name"`
	Market     string          `json:"market"`
	Close      decimal.Decimal `json:"close"`
	Change     decimal.Decimal `json:"change"`
	ChangeRate decimal.Decimal `json:"change_rate"`
	Open       decimal.Decimal `json:"open"`
	High       decimal.Decimal `json:"high"`
	Low        decimal.Decimal `json:"low"`
	Volume     int64           `json:"volume"`
	MarketCap  decimal.Decimal `json:"market_cap"`
}

// StockQuotes converts raw stock price items into typed quotes. Records with
// an unparsable closing price are skipped rather than failing the whole page.
func StockQuotes(res *Result) []StockQuote {
	if res == nil {
		return nil
	}

	quotes := make([]StockQuote, 0, len(res.Items))
	for _, item := range res.Items {
		closePrice, err := decimal.NewFromString(str(item, "clpr"))
		if err != nil {
			continue
		}

		q := StockQuote{
			BaseDate:   str(item, "basDt"),
			ShortCode:  str(item, "srtnCd"),
			Name:       str(item, "itmsNm"),
			Market:     str(item, "mrktCtg"),
			Close:      closePrice,
			Change:     dec(item, "vs"),
			ChangeRate: dec(item, "fltRt"),
			Open:       dec(item, "mkp"),
			High:       dec(item, "hipr"),
			Low:        dec(item, "lopr"),
			MarketCap:  dec(item, "mktTotAmt"),
		}
		if vol, ok := decAsInt64(item, "trqu"); ok {
			q.Volume = vol
		}
		quotes = append(quotes, q)
	}
	return quotes
}

func str(item map[string]interface{}, key string) string {
	v, _ := item[key].(string)
	return v
}

func dec(item map[string]interface{}, key string) decimal.Decimal {
	d, err := decimal.NewFromString(str(item, key))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func decAsInt64(item map[string]interface{}, key string) (int64, bool) {
	d, err := decimal.NewFromString(str(item, key))
	if err != nil {
		return 0, false
	}
	return d.IntPart(), true
}
