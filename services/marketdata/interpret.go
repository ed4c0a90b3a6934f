package marketdata

import (
	"sort"
	"strconv"

	"github.com/rs/zerolog"
)

// Result is the normalized view of one provider response: how many records the
// server claims to hold, the record maps themselves, and the distinct base
// dates confirmed inside them (empty for flat-shape providers, which carry no
// per-record date field worth trusting).
type Result struct {
	TotalCount int
	Items      []map[string]interface{}
	AsOfDates  []string // distinct basDt values, YYYYMMDD, sorted ascending
}

// Interpret extracts a Result from a raw provider document. It never fails:
// malformed or missing structure degrades to an empty Result so that one bad
// day cannot abort a fallback scan.
func Interpret(doc map[string]interface{}, schema Schema, logger zerolog.Logger) *Result {
	switch schema {
	case SchemaFlat:
		return interpretFlat(doc, logger)
	default:
		return interpretNested(doc, logger)
	}
}

// interpretNested reads the data.go.kr envelope:
// { response: { body: { totalCount, items: { item: [...] | {...} } } } }
// The items.item node is sometimes a single object instead of a list when
// exactly one record matches; both forms normalize to a slice.
func interpretNested(doc map[string]interface{}, logger zerolog.Logger) *Result {
	res := &Result{}

	body, ok := dig(doc, "response", "body")
	if !ok {
		logger.Warn().Str("schema", string(SchemaNested)).Msg("response body wrapper missing, treating as empty")
		return res
	}

	res.TotalCount = asInt(body["totalCount"])

	itemsWrap, ok := body["items"].(map[string]interface{})
	if !ok {
		return res
	}

	switch item := itemsWrap["item"].(type) {
	case []interface{}:
		for _, raw := range item {
			if m, ok := raw.(map[string]interface{}); ok {
				res.Items = append(res.Items, m)
			}
		}
	case map[string]interface{}:
		res.Items = append(res.Items, item)
	case nil:
		// no records for this date
	default:
		logger.Warn().Str("schema", string(SchemaNested)).Msg("unexpected items.item node, ignoring")
	}

	res.AsOfDates = collectBaseDates(res.Items)
	return res
}

// interpretFlat reads the KRX shape: { OutBlock_1: [ ...records... ] }.
// There is no count field, so the record count is the total, and no per-item
// date is extracted.
func interpretFlat(doc map[string]interface{}, logger zerolog.Logger) *Result {
	res := &Result{}

	block, ok := doc["OutBlock_1"].([]interface{})
	if !ok {
		if _, present := doc["OutBlock_1"]; present {
			logger.Warn().Str("schema", string(SchemaFlat)).Msg("OutBlock_1 is not a list, treating as empty")
		}
		return res
	}

	for _, raw := range block {
		if m, ok := raw.(map[string]interface{}); ok {
			res.Items = append(res.Items, m)
		}
	}
	res.TotalCount = len(res.Items)
	return res
}

// collectBaseDates gathers the distinct basDt values across items. Records
// without the field are simply skipped.
func collectBaseDates(items []map[string]interface{}) []string {
	seen := make(map[string]struct{})
	for _, item := range items {
		if v, ok := item["basDt"].(string); ok && v != "" {
			seen[v] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return nil
	}
	dates := make([]string, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

// dig walks nested map keys, returning the map at the end of the path.
func dig(doc map[string]interface{}, keys ...string) (map[string]interface{}, bool) {
	cur := doc
	for _, key := range keys {
		next, ok := cur[key].(map[string]interface{})
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// asInt coerces the loosely typed count field. data.go.kr serves numbers, but
// some services quote them as strings; anything else counts as zero.
func asInt(v interface{}) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case string:
		parsed, err := strconv.Atoi(n)
		if err != nil {
			return 0
		}
		return parsed
	case int:
		return n
	default:
		return 0
	}
}
