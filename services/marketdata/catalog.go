package marketdata

// Dataset identifies one external data feed offered by the collection service.
type Dataset string

const (
	DatasetDisclosure      Dataset = "disclosure"
	DatasetCapitalIncrease Dataset = "capital_increase"
	DatasetBonusIssuance   Dataset = "bonus_issuance"
	DatasetStockPrice      Dataset = "stock_price"
	DatasetStockIssuance   Dataset = "stock_issuance"
	DatasetKospiIndex      Dataset = "kospi_index"
	DatasetKosdaqIndex     Dataset = "kosdaq_index"
)

// Schema selects how a provider response payload is interpreted.
type Schema string

const (
	// SchemaNested is the data.go.kr envelope: response -> body -> totalCount / items.item
	SchemaNested Schema = "nested"
	// SchemaFlat is the KRX shape: a bare OutBlock_1 record list, no count field
	SchemaFlat Schema = "flat"
)

// Lookback windows per dataset family. Price and index feeds publish every
// trading day, disclosure feeds can lag for weeks.
const (
	PriceLookbackDays      = 7
	DisclosureLookbackDays = 30
)

// Endpoint describes one provider API: where to call it, how to authenticate,
// and how to read what comes back. Endpoints are built once at startup and
// never mutated.
type Endpoint struct {
	Dataset      Dataset
	BaseURL      string
	Path         string
	ServiceKey   string
	Schema       Schema
	DateParam    string // query key for the base date, e.g. "basDt" or "basDd"
	LookbackDays int
}

// CatalogConfig carries the credentials needed to build the endpoint catalog.
type CatalogConfig struct {
	FSCBaseURL    string // data.go.kr financial services base, overridable for tests
	KRXBaseURL    string // KRX open API base, overridable for tests
	FSCServiceKey string
	KRXAuthKey    string
}

const (
	defaultFSCBaseURL = "https://apis.data.go.kr/1160100/service"
	defaultKRXBaseURL = "https://data-dbg.krx.co.kr/svc/apis"
)

// Catalog is the read-only table mapping datasets to provider endpoints.
type Catalog struct {
	endpoints map[Dataset]Endpoint
	order     []Dataset
}

// NewCatalog builds the endpoint catalog from configuration. Adding a dataset
// means adding a row here, nothing else.
func NewCatalog(cfg CatalogConfig) *Catalog {
	fscBase := cfg.FSCBaseURL
	if fscBase == "" {
		fscBase = defaultFSCBaseURL
	}
	krxBase := cfg.KRXBaseURL
	if krxBase == "" {
		krxBase = defaultKRXBaseURL
	}

	rows := []Endpoint{
		{DatasetDisclosure, fscBase, "/GetDiscInfoService_V2/getDiscInfo", cfg.FSCServiceKey, SchemaNested, "basDt", DisclosureLookbackDays},
		{DatasetCapitalIncrease, fscBase, "/GetDiscInfoService_V2/getPdCapIncDecInfo", cfg.FSCServiceKey, SchemaNested, "basDt", DisclosureLookbackDays},
		{DatasetBonusIssuance, fscBase, "/GetDiscInfoService_V2/getFrCapIncDecInfo", cfg.FSCServiceKey, SchemaNested, "basDt", DisclosureLookbackDays},
		{DatasetStockPrice, fscBase, "/GetStockSecuritiesInfoService/getStockPriceInfo", cfg.FSCServiceKey, SchemaNested, "basDt", PriceLookbackDays},
		{DatasetStockIssuance, fscBase, "/GetStockIssuanceInfoService/getStockIssuanceInfo", cfg.FSCServiceKey, SchemaNested, "basDt", DisclosureLookbackDays},
		{DatasetKospiIndex, krxBase, "/idx/kospi_dd_trd", cfg.KRXAuthKey, SchemaFlat, "basDd", PriceLookbackDays},
		{DatasetKosdaqIndex, krxBase, "/idx/kosdaq_dd_trd", cfg.KRXAuthKey, SchemaFlat, "basDd", PriceLookbackDays},
	}

	c := &Catalog{endpoints: make(map[Dataset]Endpoint, len(rows))}
	for _, row := range rows {
		c.endpoints[row.Dataset] = row
		c.order = append(c.order, row.Dataset)
	}
	return c
}

// Endpoint returns the endpoint for a dataset.
func (c *Catalog) Endpoint(ds Dataset) (Endpoint, bool) {
	ep, ok := c.endpoints[ds]
	return ep, ok
}

// Datasets returns all configured datasets in catalog order.
func (c *Catalog) Datasets() []Dataset {
	out := make([]Dataset, len(c.order))
	copy(out, c.order)
	return out
}
