package jqdata

// SecurityKind is the security type as reported by the service.
type SecurityKind string

const (
	Stock           SecurityKind = "stock"
	Fund            SecurityKind = "fund"
	Index           SecurityKind = "index"
	Futures         SecurityKind = "futures"
	ETF             SecurityKind = "etf"
	LOF             SecurityKind = "lof"
	FJA             SecurityKind = "fja"
	FJB             SecurityKind = "fjb"
	QDIIFund        SecurityKind = "QDII_fund"
	OpenFund        SecurityKind = "open_fund"
	BondFund        SecurityKind = "bond_fund"
	StockFund       SecurityKind = "stock_fund"
	MoneyMarketFund SecurityKind = "money_market_fund"
	MixtureFund     SecurityKind = "mixture_fund"
	Options         SecurityKind = "options"
)

// SecurityKinds lists every known kind.
var SecurityKinds = []SecurityKind{
	Stock, Fund, Index, Futures, ETF, LOF, FJA, FJB, QDIIFund,
	OpenFund, BondFund, StockFund, MoneyMarketFund, MixtureFund, Options,
}

// Valid reports whether k is a known kind.
func (k SecurityKind) Valid() bool {
	for _, v := range SecurityKinds {
		if v == k {
			return true
		}
	}
	return false
}

// Security describes one listed instrument.
type Security struct {
	Code        string       `csv:"code" json:"code"`
	DisplayName string       `csv:"display_name" json:"display_name"`
	Name        string       `csv:"name" json:"name"`
	StartDate   string       `csv:"start_date" json:"start_date"`
	EndDate     string       `csv:"end_date" json:"end_date"`
	Kind        SecurityKind `csv:"type" json:"type"`
	Parent      string       `csv:"parent" json:"parent,omitempty"`
}

// GetAllSecurities lists every stock, fund, index or futures contract of a kind.
type GetAllSecurities struct {
	Code SecurityKind `json:"code"`
	Date string       `json:"date,omitempty"`
}

func (GetAllSecurities) Method() string                 { return "get_all_securities" }
func (GetAllSecurities) Consumer() Consumer[[]Security] { return Tabular[Security]() }

// GetSecurityInfo returns the information of a single security.
type GetSecurityInfo struct {
	Code string `json:"code"`
}

func (GetSecurityInfo) Method() string                 { return "get_security_info" }
func (GetSecurityInfo) Consumer() Consumer[[]Security] { return Tabular[Security]() }

// GetIndexStocks lists the constituents of an index on a date.
type GetIndexStocks struct {
	Code string `json:"code"`
	Date string `json:"date"`
}

func (GetIndexStocks) Method() string               { return "get_index_stocks" }
func (GetIndexStocks) Consumer() Consumer[[]string] { return LineList() }

// GetMargincashStocks lists the margin-eligible stocks disclosed by the
// exchanges. Date defaults to the previous trading day.
type GetMargincashStocks struct {
	Date string `json:"date,omitempty"`
}

func (GetMargincashStocks) Method() string               { return "get_margincash_stocks" }
func (GetMargincashStocks) Consumer() Consumer[[]string] { return LineList() }

// LockedShare is one unlock event of restricted shares.
type LockedShare struct {
	Day   string  `csv:"day" json:"day"`
	Code  string  `csv:"code" json:"code"`
	Num   Decimal `csv:"num" json:"num"`
	Rate1 Decimal `csv:"rate1" json:"rate1"`
	Rate2 Decimal `csv:"rate2" json:"rate2"`
}

// GetLockedShares returns restricted share unlocks in a date range.
type GetLockedShares struct {
	Code    string `json:"code"`
	Date    string `json:"date"`
	EndDate string `json:"end_date"`
}

func (GetLockedShares) Method() string                    { return "get_locked_shares" }
func (GetLockedShares) Consumer() Consumer[[]LockedShare] { return Tabular[LockedShare]() }

// IndexWeight is the weight of one constituent in an index.
type IndexWeight struct {
	Code        string  `csv:"code" json:"code"`
	DisplayName string  `csv:"display_name" json:"display_name"`
	Date        string  `csv:"date" json:"date"`
	Weight      Decimal `csv:"weight" json:"weight"`
}

// GetIndexWeights returns constituent weights of an index, updated monthly.
type GetIndexWeights struct {
	Code string `json:"code"`
	Date string `json:"date"`
}

func (GetIndexWeights) Method() string                    { return "get_index_weights" }
func (GetIndexWeights) Consumer() Consumer[[]IndexWeight] { return Tabular[IndexWeight]() }
