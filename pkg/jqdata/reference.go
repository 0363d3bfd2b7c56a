package jqdata

// Industry classification codes accepted by GetIndustries.
const (
	IndustrySWL1 = "sw_l1"
	IndustrySWL2 = "sw_l2"
	IndustrySWL3 = "sw_l3"
	IndustryJQL1 = "jq_l1"
	IndustryJQL2 = "jq_l2"
	IndustryZJW  = "zjw"
)

type IndustryIndex struct {
	Index     string `csv:"index" json:"index"`
	Name      string `csv:"name" json:"name"`
	StartDate string `csv:"start_date" json:"start_date"`
}

// GetIndustries lists the industries of one classification.
type GetIndustries struct {
	Code string `json:"code"`
}

func (GetIndustries) Method() string                      { return "get_industries" }
func (GetIndustries) Consumer() Consumer[[]IndustryIndex] { return Tabular[IndustryIndex]() }

type Industry struct {
	Industry     string `csv:"industry" json:"industry"`
	IndustryCode string `csv:"industry_code" json:"industry_code"`
	IndustryName string `csv:"industry_name" json:"industry_name"`
}

// GetIndustry returns the industries a stock belongs to on a date.
type GetIndustry struct {
	Code string `json:"code"`
	Date string `json:"date"`
}

func (GetIndustry) Method() string                 { return "get_industry" }
func (GetIndustry) Consumer() Consumer[[]Industry] { return Tabular[Industry]() }

// GetIndustryStocks lists the stocks of an industry on a date.
type GetIndustryStocks struct {
	Code string `json:"code"`
	Date string `json:"date"`
}

func (GetIndustryStocks) Method() string               { return "get_industry_stocks" }
func (GetIndustryStocks) Consumer() Consumer[[]string] { return LineList() }

type Concept struct {
	Code      string `csv:"code" json:"code"`
	Name      string `csv:"name" json:"name"`
	StartDate string `csv:"start_date" json:"start_date"`
}

// GetConcepts lists all concept boards.
type GetConcepts struct{}

func (GetConcepts) Method() string                { return "get_concepts" }
func (GetConcepts) Consumer() Consumer[[]Concept] { return Tabular[Concept]() }

// GetConceptStocks lists the stocks of a concept board on a date.
type GetConceptStocks struct {
	Code string `json:"code"`
	Date string `json:"date"`
}

func (GetConceptStocks) Method() string               { return "get_concept_stocks" }
func (GetConceptStocks) Consumer() Consumer[[]string] { return LineList() }

// GetTradeDays lists trading days from Date to EndDate.
type GetTradeDays struct {
	Date    string `json:"date"`
	EndDate string `json:"end_date,omitempty"`
}

func (GetTradeDays) Method() string               { return "get_trade_days" }
func (GetTradeDays) Consumer() Consumer[[]string] { return LineList() }

// GetAllTradeDays lists every trading day.
type GetAllTradeDays struct{}

func (GetAllTradeDays) Method() string               { return "get_all_trade_days" }
func (GetAllTradeDays) Consumer() Consumer[[]string] { return LineList() }

// Mtss is one day of margin trading and short selling figures.
type Mtss struct {
	Date           string  `csv:"date" json:"date"`
	SecCode        string  `csv:"sec_code" json:"sec_code"`
	FinValue       Decimal `csv:"fin_value" json:"fin_value"`
	FinBuyValue    Decimal `csv:"fin_buy_value" json:"fin_buy_value"`
	FinRefundValue Decimal `csv:"fin_refund_value" json:"fin_refund_value"`
	SecValue       Decimal `csv:"sec_value" json:"sec_value"`
	SecSellValue   Decimal `csv:"sec_sell_value" json:"sec_sell_value"`
	SecRefundValue Decimal `csv:"sec_refund_value" json:"sec_refund_value"`
	FinSecValue    Decimal `csv:"fin_sec_value" json:"fin_sec_value"`
}

// GetMtss returns margin trading data of a stock in a date range.
type GetMtss struct {
	Code    string `json:"code"`
	Date    string `json:"date"`
	EndDate string `json:"end_date"`
}

func (GetMtss) Method() string             { return "get_mtss" }
func (GetMtss) Consumer() Consumer[[]Mtss] { return Tabular[Mtss]() }

// MoneyFlow is one day of capital flow for a stock. Amounts are in 10k CNY,
// percentages relative to turnover.
type MoneyFlow struct {
	Date          string  `csv:"date" json:"date"`
	SecCode       string  `csv:"sec_code" json:"sec_code"`
	ChangePct     Decimal `csv:"change_pct" json:"change_pct"`
	NetAmountMain Decimal `csv:"net_amount_main" json:"net_amount_main"`
	NetPctMain    Decimal `csv:"net_pct_main" json:"net_pct_main"`
	NetAmountXL   Decimal `csv:"net_amount_xl" json:"net_amount_xl"`
	NetPctXL      Decimal `csv:"net_pct_xl" json:"net_pct_xl"`
	NetAmountL    Decimal `csv:"net_amount_l" json:"net_amount_l"`
	NetPctL       Decimal `csv:"net_pct_l" json:"net_pct_l"`
	NetAmountM    Decimal `csv:"net_amount_m" json:"net_amount_m"`
	NetPctM       Decimal `csv:"net_pct_m" json:"net_pct_m"`
	NetAmountS    Decimal `csv:"net_amount_s" json:"net_amount_s"`
	NetPctS       Decimal `csv:"net_pct_s" json:"net_pct_s"`
}

// GetMoneyFlow returns capital flow of a stock in a date range. Stocks only.
type GetMoneyFlow struct {
	Code    string `json:"code"`
	Date    string `json:"date"`
	EndDate string `json:"end_date"`
}

func (GetMoneyFlow) Method() string                  { return "get_money_flow" }
func (GetMoneyFlow) Consumer() Consumer[[]MoneyFlow] { return Tabular[MoneyFlow]() }

// BillboardStock is one row of the daily trading billboard. Direction is
// ALL, BUY or SELL; rank 0 is the summary, 1-5 buyers, 6-10 sellers.
type BillboardStock struct {
	Code            string  `csv:"code" json:"code"`
	Day             string  `csv:"day" json:"day"`
	Direction       string  `csv:"direction" json:"direction"`
	Rank            int     `csv:"rank" json:"rank"`
	AbnormalCode    string  `csv:"abnormal_code" json:"abnormal_code"`
	AbnormalName    string  `csv:"abnormal_name" json:"abnormal_name"`
	SalesDepartName string  `csv:"sales_depart_name" json:"sales_depart_name"`
	BuyValue        Decimal `csv:"buy_value" json:"buy_value"`
	BuyRate         Decimal `csv:"buy_rate" json:"buy_rate"`
	SellValue       Decimal `csv:"sell_value" json:"sell_value"`
	SellRate        Decimal `csv:"sell_rate" json:"sell_rate"`
	TotalValue      Decimal `csv:"total_value" json:"total_value"`
	NetValue        Decimal `csv:"net_value" json:"net_value"`
	Amount          Decimal `csv:"amount" json:"amount"`
}

// GetBillboardList returns billboard entries in a date range.
type GetBillboardList struct {
	Code    string `json:"code"`
	Date    string `json:"date"`
	EndDate string `json:"end_date"`
}

func (GetBillboardList) Method() string                       { return "get_billboard_list" }
func (GetBillboardList) Consumer() Consumer[[]BillboardStock] { return Tabular[BillboardStock]() }

// GetFutureContracts lists tradable contracts of a futures product, e.g. AG.
type GetFutureContracts struct {
	Code string `json:"code"`
	Date string `json:"date"`
}

func (GetFutureContracts) Method() string               { return "get_future_contracts" }
func (GetFutureContracts) Consumer() Consumer[[]string] { return LineList() }

// GetDominantFuture returns the dominant contract of a futures product.
type GetDominantFuture struct {
	Code string `json:"code"`
	Date string `json:"date"`
}

func (GetDominantFuture) Method() string               { return "get_dominant_future" }
func (GetDominantFuture) Consumer() Consumer[[]string] { return LineList() }

type FundInfo struct {
	FundName                      string   `json:"fund_name"`
	FundType                      string   `json:"fund_type"`
	FundEstablishmentDay          string   `json:"fund_establishment_day"`
	FundManager                   string   `json:"fund_manager"`
	FundManagementFee             string   `json:"fund_management_fee"`
	FundCustodianFee              string   `json:"fund_custodian_fee"`
	FundStatus                    string   `json:"fund_status"`
	FundSize                      string   `json:"fund_size"`
	FundShare                     Decimal  `json:"fund_share"`
	FundAssetAllocationProportion string   `json:"fund_asset_allocation_proportion"`
	HeavyHoldStocks               []string `json:"heavy_hold_stocks"`
	HeavyHoldStocksProportion     Decimal  `json:"heavy_hold_stocks_proportion"`
	HeavyHoldBond                 []string `json:"heavy_hold_bond"`
	HeavyHoldBondProportion       Decimal  `json:"heavy_hold_bond_proportion"`
}

// GetFundInfo returns the profile of a fund.
type GetFundInfo struct {
	Code string `json:"code"`
	Date string `json:"date,omitempty"`
}

func (GetFundInfo) Method() string               { return "get_fund_info" }
func (GetFundInfo) Consumer() Consumer[FundInfo] { return JSON[FundInfo]() }

// RunQuery mirrors the SDK's run_query over finance, macro and options
// tables. Conditions use `column#op#value` joined by `&`; Count defaults to
// one row server side and is capped at 1000.
type RunQuery struct {
	Table      string `json:"table"`
	Columns    string `json:"columns"`
	Conditions string `json:"conditions,omitempty"`
	Count      int    `json:"count,omitempty"`
}

func (RunQuery) Method() string               { return "run_query" }
func (RunQuery) Consumer() Consumer[[]string] { return LineList() }

// GetQueryCount returns the remaining number of rows the account may query today.
type GetQueryCount struct{}

func (GetQueryCount) Method() string          { return "get_query_count" }
func (GetQueryCount) Consumer() Consumer[int] { return Int() }
