package jqdata

// Tick is a market snapshot. Futures only carry the first depth level, so
// deeper levels and position may be empty.
type Tick struct {
	Time     Decimal     `csv:"time" json:"time"`
	Current  Decimal     `csv:"current" json:"current"`
	High     Decimal     `csv:"high" json:"high"`
	Low      Decimal     `csv:"low" json:"low"`
	Volume   Decimal     `csv:"volume" json:"volume"`
	Money    Decimal     `csv:"money" json:"money"`
	Position NullDecimal `csv:"position" json:"position"`
	A1V      NullDecimal `csv:"a1_v" json:"a1_v"`
	A2V      NullDecimal `csv:"a2_v" json:"a2_v"`
	A3V      NullDecimal `csv:"a3_v" json:"a3_v"`
	A4V      NullDecimal `csv:"a4_v" json:"a4_v"`
	A5V      NullDecimal `csv:"a5_v" json:"a5_v"`
	A1P      NullDecimal `csv:"a1_p" json:"a1_p"`
	A2P      NullDecimal `csv:"a2_p" json:"a2_p"`
	A3P      NullDecimal `csv:"a3_p" json:"a3_p"`
	A4P      NullDecimal `csv:"a4_p" json:"a4_p"`
	A5P      NullDecimal `csv:"a5_p" json:"a5_p"`
	B1V      NullDecimal `csv:"b1_v" json:"b1_v"`
	B2V      NullDecimal `csv:"b2_v" json:"b2_v"`
	B3V      NullDecimal `csv:"b3_v" json:"b3_v"`
	B4V      NullDecimal `csv:"b4_v" json:"b4_v"`
	B5V      NullDecimal `csv:"b5_v" json:"b5_v"`
	B1P      NullDecimal `csv:"b1_p" json:"b1_p"`
	B2P      NullDecimal `csv:"b2_p" json:"b2_p"`
	B3P      NullDecimal `csv:"b3_p" json:"b3_p"`
	B4P      NullDecimal `csv:"b4_p" json:"b4_p"`
	B5P      NullDecimal `csv:"b5_p" json:"b5_p"`
}

// GetCurrentTick returns the latest tick of one security. Dominant and
// index contract codes are not accepted.
type GetCurrentTick struct {
	Code string `json:"code"`
}

func (GetCurrentTick) Method() string             { return "get_current_tick" }
func (GetCurrentTick) Consumer() Consumer[[]Tick] { return Tabular[Tick]() }

// GetCurrentTicks returns latest ticks for comma separated codes of the same kind.
type GetCurrentTicks struct {
	Code string `json:"code"`
}

func (GetCurrentTicks) Method() string             { return "get_current_ticks" }
func (GetCurrentTicks) Consumer() Consumer[[]Tick] { return Tabular[Tick]() }

// GetTicks returns up to Count ticks ending at EndDate. Skip drops ticks
// without trade changes.
type GetTicks struct {
	Code    string `json:"code"`
	Count   int    `json:"count,omitempty"`
	EndDate string `json:"end_date"`
	Skip    bool   `json:"skip"`
}

func (GetTicks) Method() string             { return "get_ticks" }
func (GetTicks) Consumer() Consumer[[]Tick] { return Tabular[Tick]() }

// GetTicksPeriod returns ticks between Date and EndDate. Long ranges may
// time out server side.
type GetTicksPeriod struct {
	Code    string `json:"code"`
	Date    string `json:"date"`
	EndDate string `json:"end_date"`
	Skip    bool   `json:"skip"`
}

func (GetTicksPeriod) Method() string             { return "get_ticks_period" }
func (GetTicksPeriod) Consumer() Consumer[[]Tick] { return Tabular[Tick]() }

// Extra holds per-kind daily extras; only the columns of the queried kind
// are set.
type Extra struct {
	Date             string      `csv:"date" json:"date"`
	IsST             NullDecimal `csv:"is_st" json:"is_st"`
	AccNetValue      NullDecimal `csv:"acc_net_value" json:"acc_net_value"`
	UnitNetValue     NullDecimal `csv:"unit_net_value" json:"unit_net_value"`
	FuturesSettPrice NullDecimal `csv:"futures_sett_price" json:"futures_sett_price"`
	FuturesPositions NullDecimal `csv:"futures_positions" json:"futures_positions"`
	AdjNetValue      NullDecimal `csv:"adj_net_value" json:"adj_net_value"`
}

// GetExtras returns fund net values, futures settlement prices and ST flags.
type GetExtras struct {
	Code    string `json:"code"`
	Date    string `json:"date"`
	EndDate string `json:"end_date"`
}

func (GetExtras) Method() string              { return "get_extras" }
func (GetExtras) Consumer() Consumer[[]Extra] { return Tabular[Extra]() }

// Price is one bar. Daily bars add paused, limits, avg and pre_close;
// futures and options add open_interest.
type Price struct {
	Date         string      `csv:"date" json:"date"`
	Open         Decimal     `csv:"open" json:"open"`
	Close        Decimal     `csv:"close" json:"close"`
	High         Decimal     `csv:"high" json:"high"`
	Low          Decimal     `csv:"low" json:"low"`
	Volume       Decimal     `csv:"volume" json:"volume"`
	Money        Decimal     `csv:"money" json:"money"`
	Paused       NullDecimal `csv:"paused" json:"paused"`
	HighLimit    NullDecimal `csv:"high_limit" json:"high_limit"`
	LowLimit     NullDecimal `csv:"low_limit" json:"low_limit"`
	Avg          NullDecimal `csv:"avg" json:"avg"`
	PreClose     NullDecimal `csv:"pre_close" json:"pre_close"`
	OpenInterest NullDecimal `csv:"open_interest" json:"open_interest"`
}

// Bar units accepted by GetPrice and GetPricePeriod.
const (
	Unit1m   = "1m"
	Unit5m   = "5m"
	Unit15m  = "15m"
	Unit30m  = "30m"
	Unit60m  = "60m"
	Unit120m = "120m"
	Unit1d   = "1d"
	Unit1w   = "1w"
	Unit1M   = "1M"
)

// GetPrice returns the last Count bars (at most 5000) up to EndDate.
// Prices are unadjusted unless FqRefDate is set.
type GetPrice struct {
	Code      string `json:"code"`
	Count     int    `json:"count"`
	Unit      string `json:"unit"`
	EndDate   string `json:"end_date,omitempty"`
	FqRefDate string `json:"fq_ref_date,omitempty"`
}

func (GetPrice) Method() string              { return "get_price" }
func (GetPrice) Consumer() Consumer[[]Price] { return Tabular[Price]() }

// GetPricePeriod returns bars between Date and EndDate, at most 1000
// trading days.
type GetPricePeriod struct {
	Code      string `json:"code"`
	Unit      string `json:"unit"`
	Date      string `json:"date"`
	EndDate   string `json:"end_date"`
	FqRefDate string `json:"fq_ref_date,omitempty"`
}

func (GetPricePeriod) Method() string              { return "get_price_period" }
func (GetPricePeriod) Consumer() Consumer[[]Price] { return Tabular[Price]() }

// GetFactorValues returns factor values of one stock. Columns names the
// factors, comma separated, so rows come back keyed by header.
type GetFactorValues struct {
	Code    string `json:"code"`
	Columns string `json:"columns"`
	Date    string `json:"date"`
	EndDate string `json:"end_date"`
}

func (GetFactorValues) Method() string               { return "get_factor_values" }
func (GetFactorValues) Consumer() Consumer[[]Record] { return Records() }
