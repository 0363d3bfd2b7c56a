package jqdata

import (
	"io"
	"sort"
)

// Entry is a catalog method whose result type is erased.
type Entry struct {
	Descriptor
	consume func(io.Reader) (any, error)
}

// Consume decodes body with the method's consumer.
func (e Entry) Consume(body io.Reader) (any, error) { return e.consume(body) }

var catalog = map[string]Entry{}

func register[T any](cmd Command[T]) {
	c := cmd.Consumer()
	catalog[cmd.Method()] = Entry{
		Descriptor: Describe(cmd),
		consume: func(r io.Reader) (any, error) {
			return c.Consume(r)
		},
	}
}

func init() {
	register[[]Security](GetAllSecurities{})
	register[[]Security](GetSecurityInfo{})
	register[[]string](GetIndexStocks{})
	register[[]string](GetMargincashStocks{})
	register[[]LockedShare](GetLockedShares{})
	register[[]IndexWeight](GetIndexWeights{})
	register[[]IndustryIndex](GetIndustries{})
	register[[]Industry](GetIndustry{})
	register[[]string](GetIndustryStocks{})
	register[[]Concept](GetConcepts{})
	register[[]string](GetConceptStocks{})
	register[[]string](GetTradeDays{})
	register[[]string](GetAllTradeDays{})
	register[[]Mtss](GetMtss{})
	register[[]MoneyFlow](GetMoneyFlow{})
	register[[]BillboardStock](GetBillboardList{})
	register[[]string](GetFutureContracts{})
	register[[]string](GetDominantFuture{})
	register[FundInfo](GetFundInfo{})
	register[[]Tick](GetCurrentTick{})
	register[[]Tick](GetCurrentTicks{})
	register[[]Extra](GetExtras{})
	register[[]Price](GetPrice{})
	register[[]Price](GetPricePeriod{})
	register[[]Tick](GetTicks{})
	register[[]Tick](GetTicksPeriod{})
	register[[]Record](GetFactorValues{})
	register[[]string](RunQuery{})
	register[int](GetQueryCount{})
}

// Lookup returns the catalog entry of method.
func Lookup(method string) (Entry, bool) {
	e, ok := catalog[method]
	return e, ok
}

// Methods lists every catalog method sorted by name.
func Methods() []Descriptor {
	out := make([]Descriptor, 0, len(catalog))
	for _, e := range catalog {
		out = append(out, e.Descriptor)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Method < out[j].Method })
	return out
}
