package jqdata

import (
	"strings"
	"testing"
)

func TestMethods(t *testing.T) {
	ms := Methods()
	if len(ms) != 29 {
		t.Fatalf("len(Methods()) = %v, want 29", len(ms))
	}
	for i := 1; i < len(ms); i++ {
		if ms[i-1].Method >= ms[i].Method {
			t.Errorf("Methods() not sorted at %v: %v >= %v", i, ms[i-1].Method, ms[i].Method)
		}
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		method string
		format ResponseFormat
	}{
		{"get_all_securities", FormatTabular},
		{"get_index_stocks", FormatLineList},
		{"get_query_count", FormatScalar},
		{"get_fund_info", FormatJSON},
		{"get_factor_values", FormatTabular},
	}
	for _, tt := range tests {
		e, ok := Lookup(tt.method)
		if !ok {
			t.Errorf("Lookup(%v) not found", tt.method)
			continue
		}
		if e.Format != tt.format {
			t.Errorf("Lookup(%v).Format = %v, want %v", tt.method, e.Format, tt.format)
		}
	}

	if _, ok := Lookup("get_nothing"); ok {
		t.Error("Lookup(get_nothing) found")
	}
}

func TestEntry_Consume(t *testing.T) {
	e, _ := Lookup("get_all_securities")
	out, err := e.Consume(strings.NewReader(securitiesCSV))
	if err != nil {
		t.Fatalf("Consume() error = %v", err)
	}
	rows, ok := out.([]Security)
	if !ok {
		t.Fatalf("Consume() = %T, want []Security", out)
	}
	if len(rows) != 1 {
		t.Errorf("len(rows) = %v, want 1", len(rows))
	}
}

func TestDescribe(t *testing.T) {
	d := Describe[int](GetQueryCount{})
	if d.Method != "get_query_count" || d.Format != FormatScalar {
		t.Errorf("Describe() = %+v", d)
	}
}
