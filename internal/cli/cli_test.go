package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"jqdata/internal/model"
	"jqdata/internal/repo"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := New("1.2.3")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func fakeEndpoint(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		json.NewDecoder(r.Body).Decode(&req)
		switch req["method"] {
		case "get_query_count":
			w.Write([]byte("42"))
		case "get_current_tick":
			w.Write([]byte("time,current,high,low,volume,money\n20200102093000.0,10.5,10.6,10.4,100,1050\n"))
		case "get_index_stocks":
			if req["date"] != "2020-01-02" || req["code"] != "000300.XSHG" {
				t.Errorf("fields = %v", req)
			}
			w.Write([]byte("600000.XSHG\n"))
		default:
			w.Write([]byte("error: unexpected method"))
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if out != "1.2.3\n" {
		t.Errorf("out = %q, want 1.2.3", out)
	}
}

func TestMethods(t *testing.T) {
	out, err := run(t, "methods")
	if err != nil {
		t.Fatalf("methods error = %v", err)
	}
	var ms []map[string]string
	if err := json.Unmarshal([]byte(out), &ms); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(ms) != 29 {
		t.Errorf("len = %v, want 29", len(ms))
	}
}

func TestCount(t *testing.T) {
	server := fakeEndpoint(t)
	out, err := run(t, "count", "--base-url", server.URL, "--token", "t")
	if err != nil {
		t.Fatalf("count error = %v", err)
	}
	if out != "42\n" {
		t.Errorf("out = %q, want 42", out)
	}
}

func TestQuery(t *testing.T) {
	server := fakeEndpoint(t)
	out, err := run(t, "query", "get_index_stocks", "code=000300.XSHG", "date=2020-01-02",
		"--base-url", server.URL, "--token", "t")
	if err != nil {
		t.Fatalf("query error = %v", err)
	}
	if !strings.Contains(out, "600000.XSHG") {
		t.Errorf("out = %q", out)
	}

	if _, err := run(t, "query", "get_nothing", "--token", "t"); err == nil {
		t.Error("unknown method: error = nil")
	}
}

func TestTicks(t *testing.T) {
	server := fakeEndpoint(t)
	out, err := run(t, "ticks", "000002.XSHE", "000001.XSHE", "--base-url", server.URL, "--token", "t")
	if err != nil {
		t.Fatalf("ticks error = %v", err)
	}
	var got []codeTicks
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 || got[0].Code != "000001.XSHE" || len(got[1].Ticks) != 1 {
		t.Errorf("ticks = %+v", got)
	}
}

func TestSecurities_BadKind(t *testing.T) {
	if _, err := run(t, "securities", "bonds", "--token", "t"); err == nil {
		t.Error("error = nil for unknown kind")
	}
}

func TestNoAuth(t *testing.T) {
	t.Setenv("JQDATA_TOKEN", "")
	t.Setenv("JQDATA_MOBILE", "")
	_, err := run(t, "count")
	if !errors.Is(err, errNoAuth) {
		t.Errorf("error = %v, want errNoAuth", err)
	}

	// a mobile without a stored token still has nothing to log in with
	db := filepath.Join(t.TempDir(), "empty.db")
	_, err = run(t, "count", "--mobile", "13800000000", "--db", db)
	if !errors.Is(err, errNoAuth) {
		t.Errorf("mobile only: error = %v, want errNoAuth", err)
	}
}

func openRepo(t *testing.T, path string) *repo.SQLiteRepo {
	t.Helper()
	r, err := repo.NewSQLiteRepo(path)
	if err != nil {
		t.Fatalf("NewSQLiteRepo() error = %v", err)
	}
	return r
}

func TestCount_StoredToken(t *testing.T) {
	t.Setenv("JQDATA_TOKEN", "")
	t.Setenv("JQDATA_PASSWORD", "")
	db := filepath.Join(t.TempDir(), "jq.db")
	r := openRepo(t, db)
	err := r.SaveToken(model.StoredToken{Mobile: "13800000000", Token: "stored-tok", IssuedAt: time.Now()})
	r.Close()
	if err != nil {
		t.Fatalf("SaveToken() error = %v", err)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		json.NewDecoder(r.Body).Decode(&req)
		if req["method"] != "get_query_count" || req["token"] != "stored-tok" {
			t.Errorf("request = %v, want get_query_count with the stored token", req)
		}
		w.Write([]byte("42"))
	}))
	defer server.Close()

	out, err := run(t, "count", "--mobile", "13800000000", "--db", db, "--base-url", server.URL)
	if err != nil {
		t.Fatalf("count error = %v", err)
	}
	if out != "42\n" {
		t.Errorf("out = %q, want 42", out)
	}
}

func TestHistory(t *testing.T) {
	db := filepath.Join(t.TempDir(), "jq.db")
	r := openRepo(t, db)
	base := time.UnixMilli(1700000000000)
	for i, id := range []string{"a", "b", "c"} {
		e := model.Execution{RequestID: id, Method: "get_price", Status: "ok", At: base.Add(time.Duration(i) * time.Second)}
		if err := r.LogExecution(e); err != nil {
			t.Fatalf("LogExecution() error = %v", err)
		}
	}
	r.Close()

	out, err := run(t, "history", "--db", db, "--limit", "2")
	if err != nil {
		t.Fatalf("history error = %v", err)
	}
	var got []model.Execution
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 || got[0].RequestID != "c" || got[1].RequestID != "b" {
		t.Errorf("history = %+v, want c then b", got)
	}

	if _, err := run(t, "history", "--db", db, "--limit", "0"); err == nil {
		t.Error("limit 0: error = nil")
	}
}

func TestParseParams(t *testing.T) {
	got, err := parseParams([]string{"code=000001.XSHE", "count=10", "skip=true", "date="})
	if err != nil {
		t.Fatalf("parseParams() error = %v", err)
	}
	if got["code"] != "000001.XSHE" || got["count"] != 10 || got["skip"] != true || got["date"] != "" {
		t.Errorf("parseParams() = %v", got)
	}

	if _, err := parseParams([]string{"novalue"}); err == nil {
		t.Error("parseParams(novalue) error = nil")
	}
	if _, err := parseParams([]string{"=x"}); err == nil {
		t.Error("parseParams(=x) error = nil")
	}
}
