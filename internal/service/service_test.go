package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"jqdata/internal/model"
	"jqdata/pkg/jqdata"
)

type fakeClient struct {
	mu          sync.Mutex
	calls       int
	refreshes   int
	refreshable bool
	token       string
	results     []error // returned in order by ExecuteMethod, nil means success
}

func (f *fakeClient) ExecuteMethod(ctx context.Context, method string, params map[string]any) (any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if len(f.results) == 0 {
		return 42, nil
	}
	err := f.results[0]
	f.results = f.results[1:]
	if err != nil {
		return nil, err
	}
	return 42, nil
}

func (f *fakeClient) Refresh(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.refreshable {
		return &jqdata.Error{Kind: jqdata.KindNoCredential}
	}
	f.refreshes++
	f.token = fmt.Sprintf("tok-%d", f.refreshes+1)
	return nil
}

func (f *fakeClient) CanRefresh() bool { return f.refreshable }

func (f *fakeClient) Token() jqdata.Token {
	f.mu.Lock()
	defer f.mu.Unlock()
	return jqdata.Token{Value: f.token, IssuedAt: time.UnixMilli(1700000000000)}
}

type memRepo struct {
	mu     sync.Mutex
	tokens map[string]model.StoredToken
	execs  []model.Execution
	limits []int
}

func newMemRepo() *memRepo { return &memRepo{tokens: map[string]model.StoredToken{}} }

func (m *memRepo) SaveToken(tok model.StoredToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[tok.Mobile] = tok
	return nil
}

func (m *memRepo) LoadToken(mobile string) (*model.StoredToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tok, ok := m.tokens[mobile]
	if !ok {
		return nil, nil
	}
	return &tok, nil
}

func (m *memRepo) LogExecution(e model.Execution) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.execs = append(m.execs, e)
	return nil
}

func (m *memRepo) RecentExecutions(limit int) ([]model.Execution, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.limits = append(m.limits, limit)
	return m.execs, nil
}

func (m *memRepo) Close() error { return nil }

var errTokenExpired = &jqdata.Error{Kind: jqdata.KindServer, Message: "error: token expired"}

func TestQuery_Success(t *testing.T) {
	c := &fakeClient{token: "tok-1"}
	r := newMemRepo()
	s := NewService(c, r, nil, Options{})

	out, err := s.Query(context.Background(), "req-1", "get_query_count", nil)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if out != 42 {
		t.Errorf("Query() = %v, want 42", out)
	}
	if len(r.execs) != 1 {
		t.Fatalf("executions = %v, want 1", len(r.execs))
	}
	e := r.execs[0]
	if e.RequestID != "req-1" || e.Status != "ok" || e.Format != "single" {
		t.Errorf("execution = %+v", e)
	}
}

func TestQuery_GeneratesRequestID(t *testing.T) {
	r := newMemRepo()
	s := NewService(&fakeClient{}, r, nil, Options{})

	if _, err := s.Query(context.Background(), "", "get_query_count", nil); err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(r.execs[0].RequestID) != 36 {
		t.Errorf("RequestID = %q, want uuid", r.execs[0].RequestID)
	}
}

func TestQuery_RetryOnAuth(t *testing.T) {
	c := &fakeClient{refreshable: true, token: "tok-1", results: []error{errTokenExpired, nil}}
	r := newMemRepo()
	s := NewService(c, r, nil, Options{RetryOnAuth: true, Mobile: "13800000000"})

	out, err := s.Query(context.Background(), "req-1", "get_query_count", nil)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if out != 42 {
		t.Errorf("Query() = %v, want 42", out)
	}
	if c.calls != 2 || c.refreshes != 1 {
		t.Errorf("calls = %v, refreshes = %v, want 2 and 1", c.calls, c.refreshes)
	}
	if got := r.tokens["13800000000"].Token; got != "tok-2" {
		t.Errorf("stored token = %v, want tok-2", got)
	}
}

func TestQuery_RetryOnce(t *testing.T) {
	c := &fakeClient{refreshable: true, results: []error{errTokenExpired, errTokenExpired, nil}}
	s := NewService(c, nil, nil, Options{RetryOnAuth: true})

	_, err := s.Query(context.Background(), "", "get_query_count", nil)
	if !errors.Is(err, jqdata.ErrServer) {
		t.Errorf("Query() error = %v, want server error", err)
	}
	if c.calls != 2 {
		t.Errorf("calls = %v, want 2", c.calls)
	}
}

func TestQuery_NoRetry(t *testing.T) {
	tests := []struct {
		name        string
		retry       bool
		refreshable bool
		err         error
	}{
		{"disabled", false, true, errTokenExpired},
		{"token only client", true, false, errTokenExpired},
		{"other server error", true, true, &jqdata.Error{Kind: jqdata.KindServer, Message: "error: bad date"}},
		{"transport", true, true, &jqdata.Error{Kind: jqdata.KindTransport, Message: "token"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &fakeClient{refreshable: tt.refreshable, results: []error{tt.err, nil}}
			s := NewService(c, nil, nil, Options{RetryOnAuth: tt.retry})

			if _, err := s.Query(context.Background(), "", "get_query_count", nil); err == nil {
				t.Error("Query() error = nil")
			}
			if c.calls != 1 || c.refreshes != 0 {
				t.Errorf("calls = %v, refreshes = %v, want 1 and 0", c.calls, c.refreshes)
			}
		})
	}
}

func TestQuery_LogsFailure(t *testing.T) {
	r := newMemRepo()
	c := &fakeClient{results: []error{fmt.Errorf("%w: get_nothing", jqdata.ErrUnknownMethod)}}
	s := NewService(c, r, nil, Options{})

	s.Query(context.Background(), "x", "get_nothing", nil)
	if len(r.execs) != 1 {
		t.Fatalf("executions = %v, want 1", len(r.execs))
	}
	if r.execs[0].Status != "unknown method" || r.execs[0].Format != "" {
		t.Errorf("execution = %+v", r.execs[0])
	}
}

func TestRefresh_NoCredential(t *testing.T) {
	s := NewService(&fakeClient{}, newMemRepo(), nil, Options{Mobile: "m"})
	err := s.Refresh(context.Background())
	if !errors.Is(err, jqdata.ErrNoCredential) {
		t.Errorf("Refresh() error = %v, want ErrNoCredential", err)
	}
	if StatusOf(err) != http.StatusConflict {
		t.Errorf("StatusOf() = %v, want 409", StatusOf(err))
	}
}

// slowRefresh blocks in Refresh until release is closed and fails if the
// context it was handed is cancelled by then.
type slowRefresh struct {
	*fakeClient
	entered chan struct{}
	release chan struct{}
	flights atomic.Int32
}

func (c *slowRefresh) Refresh(ctx context.Context) error {
	c.flights.Add(1)
	c.entered <- struct{}{}
	<-c.release
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.fakeClient.Refresh(ctx)
}

func TestRefresh_CancelledCallerDoesNotFailOthers(t *testing.T) {
	c := &slowRefresh{
		fakeClient: &fakeClient{refreshable: true},
		entered:    make(chan struct{}, 2),
		release:    make(chan struct{}),
	}
	r := newMemRepo()
	s := NewService(c, r, nil, Options{Mobile: "m"})

	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan error, 1)
	go func() { first <- s.Refresh(ctx) }()
	<-c.entered

	second := make(chan error, 1)
	go func() { second <- s.Refresh(context.Background()) }()
	time.Sleep(20 * time.Millisecond)

	cancel()
	if err := <-first; !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled Refresh() error = %v, want context.Canceled", err)
	}

	close(c.release)
	select {
	case err := <-second:
		if err != nil {
			t.Errorf("second Refresh() error = %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("second Refresh() did not return")
	}
	c.mu.Lock()
	refreshes := c.refreshes
	c.mu.Unlock()
	if refreshes == 0 || refreshes != int(c.flights.Load()) {
		t.Errorf("refreshes = %v of %v calls, want every call to succeed", refreshes, c.flights.Load())
	}
	r.mu.Lock()
	stored := r.tokens["m"].Token
	r.mu.Unlock()
	if stored == "" {
		t.Error("token not persisted after refresh")
	}
}

func TestExecutions_Limit(t *testing.T) {
	tests := []struct {
		limit, want int
	}{
		{0, 50},
		{-3, 50},
		{10, 10},
		{10000, 500},
	}
	for _, tt := range tests {
		r := newMemRepo()
		s := NewService(&fakeClient{}, r, nil, Options{})
		execs, err := s.Executions(tt.limit)
		if err != nil {
			t.Fatalf("Executions(%v) error = %v", tt.limit, err)
		}
		if execs == nil {
			t.Errorf("Executions(%v) = nil, want empty slice", tt.limit)
		}
		if len(r.limits) != 1 || r.limits[0] != tt.want {
			t.Errorf("Executions(%v) asked repo for %v, want %v", tt.limit, r.limits, tt.want)
		}
	}
}

func TestExecutions_NoRepo(t *testing.T) {
	s := NewService(&fakeClient{}, nil, nil, Options{})
	execs, err := s.Executions(5)
	if err != nil || execs == nil || len(execs) != 0 {
		t.Errorf("Executions() = %v, %v, want empty slice", execs, err)
	}
}

func TestStatusOf(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{fmt.Errorf("%w: x", jqdata.ErrUnknownMethod), http.StatusNotFound},
		{&jqdata.Error{Kind: jqdata.KindEncode}, http.StatusBadRequest},
		{&jqdata.Error{Kind: jqdata.KindServer}, http.StatusBadGateway},
		{&jqdata.Error{Kind: jqdata.KindDecode}, http.StatusBadGateway},
		{&jqdata.Error{Kind: jqdata.KindTransport}, http.StatusBadGateway},
		{&jqdata.Error{Kind: jqdata.KindTransport, Err: context.DeadlineExceeded}, http.StatusGatewayTimeout},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := StatusOf(tt.err); got != tt.want {
			t.Errorf("StatusOf(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
