package service

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"jqdata/internal/model"
	"jqdata/internal/repo"
	"jqdata/pkg/jqdata"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Client is the part of *jqdata.Client the service drives.
type Client interface {
	ExecuteMethod(ctx context.Context, method string, params map[string]any) (any, error)
	Refresh(ctx context.Context) error
	CanRefresh() bool
	Token() jqdata.Token
}

type Options struct {
	// RetryOnAuth refreshes and retries once when the server rejects the token.
	RetryOnAuth bool
	// Mobile keys the token store. Empty disables token persistence.
	Mobile string
}

type Service struct {
	client    Client
	repo      repo.Repository
	logger    *zap.Logger
	opts      Options
	refreshes singleflight.Group
	now       func() time.Time
}

// NewService wires a client to an optional repository.
func NewService(client Client, r repo.Repository, logger *zap.Logger, opts Options) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		client: client,
		repo:   r,
		logger: logger,
		opts:   opts,
		now:    time.Now,
	}
}

// Methods lists the catalog.
func (s *Service) Methods() []jqdata.Descriptor {
	return jqdata.Methods()
}

// Query executes method by name. A rejected token is refreshed and the call
// retried once when the client can refresh.
func (s *Service) Query(ctx context.Context, requestID, method string, params map[string]any) (any, error) {
	if requestID == "" {
		requestID = uuid.NewString()
	}
	log := s.logger.With(zap.String("request_id", requestID), zap.String("method", method))

	start := s.now()
	out, err := s.client.ExecuteMethod(ctx, method, params)
	if err != nil && s.shouldRetry(err) {
		log.Info("token rejected, refreshing", zap.Error(err))
		if rerr := s.Refresh(ctx); rerr != nil {
			log.Warn("refresh before retry failed", zap.Error(rerr))
		} else {
			out, err = s.client.ExecuteMethod(ctx, method, params)
		}
	}
	took := s.now().Sub(start)

	if err != nil {
		log.Warn("query failed", zap.Duration("took", took), zap.Error(err))
	} else {
		log.Debug("query done", zap.Duration("took", took))
	}
	s.record(requestID, method, start, took, err)
	return out, err
}

// Refresh exchanges the credential for a new token and persists it.
// Concurrent callers share one exchange, which outlives any single caller's
// cancellation; a cancelled caller returns early with ctx.Err().
func (s *Service) Refresh(ctx context.Context) error {
	ch := s.refreshes.DoChan("refresh", func() (any, error) {
		if err := s.client.Refresh(context.WithoutCancel(ctx)); err != nil {
			return nil, err
		}
		s.saveToken()
		return nil, nil
	})
	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

const (
	defaultExecutions = 50
	maxExecutions     = 500
)

// Executions returns the most recent execution records, newest first.
// limit <= 0 means the default; it is capped at maxExecutions.
func (s *Service) Executions(limit int) ([]model.Execution, error) {
	if s.repo == nil {
		return []model.Execution{}, nil
	}
	switch {
	case limit <= 0:
		limit = defaultExecutions
	case limit > maxExecutions:
		limit = maxExecutions
	}
	execs, err := s.repo.RecentExecutions(limit)
	if err != nil {
		return nil, err
	}
	if execs == nil {
		execs = []model.Execution{}
	}
	return execs, nil
}

func (s *Service) shouldRetry(err error) bool {
	if !s.opts.RetryOnAuth || !s.client.CanRefresh() {
		return false
	}
	var e *jqdata.Error
	if !errors.As(err, &e) || e.Kind != jqdata.KindServer {
		return false
	}
	return strings.Contains(strings.ToLower(e.Message), "token")
}

func (s *Service) saveToken() {
	if s.repo == nil || s.opts.Mobile == "" {
		return
	}
	tok := s.client.Token()
	err := s.repo.SaveToken(model.StoredToken{
		Mobile:   s.opts.Mobile,
		Token:    tok.Value,
		IssuedAt: tok.IssuedAt,
	})
	if err != nil {
		s.logger.Warn("token not persisted", zap.Error(err))
	}
}

func (s *Service) record(requestID, method string, at time.Time, took time.Duration, err error) {
	if s.repo == nil {
		return
	}
	e := model.Execution{
		RequestID: requestID,
		Method:    method,
		Status:    "ok",
		Duration:  took,
		At:        at,
	}
	if entry, ok := jqdata.Lookup(method); ok {
		e.Format = entry.Format.String()
	}
	if err != nil {
		e.Status = statusText(err)
		e.Error = err.Error()
	}
	if err := s.repo.LogExecution(e); err != nil {
		s.logger.Warn("execution not logged", zap.Error(err))
	}
}

func statusText(err error) string {
	if errors.Is(err, jqdata.ErrUnknownMethod) {
		return "unknown method"
	}
	if k := jqdata.KindOf(err); k != 0 {
		return k.String()
	}
	return "error"
}

// StatusOf maps an error to the HTTP status reported by the gateway.
func StatusOf(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, jqdata.ErrUnknownMethod):
		return http.StatusNotFound
	case errors.Is(err, jqdata.ErrNoCredential):
		return http.StatusConflict
	case errors.Is(err, jqdata.ErrEncode):
		return http.StatusBadRequest
	case errors.Is(err, jqdata.ErrServer), errors.Is(err, jqdata.ErrDecode):
		return http.StatusBadGateway
	case errors.Is(err, jqdata.ErrTransport):
		if isTimeout(err) {
			return http.StatusGatewayTimeout
		}
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
