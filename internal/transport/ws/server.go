package ws

import (
	"context"
	"net/http"

	"jqdata/pkg/jqdata"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Dispatcher executes socket commands.
type Dispatcher interface {
	Query(ctx context.Context, requestID, method string, params map[string]any) (any, error)
	Refresh(ctx context.Context) error
	Methods() []jqdata.Descriptor
}

// Server manages WebSocket connections.
type Server struct {
	Svc      Dispatcher
	Upgrader websocket.Upgrader
	Logger   *zap.Logger
}

// NewServer creates a new WebSocket server.
func NewServer(svc Dispatcher, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		Svc:    svc,
		Logger: logger,
		Upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins for script and plugin access
			},
		},
	}
}

// ServeHTTP handles the WebSocket handshake and connection.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.Logger.Warn("ws upgrade failed", zap.Error(err))
		return
	}

	log := s.Logger.With(zap.String("remote", r.RemoteAddr))
	log.Info("ws connected")
	handler := NewHandler(conn, s.Svc, log)
	handler.Loop(r.Context())
	log.Info("ws closed")
}
