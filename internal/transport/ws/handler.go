package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"jqdata/internal/model"
	"jqdata/internal/service"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handler handles a single WebSocket connection. Requests run concurrently;
// responses are written one at a time.
type Handler struct {
	Conn   *websocket.Conn
	Svc    Dispatcher
	SendMu sync.Mutex

	logger  *zap.Logger
	pending sync.WaitGroup
}

// NewHandler creates a new WebSocket handler.
func NewHandler(conn *websocket.Conn, svc Dispatcher, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Conn:   conn,
		Svc:    svc,
		logger: logger,
	}
}

// Send writes one response.
func (h *Handler) Send(resp model.Response) error {
	h.SendMu.Lock()
	defer h.SendMu.Unlock()
	return h.Conn.WriteJSON(resp)
}

// Loop reads requests until the peer goes away. In-flight requests are
// cancelled and drained before the connection closes.
func (h *Handler) Loop(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		h.pending.Wait()
		h.Conn.Close()
	}()

	for {
		_, data, err := h.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("ws read error", zap.Error(err))
			}
			return
		}

		var req model.Request
		if err := json.Unmarshal(data, &req); err != nil {
			h.reply(model.Response{Code: http.StatusBadRequest, Message: "invalid request: " + err.Error()})
			continue
		}
		if req.RequestID == "" {
			req.RequestID = uuid.NewString()
		}

		h.pending.Add(1)
		go func() {
			defer h.pending.Done()
			h.reply(h.handleRequest(ctx, req))
		}()
	}
}

func (h *Handler) handleRequest(ctx context.Context, req model.Request) model.Response {
	resp := model.Response{RequestID: req.RequestID}

	var (
		err  error
		data any
	)
	switch req.Command {
	case "":
		resp.Code = http.StatusBadRequest
		resp.Message = "missing command"
		return resp
	case "methods":
		data = h.Svc.Methods()
	case "refresh":
		err = h.Svc.Refresh(ctx)
		data = "refreshed"
	default:
		data, err = h.Svc.Query(ctx, req.RequestID, req.Command, req.Params)
	}

	if err != nil {
		resp.Code = service.StatusOf(err)
		resp.Message = err.Error()
		return resp
	}
	resp.Code = 0
	resp.Message = "success"
	resp.Data = data
	return resp
}

func (h *Handler) reply(resp model.Response) {
	if err := h.Send(resp); err != nil {
		h.logger.Debug("ws write failed", zap.String("request_id", resp.RequestID), zap.Error(err))
	}
}
