package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vanshika/granttrace/backend/internal/network"
)

const (
	liveWriteWait  = 10 * time.Second
	livePongWait   = 60 * time.Second
	livePingPeriod = (livePongWait * 9) / 10
	liveMaxMessage = 64 * 1024
)

// Live channel message types.
const (
	liveTypeNetwork = "network"
	liveTypeError   = "error"
)

type liveMessage struct {
	Type  string           `json:"type"`
	Seq   int              `json:"seq"`
	Data  *networkResponse `json:"data,omitempty"`
	Error string           `json:"error,omitempty"`
}

type liveJob struct {
	seq    int
	params network.Params
	err    error
}

// handleLive upgrades to a websocket. Each client message is a parameter object;
// the server answers with the network for the most recent parameters only, so a
// burst of edits yields one computation.
func (h *APIHandlers) handleLive(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("live upgrade failed", "error", err)
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	pending := make(chan liveJob, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		h.liveWritePump(ctx, conn, pending)
	}()

	h.liveReadPump(conn, pending)
	cancel()
	<-done
	_ = conn.Close()
}

func (h *APIHandlers) liveReadPump(conn *websocket.Conn, pending chan liveJob) {
	conn.SetReadLimit(liveMaxMessage)
	_ = conn.SetReadDeadline(time.Now().Add(livePongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(livePongWait))
	})

	for seq := 1; ; seq++ {
		var in paramsInput
		if err := conn.ReadJSON(&in); err != nil {
			var syntaxErr *json.SyntaxError
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
				replaceLatest(pending, liveJob{seq: seq, err: errors.New("invalid parameter message")})
				continue
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("live connection closed", "error", err)
			}
			return
		}
		replaceLatest(pending, liveJob{seq: seq, params: in.toParams(h.defaults)})
	}
}

func (h *APIHandlers) liveWritePump(ctx context.Context, conn *websocket.Conn, pending <-chan liveJob) {
	ticker := time.NewTicker(livePingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(liveWriteWait))
			return
		case job := <-pending:
			msg := h.runLiveJob(ctx, job)
			_ = conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
			if err := conn.WriteJSON(msg); err != nil {
				h.logger.Warn("live write failed", "error", err)
				_ = conn.Close()
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				_ = conn.Close()
				return
			}
		}
	}
}

func (h *APIHandlers) runLiveJob(ctx context.Context, job liveJob) liveMessage {
	if job.err != nil {
		return liveMessage{Type: liveTypeError, Seq: job.seq, Error: job.err.Error()}
	}
	snap, err := h.service.Network(ctx, job.params)
	if err != nil {
		return liveMessage{Type: liveTypeError, Seq: job.seq, Error: err.Error()}
	}
	resp := newNetworkResponse(snap)
	return liveMessage{Type: liveTypeNetwork, Seq: job.seq, Data: &resp}
}

// replaceLatest stores job in the single-slot channel, discarding any job the
// writer has not picked up yet. Only the reader sends, so the final send never blocks.
func replaceLatest(pending chan liveJob, job liveJob) {
	select {
	case pending <- job:
		return
	default:
	}
	select {
	case <-pending:
	default:
	}
	pending <- job
}
