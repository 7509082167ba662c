package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/grantmcd/prisoners-royale/internal/models"
)

const streamWriteTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	// The editor is served from a different origin during development.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleSimulateStream reads one SimulateRequest from the socket, then sends a
// "round" frame per elimination cycle and a final "result" frame.
func (s *Server) handleSimulateStream(c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Error("failed to upgrade the websocket", "error", err)
		return
	}
	defer ws.Close()
	ws.SetReadLimit(1 << 20)

	runID := uuid.NewString()
	send := func(msg StreamMessage) error {
		msg.RunID = runID
		_ = ws.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
		if err := ws.WriteJSON(msg); err != nil {
			s.logger.Warn("failed to write websocket frame", "run_id", runID, "error", err)
			return err
		}
		return nil
	}

	var req SimulateRequest
	if err := ws.ReadJSON(&req); err != nil {
		_ = send(StreamMessage{Type: streamError, Error: fmt.Sprintf("invalid request: %v", err)})
		return
	}

	players, err := s.participants(req)
	if err != nil {
		_ = send(StreamMessage{Type: streamError, Error: err.Error()})
		return
	}

	s.logger.Info("streamed simulation started", "run_id", runID, "participants", len(players))
	// A failed write stops further frames; the tournament itself always completes.
	var writeErr error
	result, err := s.engine.RunObserved(players, func(log models.RoundLog) {
		if writeErr == nil {
			writeErr = send(StreamMessage{Type: streamRound, Round: &log})
		}
	})
	if err != nil {
		_ = send(StreamMessage{Type: streamError, Error: err.Error()})
		return
	}
	if writeErr == nil {
		_ = send(StreamMessage{Type: streamResult, Result: result})
	}
}
