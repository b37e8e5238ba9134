package server

import (
	"errors"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/livedom/pkg/protocol"
)

// serve runs the connection loops of an attached session and blocks until
// the connection ends. The session is closed on return.
func (s *Session) serve() {
	defer s.Close()
	go s.heartbeatLoop()
	s.readLoop()
}

// readLoop continuously reads messages from the WebSocket connection.
// It decodes frames, handles control messages and dispatches events.
func (s *Session) readLoop() {
	s.conn.SetReadLimit(s.config.MaxMessageSize)

	for {
		s.conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))

		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.logger.Error("read error", "error", err)
			}
			return
		}

		s.UpdateLastActive()
		s.bytesRecv.Add(uint64(len(msg)))

		frame, err := protocol.DecodeFrame(msg)
		if err != nil {
			s.logger.Warn("frame decode error", "error", err)
			s.sendError(err, false)
			continue
		}

		switch frame.Type {
		case protocol.FrameEvent:
			s.handleEventFrame(frame.Payload)

		case protocol.FrameControl:
			if !s.handleControlFrame(frame.Payload) {
				return
			}

		default:
			s.logger.Warn("unexpected frame type", "type", frame.Type)
		}
	}
}

// handleEventFrame decodes an event and dispatches it into the tree.
func (s *Session) handleEventFrame(payload []byte) {
	ev, err := protocol.DecodeEventWithLimits(payload, s.config.EventLimits)
	if err != nil {
		s.logger.Warn("event decode error", "error", err)
		s.sendError(err, false)
		return
	}

	if err := s.Dispatch(s.ctx, ev); err != nil {
		switch {
		case errors.Is(err, ErrSessionClosed):
			return
		case errors.Is(err, ErrHandlerPanic):
			// logged with its stack by safeExecute
		case errors.Is(err, ErrUnknownTarget):
			s.logger.Debug("event for unknown node dropped", "target", ev.Target, "type", ev.Type)
		default:
			s.logger.Error("update failed", "event", ev.Type, "target", ev.Target, "error", err)
		}
		s.sendError(err, false)
	}
}

// handleControlFrame handles control messages. It returns false when the
// client asked to close.
func (s *Session) handleControlFrame(payload []byte) bool {
	ct, data, err := protocol.DecodeControl(payload)
	if err != nil {
		s.logger.Warn("control decode error", "error", err)
		return true
	}

	switch ct {
	case protocol.ControlPing:
		if pp, ok := data.(*protocol.PingPong); ok {
			if err := s.sendControl(protocol.NewPong(pp.Timestamp)); err != nil {
				s.logger.Error("pong error", "error", err)
			}
		}

	case protocol.ControlPong:
		s.logger.Debug("received pong")

	case protocol.ControlClose:
		if cm, ok := data.(*protocol.CloseMessage); ok {
			s.logger.Info("client closing", "reason", cm.Reason, "message", cm.Message)
		}
		return false
	}
	return true
}

// heartbeatLoop sends periodic pings until the session is closed.
func (s *Session) heartbeatLoop() {
	ticker := time.NewTicker(s.config.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.sendPing(); err != nil {
				if !errors.Is(err, ErrSessionClosed) {
					s.logger.Error("ping error", "error", err)
				}
				return
			}
		case <-s.done:
			return
		}
	}
}
