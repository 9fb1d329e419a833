// Package ws provides the WebSocket endpoint console clients connect to.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/xiaot623/gogo/fleetconsole/internal/config"
	"github.com/xiaot623/gogo/fleetconsole/internal/dispatch"
	"github.com/xiaot623/gogo/fleetconsole/internal/domain"
	"github.com/xiaot623/gogo/fleetconsole/internal/hub"
	"github.com/xiaot623/gogo/fleetconsole/internal/protocol"
	"github.com/xiaot623/gogo/fleetconsole/internal/service"
)

// Console is the service surface the endpoint needs.
type Console interface {
	ProcessCommand(ctx context.Context, text string) (*dispatch.Outcome, error)
	ListAssets() []domain.Asset
	ListIntents() []protocol.IntentInfo
}

// commandTimeout bounds the synchronous part of one command.
const commandTimeout = 10 * time.Second

// Server handles WebSocket connections.
type Server struct {
	cfg      *config.Config
	hub      *hub.Hub
	console  Console
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

// NewServer creates a new WebSocket server.
func NewServer(cfg *config.Config, h *hub.Hub, console Console, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		cfg:     cfg,
		hub:     h,
		console: console,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// RegisterRoutes mounts the endpoint.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/ws", s.HandleWebSocket)
}

// HandleWebSocket handles WebSocket upgrade and connection lifecycle.
// Connections receive console events only after their hello.
func (s *Server) HandleWebSocket(c echo.Context) error {
	ws, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		s.logger.Warn("Failed to upgrade WebSocket", zap.Error(err))
		return err
	}

	conn := s.hub.NewConnection(ws)
	ws.SetReadLimit(s.cfg.MaxMessageSize)

	go s.writePump(conn)
	go s.readPump(conn)

	return nil
}

// readPump reads messages from the WebSocket connection.
func (s *Server) readPump(conn *hub.Connection) {
	defer func() {
		s.hub.Unregister(conn)
		conn.Close()
	}()

	conn.Conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
	conn.Conn.SetPongHandler(func(string) error {
		conn.Conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
		return nil
	})

	greeted := false
	for {
		_, message, err := conn.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("WebSocket error", zap.String("connection_id", conn.ID), zap.Error(err))
			}
			break
		}

		s.handleMessage(conn, message, &greeted)
	}
}

// writePump writes messages to the WebSocket connection.
func (s *Server) writePump(conn *hub.Connection) {
	ticker := time.NewTicker(s.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
			if !ok {
				// Hub closed the channel
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				s.logger.Debug("Failed to write message", zap.String("connection_id", conn.ID), zap.Error(err))
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage dispatches incoming messages to appropriate handlers.
func (s *Server) handleMessage(conn *hub.Connection, data []byte, greeted *bool) {
	var baseMsg protocol.BaseMessage
	if err := json.Unmarshal(data, &baseMsg); err != nil {
		s.sendError(conn, "", protocol.ErrorCodeInvalidMessage, "invalid JSON message")
		return
	}

	switch baseMsg.Type {
	case protocol.TypeHello:
		if s.handleHello(conn, data, *greeted) {
			*greeted = true
		}
	case protocol.TypeCommand:
		if !*greeted {
			s.sendError(conn, baseMsg.RequestID, protocol.ErrorCodeHelloRequired, "must send hello first")
			return
		}
		s.handleCommand(conn, data)
	default:
		s.sendError(conn, baseMsg.RequestID, protocol.ErrorCodeInvalidMessage, "unknown message type: "+baseMsg.Type)
	}
}

// handleHello registers the connection for broadcasts and answers with the
// fleet and command listing. A repeated hello only resends the ack.
func (s *Server) handleHello(conn *hub.Connection, data []byte, greeted bool) bool {
	var msg protocol.HelloMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		s.sendError(conn, "", protocol.ErrorCodeInvalidMessage, "invalid hello message")
		return false
	}

	if !greeted {
		s.hub.Register(conn)
	}

	ack := protocol.HelloAckMessage{
		BaseMessage:  protocol.NewBase(protocol.TypeHelloAck),
		ConnectionID: conn.ID,
		Assets:       s.console.ListAssets(),
		Intents:      s.console.ListIntents(),
	}
	ack.RequestID = msg.RequestID
	if err := s.hub.SendJSONToConnection(conn, ack); err != nil {
		s.logger.Warn("Failed to send hello_ack", zap.String("connection_id", conn.ID), zap.Error(err))
	}

	s.logger.Info("Hello handshake completed", zap.String("connection_id", conn.ID))
	return true
}

// handleCommand processes one utterance. Its events reach every client,
// this one included, through the hub.
func (s *Server) handleCommand(conn *hub.Connection, data []byte) {
	var msg protocol.CommandMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		s.sendError(conn, "", protocol.ErrorCodeInvalidMessage, "invalid command message")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	if _, err := s.console.ProcessCommand(ctx, msg.Text); err != nil {
		if errors.Is(err, service.ErrEmptyCommand) {
			s.sendError(conn, msg.RequestID, protocol.ErrorCodeEmptyCommand, err.Error())
			return
		}
		s.logger.Error("Command failed", zap.String("connection_id", conn.ID), zap.Error(err))
		s.sendError(conn, msg.RequestID, protocol.ErrorCodeInternalError, "failed to process command")
	}
}

// sendError sends an error message to a connection.
func (s *Server) sendError(conn *hub.Connection, requestID, code, message string) {
	errMsg := protocol.ErrorMessage{
		BaseMessage: protocol.NewBase(protocol.TypeError),
		Code:        code,
		Message:     message,
	}
	errMsg.RequestID = requestID
	if err := s.hub.SendJSONToConnection(conn, errMsg); err != nil {
		s.logger.Debug("Failed to send error", zap.String("connection_id", conn.ID), zap.Error(err))
	}
}
