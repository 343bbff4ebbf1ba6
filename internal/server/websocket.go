package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The CORS middleware already allows any origin, so the handshake must
	// not be stricter than the HTTP surface.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// MessageType discriminates websocket frames on the live search channel.
type MessageType string

const (
	MsgTypeSearchQuery   MessageType = "SearchQuery"
	MsgTypeSearchResults MessageType = "SearchResults"
	MsgTypeSystemError   MessageType = "SystemError"
)

// WSMessage is the envelope for every frame in both directions.
type WSMessage struct {
	Type      MessageType            `json:"type"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Timestamp string                 `json:"timestamp"`
	RequestID string                 `json:"request_id,omitempty"`
}

const (
	writeWait       = 10 * time.Second
	pongWait        = 60 * time.Second
	pingPeriod      = (pongWait * 9) / 10
	maxMessageSize  = 4096
	sendChannelSize = 64
)

// wsClient is one live search connection with its outgoing message queue.
type wsClient struct {
	server *Server
	conn   *websocket.Conn
	send   chan WSMessage
}

// handleLiveSearch upgrades the connection and runs the pumps. Queries come
// in as SearchQuery frames and results go back correlated by request_id, so
// a typeahead UI can drop stale responses.
func (s *Server) handleLiveSearch() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			s.logger.Error("Failed to upgrade connection to WebSocket", zap.Error(err))
			return
		}

		s.logger.Debug("Live search connection established",
			zap.String("remoteAddr", r.RemoteAddr))

		client := &wsClient{
			server: s,
			conn:   conn,
			send:   make(chan WSMessage, sendChannelSize),
		}

		go client.writePump()
		client.readPump()
	}
}

// readPump processes incoming frames until the connection closes. Keeping
// reads on a dedicated loop lets control messages (pongs, close) be handled
// promptly.
func (c *wsClient) readPump() {
	defer c.conn.Close()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.server.logger.Error("Failed to set initial read deadline", zap.Error(err))
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg WSMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.server.logger.Error("WebSocket closed unexpectedly", zap.Error(err))
			} else {
				c.server.logger.Debug("WebSocket connection closed.")
			}
			break
		}
		c.processMessage(msg)
	}
}

// writePump serializes all writes to the connection and keeps it alive with
// periodic pings.
func (c *wsClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.server.logger.Error("Failed to set write deadline", zap.Error(err))
				return
			}
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				c.server.logger.Error("Error writing JSON message to WebSocket", zap.Error(err))
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.server.logger.Error("Failed to set write deadline for PING", zap.Error(err))
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *wsClient) processMessage(msg WSMessage) {
	switch msg.Type {
	case MsgTypeSearchQuery:
		queryRaw, ok := msg.Data["query"]
		if !ok {
			c.sendError(msg.RequestID, "Missing 'query' field in SearchQuery message.")
			return
		}
		query, ok := queryRaw.(string)
		if !ok {
			c.sendError(msg.RequestID, "Invalid 'query' provided.")
			return
		}

		results := c.server.search.Search(strings.TrimSpace(query))
		c.sendMessage(MsgTypeSearchResults, msg.RequestID, map[string]interface{}{
			"query":   query,
			"count":   len(results),
			"results": results,
		})

	default:
		c.server.logger.Warn("Received unknown message type from client",
			zap.String("type", string(msg.Type)))
		c.sendError(msg.RequestID, "Unknown or unsupported message type.")
	}
}

// sendMessage queues a frame, dropping it when the client stops draining.
func (c *wsClient) sendMessage(msgType MessageType, requestID string, data map[string]interface{}) {
	msg := WSMessage{
		Type:      msgType,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		RequestID: requestID,
	}
	select {
	case c.send <- msg:
	default:
		c.server.logger.Error("WebSocket send buffer full, dropping message.",
			zap.String("requestID", requestID),
			zap.String("type", string(msgType)))
	}
}

func (c *wsClient) sendError(requestID, errorMessage string) {
	c.sendMessage(MsgTypeSystemError, requestID, map[string]interface{}{
		"error": errorMessage,
	})
}
