package realtime

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/verifact-app/backend/internal/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Cross-origin checks happen at the CORS layer; the socket itself
	// accepts any origin so local dev clients can connect.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Client is one websocket connection bound to a user room.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID string
	send   chan []byte
}

// joinFrame is the first message a client sends after connecting.
// The hub trusts the announced user id; see the API docs for the
// authentication caveats of the realtime channel.
type joinFrame struct {
	UserID string `json:"userId"`
}

// ServeWS upgrades the request and starts the read/write pumps once the
// client announces which user room to join.
func ServeWS(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Error("realtime: upgrade failed: %v", err)
			return
		}

		conn.SetReadLimit(maxMessageSize)
		conn.SetReadDeadline(time.Now().Add(pongWait))

		// First frame carries the user id joining the room.
		_, raw, err := conn.ReadMessage()
		if err != nil {
			conn.Close()
			return
		}

		var join joinFrame
		if err := json.Unmarshal(raw, &join); err != nil || join.UserID == "" {
			conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "expected join frame"))
			conn.Close()
			return
		}

		client := &Client{
			hub:    hub,
			conn:   conn,
			userID: join.UserID,
			send:   make(chan []byte, 64),
		}
		hub.join <- client

		go client.writePump()
		go client.readPump()
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.leave <- c
		c.conn.Close()
	}()

	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	// Clients only send the join frame; everything after is drained so
	// pings/pongs keep flowing until the peer goes away.
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
