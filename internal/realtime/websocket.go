package realtime

import "github.com/gofiber/websocket/v2"

// WebSocketConn wraps websocket.Conn so the hub does not depend on the transport.
type WebSocketConn struct {
	Conn *websocket.Conn
}

func NewWebSocketConn(c *websocket.Conn) *WebSocketConn {
	return &WebSocketConn{Conn: c}
}

// Write sends one text frame.
func (w *WebSocketConn) Write(msg []byte) error {
	return w.Conn.WriteMessage(websocket.TextMessage, msg)
}
