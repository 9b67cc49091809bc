package sync

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	wsPongWait   = 60 * time.Second
	wsPingPeriod = wsPongWait * 9 / 10
	// subscribers only send control frames
	wsMaxMessage = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// the feed is public and read-only, like the REST API
	CheckOrigin: func(*http.Request) bool { return true },
}

// WSHandler upgrades GET /ws and keeps the subscriber until it disconnects
// or stops answering pings.
func WSHandler(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			hub.logger.Warn("ws upgrade", "err", err)
			return
		}
		remote := c.ClientIP()

		ws.SetReadLimit(wsMaxMessage)
		_ = ws.SetReadDeadline(time.Now().Add(wsPongWait))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(wsPongWait))
		})

		_ = ws.WriteMessage(websocket.TextMessage, hub.welcome("websocket"))
		hub.AddWS(ws)
		hub.logger.Info("ws client connected", "remote", remote)

		done := make(chan struct{})
		go func() {
			t := time.NewTicker(wsPingPeriod)
			defer t.Stop()
			for {
				select {
				case <-done:
					return
				case <-t.C:
					deadline := time.Now().Add(writeTimeout)
					if err := ws.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
						return
					}
				}
			}
		}()

		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				break
			}
		}
		close(done)

		hub.RemoveWS(ws)
		hub.logger.Info("ws client disconnected", "remote", remote)
	}
}
