package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Консоль живет на том же хосте, но в разработке origin отличается
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// WSController выдает live-обновления заказов открытым вкладкам консоли
type WSController struct {
	hub *Hub
}

// NewWSController создает новый WebSocket контроллер
func NewWSController(hub *Hub) *WSController {
	return &WSController{hub: hub}
}

// ServeWS обрабатывает WebSocket подключения от консоли
// GET /api/v1/ws/orders
func (wc *WSController) ServeWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("⚠️ Ошибка обновления WebSocket соединения: %v", err)
		return
	}

	wc.hub.AddClient(conn)
	log.Printf("📱 Вкладка консоли подключена. Всего подключений: %d", wc.hub.GetClientsCount())

	defer func() {
		wc.hub.RemoveClient(conn)
		log.Printf("📱 Вкладка консоли отключена. Осталось подключений: %d", wc.hub.GetClientsCount())
	}()

	// Читаем сообщения от клиента (ping/pong для поддержания соединения)
	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("⚠️ WebSocket ошибка: %v", err)
			}
			break
		}
	}
}
