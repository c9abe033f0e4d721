package realtime

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// JWT 校验在升级前的中间件里做过了，这里放行所有来源
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Event 推送给客户端的消息封皮
type Event struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Client 单个 websocket 连接，归属于某个用户房间
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	userID uint
}

// Hub 按用户分房间的连接管理器
// 一个用户可以开多个连接（多标签页），推送时发给房间内全部连接
type Hub struct {
	mu    sync.RWMutex
	rooms map[uint]map[*Client]bool
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[uint]map[*Client]bool)}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[c.userID] == nil {
		h.rooms[c.userID] = make(map[*Client]bool)
	}
	h.rooms[c.userID][c] = true
	log.Printf("websocket 连接加入 user=%d 当前连接数=%d", c.userID, len(h.rooms[c.userID]))
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if clients, ok := h.rooms[c.userID]; ok {
		if _, ok := clients[c]; ok {
			delete(clients, c)
			close(c.send)
			if len(clients) == 0 {
				delete(h.rooms, c.userID)
			}
		}
	}
}

// Push 向某个用户的房间推送事件，没人在线时静默丢弃。
// 发送缓冲打满的慢连接直接剔除，推送永不阻塞调用方。
func (h *Hub) Push(userID uint, event string, data interface{}) {
	payload, err := json.Marshal(Event{Event: event, Data: data})
	if err != nil {
		log.Printf("推送消息序列化失败: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.rooms[userID] {
		select {
		case c.send <- payload:
		default:
			delete(h.rooms[userID], c)
			close(c.send)
		}
	}
	if len(h.rooms[userID]) == 0 {
		delete(h.rooms, userID)
	}
}

// RoomSize 房间内连接数，测试用
func (h *Hub) RoomSize(userID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[userID])
}

// ServeWS 把 HTTP 请求升级为 websocket 并挂到用户房间
func ServeWS(hub *Hub, userID uint, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket 升级失败: %v", err)
		return
	}

	client := &Client{
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		userID: userID,
	}
	hub.register(client)

	go client.writePump()
	go client.readPump()
}

// readPump 只处理控制帧和连接关闭，客户端不上行业务消息
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
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
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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
