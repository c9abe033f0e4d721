package realtime

import (
	"encoding/json"
	"testing"
)

func newTestClient(hub *Hub, userID uint) *Client {
	return &Client{
		hub:    hub,
		send:   make(chan []byte, sendBuffer),
		userID: userID,
	}
}

func TestPushReachesUserRoom(t *testing.T) {
	hub := NewHub()
	client := newTestClient(hub, 7)
	hub.register(client)

	hub.Push(7, "new_notification", map[string]interface{}{"notification_id": 1})

	select {
	case payload := <-client.send:
		var event Event
		if err := json.Unmarshal(payload, &event); err != nil {
			t.Fatalf("推送内容不是合法 JSON: %v", err)
		}
		if event.Event != "new_notification" {
			t.Errorf("事件名错误: %s", event.Event)
		}
	default:
		t.Fatal("客户端没有收到推送")
	}
}

func TestPushIsolatesRooms(t *testing.T) {
	hub := NewHub()
	alice := newTestClient(hub, 1)
	bob := newTestClient(hub, 2)
	hub.register(alice)
	hub.register(bob)

	hub.Push(1, "new_notification", nil)

	if len(alice.send) != 1 {
		t.Errorf("目标用户应收到 1 条, 得到 %d", len(alice.send))
	}
	if len(bob.send) != 0 {
		t.Errorf("其他用户不应收到推送, 得到 %d", len(bob.send))
	}
}

func TestPushToEmptyRoomIsNoop(t *testing.T) {
	hub := NewHub()
	// 没人在线时静默丢弃，不 panic 不阻塞
	hub.Push(99, "new_notification", nil)
	if hub.RoomSize(99) != 0 {
		t.Error("空房间不应被创建")
	}
}

func TestPushFanOutToMultipleConnections(t *testing.T) {
	hub := NewHub()
	tab1 := newTestClient(hub, 5)
	tab2 := newTestClient(hub, 5)
	hub.register(tab1)
	hub.register(tab2)

	if hub.RoomSize(5) != 2 {
		t.Fatalf("房间连接数错误: %d", hub.RoomSize(5))
	}

	hub.Push(5, "new_notification", nil)
	if len(tab1.send) != 1 || len(tab2.send) != 1 {
		t.Error("多标签页应全部收到推送")
	}
}

func TestUnregisterCleansRoom(t *testing.T) {
	hub := NewHub()
	client := newTestClient(hub, 3)
	hub.register(client)
	hub.unregister(client)

	if hub.RoomSize(3) != 0 {
		t.Error("注销后房间应被清空")
	}
	// 再次注销不应 panic
	hub.unregister(client)
}

func TestSlowClientDropped(t *testing.T) {
	hub := NewHub()
	client := &Client{hub: hub, send: make(chan []byte), userID: 9} // 无缓冲，永远写不进
	hub.register(client)

	hub.Push(9, "new_notification", nil)
	if hub.RoomSize(9) != 0 {
		t.Error("发送缓冲打满的连接应被剔除")
	}
}
