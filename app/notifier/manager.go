package notifier

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gorilla/websocket"
	cache "github.com/patrickmn/go-cache"
	"github.com/pkg/errors"

	"github.com/frabrice/Emodocar-web/app/models"
	"github.com/frabrice/Emodocar-web/pkg/log"
	"github.com/frabrice/Emodocar-web/pkg/uuid"
)

const (
	// time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// time allowed to read the next pong message from the peer
	pongWait = 30 * time.Second

	// send pings to peer with this period, must be less than pongWait
	pingPeriod = (pongWait * 8) / 10
)

var (
	upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
)

type unsubscribeHandler func(*subscription)

type subscription struct {
	id            string
	conn          *websocket.Conn
	send          chan interface{}
	onUnsubscribe unsubscribeHandler
}

func (s *subscription) read() {
	defer func() {
		if s.onUnsubscribe != nil {
			s.onUnsubscribe(s)
		}
		_ = s.conn.Close()
	}()

	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, _, err := s.conn.ReadMessage()
		if err != nil { // failed to read pong or other message
			break
		}
	}
}

func (s *subscription) write() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = s.conn.Close()
	}()

	for {
		select {
		case message, ok := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok { // the channel was closed by notifier
				_ = s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteJSON(message); err != nil {
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, []byte{}); err != nil {
				return
			}
		}
	}
}

// Manager fans transient console messages out to websocket subscribers and
// keeps them listable until their display window expires.
type Manager struct {
	subscribers   map[string]*subscription
	feed          *cache.Cache
	notifications chan *models.Notification
	register      chan *subscription
	unregister    chan *subscription
}

func NewManager(displayWindow time.Duration) *Manager {
	return &Manager{
		subscribers:   make(map[string]*subscription),
		feed:          cache.New(displayWindow, displayWindow),
		notifications: make(chan *models.Notification),
		register:      make(chan *subscription),
		unregister:    make(chan *subscription),
	}
}

func (m *Manager) Subscribe(ctx context.Context, sub *models.NewSubscription) error {
	conn, err := upgrader.Upgrade(sub.ResponseWriter, sub.Request, nil)
	if err != nil {
		return errors.Wrap(err, "failed to upgrade a connection")
	}

	m.register <- &subscription{
		id:   uuid.NewUUID(),
		conn: conn,
		send: make(chan interface{}),
		onUnsubscribe: func(s *subscription) {
			m.unregister <- s
		},
	}
	return nil
}

// Notify records a notification and pushes it to every subscriber.
func (m *Manager) Notify(ctx context.Context, level, message string) {
	notification := &models.Notification{
		ID:        uuid.NewUUID(),
		Level:     level,
		Message:   message,
		CreatedAt: time.Now(),
	}
	log.Infow("notify", "level", level, "message", message)

	m.feed.SetDefault(notification.ID, notification)
	m.notifications <- notification
}

// Live returns the notifications whose display window has not expired yet,
// oldest first.
func (m *Manager) Live() []*models.Notification {
	items := m.feed.Items()
	result := make([]*models.Notification, 0, len(items))
	for _, item := range items {
		if n, ok := item.Object.(*models.Notification); ok {
			result = append(result, n)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result
}

func (m *Manager) Start() {
	log.Info("starting notifier service")
	for {
		select {
		case sub := <-m.register:
			m.subscribers[sub.id] = sub
			go sub.read()
			go sub.write()
		case sub := <-m.unregister:
			if _, ok := m.subscribers[sub.id]; ok {
				delete(m.subscribers, sub.id)
				close(sub.send)
			}
		case notification := <-m.notifications:
			for _, s := range m.subscribers {
				s.send <- notification
			}
		}
	}
}
