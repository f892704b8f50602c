package api

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/reelinbookings/backend/internal/middleware"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Origin is enforced by the CORS middleware upstream
	},
}

// ViewConn is one connected dashboard view (a browser tab or device).
type ViewConn struct {
	Conn   *websocket.Conn
	Send   chan []byte
	UserID string
}

// ViewManager tracks connected dashboard views per user so schedule
// changes can tell every open view to re-fetch the authoritative
// state. One user may hold several views at once.
type ViewManager struct {
	views      map[*ViewConn]bool
	userViews  map[string]map[*ViewConn]bool
	register   chan *ViewConn
	unregister chan *ViewConn
	mu         sync.RWMutex
	logger     *zap.Logger
}

func NewViewManager(logger *zap.Logger) *ViewManager {
	return &ViewManager{
		views:      make(map[*ViewConn]bool),
		userViews:  make(map[string]map[*ViewConn]bool),
		register:   make(chan *ViewConn),
		unregister: make(chan *ViewConn),
		logger:     logger,
	}
}

func (m *ViewManager) Run() {
	for {
		select {
		case view := <-m.register:
			m.mu.Lock()
			m.views[view] = true
			if _, ok := m.userViews[view.UserID]; !ok {
				m.userViews[view.UserID] = make(map[*ViewConn]bool)
			}
			m.userViews[view.UserID][view] = true
			m.mu.Unlock()
			m.logger.Debug("view connected", zap.String("user_id", view.UserID))

		case view := <-m.unregister:
			m.mu.Lock()
			if _, ok := m.views[view]; ok {
				delete(m.views, view)
				if userMap, ok := m.userViews[view.UserID]; ok {
					delete(userMap, view)
					if len(userMap) == 0 {
						delete(m.userViews, view.UserID)
					}
				}
				close(view.Send)
				m.logger.Debug("view disconnected", zap.String("user_id", view.UserID))
			}
			m.mu.Unlock()
		}
	}
}

// ViewEvent is the JSON frame pushed to connected views.
type ViewEvent struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// BroadcastReload tells every connected view to re-fetch the schedule.
// Slow views are skipped rather than blocked on.
func (m *ViewManager) BroadcastReload() {
	m.sendAll(ViewEvent{Type: "schedule.reload"})
}

// SendToUser pushes an event to all of one user's connected views.
func (m *ViewManager) SendToUser(userID string, event ViewEvent) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	views, ok := m.userViews[userID]
	if !ok {
		return
	}
	msg, err := json.Marshal(event)
	if err != nil {
		m.logger.Error("failed to marshal view event", zap.Error(err))
		return
	}
	for view := range views {
		select {
		case view.Send <- msg:
		default:
		}
	}
}

func (m *ViewManager) sendAll(event ViewEvent) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	msg, err := json.Marshal(event)
	if err != nil {
		m.logger.Error("failed to marshal view event", zap.Error(err))
		return
	}
	for view := range m.views {
		select {
		case view.Send <- msg:
		default:
		}
	}
}

// ServeWS upgrades an authenticated request to a view connection.
func (m *ViewManager) ServeWS(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		m.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	view := &ViewConn{
		Conn:   conn,
		Send:   make(chan []byte, 16),
		UserID: userID,
	}
	m.register <- view

	go view.writePump()
	go view.readPump(m)
}

func (v *ViewConn) readPump(manager *ViewManager) {
	defer func() {
		manager.unregister <- v
		v.Conn.Close()
	}()

	for {
		// Views only receive; reads just detect disconnects.
		if _, _, err := v.Conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (v *ViewConn) writePump() {
	defer v.Conn.Close()

	for message := range v.Send {
		w, err := v.Conn.NextWriter(websocket.TextMessage)
		if err != nil {
			return
		}
		w.Write(message)

		// Drain queued events into the same frame.
		n := len(v.Send)
		for i := 0; i < n; i++ {
			w.Write(<-v.Send)
		}

		if err := w.Close(); err != nil {
			return
		}
	}
	v.Conn.WriteMessage(websocket.CloseMessage, []byte{})
}
