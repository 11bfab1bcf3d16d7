// Package ws publica eventos de cambio a los clientes conectados: la UI
// recarga sus datos al recibir un evento en lugar de hacer merge.
package ws

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/rs/zerolog"
)

// ChangeEvent evento de cambio de una colección.
type ChangeEvent struct {
	Entity string `json:"entity"` // products, movements, categories, settings, store
	Action string `json:"action"` // add, update, delete, clear, reload
}

// Hub registra conexiones websocket y difunde eventos de cambio.
type Hub struct {
	log        zerolog.Logger
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	broadcast  chan ChangeEvent
	done       chan struct{}

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

// NewHub construye el hub.
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		log:        log,
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		broadcast:  make(chan ChangeEvent, 64),
		done:       make(chan struct{}),
		clients:    make(map[*websocket.Conn]struct{}),
	}
}

// Run atiende registros y difusión hasta Stop. Lanzar en su propia goroutine.
func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			h.clients[conn] = struct{}{}
			h.mu.Unlock()
			h.log.Debug().Msg("cliente websocket conectado")

		case conn := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
			}
			h.mu.Unlock()

		case ev := <-h.broadcast:
			msg, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			h.mu.Lock()
			for conn := range h.clients {
				if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
					conn.Close()
					delete(h.clients, conn)
				}
			}
			h.mu.Unlock()

		case <-h.done:
			h.mu.Lock()
			for conn := range h.clients {
				conn.Close()
				delete(h.clients, conn)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Publish difunde un evento sin bloquear al emisor; si el buffer está
// lleno el evento se descarta (los clientes recargan todo igual).
func (h *Hub) Publish(ev ChangeEvent) {
	select {
	case h.broadcast <- ev:
	default:
	}
}

// Handler atiende una conexión entrante. Los clientes solo escuchan; los
// mensajes entrantes se leen y descartan para detectar la desconexión.
func (h *Hub) Handler(conn *websocket.Conn) {
	h.register <- conn
	defer func() { h.unregister <- conn }()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Stop cierra todas las conexiones y detiene el hub.
func (h *Hub) Stop() {
	close(h.done)
}
