package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"live-quiz-service/internal/app"
)

// EventSink accepts decoded inbound events; *app.Gateway implements it.
type EventSink interface {
	Submit(ctx context.Context, ev app.Inbound) error
}

type WSHandler struct {
	hub      *Hub
	events   EventSink
	verbose  bool
	upgrader websocket.Upgrader
}

func NewWSHandler(hub *Hub, events EventSink, verbose bool) *WSHandler {
	return &WSHandler{
		hub:     hub,
		events:  events,
		verbose: verbose,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// ServeWS upgrades the request and pumps frames between the socket and the gateway.
// Closing the socket is reported to the gateway as a disconnect.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws: upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	id := uuid.NewString()
	c := h.hub.register(id)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for data := range c.send {
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Printf("ws: write to %s: %v", id, err)
				// keep draining so the hub can close the channel
				for range c.send {
				}
				return
			}
		}
	}()

	ctx := r.Context()
	for {
		var msg inboundMessage
		if err := conn.ReadJSON(&msg); err != nil {
			break
		}
		ev, err := app.DecodeInbound(id, msg.Type, msg.Payload)
		if err != nil {
			if h.verbose {
				log.Printf("ws: drop frame from %s: %v", id, err)
			}
			continue
		}
		if err := h.events.Submit(ctx, ev); err != nil {
			log.Printf("ws: submit %s: %v", msg.Type, err)
			break
		}
	}

	h.hub.unregister(id)
	<-writerDone
	if err := h.events.Submit(context.Background(), app.DisconnectEvent{ConnID: id}); err != nil {
		log.Printf("ws: submit disconnect for %s: %v", id, err)
	}
}
