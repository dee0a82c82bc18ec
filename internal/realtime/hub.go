package realtime

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"
)

// Hub tracks the connected clients of every user and routes events to them.
// All state is owned by the Run loop.
type Hub struct {
	clients map[string]map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	direct     chan *directMsg
	replies    chan *replyMsg
	online     chan onlineQuery
	done       chan struct{}

	log zerolog.Logger
}

type directMsg struct {
	userID string
	data   []byte
}

type replyMsg struct {
	client *Client
	data   []byte
}

type onlineQuery struct {
	userID string
	reply  chan bool
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		direct:     make(chan *directMsg, 256),
		replies:    make(chan *replyMsg, 64),
		online:     make(chan onlineQuery),
		done:       make(chan struct{}),
		log:        log.With().Str("component", "ws-hub").Logger(),
	}
}

// Run starts the Hub's main event loop and returns when ctx is done.
// Call this in a goroutine.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for _, conns := range h.clients {
				for client := range conns {
					close(client.send)
				}
			}
			h.clients = make(map[string]map[*Client]struct{})
			return

		case client := <-h.register:
			conns, ok := h.clients[client.userID]
			if !ok {
				conns = make(map[*Client]struct{})
				h.clients[client.userID] = conns
			}
			conns[client] = struct{}{}
			h.log.Debug().Str("user", client.userID).Int("users", len(h.clients)).Msg("client connected")

		case client := <-h.unregister:
			h.remove(client)

		case msg := <-h.direct:
			for client := range h.clients[msg.userID] {
				select {
				case client.send <- msg.data:
				default:
					// Client buffer full - disconnect
					h.remove(client)
				}
			}

		case msg := <-h.replies:
			if _, ok := h.clients[msg.client.userID][msg.client]; ok {
				select {
				case msg.client.send <- msg.data:
				default:
				}
			}

		case q := <-h.online:
			q.reply <- len(h.clients[q.userID]) > 0
		}
	}
}

func (h *Hub) remove(client *Client) {
	conns, ok := h.clients[client.userID]
	if !ok {
		return
	}
	if _, ok := conns[client]; !ok {
		return
	}
	delete(conns, client)
	close(client.send)
	if len(conns) == 0 {
		delete(h.clients, client.userID)
	}
	h.log.Debug().Str("user", client.userID).Int("users", len(h.clients)).Msg("client disconnected")
}

// SendToUser queues event for every connection of userID. Users without a
// connection are skipped.
func (h *Hub) SendToUser(userID string, event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.log.Error().Err(err).Str("type", event.Type).Msg("marshal event")
		return
	}
	select {
	case h.direct <- &directMsg{userID: userID, data: data}:
	default:
		h.log.Warn().Str("user", userID).Str("type", event.Type).Msg("hub queue full, event dropped")
	}
}

// Online reports whether userID has at least one open connection.
func (h *Hub) Online(ctx context.Context, userID string) bool {
	q := onlineQuery{userID: userID, reply: make(chan bool, 1)}
	select {
	case h.online <- q:
	case <-ctx.Done():
		return false
	case <-h.done:
		return false
	}
	select {
	case online := <-q.reply:
		return online
	case <-ctx.Done():
		return false
	}
}
