package api

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	eventEvaluation = "evaluation"
	eventBatch      = "batch"
	eventDeleted    = "deleted"
)

// EvaluationEvent describes websocket payloads emitted when evaluations are stored.
type EvaluationEvent struct {
	Type       string         `json:"type"`
	Evaluation *EvaluationDTO `json:"evaluation,omitempty"`
	Batch      *BatchDTO      `json:"batch,omitempty"`
	ID         string         `json:"id,omitempty"`
	Message    string         `json:"message,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
}

// wsClient wraps a websocket connection with write locking.
type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// EvaluationNotifier keeps track of active websocket clients and broadcasts evaluation events.
type EvaluationNotifier struct {
	mu        sync.Mutex
	clients   map[*wsClient]struct{}
	lastEvent *EvaluationEvent
}

// NewEvaluationNotifier constructs a notifier instance.
func NewEvaluationNotifier() *EvaluationNotifier {
	return &EvaluationNotifier{clients: make(map[*wsClient]struct{})}
}

// Register attaches a websocket connection and replays the last event to it.
func (n *EvaluationNotifier) Register(conn *websocket.Conn) *wsClient {
	client := &wsClient{conn: conn}
	n.mu.Lock()
	n.clients[client] = struct{}{}
	last := n.lastEvent
	n.mu.Unlock()

	if last != nil {
		_ = client.writeJSON(*last)
	}
	return client
}

// Unregister removes the websocket client from the notifier and closes the socket.
func (n *EvaluationNotifier) Unregister(client *wsClient) {
	if client == nil {
		return
	}
	n.mu.Lock()
	delete(n.clients, client)
	n.mu.Unlock()
	_ = client.conn.Close()
}

// Broadcast sends the supplied event to all registered websocket clients.
func (n *EvaluationNotifier) Broadcast(event EvaluationEvent) {
	event.Timestamp = time.Now().UTC()

	n.mu.Lock()
	defer n.mu.Unlock()
	if event.Type == eventEvaluation || event.Type == eventBatch {
		snapshot := event
		n.lastEvent = &snapshot
	}

	for client := range n.clients {
		if err := client.writeJSON(event); err != nil {
			delete(n.clients, client)
			_ = client.conn.Close()
		}
	}
}

// Clients returns the number of connected websocket clients.
func (n *EvaluationNotifier) Clients() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.clients)
}

// LastEvent returns a copy of the most recent evaluation or batch event.
func (n *EvaluationNotifier) LastEvent() *EvaluationEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.lastEvent == nil {
		return nil
	}
	copy := *n.lastEvent
	return &copy
}

func (c *wsClient) writeJSON(payload interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return c.conn.WriteJSON(payload)
}
