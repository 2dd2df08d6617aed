package realtime

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

const (
	// PingInterval and PongWait are heartbeat settings in seconds.
	PingInterval = 30
	PongWait     = 60
)

// Event names published when workshop data changes.
const (
	EventTargetsUpdated    = "targets_updated"
	EventCostsUpdated      = "costs_updated"
	EventFacilitiesUpdated = "facilities_updated"
	EventCompanyUpdated    = "company_updated"
)

// Publisher publishes an event to other instances (for cross-instance broadcast).
type Publisher interface {
	PublishTenantEvent(ownerEmail, event string, payload []byte) error
}

// Subscriber subscribes to a tenant channel and invokes handler for incoming events.
type Subscriber interface {
	SubscribeTenant(ownerEmail string, handler func(event string, payload []byte)) (cancel func(), err error)
}

// Hub maintains tenant (owner email) -> set of dashboard connections and
// broadcasts refresh events. Uses Redis pub/sub for horizontal scaling:
// local broadcast plus publish to Redis.
type Hub struct {
	// ownerEmail -> map[clientID]*Client
	tenants map[string]map[string]*Client
	subs    map[string]func() // cancel Redis subscription per tenant
	mu      sync.RWMutex
	logger  *zap.Logger
	pub     Publisher
	sub     Subscriber
}

// NewHub creates a new WebSocket hub.
func NewHub(logger *zap.Logger, pub Publisher, sub Subscriber) *Hub {
	return &Hub{
		tenants: make(map[string]map[string]*Client),
		subs:    make(map[string]func()),
		logger:  logger,
		pub:     pub,
		sub:     sub,
	}
}

// Register adds a client to its tenant room. Starts the Redis subscription
// for the tenant when the first client connects.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	if h.tenants[c.OwnerEmail] == nil {
		h.tenants[c.OwnerEmail] = make(map[string]*Client)
		if h.sub != nil {
			owner := c.OwnerEmail
			cancel, err := h.sub.SubscribeTenant(owner, func(event string, payload []byte) {
				h.Broadcast(owner, event, json.RawMessage(payload))
			})
			if err == nil {
				h.subs[owner] = cancel
			}
		}
	}
	h.tenants[c.OwnerEmail][c.ID] = c
	h.mu.Unlock()
	h.logger.Debug("dashboard client connected",
		zap.String("client_id", c.ID),
		zap.String("owner", c.OwnerEmail),
	)
}

// Unregister removes a client from its tenant room. Cancels the Redis
// subscription when the last client leaves.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if m, ok := h.tenants[c.OwnerEmail]; ok {
		delete(m, c.ID)
		if len(m) == 0 {
			delete(h.tenants, c.OwnerEmail)
			if cancel, ok := h.subs[c.OwnerEmail]; ok {
				cancel()
				delete(h.subs, c.OwnerEmail)
			}
		}
	}
	h.mu.Unlock()
	h.logger.Debug("dashboard client disconnected",
		zap.String("client_id", c.ID),
		zap.String("owner", c.OwnerEmail),
	)
}

// Broadcast sends a message to all of a tenant's local clients.
func (h *Hub) Broadcast(ownerEmail, event string, payload interface{}) {
	var data []byte
	switch v := payload.(type) {
	case []byte:
		data = v
	case json.RawMessage:
		data = v
	default:
		data, _ = json.Marshal(payload)
	}
	msg := WSMessage{Event: event, Data: data}

	// Hold the read lock across the iteration: Register and Unregister
	// mutate the client map. The sends are non-blocking, so this cannot
	// deadlock.
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.tenants[ownerEmail] {
		select {
		case c.send <- msg:
		default:
			// buffer full, skip
		}
	}
}

// Notify sends to local clients and publishes to Redis for other instances.
// Safe to call on a nil hub so handlers can run without realtime wiring.
func (h *Hub) Notify(ownerEmail, event string, payload interface{}) {
	if h == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	h.mu.RLock()
	_, subscribed := h.subs[ownerEmail]
	h.mu.RUnlock()
	if h.pub != nil && subscribed {
		// Local clients receive the event through the tenant subscription;
		// broadcasting here as well would deliver it twice.
		_ = h.pub.PublishTenantEvent(ownerEmail, event, data)
		return
	}
	h.Broadcast(ownerEmail, event, json.RawMessage(data))
	if h.pub != nil {
		_ = h.pub.PublishTenantEvent(ownerEmail, event, data)
	}
}

// ClientCount returns the number of connected clients for a tenant.
func (h *Hub) ClientCount(ownerEmail string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.tenants[ownerEmail])
}
