package realtime

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(owner, id string) *Client {
	return &Client{
		ID:         id,
		OwnerEmail: owner,
		send:       make(chan WSMessage, 4),
	}
}

func TestHubRegisterUnregister(t *testing.T) {
	hub := NewHub(zap.NewNop(), nil, nil)
	a := newTestClient("owner@x.com", "a")
	b := newTestClient("owner@x.com", "b")
	other := newTestClient("other@y.com", "c")

	hub.Register(a)
	hub.Register(b)
	hub.Register(other)
	require.Equal(t, 2, hub.ClientCount("owner@x.com"))
	require.Equal(t, 1, hub.ClientCount("other@y.com"))

	hub.Unregister(a)
	require.Equal(t, 1, hub.ClientCount("owner@x.com"))
	hub.Unregister(b)
	require.Zero(t, hub.ClientCount("owner@x.com"))
}

func TestBroadcastReachesOnlyTenantClients(t *testing.T) {
	hub := NewHub(zap.NewNop(), nil, nil)
	mine := newTestClient("owner@x.com", "mine")
	theirs := newTestClient("other@y.com", "theirs")
	hub.Register(mine)
	hub.Register(theirs)

	hub.Broadcast("owner@x.com", EventCostsUpdated, map[string]string{"hello": "world"})

	select {
	case msg := <-mine.send:
		require.Equal(t, EventCostsUpdated, msg.Event)
		var data map[string]string
		require.NoError(t, json.Unmarshal(msg.Data, &data))
		require.Equal(t, "world", data["hello"])
	default:
		t.Fatal("expected a message for the tenant's client")
	}

	select {
	case <-theirs.send:
		t.Fatal("message leaked to another tenant")
	default:
	}
}

func TestBroadcastSkipsSlowClients(t *testing.T) {
	hub := NewHub(zap.NewNop(), nil, nil)
	slow := &Client{ID: "slow", OwnerEmail: "owner@x.com", send: make(chan WSMessage)}
	hub.Register(slow)

	// Unbuffered channel with no reader: broadcast must not block.
	hub.Broadcast("owner@x.com", EventTargetsUpdated, nil)
}

func TestBroadcastConcurrentWithRegistration(t *testing.T) {
	hub := NewHub(zap.NewNop(), nil, nil)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for i := 0; i < 500; i++ {
			c := newTestClient("owner@x.com", "churn")
			hub.Register(c)
			hub.Unregister(c)
		}
	}()

	for i := 0; i < 500; i++ {
		hub.Broadcast("owner@x.com", EventCostsUpdated, nil)
	}
	<-done
}

type recordingPublisher struct {
	owner   string
	event   string
	payload []byte
}

func (p *recordingPublisher) PublishTenantEvent(ownerEmail, event string, payload []byte) error {
	p.owner = ownerEmail
	p.event = event
	p.payload = payload
	return nil
}

func TestNotifyPublishesForOtherInstances(t *testing.T) {
	pub := &recordingPublisher{}
	hub := NewHub(zap.NewNop(), pub, nil)

	hub.Notify("owner@x.com", EventFacilitiesUpdated, map[string]int{"bays": 4})

	require.Equal(t, "owner@x.com", pub.owner)
	require.Equal(t, EventFacilitiesUpdated, pub.event)
	require.JSONEq(t, `{"bays":4}`, string(pub.payload))
}

// loopbackPubSub behaves like Redis pub/sub within a single instance: every
// published event is delivered back to the tenant's subscription handler.
type loopbackPubSub struct {
	handlers map[string]func(event string, payload []byte)
}

func newLoopbackPubSub() *loopbackPubSub {
	return &loopbackPubSub{handlers: make(map[string]func(event string, payload []byte))}
}

func (l *loopbackPubSub) PublishTenantEvent(ownerEmail, event string, payload []byte) error {
	if handler, ok := l.handlers[ownerEmail]; ok {
		handler(event, payload)
	}
	return nil
}

func (l *loopbackPubSub) SubscribeTenant(ownerEmail string, handler func(event string, payload []byte)) (func(), error) {
	l.handlers[ownerEmail] = handler
	return func() { delete(l.handlers, ownerEmail) }, nil
}

func TestNotifyDeliversOncePerClient(t *testing.T) {
	bus := newLoopbackPubSub()
	hub := NewHub(zap.NewNop(), bus, bus)
	client := newTestClient("owner@x.com", "a")
	hub.Register(client)

	// The instance is subscribed to its own tenant channel; the Redis echo
	// must be the only local delivery, not a second one.
	hub.Notify("owner@x.com", EventTargetsUpdated, map[string]int{"n": 1})

	require.Len(t, client.send, 1)
	msg := <-client.send
	require.Equal(t, EventTargetsUpdated, msg.Event)
}

func TestNotifyBroadcastsWithoutSubscription(t *testing.T) {
	pub := &recordingPublisher{}
	hub := NewHub(zap.NewNop(), pub, nil)
	client := newTestClient("owner@x.com", "a")
	hub.Register(client)

	hub.Notify("owner@x.com", EventCostsUpdated, map[string]int{"n": 1})

	// No subscription to echo through, so the local broadcast must happen
	// directly, alongside the publish for other instances.
	require.Len(t, client.send, 1)
	require.Equal(t, "owner@x.com", pub.owner)
}

func TestNotifyOnNilHub(t *testing.T) {
	var hub *Hub
	// Handlers call Notify unconditionally; a nil hub must be a no-op.
	hub.Notify("owner@x.com", EventCompanyUpdated, nil)
}
