package realtime

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// fakePubSub records published events and hands the hub a controllable
// subscription.
type fakePubSub struct {
	mu        sync.Mutex
	published []publishedEvent
	handlers  map[uuid.UUID]func(event string, payload []byte)
	cancelled map[uuid.UUID]bool
}

type publishedEvent struct {
	sessionID uuid.UUID
	event     string
	payload   []byte
}

func newFakePubSub() *fakePubSub {
	return &fakePubSub{
		handlers:  make(map[uuid.UUID]func(event string, payload []byte)),
		cancelled: make(map[uuid.UUID]bool),
	}
}

func (f *fakePubSub) PublishSessionEvent(sessionID uuid.UUID, event string, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, publishedEvent{sessionID, event, payload})
	return nil
}

func (f *fakePubSub) SubscribeSession(sessionID uuid.UUID, handler func(event string, payload []byte)) (func(), error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[sessionID] = handler
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.cancelled[sessionID] = true
	}, nil
}

func (f *fakePubSub) deliver(sessionID uuid.UUID, event string, payload []byte) {
	f.mu.Lock()
	h := f.handlers[sessionID]
	f.mu.Unlock()
	if h != nil {
		h(event, payload)
	}
}

func (f *fakePubSub) publishedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.published)
}

func (f *fakePubSub) lastPublished() *publishedEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.published) == 0 {
		return nil
	}
	p := f.published[len(f.published)-1]
	return &p
}

func (f *fakePubSub) isCancelled(sessionID uuid.UUID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cancelled[sessionID]
}

func testClient(sessionID uuid.UUID) *Client {
	return &Client{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		UserName:  "Guest",
		send:      make(chan WSMessage, 16),
	}
}

func TestHubSubscriptionLifecycle(t *testing.T) {
	ps := newFakePubSub()
	hub := NewHub(zap.NewNop(), ps, ps)
	sessionID := uuid.New()

	c1 := testClient(sessionID)
	c2 := testClient(sessionID)

	hub.Register(c1)
	if !hub.Subscribed(sessionID) {
		t.Fatal("first viewer should start the subscription")
	}
	hub.Register(c2)
	if hub.ViewerCount(sessionID) != 2 {
		t.Errorf("viewer count = %d, want 2", hub.ViewerCount(sessionID))
	}

	hub.Unregister(c1)
	if !hub.Subscribed(sessionID) {
		t.Error("subscription must survive while viewers remain")
	}
	if ps.isCancelled(sessionID) {
		t.Error("subscription cancelled too early")
	}

	hub.Unregister(c2)
	if hub.Subscribed(sessionID) {
		t.Error("last viewer leaving should release the subscription")
	}
	if !ps.isCancelled(sessionID) {
		t.Error("cancel was not invoked")
	}
	if hub.ViewerCount(sessionID) != 0 {
		t.Errorf("viewer count = %d, want 0", hub.ViewerCount(sessionID))
	}
}

func TestHubBroadcastToSession(t *testing.T) {
	ps := newFakePubSub()
	hub := NewHub(zap.NewNop(), ps, ps)
	sessionA := uuid.New()
	sessionB := uuid.New()

	ca := testClient(sessionA)
	cb := testClient(sessionB)
	hub.Register(ca)
	hub.Register(cb)

	drain(ca.send)
	drain(cb.send)

	hub.BroadcastToSession(sessionA, EventChatMessage, map[string]string{"text": "hello"})

	select {
	case msg := <-ca.send:
		if msg.Event != EventChatMessage {
			t.Errorf("event = %s, want %s", msg.Event, EventChatMessage)
		}
		var body map[string]string
		if err := json.Unmarshal(msg.Data, &body); err != nil {
			t.Fatalf("unmarshal data: %v", err)
		}
		if body["text"] != "hello" {
			t.Errorf("text = %q, want hello", body["text"])
		}
	default:
		t.Fatal("session A client received nothing")
	}

	select {
	case msg := <-cb.send:
		t.Errorf("session B client must not receive session A events, got %s", msg.Event)
	default:
	}
}

func TestHubPublishToSessionOnly(t *testing.T) {
	ps := newFakePubSub()
	hub := NewHub(zap.NewNop(), ps, ps)
	sessionID := uuid.New()

	c := testClient(sessionID)
	hub.Register(c)
	drain(c.send)
	before := ps.publishedCount()

	hub.PublishToSessionOnly(sessionID, EventSessionStarted, map[string]bool{"is_active": true})

	// Nothing is delivered locally until the subscription callback fires, so a
	// single instance never double-delivers.
	select {
	case msg := <-c.send:
		t.Fatalf("expected no direct local delivery, got %s", msg.Event)
	default:
	}

	last := ps.lastPublished()
	if ps.publishedCount() != before+1 || last == nil || last.event != EventSessionStarted {
		t.Fatalf("expected one published %s event", EventSessionStarted)
	}

	ps.deliver(sessionID, last.event, last.payload)
	select {
	case msg := <-c.send:
		if msg.Event != EventSessionStarted {
			t.Errorf("event = %s, want %s", msg.Event, EventSessionStarted)
		}
	default:
		t.Fatal("subscription callback did not fan out to the local client")
	}
}

func TestHubViewerCountBroadcastOnRegister(t *testing.T) {
	ps := newFakePubSub()
	hub := NewHub(zap.NewNop(), ps, ps)
	sessionID := uuid.New()

	c := testClient(sessionID)
	hub.Register(c)

	select {
	case msg := <-c.send:
		if msg.Event != EventViewerCount {
			t.Errorf("event = %s, want %s", msg.Event, EventViewerCount)
		}
		var body map[string]int
		if err := json.Unmarshal(msg.Data, &body); err != nil {
			t.Fatalf("unmarshal data: %v", err)
		}
		if body["count"] != 1 {
			t.Errorf("count = %d, want 1", body["count"])
		}
	default:
		t.Fatal("expected a viewer_count broadcast on register")
	}
}

func drain(ch chan WSMessage) {
	for {
		select {
		case <-ch:
		default:
			return
		}
	}
}
