package handler

import (
	"encoding/json"
	"sync"
	"testing"
	"time"
)

func newTestConn(userID string) *WSConn {
	return &WSConn{
		conn:   nil, // no real connection for hub tests
		userID: userID,
		send:   make(chan []byte, 256),
	}
}

func TestHubRegisterUnregister(t *testing.T) {
	hub := NewHub()
	c := newTestConn("user-1")

	hub.Register(c)
	if hub.ConnectionCount() != 1 {
		t.Errorf("expected 1 connection, got %d", hub.ConnectionCount())
	}

	hub.Unregister(c)
	if hub.ConnectionCount() != 0 {
		t.Errorf("expected 0 connections, got %d", hub.ConnectionCount())
	}
}

func TestHubSubscribeUnsubscribe(t *testing.T) {
	hub := NewHub()
	c := newTestConn("user-1")
	hub.Register(c)
	defer hub.Unregister(c)

	hub.Subscribe(c, "scenario-1")
	if hub.ScenarioSubscriberCount("scenario-1") != 1 {
		t.Errorf("expected 1 subscriber, got %d", hub.ScenarioSubscriberCount("scenario-1"))
	}

	hub.Unsubscribe(c, "scenario-1")
	if hub.ScenarioSubscriberCount("scenario-1") != 0 {
		t.Errorf("expected 0 subscribers, got %d", hub.ScenarioSubscriberCount("scenario-1"))
	}
}

func TestHubBroadcastToScenario(t *testing.T) {
	hub := NewHub()
	c1 := newTestConn("user-1")
	c2 := newTestConn("user-2")
	c3 := newTestConn("user-3") // not subscribed

	hub.Register(c1)
	hub.Register(c2)
	hub.Register(c3)
	defer hub.Unregister(c1)
	defer hub.Unregister(c2)
	defer hub.Unregister(c3)

	hub.Subscribe(c1, "scenario-1")
	hub.Subscribe(c2, "scenario-1")

	hub.BroadcastToScenario("scenario-1", WSEvent{
		Type:       EventScenarioSolved,
		ScenarioID: "scenario-1",
		Data:       map[string]string{"status": "solved"},
	})

	// c1 and c2 should receive, c3 should not
	select {
	case msg := <-c1.send:
		var event WSEvent
		json.Unmarshal(msg, &event)
		if event.Type != EventScenarioSolved {
			t.Errorf("expected scenario_solved, got %s", event.Type)
		}
	case <-time.After(time.Second):
		t.Error("c1 did not receive broadcast")
	}

	select {
	case <-c2.send:
		// ok
	case <-time.After(time.Second):
		t.Error("c2 did not receive broadcast")
	}

	select {
	case <-c3.send:
		t.Error("c3 should not have received broadcast")
	default:
		// ok
	}
}

func TestHubFirehoseReceivesAllScenarios(t *testing.T) {
	hub := NewHub()
	c := newTestConn("user-1")
	hub.Register(c)
	defer hub.Unregister(c)

	hub.Subscribe(c, "*")

	hub.BroadcastToScenario("scenario-1", WSEvent{Type: EventScenarioSolved, ScenarioID: "scenario-1"})
	hub.BroadcastToScenario("scenario-2", WSEvent{Type: EventScenarioSolved, ScenarioID: "scenario-2"})

	for _, want := range []string{"scenario-1", "scenario-2"} {
		select {
		case msg := <-c.send:
			var event WSEvent
			json.Unmarshal(msg, &event)
			if event.ScenarioID != want {
				t.Errorf("expected %s, got %s", want, event.ScenarioID)
			}
		case <-time.After(time.Second):
			t.Errorf("firehose did not receive broadcast for %s", want)
		}
	}
}

func TestHubBroadcastToUser(t *testing.T) {
	hub := NewHub()
	c1 := newTestConn("user-1")
	c2 := newTestConn("user-1") // same user, two connections
	c3 := newTestConn("user-2")

	hub.Register(c1)
	hub.Register(c2)
	hub.Register(c3)
	defer hub.Unregister(c1)
	defer hub.Unregister(c2)
	defer hub.Unregister(c3)

	hub.BroadcastToUser("user-1", WSEvent{
		Type:       EventScenarioSolved,
		ScenarioID: "scenario-1",
		Data:       map[string]string{"status": "solved"},
	})

	// Both c1 and c2 should receive (same user), c3 should not
	for _, c := range []*WSConn{c1, c2} {
		select {
		case <-c.send:
			// ok
		case <-time.After(time.Second):
			t.Errorf("connection for user-1 did not receive broadcast")
		}
	}

	select {
	case <-c3.send:
		t.Error("user-2 should not have received user-1's message")
	default:
		// ok
	}
}

func TestHubUnregisterCleansUpSubscriptions(t *testing.T) {
	hub := NewHub()
	c := newTestConn("user-1")
	hub.Register(c)
	hub.Subscribe(c, "scenario-1")
	hub.Subscribe(c, "scenario-2")

	hub.Unregister(c)

	if hub.ScenarioSubscriberCount("scenario-1") != 0 {
		t.Errorf("expected 0 subscribers for scenario-1 after unregister")
	}
	if hub.ScenarioSubscriberCount("scenario-2") != 0 {
		t.Errorf("expected 0 subscribers for scenario-2 after unregister")
	}
}

func TestHubConcurrentAccess(t *testing.T) {
	hub := NewHub()
	var wg sync.WaitGroup

	// Concurrently register, subscribe, broadcast, unregister
	for i := range 50 {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			c := newTestConn("user")
			hub.Register(c)
			hub.Subscribe(c, "scenario-1")
			hub.BroadcastToScenario("scenario-1", WSEvent{Type: "test", ScenarioID: "scenario-1"})
			hub.Unsubscribe(c, "scenario-1")
			hub.Unregister(c)
		}(i)
	}

	wg.Wait()
	if hub.ConnectionCount() != 0 {
		t.Errorf("expected 0 connections after concurrent test, got %d", hub.ConnectionCount())
	}
}

func TestHubBroadcastScenarioEvent(t *testing.T) {
	hub := NewHub()
	c := newTestConn("user-1")
	hub.Register(c)
	defer hub.Unregister(c)
	hub.Subscribe(c, "scenario-1")

	hub.BroadcastScenarioEvent("scenario-1", EventScenarioSolved, map[string]string{"win_count": "3"})

	select {
	case msg := <-c.send:
		var event WSEvent
		json.Unmarshal(msg, &event)
		if event.Type != EventScenarioSolved {
			t.Errorf("expected scenario_solved, got %s", event.Type)
		}
		if event.ScenarioID != "scenario-1" {
			t.Errorf("expected scenario-1, got %s", event.ScenarioID)
		}
	case <-time.After(time.Second):
		t.Error("did not receive broadcast")
	}
}

func TestClientMessageSerialization(t *testing.T) {
	msg := ClientMessage{Action: "subscribe", ScenarioID: "scenario-1"}
	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var parsed ClientMessage
	json.Unmarshal(data, &parsed)
	if parsed.Action != "subscribe" {
		t.Errorf("expected subscribe, got %s", parsed.Action)
	}
	if parsed.ScenarioID != "scenario-1" {
		t.Errorf("expected scenario-1, got %s", parsed.ScenarioID)
	}
}
