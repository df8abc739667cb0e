package realtime

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestClient(hub *Hub, userID string) *Client {
	return &Client{
		hub:    hub,
		userID: userID,
		send:   make(chan []byte, 8),
	}
}

func receive(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case payload := <-c.send:
		var ev Event
		require.NoError(t, json.Unmarshal(payload, &ev))
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestHubPublishReachesOnlyTargetUser(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	alice := newTestClient(hub, "alice")
	bob := newTestClient(hub, "bob")
	hub.join <- alice
	hub.join <- bob

	hub.Publish("alice", Event{Name: "new-notification", Data: map[string]string{"id": "n1"}})

	ev := receive(t, alice)
	require.Equal(t, "new-notification", ev.Name)

	select {
	case <-bob.send:
		t.Fatal("bob must not receive alice's event")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubFanOutToAllConnectionsOfUser(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	tab1 := newTestClient(hub, "alice")
	tab2 := newTestClient(hub, "alice")
	hub.join <- tab1
	hub.join <- tab2

	hub.Publish("alice", Event{Name: "new-notification"})

	require.Equal(t, "new-notification", receive(t, tab1).Name)
	require.Equal(t, "new-notification", receive(t, tab2).Name)
}

func TestHubLeaveClosesSendChannel(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := newTestClient(hub, "alice")
	hub.join <- client
	hub.leave <- client

	select {
	case _, open := <-client.send:
		require.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("send channel was not closed")
	}

	// Publishing to a user with no connections must not block or panic.
	hub.Publish("alice", Event{Name: "new-notification"})
}
