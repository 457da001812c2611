package realtime

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func testClient(meetingID uuid.UUID) *Client {
	return &Client{
		ID:        uuid.New().String(),
		MeetingID: meetingID,
		send:      make(chan WSMessage, 4),
	}
}

func TestHubBroadcastReachesRoomMembersOnly(t *testing.T) {
	hub := NewHub(zap.NewNop(), nil, nil)
	meetingA, meetingB := uuid.New(), uuid.New()

	inRoom := testClient(meetingA)
	otherRoom := testClient(meetingB)
	hub.Register(inRoom)
	hub.Register(otherRoom)

	hub.BroadcastToMeeting(meetingA, EventAttendeeUpdate, map[string]string{"status": "ACCEPTED"})

	select {
	case msg := <-inRoom.send:
		if msg.Event != EventAttendeeUpdate {
			t.Errorf("event = %q, want %q", msg.Event, EventAttendeeUpdate)
		}
		var payload map[string]string
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			t.Fatalf("payload did not decode: %v", err)
		}
		if payload["status"] != "ACCEPTED" {
			t.Errorf("payload status = %q, want ACCEPTED", payload["status"])
		}
	default:
		t.Fatal("client in room received nothing")
	}

	select {
	case msg := <-otherRoom.send:
		t.Errorf("client in other room received %q", msg.Event)
	default:
	}
}

func TestHubUnregisterStopsDelivery(t *testing.T) {
	hub := NewHub(zap.NewNop(), nil, nil)
	meetingID := uuid.New()

	c := testClient(meetingID)
	hub.Register(c)
	if got := hub.ViewerCount(meetingID); got != 1 {
		t.Fatalf("viewer count = %d, want 1", got)
	}

	hub.Unregister(c)
	if got := hub.ViewerCount(meetingID); got != 0 {
		t.Fatalf("viewer count after unregister = %d, want 0", got)
	}

	hub.BroadcastToMeeting(meetingID, EventAttendeeUpdate, nil)
	select {
	case msg := <-c.send:
		t.Errorf("unregistered client received %q", msg.Event)
	default:
	}
}

func TestHubFullBufferDoesNotBlock(t *testing.T) {
	hub := NewHub(zap.NewNop(), nil, nil)
	meetingID := uuid.New()

	c := &Client{ID: "slow", MeetingID: meetingID, send: make(chan WSMessage)}
	hub.Register(c)

	done := make(chan struct{})
	go func() {
		hub.BroadcastToMeeting(meetingID, EventAttendeeUpdate, nil)
		close(done)
	}()
	select {
	case <-done:
	case <-c.send:
		t.Fatal("unbuffered client should have been skipped")
	}
}
