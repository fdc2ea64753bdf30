package main

import (
	"testing"
)

func TestSocketHubMembershipOrder(t *testing.T) {
	hub := newSocketHub()

	hub.Subscribe("c1", "R1")
	hub.Subscribe("c2", "R1")
	hub.Subscribe("c3", "R1")
	hub.Subscribe("c2", "R1") // duplicate subscribe must not reorder

	got := hub.Connections("R1")
	want := []string{"c1", "c2", "c3"}
	if len(got) != len(want) {
		t.Fatalf("expected %d members, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected join order %v, got %v", want, got)
		}
	}
}

func TestSocketHubUnsubscribe(t *testing.T) {
	hub := newSocketHub()

	hub.Subscribe("c1", "R1")
	hub.Subscribe("c1", "R2")
	hub.Subscribe("c2", "R1")

	hub.Unsubscribe("c1", "R1")

	if got := hub.Connections("R1"); len(got) != 1 || got[0] != "c2" {
		t.Fatalf("expected only c2 in R1, got %v", got)
	}
	if got := hub.Rooms("c1"); len(got) != 1 || got[0] != "R2" {
		t.Fatalf("expected c1 to remain in R2 only, got %v", got)
	}

	// Unsubscribing twice, or from a never-joined room, is a no-op.
	hub.Unsubscribe("c1", "R1")
	hub.Unsubscribe("ghost", "R1")
}

func TestSocketHubRemoveDropsMemberships(t *testing.T) {
	hub := newSocketHub()

	client := &wsClient{id: "c1", send: make(chan serverMessage, 1)}
	hub.add(client)
	hub.Subscribe("c1", "R1")
	hub.Subscribe("c2", "R1")

	hub.remove("c1")

	if got := hub.Connections("R1"); len(got) != 1 || got[0] != "c2" {
		t.Fatalf("expected c1 dropped from R1, got %v", got)
	}
	if _, ok := <-client.send; ok {
		t.Fatalf("expected the send channel closed on remove")
	}

	// Removing an unknown connection is a no-op.
	hub.remove("c1")
}

func TestSocketHubEmitSkipsMissingClients(t *testing.T) {
	hub := newSocketHub()

	client := &wsClient{id: "c1", send: make(chan serverMessage, 2)}
	hub.add(client)
	hub.Subscribe("c1", "R1")
	hub.Subscribe("phantom", "R1") // subscribed but never registered a client

	hub.EmitToRoom("R1", eventUserCount, 2)
	hub.EmitToConnection("phantom", eventUserCount, 2)

	msg := <-client.send
	if msg.Event != eventUserCount || msg.Payload.(int) != 2 {
		t.Fatalf("unexpected message %+v", msg)
	}
	select {
	case extra := <-client.send:
		t.Fatalf("unexpected extra message %+v", extra)
	default:
	}
}
