package push

import (
	"context"
	"testing"
	"time"

	"epicbot/internal/transport"
)

func TestShouldDeliverIdempotence(t *testing.T) {
	store := newMemStore()
	s := newTestScheduler(store, &fakeProvider{}, newFakeSender(), time.Hour)
	defer s.Stop()

	ctx := context.Background()
	p := payloadOf("2 game(s) free right now!", "https://store.epicgames.com/p/x")

	if !s.shouldDeliver(ctx, "epic_group_1", p) {
		t.Fatal("first evaluation must deliver")
	}
	if s.shouldDeliver(ctx, "epic_group_1", p) {
		t.Fatal("second evaluation with unchanged payload must skip")
	}

	changed := payloadOf("1 game(s) free right now!")
	if !s.shouldDeliver(ctx, "epic_group_1", changed) {
		t.Fatal("changed payload must deliver")
	}
}

func TestShouldDeliverIsPerJob(t *testing.T) {
	store := newMemStore()
	s := newTestScheduler(store, &fakeProvider{}, newFakeSender(), time.Hour)
	defer s.Stop()

	ctx := context.Background()
	p := payloadOf("same content")

	if !s.shouldDeliver(ctx, "epic_group_1", p) {
		t.Fatal("job 1 first evaluation must deliver")
	}
	if !s.shouldDeliver(ctx, "epic_private_2", p) {
		t.Fatal("a different job has its own history")
	}
}

func TestFingerprintStability(t *testing.T) {
	a := transport.Payload{Items: []transport.Item{
		transport.Text("hello"),
		transport.Image("https://cdn.example/img.png"),
	}}
	b := transport.Payload{Items: []transport.Item{
		transport.Text("hello"),
		transport.Image("https://cdn.example/img.png"),
	}}
	if fingerprint(a) != fingerprint(b) {
		t.Fatal("structurally identical payloads must hash equal")
	}

	c := transport.Payload{Items: []transport.Item{
		transport.Text("hello!"),
		transport.Image("https://cdn.example/img.png"),
	}}
	if fingerprint(a) == fingerprint(c) {
		t.Fatal("altered content must change the fingerprint")
	}
}
