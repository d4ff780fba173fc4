package subscription

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"epicbot/internal/storage"
	logx "epicbot/pkg/logx"
)

type memStore struct {
	mu   sync.Mutex
	docs map[string][]byte
}

func (m *memStore) Load(_ context.Context, name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.docs[name], nil
}

func (m *memStore) Save(_ context.Context, name string, body []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[name] = append([]byte(nil), body...)
	return nil
}

func (m *memStore) Close() error { return nil }

func TestSubscribeAndUnsubscribe(t *testing.T) {
	store := &memStore{docs: map[string][]byte{}}
	r := NewRegistry(store, logx.Nop())
	ctx := context.Background()

	sub := Subscriber{Type: Channel, Subject: "42"}
	if err := r.Subscribe(ctx, sub); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if err := r.Subscribe(ctx, sub); !errors.Is(err, ErrAlreadySubscribed) {
		t.Fatalf("second Subscribe = %v, want ErrAlreadySubscribed", err)
	}
	if !r.Contains(ctx, sub) {
		t.Fatal("expected subscriber to be present")
	}

	// Channel and Direct sets are disjoint.
	if r.Contains(ctx, Subscriber{Type: Direct, Subject: "42"}) {
		t.Fatal("direct set must not contain the channel subject")
	}

	if err := r.Unsubscribe(ctx, sub); err != nil {
		t.Fatalf("Unsubscribe: %v", err)
	}
	if err := r.Unsubscribe(ctx, sub); !errors.Is(err, ErrNotSubscribed) {
		t.Fatalf("second Unsubscribe = %v, want ErrNotSubscribed", err)
	}
	if r.Contains(ctx, sub) {
		t.Fatal("expected subscriber to be gone")
	}
}

func TestSubscribePersistsDocument(t *testing.T) {
	store := &memStore{docs: map[string][]byte{}}
	r := NewRegistry(store, logx.Nop())
	ctx := context.Background()

	if err := r.Subscribe(ctx, Subscriber{Type: Channel, Subject: "1"}); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if err := r.Subscribe(ctx, Subscriber{Type: Direct, Subject: "2"}); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	var doc Document
	if err := json.Unmarshal(store.docs[storage.DocSubscriptions], &doc); err != nil {
		t.Fatalf("unmarshal persisted document: %v", err)
	}
	if len(doc.Channels) != 1 || doc.Channels[0] != "1" {
		t.Fatalf("channels = %v", doc.Channels)
	}
	if len(doc.Directs) != 1 || doc.Directs[0] != "2" {
		t.Fatalf("directs = %v", doc.Directs)
	}
}

func TestMalformedDocumentTreatedAsEmpty(t *testing.T) {
	store := &memStore{docs: map[string][]byte{
		storage.DocSubscriptions: []byte("{not json"),
	}}
	r := NewRegistry(store, logx.Nop())
	ctx := context.Background()

	doc := r.All(ctx)
	if len(doc.Channels) != 0 || len(doc.Directs) != 0 {
		t.Fatalf("expected empty document, got %+v", doc)
	}
	if err := r.Subscribe(ctx, Subscriber{Type: Channel, Subject: "7"}); err != nil {
		t.Fatalf("Subscribe after malformed doc: %v", err)
	}
}

func TestInvalidSubscriberRejected(t *testing.T) {
	store := &memStore{docs: map[string][]byte{}}
	r := NewRegistry(store, logx.Nop())
	ctx := context.Background()

	if err := r.Subscribe(ctx, Subscriber{Type: "weird", Subject: "1"}); !errors.Is(err, ErrInvalidSubscriber) {
		t.Fatalf("Subscribe = %v, want ErrInvalidSubscriber", err)
	}
	if err := r.Unsubscribe(ctx, Subscriber{Type: Channel}); !errors.Is(err, ErrInvalidSubscriber) {
		t.Fatalf("Unsubscribe = %v, want ErrInvalidSubscriber", err)
	}
}
