// Package subscription tracks which channels and direct recipients get the
// daily free-games push.
package subscription

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"epicbot/internal/storage"
	logx "epicbot/pkg/logx"
)

var (
	ErrAlreadySubscribed = errors.New("already subscribed")
	ErrNotSubscribed     = errors.New("not subscribed")
	ErrInvalidSubscriber = errors.New("invalid subscriber")
)

// Registry is the membership authority for push delivery. All operations
// read-modify-write the whole subscriptions document.
type Registry struct {
	mu    sync.Mutex
	store storage.Store
	log   logx.Logger
}

func NewRegistry(store storage.Store, log logx.Logger) *Registry {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Registry{store: store, log: log}
}

// All returns the current subscriptions document.
// A missing or unreadable document is treated as empty, never as an error.
func (r *Registry) All(ctx context.Context) Document {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadLocked(ctx)
}

// Contains reports whether the subscriber is currently registered.
func (r *Registry) Contains(ctx context.Context, sub Subscriber) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc := r.loadLocked(ctx)
	return contains(doc.list(sub.Type), sub.Subject)
}

// Subscribe registers the subscriber. Returns ErrAlreadySubscribed (without
// touching the document) if it is already present.
func (r *Registry) Subscribe(ctx context.Context, sub Subscriber) error {
	if !sub.Type.Valid() || sub.Subject == "" {
		return ErrInvalidSubscriber
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	doc := r.loadLocked(ctx)
	list := doc.list(sub.Type)
	if contains(list, sub.Subject) {
		return ErrAlreadySubscribed
	}
	doc.setList(sub.Type, append(list, sub.Subject))
	r.saveLocked(ctx, doc)
	r.log.Info("subscriber added",
		logx.String("type", string(sub.Type)), logx.String("subject", sub.Subject))
	return nil
}

// Unsubscribe removes the subscriber. Returns ErrNotSubscribed if absent.
func (r *Registry) Unsubscribe(ctx context.Context, sub Subscriber) error {
	if !sub.Type.Valid() || sub.Subject == "" {
		return ErrInvalidSubscriber
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	doc := r.loadLocked(ctx)
	list := doc.list(sub.Type)
	if !contains(list, sub.Subject) {
		return ErrNotSubscribed
	}
	kept := make([]string, 0, len(list)-1)
	for _, s := range list {
		if s != sub.Subject {
			kept = append(kept, s)
		}
	}
	doc.setList(sub.Type, kept)
	r.saveLocked(ctx, doc)
	r.log.Info("subscriber removed",
		logx.String("type", string(sub.Type)), logx.String("subject", sub.Subject))
	return nil
}

func (r *Registry) loadLocked(ctx context.Context) Document {
	var doc Document
	b, err := r.store.Load(ctx, storage.DocSubscriptions)
	if err != nil {
		r.log.Warn("subscriptions load failed", logx.Err(err))
		return doc
	}
	if len(b) == 0 {
		return doc
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		r.log.Warn("subscriptions document malformed; treating as empty", logx.Err(err))
		return Document{}
	}
	return doc
}

// saveLocked persists the document. A write failure is logged and swallowed;
// the in-memory result of the mutation stands until the next successful save.
func (r *Registry) saveLocked(ctx context.Context, doc Document) {
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		r.log.Error("subscriptions marshal failed", logx.Err(err))
		return
	}
	if err := r.store.Save(ctx, storage.DocSubscriptions, b); err != nil {
		r.log.Error("subscriptions save failed", logx.Err(err))
	}
}
