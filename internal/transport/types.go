package transport

import (
	"context"

	"epicbot/internal/subscription"
)

type ItemKind string

const (
	ItemText  ItemKind = "text"
	ItemImage ItemKind = "image"
)

// Item is one unit of a rendered push: a text block or an image by URL.
type Item struct {
	Kind ItemKind `json:"kind"`
	Text string   `json:"text,omitempty"`
	URL  string   `json:"url,omitempty"`
}

// Payload is a rendered push in delivery order. Its JSON form is the
// deterministic serialization the dedup fingerprint is computed over.
type Payload struct {
	Items []Item `json:"items"`
}

func (p Payload) Empty() bool { return len(p.Items) == 0 }

func Text(s string) Item { return Item{Kind: ItemText, Text: s} }
func Image(url string) Item { return Item{Kind: ItemImage, URL: url} }

// Adapter is the delivery transport boundary. A Send failure is returned as
// an error and must never crash the caller.
type Adapter interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error

	Send(ctx context.Context, to subscription.Subscriber, p Payload) error
}
