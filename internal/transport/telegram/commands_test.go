package telegram

import (
	"testing"

	tele "gopkg.in/telebot.v4"

	"epicbot/internal/subscription"
)

func TestParseHHMM(t *testing.T) {
	t.Parallel()
	tests := []struct {
		raw    string
		hour   int
		minute int
		ok     bool
	}{
		{raw: "8:30", hour: 8, minute: 30, ok: true},
		{raw: "08:05", hour: 8, minute: 5, ok: true},
		{raw: " 23:59 ", hour: 23, minute: 59, ok: true},
		{raw: "0:0", hour: 0, minute: 0, ok: true},
		{raw: ""},
		{raw: "830"},
		{raw: "8:30:00"},
		{raw: "24:00"},
		{raw: "12:60"},
		{raw: "-1:30"},
		{raw: "aa:bb"},
	}
	for _, tt := range tests {
		h, m, err := parseHHMM(tt.raw)
		if tt.ok != (err == nil) {
			t.Fatalf("parseHHMM(%q) error = %v, want ok=%v", tt.raw, err, tt.ok)
		}
		if tt.ok && (h != tt.hour || m != tt.minute) {
			t.Fatalf("parseHHMM(%q) = %d:%d, want %d:%d", tt.raw, h, m, tt.hour, tt.minute)
		}
	}
}

func TestSubscriberOf(t *testing.T) {
	t.Parallel()

	got := subscriberOf(&tele.Chat{ID: -100123, Type: tele.ChatGroup})
	want := subscription.Subscriber{Type: subscription.Channel, Subject: "-100123"}
	if got != want {
		t.Fatalf("group chat = %+v, want %+v", got, want)
	}

	got = subscriberOf(&tele.Chat{ID: 777, Type: tele.ChatPrivate})
	want = subscription.Subscriber{Type: subscription.Direct, Subject: "777"}
	if got != want {
		t.Fatalf("private chat = %+v, want %+v", got, want)
	}

	// Supergroups and channels deliver to everyone in the chat too.
	if got := subscriberOf(&tele.Chat{ID: 1, Type: tele.ChatSuperGroup}); got.Type != subscription.Channel {
		t.Fatalf("supergroup mapped to %v", got.Type)
	}
}
