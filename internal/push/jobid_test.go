package push

import (
	"testing"

	"epicbot/internal/subscription"
)

func TestJobIDRoundTrip(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		sub  subscription.Subscriber
		id   string
	}{
		{name: "channel", sub: subscription.Subscriber{Type: subscription.Channel, Subject: "42"}, id: "epic_group_42"},
		{name: "direct", sub: subscription.Subscriber{Type: subscription.Direct, Subject: "1001"}, id: "epic_private_1001"},
		{name: "subject with separator", sub: subscription.Subscriber{Type: subscription.Channel, Subject: "a_b_c"}, id: "epic_group_a_b_c"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := JobID(tt.sub); got != tt.id {
				t.Fatalf("JobID = %q, want %q", got, tt.id)
			}
			sub, err := ParseJobID(tt.id)
			if err != nil {
				t.Fatalf("ParseJobID(%q) error: %v", tt.id, err)
			}
			if sub != tt.sub {
				t.Fatalf("ParseJobID(%q) = %+v, want %+v", tt.id, sub, tt.sub)
			}
		})
	}
}

func TestParseJobIDInvalid(t *testing.T) {
	t.Parallel()
	for _, id := range []string{"", "epic", "epic_group", "epic_group_", "other_group_1", "epic_mystery_1"} {
		if _, err := ParseJobID(id); err == nil {
			t.Fatalf("expected error for %q", id)
		}
	}
}

func TestParseTimeVariants(t *testing.T) {
	t.Parallel()
	h, m, err := parseTime("30 8")
	if err != nil {
		t.Fatalf("parseTime error: %v", err)
	}
	if h != 8 || m != 30 {
		t.Fatalf("parseTime = %d:%d, want 8:30", h, m)
	}

	for _, raw := range []string{"", "8", "x 8", "30 x", "60 8", "30 24", "-1 8"} {
		if _, _, err := parseTime(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}

	if got := formatTime(10, 0); got != "0 10" {
		t.Fatalf("formatTime = %q, want \"0 10\"", got)
	}
}
