package push

import (
	"fmt"
	"strings"

	"epicbot/internal/subscription"
)

// Job ids are persisted as "epic_{group|private}_{subject}". The tokens are
// kept from the data files this engine inherited, so existing schedule
// documents restore unchanged. The subject may itself contain underscores;
// everything after the second separator belongs to it.
const (
	jobIDPrefix  = "epic"
	tokenChannel = "group"
	tokenDirect  = "private"
)

// JobID derives the scheduler job id for a subscriber.
func JobID(sub subscription.Subscriber) string {
	token := tokenDirect
	if sub.Type == subscription.Channel {
		token = tokenChannel
	}
	return jobIDPrefix + "_" + token + "_" + sub.Subject
}

// ParseJobID recovers the subscriber from a persisted job id.
func ParseJobID(id string) (subscription.Subscriber, error) {
	parts := strings.SplitN(id, "_", 3)
	if len(parts) != 3 || parts[0] != jobIDPrefix || parts[2] == "" {
		return subscription.Subscriber{}, fmt.Errorf("malformed job id %q", id)
	}
	switch parts[1] {
	case tokenChannel:
		return subscription.Subscriber{Type: subscription.Channel, Subject: parts[2]}, nil
	case tokenDirect:
		return subscription.Subscriber{Type: subscription.Direct, Subject: parts[2]}, nil
	default:
		return subscription.Subscriber{}, fmt.Errorf("unknown subscriber token in job id %q", id)
	}
}
