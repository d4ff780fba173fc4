package subscription

// Type distinguishes the two kinds of delivery subscribers.
type Type string

const (
	// Channel is a group chat; every member sees the push.
	Channel Type = "channel"
	// Direct is a single recipient.
	Direct Type = "direct"
)

func (t Type) Valid() bool { return t == Channel || t == Direct }

// Subscriber identifies one delivery target.
type Subscriber struct {
	Type    Type
	Subject string // chat id for Channel, user id for Direct
}

// Document is the persisted subscriptions state: one subject list per type.
// A subject appears at most once per list.
type Document struct {
	Channels []string `json:"channel"`
	Directs  []string `json:"direct"`
}

func (d *Document) list(t Type) []string {
	if t == Channel {
		return d.Channels
	}
	return d.Directs
}

func (d *Document) setList(t Type, subjects []string) {
	if t == Channel {
		d.Channels = subjects
		return
	}
	d.Directs = subjects
}

func contains(list []string, subject string) bool {
	for _, s := range list {
		if s == subject {
			return true
		}
	}
	return false
}
