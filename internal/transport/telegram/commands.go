package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	"epicbot/internal/push"
	"epicbot/internal/subscription"
	logx "epicbot/pkg/logx"
)

// Commands wires the bot's fixed command set to the registry and the
// delivery engine:
//
//	/epic              query the current free games right now
//	/epicsub HH:MM     enable the daily push for this chat
//	/epicunsub         disable the daily push
//	/epicstat          show this chat's subscription status
type Commands struct {
	adapter  *Adapter
	registry *subscription.Registry
	sched    *push.Scheduler
	owners   []int64
	log      logx.Logger
}

func NewCommands(adapter *Adapter, registry *subscription.Registry, sched *push.Scheduler, owners []int64, log logx.Logger) *Commands {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Commands{adapter: adapter, registry: registry, sched: sched, owners: owners, log: log}
}

func (h *Commands) Register() {
	b := h.adapter.bot
	b.Handle("/epic", h.handleQuery)
	b.Handle("/epicsub", h.handleSubscribe)
	b.Handle("/epicunsub", h.handleUnsubscribe)
	b.Handle("/epicstat", h.handleStatus)
}

// subscriberOf maps the chat to a delivery subscriber: group chats are
// Channel targets, private chats Direct ones. The chat id doubles as the
// subject either way.
func subscriberOf(chat *tele.Chat) subscription.Subscriber {
	t := subscription.Channel
	if chat.Type == tele.ChatPrivate {
		t = subscription.Direct
	}
	return subscription.Subscriber{Type: t, Subject: strconv.FormatInt(chat.ID, 10)}
}

func (h *Commands) handleQuery(c tele.Context) error {
	sub := subscriberOf(c.Chat())
	h.log.Info("manual query", logx.String("subject", sub.Subject))

	ctx, cancel := handlerContext()
	defer cancel()
	if err := h.sched.DeliverNow(ctx, sub); err != nil {
		h.log.Error("manual query failed", logx.Err(err))
		return c.Send("Free games lookup failed, try again later.")
	}
	return nil
}

func (h *Commands) handleSubscribe(c tele.Context) error {
	if !h.isOperator(c) {
		return c.Send("Only chat admins can manage the subscription.")
	}

	hour, minute, err := parseHHMM(c.Message().Payload)
	if err != nil {
		return c.Send("Usage: /epicsub HH:MM, e.g. /epicsub 8:30")
	}

	sub := subscriberOf(c.Chat())
	ctx, cancel := handlerContext()
	defer cancel()

	if err := h.registry.Subscribe(ctx, sub); err != nil && !errors.Is(err, subscription.ErrAlreadySubscribed) {
		return c.Send("Subscription failed, try again later.")
	}
	if err := h.sched.Add(ctx, push.JobID(sub), hour, minute, sub); err != nil {
		return c.Send("Subscription failed, try again later.")
	}
	return c.Send(fmt.Sprintf("Daily free-games push enabled for %02d:%02d (UTC+8).", hour, minute))
}

func (h *Commands) handleUnsubscribe(c tele.Context) error {
	if !h.isOperator(c) {
		return c.Send("Only chat admins can manage the subscription.")
	}

	sub := subscriberOf(c.Chat())
	ctx, cancel := handlerContext()
	defer cancel()

	err := h.registry.Unsubscribe(ctx, sub)
	h.sched.Remove(ctx, push.JobID(sub))
	if errors.Is(err, subscription.ErrNotSubscribed) {
		return c.Send("This chat has no free-games subscription.")
	}
	return c.Send("Daily free-games push disabled.")
}

func (h *Commands) handleStatus(c tele.Context) error {
	sub := subscriberOf(c.Chat())
	ctx, cancel := handlerContext()
	defer cancel()

	if !h.registry.Contains(ctx, sub) {
		return c.Send("This chat is not subscribed to the free-games push.")
	}
	if hour, minute, ok := h.sched.ScheduleFor(ctx, push.JobID(sub)); ok {
		return c.Send(fmt.Sprintf("Subscribed; daily push at %02d:%02d (UTC+8).", hour, minute))
	}
	return c.Send("Subscribed, but no push time is set. Run /epicunsub and subscribe again.")
}

// isOperator allows configured owners anywhere, everyone in private chats,
// and chat admins in groups.
func (h *Commands) isOperator(c tele.Context) bool {
	sender := c.Sender()
	if sender == nil {
		return false
	}
	for _, id := range h.owners {
		if sender.ID == id {
			return true
		}
	}
	chat := c.Chat()
	if chat == nil {
		return false
	}
	if chat.Type == tele.ChatPrivate {
		return true
	}
	member, err := h.adapter.bot.ChatMemberOf(chat, sender)
	if err != nil {
		h.log.Warn("admin check failed", logx.Err(err))
		return false
	}
	return member.Role == tele.Creator || member.Role == tele.Administrator
}

func parseHHMM(raw string) (hour, minute int, err error) {
	parts := strings.Split(strings.TrimSpace(raw), ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed time %q", raw)
	}
	hour, err = strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, err
	}
	minute, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, err
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("time %q out of range", raw)
	}
	return hour, minute, nil
}

func handlerContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}
