package push

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"epicbot/internal/storage"
	logx "epicbot/pkg/logx"
)

// scheduleDoc maps job id to its delivery time as a "minute hour" pair
// (cron field order, inherited wire format).
type scheduleDoc map[string]string

func formatTime(hour, minute int) string {
	return strconv.Itoa(minute) + " " + strconv.Itoa(hour)
}

func parseTime(s string) (hour, minute int, err error) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("malformed time %q", s)
	}
	minute, err = strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, fmt.Errorf("malformed minute in %q", s)
	}
	hour, err = strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, fmt.Errorf("malformed hour in %q", s)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("time %q out of range", s)
	}
	return hour, minute, nil
}

func loadScheduleDoc(ctx context.Context, store storage.Store, log logx.Logger) scheduleDoc {
	doc := scheduleDoc{}
	b, err := store.Load(ctx, storage.DocSchedule)
	if err != nil {
		log.Warn("schedule load failed", logx.Err(err))
		return doc
	}
	if len(b) == 0 {
		return doc
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		log.Warn("schedule document malformed; treating as empty", logx.Err(err))
		return scheduleDoc{}
	}
	return doc
}

func saveScheduleDoc(ctx context.Context, store storage.Store, log logx.Logger, doc scheduleDoc) {
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		log.Error("schedule marshal failed", logx.Err(err))
		return
	}
	if err := store.Save(ctx, storage.DocSchedule, b); err != nil {
		log.Error("schedule save failed", logx.Err(err))
	}
}
