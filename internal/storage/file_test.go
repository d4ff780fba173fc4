package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	logx "epicbot/pkg/logx"
)

func TestFileStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	st, err := Open(Config{Driver: "file", Path: dir}, logx.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer st.Close()

	ctx := context.Background()

	// Never-saved document loads as nil, not as an error.
	b, err := st.Load(ctx, DocSchedule)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if b != nil {
		t.Fatalf("expected nil for missing document, got %q", b)
	}

	body := []byte(`{"epic_group_1":"30 8"}`)
	if err := st.Save(ctx, DocSchedule, body); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := st.Load(ctx, DocSchedule)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(got) != string(body) {
		t.Fatalf("Load = %q, want %q", got, body)
	}

	// Documents are plain JSON files an operator can inspect.
	onDisk, err := os.ReadFile(filepath.Join(dir, DocSchedule+".json"))
	if err != nil {
		t.Fatalf("read backing file: %v", err)
	}
	if string(onDisk) != string(body) {
		t.Fatalf("backing file = %q", onDisk)
	}
}

func TestFileStoreOverwrites(t *testing.T) {
	dir := t.TempDir()
	st, err := Open(Config{Path: dir}, logx.Nop()) // empty driver defaults to file
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer st.Close()

	ctx := context.Background()
	if err := st.Save(ctx, DocPushHistory, []byte(`{"a":"1"}`)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := st.Save(ctx, DocPushHistory, []byte(`{"a":"2"}`)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := st.Load(ctx, DocPushHistory)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(got) != `{"a":"2"}` {
		t.Fatalf("Load = %q", got)
	}
}

func TestFileStoreClosed(t *testing.T) {
	st, err := Open(Config{Path: t.TempDir()}, logx.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := st.Load(context.Background(), DocSchedule); err != ErrClosed {
		t.Fatalf("Load after Close = %v, want ErrClosed", err)
	}
	if err := st.Save(context.Background(), DocSchedule, nil); err != ErrClosed {
		t.Fatalf("Save after Close = %v, want ErrClosed", err)
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	if _, err := Open(Config{Driver: "redis", Path: t.TempDir()}, logx.Nop()); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}
