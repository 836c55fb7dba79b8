package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
)

func TestSlogBridge_EmitsContextFields(t *testing.T) {
	var buf bytes.Buffer
	zl := Build(Config{Level: "debug", Component: "test"}, &buf)
	sl := NewSlog(&zl)

	ctx := WithRunID(context.Background(), "abc123")
	ctx = WithStage(ctx, "fetch")
	ctx = WithCategory(ctx, "water")

	sl.InfoContext(ctx, "hello", "features", 3)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("log line is not JSON: %v\n%s", err, buf.String())
	}
	want := map[string]string{
		"run_id":    "abc123",
		"stage":     "fetch",
		"category":  "water",
		"component": "test",
		"msg":       "hello",
	}
	for k, v := range want {
		if rec[k] != v {
			t.Fatalf("%s = %v want %q", k, rec[k], v)
		}
	}
	if rec["features"] != float64(3) {
		t.Fatalf("features = %v want 3", rec["features"])
	}
}

func TestSlogBridge_NoContextFieldsWithoutValues(t *testing.T) {
	var buf bytes.Buffer
	zl := Build(Config{Level: "info"}, &buf)
	sl := NewSlog(&zl)

	sl.InfoContext(context.Background(), "plain")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("log line is not JSON: %v\n%s", err, buf.String())
	}
	for _, k := range []string{"run_id", "stage", "category"} {
		if _, ok := rec[k]; ok {
			t.Fatalf("unexpected %s field on a bare-context record", k)
		}
	}
}

func TestWithRunID_GeneratesWhenEmpty(t *testing.T) {
	ctx := WithRunID(context.Background(), "")
	id, ok := ctx.Value(ctxRunIDKey).(string)
	if !ok || len(id) != 16 {
		t.Fatalf("generated run id = %q want 16 hex chars", id)
	}
}
