// FridgeCook - Ingredient-Based Recipe Search
// Copyright 2026 FridgeCook Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fridgecook/fridgecook

package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

func initBuffer(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	Init(Config{Level: "trace", Format: "json", Output: &buf})
	t.Cleanup(func() { Init(DefaultConfig()) })
	return &buf
}

func TestLevelHelpersEmit(t *testing.T) {
	buf := initBuffer(t)

	Trace().Msg("t")
	Debug().Msg("d")
	Info().Msg("i")
	Warn().Msg("w")
	Error().Msg("e")
	Errorf("formatted %d", 7)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 6 {
		t.Fatalf("emitted %d lines, want 6:\n%s", len(lines), buf.String())
	}

	wantLevels := []string{"trace", "debug", "info", "warn", "error", "error"}
	for i, line := range lines {
		var entry map[string]interface{}
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("line %d is not JSON: %v", i, err)
		}
		if entry["level"] != wantLevels[i] {
			t.Errorf("line %d level = %v, want %s", i, entry["level"], wantLevels[i])
		}
	}
	if !strings.Contains(lines[5], "formatted 7") {
		t.Errorf("Errorf output = %q, want formatted message", lines[5])
	}
}

func TestCtxBindsRequestID(t *testing.T) {
	buf := initBuffer(t)

	ctx := ContextWithRequestID(context.Background(), "req-42")
	Ctx(ctx).Info().Str("k", "v").Msg("scoped")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if entry["request_id"] != "req-42" {
		t.Errorf("request_id = %v, want req-42", entry["request_id"])
	}
	if entry["k"] != "v" {
		t.Errorf("field k = %v, want v", entry["k"])
	}
}

func TestCtxWithoutRequestID(t *testing.T) {
	buf := initBuffer(t)

	Ctx(context.Background()).Info().Msg("plain")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if _, ok := entry["request_id"]; ok {
		t.Error("request_id present without one in context")
	}
}
