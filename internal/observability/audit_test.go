package observability

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"testing"
)

func TestAuditIncludesRequestContext(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	defer slog.SetDefault(prev)

	r := httptest.NewRequest("POST", "/api/v1/admin/unlock-account", nil)
	r.Header.Set("X-Request-Id", "req-123")

	Audit(r, "admin_unlock_denied", "reason", "forbidden", "actor_id", "u1")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if entry["event"] != "admin_unlock_denied" {
		t.Errorf("event = %v", entry["event"])
	}
	if entry["method"] != "POST" {
		t.Errorf("method = %v", entry["method"])
	}
	if entry["path"] != "/api/v1/admin/unlock-account" {
		t.Errorf("path = %v", entry["path"])
	}
	if entry["request_id"] != "req-123" {
		t.Errorf("request_id = %v", entry["request_id"])
	}
	if entry["reason"] != "forbidden" || entry["actor_id"] != "u1" {
		t.Errorf("extra attrs missing: %v", entry)
	}
}
