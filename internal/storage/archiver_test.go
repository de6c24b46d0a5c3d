package storage

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"lockdesk/internal/domain"
)

func TestEncodeJSONL(t *testing.T) {
	records := []domain.AuditRecord{
		{ID: "a", Seq: 1, ActorID: "admin-1", ActionType: domain.ActionAccountUnlocked, CreatedAt: time.Now().UTC()},
		{ID: "b", Seq: 2, ActorID: "admin-2", ActionType: domain.ActionAccountUnlocked, CreatedAt: time.Now().UTC()},
	}

	body, err := EncodeJSONL(records)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	lines := bytes.Split(bytes.TrimRight(body, "\n"), []byte("\n"))
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}
	for i, line := range lines {
		var rec domain.AuditRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			t.Fatalf("line %d: %v", i, err)
		}
		if rec.ID != records[i].ID || rec.Seq != records[i].Seq {
			t.Errorf("line %d = %+v", i, rec)
		}
	}
}
