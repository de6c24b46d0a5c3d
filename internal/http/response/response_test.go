package response

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
)

func TestJSONSetsContentTypeAndStatus(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/", nil)

	JSON(w, r, 201, map[string]bool{"success": true})

	if w.Code != 201 {
		t.Errorf("status = %d, want 201", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	var body map[string]bool
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !body["success"] {
		t.Error("success = false, want true")
	}
}

func TestErrorShape(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/", nil)

	Error(w, r, 403, "Admin access required")

	if w.Code != 403 {
		t.Errorf("status = %d, want 403", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["error"] != "Admin access required" {
		t.Errorf("error = %q", body["error"])
	}
}

func TestJSONNilBody(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/", nil)

	JSON(w, r, 204, nil)

	if w.Code != 204 {
		t.Errorf("status = %d, want 204", w.Code)
	}
	if w.Body.Len() != 0 {
		t.Errorf("body = %q, want empty", w.Body.String())
	}
}
