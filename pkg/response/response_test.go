package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNewMeta(t *testing.T) {
	tests := []struct {
		total int64
		limit int
		want  int
	}{
		{total: 0, limit: 10, want: 0},
		{total: 10, limit: 10, want: 1},
		{total: 11, limit: 10, want: 2},
		{total: 5, limit: 0, want: 0},
	}
	for _, tt := range tests {
		if got := NewMeta(1, tt.limit, tt.total).TotalPages; got != tt.want {
			t.Errorf("total=%d limit=%d: expected %d pages, got %d", tt.total, tt.limit, tt.want, got)
		}
	}
}

func TestSuccessEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	Success(rec, http.StatusCreated, "Created", map[string]string{"id": "1"})

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var body Response
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !body.Success || body.Message != "Created" {
		t.Errorf("unexpected envelope: %+v", body)
	}
}

func TestTooManyRequestsRetryAfter(t *testing.T) {
	rec := httptest.NewRecorder()
	TooManyRequests(rec, "", 1500*time.Millisecond)

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if got := rec.Header().Get("Retry-After"); got != "2" {
		t.Errorf("expected Retry-After 2, got %q", got)
	}
}
