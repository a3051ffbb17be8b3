package request

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestParseID(t *testing.T) {
	tests := []struct {
		value string
		want  int64
		ok    bool
	}{
		{value: "42", want: 42, ok: true},
		{value: " 7 ", want: 7, ok: true},
		{value: "", ok: false},
		{value: "0", ok: false},
		{value: "-3", ok: false},
		{value: "abc", ok: false},
	}
	for _, tt := range tests {
		got, ok := ParseID(tt.value)
		if ok != tt.ok || got != tt.want {
			t.Fatalf("ParseID(%q) = %d, %v; want %d, %v", tt.value, got, ok, tt.want, tt.ok)
		}
	}
}

func TestPathID(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/v1/leagues/12/weeks/x", nil)
	req.SetPathValue("leagueID", "12")
	req.SetPathValue("week", "x")

	id, err := PathID(req, "leagueID")
	if err != nil || id != 12 {
		t.Fatalf("expected league 12, got %d (%v)", id, err)
	}
	if _, err := PathInt(req, "week"); err == nil {
		t.Fatalf("expected error for non-numeric week")
	}
	if _, err := PathID(req, "missing"); err == nil {
		t.Fatalf("expected error for missing path value")
	}
}

func TestQueryTime(t *testing.T) {
	req := httptest.NewRequest("GET", "/?from=2026-05-01&to=2026-05-02T18:30:00Z&bad=soon", nil)

	from, err := QueryTime(req, "from")
	if err != nil || !from.Equal(time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected from %v (%v)", from, err)
	}
	to, err := QueryTime(req, "to")
	if err != nil || to.Hour() != 18 {
		t.Fatalf("unexpected to %v (%v)", to, err)
	}
	if missing, err := QueryTime(req, "missing"); err != nil || missing != nil {
		t.Fatalf("expected nil for missing value, got %v (%v)", missing, err)
	}
	if _, err := QueryTime(req, "bad"); err == nil {
		t.Fatalf("expected error for bad time")
	}
}
