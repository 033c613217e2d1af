package util

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1500, "1.5K"},
		{2500000, "2.5M"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.in); got != tt.want {
			t.Errorf("FormatNumber(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{850 * time.Millisecond, "850ms"},
		{12400 * time.Millisecond, "12.4s"},
		{3*time.Minute + 5*time.Second, "3m05s"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.in); got != tt.want {
			t.Errorf("FormatDuration(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatDateTime(t *testing.T) {
	if got := FormatDateTime(nil); got != "-" {
		t.Errorf("FormatDateTime(nil) = %q", got)
	}
	ts := time.Date(2026, 1, 13, 9, 30, 0, 0, time.FixedZone("CET", 3600))
	if got := FormatDateTime(&ts); got != "2026-01-13 08:30" {
		t.Errorf("FormatDateTime = %q", got)
	}
	if got := FormatDate(&ts); got != "2026-01-13" {
		t.Errorf("FormatDate = %q", got)
	}
}

func TestNullString(t *testing.T) {
	if NullStringPtr(nil).Valid {
		t.Error("nil pointer should be null")
	}
	if NullStringToPtr(sql.NullString{}) != nil {
		t.Error("invalid NullString should map to nil")
	}
	s := "v"
	if got := NullStringToPtr(NullStringPtr(&s)); got == nil || *got != "v" {
		t.Errorf("round trip failed: %v", got)
	}
}

func TestNullTime(t *testing.T) {
	if NullTime(nil).Valid {
		t.Error("nil time should be null")
	}
	ts := time.Date(2026, 1, 13, 9, 30, 15, 500, time.UTC)
	got := NullTimeToPtr(NullTime(&ts))
	if got == nil || !got.Equal(ts) {
		t.Errorf("round trip failed: %v", got)
	}
	if NullTimeToPtr(sql.NullString{String: "yesterday", Valid: true}) != nil {
		t.Error("unparseable time should map to nil")
	}
}

func TestGetXDGDataDir(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_DATA_HOME", base)

	dir, err := GetXDGDataDir()
	if err != nil {
		t.Fatalf("GetXDGDataDir failed: %v", err)
	}
	if dir != filepath.Join(base, "crodash") {
		t.Errorf("unexpected dir %q", dir)
	}

	path, err := DataFile("token.json")
	if err != nil {
		t.Fatalf("DataFile failed: %v", err)
	}
	if path != filepath.Join(base, "crodash", "token.json") {
		t.Errorf("unexpected path %q", path)
	}
}
