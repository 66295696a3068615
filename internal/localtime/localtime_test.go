package localtime

import (
	"testing"
	"time"
)

func TestToDisplay(t *testing.T) {
	tests := []struct {
		name string
		utc  string
		want string
	}{
		{"morning shift", "2024-05-01T03:00:00Z", "2024-05-01T08:30"},
		{"midnight utc", "2024-05-01T00:00:00Z", "2024-05-01T05:30"},
		{"crosses date line forward", "2024-05-01T20:00:00Z", "2024-05-02T01:30"},
		{"half hour offset", "2024-12-31T18:30:00Z", "2025-01-01T00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			utc, err := time.Parse(time.RFC3339, tt.utc)
			if err != nil {
				t.Fatalf("bad test input: %v", err)
			}
			if got := ToDisplay(utc); got != tt.want {
				t.Errorf("ToDisplay(%s) = %q, want %q", tt.utc, got, tt.want)
			}
		})
	}
}

// TestRoundTrip checks the law ToStorage(ToDisplay(x)) == x at minute
// precision. The original web client shifted edited times twice; this is the
// regression guard for that class of bug.
func TestRoundTrip(t *testing.T) {
	instants := []string{
		"2024-05-01T03:00:00Z",
		"2024-01-01T00:00:00Z",
		"2024-06-15T18:30:00Z",
		"2024-12-31T23:59:00Z",
		"1999-02-28T04:05:00Z",
	}

	for _, in := range instants {
		x, err := time.Parse(time.RFC3339, in)
		if err != nil {
			t.Fatalf("bad test input: %v", err)
		}
		got, err := ToStorage(ToDisplay(x))
		if err != nil {
			t.Fatalf("ToStorage(ToDisplay(%s)): %v", in, err)
		}
		if !got.Equal(x.Truncate(time.Minute)) {
			t.Errorf("round trip of %s = %s", in, got.Format(time.RFC3339))
		}
	}
}

func TestToStorage(t *testing.T) {
	got, err := ToStorage("2024-05-01T08:30")
	if err != nil {
		t.Fatal(err)
	}
	want := time.Date(2024, 5, 1, 3, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("ToStorage = %s, want %s", got, want)
	}
	if got.Location() != time.UTC {
		t.Errorf("ToStorage should return UTC, got %s", got.Location())
	}
}

func TestToStorageRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "yesterday", "2024-05-01", "08:30"} {
		if _, err := ToStorage(in); err == nil {
			t.Errorf("ToStorage(%q) should fail", in)
		}
	}
}

func TestFormatStorage(t *testing.T) {
	x := time.Date(2024, 5, 1, 3, 0, 0, 0, time.UTC)
	if got := FormatStorage(x); got != "2024-05-01T03:00:00.000Z" {
		t.Errorf("FormatStorage = %q", got)
	}

	// Non-UTC input is normalized to UTC before serializing.
	local := x.In(Zone)
	if got := FormatStorage(local); got != "2024-05-01T03:00:00.000Z" {
		t.Errorf("FormatStorage(local) = %q", got)
	}
}
