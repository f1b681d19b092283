package core

import (
	"encoding/json"
	"testing"
)

func TestParseCents(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{"whole units", "12", 1200, false},
		{"dot separator", "12.34", 1234, false},
		{"comma separator", "12,34", 1234, false},
		{"single fractional digit", "5.5", 550, false},
		{"third digit rounds down", "12.344", 1234, false},
		{"third digit rounds up", "12.345", 1235, false},
		{"leading dot", ".50", 50, false},
		{"trailing dot", "7.", 700, false},
		{"zero is valid", "0", 0, false},
		{"zero with fraction", "0.00", 0, false},
		{"surrounding whitespace", "  3.25  ", 325, false},
		{"empty", "", 0, true},
		{"negative", "-5", 0, true},
		{"explicit plus sign", "+5", 0, true},
		{"letters", "abc", 0, true},
		{"mixed digits and letters", "12a.30", 0, true},
		{"two separators", "1.2.3", 0, true},
		{"bare dot", ".", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCents(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseCents(%q) = %d, expected error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCents(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Fatalf("ParseCents(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestParsePositiveCents(t *testing.T) {
	if _, err := ParsePositiveCents("0"); err == nil {
		t.Fatal("expected error for zero amount")
	}
	if _, err := ParsePositiveCents("0.00"); err == nil {
		t.Fatal("expected error for fractional zero amount")
	}
	got, err := ParsePositiveCents("0.01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 1 {
		t.Fatalf("got %d cents, want 1", got)
	}
}

func TestMoneyUnits(t *testing.T) {
	m := Money{Cents: 1234}
	if got := m.Units(); got != 12.34 {
		t.Fatalf("Units() = %v, want 12.34", got)
	}
}

func TestMoneyJSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(Money{Cents: 4250})
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}
	if string(data) != "4250" {
		t.Fatalf("marshaled as %s, want bare cents 4250", data)
	}

	var m Money
	if err := json.Unmarshal([]byte("4250"), &m); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if m.Cents != 4250 {
		t.Fatalf("unmarshaled %d cents, want 4250", m.Cents)
	}

	if err := json.Unmarshal([]byte(`"not a number"`), &m); err == nil {
		t.Fatal("expected error for non-numeric money")
	}
}
