package core

import (
	"encoding/json"
	"testing"
)

func TestDraftValidate(t *testing.T) {
	good := ExpenseDraft{
		Amount:      Money{Cents: 2550},
		Category:    "Food",
		Description: "lunch",
		Date:        NewDate(2025, 6, 1),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []ExpenseDraft{
		{Amount: Money{Cents: 0}, Category: "c", Description: "d", Date: NewDate(2025, 1, 1)},
		{Amount: Money{Cents: -100}, Category: "c", Description: "d", Date: NewDate(2025, 1, 1)},
		{Amount: Money{Cents: 1}, Category: "c", Description: "  ", Date: NewDate(2025, 1, 1)},
		{Amount: Money{Cents: 1}, Category: "", Description: "d", Date: NewDate(2025, 1, 1)},
		{Amount: Money{Cents: 1}, Category: "c", Description: "d"},
	}
	for i, d := range bads {
		if err := d.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestParseDate(t *testing.T) {
	cases := []struct {
		in    string
		empty bool
	}{
		{"2025-06-01", false},
		{"2025-06-01T10:30:00Z", false},
		{"", true},
		{"not-a-date", true},
		{"06/01/2025", true},
	}
	for i, tc := range cases {
		d := ParseDate(tc.in)
		if d.IsEmpty() != tc.empty {
			t.Fatalf("case %d (%q): empty=%v, want %v", i, tc.in, d.IsEmpty(), tc.empty)
		}
	}
}

func TestExpenseJSONRoundTrip(t *testing.T) {
	in := Expense{
		ID:          "e1",
		Amount:      Money{Cents: 2550},
		Category:    "Food",
		Description: "lunch",
		Date:        NewDate(2025, 6, 1),
	}
	raw, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out Expense
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out != in {
		t.Fatalf("round trip mismatch: %+v != %+v", out, in)
	}
}

func TestExpenseUnmarshalBadDate(t *testing.T) {
	// A record with garbage in the date field must still decode; the zero
	// date drops it from narrow windows later, not from the collection.
	raw := []byte(`{"id":"e2","amount":9.99,"category":"Misc","description":"x","date":"garbage"}`)
	var e Expense
	if err := json.Unmarshal(raw, &e); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !e.Date.IsEmpty() {
		t.Fatalf("expected empty date, got %v", e.Date)
	}
	if e.Amount.Cents != 999 {
		t.Fatalf("amount = %d, want 999", e.Amount.Cents)
	}
}
