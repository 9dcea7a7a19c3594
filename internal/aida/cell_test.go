package aida

import "testing"

func TestNewCell(t *testing.T) {
	tests := []struct {
		raw      string
		wantKind CellKind
		wantNum  float64
	}{
		{"", CellEmpty, 0},
		{"48", CellNumber, 48},
		{"47.5", CellNumber, 47.5},
		{"-3", CellNumber, -3},
		{".5", CellNumber, 0.5},
		{"5.", CellNumber, 5},
		{"1e2", CellNumber, 100},
		{" 42 ", CellNumber, 42},
		{"+5", CellText, 0},
		{"°C", CellText, 0},
		{"Date", CellText, 0},
		{"6/5/2025", CellText, 0},
		{"05:04:42", CellText, 0},
		{"NaN", CellText, 0},
		{"Infinity", CellText, 0},
		{"1e999", CellText, 0},
		{"12345678901234567890", CellText, 0},
		{"9007199254740991", CellNumber, 9007199254740991},
		{"-9007199254740991", CellNumber, -9007199254740991},
		{"9007199254740992", CellText, 0},
		{"true", CellBool, 1},
		{"FALSE", CellBool, 0},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := NewCell(tt.raw)
			if got.Kind != tt.wantKind {
				t.Errorf("NewCell(%q).Kind = %s, want %s", tt.raw, got.Kind, tt.wantKind)
			}
			if got.Num != tt.wantNum {
				t.Errorf("NewCell(%q).Num = %v, want %v", tt.raw, got.Num, tt.wantNum)
			}
		})
	}
}

func TestParseRows(t *testing.T) {
	input := "a,b,c\n\n\"x,y\",2\n\nlast\n"

	rows, malformed, err := ParseRows(input)
	if err != nil {
		t.Fatalf("ParseRows() error = %v", err)
	}
	if malformed != 0 {
		t.Errorf("malformed = %d, want 0", malformed)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3 (empty lines skipped)", len(rows))
	}
	if len(rows[1]) != 2 || rows[1][0].Raw != "x,y" {
		t.Errorf("quoted row = %+v", rows[1])
	}
	if n, ok := rows[1][1].Number(); !ok || n != 2 {
		t.Errorf("rows[1][1] = %v (%v), want numeric 2", n, ok)
	}
	if got := rows[0].Joined(); got != "a,b,c" {
		t.Errorf("Joined() = %q, want %q", got, "a,b,c")
	}
}

func TestParseRows_StripsBOM(t *testing.T) {
	rows, _, err := ParseRows("\ufeffDate,Time")
	if err != nil {
		t.Fatalf("ParseRows() error = %v", err)
	}
	if rows[0][0].Raw != "Date" {
		t.Errorf("first cell = %q, want %q", rows[0][0].Raw, "Date")
	}
}
