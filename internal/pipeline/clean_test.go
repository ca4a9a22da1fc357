package pipeline

import "testing"

func TestProseCleaner_Clean(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain text unchanged",
			input: "Oddiy matn.",
			want:  "Oddiy matn.",
		},
		{
			name:  "strips trailing izoh block",
			input: "Matn tugadi.\n\n(Izoh: bu yerda qo'shimcha ma'lumot)",
			want:  "Matn tugadi.",
		},
		{
			name:  "strips trailing eslatma block",
			input: "Matn.\n(Eslatma: diqqat qiling)",
			want:  "Matn.",
		},
		{
			name:  "keeps parenthetical mid-text",
			input: "Matn (muhim) davom etadi.",
			want:  "Matn (muhim) davom etadi.",
		},
		{
			name:  "removes page break marker line",
			input: "Birinchi qism.\n[FOYDALANILGAN ADABIYOTLAR YANGI SAHIFA]\nIkkinchi qism.",
			want:  "Birinchi qism.\n\nIkkinchi qism.",
		},
		{
			name:  "removes horizontal rules",
			input: "Yuqori.\n---\nPast.",
			want:  "Yuqori.\n\nPast.",
		},
		{
			name:  "strips heading markers keeps text",
			input: "## 2. Asosiy qism\nMatn.",
			want:  "2. Asosiy qism\nMatn.",
		},
		{
			name:  "collapses blank line runs",
			input: "Bir.\n\n\n\nIkki.",
			want:  "Bir.\n\nIkki.",
		},
		{
			name:  "normalizes CRLF",
			input: "Bir.\r\nIkki.",
			want:  "Bir.\nIkki.",
		},
		{
			name:  "trims surrounding whitespace",
			input: "\n\n  Matn.  \n\n",
			want:  "Matn.",
		},
	}

	c := NewProseCleaner()
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := c.Clean(tt.input)
			if got != tt.want {
				t.Errorf("Clean() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestProseCleaner_Idempotent(t *testing.T) {
	t.Parallel()

	input := "## 1. Kirish\n\n\nMatn.\n---\n(Izoh: yakun)"
	c := NewProseCleaner()

	once := c.Clean(input)
	twice := c.Clean(once)
	if once != twice {
		t.Errorf("Clean not idempotent:\nonce:  %q\ntwice: %q", once, twice)
	}
}
