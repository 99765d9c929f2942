package importer

import "testing"

const dayT0 = int64(1734850800)

func TestParseTextLines(t *testing.T) {
	content := "1734861600 vim - Terminal\n" +
		"1734861610 title with  spaces\n" +
		"notanumber hello\n" +
		"1734861620.7 fractional stamp\n" +
		"99 before the day\n" +
		"1734861630 \n" +
		"justonefield\n" +
		"\n"

	rows, malformed := parseTextLines(content, dayT0)
	if malformed != 2 {
		t.Errorf("malformed = %d, want 2 (bad stamp, missing value)", malformed)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3: %+v", len(rows), rows)
	}
	if rows[0].Text != "vim - Terminal" || rows[0].T != 1734861600 {
		t.Errorf("rows[0] = %+v", rows[0])
	}
	if rows[2].T != 1734861620 {
		t.Errorf("fractional stamp not truncated: %+v", rows[2])
	}
	for _, r := range rows {
		if r.DayT0 != dayT0 {
			t.Errorf("row %+v not tagged with file day", r)
		}
	}
}

func TestParseCountLines(t *testing.T) {
	content := "1734861600 42\n" +
		"1734861610 -5\n" +
		"1734861620 lots\n" +
		"1734950000 10\n"

	rows, malformed := parseCountLines(content, dayT0)
	if malformed != 1 {
		t.Errorf("malformed = %d, want 1 (non-integer count)", malformed)
	}
	// The negative count and the out-of-day row drop silently.
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1: %+v", len(rows), rows)
	}
	if rows[0].Count != 42 {
		t.Errorf("count = %d, want 42", rows[0].Count)
	}
}

func TestParseTextLines_DayWindowIsHalfOpen(t *testing.T) {
	content := "1734850800 first second of day\n" +
		"1734937199 last second of day\n" +
		"1734937200 first second of next day\n"

	rows, malformed := parseTextLines(content, dayT0)
	if malformed != 0 {
		t.Errorf("malformed = %d, want 0", malformed)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2: %+v", len(rows), rows)
	}
}
