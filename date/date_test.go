package date

import (
	"testing"
	"time"
)

func TestNew_Normalizes(t *testing.T) {
	// Out-of-range days carry over into the next month.
	got := New(2021, 12, 32)
	want := New(2022, 1, 1)
	if got != want {
		t.Errorf("New(2021, 12, 32) = %v want %v", got, want)
	}
}

func TestAdd(t *testing.T) {
	d := New(2021, 2, 27)
	if got := d.Add(2); got != New(2021, 3, 1) {
		t.Errorf("Add(2) = %v want 2021-03-01", got)
	}
	if got := d.Add(-27); got != New(2021, 1, 31) {
		t.Errorf("Add(-27) = %v want 2021-01-31", got)
	}
}

func TestSub(t *testing.T) {
	a, b := New(2021, 3, 1), New(2021, 2, 1)
	if got := a.Sub(b); got != 28 {
		t.Errorf("Sub() = %v want 28", got)
	}
}

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want Date
	}{
		{"2021-01-05", New(2021, 1, 5)},
		{"2021-1-5", New(2021, 1, 5)}, // permissive single digits
	}
	for _, c := range cases {
		got, err := Parse(c.in)
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("Parse(%q) = %v want %v", c.in, got, c.want)
		}
	}

	if _, err := Parse("garbage"); err == nil {
		t.Error("Parse(garbage) expected an error")
	}
}

func TestPeriodRange(t *testing.T) {
	end := New(2021, 6, 15)

	r := Week.Range(end)
	if r.From != end.Add(-7) || r.To != end {
		t.Errorf("Week.Range() = %v", r)
	}

	r = YTD.Range(end)
	if r.From != New(2021, time.January, 1) || r.To != end {
		t.Errorf("YTD.Range() = %v", r)
	}
}

func TestRangeDays(t *testing.T) {
	r := Range{From: New(2021, 1, 1), To: New(2021, 1, 3)}
	var got []Date
	for d := range r.Days() {
		got = append(got, d)
	}
	if len(got) != 3 || got[0] != r.From || got[2] != r.To {
		t.Errorf("Days() = %v", got)
	}
	if r.Len() != 3 {
		t.Errorf("Len() = %v want 3", r.Len())
	}
}

func TestRangeString(t *testing.T) {
	r := Range{From: New(2021, 1, 1), To: New(2021, 12, 28)}
	if got := r.String(); got != "2021-01-01 to 2021-12-28" {
		t.Errorf("String() = %q", got)
	}
}
