package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"uniqcount/internal/summary"
)

func TestWrite(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		s      summary.Summary
		locale string
		want   string
	}{
		{
			name:   "scenario_a",
			s:      summary.Summary{Distinct: 3, Singletons: 2},
			locale: "en",
			want:   "Unique numbers count: 3\nNumbers found only once count: 2\n",
		},
		{
			name:   "grouped_en",
			s:      summary.Summary{Distinct: 1234567, Singletons: 1000},
			locale: "en",
			want:   "Unique numbers count: 1,234,567\nNumbers found only once count: 1,000\n",
		},
		{
			name:   "grouped_de",
			s:      summary.Summary{Distinct: 1234567, Singletons: 0},
			locale: "de",
			want:   "Unique numbers count: 1.234.567\nNumbers found only once count: 0\n",
		},
		{
			name:   "bad_locale_falls_back",
			s:      summary.Summary{Distinct: 1000, Singletons: 1},
			locale: "not a locale!",
			want:   "Unique numbers count: 1,000\nNumbers found only once count: 1\n",
		},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			if err := Write(&buf, c.s, c.locale); err != nil {
				t.Fatalf("Write: %v", err)
			}
			if buf.String() != c.want {
				t.Fatalf("Write =\n%q\nwant\n%q", buf.String(), c.want)
			}
		})
	}
}

func TestWriteStrategy(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := WriteStrategy(&buf, "mmap", summary.Summary{Distinct: 5, Singletons: 3}, 1500*time.Microsecond, "en"); err != nil {
		t.Fatal(err)
	}
	got := buf.String()
	if !strings.HasPrefix(got, "mmap       unique=5 once=3") || !strings.HasSuffix(got, "\n") {
		t.Fatalf("WriteStrategy = %q", got)
	}
}

func TestParseLocale(t *testing.T) {
	t.Parallel()

	for _, ok := range []string{"en", "de-CH", "fr"} {
		if _, err := ParseLocale(ok); err != nil {
			t.Fatalf("ParseLocale(%q): %v", ok, err)
		}
	}
	if _, err := ParseLocale("!!"); err == nil {
		t.Fatalf("ParseLocale(!!) succeeded")
	}
}
