// Package report renders counting results for people, with digit grouping
// for the configured locale.
package report

import (
	"fmt"
	"io"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"uniqcount/internal/summary"
)

// ParseLocale parses a BCP 47 tag such as "en", "de-CH" or "fr".
func ParseLocale(s string) (language.Tag, error) {
	tag, err := language.Parse(s)
	if err != nil {
		return language.Und, fmt.Errorf("report: locale %q: %w", s, err)
	}
	return tag, nil
}

func printer(locale string) *message.Printer {
	tag, err := ParseLocale(locale)
	if err != nil {
		tag = language.English
	}
	return message.NewPrinter(tag)
}

// Write prints the two result lines:
//
//	Unique numbers count: 1,234
//	Numbers found only once count: 17
//
// An unparsable locale falls back to English.
func Write(w io.Writer, s summary.Summary, locale string) error {
	p := printer(locale)
	if _, err := p.Fprintf(w, "Unique numbers count: %d\n", s.Distinct); err != nil {
		return err
	}
	_, err := p.Fprintf(w, "Numbers found only once count: %d\n", s.Singletons)
	return err
}

// WriteStrategy prints one aligned line per strategy for side-by-side
// comparison.
func WriteStrategy(w io.Writer, name string, s summary.Summary, d time.Duration, locale string) error {
	_, err := printer(locale).Fprintf(w, "%-10s unique=%d once=%d  %v\n",
		name, s.Distinct, s.Singletons, d.Round(time.Microsecond))
	return err
}
