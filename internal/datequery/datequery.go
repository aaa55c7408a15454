// Package datequery resolves the dates typed into the CLI and the HTTP API:
// exact layouts first, then English expressions such as "tomorrow" or
// "next friday".
package datequery

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// ErrNoDate is returned when text holds no recognisable date.
var ErrNoDate = errors.New("no date found")

var layouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

// Parser resolves date text relative to a base time.
type Parser struct {
	w *when.Parser
}

// New returns a Parser with the English and common rule sets.
func New() *Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &Parser{w: w}
}

// Parse resolves text. Layouts without a zone are read in base's location.
func (p *Parser) Parse(text string, base time.Time) (time.Time, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, ErrNoDate
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, text, base.Location()); err == nil {
			return t, nil
		}
	}

	res, err := p.w.Parse(text, base)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", text, err)
	}
	if res == nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", text, ErrNoDate)
	}
	return res.Time, nil
}
