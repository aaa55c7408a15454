package ics

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	ical "github.com/arran4/golang-ical"

	appLog "calgrid/internal/log"
	"calgrid/internal/model"
	"calgrid/internal/view"
)

// ErrEmptyBody is returned for a zero-length payload.
var ErrEmptyBody = errors.New("empty ICS body")

// Imported is one VEVENT translated to a calendar event. Event.ID is left
// empty; the store assigns ids on insert.
type Imported struct {
	UID        string
	Event      model.Event
	Categories []string
	// RawRRule is kept when the rule cannot be represented as a weekly
	// recurrence.
	RawRRule string
}

// Parse reads an ICS payload. VEVENTs without a usable DTSTART are logged
// and skipped. A missing DTEND yields a one hour event.
func Parse(src Source, body []byte) ([]Imported, error) {
	if len(body) == 0 {
		return nil, ErrEmptyBody
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		appLog.Error("ics parse failed", err, "id", src.ID, "url", redactURL(src.URL))
		return nil, fmt.Errorf("parse calendar: %w", err)
	}

	out := make([]Imported, 0, len(cal.Events()))
	for _, ve := range cal.Events() {
		item, perr := parseVEvent(ve)
		if perr != nil {
			appLog.Warn("ics vevent skipped", "id", src.ID, "url", redactURL(src.URL), "reason", perr.Error())
			continue
		}
		out = append(out, item)
	}

	appLog.Info("ics parse completed", "id", src.ID, "url", redactURL(src.URL), "event_count", len(out))
	return out, nil
}

func parseVEvent(ve *ical.VEvent) (Imported, error) {
	var out Imported

	if p := ve.GetProperty(ical.ComponentPropertyUniqueId); p != nil {
		out.UID = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		out.Event.Title = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyDescription); p != nil && p.Value != "" {
		out.Event.Description = model.Ptr(p.Value)
	}

	start, err := ve.GetStartAt()
	if err != nil {
		return out, fmt.Errorf("dtstart: %w", err)
	}
	out.Event.Start = start
	end, err := ve.GetEndAt()
	if err != nil || end.IsZero() {
		end = start.Add(view.DefaultEventDuration)
	}
	out.Event.End = end

	for _, p := range ve.GetProperties(ical.ComponentPropertyCategories) {
		for _, name := range strings.Split(p.Value, ",") {
			if name = strings.TrimSpace(name); name != "" {
				out.Categories = append(out.Categories, name)
			}
		}
	}

	if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil && p.Value != "" {
		rec, rerr := RecurrenceFromRRule(p.Value)
		if rerr != nil {
			appLog.Debug("ics rrule kept raw", "uid", out.UID, "rrule", p.Value, "reason", rerr.Error())
			out.RawRRule = p.Value
		} else {
			out.Event.Recurrence = rec
		}
	}

	return out, nil
}
