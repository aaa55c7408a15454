package ics

import (
	"time"

	ical "github.com/arran4/golang-ical"

	"calgrid/internal/model"
)

const productID = "-//calgrid//calendar export//EN"

// Export writes events as a VCALENDAR. Each event's category is written as
// CATEGORIES by name; the sentinel category is omitted. Recurrence becomes a
// WEEKLY RRULE.
func Export(events []model.Event, cats []model.Category, stamp time.Time) string {
	names := make(map[string]string, len(cats))
	for _, c := range cats {
		names[c.ID] = c.Name
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)

	for _, ev := range events {
		ve := cal.AddEvent(ev.ID)
		ve.SetDtStampTime(stamp.UTC())
		ve.SetStartAt(ev.Start)
		ve.SetEndAt(ev.End)
		ve.SetSummary(ev.Title)
		if ev.Description != nil {
			ve.SetDescription(*ev.Description)
		}
		if name, ok := names[ev.CategoryID]; ok && ev.CategoryID != model.NoCategoryID {
			ve.SetProperty(ical.ComponentPropertyCategories, name)
		}
		if ev.Recurrence != nil {
			ve.AddProperty(ical.ComponentPropertyRrule, RecurrenceToRRule(*ev.Recurrence))
		}
	}
	return cal.Serialize()
}
