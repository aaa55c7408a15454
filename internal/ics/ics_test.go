package ics

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"calgrid/internal/model"
	"calgrid/internal/store"
)

func calendar(lines ...string) []byte {
	all := append([]string{"BEGIN:VCALENDAR", "VERSION:2.0", "PRODID:-//test//EN"}, lines...)
	all = append(all, "END:VCALENDAR")
	return []byte(strings.Join(all, "\r\n") + "\r\n")
}

var sample = calendar(
	"BEGIN:VEVENT",
	"UID:a@test",
	"DTSTAMP:20240301T000000Z",
	"DTSTART:20240315T100000Z",
	"DTEND:20240315T113000Z",
	"SUMMARY:Planning",
	"DESCRIPTION:Quarterly",
	"CATEGORIES:Work",
	"RRULE:FREQ=WEEKLY;BYDAY=MO,WE",
	"END:VEVENT",
	"BEGIN:VEVENT",
	"UID:b@test",
	"DTSTAMP:20240301T000000Z",
	"DTSTART:20240316T090000Z",
	"SUMMARY:Open ended",
	"END:VEVENT",
	"BEGIN:VEVENT",
	"UID:c@test",
	"DTSTAMP:20240301T000000Z",
	"SUMMARY:No start",
	"END:VEVENT",
)

func TestParse(t *testing.T) {
	items, err := Parse(Source{ID: "t"}, sample)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("parsed %d events, want 2 (event without DTSTART skipped)", len(items))
	}

	a := items[0]
	if a.UID != "a@test" || a.Event.Title != "Planning" {
		t.Fatalf("first = %+v", a)
	}
	if a.Event.Description == nil || *a.Event.Description != "Quarterly" {
		t.Fatalf("description = %v", a.Event.Description)
	}
	wantStart := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	if !a.Event.Start.Equal(wantStart) || a.Event.Duration() != 90*time.Minute {
		t.Fatalf("time = %v..%v", a.Event.Start, a.Event.End)
	}
	if !reflect.DeepEqual(a.Categories, []string{"Work"}) {
		t.Fatalf("categories = %v", a.Categories)
	}
	if a.Event.Recurrence == nil || !reflect.DeepEqual(a.Event.Recurrence.Days, []time.Weekday{time.Monday, time.Wednesday}) {
		t.Fatalf("recurrence = %+v", a.Event.Recurrence)
	}

	b := items[1]
	if b.Event.Duration() != time.Hour {
		t.Fatalf("missing DTEND duration = %v, want 1h", b.Event.Duration())
	}
}

func TestParseEmpty(t *testing.T) {
	if _, err := Parse(Source{}, nil); !errors.Is(err, ErrEmptyBody) {
		t.Fatalf("err = %v, want ErrEmptyBody", err)
	}
}

func TestRecurrenceRRule(t *testing.T) {
	until := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	rec := model.Recurrence{Days: []time.Weekday{time.Tuesday, time.Sunday}, Until: until}

	s := RecurrenceToRRule(rec)
	if !strings.Contains(s, "FREQ=WEEKLY") {
		t.Fatalf("rrule %q missing FREQ=WEEKLY", s)
	}
	back, err := RecurrenceFromRRule(s)
	if err != nil {
		t.Fatalf("RecurrenceFromRRule(%q): %v", s, err)
	}
	if !reflect.DeepEqual(back.Days, rec.Days) || !back.Until.Equal(until) {
		t.Fatalf("round trip = %+v, want %+v", back, rec)
	}
}

func TestRecurrenceFromRRule(t *testing.T) {
	daily, err := RecurrenceFromRRule("FREQ=DAILY")
	if err != nil || len(daily.Days) != 7 {
		t.Fatalf("daily = %+v, %v", daily, err)
	}
	if _, err := RecurrenceFromRRule("FREQ=MONTHLY;BYMONTHDAY=1"); !errors.Is(err, ErrUnsupportedRRule) {
		t.Fatalf("monthly err = %v, want ErrUnsupportedRRule", err)
	}
}

func TestRecurrenceToRRuleSkipsInvalidDays(t *testing.T) {
	rec := model.Recurrence{Days: []time.Weekday{-1, time.Monday, 7}}

	back, err := RecurrenceFromRRule(RecurrenceToRRule(rec))
	if err != nil {
		t.Fatalf("RecurrenceFromRRule: %v", err)
	}
	if !reflect.DeepEqual(back.Days, []time.Weekday{time.Monday}) {
		t.Fatalf("days = %v, want [Monday]", back.Days)
	}
}

func TestExportWithInvalidRecurrenceDays(t *testing.T) {
	start := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	events := []model.Event{{
		ID: "bad", Title: "odd days", Start: start, End: start.Add(time.Hour),
		CategoryID: model.NoCategoryID,
		Recurrence: &model.Recurrence{Days: []time.Weekday{-1, 9}},
	}}

	out := Export(events, []model.Category{model.NoCategory()}, start)
	items, err := Parse(Source{ID: "bad"}, []byte(out))
	if err != nil || len(items) != 1 || items[0].Event.Title != "odd days" {
		t.Fatalf("export/parse = %d items, %v", len(items), err)
	}
}

func TestExportRoundTrip(t *testing.T) {
	start := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	cats := []model.Category{model.NoCategory(), {ID: "work", Name: "Work", Color: "#F44336"}}
	events := []model.Event{
		{
			ID: "e1", Title: "Planning", Description: model.Ptr("Quarterly"),
			Start: start, End: start.Add(time.Hour), CategoryID: "work",
			Recurrence: &model.Recurrence{Days: []time.Weekday{time.Friday}},
		},
		{ID: "e2", Title: "Loose", Start: start.Add(24 * time.Hour), End: start.Add(25 * time.Hour), CategoryID: model.NoCategoryID},
	}

	out := Export(events, cats, start)
	if !strings.Contains(out, "BEGIN:VCALENDAR") || !strings.Contains(out, "UID:e1") {
		t.Fatalf("export missing calendar or uid:\n%s", out)
	}

	items, err := Parse(Source{ID: "roundtrip"}, []byte(out))
	if err != nil {
		t.Fatalf("Parse(export): %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("parsed %d events, want 2", len(items))
	}
	got := items[0]
	if got.Event.Title != "Planning" || !got.Event.Start.Equal(start) || got.Event.Duration() != time.Hour {
		t.Fatalf("event = %+v", got.Event)
	}
	if !reflect.DeepEqual(got.Categories, []string{"Work"}) {
		t.Fatalf("categories = %v", got.Categories)
	}
	if got.Event.Recurrence == nil || !reflect.DeepEqual(got.Event.Recurrence.Days, []time.Weekday{time.Friday}) {
		t.Fatalf("recurrence = %+v", got.Event.Recurrence)
	}
	if len(items[1].Categories) != 0 {
		t.Fatalf("sentinel category exported: %v", items[1].Categories)
	}
}

func TestImportResolvesCategories(t *testing.T) {
	st := store.New(store.WithCategories([]model.Category{
		{ID: "work", Name: "Work", Color: "#F44336"},
		{ID: "family", Name: "Family", Color: "#2196F3"},
	}))
	start := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	items := []Imported{
		{Event: model.Event{Title: "a", Start: start, End: start.Add(time.Hour)}, Categories: []string{"Other", "work"}},
		{Event: model.Event{Title: "b", Start: start, End: start.Add(time.Hour)}, Categories: []string{"Other"}},
		{Event: model.Event{Title: "c", Start: start, End: start.Add(time.Hour)}},
	}

	got := Import(st, items, "family")
	want := []string{"work", "family", "family"}
	for i, ev := range got {
		if ev.CategoryID != want[i] {
			t.Fatalf("event %d category = %q, want %q", i, ev.CategoryID, want[i])
		}
		if ev.ID == "" {
			t.Fatalf("event %d has no id", i)
		}
	}

	got = Import(st, items[2:], "missing")
	if got[0].CategoryID != model.NoCategoryID {
		t.Fatalf("unknown fallback category = %q, want sentinel", got[0].CategoryID)
	}
	if n := len(st.Events()); n != 4 {
		t.Fatalf("store holds %d events, want 4", n)
	}
}
