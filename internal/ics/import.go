package ics

import (
	"context"
	"strings"

	appLog "calgrid/internal/log"
	"calgrid/internal/model"
)

// Importer is the store surface used to insert parsed events.
type Importer interface {
	AddEvent(ev model.Event) model.Event
	Categories() []model.Category
}

// Import adds items to st. An item's category is the first of its
// CATEGORIES matching an existing category name (case-insensitive),
// otherwise fallback, otherwise the sentinel. It returns the stored events.
func Import(st Importer, items []Imported, fallback string) []model.Event {
	byName := make(map[string]string)
	known := make(map[string]bool)
	for _, c := range st.Categories() {
		byName[strings.ToLower(c.Name)] = c.ID
		known[c.ID] = true
	}
	if !known[fallback] {
		fallback = model.NoCategoryID
	}

	out := make([]model.Event, 0, len(items))
	for _, it := range items {
		ev := it.Event.Clone()
		ev.CategoryID = fallback
		for _, name := range it.Categories {
			if id, ok := byName[strings.ToLower(name)]; ok {
				ev.CategoryID = id
				break
			}
		}
		ev.GroupID = nil
		out = append(out, st.AddEvent(ev))
	}
	appLog.Info("ics import completed", "count", len(out))
	return out
}

// Sync is the subscription path: fetch every source, parse it and import
// it under the source's category. Failed sources are logged and skipped.
// It returns the number of imported events.
func Sync(ctx context.Context, f *Fetcher, st Importer, sources []Source) int {
	results, _ := f.FetchAll(ctx, sources)
	total := 0
	for _, res := range results {
		items, err := Parse(res.Source, res.Body)
		if err != nil {
			continue
		}
		total += len(Import(st, items, res.Source.Category))
	}
	return total
}
