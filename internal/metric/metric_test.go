package metric

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"calgrid/internal/model"
	"calgrid/internal/store"
)

func TestMutationCounter(t *testing.T) {
	m := New(prometheus.NewRegistry())
	st := store.New(store.WithRecorder(m))

	start := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	st.AddEvent(model.Event{Title: "a", Start: start, End: start.Add(time.Hour)})
	st.DeleteCategory(model.NoCategoryID)
	st.DeleteCategory(model.NoCategoryID)

	tests := []struct {
		op, result string
		want       float64
	}{
		{store.OpAddEvent, "applied", 1},
		{store.OpDeleteCategory, "rejected", 2},
		{store.OpDeleteCategory, "applied", 0},
	}
	for _, tt := range tests {
		got := testutil.ToFloat64(m.mutations.WithLabelValues(tt.op, tt.result))
		if got != tt.want {
			t.Errorf("%s/%s = %v, want %v", tt.op, tt.result, got, tt.want)
		}
	}
}

func TestSizeGauges(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	st := store.New(store.WithRecorder(m), store.WithCategories([]model.Category{
		{ID: "work", Name: "Work", Color: "#F44336"},
	}))
	start := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	a := st.AddEvent(model.Event{Title: "a", Start: start, End: start.Add(time.Hour)})
	b := st.AddEvent(model.Event{Title: "b", Start: start, End: start.Add(time.Hour)})
	st.CreateGroup([]string{a.ID, b.ID})

	m.Observe(st)
	m.Observe(st)

	want := `
# HELP calgrid_categories User categories, excluding the sentinel.
# TYPE calgrid_categories gauge
calgrid_categories 1
# HELP calgrid_events Events held by the store.
# TYPE calgrid_events gauge
calgrid_events 2
# HELP calgrid_groups Event groups held by the store.
# TYPE calgrid_groups gauge
calgrid_groups 1
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(want), "calgrid_events", "calgrid_categories", "calgrid_groups"); err != nil {
		t.Fatal(err)
	}
}

func TestRequestCounter(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.Request("GET", "/api/state", 200)
	m.Request("GET", "/api/state", 200)
	if got := testutil.ToFloat64(m.requests.WithLabelValues("GET", "/api/state", "200")); got != 2 {
		t.Fatalf("requests = %v, want 2", got)
	}
}
