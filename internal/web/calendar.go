package web

import (
	"fmt"
	"io"
	"net/http"

	"calgrid/internal/ics"
	appLog "calgrid/internal/log"
)

const maxImportBytes = 5 << 20

func (s *Server) handleExport(w http.ResponseWriter, _ *http.Request) {
	snap := s.store.Snapshot()
	body := ics.Export(snap.Events, snap.Categories, s.now())
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="calgrid.ics"`)
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, body)
}

type importResponse struct {
	Imported int `json:"imported"`
}

// handleImport reads an ICS body. ?category= names the category id used
// when an event's CATEGORIES match no existing category.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("read body: %v", err))
		return
	}
	items, err := ics.Parse(ics.Source{ID: "upload"}, body)
	if err != nil {
		appLog.Error("ics import failed", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	added := ics.Import(s.store, items, r.URL.Query().Get("category"))
	writeJSON(w, http.StatusCreated, importResponse{Imported: len(added)})
}
