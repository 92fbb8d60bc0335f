package server

import (
	"bytes"
	"net/http"

	"github.com/sadopc/dayplan/internal/export"
)

func (s *Server) handleExportJSON(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := export.WriteJSON(&buf, s.repo.AllDays(), s.now()); err != nil {
		fail(w, r, err)
		return
	}
	attach(w, "application/json", "dayplan_export.json", buf.Bytes())
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, s.repo.AllDays()); err != nil {
		fail(w, r, err)
		return
	}
	attach(w, "text/csv", "dayplan_export.csv", buf.Bytes())
}

func attach(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment;filename="+filename)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
