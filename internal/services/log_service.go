package services

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/spacebrain/backend/internal/models"
	"github.com/spacebrain/backend/internal/store"
)

const dateLayout = "2006-01-02"

// LogService exposes the access/audit log: a range query and an append
// endpoint used by the gatekeeper and door opener.
type LogService struct {
	store *store.Store
	now   func() time.Time
}

func NewLogService(st *store.Store) *LogService {
	return &LogService{
		store: st,
		now:   time.Now,
	}
}

// Range returns log entries between the from and to path segments,
// inclusive. The segments are YYYY-MM-DD dates; the literal "undefined"
// or an empty segment means unset. Unset to defaults to today, unset
// from to seven days before now. The defaulting happens here, not in the
// store.
func (s *LogService) Range(w http.ResponseWriter, r *http.Request) {
	now := s.now()

	from, err := s.resolveDate(chi.URLParam(r, "from"), now.AddDate(0, 0, -7))
	if err != nil {
		SendErrorResponse(w, "Invalid from date, expected YYYY-MM-DD", http.StatusBadRequest, nil)
		return
	}

	to, err := s.resolveDate(chi.URLParam(r, "to"), now)
	if err != nil {
		SendErrorResponse(w, "Invalid to date, expected YYYY-MM-DD", http.StatusBadRequest, nil)
		return
	}

	// The to day is included whole; Postgres timestamps carry
	// microsecond resolution.
	toEnd := to.AddDate(0, 0, 1).Add(-time.Microsecond)

	entries, err := s.store.Logs(from, toEnd)
	if err != nil {
		log.Printf("[LOGS] Failed to query logs: %v", err)
		http.Error(w, "Failed to query logs", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string][]models.LogEntry{"logEntries": entries})
}

// Add appends a log entry from the path segments and answers the legacy
// True literal.
func (s *LogService) Add(w http.ResponseWriter, r *http.Request) {
	system, err1 := textParam(r, "system")
	attribute, err2 := textParam(r, "attribute")
	message, err3 := textParam(r, "message")
	if err1 != nil || err2 != nil || err3 != nil {
		SendErrorResponse(w, "Invalid path segment encoding", http.StatusBadRequest, nil)
		return
	}

	if err := s.store.AddLog(system, attribute, message); err != nil {
		log.Printf("[LOGS] Failed to store log entry from %s: %v", system, err)
		http.Error(w, "Failed to store log entry", http.StatusInternalServerError)
		return
	}

	writeBool(w, true)
}

// resolveDate maps a date path segment to a day-start instant, applying
// the unset sentinel.
func (s *LogService) resolveDate(segment string, fallback time.Time) (time.Time, error) {
	if segment == "" || segment == "undefined" {
		return time.Date(fallback.Year(), fallback.Month(), fallback.Day(), 0, 0, 0, 0, fallback.Location()), nil
	}
	return time.Parse(dateLayout, segment)
}
