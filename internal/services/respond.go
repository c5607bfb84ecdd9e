package services

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

// The groundcontrol client compares mutation and login responses against
// these literal strings, so boolean outcomes go out as plain text, not
// JSON. Changing this breaks the bundled front-end.
const (
	legacyTrue  = "True"
	legacyFalse = "False"
)

func writeText(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(body))
}

func writeBool(w http.ResponseWriter, ok bool) {
	if ok {
		writeText(w, legacyTrue)
		return
	}
	writeText(w, legacyFalse)
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(payload)
}

// intParam parses an integer path segment.
func intParam(r *http.Request, name string) (int, error) {
	return strconv.Atoi(chi.URLParam(r, name))
}

// textParam percent-decodes a free-text path segment. Callers encode
// spaces and slashes in names, numbers and messages; the router decodes
// them before anything is stored.
func textParam(r *http.Request, name string) (string, error) {
	return url.PathUnescape(chi.URLParam(r, name))
}

// flagParam parses a boolean path segment. Only the literals "true" and
// "false" are accepted, matching the route contract.
func flagParam(r *http.Request, name string) (bool, error) {
	switch chi.URLParam(r, name) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, &strconv.NumError{Func: "flagParam", Num: chi.URLParam(r, name), Err: strconv.ErrSyntax}
}

// joinLines renders a simple list response, one value per line.
func joinLines(values []string) string {
	return strings.Join(values, "\n")
}
