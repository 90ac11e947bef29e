package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"fatoora/internal/core"
)

func decodeJSON(r *http.Request, dest any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	_ = encoder.Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// amountField converts a JSON number literal to cents via
// core.ParseMoney. Decoding into json.Number preserves the literal
// text, so amounts stay exact where a float64 round-trip would drift.
// An absent optional field decodes to the empty literal and means
// zero. Responds with 422 and returns false on a malformed or
// negative literal.
func amountField(w http.ResponseWriter, name string, n json.Number) (core.Money, bool) {
	if n == "" {
		return core.Money{}, true
	}
	m, err := core.ParseMoney(n.String())
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, name+" must be a non-negative decimal amount")
		return core.Money{}, false
	}
	return m, true
}

// urlID parses the {id} route parameter. Returns 0 and false after
// responding with 400 when the parameter is not a positive integer.
func urlID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

// listParams extracts the shared list query parameters: free-text
// search plus 1-indexed pagination. Page values of zero mean
// "unpaginated" and are handled downstream.
func listParams(r *http.Request) (search string, page, pageSize int) {
	q := r.URL.Query()
	search = strings.TrimSpace(q.Get("q"))
	page, _ = strconv.Atoi(q.Get("page"))
	pageSize, _ = strconv.Atoi(q.Get("page_size"))
	return search, page, pageSize
}

// dateParam parses a required YYYY-MM-DD query parameter. Responds
// with 422 and returns false when absent or malformed.
func dateParam(w http.ResponseWriter, r *http.Request, name string) (core.Date, bool) {
	d, err := core.ParseDate(r.URL.Query().Get(name))
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, name+" must be a YYYY-MM-DD date")
		return core.Date{}, false
	}
	return d, true
}

// optionalDateParam parses an optional YYYY-MM-DD query parameter.
// Absence yields nil; a malformed value responds with 422 and returns
// false.
func optionalDateParam(w http.ResponseWriter, r *http.Request, name string) (*core.Date, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, true
	}
	d, err := core.ParseDate(raw)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, name+" must be a YYYY-MM-DD date")
		return nil, false
	}
	return &d, true
}
