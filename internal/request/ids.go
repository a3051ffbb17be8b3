package request

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// ParseID parses a positive int64 identifier.
func ParseID(value string) (int64, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}

	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}

	return id, true
}

// PathID reads a positive id from a route wildcard such as {leagueID}.
func PathID(r *http.Request, key string) (int64, error) {
	raw := r.PathValue(key)
	id, ok := ParseID(raw)
	if !ok {
		log.Ctx(r.Context()).
			Debug().
			Str("param", key).
			Str("value", raw).
			Msg("Invalid path id")
		return 0, fmt.Errorf("%s must be a positive integer", key)
	}
	return id, nil
}

// PathInt reads a positive integer such as a week number from the route.
func PathInt(r *http.Request, key string) (int, error) {
	id, err := PathID(r, key)
	if err != nil {
		return 0, err
	}
	return int(id), nil
}

// QueryString returns a trimmed query value.
func QueryString(r *http.Request, key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}

// QueryTime parses an optional RFC 3339 or date-only query value.
func QueryTime(r *http.Request, key string) (*time.Time, error) {
	raw := QueryString(r, key)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			parsed = parsed.UTC()
			return &parsed, nil
		}
	}
	return nil, fmt.Errorf("%s must be an RFC 3339 timestamp or a date", key)
}
