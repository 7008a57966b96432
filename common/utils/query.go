package utils

import (
	"net/http"
	"strconv"
)

// QueryInt reads an integer query parameter, falling back to def when the
// parameter is absent or malformed and clamping to max when max is positive.
func QueryInt(r *http.Request, name string, def, max int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}

	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return def
	}
	if max > 0 && v > max {
		return max
	}
	return v
}
