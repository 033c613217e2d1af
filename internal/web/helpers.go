package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/emiliopalmerini/crodash/internal/domain"
	"github.com/emiliopalmerini/crodash/internal/filter"
	"github.com/emiliopalmerini/crodash/internal/normalize"
)

// parseFilters reads the global selection from q. Absent parameters keep the
// dashboard defaults; start and end accept any supported date format.
func parseFilters(q url.Values, now time.Time, missing domain.MissingDatePolicy) (filter.Filters, error) {
	f := filter.Default(now)
	f.MissingDates = missing

	for _, p := range []struct {
		key string
		dst *time.Time
	}{
		{"start", &f.Range.Start},
		{"end", &f.Range.End},
	} {
		v := strings.TrimSpace(q.Get(p.key))
		if v == "" {
			continue
		}
		t, ok := normalize.ParseDate(v)
		if !ok {
			return f, fmt.Errorf("invalid %s date %q", p.key, v)
		}
		*p.dst = t
	}
	if f.Range.Start.After(f.Range.End) {
		return f, fmt.Errorf("start %s is after end %s", f.Range.Start.Format(normalize.ISODate), f.Range.End.Format(normalize.ISODate))
	}

	for key, dst := range map[string]*string{
		"workstream": &f.Workstream,
		"pageType":   &f.PageType,
		"status":     &f.Status,
		"market":     &f.Market,
	} {
		if v := strings.TrimSpace(q.Get(key)); v != "" {
			*dst = v
		}
	}
	f.Search = strings.TrimSpace(q.Get("q"))

	if v := q.Get("missing"); v != "" {
		p, err := domain.ParseMissingDatePolicy(v)
		if err != nil {
			return f, err
		}
		f.MissingDates = p
	}
	return f, nil
}

// parseMonths reads the timeline span, falling back to def.
func parseMonths(q url.Values, def int) (int, error) {
	v := q.Get("months")
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 || n > 24 {
		return 0, fmt.Errorf("invalid months %q", v)
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func formatDate(t *time.Time) *string {
	return normalize.FormatDate(t)
}
