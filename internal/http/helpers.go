package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"libretto/internal/core"
	"libretto/internal/reports"
)

var errTrailingBody = errors.New("unexpected data after JSON body")

// parsePeriod reads the period query parameter, defaulting to all-time.
func parsePeriod(r *http.Request) (reports.Period, error) {
	v := strings.TrimSpace(r.URL.Query().Get("period"))
	if v == "" {
		return reports.PeriodAll, nil
	}
	p := reports.Period(v)
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", reports.ErrInvalidPeriod, v)
	}
	return p, nil
}

// pathID extracts the numeric id segment after prefix. The remainder after
// the id, if any, is returned as the sub-resource action.
func pathID(path, prefix string) (id int64, action string, err error) {
	rest := strings.TrimPrefix(path, prefix)
	rest = strings.Trim(rest, "/")
	seg, action, _ := strings.Cut(rest, "/")
	id, err = strconv.ParseInt(seg, 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("invalid id %q", seg)
	}
	return id, action, nil
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// cacheKey identifies a memoized report payload. The ledger revision
// invalidates every period at once on any write; the cutoff date keeps a
// relative window from serving yesterday's payload past midnight.
func cacheKey(p reports.Period, cutoff core.Date, revision int64) string {
	return string(p) + ":" + cutoff.String() + ":" + strconv.FormatInt(revision, 10)
}

// nowFunc is swapped in tests to pin period cutoffs.
var nowFunc = time.Now
