package api

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ignite/botconsole/internal/pkg/timeutil"
	"github.com/ignite/botconsole/internal/query"
)

// parsePage reads the `current` and `pageSize` query params. Absent params
// default to the first page of twenty; present but malformed values are
// passed through so the service rejects them instead of silently clamping.
func parsePage(q url.Values) query.Page {
	p := query.Page{Number: 1, Size: 20}
	if v := q.Get("current"); v != "" {
		p.Number, _ = strconv.Atoi(v)
	}
	if v := q.Get("pageSize"); v != "" {
		p.Size, _ = strconv.Atoi(v)
	}
	return p
}

// parseSort reads the `field` and `order` query params.
func parseSort(q url.Values) query.SortSpec {
	return query.SortSpec{Field: q.Get("field"), Direction: q.Get("order")}
}

// optParam returns the named query param as an option. A param that was not
// sent is absent; a param sent empty is a present empty string.
func optParam(q url.Values, name string) query.Opt[string] {
	vs, ok := q[name]
	if !ok || len(vs) == 0 {
		return query.None[string]()
	}
	return query.Some(vs[0])
}

// optList returns the named query param split on commas, as an option.
func optList(q url.Values, name string) query.Opt[[]string] {
	vs, ok := q[name]
	if !ok || len(vs) == 0 {
		return query.None[[]string]()
	}
	if vs[0] == "" {
		return query.Some([]string{})
	}
	return query.Some(strings.Split(vs[0], ","))
}

// optBool returns the named query param parsed as a bool, absent when the
// param was not sent or does not parse.
func optBool(q url.Values, name string) query.Opt[bool] {
	v := q.Get(name)
	if v == "" {
		return query.None[bool]()
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return query.None[bool]()
	}
	return query.Some(b)
}

// optTimeSpan builds an inclusive time range from a pair of params. Each end
// is either an RFC 3339 timestamp or a bare date; bare dates cover the whole
// calendar day in the platform's timezone, so a `from` resolves to local
// midnight and a `to` to the last instant of that day. The range is absent
// unless both ends parse.
func optTimeSpan(q url.Values, fromName, toName string, loc *time.Location) query.Opt[query.Span[time.Time]] {
	from, ok := parseTimeBound(q.Get(fromName), loc, false)
	if !ok {
		return query.None[query.Span[time.Time]]()
	}
	to, ok := parseTimeBound(q.Get(toName), loc, true)
	if !ok {
		return query.None[query.Span[time.Time]]()
	}
	return query.Some(query.Span[time.Time]{From: from, To: to})
}

func parseTimeBound(v string, loc *time.Location, upper bool) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, true
	}
	day, err := time.ParseInLocation("2006-01-02", v, loc)
	if err != nil {
		return time.Time{}, false
	}
	if upper {
		return timeutil.EndOfDay(day, loc), true
	}
	return timeutil.MidnightOf(day, loc), true
}

// optIntSpan builds an inclusive integer range from a pair of params.
func optIntSpan(q url.Values, fromName, toName string) query.Opt[query.Span[int]] {
	if q.Get(fromName) == "" || q.Get(toName) == "" {
		return query.None[query.Span[int]]()
	}
	from, err := strconv.Atoi(q.Get(fromName))
	if err != nil {
		return query.None[query.Span[int]]()
	}
	to, err := strconv.Atoi(q.Get(toName))
	if err != nil {
		return query.None[query.Span[int]]()
	}
	return query.Some(query.Span[int]{From: from, To: to})
}

// actor returns the operator name propagated by the console frontend.
func actor(r *http.Request) string {
	if u := r.Header.Get("X-User-Name"); u != "" {
		return u
	}
	return "console"
}
