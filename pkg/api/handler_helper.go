package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dd0wney/cluso-chaingraph/pkg/source"
	"github.com/dd0wney/cluso-chaingraph/pkg/validation"
)

// queryDecoder reads query parameters into a query struct. The first
// parse failure sticks; later calls are no-ops. Absent or empty
// parameters leave the destination at its default.
type queryDecoder struct {
	values url.Values
	err    error
}

func newQueryDecoder(r *http.Request) *queryDecoder {
	return &queryDecoder{values: r.URL.Query()}
}

func (d *queryDecoder) lookup(names ...string) (string, string, bool) {
	for _, name := range names {
		if v := strings.TrimSpace(d.values.Get(name)); v != "" {
			return name, v, true
		}
	}
	return "", "", false
}

// Bool accepts true/false, 1/0, yes/no and on/off
func (d *queryDecoder) Bool(name string, dst *bool) *queryDecoder {
	if d.err != nil {
		return d
	}
	_, v, ok := d.lookup(name)
	if !ok {
		return d
	}
	switch strings.ToLower(v) {
	case "true", "1", "yes", "on", "t", "y":
		*dst = true
	case "false", "0", "no", "off", "f", "n":
		*dst = false
	default:
		d.err = fmt.Errorf("%s: invalid boolean %q", name, v)
	}
	return d
}

// Int reads the first of name and its aliases that is present
func (d *queryDecoder) Int(dst *int, name string, aliases ...string) *queryDecoder {
	if d.err != nil {
		return d
	}
	key, v, ok := d.lookup(append([]string{name}, aliases...)...)
	if !ok {
		return d
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		d.err = fmt.Errorf("%s: invalid integer %q", key, v)
		return d
	}
	*dst = n
	return d
}

func (d *queryDecoder) Float(name string, dst *float64) *queryDecoder {
	if d.err != nil {
		return d
	}
	_, v, ok := d.lookup(name)
	if !ok {
		return d
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		d.err = fmt.Errorf("%s: invalid number %q", name, v)
		return d
	}
	*dst = f
	return d
}

func (d *queryDecoder) String(name string, dst *string) *queryDecoder {
	if d.err != nil {
		return d
	}
	if _, v, ok := d.lookup(name); ok {
		*dst = v
	}
	return d
}

// Lower reads a case-insensitive name
func (d *queryDecoder) Lower(name string, dst *string) *queryDecoder {
	if d.err != nil {
		return d
	}
	if _, v, ok := d.lookup(name); ok {
		*dst = strings.ToLower(v)
	}
	return d
}

// Time accepts RFC 3339 or Unix seconds
func (d *queryDecoder) Time(name string, dst **time.Time) *queryDecoder {
	if d.err != nil {
		return d
	}
	_, v, ok := d.lookup(name)
	if !ok {
		return d
	}
	if secs, err := strconv.ParseInt(v, 10, 64); err == nil {
		t := time.Unix(secs, 0).UTC()
		*dst = &t
		return d
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		d.err = fmt.Errorf("%s: invalid time %q, want RFC 3339 or Unix seconds", name, v)
		return d
	}
	t = t.UTC()
	*dst = &t
	return d
}

// Strings collects repeated and comma-separated values
func (d *queryDecoder) Strings(name string, dst *[]string) *queryDecoder {
	if d.err != nil {
		return d
	}
	var out []string
	for _, raw := range d.values[name] {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	if len(out) > 0 {
		*dst = out
	}
	return d
}

// Graph reads the parameters every analysis endpoint shares
func (d *queryDecoder) Graph(q *validation.GraphQuery) *queryDecoder {
	return d.Bool("directed", &q.Directed).
		Int(&q.LinkLimit, "link_limit", "limit").
		Time("start", &q.Start).
		Time("end", &q.End).
		String("chain", &q.Chain).
		Float("min_value", &q.MinValue).
		Strings("address", &q.Addresses)
}

// Validate returns the first parse error, or the result of validating q
func (d *queryDecoder) Validate(q any) error {
	if d.err != nil {
		return d.err
	}
	return validation.ValidateQuery(q)
}

// sourceQuery converts the shared parameters to a snapshot query
func sourceQuery(q validation.GraphQuery) source.Query {
	return source.Query{
		Limit:     q.LinkLimit,
		Start:     q.Start,
		End:       q.End,
		Chain:     q.Chain,
		MinValue:  q.MinValue,
		Addresses: q.Addresses,
	}
}
