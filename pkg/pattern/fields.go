package pattern

import (
	"fmt"
	"regexp"

	"go.uber.org/zap"
)

// Field binds a template token to a capture group name and the regexp
// fragment that matches its values. Several tokens may share a group name
// (YYYY and YY both capture as "year") but only one of them can appear in a
// given template.
type Field struct {
	Token    string // token as written in templates, e.g. "YYYY"
	Group    string // capture group name, e.g. "year"
	Fragment string // regexp fragment without the enclosing group, e.g. `\d{4}`
}

// DateTokens are the tokens that satisfy the date requirement in Check.
// Calendar (YYYY/MM/DD) and ordinal (YYYY/JJJ) styles both count.
var DateTokens = []string{"YYYY", "YY", "MM", "DD", "JJJ"}

// DefaultFields returns the built-in vocabulary in registration order.
func DefaultFields() []Field {
	return []Field{
		{"YYYY", "year", `\d{4}`},
		{"YY", "year", `\d{2}`},
		{"MM", "month", `\d{2}`},
		{"DD", "day", `\d{2}`},
		{"JJJ", "jday", `\d{3}`},
		{"HH", "hour", `\d{2}`},
		{"MI", "minute", `\d{2}`},
		{"home", "home", `[A-Za-z0-9/_-]+`},
		{"network", "network", `\w+`},
		{"event", "event", `\w+`},
		{"station", "station", `\w+`},
		{"component", "component", `\w+`},
		{"sampleF", "sampleF", `\w+`},
		{"quality", "quality", `\w+`},
		{"locid", "locid", `\w+`},
		{"suffix", "suffix", `\w+`},
		{"label0", "label0", `\w+`},
		{"label1", "label1", `\w+`},
		{"label2", "label2", `\w+`},
		{"label3", "label3", `\w+`},
		{"label4", "label4", `\w+`},
		{"label5", "label5", `\w+`},
		{"label6", "label6", `\w+`},
		{"label7", "label7", `\w+`},
		{"label8", "label8", `\w+`},
		{"label9", "label9", `\w+`},
	}
}

// RespFields returns the extra vocabulary for instrument-response catalogs:
// the response format, a response version and a two-digit location code.
func RespFields() []Field {
	return []Field{
		{"resptype", "resptype", `(RESP|StationXML|PAZ|FAP)`},
		{"version", "version", `v\d{2}`},
		{"location", "location", `\d{2}`},
	}
}

// Registry is an ordered token vocabulary. Registration order is preserved
// so custom fields land after the built-ins exactly as callers added them.
type Registry struct {
	fields  []Field
	byToken map[string]int
	log     *zap.Logger
}

// NewRegistry builds a registry seeded with a copy of base. A nil logger
// disables diagnostics.
func NewRegistry(base []Field, log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Registry{
		fields:  make([]Field, 0, len(base)),
		byToken: make(map[string]int, len(base)),
		log:     log,
	}
	for _, f := range base {
		if i, ok := r.byToken[f.Token]; ok {
			r.fields[i] = f
			continue
		}
		r.fields = append(r.fields, f)
		r.byToken[f.Token] = len(r.fields) - 1
	}
	return r
}

// Add registers a custom field whose capture group is named after the token.
// Adding an existing token without overwrite keeps the original registration
// and warns. The fragment is validated eagerly so a broken pattern surfaces
// at registration rather than at first compile.
func (r *Registry) Add(token, fragment string, overwrite bool) error {
	if _, ok := r.byToken[token]; ok && !overwrite {
		r.log.Warn("field already registered, not overwritten",
			zap.String("field", token))
		return nil
	}
	if _, err := regexp.Compile(fmt.Sprintf("(?P<%s>%s)", token, fragment)); err != nil {
		return &ConfigError{
			Op:     "add field",
			Tokens: []string{token},
			Err:    fmt.Errorf("%w: %v", ErrBadFragment, err),
		}
	}
	f := Field{Token: token, Group: token, Fragment: fragment}
	if i, ok := r.byToken[token]; ok {
		r.fields[i] = f
		return nil
	}
	r.fields = append(r.fields, f)
	r.byToken[token] = len(r.fields) - 1
	return nil
}

// Remove drops a token from the vocabulary. Removing an unknown token is a
// no-op with a warning.
func (r *Registry) Remove(token string) {
	i, ok := r.byToken[token]
	if !ok {
		r.log.Warn("field not registered, nothing to remove",
			zap.String("field", token))
		return
	}
	r.fields = append(r.fields[:i], r.fields[i+1:]...)
	delete(r.byToken, token)
	for t, j := range r.byToken {
		if j > i {
			r.byToken[t] = j - 1
		}
	}
}

// Fields returns a copy of the vocabulary in registration order.
func (r *Registry) Fields() []Field {
	out := make([]Field, len(r.fields))
	copy(out, r.fields)
	return out
}

// Has reports whether a token is registered.
func (r *Registry) Has(token string) bool {
	_, ok := r.byToken[token]
	return ok
}

func (r *Registry) lookup(token string) (Field, bool) {
	i, ok := r.byToken[token]
	if !ok {
		return Field{}, false
	}
	return r.fields[i], true
}
