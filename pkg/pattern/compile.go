package pattern

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"go.uber.org/zap"
)

// CheckOptions controls template validation in Check. Use DefaultCheckOptions
// or RespCheckOptions rather than a zero value so the date requirement is
// always an explicit choice.
type CheckOptions struct {
	// Require lists tokens the template must reference.
	Require []string
	// RequireDateFields demands at least one DateTokens entry in the template.
	RequireDateFields bool
}

// DefaultCheckOptions validates waveform-style templates: home, station and
// component are mandatory and at least one date token must be present.
func DefaultCheckOptions() CheckOptions {
	return CheckOptions{
		Require:           []string{"home", "station", "component"},
		RequireDateFields: true,
	}
}

// RespCheckOptions validates instrument-response templates, which carry no
// dates and must name the response format instead.
func RespCheckOptions() CheckOptions {
	return CheckOptions{
		Require:           []string{"station", "component", "resptype"},
		RequireDateFields: false,
	}
}

// Compiled is an immutable compiled template. Later registry edits do not
// affect it.
type Compiled struct {
	template string
	expr     string
	re       *regexp.Regexp
}

// Template returns the template the pattern was compiled from.
func (c *Compiled) Template() string { return c.template }

// Expr returns the anchored regular expression the template compiled to.
func (c *Compiled) Expr() string { return c.expr }

// MatchPath matches a whole path against the pattern and returns the text
// captured by every named group. ok is false when the path does not match.
func (c *Compiled) MatchPath(path string) (fields map[string]string, ok bool) {
	m := c.re.FindStringSubmatch(path)
	if m == nil {
		return nil, false
	}
	fields = make(map[string]string)
	for i, name := range c.re.SubexpNames() {
		if i == 0 || name == "" {
			continue
		}
		fields[name] = m[i]
	}
	return fields, true
}

// Compile translates a template into an anchored pattern against the current
// vocabulary, leaving {home} as its generic fragment. No structural checks
// are applied; use Check for the full validation pipeline.
func (r *Registry) Compile(tmpl string) (*Compiled, error) {
	return r.compile(tmpl, "")
}

// compile walks the parsed template emitting quoted literals, field capture
// groups and wildcard runs. When root is non-empty, {home} is bound to the
// quoted root path instead of its capture group.
func (r *Registry) compile(tmpl, root string) (*Compiled, error) {
	var b strings.Builder
	b.WriteString(`\A`)
	var unknown []string
	for _, s := range parseTemplate(tmpl) {
		switch s.kind {
		case segLiteral:
			b.WriteString(regexp.QuoteMeta(s.text))
		case segWordRun:
			b.WriteString(`[^. _/]*`)
		case segAnyRun:
			b.WriteString(`.*`)
		case segField:
			if s.text == "home" && root != "" {
				b.WriteString(regexp.QuoteMeta(root))
				continue
			}
			f, ok := r.lookup(s.text)
			if !ok {
				unknown = append(unknown, s.text)
				continue
			}
			fmt.Fprintf(&b, "(?P<%s>%s)", f.Group, f.Fragment)
		}
	}
	b.WriteString(`\z`)
	if len(unknown) > 0 {
		return nil, &ConfigError{Op: "compile", Tokens: dedupe(unknown), Err: ErrUnknownField}
	}
	expr := b.String()
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, &ConfigError{Op: "compile", Err: fmt.Errorf("%w: %v", ErrBadFragment, err)}
	}
	return &Compiled{template: tmpl, expr: expr, re: re}, nil
}

// Check validates a template and compiles it with {home} bound to root. The
// pipeline rejects unknown fields, duplicate references, missing required
// fields and, when demanded, the absence of date tokens. root is cleaned
// before binding; a root that is not an existing directory is reported but
// not fatal, walking it will simply find nothing.
func Check(root, tmpl string, reg *Registry, opts CheckOptions) (*Compiled, error) {
	tokens := fieldTokens(tmpl)

	var unknown []string
	for _, t := range dedupe(tokens) {
		if !reg.Has(t) {
			unknown = append(unknown, t)
		}
	}
	if len(unknown) > 0 {
		return nil, &ConfigError{Op: "check", Tokens: unknown, Err: ErrUnknownField}
	}

	if dups := duplicates(tokens); len(dups) > 0 {
		return nil, &ConfigError{Op: "check", Tokens: dups, Err: ErrDuplicateField}
	}

	// Distinct tokens can still collide on their capture group, as YYYY
	// and YY both capture the year.
	byGroup := make(map[string]string)
	var clash []string
	for _, t := range dedupe(tokens) {
		f, _ := reg.lookup(t)
		if first, ok := byGroup[f.Group]; ok {
			if !slices.Contains(clash, first) {
				clash = append(clash, first)
			}
			clash = append(clash, t)
			continue
		}
		byGroup[f.Group] = t
	}
	if len(clash) > 0 {
		return nil, &ConfigError{Op: "check", Tokens: clash, Err: ErrDuplicateField}
	}

	var missing []string
	for _, want := range opts.Require {
		if !slices.Contains(tokens, want) {
			missing = append(missing, want)
		}
	}
	if len(missing) > 0 {
		return nil, &ConfigError{Op: "check", Tokens: missing, Err: ErrMissingField}
	}

	if opts.RequireDateFields && !hasAny(tokens, DateTokens) {
		return nil, &ConfigError{Op: "check", Err: ErrNoDateFields}
	}

	root = filepath.Clean(root)
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		reg.log.Error("catalog root is not an existing directory",
			zap.String("root", root))
	}
	return reg.compile(tmpl, root)
}

func hasAny(tokens, wanted []string) bool {
	for _, w := range wanted {
		if slices.Contains(tokens, w) {
			return true
		}
	}
	return false
}
