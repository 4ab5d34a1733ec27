package pattern

import "regexp"

// tokenRe matches {name} field references plus the {?} and {*} wildcards.
var tokenRe = regexp.MustCompile(`\{(\w+)\}|\{([?*])\}`)

type segKind int

const (
	segLiteral segKind = iota
	segField
	segWordRun // {?}: any run free of separator characters
	segAnyRun  // {*}: any run at all
)

// segment is one piece of a parsed template: literal text or a single
// substitution site.
type segment struct {
	kind segKind
	text string // literal text, or the token name for segField
}

// parseTemplate splits a template into literal and substitution segments.
// Anything that is not a well-formed {name}, {?} or {*} reference stays
// literal, stray braces included.
func parseTemplate(tmpl string) []segment {
	var segs []segment
	last := 0
	for _, m := range tokenRe.FindAllStringSubmatchIndex(tmpl, -1) {
		if m[0] > last {
			segs = append(segs, segment{kind: segLiteral, text: tmpl[last:m[0]]})
		}
		switch {
		case m[2] >= 0:
			segs = append(segs, segment{kind: segField, text: tmpl[m[2]:m[3]]})
		case tmpl[m[4]:m[5]] == "?":
			segs = append(segs, segment{kind: segWordRun})
		default:
			segs = append(segs, segment{kind: segAnyRun})
		}
		last = m[1]
	}
	if last < len(tmpl) {
		segs = append(segs, segment{kind: segLiteral, text: tmpl[last:]})
	}
	return segs
}

// fieldTokens returns the field tokens referenced by tmpl in order of
// appearance, wildcards excluded and repeats kept.
func fieldTokens(tmpl string) []string {
	var tokens []string
	for _, s := range parseTemplate(tmpl) {
		if s.kind == segField {
			tokens = append(tokens, s.text)
		}
	}
	return tokens
}

func dedupe(ss []string) []string {
	seen := make(map[string]struct{}, len(ss))
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func duplicates(ss []string) []string {
	seen := make(map[string]int, len(ss))
	var dups []string
	for _, s := range ss {
		seen[s]++
		if seen[s] == 2 {
			dups = append(dups, s)
		}
	}
	return dups
}
