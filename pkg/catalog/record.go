package catalog

import "time"

// Reserved field names. Lookup serves the matched path and the derived
// timestamp under these keys, shadowing extracted fields with the same
// capture group name.
const (
	FieldPath = "path"
	FieldTime = "time"
)

// Record is one cataloged file: the matched path, the field values the
// pattern extracted from it, any caller-attached metadata and, when
// derivable, the calendar timestamp.
type Record struct {
	Path    string
	Time    time.Time
	HasTime bool
	Fields  map[string]any
}

// Lookup returns a field value by name. "path" always resolves to the file
// path and "time" to the derived timestamp when one exists; other names hit
// the extracted and attached fields.
func (r *Record) Lookup(name string) (any, bool) {
	switch name {
	case FieldPath:
		return r.Path, true
	case FieldTime:
		if r.HasTime {
			return r.Time, true
		}
	}
	v, ok := r.Fields[name]
	return v, ok
}

// SetField attaches or replaces a named value, letting callers enrich
// records with data the path cannot carry (file sizes, checksums) before
// filtering or grouping.
func (r *Record) SetField(name string, v any) {
	if r.Fields == nil {
		r.Fields = make(map[string]any)
	}
	r.Fields[name] = v
}

// AsMap flattens the record for encoding: extracted and attached fields
// plus "path" and, when present, "time".
func (r *Record) AsMap() map[string]any {
	out := make(map[string]any, len(r.Fields)+2)
	for k, v := range r.Fields {
		out[k] = v
	}
	out[FieldPath] = r.Path
	if r.HasTime {
		out[FieldTime] = r.Time
	}
	return out
}
