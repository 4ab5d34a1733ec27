package criteria

import (
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// Mode selects how a criterion interprets its values.
type Mode string

const (
	// ModeList admits values equal to any listed value.
	ModeList Mode = "list"
	// ModeRange admits values inside any inclusive start/end pair.
	ModeRange Mode = "range"
)

// Data type names accepted by Spec.DataType. An empty DataType skips the
// type guard entirely.
const (
	TypeString   = "str"
	TypeInt      = "int"
	TypeFloat    = "float"
	TypeNumeric  = "numeric"
	TypeDatetime = "datetime"
)

// Spec declares one field's predicate.
type Spec struct {
	Mode     Mode
	DataType string // optional: str, int, float, numeric or datetime
	Values   []any  // list: allowed values; range: start/end pairs in order
}

// Set maps field names to their predicates. Every entry must admit a subject
// for it to pass the whole set.
type Set map[string]Spec

// Subject is anything field values can be looked up on.
type Subject interface {
	// Lookup returns the value of a named field and whether it is present.
	Lookup(name string) (any, bool)
}

type listCriterion struct {
	field   string
	dtype   string
	allowed []any
}

type rangeCriterion struct {
	field string
	dtype string
	pairs [][2]any
}

// Filter is a parsed, immutable criteria set.
type Filter struct {
	lists  []listCriterion
	ranges []rangeCriterion
	log    *zap.Logger
}

// NewFilter parses a criteria set. Range values pair up in the order given;
// a trailing unpaired value is dropped with a warning and a range left with
// no pairs is not stored. Criteria with an unknown mode are skipped with a
// warning rather than failing the whole set. Fields are processed in sorted
// order so diagnostics are deterministic.
func NewFilter(set Set, log *zap.Logger) (*Filter, error) {
	if log == nil {
		log = zap.NewNop()
	}
	f := &Filter{log: log}

	fields := make([]string, 0, len(set))
	for name := range set {
		fields = append(fields, name)
	}
	sort.Strings(fields)

	for _, name := range fields {
		spec := set[name]
		if spec.Mode == "" {
			return nil, fmt.Errorf("criterion %q: missing mode", name)
		}
		if spec.Values == nil {
			return nil, fmt.Errorf("criterion %q: missing values", name)
		}
		switch spec.Mode {
		case ModeList:
			allowed := make([]any, len(spec.Values))
			copy(allowed, spec.Values)
			f.lists = append(f.lists, listCriterion{
				field:   name,
				dtype:   spec.DataType,
				allowed: allowed,
			})
		case ModeRange:
			vals := spec.Values
			if len(vals)%2 != 0 {
				log.Warn("odd number of range values, dropping the last",
					zap.String("field", name),
					zap.Int("values", len(vals)))
				vals = vals[:len(vals)-1]
			}
			if len(vals) == 0 {
				continue
			}
			rc := rangeCriterion{field: name, dtype: spec.DataType}
			for i := 0; i < len(vals); i += 2 {
				rc.pairs = append(rc.pairs, [2]any{vals[i], vals[i+1]})
			}
			f.ranges = append(f.ranges, rc)
		default:
			log.Warn("unknown criterion mode, skipped",
				zap.String("field", name),
				zap.String("mode", string(spec.Mode)))
		}
	}
	return f, nil
}

// Empty reports whether the filter holds no criteria at all. An empty filter
// admits every subject.
func (f *Filter) Empty() bool {
	return len(f.lists) == 0 && len(f.ranges) == 0
}

// Describe logs the parsed criteria at debug level.
func (f *Filter) Describe() {
	for _, c := range f.lists {
		f.log.Debug("list criterion",
			zap.String("field", c.field),
			zap.String("data_type", c.dtype),
			zap.Any("allowed", c.allowed))
	}
	for _, c := range f.ranges {
		f.log.Debug("range criterion",
			zap.String("field", c.field),
			zap.String("data_type", c.dtype),
			zap.Any("pairs", c.pairs))
	}
}
