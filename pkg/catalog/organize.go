package catalog

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
)

// OutputMode selects what organized leaves hold.
type OutputMode string

const (
	// OutputRecords keeps full records at the leaves.
	OutputRecords OutputMode = "dict"
	// OutputPaths keeps only file paths at the leaves.
	OutputPaths OutputMode = "path"
)

// Group is one partition of records sharing label values.
type Group struct {
	Key     string   // label values joined with "/"
	Values  []string // one value per grouping label, in label order
	Records []*Record
}

// Grouping is an ordered set of groups produced by GroupBy.
type Grouping struct {
	Labels []string
	Groups []Group
}

// Get returns the group with the given key.
func (g *Grouping) Get(key string) (Group, bool) {
	for _, grp := range g.Groups {
		if grp.Key == key {
			return grp, true
		}
	}
	return Group{}, false
}

// GroupBy partitions records by their values at labels, keeping first-seen
// order. sortLabels, a subset of labels, reorders the partitions by those
// labels' values. Records missing a label are skipped with a warning.
func GroupBy(records []*Record, labels, sortLabels []string, log *zap.Logger) (*Grouping, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if len(labels) == 0 {
		return nil, fmt.Errorf("group: no labels given")
	}
	sortIdx := make([]int, 0, len(sortLabels))
	for _, sl := range sortLabels {
		i := slices.Index(labels, sl)
		if i < 0 {
			return nil, fmt.Errorf("group: sort label %q is not a grouping label", sl)
		}
		sortIdx = append(sortIdx, i)
	}

	g := &Grouping{Labels: slices.Clone(labels)}
	index := make(map[string]int)
	for _, rec := range records {
		values, ok := labelValues(rec, labels, log)
		if !ok {
			continue
		}
		key := strings.Join(values, "/")
		i, seen := index[key]
		if !seen {
			g.Groups = append(g.Groups, Group{Key: key, Values: values})
			i = len(g.Groups) - 1
			index[key] = i
		}
		g.Groups[i].Records = append(g.Groups[i].Records, rec)
	}

	if len(sortIdx) > 0 {
		sort.SliceStable(g.Groups, func(a, b int) bool {
			ga, gb := g.Groups[a], g.Groups[b]
			for _, i := range sortIdx {
				if ga.Values[i] != gb.Values[i] {
					return ga.Values[i] < gb.Values[i]
				}
			}
			return false
		})
	}
	return g, nil
}

// VirtualArray is a nested view of records organized level by level. Every
// non-leaf value is another VirtualArray; leaves hold []*Record or []string
// depending on the output mode.
type VirtualArray map[string]any

// OrganizeBy nests records under one level per label in order. Records
// missing a label are skipped with a warning; an unknown output mode is
// reported and degrades to OutputRecords.
func OrganizeBy(records []*Record, order []string, mode OutputMode, log *zap.Logger) (VirtualArray, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if len(order) == 0 {
		return nil, fmt.Errorf("organize: no labels given")
	}
	if mode != OutputRecords && mode != OutputPaths {
		log.Error("unknown output mode, defaulting to records",
			zap.String("mode", string(mode)))
		mode = OutputRecords
	}

	root := make(VirtualArray)
	for _, rec := range records {
		values, ok := labelValues(rec, order, log)
		if !ok {
			continue
		}
		level := root
		for _, v := range values[:len(values)-1] {
			next, ok := level[v].(VirtualArray)
			if !ok {
				next = make(VirtualArray)
				level[v] = next
			}
			level = next
		}
		leaf := values[len(values)-1]
		if mode == OutputPaths {
			paths, _ := level[leaf].([]string)
			level[leaf] = append(paths, rec.Path)
			continue
		}
		recs, _ := level[leaf].([]*Record)
		level[leaf] = append(recs, rec)
	}
	return root, nil
}

// Render returns a plain nested map ready for encoding, with record leaves
// flattened via AsMap.
func (v VirtualArray) Render() map[string]any {
	out := make(map[string]any, len(v))
	for k, val := range v {
		switch t := val.(type) {
		case VirtualArray:
			out[k] = t.Render()
		case []*Record:
			ms := make([]map[string]any, len(t))
			for i, r := range t {
				ms[i] = r.AsMap()
			}
			out[k] = ms
		default:
			out[k] = val
		}
	}
	return out
}

// labelValues renders the record's value at every label, or ok=false when
// one is missing.
func labelValues(rec *Record, labels []string, log *zap.Logger) ([]string, bool) {
	values := make([]string, len(labels))
	for i, label := range labels {
		v, ok := rec.Lookup(label)
		if !ok {
			log.Warn("record missing grouping label, skipped",
				zap.String("label", label), zap.String("path", rec.Path))
			return nil, false
		}
		values[i] = formatValue(v)
	}
	return values, true
}

// formatValue renders a field value as a map key.
func formatValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case time.Time:
		return t.Format(time.RFC3339)
	default:
		return fmt.Sprint(t)
	}
}
