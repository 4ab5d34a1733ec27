package config

import (
	"fmt"
	"time"

	"github.com/seistack/seiscat/pkg/criteria"
)

// timeLayouts are the accepted datetime spellings, tried in order. All are
// interpreted as UTC, matching the timestamps derived from path fields.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// CriteriaSet converts the criteria section into an engine criteria set.
// Datetime values written as strings are parsed here; values the YAML
// parser already resolved into time.Time pass through unchanged.
func (cc *CatalogConfig) CriteriaSet() (criteria.Set, error) {
	if len(cc.Criteria) == 0 {
		return nil, nil
	}
	set := make(criteria.Set, len(cc.Criteria))
	for field, crit := range cc.Criteria {
		values := make([]any, len(crit.Value))
		copy(values, crit.Value)
		if crit.DataType == criteria.TypeDatetime {
			for i, v := range values {
				s, ok := v.(string)
				if !ok {
					continue
				}
				ts, err := parseTime(s)
				if err != nil {
					return nil, fmt.Errorf("criterion %q: %w", field, err)
				}
				values[i] = ts
			}
		}
		set[field] = criteria.Spec{
			Mode:     criteria.Mode(crit.Type),
			DataType: crit.DataType,
			Values:   values,
		}
	}
	return set, nil
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse %q as datetime", s)
}
