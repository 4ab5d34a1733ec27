package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecord_Lookup(t *testing.T) {
	when := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	rec := &Record{
		Path:    "/data/2023/ABC_BHZ.sac",
		Time:    when,
		HasTime: true,
		Fields:  map[string]any{"station": "ABC", "component": "BHZ"},
	}

	v, ok := rec.Lookup("station")
	assert.True(t, ok)
	assert.Equal(t, "ABC", v)

	v, ok = rec.Lookup(FieldPath)
	assert.True(t, ok)
	assert.Equal(t, rec.Path, v)

	v, ok = rec.Lookup(FieldTime)
	assert.True(t, ok)
	assert.Equal(t, when, v)

	_, ok = rec.Lookup("network")
	assert.False(t, ok)
}

func TestRecord_LookupTimeAbsent(t *testing.T) {
	rec := &Record{Path: "/p", Fields: map[string]any{"time": "literal"}}

	// With no derived timestamp the extracted field shows through.
	v, ok := rec.Lookup(FieldTime)
	assert.True(t, ok)
	assert.Equal(t, "literal", v)

	rec = &Record{Path: "/p"}
	_, ok = rec.Lookup(FieldTime)
	assert.False(t, ok)
}

func TestRecord_SetField(t *testing.T) {
	rec := &Record{Path: "/p"}
	rec.SetField("size", int64(2048))

	v, ok := rec.Lookup("size")
	assert.True(t, ok)
	assert.Equal(t, int64(2048), v)

	rec.SetField("size", int64(4096))
	v, _ = rec.Lookup("size")
	assert.Equal(t, int64(4096), v)
}

func TestRecord_AsMap(t *testing.T) {
	when := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	rec := &Record{
		Path:    "/data/x",
		Time:    when,
		HasTime: true,
		Fields:  map[string]any{"station": "ABC"},
	}

	m := rec.AsMap()
	assert.Equal(t, "/data/x", m["path"])
	assert.Equal(t, when, m["time"])
	assert.Equal(t, "ABC", m["station"])

	rec.HasTime = false
	m = rec.AsMap()
	_, ok := m["time"]
	assert.False(t, ok)
}
