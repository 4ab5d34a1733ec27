package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/seistack/seiscat/internal/logging"
)

func TestDefaultFields(t *testing.T) {
	fields := DefaultFields()
	require.Len(t, fields, 26)

	byToken := make(map[string]Field, len(fields))
	for _, f := range fields {
		byToken[f.Token] = f
	}

	assert.Equal(t, `\d{4}`, byToken["YYYY"].Fragment)
	assert.Equal(t, "year", byToken["YYYY"].Group)
	assert.Equal(t, "year", byToken["YY"].Group, "YY captures the same group as YYYY")
	assert.Equal(t, "jday", byToken["JJJ"].Group)
	assert.Equal(t, `[A-Za-z0-9/_-]+`, byToken["home"].Fragment)
	assert.Equal(t, `\w+`, byToken["station"].Fragment)
	assert.Contains(t, byToken, "label0")
	assert.Contains(t, byToken, "label9")
}

func TestRespFields(t *testing.T) {
	fields := RespFields()
	require.Len(t, fields, 3)
	assert.Equal(t, "resptype", fields[0].Token)
	assert.Contains(t, fields[0].Fragment, "StationXML")
}

func TestRegistry_AddNew(t *testing.T) {
	r := NewRegistry(DefaultFields(), nil)

	require.NoError(t, r.Add("trace", `\d+`, false))
	assert.True(t, r.Has("trace"))

	fields := r.Fields()
	last := fields[len(fields)-1]
	assert.Equal(t, "trace", last.Token)
	assert.Equal(t, "trace", last.Group, "custom fields capture under their own name")
	assert.Equal(t, `\d+`, last.Fragment)
}

func TestRegistry_AddExistingWarns(t *testing.T) {
	logs := logging.NewTestLogger()
	r := NewRegistry(DefaultFields(), logs.Logger)

	require.NoError(t, r.Add("station", `[A-Z]+`, false))
	logs.AssertLogged(t, zapcore.WarnLevel, "field already registered")

	f, ok := r.lookup("station")
	require.True(t, ok)
	assert.Equal(t, `\w+`, f.Fragment, "existing registration wins without overwrite")
}

func TestRegistry_AddOverwrite(t *testing.T) {
	r := NewRegistry(DefaultFields(), nil)

	require.NoError(t, r.Add("station", `[A-Z]{3}`, true))

	f, ok := r.lookup("station")
	require.True(t, ok)
	assert.Equal(t, `[A-Z]{3}`, f.Fragment)

	// Overwriting keeps the original position instead of moving the
	// field to the end.
	assert.Equal(t, "station", r.Fields()[10].Token)
}

func TestRegistry_AddBadFragment(t *testing.T) {
	r := NewRegistry(DefaultFields(), nil)

	err := r.Add("broken", `[`, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadFragment)
	assert.False(t, r.Has("broken"))
}

func TestRegistry_Remove(t *testing.T) {
	r := NewRegistry(DefaultFields(), nil)

	r.Remove("station")
	assert.False(t, r.Has("station"))

	// The index must stay consistent after the removal shifts entries.
	f, ok := r.lookup("component")
	require.True(t, ok)
	assert.Equal(t, `\w+`, f.Fragment)
	assert.Equal(t, "component", r.Fields()[10].Token)
}

func TestRegistry_RemoveMissingWarns(t *testing.T) {
	logs := logging.NewTestLogger()
	r := NewRegistry(DefaultFields(), logs.Logger)

	r.Remove("no_such_field")
	logs.AssertLogged(t, zapcore.WarnLevel, "field not registered")
}

func TestNewRegistry_DuplicateBase(t *testing.T) {
	base := []Field{
		{"station", "station", `\w+`},
		{"station", "station", `[A-Z]+`},
	}
	r := NewRegistry(base, nil)

	fields := r.Fields()
	require.Len(t, fields, 1)
	assert.Equal(t, `[A-Z]+`, fields[0].Fragment, "later base entries replace earlier ones")
}
