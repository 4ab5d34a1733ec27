package telemetry

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DisabledTelemetry(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Enabled = false

	tel, err := New(context.Background(), cfg)
	require.NoError(t, err)
	require.NotNil(t, tel)

	tracer := tel.Tracer("test")
	assert.NotNil(t, tracer)

	degraded, reason := tel.Degraded()
	assert.False(t, degraded)
	assert.Empty(t, reason)
}

func TestNew_NilConfig(t *testing.T) {
	tel, err := New(context.Background(), nil)
	require.NoError(t, err)
	require.NotNil(t, tel)
	assert.NotNil(t, tel.Tracer("test"))
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := &Config{
		Enabled:     true,
		ServiceName: "",
	}

	tel, err := New(context.Background(), cfg)
	require.Error(t, err)
	assert.Nil(t, tel)
	assert.Contains(t, err.Error(), "telemetry config")
}

func TestNew_EnabledExportsSpans(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Enabled = true

	tel, err := New(context.Background(), cfg)
	require.NoError(t, err)
	require.NotNil(t, tel)

	degraded, _ := tel.Degraded()
	require.False(t, degraded)

	_, span := tel.Tracer("test").Start(context.Background(), "test.span")
	span.End()

	assert.NoError(t, tel.Shutdown(context.Background()))
}

func TestTelemetry_NilSafe(t *testing.T) {
	var tel *Telemetry

	assert.NotPanics(t, func() {
		_ = tel.Tracer("test")
		_, _ = tel.Degraded()
		_ = tel.Shutdown(context.Background())
	})
}

func TestTelemetry_ShutdownDisabled(t *testing.T) {
	tel, err := New(context.Background(), NewDefaultConfig())
	require.NoError(t, err)
	assert.NoError(t, tel.Shutdown(context.Background()))
}

func TestNewSampler(t *testing.T) {
	tests := []struct {
		name  string
		ratio float64
		want  string
	}{
		{name: "full sampling", ratio: 1.0, want: "AlwaysOnSampler"},
		{name: "above one clamps to always", ratio: 2.5, want: "AlwaysOnSampler"},
		{name: "zero disables", ratio: 0, want: "AlwaysOffSampler"},
		{name: "negative disables", ratio: -0.5, want: "AlwaysOffSampler"},
		{name: "fractional ratio", ratio: 0.25, want: "TraceIDRatioBased"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc := newSampler(tt.ratio).Description()
			assert.True(t, strings.HasPrefix(desc, "ParentBased"), "sampler %q is not parent based", desc)
			assert.Contains(t, desc, tt.want)
		})
	}
}
