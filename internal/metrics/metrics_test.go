package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_Counts(t *testing.T) {
	r := NewRecorder()

	r.RecordWalk(10)
	r.RecordMatch(7, 0.05)
	r.RecordDeriveFailure()
	r.RecordFilter(4, 3, 0.01)

	assert.Equal(t, 10.0, testutil.ToFloat64(r.FilesWalkedTotal))
	assert.Equal(t, 7.0, testutil.ToFloat64(r.RecordsMatchedTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.TimeDeriveFailuresTotal))
	assert.Equal(t, 4.0, testutil.ToFloat64(r.RecordsFilteredTotal.WithLabelValues("pass")))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.RecordsFilteredTotal.WithLabelValues("fail")))
}

func TestRecorder_NilIsSafe(t *testing.T) {
	var r *Recorder

	r.RecordWalk(1)
	r.RecordMatch(1, 0)
	r.RecordDeriveFailure()
	r.RecordFilter(1, 0, 0)
	assert.NoError(t, r.WriteTextfile(""))
}

func TestRecorder_Independent(t *testing.T) {
	a, b := NewRecorder(), NewRecorder()

	a.RecordWalk(5)

	assert.Equal(t, 5.0, testutil.ToFloat64(a.FilesWalkedTotal))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.FilesWalkedTotal))
}

func TestRecorder_WriteTextfile(t *testing.T) {
	r := NewRecorder()
	r.RecordWalk(3)

	path := filepath.Join(t.TempDir(), "seiscat.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "seiscat_files_walked_total 3")
}
