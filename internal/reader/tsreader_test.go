package reader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strider-ts/strider/internal/core"
)

const sampleTS = `#A tiny dataset
@problemName tiny
@timeStamps false
@univariate true
@classLabel true a b
@data
1.0,2.0,3.0:a
4.0,5.0,6.0:b
7.5,8.5,9.5:a
`

const sampleMultivariateTS = `@problemName tinymv
@classLabel true x y
@data
1,2,3:10,20,30:x
4,5,6:40,50,60:y
`

func writeSample(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.ts")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadTS(t *testing.T) {
	ds, err := LoadTS(writeSample(t, sampleTS), "train")
	require.NoError(t, err)
	assert.Equal(t, 3, ds.Size())
	assert.Equal(t, 1, ds.Header().Dims)
	assert.Equal(t, 3, ds.Header().LengthMax)
	assert.Equal(t, []core.Label{"a", "b"}, ds.Header().Labels)
	assert.Equal(t, []float64{1, 2, 3}, ds.At(0).Values())
	l, ok := ds.At(1).Label()
	require.True(t, ok)
	assert.Equal(t, core.Label("b"), l)
}

func TestLoadTSMultivariate(t *testing.T) {
	ds, err := LoadTS(writeSample(t, sampleMultivariateTS), "train")
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Size())
	assert.Equal(t, 2, ds.Header().Dims)
	// Row-major: time point i holds one value per dimension.
	assert.Equal(t, []float64{1, 10, 2, 20, 3, 30}, ds.At(0).Values())
}

func TestLoadTSErrors(t *testing.T) {
	_, err := LoadTS("/nonexistent/file.ts", "train")
	assert.Error(t, err)

	_, err = LoadTS(writeSample(t, "@data\n1,2,notanumber:a\n"), "train")
	assert.Error(t, err)

	_, err = LoadTS(writeSample(t, "@classLabel true a\n@data\n"), "train")
	assert.Error(t, err)
}

func TestLoadUCRLayout(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "Tiny"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Tiny", "Tiny_TRAIN.ts"), []byte(sampleTS), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Tiny", "Tiny_TEST.ts"), []byte(sampleTS), 0o644))

	train, test, err := LoadUCR(dir, "Tiny")
	require.NoError(t, err)
	assert.Equal(t, 3, train.Size())
	assert.Equal(t, 3, test.Size())
	assert.Equal(t, "train", train.Name())
	assert.Equal(t, "test", test.Name())
}
