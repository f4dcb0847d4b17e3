package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	serrors "github.com/strider-ts/strider/internal/errors"
	"github.com/strider-ts/strider/internal/logging"
)

func TestValidateConfig(t *testing.T) {
	cfg := Config{LogFormat: "json", LogLevel: "info"}
	assert.NoError(t, ValidateConfig(&cfg))

	bad := cfg
	bad.LogFormat = "xml"
	assert.ErrorIs(t, ValidateConfig(&bad), ErrInvalidLogFormat)

	bad = cfg
	bad.LogLevel = "loud"
	assert.ErrorIs(t, ValidateConfig(&bad), ErrInvalidLogLevel)

	bad = cfg
	bad.NbThreads = -1
	assert.ErrorIs(t, ValidateConfig(&bad), ErrInvalidThreads)
}

func TestSplitFamily(t *testing.T) {
	family, cfe, err := splitFamily("dtw:2")
	require.NoError(t, err)
	assert.Equal(t, "dtw", family)
	assert.Equal(t, 2.0, cfe)

	family, cfe, err = splitFamily("msm")
	require.NoError(t, err)
	assert.Equal(t, "msm", family)
	assert.Equal(t, 1.0, cfe)

	_, _, err = splitFamily("dtw:2:3")
	assert.Error(t, err)
	_, _, err = splitFamily("dtw:notafloat")
	assert.Error(t, err)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 1, exitCode(serrors.NewValidationError("op", "bad")))
	assert.Equal(t, 2, exitCode(serrors.NewConfigurationError("op", "unknown")))
	assert.Equal(t, 3, exitCode(serrors.NewIOError("op", "missing")))
	assert.Equal(t, 1, exitCode(serrors.NewComputationError("op", "panic")))
}

const tinyTS = `@problemName tiny
@classLabel true a b
@data
1.0,1.1,1.2,1.0:a
1.1,1.0,1.2,1.1:a
5.0,5.1,5.2,5.0:b
5.1,5.0,5.2,5.1:b
`

func writeTinyUCR(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "Tiny"), 0o755))
	for _, split := range []string{"TRAIN", "TEST"} {
		path := filepath.Join(dir, "Tiny", "Tiny_"+split+".ts")
		require.NoError(t, os.WriteFile(path, []byte(tinyTS), 0o644))
	}
	return dir
}

func TestEvaluateNN1(t *testing.T) {
	dir := writeTinyUCR(t)
	logger := logging.DiscardLogger()

	code, rep := evaluate(logger, dir, "Tiny", "nn1", "msm:0.5", "", "raw", 2, 3)
	assert.Equal(t, 0, code)
	assert.Equal(t, "success", rep.Status)
	require.NotNil(t, rep.Distance)
	assert.Equal(t, "msm", rep.Distance.Name)
	require.NotNil(t, rep.LOOCVTrain)
	assert.Equal(t, 1.0, rep.LOOCVTrain.Accuracy)
	require.NotNil(t, rep.LOOCVTest)
	assert.Equal(t, 1.0, rep.LOOCVTest.Accuracy)
}

func TestEvaluateLOOCVGrid(t *testing.T) {
	dir := writeTinyUCR(t)
	logger := logging.DiscardLogger()

	code, rep := evaluate(logger, dir, "Tiny", "loocv", "dtw:2", "", "raw", 2, 3)
	assert.Equal(t, 0, code)
	assert.Equal(t, "success", rep.Status)
	assert.Equal(t, "dtw", rep.Distance.Name)
}

func TestEvaluateErrors(t *testing.T) {
	dir := writeTinyUCR(t)
	logger := logging.DiscardLogger()

	code, rep := evaluate(logger, dir, "Missing", "nn1", "msm:0.5", "", "raw", 1, 3)
	assert.Equal(t, 3, code)
	assert.Equal(t, "error", rep.Status)

	code, _ = evaluate(logger, dir, "Tiny", "nn1", "frobnicate:1", "", "raw", 1, 3)
	assert.Equal(t, 2, code)

	code, _ = evaluate(logger, dir, "Tiny", "nn1", "msm:0.5", "", "unknowntransform", 1, 3)
	assert.Equal(t, 2, code)

	code, _ = evaluate(logger, dir, "Tiny", "badmode", "msm:0.5", "", "raw", 1, 3)
	assert.Equal(t, 1, code)
}
