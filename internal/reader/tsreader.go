// Package reader loads datasets in the UCR/UEA ".ts" text format: header
// directives followed by one series per line, dimensions separated by ':',
// values by ',', with the class label in the last field.
package reader

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/strider-ts/strider/internal/core"
	"github.com/strider-ts/strider/internal/errors"
	"github.com/strider-ts/strider/internal/series"
)

// LoadTS reads one .ts file into a dataset named name.
func LoadTS(path, name string) (series.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return series.Dataset{}, errors.WrapIOError(err, "reader.LoadTS", "opening dataset file").
			WithContext("path", path)
	}
	defer f.Close()

	var (
		ss        []series.Series
		inData    bool
		hasLabels bool
	)
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 1<<20), 1<<24)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "@") {
			directive := strings.ToLower(line)
			switch {
			case strings.HasPrefix(directive, "@data"):
				inData = true
			case strings.HasPrefix(directive, "@classlabel"):
				hasLabels = strings.Contains(directive, "true")
			}
			continue
		}
		if !inData {
			continue
		}
		s, err := parseSeriesLine(line, hasLabels)
		if err != nil {
			return series.Dataset{}, errors.Wrap(err, errors.ErrorTypeIO, "reader.LoadTS", "malformed series line").
				WithContext("line", lineNo)
		}
		ss = append(ss, s)
	}
	if err := sc.Err(); err != nil {
		return series.Dataset{}, errors.WrapIOError(err, "reader.LoadTS", "scanning dataset file")
	}
	if len(ss) == 0 {
		return series.Dataset{}, errors.NewIOError("reader.LoadTS", "no series in dataset file").
			WithContext("path", path)
	}
	return series.NewDataset(name, ss)
}

// LoadUCR loads the TRAIN and TEST splits of a UCR-layout dataset:
// <dir>/<name>/<name>_TRAIN.ts and <dir>/<name>/<name>_TEST.ts.
func LoadUCR(dir, name string) (train, test series.Dataset, err error) {
	train, err = LoadTS(filepath.Join(dir, name, name+"_TRAIN.ts"), "train")
	if err != nil {
		return
	}
	test, err = LoadTS(filepath.Join(dir, name, name+"_TEST.ts"), "test")
	return
}

func parseSeriesLine(line string, hasLabels bool) (series.Series, error) {
	fields := strings.Split(line, ":")
	var label *core.Label
	if hasLabels {
		if len(fields) < 2 {
			return series.Series{}, errors.NewIOError("reader.parseSeriesLine", "missing class label field")
		}
		l := core.Label(strings.TrimSpace(fields[len(fields)-1]))
		label = &l
		fields = fields[:len(fields)-1]
	}
	dims := len(fields)
	var perDim [][]float64
	length := -1
	for _, field := range fields {
		parts := strings.Split(field, ",")
		vals := make([]float64, 0, len(parts))
		for _, p := range parts {
			v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
			if err != nil {
				return series.Series{}, errors.WrapIOError(err, "reader.parseSeriesLine", "bad value")
			}
			vals = append(vals, v)
		}
		if length == -1 {
			length = len(vals)
		} else if len(vals) != length {
			return series.Series{}, errors.NewIOError("reader.parseSeriesLine", "ragged dimensions")
		}
		perDim = append(perDim, vals)
	}
	flat := make([]float64, 0, length*dims)
	for i := 0; i < length; i++ {
		for d := 0; d < dims; d++ {
			flat = append(flat, perDim[d][i])
		}
	}
	return series.New(flat, dims, label)
}
