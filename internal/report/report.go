// Package report carries the JSON result records emitted at the tool
// boundary. The shape is a contract with downstream analysis scripts; the
// core never imports this package.
package report

import (
	"encoding/json"
	"io"

	"github.com/strider-ts/strider/internal/loocv"
)

// Distance names the evaluated distance and its parameter record.
type Distance struct {
	Name   string         `json:"name"`
	Params map[string]any `json:"params"`
}

// Evaluation is one result block (train LOOCV or test NN1).
type Evaluation struct {
	NbCorrect int     `json:"nb_correct"`
	Accuracy  float64 `json:"accuracy"`
	TimeNs    int64   `json:"time_ns"`
}

// Report is the full record written per run.
type Report struct {
	Status        string      `json:"status"`
	StatusMessage string      `json:"status_message,omitempty"`
	Distance      *Distance   `json:"distance,omitempty"`
	LOOCVTrain    *Evaluation `json:"loocv_train,omitempty"`
	LOOCVTest     *Evaluation `json:"loocv_test,omitempty"`
}

// FromResult converts an engine result into the wire shape.
func FromResult(r loocv.Result) *Evaluation {
	return &Evaluation{
		NbCorrect: r.NbCorrect,
		Accuracy:  r.Accuracy,
		TimeNs:    r.Time.Nanoseconds(),
	}
}

// Reporter sinks JSON records.
type Reporter interface {
	Emit(Report) error
}

// JSONReporter writes indented records to w.
type JSONReporter struct {
	W io.Writer
}

func (j JSONReporter) Emit(r Report) error {
	enc := json.NewEncoder(j.W)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
