package recorder

import (
	"errors"

	"quotesentinel/internal/model"
)

// Recorder persists the tick history and the shutdown summary.
type Recorder interface {
	RecordTick(rec *model.Record) error
	RecordFinal(rep *model.FinalReport) error
	Close() error
}

// Multi fans every call out to all recorders. One failing sink does not stop
// the others; their errors are joined.
type Multi []Recorder

func (m Multi) RecordTick(rec *model.Record) error {
	var errs []error
	for _, r := range m {
		if err := r.RecordTick(rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) RecordFinal(rep *model.FinalReport) error {
	var errs []error
	for _, r := range m {
		if err := r.RecordFinal(rep); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) Close() error {
	var errs []error
	for _, r := range m {
		if err := r.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
