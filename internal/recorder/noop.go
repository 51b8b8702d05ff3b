package recorder

import "quotesentinel/internal/model"

// NoopRecorder discards everything.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordTick(_ *model.Record) error        { return nil }
func (n *NoopRecorder) RecordFinal(_ *model.FinalReport) error { return nil }
func (n *NoopRecorder) Close() error                           { return nil }
