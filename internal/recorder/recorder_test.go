package recorder

import (
	"errors"
	"testing"

	"quotesentinel/internal/model"
)

type failingRecorder struct {
	ticks int
	err   error
}

func (f *failingRecorder) RecordTick(_ *model.Record) error        { f.ticks++; return f.err }
func (f *failingRecorder) RecordFinal(_ *model.FinalReport) error { return f.err }
func (f *failingRecorder) Close() error                           { return nil }

func TestMulti_FansOutDespiteErrors(t *testing.T) {
	boom := errors.New("disk full")
	bad := &failingRecorder{err: boom}
	good := &failingRecorder{}
	m := Multi{bad, good, NewNoopRecorder()}

	err := m.RecordTick(&model.Record{})
	if !errors.Is(err, boom) {
		t.Errorf("expected joined error to wrap sink error, got %v", err)
	}
	if bad.ticks != 1 || good.ticks != 1 {
		t.Errorf("every sink must be called: bad=%d good=%d", bad.ticks, good.ticks)
	}
	if err := m.RecordFinal(&model.FinalReport{}); !errors.Is(err, boom) {
		t.Errorf("expected final error, got %v", err)
	}
	if err := m.Close(); err != nil {
		t.Errorf("unexpected close error: %v", err)
	}
}

func TestMulti_Empty(t *testing.T) {
	var m Multi
	if err := m.RecordTick(&model.Record{}); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

func TestRedisRecorder_Keys(t *testing.T) {
	r := &RedisRecorder{keyPrefix: "qs", runID: "abc"}
	if r.LatestKey() != "qs:latest" {
		t.Errorf("unexpected latest key %q", r.LatestKey())
	}
	if r.RecordsKey() != "qs:run:abc:records" {
		t.Errorf("unexpected records key %q", r.RecordsKey())
	}
	if r.FinalKey() != "qs:run:abc:final" {
		t.Errorf("unexpected final key %q", r.FinalKey())
	}
}
