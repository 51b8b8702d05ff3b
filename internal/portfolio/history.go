package portfolio

import "quotesentinel/internal/model"

// History is a bounded in-memory window of the most recent records. The
// persisted log remains the full record of a run.
type History struct {
	values []model.Record
	size   int
	index  int
	filled bool
}

func NewHistory(size int) *History {
	if size <= 0 {
		size = 1
	}
	return &History{
		values: make([]model.Record, size),
		size:   size,
	}
}

func (h *History) Add(r model.Record) {
	h.values[h.index] = r
	h.index = (h.index + 1) % h.size
	if h.index == 0 {
		h.filled = true
	}
}

func (h *History) Len() int {
	if h.filled {
		return h.size
	}
	return h.index
}

// Values returns a chronological copy of the retained records.
func (h *History) Values() []model.Record {
	length := h.Len()
	result := make([]model.Record, 0, length)
	if length == 0 {
		return result
	}
	if h.filled {
		result = append(result, h.values[h.index:]...)
	}
	result = append(result, h.values[:h.index]...)
	return result
}
