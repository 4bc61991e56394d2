package tack

import "encoding/json"

// snapshot is one immutable history entry: a serialized Document plus a
// human-readable label. Serializing gives a true deep copy — entries never
// alias live entity data.
type snapshot struct {
	label string
	data  []byte
}

// History is the snapshot-based undo/redo list. A cursor walks the list;
// saving while the cursor is mid-list truncates every later entry, and the
// list drops its oldest entry once it exceeds the configured maximum.
type History struct {
	snaps  []snapshot
	cursor int
	max    int
}

func newHistory(max int) *History {
	if max <= 0 {
		max = 50
	}
	return &History{
		snaps:  make([]snapshot, 0, max),
		cursor: -1,
		max:    max,
	}
}

// save appends a snapshot of doc and moves the cursor to it.
func (h *History) save(label string, doc Document) {
	data, err := json.Marshal(doc)
	if err != nil {
		// Document is plain data; marshalling cannot fail for well-formed
		// state. Skip the entry rather than corrupt the list.
		return
	}

	if h.cursor < len(h.snaps)-1 {
		h.snaps = h.snaps[:h.cursor+1]
	}

	h.snaps = append(h.snaps, snapshot{label: label, data: data})
	if len(h.snaps) > h.max {
		h.snaps = h.snaps[1:]
	} else {
		h.cursor++
	}
}

func (h *History) canUndo() bool {
	return h.cursor > 0
}

func (h *History) canRedo() bool {
	return h.cursor < len(h.snaps)-1
}

// undo moves the cursor back one entry and returns its document.
func (h *History) undo() (Document, bool) {
	if !h.canUndo() {
		return Document{}, false
	}
	h.cursor--
	return h.decode(h.cursor)
}

// redo moves the cursor forward one entry and returns its document.
func (h *History) redo() (Document, bool) {
	if !h.canRedo() {
		return Document{}, false
	}
	h.cursor++
	return h.decode(h.cursor)
}

// jumpTo moves the cursor to an absolute index.
func (h *History) jumpTo(index int) (Document, bool) {
	if index < 0 || index >= len(h.snaps) || index == h.cursor {
		return Document{}, false
	}
	h.cursor = index
	return h.decode(index)
}

func (h *History) decode(index int) (Document, bool) {
	var doc Document
	if err := json.Unmarshal(h.snaps[index].data, &doc); err != nil {
		return Document{}, false
	}
	return doc, true
}

// Cursor returns the current position and total snapshot count.
func (h *History) Cursor() (current, total int) {
	return h.cursor, len(h.snaps)
}

// Labels returns the snapshot labels in order, oldest first.
func (h *History) Labels() []string {
	out := make([]string, len(h.snaps))
	for i, s := range h.snaps {
		out[i] = s.label
	}
	return out
}

// History exposes the board's snapshot list (read-only accessors only).
func (b *Board) History() *History {
	return b.history
}
