package navigate

// Entry is one visited tag page.
type Entry struct {
	URL   string
	Title string
	Tag   string
}

// History is a back/forward stack of visited pages. The zero value is empty
// and ready to use.
type History struct {
	entries []Entry
	pos     int // 1-based index of the current entry; 0 when empty
}

// Push records e as the current entry, discarding any forward entries.
func (h *History) Push(e Entry) {
	h.entries = append(h.entries[:h.pos], e)
	h.pos = len(h.entries)
}

// Current returns the current entry.
func (h *History) Current() (Entry, bool) {
	if h.pos == 0 {
		return Entry{}, false
	}
	return h.entries[h.pos-1], true
}

// Back moves to the previous entry and returns it.
func (h *History) Back() (Entry, bool) {
	if h.pos <= 1 {
		return Entry{}, false
	}
	h.pos--
	return h.entries[h.pos-1], true
}

// Forward moves to the next entry and returns it.
func (h *History) Forward() (Entry, bool) {
	if h.pos >= len(h.entries) {
		return Entry{}, false
	}
	h.pos++
	return h.entries[h.pos-1], true
}

// Len returns the number of recorded entries.
func (h *History) Len() int { return len(h.entries) }
