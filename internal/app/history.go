package app

// History is a circular buffer of recent sample magnitudes.
type History struct {
	buf   []float64
	pos   int
	count int
}

// NewHistory creates a new circular buffer with the given capacity.
func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = 1
	}
	return &History{
		buf: make([]float64, capacity),
	}
}

// Push adds a value to the ring buffer.
func (h *History) Push(val float64) {
	h.buf[h.pos] = val
	h.pos = (h.pos + 1) % len(h.buf)
	if h.count < len(h.buf) {
		h.count++
	}
}

// Values returns all stored values in chronological order.
func (h *History) Values() []float64 {
	if h.count == 0 {
		return nil
	}
	result := make([]float64, h.count)
	if h.count < len(h.buf) {
		copy(result, h.buf[:h.count])
	} else {
		n := copy(result, h.buf[h.pos:])
		copy(result[n:], h.buf[:h.pos])
	}
	return result
}

// Last returns the most recent value, or 0 if empty.
func (h *History) Last() float64 {
	if h.count == 0 {
		return 0
	}
	return h.buf[(h.pos-1+len(h.buf))%len(h.buf)]
}

// Len returns the number of stored values.
func (h *History) Len() int {
	return h.count
}
