package dsp

import "sync"

// RingBuffer is a thread-safe circular buffer of mono samples.
// It always holds the most recent len(buf) samples written.
type RingBuffer struct {
	buf []float32
	w   int // write position
	len int // current fill level
	mu  sync.Mutex
}

// NewRingBuffer creates a ring buffer holding up to size samples.
func NewRingBuffer(size int) *RingBuffer {
	return &RingBuffer{
		buf: make([]float32, size),
	}
}

// Write appends samples, overwriting the oldest data when full.
func (rb *RingBuffer) Write(p []float32) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	size := len(rb.buf)
	if len(p) > size {
		p = p[len(p)-size:]
	}
	for _, s := range p {
		rb.buf[rb.w] = s
		rb.w = (rb.w + 1) % size
	}
	rb.len += len(p)
	if rb.len > size {
		rb.len = size
	}
}

// ReadInto copies the most recent len(dst) samples into dst, oldest first.
// When fewer samples have been written, the front of dst is zero filled.
// It returns the number of real samples copied.
func (rb *RingBuffer) ReadInto(dst []float64) int {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	size := len(rb.buf)
	n := min(len(dst), rb.len)
	pad := len(dst) - n
	for i := range pad {
		dst[i] = 0
	}

	start := (rb.w - n + size) % size
	for i := range n {
		dst[pad+i] = float64(rb.buf[(start+i)%size])
	}
	return n
}

// Len returns the number of samples currently held.
func (rb *RingBuffer) Len() int {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return rb.len
}

// Clear resets the buffer.
func (rb *RingBuffer) Clear() {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	rb.w = 0
	rb.len = 0
	clear(rb.buf)
}
