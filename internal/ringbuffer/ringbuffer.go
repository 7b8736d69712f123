package ringbuffer

// RingBuffer is a fixed-capacity FIFO of float32 values.
// Pushing into a full buffer overwrites the oldest value.
// It is not safe for concurrent use; callers guard it themselves.
type RingBuffer struct {
	buf      []float32
	writePos int
	capacity int
	count    int // values currently stored, <= capacity
}

// New creates a ring buffer that holds up to capacity values.
func New(capacity int) *RingBuffer {
	if capacity < 1 {
		capacity = 1
	}
	return &RingBuffer{
		buf:      make([]float32, capacity),
		capacity: capacity,
	}
}

// Push appends v, evicting the oldest value when the buffer is full.
func (rb *RingBuffer) Push(v float32) {
	rb.buf[rb.writePos] = v
	rb.writePos = (rb.writePos + 1) % rb.capacity
	if rb.count < rb.capacity {
		rb.count++
	}
}

// Snapshot returns a copy of the stored values, oldest first.
// An empty buffer yields an empty, non-nil slice.
func (rb *RingBuffer) Snapshot() []float32 {
	return rb.SnapshotInto(make([]float32, 0, rb.count))
}

// SnapshotInto appends the stored values, oldest first, to dst[:0] and
// returns the result, avoiding allocation when dst has room.
func (rb *RingBuffer) SnapshotInto(dst []float32) []float32 {
	dst = dst[:0]
	if rb.count == 0 {
		return dst
	}

	start := (rb.writePos - rb.count + rb.capacity) % rb.capacity
	if start+rb.count <= rb.capacity {
		return append(dst, rb.buf[start:start+rb.count]...)
	}
	dst = append(dst, rb.buf[start:]...)
	return append(dst, rb.buf[:rb.writePos]...)
}

// Len returns the number of values currently stored.
func (rb *RingBuffer) Len() int {
	return rb.count
}

// Capacity returns the maximum number of values the buffer holds.
func (rb *RingBuffer) Capacity() int {
	return rb.capacity
}

// Reset discards all stored values.
func (rb *RingBuffer) Reset() {
	rb.writePos = 0
	rb.count = 0
}
