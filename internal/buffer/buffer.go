package buffer

// Buffer hosts non-interrelated byte sequences (segments) in a single caller-owned slice. Data
// is written streamingly into the current segment, which is finished once complete. The
// buffer never grows beyond the memory it was given, so previously finished segments stay
// valid for the whole buffer's life (until Clear).
type Buffer struct {
	memory []byte
	begin  int
}

// New returns a buffer writing into the memory. Its capacity limits the total amount of data.
func New(memory []byte) Buffer {
	return Buffer{
		memory: memory[:0],
	}
}

// Append writes data, checking whether the new amount of elements (bytes) doesn't exceed the
// capacity, otherwise discarding the data and returning false.
func (b *Buffer) Append(elements []byte) (ok bool) {
	if len(b.memory)+len(elements) > cap(b.memory) {
		return false
	}

	b.memory = append(b.memory, elements...)
	return true
}

// SegmentLength returns a number of bytes, taken by current segment, calculated as a difference
// between the beginning of the current segment and the current pointer.
func (b *Buffer) SegmentLength() int {
	return len(b.memory) - b.begin
}

// Trunc truncates the last n bytes from the current segment, guarantying that data of previous
// segments stays intact.
func (b *Buffer) Trunc(n int) {
	if seglen := b.SegmentLength(); n > seglen {
		n = seglen
	}

	b.memory = b.memory[:len(b.memory)-n]
}

// Preview returns current segment without moving the head.
func (b *Buffer) Preview() []byte {
	return b.memory[b.begin:]
}

// Finish completes current segment, returning its value. The returned slice is capped, so
// appending to it can't override the following segments.
func (b *Buffer) Finish() []byte {
	segment := b.memory[b.begin:len(b.memory):len(b.memory)]
	b.begin = len(b.memory)

	return segment
}

// Len returns the total amount of bytes occupied by all the segments.
func (b *Buffer) Len() int {
	return len(b.memory)
}

// Cap returns the capacity of the underlying memory.
func (b *Buffer) Cap() int {
	return cap(b.memory)
}

// Clear just resets the pointers, so old values may be overridden by new ones.
func (b *Buffer) Clear() {
	b.begin = 0
	b.memory = b.memory[:0]
}
