package headers

import (
	"iter"

	"github.com/indigo-web/nanohttp/errors"
	"github.com/indigo-web/utils/strcomp"
	"github.com/indigo-web/utils/uf"
)

// Pair is a single header field. Both name and value are borrowed from the buffer they were
// parsed from or supplied by the caller, they are never copied.
type Pair struct {
	Name, Value []byte
}

// Headers is an order-preserving fixed-capacity storage of header fields. It acts as a map but
// uses linear search instead, which proves to be more efficient on relatively low amount of
// entries, which often enough is the case. The capacity is exactly the capacity of the storage
// slice passed to New, the storage never grows.
type Headers struct {
	pairs []Pair
}

// New returns headers backed by the storage. Previous contents of the storage are discarded.
func New(storage []Pair) *Headers {
	return &Headers{
		pairs: storage[:0],
	}
}

// Add appends a new pair. When the capacity is exhausted, errors.ErrTooManyHeaders (being a
// BufferTooSmall error) is returned and the storage stays unchanged.
func (h *Headers) Add(name, value []byte) error {
	if len(h.pairs) == cap(h.pairs) {
		return errors.ErrTooManyHeaders
	}

	h.pairs = append(h.pairs, Pair{
		Name:  name,
		Value: value,
	})

	return nil
}

// Get returns the value of the first pair matching the name case-insensitively. Later
// duplicates are reachable only via Values.
func (h *Headers) Get(name string) (value []byte, found bool) {
	for _, pair := range h.pairs {
		if strcomp.EqualFold(uf.B2S(pair.Name), name) {
			return pair.Value, true
		}
	}

	return nil, false
}

// Value returns the first value, corresponding to the name. Otherwise, empty string is returned.
// The string shares memory with the underlying buffer.
func (h *Headers) Value(name string) string {
	return h.ValueOr(name, "")
}

// ValueOr returns either the first value corresponding to the name or custom value, defined
// via the second parameter.
func (h *Headers) ValueOr(name, or string) string {
	value, found := h.Get(name)
	if !found {
		return or
	}

	return uf.B2S(value)
}

// Values iterates over all the values of the name in their insertion order.
func (h *Headers) Values(name string) iter.Seq[[]byte] {
	return func(yield func([]byte) bool) {
		for _, pair := range h.pairs {
			if strcomp.EqualFold(uf.B2S(pair.Name), name) && !yield(pair.Value) {
				return
			}
		}
	}
}

// Iter returns an iterator over the pairs in their insertion order.
func (h *Headers) Iter() iter.Seq2[[]byte, []byte] {
	return func(yield func([]byte, []byte) bool) {
		for _, pair := range h.pairs {
			if !yield(pair.Name, pair.Value) {
				return
			}
		}
	}
}

// Has indicates, whether there's an entry of the name.
func (h *Headers) Has(name string) bool {
	_, found := h.Get(name)
	return found
}

// Len returns a number of stored pairs.
func (h *Headers) Len() int {
	return len(h.pairs)
}

// Cap returns the maximal number of pairs the headers can hold.
func (h *Headers) Cap() int {
	return cap(h.pairs)
}

func (h *Headers) Empty() bool {
	return h.Len() == 0
}

// Clear drops all the pairs, keeping the storage.
func (h *Headers) Clear() {
	h.pairs = h.pairs[:0]
}
