// Package memory provides the storage the collision world builds shapes,
// proxies and bodies into: a byte-budgeted arena and chunked pools whose
// elements never move once allocated.
package memory

import "strconv"

// Handle identifies a slot in a Pool. The generation changes every time the
// slot is freed, so a handle kept past Free no longer resolves.
type Handle struct {
	index uint32
	gen   uint32
}

// Nil is the zero handle. No pool ever returns it.
var Nil Handle

// Valid reports whether h was issued by a pool. It does not check liveness.
func (h Handle) Valid() bool {
	return h.gen > 0
}

// Index returns the slot index.
func (h Handle) Index() int {
	return int(h.index)
}

func (h Handle) String() string {
	if !h.Valid() {
		return "nil"
	}
	return strconv.FormatUint(uint64(h.index), 10) + "v" + strconv.FormatUint(uint64(h.gen), 10)
}
