package rewrite

import (
	"encoding/binary"
	"sync"

	"github.com/dchest/siphash"
)

// idKey is a fast, collision-resistant fingerprint of a node's structural
// position within one problem. Two parses of the same snippet (same
// problemKey) produce identical keys for the "same" node, byte-for-byte,
// which is what makes node IDs idempotent across re-parses without needing
// to keep the previous parse's *lang.Node tree around.
type idKey uint64

func newIDKey(problemKey string, startByte uint32, kind string) idKey {
	h := siphash.New([]byte(cacheSipKey))
	_, _ = h.Write([]byte(problemKey))
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], startByte)
	_, _ = h.Write(buf[:])
	_, _ = h.Write([]byte(kind))
	return idKey(h.Sum64())
}

// cacheSipKey is a fixed 16-byte siphash key. It only needs to make
// collisions unlikely within one process lifetime, not to resist a hostile
// adversary, so a compile-time constant is fine — the teacher's own
// highwayhash usage (inspector/graph/hash.go) keys the same way.
const cacheSipKey = "pytracer-nodeid!"

// IDCache assigns sequential, idempotent node IDs scoped to a problem key.
// One Tracer owns one IDCache; Tracer.Reset replaces it, which is what
// returns IDs to zero for a fresh run.
type IDCache struct {
	mu      sync.Mutex
	next    int
	assigned map[idKey]int
}

// NewIDCache returns an empty cache whose first assigned ID is 1.
func NewIDCache() *IDCache {
	return &IDCache{assigned: make(map[idKey]int)}
}

// Assign returns the stable ID for (problemKey, startByte, kind), minting a
// new one the first time this exact position/kind is seen under this
// problem key and returning the cached value on every subsequent call
// (including calls from a later re-parse of the same snippet).
func (c *IDCache) Assign(problemKey string, startByte uint32, kind string) int {
	key := newIDKey(problemKey, startByte, kind)

	c.mu.Lock()
	defer c.mu.Unlock()
	if id, ok := c.assigned[key]; ok {
		return id
	}
	c.next++
	c.assigned[key] = c.next
	return c.next
}
