package tree

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// IDGenerator hands out node ids that are unique for the lifetime of the
// generator. A generator belongs to a single decode or flatten pass.
type IDGenerator interface {
	Next(prefix string) string
}

// Counter generates sequential ids: "{prefix}_0", "{prefix}_1", ...
// The counter is shared across prefixes so ids never repeat.
type Counter struct {
	n int
}

// NewCounter returns a counter starting at zero.
func NewCounter() *Counter { return &Counter{} }

// Next returns the next id.
func (c *Counter) Next(prefix string) string {
	id := fmt.Sprintf("%s_%d", prefix, c.n)
	c.n++
	return id
}

// RandomIDs generates "{prefix}_{9 random chars}" ids and remembers what
// it produced so a collision is retried rather than returned.
type RandomIDs struct {
	issued map[string]struct{}
}

// NewRandomIDs returns an empty random generator.
func NewRandomIDs() *RandomIDs {
	return &RandomIDs{issued: make(map[string]struct{})}
}

// Next returns a fresh random id.
func (r *RandomIDs) Next(prefix string) string {
	for {
		suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
		id := prefix + "_" + suffix
		if _, dup := r.issued[id]; dup {
			continue
		}
		r.issued[id] = struct{}{}
		return id
	}
}
