package ragservice

import (
	"fmt"
	"hash/fnv"
)

// ChunkID derives a stable document id from the chunk's origin and content.
// Re-ingesting the same file yields the same ids, so adding a chunk twice
// overwrites instead of duplicating.
func ChunkID(c Chunk) string {
	h := fnv.New64a()
	h.Write([]byte(c.Text))
	return fmt.Sprintf("%s:%d:%s:%016x", c.Source, c.Page, c.Kind, h.Sum64())
}
