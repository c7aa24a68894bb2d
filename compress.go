package ragservice

// CompressChunks combines consecutive chunks until the combined text
// exceeds size, so tiny fragments do not become their own embeddings.
// Chunks are only merged within the same source and kind.
func CompressChunks(chunks []Chunk, size int) []Chunk {
	result := make([]Chunk, 0, len(chunks))
	var current Chunk
	open := false

	flush := func() {
		if open {
			result = append(result, current)
			open = false
		}
	}

	for _, c := range chunks {
		if open && (c.Kind != current.Kind || c.Source != current.Source) {
			flush()
		}
		if !open {
			current = c
			open = true
		} else {
			current.Text += "\n" + c.Text
		}
		if len(current.Text) > size {
			flush()
		}
	}
	flush()
	return result
}
