package ragservice

import (
	"strings"
	"unicode/utf8"
)

// Separators tried in order when a text exceeds the chunk size. The empty
// string is the terminal fallback: plain character windows.
var splitSeparators = []string{"\n\n", "\n", " ", ""}

// SplitText splits text into pieces of at most size bytes. Adjacent pieces
// share up to overlap bytes of trailing context. Boundaries prefer paragraph
// breaks, then line breaks, then word breaks.
func SplitText(text string, size, overlap int) []string {
	if size <= 0 {
		return nil
	}
	return splitText(text, splitSeparators, size, overlap)
}

// SplitChunks applies SplitText to every chunk whose text exceeds size,
// keeping the originating chunk's metadata on each piece.
func SplitChunks(chunks []Chunk, size, overlap int) []Chunk {
	result := make([]Chunk, 0, len(chunks))
	for _, c := range chunks {
		if len(c.Text) <= size {
			result = append(result, c)
			continue
		}
		for _, piece := range SplitText(c.Text, size, overlap) {
			split := c
			split.Text = piece
			result = append(result, split)
		}
	}
	return result
}

func splitText(text string, separators []string, size, overlap int) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if len(text) <= size {
		return []string{text}
	}

	sep := ""
	var remaining []string
	for i, s := range separators {
		if s == "" {
			break
		}
		if strings.Contains(text, s) {
			sep = s
			remaining = separators[i+1:]
			break
		}
	}
	if sep == "" {
		return windows(text, size, overlap)
	}

	parts := strings.SplitAfter(text, sep)
	var out []string
	current := ""
	fresh := false // current holds content not yet emitted

	emit := func() {
		out = append(out, current)
		current = tail(current, overlap)
		fresh = false
	}

	for _, part := range parts {
		if len(part) > size {
			if fresh {
				emit()
			}
			out = append(out, splitText(part, remaining, size, overlap)...)
			current = ""
			fresh = false
			continue
		}
		if len(current)+len(part) > size {
			if fresh {
				emit()
			}
			if len(current)+len(part) > size {
				// overlap carry plus part still too large, drop the carry
				current = ""
			}
		}
		current += part
		fresh = true
	}
	if fresh && strings.TrimSpace(current) != "" {
		out = append(out, current)
	}
	return out
}

// windows cuts raw character windows with overlap, the last-resort split.
// Window edges never land inside a multibyte rune.
func windows(text string, size, overlap int) []string {
	step := size - overlap
	if step <= 0 {
		step = size
	}
	var out []string
	start := 0
	for start < len(text) {
		end := start + size
		if end >= len(text) {
			end = len(text)
		} else {
			end = runeFloor(text, end)
			if end <= start {
				// a single rune wider than the window, keep it whole
				_, n := utf8.DecodeRuneInString(text[start:])
				end = start + n
			}
		}
		out = append(out, text[start:end])
		if end == len(text) {
			break
		}
		next := runeFloor(text, start+step)
		if next <= start {
			next = end
		}
		start = next
	}
	return out
}

// runeFloor moves i down to the nearest rune boundary in s.
func runeFloor(s string, i int) int {
	for i > 0 && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}

func tail(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	return s[runeFloor(s, len(s)-n):]
}
