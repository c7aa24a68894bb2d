package ragservice

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

var columnGap = regexp.MustCompile(`\t| {2,}`)

// ExtractPDF pulls the text of every page out of a PDF file. Blocks that
// look like tables (several lines of aligned columns) are emitted as table
// chunks so retrieval can group them separately.
func ExtractPDF(path string) ([]Chunk, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer f.Close()

	var chunks []Chunk
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			Logger.Warn("failed to extract page text", "path", path, "page", pageNum, "error", err)
			continue
		}
		for _, block := range PageBlocks(text) {
			chunks = append(chunks, Chunk{
				Text:   block,
				Kind:   BlockKind(block),
				Source: path,
				Page:   pageNum,
			})
		}
	}
	return chunks, nil
}

// PageBlocks splits page text on blank lines into trimmed blocks.
func PageBlocks(text string) []string {
	var blocks []string
	for _, block := range strings.Split(text, "\n\n") {
		block = strings.TrimSpace(block)
		if block != "" {
			blocks = append(blocks, block)
		}
	}
	return blocks
}

// BlockKind classifies a text block. A block where every one of at least
// two lines breaks into two or more columns is treated as a table.
func BlockKind(block string) string {
	lines := strings.Split(strings.TrimSpace(block), "\n")
	if len(lines) < 2 {
		return KindText
	}
	for _, line := range lines {
		if len(columnGap.Split(strings.TrimSpace(line), -1)) < 2 {
			return KindText
		}
	}
	return KindTable
}
