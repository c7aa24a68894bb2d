package ragservice

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Parse walks a markdown document and extracts one chunk per paragraph,
// fenced code block and list. Paragraphs directly under an h1 or h2 keep
// the heading text as a lead-in so the chunk stays meaningful on its own.
func Parse(source []byte) ([]Chunk, error) {
	md := goldmark.New()
	reader := text.NewReader(source)
	doc := md.Parser().Parse(reader)

	chunks := make([]Chunk, 0)

	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.Kind() {
		case ast.KindFencedCodeBlock:
			code := extractFencedCodeBlock(n, source)
			if code != "" {
				chunks = append(chunks, Chunk{Text: code, Kind: KindText})
			}
			return ast.WalkSkipChildren, nil
		case ast.KindParagraph:
			body := extractTextFromParagraph(n.(*ast.Paragraph), source)
			if body == "" {
				return ast.WalkSkipChildren, nil
			}
			if heading := precedingHeading(n, source); heading != "" {
				body = heading + "\n" + body
			}
			chunks = append(chunks, Chunk{Text: body, Kind: KindText})
			return ast.WalkSkipChildren, nil
		case ast.KindList:
			items := extractTextFromList(n.(*ast.List), source)
			if items != "" {
				chunks = append(chunks, Chunk{Text: items, Kind: KindText})
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}
	return chunks, nil
}

// precedingHeading returns the text of an immediately preceding h1/h2.
func precedingHeading(n ast.Node, source []byte) string {
	prev := n.PreviousSibling()
	if prev == nil || prev.Kind() != ast.KindHeading {
		return ""
	}
	heading := prev.(*ast.Heading)
	if heading.Level > 2 {
		return ""
	}
	return string(heading.Text(source))
}

func extractTextFromParagraph(paragraph *ast.Paragraph, source []byte) string {
	var buffer bytes.Buffer

	for child := paragraph.FirstChild(); child != nil; child = child.NextSibling() {
		switch child := child.(type) {
		case *ast.Text:
			buffer.Write(child.Text(source))
			if child.SoftLineBreak() || child.HardLineBreak() {
				buffer.WriteByte(' ')
			}
		case *ast.String:
			buffer.Write(child.Value)
		case *ast.CodeSpan:
			buffer.WriteString(extractCodeSpanText(child, source))
		case *ast.Emphasis, *ast.Link:
			for sub := child.FirstChild(); sub != nil; sub = sub.NextSibling() {
				switch sub := sub.(type) {
				case *ast.Text:
					buffer.Write(sub.Text(source))
				case *ast.String:
					buffer.Write(sub.Value)
				}
			}
		}
	}
	return buffer.String()
}

func extractCodeSpanText(node ast.Node, source []byte) string {
	var codeSpanText string
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if cs, ok := n.(*ast.CodeSpan); ok {
				codeSpanText += string(cs.Text(source))
			}
		}
		return ast.WalkContinue, nil
	})
	return codeSpanText
}

func extractFencedCodeBlock(node ast.Node, source []byte) string {
	var content string
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if fc, ok := n.(*ast.FencedCodeBlock); ok {
				lines := fc.Lines()
				for i := 0; i < lines.Len(); i++ {
					line := lines.At(i)
					content += string(line.Value(source))
				}
			}
		}
		return ast.WalkContinue, nil
	})
	return content
}

func extractTextFromList(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			switch t := n.(type) {
			case *ast.ListItem:
				if buf.Len() > 0 {
					buf.WriteByte('\n')
				}
				buf.WriteString(" - ")
			case *ast.Text:
				buf.Write(t.Segment.Value(source))
			case *ast.String:
				buf.Write(t.Value)
			}
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}
