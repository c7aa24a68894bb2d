package ragservice

import (
	"bytes"
	"os"

	"gopkg.in/yaml.v2"
)

// Metadata is the YAML front matter of a markdown source document.
type Metadata struct {
	Title  string
	Author string `yaml:"author"`
	Tags   []string
	Date   string
}

var frontMatterDelim = []byte("---\n")

// ExtractMetadata reads the YAML front matter of a markdown file.
// Files without front matter yield an empty Metadata.
func ExtractMetadata(path string) (*Metadata, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	meta := &Metadata{}
	front, _ := splitFrontMatter(content)
	if front == nil {
		return meta, nil
	}
	if err := yaml.Unmarshal(front, meta); err != nil {
		return nil, err
	}
	return meta, nil
}

// StripFrontMatter removes the YAML front matter block so the markdown
// parser only sees the document body.
func StripFrontMatter(source []byte) []byte {
	_, body := splitFrontMatter(source)
	return body
}

func splitFrontMatter(source []byte) (front, body []byte) {
	if !bytes.HasPrefix(source, frontMatterDelim) {
		return nil, source
	}
	rest := source[len(frontMatterDelim):]
	end := bytes.Index(rest, frontMatterDelim)
	if end < 0 {
		return nil, source
	}
	return rest[:end], rest[end+len(frontMatterDelim):]
}
