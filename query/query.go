// Package query runs the retrieval-augmented answer flow: fetch the most
// similar chunks, build the prompt and ask the model.
package query

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/philippgille/chromem-go"

	"github.com/airobotics/ragservice"
)

//go:embed prompt.tmpl
var promptTemplate string

const topK = 5

// Retriever returns scored chunks for a question.
type Retriever interface {
	Search(ctx context.Context, text string, k int) ([]chromem.Result, error)
}

// Chatter turns a prompt into a completion.
type Chatter interface {
	Invoke(ctx context.Context, prompt string) (string, error)
}

type Engine struct {
	store     Retriever
	chat      Chatter
	separator string
	tmpl      *template.Template
}

func New(store Retriever, chat Chatter, separator string) *Engine {
	if separator == "" {
		separator = "document"
	}
	return &Engine{
		store:     store,
		chat:      chat,
		separator: separator,
		tmpl:      template.Must(template.New("prompt").Parse(promptTemplate)),
	}
}

// Run answers a question. A failing model call does not fail the query:
// the answer text carries the error and the query still completes.
func (e *Engine) Run(ctx context.Context, question string) (*ragservice.QueryResponse, error) {
	log := ragservice.Logger
	log.Info("question received", "question", question)

	results, err := e.store.Search(ctx, question, topK)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	prompt, sources, err := e.BuildPrompt(question, results)
	if err != nil {
		return nil, err
	}

	log.Info("asking model", "documents", len(results))
	answer, err := e.chat.Invoke(ctx, prompt)
	if err != nil {
		log.Error("model call failed", "error", err)
		answer = fmt.Sprintf("Error generating response: %v", err)
	}
	return &ragservice.QueryResponse{
		QueryText:    question,
		ResponseText: answer,
		Sources:      sources,
	}, nil
}

// BuildPrompt groups retrieved content by kind into text, table and image
// sections and renders the prompt template. It also returns the chunk ids
// used as sources.
func (e *Engine) BuildPrompt(question string, results []chromem.Result) (string, []string, error) {
	var texts, tables, images []string
	sources := make([]string, 0, len(results))
	for _, r := range results {
		sources = append(sources, r.ID)
		switch r.Metadata["kind"] {
		case ragservice.KindTable:
			tables = append(tables, e.wrap(r.Content))
		case ragservice.KindImage:
			images = append(images, e.wrap("Image (Base64): "+r.Content))
		default:
			texts = append(texts, e.wrap(r.Content))
		}
	}

	contextText := "### Text:\n" + strings.Join(texts, "\n") +
		"\n\n### Tables:\n" + strings.Join(tables, "\n") +
		"\n\n### Images:\n" + strings.Join(images, "\n")

	var buf bytes.Buffer
	err := e.tmpl.Execute(&buf, ragservice.TemplateData{
		Question: question,
		Context:  contextText,
	})
	if err != nil {
		return "", nil, fmt.Errorf("execute prompt template: %w", err)
	}
	return buf.String(), sources, nil
}

func (e *Engine) wrap(content string) string {
	return fmt.Sprintf("<%s>\n%s\n</%s>", e.separator, content, e.separator)
}
