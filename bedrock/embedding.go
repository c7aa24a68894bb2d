package bedrock

import (
	"context"

	be "github.com/megaproaktiv/bedrockembedding/titan"
	"github.com/philippgille/chromem-go"
)

// Embedding returns the Titan embedding function in the shape chromem
// expects.
func Embedding() chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		return be.FetchEmbedding(text)
	}
}
