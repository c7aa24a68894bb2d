package ragservice_test

import (
	"testing"

	"gotest.tools/v3/assert"

	"github.com/airobotics/ragservice"
)

func TestCompressChunks(t *testing.T) {
	first := `Problem:
You want to develop a local browser app with the AWS SDK and you want to use your local AWS credentials. Although your current credentials are valid, the SDK does not accept them.`
	second := `Solution:
Use cognito or use framework specific solutions to provide ENV variables to the SDK.
`

	input := []ragservice.Chunk{
		{Text: first, Kind: ragservice.KindText, Source: "a.md"},
		{Text: second, Kind: ragservice.KindText, Source: "a.md"},
	}

	result := ragservice.CompressChunks(input, 200)

	assert.Equal(t, len(result), 1)
	assert.Equal(t, result[0].Text, first+"\n"+second)
	assert.Equal(t, result[0].Source, "a.md")
}

func TestCompressChunksKeepsKindsApart(t *testing.T) {
	input := []ragservice.Chunk{
		{Text: "intro", Kind: ragservice.KindText, Source: "a.pdf"},
		{Text: "col1\tcol2", Kind: ragservice.KindTable, Source: "a.pdf"},
	}

	result := ragservice.CompressChunks(input, 500)

	assert.Equal(t, len(result), 2)
	assert.Equal(t, result[0].Kind, ragservice.KindText)
	assert.Equal(t, result[1].Kind, ragservice.KindTable)
}

func TestCompressChunksFlushesOnSize(t *testing.T) {
	input := []ragservice.Chunk{
		{Text: "aa", Kind: ragservice.KindText},
		{Text: "bb", Kind: ragservice.KindText},
		{Text: "cc", Kind: ragservice.KindText},
	}

	result := ragservice.CompressChunks(input, 4)

	assert.Equal(t, len(result), 2)
	assert.Equal(t, result[0].Text, "aa\nbb")
	assert.Equal(t, result[1].Text, "cc")
}
