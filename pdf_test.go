package ragservice_test

import (
	"testing"

	"gotest.tools/v3/assert"

	"github.com/airobotics/ragservice"
)

func TestBlockKind(t *testing.T) {
	tests := []struct {
		name  string
		block string
		want  string
	}{
		{
			name:  "prose paragraph",
			block: "The RX-10 is an indoor delivery robot.\nIt carries up to 10 kg.",
			want:  ragservice.KindText,
		},
		{
			name:  "tab separated table",
			block: "Model\tPayload\nRX-10\t10 kg\nRX-20\t25 kg",
			want:  ragservice.KindTable,
		},
		{
			name:  "space aligned table",
			block: "Model    Payload\nRX-10    10 kg",
			want:  ragservice.KindTable,
		},
		{
			name:  "single line",
			block: "RX-10\t10 kg",
			want:  ragservice.KindText,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, ragservice.BlockKind(tt.block), tt.want)
		})
	}
}

func TestPageBlocks(t *testing.T) {
	blocks := ragservice.PageBlocks("first block\n\n\n\nsecond block\n\n")
	assert.DeepEqual(t, blocks, []string{"first block", "second block"})
}
