package device

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTriangulateQuads(t *testing.T) {
	tests := []struct {
		name  string
		quads []uint16
		want  []uint16
	}{
		{
			name:  "single quad",
			quads: []uint16{0, 1, 2, 3},
			want:  []uint16{0, 1, 2, 0, 2, 3},
		},
		{
			name:  "two quads",
			quads: []uint16{0, 1, 2, 3, 4, 5, 6, 7},
			want:  []uint16{0, 1, 2, 0, 2, 3, 4, 5, 6, 4, 6, 7},
		},
		{
			name:  "non-sequential winding",
			quads: []uint16{3, 2, 6, 7},
			want:  []uint16{3, 2, 6, 3, 6, 7},
		},
		{
			name:  "empty",
			quads: nil,
			want:  []uint16{},
		},
		{
			name:  "trailing partial quad dropped",
			quads: []uint16{0, 1, 2, 3, 4, 5},
			want:  []uint16{0, 1, 2, 0, 2, 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := triangulateQuads(tt.quads)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSequentialQuadIndices(t *testing.T) {
	got := sequentialQuadIndices(4)
	assert.Equal(t, []uint16{0, 1, 2, 3}, got)

	assert.Empty(t, sequentialQuadIndices(0))
}
