package rag

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxoun/tg-bot-msc/internal/domain"
)

func TestChunk_InvalidParameters(t *testing.T) {
	cases := []struct {
		name          string
		size, overlap int
	}{
		{"equal", 10, 10},
		{"overlap larger", 5, 10},
		{"zero size", 0, 0},
		{"negative overlap", 10, -1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Chunk("some text", tc.size, tc.overlap)
			require.Error(t, err)
			assert.Equal(t, domain.ErrCodeInvalidConfiguration, domain.ErrorCode(err))
		})
	}
}

func TestChunk_EmptyInput(t *testing.T) {
	chunks, err := Chunk("", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestChunk_NoOverlap(t *testing.T) {
	chunks, err := Chunk("abcdefghij", 4, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"abcd", "efgh", "ij"}, chunks)
}

func TestChunk_Overlap(t *testing.T) {
	// The window starts every step runes until the start passes the end,
	// so a short trailing chunk is emitted even when the previous window
	// already reached the end of the text.
	chunks, err := Chunk("abcdefgh", 4, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"abcd", "cdef", "efgh", "gh"}, chunks)
}

func TestChunk_CountNoOverlap(t *testing.T) {
	// With zero overlap the number of chunks is ceil(len/size).
	cases := []struct {
		length, size, want int
	}{
		{10, 10, 1},
		{11, 10, 2},
		{100, 7, 15},
		{1, 500, 1},
	}

	for _, tc := range cases {
		text := strings.Repeat("x", tc.length)
		chunks, err := Chunk(text, tc.size, 0)
		require.NoError(t, err)
		assert.Len(t, chunks, tc.want, "length=%d size=%d", tc.length, tc.size)
	}
}

func TestChunk_Reconstruction(t *testing.T) {
	// Dropping each subsequent chunk's leading overlap reconstructs the
	// input exactly, and no chunk exceeds the requested size.
	texts := []string{
		"The quick brown fox jumps over the lazy dog",
		strings.Repeat("магистратура ИТМО ", 37),
		"short",
	}
	params := []struct{ size, overlap int }{
		{10, 0}, {10, 3}, {7, 6}, {100, 10}, {3, 1},
	}

	for _, text := range texts {
		want := []rune(text)
		for _, p := range params {
			chunks, err := Chunk(text, p.size, p.overlap)
			require.NoError(t, err)

			var got []rune
			for i, c := range chunks {
				runes := []rune(c)
				assert.LessOrEqual(t, len(runes), p.size)
				if i == 0 {
					got = append(got, runes...)
					continue
				}
				drop := p.overlap
				if drop > len(runes) {
					drop = len(runes)
				}
				got = append(got, runes[drop:]...)
			}
			assert.Equal(t, string(want), string(got), "size=%d overlap=%d", p.size, p.overlap)
		}
	}
}

func TestChunk_UnicodeBoundaries(t *testing.T) {
	// Windows are cut on code points, never inside a multi-byte rune.
	chunks, err := Chunk("приветмир", 4, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"прив", "етми", "р"}, chunks)
}
