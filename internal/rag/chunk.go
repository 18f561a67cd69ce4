// Package rag implements the retrieval-augmented answering pipeline:
// chunking, embedding, index search, threshold filtering, prompt
// assembly and the completion call.
package rag

import "github.com/maxoun/tg-bot-msc/internal/domain"

// Chunk splits text into fixed-size windows of size runes that overlap
// by overlap runes. Windows are cut on code-point boundaries only; no
// sentence or paragraph awareness is applied, so consecutive chunks
// reconstruct the input exactly once the overlap is removed. The final
// chunk may be shorter than size. Empty input yields no chunks.
//
// size must be greater than overlap and overlap must be non-negative,
// otherwise the step would be zero or negative and the walk would never
// terminate; such parameters fail with an INVALID_CONFIGURATION error.
func Chunk(text string, size, overlap int) ([]string, error) {
	if overlap < 0 || size <= overlap {
		return nil, domain.ErrInvalidChunking
	}

	runes := []rune(text)
	if len(runes) == 0 {
		return nil, nil
	}

	step := size - overlap
	chunks := make([]string, 0, (len(runes)+step-1)/step)
	for i := 0; i < len(runes); i += step {
		end := i + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[i:end]))
	}
	return chunks, nil
}
