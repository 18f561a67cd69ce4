package domain

// Document is a single ingested source: one program page or one PDF
// curriculum. Content is the raw text; Source identifies where it came
// from (URL or file name) and is carried through to answers.
type Document struct {
	Content string
	Source  string
}

// Chunk is a bounded substring of a Document, the unit of retrieval.
// Chunks are created once during pipeline construction and never mutated;
// the i-th chunk corresponds to row i of the vector index.
type Chunk struct {
	Content string
	Source  string
}

// RetrievalResult pairs a chunk with its similarity score for one query.
type RetrievalResult struct {
	Chunk Chunk
	Score float32
}

// Role identifies who a chat message is attributed to.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single entry in the sequence sent to the completion model.
type Message struct {
	Role    Role
	Content string
}

// AnswerRecord is the pipeline's per-question output. Sources lists the
// source identifier of every retrieved chunk in rank order; duplicates
// are preserved so callers can see how much context each source supplied.
type AnswerRecord struct {
	Answer  string
	Sources []string
}
