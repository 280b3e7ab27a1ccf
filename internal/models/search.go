package models

// ChunkMeta is the per-chunk metadata returned alongside search hits.
type ChunkMeta struct {
	ArticleTitle string `json:"article_title"`
	ChunkIndex   int    `json:"chunk_index"`
}

// SearchResult holds one content-index query's hits. Documents, Metadata and
// Distances are parallel slices. Retrieval failures are carried in Err rather
// than returned as Go errors so the model sees them as ordinary tool output.
type SearchResult struct {
	Documents []string
	Metadata  []ChunkMeta
	Distances []float64
	Err       string
}

// EmptyResult builds an error-carrying result with no hits.
func EmptyResult(errMsg string) SearchResult {
	return SearchResult{Err: errMsg}
}

// IsEmpty reports whether the result holds no documents.
func (r SearchResult) IsEmpty() bool {
	return len(r.Documents) == 0
}

// Source is a citation surfaced to the end user alongside the answer.
// Index is 1-based and unique within a single query's source set.
type Source struct {
	Text  string  `json:"text"`
	URL   *string `json:"url,omitempty"`
	Index int     `json:"index"`
}
