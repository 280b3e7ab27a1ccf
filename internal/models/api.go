package models

// QueryRequest is the body of POST /api/query.
type QueryRequest struct {
	Query     string `json:"query"`
	SessionID string `json:"session_id,omitempty"`
}

// QueryResponse is the reply to POST /api/query.
type QueryResponse struct {
	Answer    string   `json:"answer"`
	Sources   []Source `json:"sources"`
	SessionID string   `json:"session_id"`
}

// ArticleStats is the reply to GET /api/articles.
type ArticleStats struct {
	TotalArticles int      `json:"total_articles"`
	ArticleTitles []string `json:"article_titles"`
}
