// Package models defines data structures for the newsrag article database.
package models

// Person is someone mentioned in a news article. Only the name is required;
// the remaining fields are free text from the source document.
type Person struct {
	Name         string  `json:"name"`
	Role         *string `json:"role,omitempty"`
	Organization *string `json:"organization,omitempty"`
	Notes        *string `json:"notes,omitempty"`
}

// Article is a news article with its header metadata. The title doubles as
// the catalog record ID, so it must be unique; adding the same title twice
// overwrites the earlier record.
type Article struct {
	Title  string   `json:"title"`
	Link   *string  `json:"link,omitempty"`
	People []Person `json:"people"`
}

// ArticleChunk is one embeddable slice of an article body. Content carries an
// "Article '<title>': " prefix so chunk text stays attributable after retrieval.
type ArticleChunk struct {
	Content      string `json:"content"`
	ArticleTitle string `json:"article_title"`
	ChunkIndex   int    `json:"chunk_index"`
}

// PersonAppearance is a person record joined with the article it came from.
// Produced by role scans where the caller needs both sides.
type PersonAppearance struct {
	Person
	ArticleTitle string  `json:"article_title"`
	ArticleLink  *string `json:"article_link,omitempty"`
}

// ArticleRef is a lightweight (title, link) pair for listings.
type ArticleRef struct {
	Title string  `json:"title"`
	Link  *string `json:"link,omitempty"`
}

// PersonFrequency aggregates one person's appearances across the catalog.
// Roles, organizations and facts are deduplicated unions over all mentions.
type PersonFrequency struct {
	Name          string       `json:"name"`
	Frequency     int          `json:"frequency"`
	Roles         []string     `json:"roles"`
	Organizations []string     `json:"organizations"`
	Facts         []string     `json:"facts"`
	Articles      []ArticleRef `json:"articles"`
}
