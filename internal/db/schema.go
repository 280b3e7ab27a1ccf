package db

import "fmt"

// schemaTemplate defines the article catalog and chunk tables.
// The %d placeholders are the HNSW embedding dimensions.
const schemaTemplate = `
    -- ==========================================================================
    -- ARTICLE CATALOG TABLE
    -- ==========================================================================
    -- One record per ingested article, keyed by title. The embedding is the
    -- title embedding used for fuzzy title resolution.
    DEFINE TABLE IF NOT EXISTS article_catalog SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS title ON article_catalog TYPE string;
    DEFINE FIELD IF NOT EXISTS link ON article_catalog TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS people ON article_catalog TYPE array<object> FLEXIBLE;
    -- Note: Must REMOVE then DEFINE to ensure FLEXIBLE is set (IF NOT EXISTS won't update existing field)
    REMOVE FIELD IF EXISTS people.* ON article_catalog;
    DEFINE FIELD people.* ON article_catalog TYPE object FLEXIBLE;
    DEFINE FIELD IF NOT EXISTS embedding ON article_catalog TYPE array<float>;
    DEFINE FIELD IF NOT EXISTS created ON article_catalog TYPE datetime DEFAULT time::now();

    DEFINE INDEX IF NOT EXISTS catalog_embedding ON article_catalog FIELDS embedding HNSW DIMENSION %d DIST COSINE TYPE F32;

    -- ==========================================================================
    -- ARTICLE CHUNK TABLE
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS article_chunk SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS content ON article_chunk TYPE string;
    DEFINE FIELD IF NOT EXISTS article_title ON article_chunk TYPE string;
    DEFINE FIELD IF NOT EXISTS chunk_index ON article_chunk TYPE int;
    DEFINE FIELD IF NOT EXISTS embedding ON article_chunk TYPE array<float>;
    DEFINE FIELD IF NOT EXISTS created ON article_chunk TYPE datetime DEFAULT time::now();

    DEFINE INDEX IF NOT EXISTS chunk_article_title ON article_chunk FIELDS article_title;
    DEFINE INDEX IF NOT EXISTS chunk_embedding ON article_chunk FIELDS embedding HNSW DIMENSION %d DIST COSINE TYPE F32;
`

func schemaSQL(dimension int) string {
	return fmt.Sprintf(schemaTemplate, dimension, dimension)
}
