package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raphaelgruber/newsrag/internal/client"
	"github.com/raphaelgruber/newsrag/internal/models"
)

func TestQuery(t *testing.T) {
	var gotReq models.QueryRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/query", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		json.NewEncoder(w).Encode(models.QueryResponse{
			Answer:    "The mayor resigned.",
			Sources:   []models.Source{{Text: "Article: Mayor Resigns", Index: 1}},
			SessionID: "session-1",
		})
	}))
	defer srv.Close()

	c := client.New(srv.URL)
	resp, err := c.Query(context.Background(), "What happened?", "session-1")
	require.NoError(t, err)

	assert.Equal(t, "What happened?", gotReq.Query)
	assert.Equal(t, "session-1", gotReq.SessionID)
	assert.Equal(t, "The mayor resigned.", resp.Answer)
	require.Len(t, resp.Sources, 1)
}

func TestQueryServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "model unavailable"})
	}))
	defer srv.Close()

	_, err := client.New(srv.URL).Query(context.Background(), "anything", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model unavailable")
}

func TestArticles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/articles", r.URL.Path)
		json.NewEncoder(w).Encode(models.ArticleStats{
			TotalArticles: 2,
			ArticleTitles: []string{"Alpha", "Beta"},
		})
	}))
	defer srv.Close()

	stats, err := client.New(srv.URL).Articles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalArticles)
	assert.Equal(t, []string{"Alpha", "Beta"}, stats.ArticleTitles)
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	defer srv.Close()

	assert.NoError(t, client.New(srv.URL).Health(context.Background()))
}
