package tavily

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/trend_radar/app/trend_radar/pkg/search"
)

func TestSearch(t *testing.T) {
	var got SearchRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tv-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"query":"kaos anak","results":[
			{"title":"Kaos Anak Terlaris","url":"https://shopee.co.id/x","content":"Dinosaurus","score":0.9}
		]}`))
	}))
	defer srv.Close()

	c := NewClient("tv-key").WithBaseURL(srv.URL)
	resp, err := c.Search(context.Background(), &search.Request{
		Query:          "kaos anak",
		IncludeDomains: []string{"shopee.co.id"},
	})
	require.NoError(t, err)

	assert.Equal(t, "basic", got.SearchDepth)
	assert.Equal(t, "general", got.Topic)
	assert.Equal(t, 5, got.MaxResults)
	assert.Equal(t, []string{"shopee.co.id"}, got.IncludeDomains)

	require.Len(t, resp.Results, 1)
	assert.Equal(t, "Kaos Anak Terlaris", resp.Results[0].Title)
	assert.Equal(t, "https://shopee.co.id/x", resp.Results[0].URL)
}

func TestSearch_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"invalid key"}`))
	}))
	defer srv.Close()

	_, err := NewClient("bad").WithBaseURL(srv.URL).Search(context.Background(), &search.Request{Query: "q"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")

	_, err = NewClient("").WithBaseURL(srv.URL).Search(context.Background(), &search.Request{Query: "q"})
	assert.ErrorContains(t, err, "api key is missing")
}
