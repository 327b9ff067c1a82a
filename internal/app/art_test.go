package app

import (
	"context"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPArtSourceFetchPair(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "owl", r.URL.Query().Get("q"))
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Write([]byte(`{"hits":[{"imageUrl":"https://img/one"},{"imageUrl":""},{"imageUrl":"https://img/two"}]}`))
	}))
	defer server.Close()

	source := NewHTTPArtSource(server.URL, "test-key")
	pair, err := source.FetchPair(context.Background(), "owl")

	require.NoError(t, err)
	assert.Equal(t, "owl", pair.Theme)
	assert.Equal(t, "https://img/one", pair.Innocent)
	assert.Equal(t, "https://img/two", pair.Impostor)
}

func TestHTTPArtSourceTooFewImages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"hits":[{"imageUrl":"https://img/only"}]}`))
	}))
	defer server.Close()

	source := NewHTTPArtSource(server.URL, "")
	_, err := source.FetchPair(context.Background(), "owl")

	assert.ErrorIs(t, err, errTooFewImages)
}

func TestHTTPArtSourceServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	source := NewHTTPArtSource(server.URL, "")
	_, err := source.FetchPair(context.Background(), "owl")

	assert.Error(t, err)
}

func TestPlaceholderPairDeterministic(t *testing.T) {
	a := PlaceholderPair("owl", 2)
	b := PlaceholderPair("owl", 2)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a.Innocent, a.Impostor)
	assert.NotEqual(t, a.Innocent, PlaceholderPair("owl", 3).Innocent)
}

func TestPrefetchPairsFallsBackPerRound(t *testing.T) {
	source := &stubArtSource{broken: true}
	rng := rand.New(rand.NewSource(1))

	pairs := PrefetchPairs(context.Background(), source, rng, 4)

	require.Len(t, pairs, 4)
	assert.Equal(t, 4, source.calls)
	themes := make(map[string]bool)
	for _, pair := range pairs {
		assert.Contains(t, pair.Innocent, "picsum.photos")
		themes[pair.Theme] = true
	}
	assert.Len(t, themes, 4, "themes should not repeat within a match")
}
