package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"time"

	"fakeout/internal/domain"
)

// ArtSource produces the two near-identical image URLs for a round theme.
// Implementations may fail; callers always fall back to placeholders so a
// round is never blocked on an external dependency.
type ArtSource interface {
	FetchPair(ctx context.Context, theme string) (domain.ImagePair, error)
}

const artRequestTimeout = 30 * time.Second

var errTooFewImages = errors.New("art source returned fewer than two usable images")

// HTTPArtSource queries an image search API for a pair of images matching
// the theme.
type HTTPArtSource struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPArtSource creates an art source against the given search API.
func NewHTTPArtSource(baseURL, apiKey string) *HTTPArtSource {
	return &HTTPArtSource{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: artRequestTimeout},
	}
}

type artSearchResponse struct {
	Hits []struct {
		ImageURL string `json:"imageUrl"`
	} `json:"hits"`
}

// FetchPair requests theme images and uses the first two usable URLs as
// the innocent/impostor pair.
func (a *HTTPArtSource) FetchPair(ctx context.Context, theme string) (domain.ImagePair, error) {
	reqCtx, cancel := context.WithTimeout(ctx, artRequestTimeout)
	defer cancel()

	endpoint := fmt.Sprintf("%s?q=%s&per_page=5", a.baseURL, url.QueryEscape(theme))
	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.ImagePair{}, fmt.Errorf("build art request: %w", err)
	}
	if a.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+a.apiKey)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return domain.ImagePair{}, fmt.Errorf("reach art source: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.ImagePair{}, fmt.Errorf("read art response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.ImagePair{}, fmt.Errorf("art source returned status %d", resp.StatusCode)
	}

	var parsed artSearchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return domain.ImagePair{}, fmt.Errorf("parse art response: %w", err)
	}

	urls := make([]string, 0, 2)
	for _, hit := range parsed.Hits {
		if hit.ImageURL != "" {
			urls = append(urls, hit.ImageURL)
		}
		if len(urls) == 2 {
			break
		}
	}
	if len(urls) < 2 {
		return domain.ImagePair{}, errTooFewImages
	}

	return domain.ImagePair{Theme: theme, Innocent: urls[0], Impostor: urls[1]}, nil
}

// PlaceholderPair builds a deterministic pair of placeholder image URLs
// for a theme and round index. Used whenever the art source fails, and as
// the emergency substitute when the pre-fetch cache misses at round time.
func PlaceholderPair(theme string, round int) domain.ImagePair {
	return domain.ImagePair{
		Theme:    theme,
		Innocent: fmt.Sprintf("https://picsum.photos/seed/%s-%d/640/480", url.PathEscape(theme), round),
		Impostor: fmt.Sprintf("https://picsum.photos/seed/%s-%d-alt/640/480", url.PathEscape(theme), round),
	}
}

// PrefetchPairs sequentially fetches one pair per round, each call
// independently falling back to a placeholder on failure. Sequential on
// purpose: the art service rate-limits, and the match start explicitly
// awaits this cache so no round pays the latency mid-game.
func PrefetchPairs(ctx context.Context, source ArtSource, rng *rand.Rand, rounds int) []domain.ImagePair {
	pairs := make([]domain.ImagePair, 0, rounds)
	used := make([]string, 0, rounds)

	for i := 0; i < rounds; i++ {
		theme := RandomThemeExcluding(rng, used)
		used = append(used, theme)

		pair, err := source.FetchPair(ctx, theme)
		if err != nil {
			pair = PlaceholderPair(theme, i+1)
		}
		pairs = append(pairs, pair)
	}
	return pairs
}
