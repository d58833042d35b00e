package web

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jerusalem-70-ad/jad-builder/internal/util"
	"github.com/jerusalem-70-ad/jad-builder/pkg/loader"
	"github.com/jerusalem-70-ad/jad-builder/pkg/logger"
)

// DefaultBaseURL serves the raw Baserow dump.
const DefaultBaseURL = "https://raw.githubusercontent.com/jerusalem-70-ad/jad-baserow-dump/refs/heads/main/data/"

// WebDatasetLoader fetches dataset tables over HTTP relative to a base URL.
type WebDatasetLoader struct {
	baseURL    string
	client     *http.Client
	maxRetries int
	backoff    time.Duration
	cache      *loader.Cache
}

// NewWebDatasetLoaderParams configures a WebDatasetLoader. Zero values pick
// DefaultBaseURL, a 30s client, 3 tries and util.DefaultBackoff.
type NewWebDatasetLoaderParams struct {
	BaseURL    string
	Client     *http.Client
	MaxRetries int
	Backoff    time.Duration
}

func NewWebDatasetLoader(params NewWebDatasetLoaderParams) *WebDatasetLoader {
	base := params.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	client := params.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	retries := params.MaxRetries
	if retries <= 0 {
		retries = 3
	}
	backoff := params.Backoff
	if backoff == 0 {
		backoff = util.DefaultBackoff
	}
	return &WebDatasetLoader{
		baseURL:    base,
		client:     client,
		maxRetries: retries,
		backoff:    backoff,
		cache:      loader.NewCache(),
	}
}

// Load fetches baseURL+name, retrying transient failures. Client errors
// other than 429 are not retried.
func (l *WebDatasetLoader) Load(ctx context.Context, name string) ([]byte, error) {
	url := l.baseURL + name
	return l.cache.Get(loader.CacheKey(l.Describe(), name), func() ([]byte, error) {
		return util.RetryWithContext(ctx, l.maxRetries, l.backoff, func(ctx context.Context) ([]byte, error) {
			return l.fetch(ctx, url)
		})
	})
}

func (l *WebDatasetLoader) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, util.Permanent(fmt.Errorf("failed to create request: %w", err))
	}

	resp, err := l.client.Do(req)
	if err != nil {
		logger.Debug("[Loader] Fetch failed", "url", url, "err", err)
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := fmt.Errorf("failed to fetch %s: %s", url, resp.Status)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return nil, util.Permanent(err)
		}
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", url, err)
	}
	return body, nil
}

func (l *WebDatasetLoader) Reset() {
	l.cache.Reset()
}

func (l *WebDatasetLoader) Describe() string {
	return "web:" + l.baseURL
}
