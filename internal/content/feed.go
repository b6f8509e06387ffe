package content

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/failsafe-go/failsafe-go"

	"politicswithalex/api_site/pkg/clients"
	"politicswithalex/api_site/pkg/models"
)

// Feed bodies are bounded on read; anything past this is not a blog feed.
const maxFeedBodyBytes = 4 << 20

// FeedClient fetches the blog RSS feed and extracts post items from it.
type FeedClient struct {
	feedURL      string
	client       *http.Client
	httpExecutor failsafe.Executor[*http.Response]
}

type FeedOption func(*FeedClient)

func NewFeedClient(feedURL string, opts ...FeedOption) *FeedClient {
	c := &FeedClient{
		feedURL:      feedURL,
		client:       clients.DefaultHTTPClient(15 * time.Second),
		httpExecutor: clients.NewHTTPExecutor(clients.DefaultHTTPExecutorConfig()),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func WithFeedHTTPClient(httpClient *http.Client) FeedOption {
	return func(c *FeedClient) {
		if httpClient != nil {
			c.client = httpClient
		}
	}
}

// FetchLatest downloads the feed and returns up to 6 posts in feed order.
func (c *FeedClient) FetchLatest(ctx context.Context) ([]models.ContentItem, error) {
	resp, err := clients.ExecuteHTTP(ctx, c.httpExecutor, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, "GET", c.feedURL, nil)
		if err != nil {
			return nil, err
		}
		return c.client.Do(req)
	})
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("feed fetch returned status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBodyBytes))
	if err != nil {
		return nil, err
	}

	return ExtractPosts(string(body)), nil
}
