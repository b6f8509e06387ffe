package content

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/failsafe-go/failsafe-go"

	"politicswithalex/api_site/pkg/clients"
	"politicswithalex/api_site/pkg/models"
)

const defaultYouTubeBaseURL = "https://www.googleapis.com/youtube/v3"

// YouTubeClient lists the most recent uploads for a channel handle via the
// YouTube Data API. Resolution is two-step: a channel search resolves the
// handle to a channel id, a second search returns the newest videos.
type YouTubeClient struct {
	baseURL       string
	apiKey        string
	channelHandle string
	client        *http.Client
	httpExecutor  failsafe.Executor[*http.Response]
}

type YouTubeOption func(*YouTubeClient)

func NewYouTubeClient(apiKey, channelHandle string, opts ...YouTubeOption) *YouTubeClient {
	c := &YouTubeClient{
		baseURL:       defaultYouTubeBaseURL,
		apiKey:        apiKey,
		channelHandle: channelHandle,
		client:        clients.DefaultHTTPClient(15 * time.Second),
		httpExecutor:  clients.NewHTTPExecutor(clients.DefaultHTTPExecutorConfig()),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func WithYouTubeBaseURL(baseURL string) YouTubeOption {
	return func(c *YouTubeClient) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

func WithYouTubeHTTPClient(httpClient *http.Client) YouTubeOption {
	return func(c *YouTubeClient) {
		if httpClient != nil {
			c.client = httpClient
		}
	}
}

type youtubeSearchResponse struct {
	Items []youtubeSearchItem `json:"items"`
}

type youtubeSearchItem struct {
	ID struct {
		ChannelID string `json:"channelId"`
		VideoID   string `json:"videoId"`
	} `json:"id"`
	Snippet struct {
		Title       string `json:"title"`
		PublishedAt string `json:"publishedAt"`
		Thumbnails  struct {
			High    youtubeThumbnail `json:"high"`
			Default youtubeThumbnail `json:"default"`
		} `json:"thumbnails"`
	} `json:"snippet"`
}

type youtubeThumbnail struct {
	URL string `json:"url"`
}

// FetchLatest returns up to 6 of the channel's newest videos, most recent
// first. An unresolvable handle yields an empty list without a second call.
func (c *YouTubeClient) FetchLatest(ctx context.Context) ([]models.ContentItem, error) {
	channelID, err := c.resolveChannelID(ctx)
	if err != nil {
		return nil, err
	}
	if channelID == "" {
		return []models.ContentItem{}, nil
	}
	return c.listVideos(ctx, channelID)
}

func (c *YouTubeClient) resolveChannelID(ctx context.Context) (string, error) {
	query := url.Values{
		"part": {"snippet"},
		"type": {"channel"},
		"q":    {c.channelHandle},
		"key":  {c.apiKey},
	}

	var result youtubeSearchResponse
	if err := c.search(ctx, query, &result); err != nil {
		return "", err
	}
	if len(result.Items) == 0 {
		return "", nil
	}
	return result.Items[0].ID.ChannelID, nil
}

func (c *YouTubeClient) listVideos(ctx context.Context, channelID string) ([]models.ContentItem, error) {
	query := url.Values{
		"part":       {"snippet"},
		"channelId":  {channelID},
		"maxResults": {strconv.Itoa(maxItems)},
		"order":      {"date"},
		"type":       {"video"},
		"key":        {c.apiKey},
	}

	var result youtubeSearchResponse
	if err := c.search(ctx, query, &result); err != nil {
		return nil, err
	}

	items := make([]models.ContentItem, 0, maxItems)
	for _, entry := range result.Items {
		if len(items) >= maxItems {
			break
		}
		if entry.ID.VideoID == "" {
			continue
		}

		thumbnail := entry.Snippet.Thumbnails.High.URL
		if thumbnail == "" {
			thumbnail = entry.Snippet.Thumbnails.Default.URL
		}

		items = append(items, models.ContentItem{
			Kind:        models.KindVideo,
			ID:          entry.ID.VideoID,
			Title:       entry.Snippet.Title,
			URL:         "https://www.youtube.com/watch?v=" + entry.ID.VideoID,
			Thumbnail:   thumbnail,
			PublishedAt: entry.Snippet.PublishedAt,
		})
	}

	return items, nil
}

func (c *YouTubeClient) search(ctx context.Context, query url.Values, out *youtubeSearchResponse) error {
	endpoint := fmt.Sprintf("%s/search?%s", c.baseURL, query.Encode())

	resp, err := clients.ExecuteHTTP(ctx, c.httpExecutor, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
		if err != nil {
			return nil, err
		}
		return c.client.Do(req)
	})
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("youtube search returned status: %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
