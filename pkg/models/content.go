package models

// Content kinds returned by the aggregation endpoints.
const (
	KindVideo = "video"
	KindPost  = "post"
)

// ContentItem is one entry in the /api/videos or /api/posts payload.
// Items are built fresh on every upstream fetch or cache hit and are not
// deduplicated across sources.
type ContentItem struct {
	Kind        string `json:"kind"`
	ID          string `json:"id"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Thumbnail   string `json:"thumbnail,omitempty"`
	Image       string `json:"image,omitempty"`
	PublishedAt string `json:"publishedAt,omitempty"`
	Excerpt     string `json:"excerpt,omitempty"`
}

// ContentResponse is the JSON body for the two list endpoints.
type ContentResponse struct {
	Items []ContentItem `json:"items"`
}
