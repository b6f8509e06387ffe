package content

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"politicswithalex/api_site/pkg/models"
)

// maxItems caps every content listing, video or post.
const maxItems = 6

const maxExcerptLen = 200

var (
	imgSrcRegex     = regexp.MustCompile(`<img[^>]+src="([^">]+)"`)
	htmlTagRegex    = regexp.MustCompile(`<[^>]*>`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
)

// ExtractPosts turns raw feed markup into at most 6 post items, preserving
// document order. Items without both a title and a link are skipped and do
// not count toward the cap. Malformed markup yields an empty list, never an
// error: the caller degrades to "no posts" rather than failing the request.
func ExtractPosts(markup string) []models.ContentItem {
	feed, err := gofeed.NewParser().ParseString(markup)
	if err != nil || feed == nil {
		return []models.ContentItem{}
	}

	items := make([]models.ContentItem, 0, maxItems)
	for _, entry := range feed.Items {
		if len(items) >= maxItems {
			break
		}
		if entry == nil || entry.Title == "" || entry.Link == "" {
			continue
		}

		id := postID(entry.GUID, len(items))

		published := ""
		if entry.PublishedParsed != nil {
			published = entry.PublishedParsed.UTC().Format(time.RFC3339)
		}

		items = append(items, models.ContentItem{
			Kind:        models.KindPost,
			ID:          id,
			Title:       entry.Title,
			URL:         entry.Link,
			Image:       firstImage(entry.Content),
			PublishedAt: published,
			Excerpt:     excerpt(entry.Description),
		})
	}

	return items
}

// postID derives an id from the entry GUID, falling back to a synthetic id
// based on the item's position in the accepted output.
func postID(guid string, position int) string {
	guid = strings.TrimSpace(guid)
	if guid == "" {
		return "post-" + strconv.Itoa(position)
	}
	parts := strings.Split(guid, "/")
	return parts[len(parts)-1]
}

// firstImage returns the src of the first image reference in the embedded
// rich-content block, or "" when there is none.
func firstImage(content string) string {
	if content == "" {
		return ""
	}
	match := imgSrcRegex.FindStringSubmatch(content)
	if match == nil {
		return ""
	}
	return match[1]
}

// excerpt strips markup from the feed description and bounds its length.
func excerpt(description string) string {
	if description == "" {
		return ""
	}
	text := htmlTagRegex.ReplaceAllString(description, " ")
	text = strings.TrimSpace(whitespaceRegex.ReplaceAllString(text, " "))
	runes := []rune(text)
	if len(runes) > maxExcerptLen {
		text = strings.TrimSpace(string(runes[:maxExcerptLen])) + "…"
	}
	return text
}
