package youtube

import (
	"errors"
	"fmt"
	"time"
)

// ChannelInfo holds the two fields overlaid from the YouTube Data API.
// Both are nil when the API knows no such channel.
type ChannelInfo struct {
	Title       *string    `json:"title"`
	DateCreated *time.Time `json:"date_created"` // snippet.publishedAt, date only
}

// Wire shapes of the channels.list response (only the fields we read).
type channelListResponse struct {
	Items []channelItem `json:"items"`
}

type channelItem struct {
	ID      string         `json:"id"`
	Snippet channelSnippet `json:"snippet"`
}

type channelSnippet struct {
	Title       string `json:"title"`
	PublishedAt string `json:"publishedAt"`
}

var (
	ErrMissingAPIKey = errors.New("youtube api key is not configured")
	ErrFetchFailed   = errors.New("youtube metadata fetch failed")
)

// maxErrorBody is how much of a non-200 body is kept on APIError.
const maxErrorBody = 400

// APIError is returned for any non-200 answer from the API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("YouTube API error %d: %s", e.StatusCode, e.Body)
}
