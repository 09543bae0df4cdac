package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultBaseURL = "https://www.googleapis.com/youtube/v3"
	DefaultTimeout = 20 * time.Second
)

type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient builds a metadata client. An empty baseURL selects the public
// API endpoint; a zero timeout selects DefaultTimeout.
func NewClient(apiKey, baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// FetchChannelInfo reads title and creation date of one channel.
// Zero items is not an error: it yields an empty ChannelInfo.
func (c *Client) FetchChannelInfo(ctx context.Context, channelID string) (*ChannelInfo, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	q := url.Values{}
	q.Set("part", "snippet")
	q.Set("id", channelID)
	q.Set("key", c.apiKey)
	endpoint := c.baseURL + "/channels?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		// url.Error carries the full URL, key included
		log.Errorf("YouTube request failed for channel %s", channelID)
		return nil, fmt.Errorf("%w: %s", ErrFetchFailed, redactKey(err.Error(), c.apiKey))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrFetchFailed, err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Warnf("YouTube API returned %d for channel %s", resp.StatusCode, channelID)
		return nil, &APIError{StatusCode: resp.StatusCode, Body: truncate(string(body), maxErrorBody)}
	}

	var list channelListResponse
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("%w: decode: %w", ErrFetchFailed, err)
	}

	if len(list.Items) == 0 {
		return &ChannelInfo{}, nil
	}

	snippet := list.Items[0].Snippet
	info := &ChannelInfo{}
	if snippet.Title != "" {
		title := snippet.Title
		info.Title = &title
	}
	if snippet.PublishedAt != "" {
		created, err := PublishedDate(snippet.PublishedAt)
		if err != nil {
			return nil, fmt.Errorf("%w: publishedAt %q: %w", ErrFetchFailed, snippet.PublishedAt, err)
		}
		info.DateCreated = &created
	}

	return info, nil
}

// PublishedDate converts an ISO-8601 timestamp to its calendar date, taken in
// the timestamp's own offset, as midnight UTC.
func PublishedDate(raw string) (time.Time, error) {
	t, err := dateparse.ParseIn(strings.TrimSpace(raw), time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}

// truncate keeps at most n characters of s, cutting on a rune boundary.
func truncate(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

func redactKey(s, key string) string {
	if key == "" {
		return s
	}
	return strings.ReplaceAll(s, url.QueryEscape(key), "REDACTED")
}
