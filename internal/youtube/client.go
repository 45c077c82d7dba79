package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"tubepilot/internal/logger"
)

const (
	defaultAPIBaseURL  = "https://www.googleapis.com/youtube/v3"
	defaultFeedBaseURL = "https://www.youtube.com/feeds/videos.xml"

	videoIDPrefix = "yt:video:"
)

// Config holds YouTube client settings
type Config struct {
	APIKey      string
	APIBaseURL  string
	FeedBaseURL string
	Timeout     time.Duration
}

type httpClient struct {
	apiKey      string
	apiBaseURL  string
	feedBaseURL string
	http        *http.Client
	logger      logger.Logger
}

// NewClient creates a YouTube client over the Data API and public feeds
func NewClient(cfg Config, log logger.Logger) Client {
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = defaultAPIBaseURL
	}
	if cfg.FeedBaseURL == "" {
		cfg.FeedBaseURL = defaultFeedBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &httpClient{
		apiKey:      cfg.APIKey,
		apiBaseURL:  cfg.APIBaseURL,
		feedBaseURL: cfg.FeedBaseURL,
		http:        &http.Client{Timeout: cfg.Timeout},
		logger:      log.With(logger.String("component", "youtube_client")),
	}
}

type feedEntry struct {
	ID        string `xml:"id"`
	Title     string `xml:"title"`
	Published string `xml:"published"`
	Author    struct {
		Name string `xml:"name"`
	} `xml:"author"`
}

type feedDocument struct {
	XMLName xml.Name    `xml:"feed"`
	Entries []feedEntry `xml:"entry"`
}

func (c *httpClient) FetchChannelFeed(ctx context.Context, channelID string) ([]FeedVideo, error) {
	feedURL := fmt.Sprintf("%s?channel_id=%s", c.feedBaseURL, url.QueryEscape(channelID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build feed request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("feed request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError(resp.StatusCode, "feed")
	}

	var doc feedDocument
	if err := xml.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse feed xml: %w", err)
	}

	videos := make([]FeedVideo, 0, len(doc.Entries))
	for _, entry := range doc.Entries {
		videoID := strings.TrimPrefix(entry.ID, videoIDPrefix)
		if videoID == entry.ID {
			// Not a video entry
			continue
		}

		videos = append(videos, FeedVideo{
			VideoID:      videoID,
			ChannelID:    channelID,
			ChannelTitle: entry.Author.Name,
			Title:        entry.Title,
			PublishedAt:  parseTimestamp(entry.Published),
		})
	}

	c.logger.Debug("fetched channel feed",
		logger.String("channel_id", channelID),
		logger.Int("entries", len(videos)))

	return videos, nil
}

type commentSnippet struct {
	VideoID           string `json:"videoId"`
	ParentID          string `json:"parentId"`
	TextDisplay       string `json:"textDisplay"`
	TextOriginal      string `json:"textOriginal"`
	AuthorDisplayName string `json:"authorDisplayName"`
	AuthorImageURL    string `json:"authorProfileImageUrl"`
	LikeCount         int    `json:"likeCount"`
}

type commentResource struct {
	ID      string         `json:"id"`
	Snippet commentSnippet `json:"snippet"`
}

type commentThreadResource struct {
	ID      string `json:"id"`
	Snippet struct {
		VideoID         string          `json:"videoId"`
		TopLevelComment commentResource `json:"topLevelComment"`
	} `json:"snippet"`
	Replies struct {
		Comments []commentResource `json:"comments"`
	} `json:"replies"`
}

type commentThreadListResponse struct {
	Items []commentThreadResource `json:"items"`
}

func (c *httpClient) FetchVideoComments(ctx context.Context, videoID, order string, maxResults int) ([]RemoteComment, error) {
	if order == "" {
		order = OrderRelevance
	}
	if maxResults <= 0 || maxResults > 100 {
		maxResults = 100
	}

	params := url.Values{}
	params.Set("part", "snippet,replies")
	params.Set("videoId", videoID)
	params.Set("order", order)
	params.Set("maxResults", strconv.Itoa(maxResults))
	params.Set("textFormat", "plainText")
	params.Set("key", c.apiKey)

	var out commentThreadListResponse
	if err := c.getJSON(ctx, "/commentThreads", params, &out); err != nil {
		return nil, err
	}

	// Threads preserve the requested order; replies ride along after their
	// parent with ParentID set so callers can tell the levels apart
	comments := make([]RemoteComment, 0, len(out.Items))
	for _, item := range out.Items {
		top := remoteFromResource(item.Snippet.TopLevelComment, item.Snippet.VideoID)
		comments = append(comments, top)

		for _, res := range item.Replies.Comments {
			reply := remoteFromResource(res, item.Snippet.VideoID)
			if reply.ParentID == "" {
				reply.ParentID = top.CommentID
			}
			comments = append(comments, reply)
		}
	}

	return comments, nil
}

type commentListResponse struct {
	Items []commentResource `json:"items"`
}

func (c *httpClient) FetchCommentByID(ctx context.Context, commentID string) (*RemoteComment, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("id", commentID)
	params.Set("textFormat", "plainText")
	params.Set("key", c.apiKey)

	var out commentListResponse
	if err := c.getJSON(ctx, "/comments", params, &out); err != nil {
		return nil, err
	}

	if len(out.Items) == 0 {
		return nil, fmt.Errorf("%w: comment %s", ErrNotFound, commentID)
	}

	comment := remoteFromResource(out.Items[0], out.Items[0].Snippet.VideoID)
	return &comment, nil
}

func (c *httpClient) PostComment(ctx context.Context, accessToken, videoID, text string) (*RemoteComment, error) {
	body := map[string]interface{}{
		"snippet": map[string]interface{}{
			"videoId": videoID,
			"topLevelComment": map[string]interface{}{
				"snippet": map[string]interface{}{
					"textOriginal": text,
				},
			},
		},
	}

	var out commentThreadResource
	if err := c.postJSON(ctx, "/commentThreads?part=snippet", accessToken, body, &out); err != nil {
		return nil, err
	}

	comment := remoteFromResource(out.Snippet.TopLevelComment, videoID)
	return &comment, nil
}

func (c *httpClient) PostReply(ctx context.Context, accessToken, parentCommentID, text string) (*RemoteComment, error) {
	body := map[string]interface{}{
		"snippet": map[string]interface{}{
			"parentId":     parentCommentID,
			"textOriginal": text,
		},
	}

	var out commentResource
	if err := c.postJSON(ctx, "/comments?part=snippet", accessToken, body, &out); err != nil {
		return nil, err
	}

	comment := remoteFromResource(out, out.Snippet.VideoID)
	return &comment, nil
}

type videoListResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title        string `json:"title"`
			ChannelID    string `json:"channelId"`
			ChannelTitle string `json:"channelTitle"`
			PublishedAt  string `json:"publishedAt"`
		} `json:"snippet"`
		Statistics struct {
			ViewCount    string `json:"viewCount"`
			LikeCount    string `json:"likeCount"`
			CommentCount string `json:"commentCount"`
		} `json:"statistics"`
	} `json:"items"`
}

func (c *httpClient) FetchVideoMetadata(ctx context.Context, videoID string) (*VideoMetadata, error) {
	params := url.Values{}
	params.Set("part", "snippet,statistics")
	params.Set("id", videoID)
	params.Set("key", c.apiKey)

	var out videoListResponse
	if err := c.getJSON(ctx, "/videos", params, &out); err != nil {
		return nil, err
	}

	if len(out.Items) == 0 {
		return nil, fmt.Errorf("%w: video %s", ErrNotFound, videoID)
	}

	item := out.Items[0]
	return &VideoMetadata{
		VideoID:      item.ID,
		Title:        item.Snippet.Title,
		ChannelID:    item.Snippet.ChannelID,
		ChannelTitle: item.Snippet.ChannelTitle,
		ViewCount:    parseCount(item.Statistics.ViewCount),
		LikeCount:    parseCount(item.Statistics.LikeCount),
		CommentCount: parseCount(item.Statistics.CommentCount),
		PublishedAt:  parseTimestamp(item.Snippet.PublishedAt),
	}, nil
}

func (c *httpClient) getJSON(ctx context.Context, path string, params url.Values, out interface{}) error {
	reqURL := c.apiBaseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.statusError(resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

func (c *httpClient) postJSON(ctx context.Context, path, accessToken string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return c.statusError(resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

func (c *httpClient) statusError(status int, path string) error {
	switch status {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s returned %d", ErrUnauthorized, path, status)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %s returned %d", ErrForbidden, path, status)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s returned %d", ErrNotFound, path, status)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s returned %d", ErrRateLimited, path, status)
	default:
		if status >= 500 {
			return fmt.Errorf("%w: %s returned %d", ErrServer, path, status)
		}
		return fmt.Errorf("youtube: %s returned unexpected status %d", path, status)
	}
}

func remoteFromResource(res commentResource, videoID string) RemoteComment {
	text := res.Snippet.TextOriginal
	if text == "" {
		text = res.Snippet.TextDisplay
	}

	return RemoteComment{
		CommentID:         res.ID,
		ParentID:          res.Snippet.ParentID,
		VideoID:           videoID,
		Text:              text,
		AuthorDisplayName: res.Snippet.AuthorDisplayName,
		AuthorAvatarURL:   res.Snippet.AuthorImageURL,
		LikeCount:         res.Snippet.LikeCount,
	}
}

func parseTimestamp(value string) int64 {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return 0
	}
	return t.UnixMilli()
}

func parseCount(value string) int64 {
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
