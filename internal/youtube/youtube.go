package youtube

import "context"

// Comment ordering for thread listing
const (
	OrderRelevance = "relevance"
	OrderTime      = "time"
)

// FeedVideo is one entry from a channel's upload feed
type FeedVideo struct {
	VideoID      string
	ChannelID    string
	ChannelTitle string
	Title        string
	PublishedAt  int64
}

// RemoteComment is a comment as YouTube reports it
type RemoteComment struct {
	CommentID         string
	ParentID          string
	VideoID           string
	Text              string
	AuthorDisplayName string
	AuthorAvatarURL   string
	LikeCount         int
}

// VideoMetadata holds the statistics and details fetched for one video
type VideoMetadata struct {
	VideoID      string
	Title        string
	ChannelID    string
	ChannelTitle string
	ViewCount    int64
	LikeCount    int64
	CommentCount int64
	PublishedAt  int64
}

// Client is the YouTube adapter used by the job executors
type Client interface {
	// FetchChannelFeed reads a channel's public upload feed, newest first
	FetchChannelFeed(ctx context.Context, channelID string) ([]FeedVideo, error)

	// FetchVideoComments lists top-level comment threads for a video in the
	// given order, up to maxResults
	FetchVideoComments(ctx context.Context, videoID, order string, maxResults int) ([]RemoteComment, error)

	// FetchCommentByID looks up a single comment
	FetchCommentByID(ctx context.Context, commentID string) (*RemoteComment, error)

	// PostComment publishes a top-level comment as the given account
	PostComment(ctx context.Context, accessToken, videoID, text string) (*RemoteComment, error)

	// PostReply publishes a reply under an existing comment
	PostReply(ctx context.Context, accessToken, parentCommentID, text string) (*RemoteComment, error)

	// FetchVideoMetadata fetches statistics for one video
	FetchVideoMetadata(ctx context.Context, videoID string) (*VideoMetadata, error)
}
