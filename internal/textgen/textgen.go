package textgen

import "context"

// VideoContext describes the video a comment or reply is written for
type VideoContext struct {
	Title       string
	ChannelName string
	WatchURL    string
}

// Generator produces comment and reply text for target videos
type Generator interface {
	GenerateComment(ctx context.Context, video VideoContext) (string, error)
	GenerateReplies(ctx context.Context, video VideoContext, parentText string, count int) ([]string, error)
}
