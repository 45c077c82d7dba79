package textgen

import (
	"context"
	"fmt"

	"tubepilot/internal/logger"
)

type mockGenerator struct {
	logger logger.Logger
}

// NewMockGenerator creates a generator producing canned text, for local runs
// and tests
func NewMockGenerator(log logger.Logger) Generator {
	return &mockGenerator{
		logger: log.With(logger.String("component", "textgen_mock")),
	}
}

func (m *mockGenerator) GenerateComment(ctx context.Context, video VideoContext) (string, error) {
	m.logger.Info("MOCK: generating comment",
		logger.String("video_title", video.Title),
	)
	return fmt.Sprintf("Great breakdown on %q, learned a lot!", video.Title), nil
}

func (m *mockGenerator) GenerateReplies(ctx context.Context, video VideoContext, parentText string, count int) ([]string, error) {
	m.logger.Info("MOCK: generating replies",
		logger.String("video_title", video.Title),
		logger.Int("count", count),
	)

	replies := make([]string, 0, count)
	for i := 0; i < count; i++ {
		replies = append(replies, fmt.Sprintf("Totally agree with this (%d)", i+1))
	}
	return replies, nil
}
