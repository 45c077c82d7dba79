package service

import (
	"fmt"
	"time"

	"tubepilot/internal/domain"
	"tubepilot/internal/logger"

	"github.com/expr-lang/expr"
)

// PostingFilter evaluates a project's posting filter expression against a
// candidate video. Projects use filters like "age_days <= 7" or
// "source == 'FEED' && comment_count == 0" to narrow which videos receive
// comments.
type PostingFilter interface {
	Matches(filterExpression string, video *domain.Video, commentCount int) (bool, error)
}

type postingFilter struct {
	logger logger.Logger
}

// NewPostingFilter creates an expression-based posting filter
func NewPostingFilter(log logger.Logger) PostingFilter {
	return &postingFilter{
		logger: log.With(logger.String("component", "posting_filter")),
	}
}

// Matches evaluates the expression; an empty expression matches everything
func (f *postingFilter) Matches(filterExpression string, video *domain.Video, commentCount int) (bool, error) {
	if filterExpression == "" {
		return true, nil
	}

	env := f.buildEnvironment(video, commentCount)

	program, err := expr.Compile(filterExpression, expr.Env(env))
	if err != nil {
		f.logger.Error("failed to compile posting filter",
			logger.String("expression", filterExpression),
			logger.Error(err))
		return false, fmt.Errorf("invalid posting filter: %w", err)
	}

	result, err := expr.Run(program, env)
	if err != nil {
		f.logger.Error("failed to evaluate posting filter",
			logger.String("expression", filterExpression),
			logger.Error(err))
		return false, fmt.Errorf("posting filter evaluation failed: %w", err)
	}

	boolResult, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("posting filter did not return boolean: %T", result)
	}

	return boolResult, nil
}

// buildEnvironment creates the expression environment from video attributes
func (f *postingFilter) buildEnvironment(video *domain.Video, commentCount int) map[string]interface{} {
	return map[string]interface{}{
		"title":         video.Title,
		"channel_id":    video.ChannelID,
		"source":        video.Source,
		"age_days":      video.AgeDays(time.Now()),
		"view_count":    video.ViewCount,
		"like_count":    video.LikeCount,
		"comment_count": commentCount,
	}
}
