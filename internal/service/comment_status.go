package service

import (
	"context"
	"fmt"
	"time"

	"tubepilot/internal/domain"
	"tubepilot/internal/logger"
	"tubepilot/internal/progress"
	repository "tubepilot/internal/repository/iface"
	"tubepilot/internal/youtube"
)

// DefaultStatusCheckFetchDepth is how many ranked comment threads one status
// check pulls per video. A tracked comment absent from this window but still
// individually fetchable is classified as hidden from the top ranking.
const DefaultStatusCheckFetchDepth = 100

type commentStatusExecutor struct {
	youtube      youtube.Client
	videoRepo    repository.VideoRepository
	commentRepo  repository.CommentRepository
	snapshotRepo repository.CommentSnapshotRepository
	broadcaster  progress.Broadcaster
	fetchDepth   int
	logger       logger.Logger
}

// NewCommentStatusExecutor creates the comment status check executor
func NewCommentStatusExecutor(
	yt youtube.Client,
	videoRepo repository.VideoRepository,
	commentRepo repository.CommentRepository,
	snapshotRepo repository.CommentSnapshotRepository,
	broadcaster progress.Broadcaster,
	fetchDepth int,
	log logger.Logger,
) JobExecutor {
	if fetchDepth <= 0 {
		fetchDepth = DefaultStatusCheckFetchDepth
	}
	return &commentStatusExecutor{
		youtube:      yt,
		videoRepo:    videoRepo,
		commentRepo:  commentRepo,
		snapshotRepo: snapshotRepo,
		broadcaster:  broadcaster,
		fetchDepth:   fetchDepth,
		logger:       log.With(logger.String("component", "comment_status_executor")),
	}
}

// Execute refreshes visibility, rank and reach for every tracked comment on
// the project, then verifies posted replies by direct lookup
func (e *commentStatusExecutor) Execute(ctx context.Context, job *domain.ScheduledJob) error {
	comments, err := e.commentRepo.ListVisibleTopLevel(ctx, job.ProjectID)
	if err != nil {
		return fmt.Errorf("failed to list tracked comments: %w", err)
	}

	byVideo := make(map[string][]*domain.Comment)
	for _, comment := range comments {
		byVideo[comment.VideoID] = append(byVideo[comment.VideoID], comment)
	}

	jobName := job.JobType.DisplayName()
	failed := 0
	done := 0

	for videoID, tracked := range byVideo {
		e.broadcaster.Broadcast(ctx, job.UserID, job.JobID, progress.Update{
			JobName:    jobName,
			Message:    fmt.Sprintf("Checking %d comments", len(tracked)),
			Percentage: done * 100 / len(byVideo),
			Status:     progress.StatusRunning,
		})

		if err := e.checkVideo(ctx, videoID, tracked); err != nil {
			failed++
			e.logger.Error("status check failed for video",
				logger.String("video_id", videoID),
				logger.Error(err))
		}
		done++
	}

	if err := e.checkPostedReplies(ctx, job.ProjectID); err != nil {
		e.logger.Error("reply status check failed", logger.Error(err))
		failed++
	}

	if failed > 0 {
		// Per-comment failures are local; the run itself completes
		e.logger.Warn("status check had failures", logger.Int("failed", failed))
	}

	e.broadcaster.Broadcast(ctx, job.UserID, job.JobID, progress.Update{
		JobName:    jobName,
		Message:    fmt.Sprintf("Checked %d comments", len(comments)),
		Percentage: 100,
		Status:     progress.StatusCompleted,
	})

	return nil
}

// checkVideo fetches the ranked comment window once per video and classifies
// every tracked comment against it
func (e *commentStatusExecutor) checkVideo(ctx context.Context, videoID string, tracked []*domain.Comment) error {
	video, err := e.videoRepo.GetByID(ctx, videoID)
	if err != nil {
		return fmt.Errorf("failed to load video: %w", err)
	}

	meta, err := e.youtube.FetchVideoMetadata(ctx, video.YoutubeID)
	if err != nil {
		if youtube.IsNotFound(err) {
			// Video gone: every tracked comment on it is gone too
			for _, comment := range tracked {
				e.markRemoved(ctx, comment)
			}
			return nil
		}
		return fmt.Errorf("failed to fetch video metadata: %w", err)
	}

	ranked, err := e.youtube.FetchVideoComments(ctx, video.YoutubeID, youtube.OrderRelevance, e.fetchDepth)
	if err != nil {
		return fmt.Errorf("failed to fetch ranked comments: %w", err)
	}

	// Rank positions count top-level comments only; replies ride along in the
	// listing with ParentID set and feed the opportunistic import below
	ranks := make(map[string]int, len(ranked))
	likes := make(map[string]int, len(ranked))
	repliesByParent := make(map[string][]youtube.RemoteComment)
	pos := 0
	for _, rc := range ranked {
		if rc.ParentID != "" {
			repliesByParent[rc.ParentID] = append(repliesByParent[rc.ParentID], rc)
			continue
		}
		pos++
		ranks[rc.CommentID] = pos
		likes[rc.CommentID] = rc.LikeCount
	}

	for _, comment := range tracked {
		if err := e.checkComment(ctx, comment, video, meta, ranks, likes, repliesByParent); err != nil {
			e.logger.Error("failed to check comment",
				logger.String("comment_id", comment.CommentID),
				logger.Error(err))
		}
	}

	// Persist the fresh view count so the next delta baseline is current
	video.ViewCount = meta.ViewCount
	video.LikeCount = meta.LikeCount
	video.CommentCount = meta.CommentCount
	video.FetchedAt = time.Now().UnixMilli()
	if err := e.videoRepo.Update(ctx, video); err != nil {
		e.logger.Error("failed to update video stats", logger.Error(err))
	}

	return nil
}

func (e *commentStatusExecutor) checkComment(
	ctx context.Context,
	comment *domain.Comment,
	video *domain.Video,
	meta *youtube.VideoMetadata,
	ranks map[string]int,
	likes map[string]int,
	repliesByParent map[string][]youtube.RemoteComment,
) error {
	rank, inTop := ranks[comment.YoutubeCommentID]

	switch {
	case inTop:
		comment.Status = domain.CommentStatusVisible
		comment.Rank = rank
		comment.LikeCount = int64(likes[comment.YoutubeCommentID])
	default:
		// Not in the ranked window: distinguish hidden from removed by
		// fetching the comment directly
		remote, err := e.youtube.FetchCommentByID(ctx, comment.YoutubeCommentID)
		if err != nil {
			if youtube.IsNotFound(err) {
				e.markRemoved(ctx, comment)
				return nil
			}
			return fmt.Errorf("failed to fetch comment: %w", err)
		}
		comment.Status = domain.CommentStatusHidden
		comment.Rank = 0
		comment.LikeCount = int64(remote.LikeCount)
	}

	comment.UpdatedAt = time.Now().UnixMilli()
	if err := e.commentRepo.Update(ctx, comment); err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}

	// Snapshots track the ranked series only; hidden comments get none
	if !inTop {
		return nil
	}

	// View delta baseline: the previous snapshot's view count, or the video's
	// last stored count when this is the first snapshot
	baseline := video.ViewCount
	if prev, err := e.snapshotRepo.GetLatestByComment(ctx, comment.CommentID); err == nil {
		baseline = prev.ViewCount
	} else if !repository.IsNotFoundError(err) {
		return fmt.Errorf("failed to load previous snapshot: %w", err)
	}

	viewDelta := meta.ViewCount - baseline
	if viewDelta < 0 {
		viewDelta = 0
	}

	snapshot := domain.NewCommentSnapshot(
		comment.CommentID,
		comment.Rank,
		comment.LikeCount,
		meta.ViewCount,
		viewDelta,
		EstimateReach(viewDelta, comment.Rank),
	)
	if err := e.snapshotRepo.Create(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to store snapshot: %w", err)
	}

	e.importNewReplies(ctx, comment, repliesByParent[comment.YoutubeCommentID])

	return nil
}

// importNewReplies adopts replies that appeared under a tracked top-ranked
// comment and are not yet known locally
func (e *commentStatusExecutor) importNewReplies(ctx context.Context, parent *domain.Comment, replies []youtube.RemoteComment) {
	for _, rc := range replies {
		known, err := e.commentRepo.ExistsByYoutubeCommentID(ctx, parent.VideoID, rc.CommentID)
		if err != nil {
			e.logger.Error("failed to check reply existence",
				logger.String("youtube_comment_id", rc.CommentID),
				logger.Error(err))
			continue
		}
		if known {
			continue
		}

		imported := domain.NewComment(parent.ProjectID, parent.VideoID, "", rc.Text, domain.CommentPostTypeViaSmm)
		imported.ParentID = parent.CommentID
		imported.YoutubeCommentID = rc.CommentID
		imported.LikeCount = int64(rc.LikeCount)
		imported.AuthorDisplayName = rc.AuthorDisplayName
		imported.AuthorAvatarURL = rc.AuthorAvatarURL

		if err := e.commentRepo.Create(ctx, imported); err != nil {
			e.logger.Error("failed to import reply",
				logger.String("youtube_comment_id", rc.CommentID),
				logger.Error(err))
		}
	}
}

// checkPostedReplies verifies replies the system posted by direct lookup;
// replies are never ranked, so presence is the only question
func (e *commentStatusExecutor) checkPostedReplies(ctx context.Context, projectID string) error {
	replies, err := e.commentRepo.ListPostedReplies(ctx, projectID)
	if err != nil {
		return fmt.Errorf("failed to list posted replies: %w", err)
	}

	for _, reply := range replies {
		remote, err := e.youtube.FetchCommentByID(ctx, reply.YoutubeCommentID)
		if err != nil {
			if youtube.IsNotFound(err) {
				e.markRemoved(ctx, reply)
				continue
			}
			if youtube.IsForbidden(err) {
				// Blocked but not deleted, typically a holds-for-review state
				reply.Status = domain.CommentStatusHidden
				reply.UpdatedAt = time.Now().UnixMilli()
				if err := e.commentRepo.Update(ctx, reply); err != nil {
					e.logger.Error("failed to update reply",
						logger.String("comment_id", reply.CommentID),
						logger.Error(err))
				}
				continue
			}
			e.logger.Error("failed to fetch reply",
				logger.String("comment_id", reply.CommentID),
				logger.Error(err))
			continue
		}

		reply.Status = domain.CommentStatusVisible
		reply.LikeCount = int64(remote.LikeCount)
		reply.UpdatedAt = time.Now().UnixMilli()
		if err := e.commentRepo.Update(ctx, reply); err != nil {
			e.logger.Error("failed to update reply",
				logger.String("comment_id", reply.CommentID),
				logger.Error(err))
		}
	}

	return nil
}

func (e *commentStatusExecutor) markRemoved(ctx context.Context, comment *domain.Comment) {
	comment.Status = domain.CommentStatusRemoved
	comment.Rank = 0
	comment.UpdatedAt = time.Now().UnixMilli()
	if err := e.commentRepo.Update(ctx, comment); err != nil {
		e.logger.Error("failed to mark comment removed",
			logger.String("comment_id", comment.CommentID),
			logger.Error(err))
	}
}
