package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"tubepilot/internal/domain"
	"tubepilot/internal/logger"
	"tubepilot/internal/progress"
	repository "tubepilot/internal/repository/iface"
	"tubepilot/internal/textgen"
	"tubepilot/internal/youtube"
)

// DefaultInterReplyDelay spaces out consecutive replies under one comment
const DefaultInterReplyDelay = 2 * time.Second

type replyPostingExecutor struct {
	youtube         youtube.Client
	generator       textgen.Generator
	commentRepo     repository.CommentRepository
	videoRepo       repository.VideoRepository
	accountRepo     repository.GoogleAccountRepository
	broadcaster     progress.Broadcaster
	interReplyDelay time.Duration
	logger          logger.Logger
}

// NewReplyPostingExecutor creates the reply posting executor
func NewReplyPostingExecutor(
	yt youtube.Client,
	generator textgen.Generator,
	commentRepo repository.CommentRepository,
	videoRepo repository.VideoRepository,
	accountRepo repository.GoogleAccountRepository,
	broadcaster progress.Broadcaster,
	interReplyDelay time.Duration,
	log logger.Logger,
) JobExecutor {
	if interReplyDelay < 0 {
		interReplyDelay = DefaultInterReplyDelay
	}
	return &replyPostingExecutor{
		youtube:         yt,
		generator:       generator,
		commentRepo:     commentRepo,
		videoRepo:       videoRepo,
		accountRepo:     accountRepo,
		broadcaster:     broadcaster,
		interReplyDelay: interReplyDelay,
		logger:          log.With(logger.String("component", "reply_posting_executor")),
	}
}

// Execute posts the requested number of replies under one tracked comment,
// each from a distinct account
func (e *replyPostingExecutor) Execute(ctx context.Context, job *domain.ScheduledJob) error {
	if job.Options.CommentID == "" {
		return fmt.Errorf("reply posting requires a comment_id")
	}

	numReplies := job.Options.NumReplies
	if numReplies <= 0 {
		numReplies = 1
	}

	parent, err := e.commentRepo.GetByID(ctx, job.Options.CommentID)
	if err != nil {
		return fmt.Errorf("failed to load parent comment: %w", err)
	}
	if parent.YoutubeCommentID == "" {
		return fmt.Errorf("parent comment %s was never published", parent.CommentID)
	}

	video, err := e.videoRepo.GetByID(ctx, parent.VideoID)
	if err != nil {
		return fmt.Errorf("failed to load video: %w", err)
	}

	accounts, err := e.selectAccounts(ctx, job, numReplies)
	if err != nil {
		return err
	}
	if len(accounts) == 0 {
		return ErrNoUsableAccounts
	}
	if len(accounts) < numReplies {
		e.logger.Warn("fewer accounts than requested replies",
			logger.Int("requested", numReplies),
			logger.Int("available", len(accounts)))
		numReplies = len(accounts)
	}

	texts, err := e.generator.GenerateReplies(ctx, textgen.VideoContext{
		Title:    video.Title,
		WatchURL: video.WatchURL(),
	}, parent.Text, numReplies)
	if err != nil {
		return fmt.Errorf("failed to generate replies: %w", err)
	}

	jobName := job.JobType.DisplayName()
	posted := 0

	for i := 0; i < numReplies && i < len(texts); i++ {
		e.broadcaster.Broadcast(ctx, job.UserID, job.JobID, progress.Update{
			JobName:    jobName,
			Message:    fmt.Sprintf("Posting reply %d of %d", i+1, numReplies),
			Percentage: i * 100 / numReplies,
			Status:     progress.StatusRunning,
		})

		account := accounts[i]
		remote, err := e.youtube.PostReply(ctx, account.AccessToken, parent.YoutubeCommentID, texts[i])
		if err != nil {
			if youtube.IsUnauthorized(err) {
				account.MarkUnauthorized()
				if updateErr := e.accountRepo.Update(ctx, account); updateErr != nil {
					e.logger.Error("failed to persist account status", logger.Error(updateErr))
				}
				e.logger.Warn("account token rejected, skipping reply",
					logger.String("account_id", account.AccountID))
				continue
			}
			return fmt.Errorf("failed to post reply: %w", err)
		}

		reply := domain.NewComment(parent.ProjectID, parent.VideoID, account.AccountID, texts[i], domain.CommentPostTypeViaAPI)
		reply.ParentID = parent.CommentID
		reply.YoutubeCommentID = remote.CommentID
		reply.AuthorDisplayName = account.DisplayName
		if err := e.commentRepo.Create(ctx, reply); err != nil {
			return fmt.Errorf("failed to store reply: %w", err)
		}
		posted++

		if i < numReplies-1 {
			if err := sleepCtx(ctx, e.interReplyDelay); err != nil {
				return err
			}
		}
	}

	if posted == 0 {
		return ErrNoUsableAccounts
	}

	e.broadcaster.Broadcast(ctx, job.UserID, job.JobID, progress.Update{
		JobName:    jobName,
		Message:    fmt.Sprintf("Posted %d replies", posted),
		Percentage: 100,
		Status:     progress.StatusCompleted,
	})

	return nil
}

// selectAccounts resolves the posting accounts: the explicit list when given,
// otherwise the user's usable pool, shuffled when random selection was asked
func (e *replyPostingExecutor) selectAccounts(ctx context.Context, job *domain.ScheduledJob, needed int) ([]*domain.GoogleAccount, error) {
	if len(job.Options.AccountIDs) > 0 {
		accounts := make([]*domain.GoogleAccount, 0, len(job.Options.AccountIDs))
		for _, accountID := range job.Options.AccountIDs {
			account, err := e.accountRepo.GetByID(ctx, accountID)
			if err != nil {
				if repository.IsNotFoundError(err) {
					e.logger.Warn("requested account not found", logger.String("account_id", accountID))
					continue
				}
				return nil, fmt.Errorf("failed to load account: %w", err)
			}
			if account.Usable() {
				accounts = append(accounts, account)
			}
		}
		return accounts, nil
	}

	accounts, err := e.accountRepo.ListUsableByUser(ctx, job.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	if job.Options.RandomSelection {
		rand.Shuffle(len(accounts), func(i, j int) {
			accounts[i], accounts[j] = accounts[j], accounts[i]
		})
	}

	if len(accounts) > needed {
		accounts = accounts[:needed]
	}
	return accounts, nil
}
