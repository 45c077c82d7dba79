package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"tubepilot/internal/domain"
	"tubepilot/internal/logger"
	"tubepilot/internal/progress"
	repository "tubepilot/internal/repository/iface"
	"tubepilot/internal/smm"
	"tubepilot/internal/textgen"
	"tubepilot/internal/youtube"
)

// DefaultInterPostDelay spaces out consecutive API posts so a posting run
// does not look like a burst
const DefaultInterPostDelay = 4 * time.Second

// ErrNoUsableAccounts is the terminal posting failure: every linked account
// was rejected or none were linked to begin with
var ErrNoUsableAccounts = errors.New("no usable posting accounts")

type commentPostingExecutor struct {
	youtube        youtube.Client
	panel          smm.Panel
	generator      textgen.Generator
	filter         PostingFilter
	projectRepo    repository.ProjectRepository
	videoRepo      repository.VideoRepository
	commentRepo    repository.CommentRepository
	accountRepo    repository.GoogleAccountRepository
	credentialRepo repository.SmmCredentialRepository
	orderRepo      repository.SmmOrderRepository
	broadcaster    progress.Broadcaster
	interPostDelay time.Duration
	logger         logger.Logger
}

// NewCommentPostingExecutor creates the comment posting executor
func NewCommentPostingExecutor(
	yt youtube.Client,
	panel smm.Panel,
	generator textgen.Generator,
	filter PostingFilter,
	projectRepo repository.ProjectRepository,
	videoRepo repository.VideoRepository,
	commentRepo repository.CommentRepository,
	accountRepo repository.GoogleAccountRepository,
	credentialRepo repository.SmmCredentialRepository,
	orderRepo repository.SmmOrderRepository,
	broadcaster progress.Broadcaster,
	interPostDelay time.Duration,
	log logger.Logger,
) JobExecutor {
	if interPostDelay < 0 {
		interPostDelay = DefaultInterPostDelay
	}
	return &commentPostingExecutor{
		youtube:        yt,
		panel:          panel,
		generator:      generator,
		filter:         filter,
		projectRepo:    projectRepo,
		videoRepo:      videoRepo,
		commentRepo:    commentRepo,
		accountRepo:    accountRepo,
		credentialRepo: credentialRepo,
		orderRepo:      orderRepo,
		broadcaster:    broadcaster,
		interPostDelay: interPostDelay,
		logger:         log.With(logger.String("component", "comment_posting_executor")),
	}
}

// Execute posts one comment on every uncommented target video, through the
// project's configured channel
func (e *commentPostingExecutor) Execute(ctx context.Context, job *domain.ScheduledJob) error {
	project, err := e.projectRepo.GetByID(ctx, job.ProjectID)
	if err != nil {
		return fmt.Errorf("failed to load project: %w", err)
	}

	targets, err := e.selectTargets(ctx, project, job.Options.VideoIDs)
	if err != nil {
		return err
	}

	if len(targets) == 0 {
		e.logger.Info("no posting targets", logger.String("project_id", job.ProjectID))
		return nil
	}

	if project.PostsViaSmm() {
		return e.postViaPanel(ctx, job, project, targets)
	}
	return e.postViaAPI(ctx, job, project, targets)
}

// selectTargets returns the videos to comment on: the explicit list when the
// job carries one, otherwise every project video without a tracked comment,
// narrowed by the project's posting filter
func (e *commentPostingExecutor) selectTargets(ctx context.Context, project *domain.Project, explicit []string) ([]*domain.Video, error) {
	var candidates []*domain.Video

	if len(explicit) > 0 {
		for _, videoID := range explicit {
			video, err := e.videoRepo.GetByID(ctx, videoID)
			if err != nil {
				if repository.IsNotFoundError(err) {
					e.logger.Warn("target video not found", logger.String("video_id", videoID))
					continue
				}
				return nil, fmt.Errorf("failed to load video: %w", err)
			}
			candidates = append(candidates, video)
		}
	} else {
		videos, err := e.videoRepo.ListByProject(ctx, project.ProjectID)
		if err != nil {
			return nil, fmt.Errorf("failed to list videos: %w", err)
		}

		commented, err := e.commentRepo.ListVideoIDsWithComments(ctx, project.ProjectID)
		if err != nil {
			return nil, fmt.Errorf("failed to list commented videos: %w", err)
		}
		commentedSet := make(map[string]struct{}, len(commented))
		for _, id := range commented {
			commentedSet[id] = struct{}{}
		}

		for _, video := range videos {
			if _, done := commentedSet[video.VideoID]; !done {
				candidates = append(candidates, video)
			}
		}
	}

	targets := make([]*domain.Video, 0, len(candidates))
	for _, video := range candidates {
		ok, err := e.filter.Matches(project.PostingFilter, video, int(video.CommentCount))
		if err != nil {
			return nil, fmt.Errorf("posting filter rejected project config: %w", err)
		}
		if ok {
			targets = append(targets, video)
		}
	}

	return targets, nil
}

// postViaAPI posts as the owner's linked accounts, rotating through the pool
// and shrinking it when an account's token is rejected
func (e *commentPostingExecutor) postViaAPI(ctx context.Context, job *domain.ScheduledJob, project *domain.Project, targets []*domain.Video) error {
	accounts, err := e.accountRepo.ListUsableByUser(ctx, project.OwnerUserID)
	if err != nil {
		return fmt.Errorf("failed to list accounts: %w", err)
	}
	if len(accounts) == 0 {
		return ErrNoUsableAccounts
	}

	jobName := job.JobType.DisplayName()
	next := 0
	posted := 0

	for i, video := range targets {
		e.broadcaster.Broadcast(ctx, job.UserID, job.JobID, progress.Update{
			JobName:    jobName,
			Message:    fmt.Sprintf("Posting on %q", video.Title),
			Percentage: i * 100 / len(targets),
			Status:     progress.StatusRunning,
		})

		text, err := e.generator.GenerateComment(ctx, textgen.VideoContext{
			Title:    video.Title,
			WatchURL: video.WatchURL(),
		})
		if err != nil {
			// No content produced: skip this video
			e.logger.Warn("comment generation failed, skipping video",
				logger.String("video_id", video.VideoID),
				logger.Error(err))
			continue
		}

		var remote *youtube.RemoteComment
		var account *domain.GoogleAccount

		// Try accounts until one posts or the pool runs dry. A rejected
		// token drops its account from this run and from future runs.
		for len(accounts) > 0 {
			account = accounts[next%len(accounts)]

			remote, err = e.youtube.PostComment(ctx, account.AccessToken, video.YoutubeID, text)
			if err == nil {
				next++
				break
			}

			if youtube.IsUnauthorized(err) {
				e.logger.Warn("account token rejected, dropping from pool",
					logger.String("account_id", account.AccountID))
				account.MarkUnauthorized()
				if updateErr := e.accountRepo.Update(ctx, account); updateErr != nil {
					e.logger.Error("failed to persist account status", logger.Error(updateErr))
				}
				accounts = removeAccount(accounts, account.AccountID)
				continue
			}

			// Transient API failure costs only this video
			e.logger.Error("failed to post comment, skipping video",
				logger.String("video_id", video.VideoID),
				logger.Error(err))
			break
		}

		if len(accounts) == 0 {
			return ErrNoUsableAccounts
		}
		if remote == nil {
			continue
		}

		comment := domain.NewComment(project.ProjectID, video.VideoID, account.AccountID, text, domain.CommentPostTypeViaAPI)
		comment.YoutubeCommentID = remote.CommentID
		comment.AuthorDisplayName = account.DisplayName
		if err := e.commentRepo.Create(ctx, comment); err != nil {
			return fmt.Errorf("failed to store comment: %w", err)
		}
		posted++

		if i < len(targets)-1 {
			if err := sleepCtx(ctx, e.interPostDelay); err != nil {
				return err
			}
		}
	}

	e.broadcaster.Broadcast(ctx, job.UserID, job.JobID, progress.Update{
		JobName:    jobName,
		Message:    fmt.Sprintf("Posted %d comments", posted),
		Percentage: 100,
		Status:     progress.StatusCompleted,
	})

	return nil
}

// postViaPanel places one custom-comments order per target video
func (e *commentPostingExecutor) postViaPanel(ctx context.Context, job *domain.ScheduledJob, project *domain.Project, targets []*domain.Video) error {
	if !project.SmmConfigured() {
		return fmt.Errorf("project %s posts via SMM but has no panel configuration", project.ProjectID)
	}

	credential, err := e.credentialRepo.GetByID(ctx, project.SmmCredentialID)
	if err != nil {
		return fmt.Errorf("failed to load panel credential: %w", err)
	}

	serviceID, err := strconv.Atoi(project.SmmServiceID)
	if err != nil {
		return fmt.Errorf("invalid panel service id %q: %w", project.SmmServiceID, err)
	}

	quantity := project.SmmCommentCount
	if quantity <= 0 {
		quantity = 1
	}

	jobName := job.JobType.DisplayName()

	for i, video := range targets {
		e.broadcaster.Broadcast(ctx, job.UserID, job.JobID, progress.Update{
			JobName:    jobName,
			Message:    fmt.Sprintf("Ordering comments for %q", video.Title),
			Percentage: i * 100 / len(targets),
			Status:     progress.StatusRunning,
		})

		comments := make([]string, 0, quantity)
		for len(comments) < quantity {
			text, err := e.generator.GenerateComment(ctx, textgen.VideoContext{
				Title:    video.Title,
				WatchURL: video.WatchURL(),
			})
			if err != nil {
				// No content produced: skip this video
				e.logger.Warn("comment generation failed, skipping video",
					logger.String("video_id", video.VideoID),
					logger.Error(err))
				comments = nil
				break
			}
			comments = append(comments, text)
		}
		if len(comments) == 0 {
			continue
		}

		externalID, err := e.panel.PlaceCommentOrder(ctx, credential.APIKey, serviceID, video.WatchURL(), comments)
		if err != nil {
			// Bad key or empty balance will fail every subsequent order too
			if errors.Is(err, smm.ErrAuthentication) || errors.Is(err, smm.ErrInsufficientFunds) {
				return fmt.Errorf("panel rejected order: %w", err)
			}
			e.logger.Error("panel order failed",
				logger.String("video_id", video.VideoID),
				logger.Error(err))
			continue
		}

		order := domain.NewSmmOrder(project.ProjectID, video.VideoID, credential.CredentialID, externalID, domain.SmmServiceTypeComment, quantity)
		if err := e.orderRepo.Create(ctx, order); err != nil {
			return fmt.Errorf("failed to store order: %w", err)
		}
	}

	e.broadcaster.Broadcast(ctx, job.UserID, job.JobID, progress.Update{
		JobName:    jobName,
		Message:    fmt.Sprintf("Placed orders for %d videos", len(targets)),
		Percentage: 100,
		Status:     progress.StatusCompleted,
	})

	return nil
}

func removeAccount(accounts []*domain.GoogleAccount, accountID string) []*domain.GoogleAccount {
	out := accounts[:0]
	for _, a := range accounts {
		if a.AccountID != accountID {
			out = append(out, a)
		}
	}
	return out
}

// sleepCtx waits for the duration unless the context ends first
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
