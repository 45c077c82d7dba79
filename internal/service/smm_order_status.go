package service

import (
	"context"
	"fmt"
	"strings"

	"tubepilot/internal/domain"
	"tubepilot/internal/logger"
	"tubepilot/internal/progress"
	repository "tubepilot/internal/repository/iface"
	"tubepilot/internal/smm"
	"tubepilot/internal/youtube"
)

type smmOrderStatusExecutor struct {
	panel          smm.Panel
	youtube        youtube.Client
	projectRepo    repository.ProjectRepository
	credentialRepo repository.SmmCredentialRepository
	orderRepo      repository.SmmOrderRepository
	videoRepo      repository.VideoRepository
	commentRepo    repository.CommentRepository
	broadcaster    progress.Broadcaster
	logger         logger.Logger
}

// NewSmmOrderStatusExecutor creates the SMM order status check executor
func NewSmmOrderStatusExecutor(
	panel smm.Panel,
	yt youtube.Client,
	projectRepo repository.ProjectRepository,
	credentialRepo repository.SmmCredentialRepository,
	orderRepo repository.SmmOrderRepository,
	videoRepo repository.VideoRepository,
	commentRepo repository.CommentRepository,
	broadcaster progress.Broadcaster,
	log logger.Logger,
) JobExecutor {
	return &smmOrderStatusExecutor{
		panel:          panel,
		youtube:        yt,
		projectRepo:    projectRepo,
		credentialRepo: credentialRepo,
		orderRepo:      orderRepo,
		videoRepo:      videoRepo,
		commentRepo:    commentRepo,
		broadcaster:    broadcaster,
		logger:         log.With(logger.String("component", "smm_order_status_executor")),
	}
}

// Execute refreshes every non-terminal panel order, batching status calls per
// credential, and imports delivered comments when a comment order completes
func (e *smmOrderStatusExecutor) Execute(ctx context.Context, job *domain.ScheduledJob) error {
	project, err := e.projectRepo.GetByID(ctx, job.ProjectID)
	if err != nil {
		return fmt.Errorf("failed to load project: %w", err)
	}

	orders, err := e.orderRepo.ListUncompletedByProject(ctx, job.ProjectID)
	if err != nil {
		return fmt.Errorf("failed to list open orders: %w", err)
	}

	if len(orders) == 0 {
		e.logger.Info("no open orders", logger.String("project_id", job.ProjectID))
		return nil
	}

	jobName := job.JobType.DisplayName()
	e.broadcaster.Broadcast(ctx, job.UserID, job.JobID, progress.Update{
		JobName:    jobName,
		Message:    fmt.Sprintf("Checking %d orders", len(orders)),
		Percentage: 0,
		Status:     progress.StatusRunning,
	})

	byCredential := make(map[string][]*domain.SmmOrder)
	for _, order := range orders {
		byCredential[order.CredentialID] = append(byCredential[order.CredentialID], order)
	}

	failed := 0
	for credentialID, credOrders := range byCredential {
		if err := e.checkCredentialOrders(ctx, project, credentialID, credOrders); err != nil {
			failed++
			e.logger.Error("order status check failed for credential",
				logger.String("credential_id", credentialID),
				logger.Error(err))
		}
	}

	if failed > 0 {
		// Per-credential failures are local; the run itself completes
		e.logger.Warn("order status check had failures",
			logger.Int("failed", failed),
			logger.Int("credentials", len(byCredential)))
	}

	e.broadcaster.Broadcast(ctx, job.UserID, job.JobID, progress.Update{
		JobName:    jobName,
		Message:    fmt.Sprintf("Checked %d orders", len(orders)),
		Percentage: 100,
		Status:     progress.StatusCompleted,
	})

	return nil
}

// checkCredentialOrders batches one credential's orders through the panel's
// multi-order status call, at most smm.MaxStatusBatch per request
func (e *smmOrderStatusExecutor) checkCredentialOrders(ctx context.Context, project *domain.Project, credentialID string, orders []*domain.SmmOrder) error {
	credential, err := e.credentialRepo.GetByID(ctx, credentialID)
	if err != nil {
		return fmt.Errorf("failed to load credential: %w", err)
	}

	byExternalID := make(map[string]*domain.SmmOrder, len(orders))
	externalIDs := make([]string, 0, len(orders))
	for _, order := range orders {
		if order.ExternalOrderID == "" {
			continue
		}
		byExternalID[order.ExternalOrderID] = order
		externalIDs = append(externalIDs, order.ExternalOrderID)
	}

	for start := 0; start < len(externalIDs); start += smm.MaxStatusBatch {
		end := start + smm.MaxStatusBatch
		if end > len(externalIDs) {
			end = len(externalIDs)
		}

		reports, err := e.panel.FetchOrderStatuses(ctx, credential.APIKey, externalIDs[start:end])
		if err != nil {
			return fmt.Errorf("status call failed: %w", err)
		}

		for externalID, report := range reports {
			order := byExternalID[externalID]
			if order == nil {
				continue
			}

			if report.Err != nil {
				e.logger.Warn("panel reported order error",
					logger.String("external_order_id", externalID),
					logger.Error(report.Err))
				continue
			}

			e.applyReport(ctx, project, order, report)
		}
	}

	return nil
}

func (e *smmOrderStatusExecutor) applyReport(ctx context.Context, project *domain.Project, order *domain.SmmOrder, report smm.OrderReport) {
	previous := order.Status
	status := domain.NormalizeSmmStatus(report.Status)

	order.ApplyStatusReport(status, report.Charge, report.StartCount, report.Remains, report.Currency)
	if err := e.orderRepo.Update(ctx, order); err != nil {
		e.logger.Error("failed to update order",
			logger.String("order_id", order.OrderID),
			logger.Error(err))
		return
	}

	// Import delivered comments exactly once, on the transition into COMPLETED
	if status == domain.SmmOrderStatusCompleted && previous != domain.SmmOrderStatusCompleted && order.PlacedForComments() {
		if err := e.importDeliveredComments(ctx, project, order); err != nil {
			e.logger.Error("failed to import delivered comments",
				logger.String("order_id", order.OrderID),
				logger.Error(err))
		}
	}
}

// importDeliveredComments pulls the video's newest comments and adopts the
// ones the panel's accounts left. Ordered comment text is templated around the
// campaign, so the text carrying the project name is the marker.
func (e *smmOrderStatusExecutor) importDeliveredComments(ctx context.Context, project *domain.Project, order *domain.SmmOrder) error {
	video, err := e.videoRepo.GetByID(ctx, order.VideoID)
	if err != nil {
		return fmt.Errorf("failed to load video: %w", err)
	}

	remote, err := e.youtube.FetchVideoComments(ctx, video.YoutubeID, youtube.OrderTime, smm.MaxStatusBatch)
	if err != nil {
		return fmt.Errorf("failed to fetch video comments: %w", err)
	}

	marker := strings.ToLower(project.Name)
	imported := 0

	for _, rc := range remote {
		// Replies are adopted by the status checker, not here
		if rc.ParentID != "" {
			continue
		}
		if !strings.Contains(strings.ToLower(rc.Text), marker) {
			continue
		}

		exists, err := e.commentRepo.ExistsByYoutubeCommentID(ctx, order.VideoID, rc.CommentID)
		if err != nil {
			return fmt.Errorf("failed to check comment %s: %w", rc.CommentID, err)
		}
		if exists {
			continue
		}

		comment := domain.NewComment(project.ProjectID, order.VideoID, "", rc.Text, domain.CommentPostTypeViaSmm)
		comment.YoutubeCommentID = rc.CommentID
		comment.AuthorDisplayName = rc.AuthorDisplayName
		comment.AuthorAvatarURL = rc.AuthorAvatarURL
		comment.LikeCount = int64(rc.LikeCount)

		if err := e.commentRepo.Create(ctx, comment); err != nil {
			return fmt.Errorf("failed to store imported comment: %w", err)
		}
		imported++
	}

	e.logger.Info("imported delivered comments",
		logger.String("order_id", order.OrderID),
		logger.Int("imported", imported))

	return nil
}
