package handler

import (
	"context"

	"tubepilot/commons/error_handler"
	"tubepilot/commons/handler"
	"tubepilot/internal/domain"
	"tubepilot/internal/dto"
	"tubepilot/internal/logger"
	repository "tubepilot/internal/repository/iface"
	"tubepilot/internal/service"
)

type ScheduleHandler struct {
	manager service.ScheduleManager
	logger  logger.Logger
}

// NewScheduleHandler creates a new schedule handler
func NewScheduleHandler(manager service.ScheduleManager, log logger.Logger) *ScheduleHandler {
	return &ScheduleHandler{
		manager: manager,
		logger:  log.With(logger.String("component", "schedule_handler")),
	}
}

// ListService returns every schedule of a project
func (h *ScheduleHandler) ListService(
	ctx context.Context,
	ioutil *handler.RequestIo[dto.ListSchedulesRequest],
) (dto.ListSchedulesResponse, *error_handler.ErrorCollection) {
	projectID := ioutil.PathParams["project_id"]
	if projectID == "" {
		return dto.ListSchedulesResponse{}, error_handler.NewErrorCollection().
			AddError(error_handler.CodeValidationError, "project_id is required", nil)
	}

	schedules, err := h.manager.List(ctx, projectID)
	if err != nil {
		h.logger.Error("failed to list schedules",
			logger.String("project_id", projectID),
			logger.Error(err))
		return dto.ListSchedulesResponse{}, error_handler.NewErrorCollection().
			AddError(error_handler.CodeInternalServerError, "Failed to list schedules", nil)
	}

	resp := dto.ListSchedulesResponse{Schedules: make([]dto.ScheduleResponse, 0, len(schedules))}
	for _, s := range schedules {
		resp.Schedules = append(resp.Schedules, dto.ScheduleFromDomain(s))
	}
	return resp, nil
}

// StartService enables a schedule and kicks off its first run
func (h *ScheduleHandler) StartService(
	ctx context.Context,
	ioutil *handler.RequestIo[dto.StartScheduleRequest],
) (dto.ScheduleResponse, *error_handler.ErrorCollection) {
	jobType, projectID, errs := h.pathPair(ioutil.PathParams)
	if errs != nil {
		return dto.ScheduleResponse{}, errs
	}

	req := ioutil.Body
	schedule, err := h.manager.Start(ctx, jobType, projectID, req.UserID, req.IntervalMinutes)
	if err != nil {
		h.logger.Error("failed to start schedule",
			logger.String("job_type", string(jobType)),
			logger.String("project_id", projectID),
			logger.Error(err))
		return dto.ScheduleResponse{}, error_handler.NewErrorCollection().
			AddError(error_handler.CodeInternalServerError, "Failed to start schedule", nil)
	}

	return dto.ScheduleFromDomain(schedule), nil
}

// StopService disables a schedule and discards its pending instances
func (h *ScheduleHandler) StopService(
	ctx context.Context,
	ioutil *handler.RequestIo[dto.StopScheduleRequest],
) (dto.ScheduleResponse, *error_handler.ErrorCollection) {
	jobType, projectID, errs := h.pathPair(ioutil.PathParams)
	if errs != nil {
		return dto.ScheduleResponse{}, errs
	}

	schedule, err := h.manager.Stop(ctx, jobType, projectID)
	if err != nil {
		if repository.IsNotFoundError(err) {
			return dto.ScheduleResponse{}, error_handler.NewErrorCollection().
				AddError(error_handler.CodeNotFound, "Schedule not found", nil)
		}
		h.logger.Error("failed to stop schedule",
			logger.String("job_type", string(jobType)),
			logger.String("project_id", projectID),
			logger.Error(err))
		return dto.ScheduleResponse{}, error_handler.NewErrorCollection().
			AddError(error_handler.CodeInternalServerError, "Failed to stop schedule", nil)
	}

	return dto.ScheduleFromDomain(schedule), nil
}

// SetIntervalService changes a schedule's cadence
func (h *ScheduleHandler) SetIntervalService(
	ctx context.Context,
	ioutil *handler.RequestIo[dto.SetIntervalRequest],
) (dto.ScheduleResponse, *error_handler.ErrorCollection) {
	jobType, projectID, errs := h.pathPair(ioutil.PathParams)
	if errs != nil {
		return dto.ScheduleResponse{}, errs
	}

	req := ioutil.Body
	if err := domain.ValidateInterval(req.IntervalMinutes); err != nil {
		return dto.ScheduleResponse{}, error_handler.NewErrorCollection().
			AddError(error_handler.CodeValidationError, err.Error(), nil)
	}

	schedule, err := h.manager.SetInterval(ctx, jobType, projectID, req.IntervalMinutes)
	if err != nil {
		if repository.IsNotFoundError(err) {
			return dto.ScheduleResponse{}, error_handler.NewErrorCollection().
				AddError(error_handler.CodeNotFound, "Schedule not found", nil)
		}
		h.logger.Error("failed to set interval",
			logger.String("job_type", string(jobType)),
			logger.String("project_id", projectID),
			logger.Error(err))
		return dto.ScheduleResponse{}, error_handler.NewErrorCollection().
			AddError(error_handler.CodeInternalServerError, "Failed to set interval", nil)
	}

	return dto.ScheduleFromDomain(schedule), nil
}

// RunNowService triggers a one-off run outside the recurring cadence
func (h *ScheduleHandler) RunNowService(
	ctx context.Context,
	ioutil *handler.RequestIo[dto.RunNowRequest],
) (dto.RunNowResponse, *error_handler.ErrorCollection) {
	jobType, projectID, errs := h.pathPair(ioutil.PathParams)
	if errs != nil {
		return dto.RunNowResponse{}, errs
	}

	job, err := h.manager.RunNow(ctx, jobType, projectID, ioutil.Body.UserID)
	if err != nil {
		h.logger.Error("failed to trigger run",
			logger.String("job_type", string(jobType)),
			logger.String("project_id", projectID),
			logger.Error(err))
		return dto.RunNowResponse{}, error_handler.NewErrorCollection().
			AddError(error_handler.CodeInternalServerError, "Failed to trigger run", nil)
	}

	return dto.RunNowResponse{
		JobID:     job.JobID,
		JobType:   string(job.JobType),
		ExecuteAt: job.ExecuteAt,
		Status:    string(job.Status),
	}, nil
}

func (h *ScheduleHandler) pathPair(pathParams map[string]string) (domain.JobType, string, *error_handler.ErrorCollection) {
	projectID := pathParams["project_id"]
	jobType := domain.JobType(pathParams["job_type"])

	if projectID == "" {
		return "", "", error_handler.NewErrorCollection().
			AddError(error_handler.CodeValidationError, "project_id is required", nil)
	}
	if !jobType.Valid() {
		return "", "", error_handler.NewErrorCollection().
			AddError(error_handler.CodeValidationError, "unknown job_type", nil)
	}

	return jobType, projectID, nil
}
