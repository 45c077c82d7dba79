package routes

import (
	"net/http"

	"tubepilot/commons/routes"
	"tubepilot/internal/dto"
	"tubepilot/internal/handler"
	"tubepilot/internal/logger"

	"github.com/gin-gonic/gin"
)

func InitScheduleRoutes(
	router *gin.Engine,
	scheduleHandler *handler.ScheduleHandler,
	log logger.Logger,
) {
	// Create API group
	apiV1 := routes.CreateAPIGroup(router, "v1")

	// Initialize route dependencies
	deps := routes.RouteDependencies{
		Logger: log,
	}

	// GET /api/v1/projects/:project_id/schedules - List project schedules
	routes.RegisterRoute(
		apiV1,
		deps,
		routes.RouteOptions[dto.ListSchedulesRequest, dto.ListSchedulesResponse]{
			Path:        "/projects/:project_id/schedules",
			Method:      http.MethodGet,
			ServiceFunc: scheduleHandler.ListService,
			RequireAuth: false,
		},
	)

	// POST /api/v1/projects/:project_id/schedules/:job_type/start - Start a schedule
	routes.RegisterRoute(
		apiV1,
		deps,
		routes.RouteOptions[dto.StartScheduleRequest, dto.ScheduleResponse]{
			Path:        "/projects/:project_id/schedules/:job_type/start",
			Method:      http.MethodPost,
			ServiceFunc: scheduleHandler.StartService,
			RequireAuth: false,
		},
	)

	// POST /api/v1/projects/:project_id/schedules/:job_type/stop - Stop a schedule
	routes.RegisterRoute(
		apiV1,
		deps,
		routes.RouteOptions[dto.StopScheduleRequest, dto.ScheduleResponse]{
			Path:        "/projects/:project_id/schedules/:job_type/stop",
			Method:      http.MethodPost,
			ServiceFunc: scheduleHandler.StopService,
			RequireAuth: false,
		},
	)

	// PUT /api/v1/projects/:project_id/schedules/:job_type/interval - Change cadence
	routes.RegisterRoute(
		apiV1,
		deps,
		routes.RouteOptions[dto.SetIntervalRequest, dto.ScheduleResponse]{
			Path:        "/projects/:project_id/schedules/:job_type/interval",
			Method:      http.MethodPut,
			ServiceFunc: scheduleHandler.SetIntervalService,
			RequireAuth: false,
		},
	)

	// POST /api/v1/projects/:project_id/schedules/:job_type/run - One-off run
	routes.RegisterRoute(
		apiV1,
		deps,
		routes.RouteOptions[dto.RunNowRequest, dto.RunNowResponse]{
			Path:        "/projects/:project_id/schedules/:job_type/run",
			Method:      http.MethodPost,
			ServiceFunc: scheduleHandler.RunNowService,
			RequireAuth: false,
		},
	)
}
