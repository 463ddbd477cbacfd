package controller

import (
	"net/http"
	"strings"

	"github.com/developeraldawla/project-n8n/app/dto"
	"github.com/developeraldawla/project-n8n/app/factory"
	"github.com/developeraldawla/project-n8n/app/mapper"
	"github.com/developeraldawla/project-n8n/app/service"
	"github.com/developeraldawla/project-n8n/app/types"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type ToolController struct {
	toolService      *service.ToolService
	executionService *service.ExecutionService
	logger           logrus.FieldLogger
}

func NewToolController(toolService *service.ToolService, executionService *service.ExecutionService) *ToolController {
	return &ToolController{
		toolService:      toolService,
		executionService: executionService,
		logger:           factory.NewModuleLogger("tools-controller"),
	}
}

func (c *ToolController) List(ctx echo.Context) error {
	identity, ok := identityFrom(ctx)
	if !ok {
		return writeUnauthorized(ctx)
	}

	items, err := c.toolService.ListForUser(ctx.Request().Context(), identity.UserID)
	if err != nil {
		return writeServiceError(ctx, c.logger, err, "List tools")
	}
	return ctx.JSON(http.StatusOK, &dto.ListToolsResponse{Tools: mapper.ToolsToProto(items)})
}

func (c *ToolController) Get(ctx echo.Context) error {
	identity, ok := identityFrom(ctx)
	if !ok {
		return writeUnauthorized(ctx)
	}
	slug := strings.TrimSpace(ctx.Param("slug"))
	if slug == "" {
		return writeError(ctx, http.StatusBadRequest, "tool slug is required")
	}

	detail, err := c.toolService.GetForUser(ctx.Request().Context(), identity.UserID, slug)
	if err != nil {
		return writeServiceError(ctx, c.logger, err, "Get tool")
	}
	return ctx.JSON(http.StatusOK, &dto.ToolDetailResponse{
		Tool:    mapper.ToolToProto(detail.Tool),
		Version: mapper.ToolVersionToProto(detail.Version, false),
	})
}

func (c *ToolController) Execute(ctx echo.Context) error {
	identity, ok := identityFrom(ctx)
	if !ok {
		return writeUnauthorized(ctx)
	}
	req, err := types.NewExecuteToolRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	result, err := c.executionService.Execute(ctx.Request().Context(), identity.UserID, req.GetSlug(), req.GetInput())
	if err != nil {
		return writeServiceError(ctx, c.logger, err, "Execute tool")
	}

	return ctx.JSON(http.StatusOK, &dto.ExecuteToolResponse{
		ExecutionID: result.ExecutionID,
		Tool:        result.Tool,
		Version:     result.Version,
		Output:      result.Output,
		OutputKey:   result.OutputKey,
		Usage:       dto.ExecutionUsage{Used: result.Used, Limit: result.Limit},
	})
}

func (c *ToolController) AdminList(ctx echo.Context) error {
	status := strings.ToUpper(strings.TrimSpace(ctx.QueryParam("status")))
	items, err := c.toolService.ListAll(ctx.Request().Context(), status)
	if err != nil {
		return writeServiceError(ctx, c.logger, err, "List all tools")
	}
	return ctx.JSON(http.StatusOK, &dto.ListToolsResponse{Tools: mapper.ToolsToProto(items)})
}

func (c *ToolController) AdminGet(ctx echo.Context) error {
	req, err := types.NewIDRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid tool id")
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	tool, err := c.toolService.GetTool(ctx.Request().Context(), req.GetId())
	if err != nil {
		return writeServiceError(ctx, c.logger, err, "Get tool")
	}
	return ctx.JSON(http.StatusOK, &dto.ToolDetailResponse{Tool: mapper.ToolToProto(tool)})
}

func (c *ToolController) Create(ctx echo.Context) error {
	identity, ok := identityFrom(ctx)
	if !ok {
		return writeUnauthorized(ctx)
	}
	req, err := types.NewCreateToolRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	detail, err := c.toolService.CreateTool(ctx.Request().Context(), identity.UserID, req)
	if err != nil {
		return writeServiceError(ctx, c.logger, err, "Create tool")
	}
	return ctx.JSON(http.StatusCreated, &dto.ToolDetailResponse{
		Tool:    mapper.ToolToProto(detail.Tool),
		Version: mapper.ToolVersionToProto(detail.Version, true),
	})
}

func (c *ToolController) Update(ctx echo.Context) error {
	identity, ok := identityFrom(ctx)
	if !ok {
		return writeUnauthorized(ctx)
	}
	req, err := types.NewUpdateToolRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid request")
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	tool, err := c.toolService.UpdateTool(ctx.Request().Context(), identity.UserID, req)
	if err != nil {
		return writeServiceError(ctx, c.logger, err, "Update tool")
	}
	return ctx.JSON(http.StatusOK, &dto.ToolDetailResponse{Tool: mapper.ToolToProto(tool)})
}

func (c *ToolController) ListVersions(ctx echo.Context) error {
	req, err := types.NewIDRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid tool id")
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	items, err := c.toolService.ListVersions(ctx.Request().Context(), req.GetId())
	if err != nil {
		return writeServiceError(ctx, c.logger, err, "List tool versions")
	}
	return ctx.JSON(http.StatusOK, &dto.ListToolVersionsResponse{Versions: mapper.ToolVersionsToProto(items)})
}

func (c *ToolController) CreateVersion(ctx echo.Context) error {
	identity, ok := identityFrom(ctx)
	if !ok {
		return writeUnauthorized(ctx)
	}
	req, err := types.NewToolVersionRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid request")
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	version, err := c.toolService.CreateVersion(ctx.Request().Context(), identity.UserID, req)
	if err != nil {
		return writeServiceError(ctx, c.logger, err, "Create tool version")
	}
	return ctx.JSON(http.StatusCreated, &dto.ToolVersionEnvelopeResponse{Version: mapper.ToolVersionToProto(version, true)})
}

func (c *ToolController) PublishVersion(ctx echo.Context) error {
	identity, ok := identityFrom(ctx)
	if !ok {
		return writeUnauthorized(ctx)
	}
	req, err := types.NewPublishToolVersionRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid request")
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	version, err := c.toolService.PublishVersion(ctx.Request().Context(), identity.UserID, req.GetToolId(), req.GetVersion())
	if err != nil {
		return writeServiceError(ctx, c.logger, err, "Publish tool version")
	}
	return ctx.JSON(http.StatusOK, &dto.ToolVersionEnvelopeResponse{Version: mapper.ToolVersionToProto(version, true)})
}

func (c *ToolController) ListAccess(ctx echo.Context) error {
	req, err := types.NewIDRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid tool id")
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	items, err := c.toolService.ListAccess(ctx.Request().Context(), req.GetId())
	if err != nil {
		return writeServiceError(ctx, c.logger, err, "List tool access")
	}
	return ctx.JSON(http.StatusOK, &dto.ToolAccessResponse{Access: mapper.ToolAccessToProto(items)})
}

func (c *ToolController) SetAccess(ctx echo.Context) error {
	identity, ok := identityFrom(ctx)
	if !ok {
		return writeUnauthorized(ctx)
	}
	req, err := types.NewToolAccessRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid request")
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	items, err := c.toolService.SetAccess(ctx.Request().Context(), identity.UserID, req)
	if err != nil {
		return writeServiceError(ctx, c.logger, err, "Set tool access")
	}
	return ctx.JSON(http.StatusOK, &dto.ToolAccessResponse{Access: mapper.ToolAccessToProto(items)})
}
