package controller

import (
	"net/http"

	"github.com/developeraldawla/project-n8n/app/dto"
	"github.com/developeraldawla/project-n8n/app/factory"
	"github.com/developeraldawla/project-n8n/app/mapper"
	"github.com/developeraldawla/project-n8n/app/service"
	"github.com/developeraldawla/project-n8n/app/types"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type AdminController struct {
	userService  *service.UserService
	auditService *service.AuditService
	logger       logrus.FieldLogger
}

func NewAdminController(userService *service.UserService, auditService *service.AuditService) *AdminController {
	return &AdminController{
		userService:  userService,
		auditService: auditService,
		logger:       factory.NewModuleLogger("admin-controller"),
	}
}

func (c *AdminController) ListUsers(ctx echo.Context) error {
	req, err := types.NewPageRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid query params")
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	items, err := c.userService.List(ctx.Request().Context(), req.GetLimit(), req.GetOffset())
	if err != nil {
		return writeServiceError(ctx, c.logger, err, "List users")
	}
	return ctx.JSON(http.StatusOK, &dto.ListUsersResponse{Users: mapper.UsersToProto(items)})
}

func (c *AdminController) ChangeUserPlan(ctx echo.Context) error {
	identity, ok := identityFrom(ctx)
	if !ok {
		return writeUnauthorized(ctx)
	}
	req, err := types.NewChangeUserPlanRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	user, plan, err := c.userService.ChangePlan(ctx.Request().Context(), identity.UserID, req)
	if err != nil {
		return writeServiceError(ctx, c.logger, err, "Change user plan")
	}
	return ctx.JSON(http.StatusOK, &dto.ProfileResponse{
		User: mapper.UserToProto(user),
		Plan: mapper.PlanToProto(plan),
	})
}

func (c *AdminController) ListAudit(ctx echo.Context) error {
	req, err := types.NewPageRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid query params")
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	items, err := c.auditService.ListLatest(ctx.Request().Context(), req.GetLimit())
	if err != nil {
		return writeServiceError(ctx, c.logger, err, "List audit logs")
	}
	return ctx.JSON(http.StatusOK, &dto.ListAuditLogsResponse{Logs: mapper.AuditLogsToProto(items)})
}
