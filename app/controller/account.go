package controller

import (
	"net/http"
	"time"

	"github.com/developeraldawla/project-n8n/app/dto"
	"github.com/developeraldawla/project-n8n/app/entity"
	"github.com/developeraldawla/project-n8n/app/factory"
	"github.com/developeraldawla/project-n8n/app/mapper"
	"github.com/developeraldawla/project-n8n/app/service"
	"github.com/developeraldawla/project-n8n/app/types"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type AccountController struct {
	userService  *service.UserService
	gateService  *service.GateService
	usageService *service.UsageService
	logger       logrus.FieldLogger
}

func NewAccountController(
	userService *service.UserService,
	gateService *service.GateService,
	usageService *service.UsageService,
) *AccountController {
	return &AccountController{
		userService:  userService,
		gateService:  gateService,
		usageService: usageService,
		logger:       factory.NewModuleLogger("account-controller"),
	}
}

func (c *AccountController) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, &types.HealthResponse{Status: "ok"})
}

func (c *AccountController) Register(ctx echo.Context) error {
	req, err := types.NewRegisterRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	user, plan, err := c.userService.Register(ctx.Request().Context(), req)
	if err != nil {
		return writeServiceError(ctx, c.logger, err, "Register")
	}

	return ctx.JSON(http.StatusCreated, &dto.ProfileResponse{
		User: mapper.UserToProto(user),
		Plan: mapper.PlanToProto(plan),
	})
}

func (c *AccountController) Me(ctx echo.Context) error {
	identity, ok := identityFrom(ctx)
	if !ok {
		return writeUnauthorized(ctx)
	}

	user, plan, err := c.userService.Profile(ctx.Request().Context(), identity.UserID)
	if err != nil {
		return writeServiceError(ctx, c.logger, err, "Load profile")
	}

	return ctx.JSON(http.StatusOK, &dto.ProfileResponse{
		User: mapper.UserToProto(user),
		Plan: mapper.PlanToProto(plan),
	})
}

func (c *AccountController) Feature(ctx echo.Context) error {
	identity, ok := identityFrom(ctx)
	if !ok {
		return writeUnauthorized(ctx)
	}
	req, err := types.NewFeatureRequestFromContext(ctx, identity.UserID)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid request")
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	return ctx.JSON(http.StatusOK, &types.FeatureResponse{
		UserId:  req.GetUserId(),
		Key:     req.GetKey(),
		Enabled: c.gateService.IsEnabled(ctx.Request().Context(), req.GetUserId(), req.GetKey()),
	})
}

func (c *AccountController) Limit(ctx echo.Context) error {
	identity, ok := identityFrom(ctx)
	if !ok {
		return writeUnauthorized(ctx)
	}
	req, err := types.NewLimitRequestFromContext(ctx, identity.UserID)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid request")
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	limit := c.gateService.GetLimit(ctx.Request().Context(), req.GetUserId(), req.GetKey())
	return ctx.JSON(http.StatusOK, &types.LimitResponse{
		UserId:    req.GetUserId(),
		Key:       req.GetKey(),
		Limit:     limit,
		Unlimited: limit == entity.LimitUnlimited,
	})
}

func (c *AccountController) Usage(ctx echo.Context) error {
	identity, ok := identityFrom(ctx)
	if !ok {
		return writeUnauthorized(ctx)
	}

	usage, err := c.usageService.Usage(ctx.Request().Context(), identity.UserID)
	if err != nil {
		return writeServiceError(ctx, c.logger, err, "Load usage")
	}

	return ctx.JSON(http.StatusOK, &types.UsageResponse{
		UserId:    identity.UserID,
		Date:      time.Now().UTC().Format("2006-01-02"),
		Used:      usage.Used,
		Limit:     usage.Limit,
		Remaining: usage.Remaining(),
	})
}

func (c *AccountController) Stats(ctx echo.Context) error {
	identity, ok := identityFrom(ctx)
	if !ok {
		return writeUnauthorized(ctx)
	}

	stats, err := c.usageService.TodayStats(ctx.Request().Context(), identity.UserID)
	if err != nil {
		return writeServiceError(ctx, c.logger, err, "Load usage stats")
	}

	return ctx.JSON(http.StatusOK, &dto.UsageStatsResponse{
		PlanName:   stats.PlanName,
		DailyLimit: stats.DailyLimit,
		Used:       stats.Used,
		Remaining:  stats.Remaining,
		Total:      stats.Today.Total,
		Success:    stats.Today.Success,
		Failed:     stats.Today.Failed,
		Denied:     stats.Today.Denied,
	})
}
