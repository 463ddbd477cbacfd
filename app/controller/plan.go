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

type PlanController struct {
	planService *service.PlanService
	logger      logrus.FieldLogger
}

func NewPlanController(planService *service.PlanService) *PlanController {
	return &PlanController{
		planService: planService,
		logger:      factory.NewModuleLogger("plans-controller"),
	}
}

func (c *PlanController) ListPublic(ctx echo.Context) error {
	items, err := c.planService.ListPublic(ctx.Request().Context())
	if err != nil {
		return writeServiceError(ctx, c.logger, err, "List plans")
	}
	return ctx.JSON(http.StatusOK, &dto.ListPlansResponse{Plans: mapper.PlansToProto(items)})
}

func (c *PlanController) ListAll(ctx echo.Context) error {
	items, err := c.planService.ListAll(ctx.Request().Context())
	if err != nil {
		return writeServiceError(ctx, c.logger, err, "List all plans")
	}
	return ctx.JSON(http.StatusOK, &dto.ListPlansResponse{Plans: mapper.PlansToProto(items)})
}

func (c *PlanController) Create(ctx echo.Context) error {
	identity, ok := identityFrom(ctx)
	if !ok {
		return writeUnauthorized(ctx)
	}
	req, err := types.NewCreatePlanRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	plan, err := c.planService.CreatePlan(ctx.Request().Context(), identity.UserID, req)
	if err != nil {
		return writeServiceError(ctx, c.logger, err, "Create plan")
	}
	return ctx.JSON(http.StatusCreated, &dto.PlanEnvelopeResponse{Plan: mapper.PlanToProto(plan)})
}

func (c *PlanController) Update(ctx echo.Context) error {
	identity, ok := identityFrom(ctx)
	if !ok {
		return writeUnauthorized(ctx)
	}
	req, err := types.NewUpdatePlanRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid request")
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	plan, err := c.planService.UpdatePlan(ctx.Request().Context(), identity.UserID, req)
	if err != nil {
		return writeServiceError(ctx, c.logger, err, "Update plan")
	}
	return ctx.JSON(http.StatusOK, &dto.PlanEnvelopeResponse{Plan: mapper.PlanToProto(plan)})
}
