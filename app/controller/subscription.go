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

type SubscriptionController struct {
	subscriptionService    *service.SubscriptionService
	paymentCallbackService *service.PaymentCallbackService
	logger                 logrus.FieldLogger
}

func NewSubscriptionController(
	subscriptionService *service.SubscriptionService,
	paymentCallbackService *service.PaymentCallbackService,
) *SubscriptionController {
	return &SubscriptionController{
		subscriptionService:    subscriptionService,
		paymentCallbackService: paymentCallbackService,
		logger:                 factory.NewModuleLogger("subscriptions-controller"),
	}
}

func (c *SubscriptionController) Current(ctx echo.Context) error {
	identity, ok := identityFrom(ctx)
	if !ok {
		return writeUnauthorized(ctx)
	}

	item, err := c.subscriptionService.Current(ctx.Request().Context(), identity.UserID)
	if err != nil {
		return writeServiceError(ctx, c.logger, err, "Get subscription")
	}
	return ctx.JSON(http.StatusOK, &dto.SubscriptionEnvelopeResponse{Subscription: mapper.SubscriptionToProto(item)})
}

func (c *SubscriptionController) Subscribe(ctx echo.Context) error {
	identity, ok := identityFrom(ctx)
	if !ok {
		return writeUnauthorized(ctx)
	}
	req, err := types.NewSubscribeRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	result, err := c.subscriptionService.Subscribe(ctx.Request().Context(), identity.UserID, req)
	if err != nil {
		return writeServiceError(ctx, c.logger, err, "Create subscription")
	}

	return ctx.JSON(http.StatusCreated, &dto.CreateSubscriptionResponse{
		Subscription: mapper.SubscriptionToProto(result.Subscription),
		Plan:         mapper.PlanToProto(result.Plan),
		PaymentURL:   result.PaymentURL,
	})
}

func (c *SubscriptionController) Cancel(ctx echo.Context) error {
	identity, ok := identityFrom(ctx)
	if !ok {
		return writeUnauthorized(ctx)
	}

	item, err := c.subscriptionService.Cancel(ctx.Request().Context(), identity.UserID)
	if err != nil {
		return writeServiceError(ctx, c.logger, err, "Cancel subscription")
	}
	return ctx.JSON(http.StatusOK, &dto.SubscriptionEnvelopeResponse{Subscription: mapper.SubscriptionToProto(item)})
}

func (c *SubscriptionController) PaymentCallback(ctx echo.Context) error {
	req, err := types.NewPaymentCallbackRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	if err := c.paymentCallbackService.PaymentCallback(ctx.Request().Context(), req); err != nil {
		return writeServiceError(ctx, c.logger, err, "Payment callback")
	}
	return ctx.JSON(http.StatusOK, &types.MessageResponse{Message: "Payment processed successfully"})
}
