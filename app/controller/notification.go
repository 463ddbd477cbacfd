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

type NotificationController struct {
	notificationService *service.NotificationService
	logger              logrus.FieldLogger
}

func NewNotificationController(notificationService *service.NotificationService) *NotificationController {
	return &NotificationController{
		notificationService: notificationService,
		logger:              factory.NewModuleLogger("notifications-controller"),
	}
}

func (c *NotificationController) List(ctx echo.Context) error {
	identity, ok := identityFrom(ctx)
	if !ok {
		return writeUnauthorized(ctx)
	}

	items, err := c.notificationService.List(ctx.Request().Context(), identity.UserID)
	if err != nil {
		return writeServiceError(ctx, c.logger, err, "List notifications")
	}
	return ctx.JSON(http.StatusOK, &dto.ListNotificationsResponse{Notifications: mapper.NotificationsToProto(items)})
}

func (c *NotificationController) MarkRead(ctx echo.Context) error {
	identity, ok := identityFrom(ctx)
	if !ok {
		return writeUnauthorized(ctx)
	}
	req, err := types.NewIDRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid notification id")
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	if err := c.notificationService.MarkRead(ctx.Request().Context(), identity.UserID, req.GetId()); err != nil {
		return writeServiceError(ctx, c.logger, err, "Mark notification read")
	}
	return ctx.JSON(http.StatusOK, &types.MessageResponse{Message: "Notification marked as read"})
}

func (c *NotificationController) MarkAllRead(ctx echo.Context) error {
	identity, ok := identityFrom(ctx)
	if !ok {
		return writeUnauthorized(ctx)
	}

	updated, err := c.notificationService.MarkAllRead(ctx.Request().Context(), identity.UserID)
	if err != nil {
		return writeServiceError(ctx, c.logger, err, "Mark all notifications read")
	}
	return ctx.JSON(http.StatusOK, &dto.MarkAllReadResponse{Updated: updated})
}
