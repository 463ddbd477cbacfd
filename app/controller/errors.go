package controller

import (
	"errors"
	"net/http"

	"github.com/developeraldawla/project-n8n/app/auth"
	"github.com/developeraldawla/project-n8n/app/factory"
	"github.com/developeraldawla/project-n8n/app/service"
	"github.com/developeraldawla/project-n8n/app/types"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

var errorStatuses = []struct {
	err    error
	status int
}{
	{service.ErrInvalidRequest, http.StatusBadRequest},
	{service.ErrInvalidStatus, http.StatusBadRequest},
	{service.ErrInvalidToolInput, http.StatusBadRequest},
	{service.ErrInvalidSchema, http.StatusBadRequest},
	{service.ErrToolNotPublished, http.StatusBadRequest},
	{service.ErrPlanInactive, http.StatusBadRequest},

	{service.ErrToolAccessDenied, http.StatusForbidden},

	{service.ErrUserNotFound, http.StatusNotFound},
	{service.ErrPlanNotFound, http.StatusNotFound},
	{service.ErrSubscriptionNotFound, http.StatusNotFound},
	{service.ErrToolNotFound, http.StatusNotFound},
	{service.ErrToolVersionNotFound, http.StatusNotFound},
	{service.ErrNotificationNotFound, http.StatusNotFound},
	{service.ErrConfigNotFound, http.StatusNotFound},

	{service.ErrEmailAlreadyExists, http.StatusConflict},
	{service.ErrPlanAlreadyExists, http.StatusConflict},
	{service.ErrPlanSlugImmutable, http.StatusConflict},
	{service.ErrSubscriptionAlreadyExists, http.StatusConflict},
	{service.ErrToolAlreadyExists, http.StatusConflict},
	{service.ErrToolVersionPublished, http.StatusConflict},

	{service.ErrDailyLimitReached, http.StatusTooManyRequests},

	{service.ErrToolExecutionFailed, http.StatusBadGateway},
	{service.ErrPaymentFailed, http.StatusBadGateway},
}

func writeError(ctx echo.Context, status int, message string) error {
	return ctx.JSON(status, &types.ErrorResponse{Error: message})
}

// writeServiceError maps service sentinels to HTTP responses. Validation
// errors keep their detail; everything else answers with the sentinel text.
func writeServiceError(ctx echo.Context, logger logrus.FieldLogger, err error, action string) error {
	for _, candidate := range errorStatuses {
		if !errors.Is(err, candidate.err) {
			continue
		}
		if candidate.status == http.StatusBadRequest {
			return writeError(ctx, candidate.status, err.Error())
		}
		return writeError(ctx, candidate.status, candidate.err.Error())
	}

	factory.LoggerWithContext(logger, ctx).WithError(err).Error(action + " failed")
	return writeError(ctx, http.StatusInternalServerError, "internal server error")
}

func identityFrom(ctx echo.Context) (auth.Identity, bool) {
	identity, ok := auth.IdentityFrom(ctx)
	return identity, ok && identity.UserID != ""
}

func writeUnauthorized(ctx echo.Context) error {
	return writeError(ctx, http.StatusUnauthorized, "unauthorized")
}
