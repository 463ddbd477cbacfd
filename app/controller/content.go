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

type ContentController struct {
	contentService *service.ContentService
	logger         logrus.FieldLogger
}

func NewContentController(contentService *service.ContentService) *ContentController {
	return &ContentController{
		contentService: contentService,
		logger:         factory.NewModuleLogger("cms-controller"),
	}
}

func (c *ContentController) Public(ctx echo.Context) error {
	section := strings.TrimSpace(ctx.QueryParam("section"))
	items, err := c.contentService.PublicContent(ctx.Request().Context(), section)
	if err != nil {
		return writeServiceError(ctx, c.logger, err, "List content")
	}
	return ctx.JSON(http.StatusOK, &dto.ListContentResponse{Sections: mapper.LandingContentsToProto(items)})
}

func (c *ContentController) UpdateContent(ctx echo.Context) error {
	identity, ok := identityFrom(ctx)
	if !ok {
		return writeUnauthorized(ctx)
	}
	req, err := types.NewContentRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	item, err := c.contentService.UpdateContent(ctx.Request().Context(), identity.UserID, req.GetKey(), req.GetContent(), req.GetLanguage())
	if err != nil {
		return writeServiceError(ctx, c.logger, err, "Update content")
	}
	return ctx.JSON(http.StatusOK, mapper.LandingContentToProto(item))
}

func (c *ContentController) GetConfig(ctx echo.Context) error {
	key := strings.TrimSpace(ctx.Param("key"))
	if key == "" {
		return writeError(ctx, http.StatusBadRequest, "config key is required")
	}

	item, err := c.contentService.GetConfig(ctx.Request().Context(), key)
	if err != nil {
		return writeServiceError(ctx, c.logger, err, "Get config")
	}
	return ctx.JSON(http.StatusOK, mapper.SystemConfigToProto(item))
}

func (c *ContentController) SetConfig(ctx echo.Context) error {
	identity, ok := identityFrom(ctx)
	if !ok {
		return writeUnauthorized(ctx)
	}
	req, err := types.NewConfigRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	item, err := c.contentService.SetConfig(ctx.Request().Context(), identity.UserID, req.GetKey(), req.GetValue())
	if err != nil {
		return writeServiceError(ctx, c.logger, err, "Set config")
	}
	return ctx.JSON(http.StatusOK, mapper.SystemConfigToProto(item))
}
