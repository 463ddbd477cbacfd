package types

import (
	"errors"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

func NewRegisterRequestFromContext(ctx echo.Context) (*RegisterRequest, error) {
	var body RegisterRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	body.Email = strings.TrimSpace(body.Email)
	return &body, nil
}

func (r *RegisterRequest) Validate() error {
	if r.GetEmail() == "" {
		return errors.New("email is required")
	}
	if r.GetPassword() == "" {
		return errors.New("password is required")
	}
	return nil
}

func NewFeatureRequestFromContext(ctx echo.Context, userID string) (*FeatureRequest, error) {
	return &FeatureRequest{UserId: userID, Key: strings.TrimSpace(ctx.Param("key"))}, nil
}

func (r *FeatureRequest) Validate() error {
	if r.GetUserId() == "" {
		return errors.New("user_id is required")
	}
	if r.GetKey() == "" {
		return errors.New("key is required")
	}
	return nil
}

func NewLimitRequestFromContext(ctx echo.Context, userID string) (*LimitRequest, error) {
	return &LimitRequest{UserId: userID, Key: strings.TrimSpace(ctx.Param("key"))}, nil
}

func (r *LimitRequest) Validate() error {
	if r.GetUserId() == "" {
		return errors.New("user_id is required")
	}
	if r.GetKey() == "" {
		return errors.New("key is required")
	}
	return nil
}

func (r *UsageRequest) Validate() error {
	if r.GetUserId() == "" {
		return errors.New("user_id is required")
	}
	return nil
}

func NewCreatePlanRequestFromContext(ctx echo.Context) (*PlanRequest, error) {
	var body PlanRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	return &body, nil
}

func NewUpdatePlanRequestFromContext(ctx echo.Context) (*PlanRequest, error) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return nil, err
	}
	var body PlanRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	body.Id = id
	return &body, nil
}

func (r *PlanRequest) Validate() error {
	if strings.TrimSpace(r.GetName()) == "" {
		return errors.New("name is required")
	}
	return nil
}

func NewCreateToolRequestFromContext(ctx echo.Context) (*ToolRequest, error) {
	var body ToolRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	body.WebhookUrl = strings.TrimSpace(body.WebhookUrl)
	return &body, nil
}

func NewUpdateToolRequestFromContext(ctx echo.Context) (*ToolRequest, error) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return nil, err
	}
	var body ToolRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	body.Id = id
	return &body, nil
}

func (r *ToolRequest) Validate() error {
	if strings.TrimSpace(r.GetName()) == "" {
		return errors.New("name is required")
	}
	return nil
}

func NewToolVersionRequestFromContext(ctx echo.Context) (*ToolVersionRequest, error) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return nil, err
	}
	var body ToolVersionRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	body.ToolId = id
	body.WebhookUrl = strings.TrimSpace(body.WebhookUrl)
	return &body, nil
}

func (r *ToolVersionRequest) Validate() error {
	if r.GetToolId() == 0 {
		return errors.New("invalid tool id")
	}
	if r.GetWebhookUrl() == "" {
		return errors.New("webhook_url is required")
	}
	return nil
}

func NewPublishToolVersionRequestFromContext(ctx echo.Context) (*PublishToolVersionRequest, error) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return nil, err
	}
	version, err := strconv.ParseInt(ctx.Param("version"), 10, 32)
	if err != nil {
		return nil, err
	}
	return &PublishToolVersionRequest{ToolId: id, Version: int32(version)}, nil
}

func (r *PublishToolVersionRequest) Validate() error {
	if r.GetToolId() == 0 {
		return errors.New("invalid tool id")
	}
	if r.GetVersion() <= 0 {
		return errors.New("invalid version")
	}
	return nil
}

func NewToolAccessRequestFromContext(ctx echo.Context) (*ToolAccessRequest, error) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return nil, err
	}
	var body ToolAccessRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	body.ToolId = id
	return &body, nil
}

func (r *ToolAccessRequest) Validate() error {
	if r.GetToolId() == 0 {
		return errors.New("invalid tool id")
	}
	for _, entry := range r.Access {
		if entry.PlanId == 0 {
			return errors.New("plan_id is required for every access entry")
		}
	}
	return nil
}

func NewExecuteToolRequestFromContext(ctx echo.Context) (*ExecuteToolRequest, error) {
	var body ExecuteToolRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	body.Slug = strings.TrimSpace(ctx.Param("slug"))
	return &body, nil
}

func (r *ExecuteToolRequest) Validate() error {
	if r.GetSlug() == "" {
		return errors.New("tool slug is required")
	}
	return nil
}

func NewSubscribeRequestFromContext(ctx echo.Context) (*SubscribeRequest, error) {
	var body SubscribeRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	body.PlanSlug = strings.TrimSpace(body.PlanSlug)
	return &body, nil
}

func (r *SubscribeRequest) Validate() error {
	if r.GetPlanSlug() == "" {
		return errors.New("plan_slug is required")
	}
	return nil
}

func NewPaymentCallbackRequestFromContext(ctx echo.Context) (*PaymentCallbackRequest, error) {
	var body PaymentCallbackRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	body.Status = strings.TrimSpace(strings.ToLower(body.Status))
	body.TransactionId = strings.TrimSpace(body.TransactionId)
	return &body, nil
}

func (r *PaymentCallbackRequest) Validate() error {
	if r.GetSubscriptionId() == 0 {
		return errors.New("subscription_id is required")
	}
	if r.GetStatus() != "success" && r.GetStatus() != "failed" {
		return errors.New("status must be success or failed")
	}
	return nil
}

func NewChangeUserPlanRequestFromContext(ctx echo.Context) (*ChangeUserPlanRequest, error) {
	var body ChangeUserPlanRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	body.UserId = strings.TrimSpace(ctx.Param("id"))
	return &body, nil
}

func (r *ChangeUserPlanRequest) Validate() error {
	if r.GetUserId() == "" {
		return errors.New("invalid user id")
	}
	if r.GetPlanId() == 0 {
		return errors.New("plan_id is required")
	}
	return nil
}

func NewPageRequestFromContext(ctx echo.Context) (*PageRequest, error) {
	req := &PageRequest{}
	if raw := strings.TrimSpace(ctx.QueryParam("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return nil, err
		}
		req.Limit = limit
	}
	if raw := strings.TrimSpace(ctx.QueryParam("offset")); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil {
			return nil, err
		}
		req.Offset = offset
	}
	return req, nil
}

func (r *PageRequest) Validate() error {
	if r.GetLimit() < 0 || r.GetOffset() < 0 {
		return errors.New("limit and offset must not be negative")
	}
	return nil
}

func NewIDRequestFromContext(ctx echo.Context) (*IDRequest, error) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return nil, err
	}
	return &IDRequest{Id: id}, nil
}

func (r *IDRequest) Validate() error {
	if r.GetId() == 0 {
		return errors.New("invalid id")
	}
	return nil
}

func NewContentRequestFromContext(ctx echo.Context) (*ContentRequest, error) {
	var body ContentRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	body.Key = strings.TrimSpace(ctx.Param("key"))
	return &body, nil
}

func (r *ContentRequest) Validate() error {
	if r.GetKey() == "" {
		return errors.New("section key is required")
	}
	if len(r.GetContent()) == 0 {
		return errors.New("content is required")
	}
	return nil
}

func NewConfigRequestFromContext(ctx echo.Context) (*ConfigRequest, error) {
	var body ConfigRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	body.Key = strings.TrimSpace(ctx.Param("key"))
	return &body, nil
}

func (r *ConfigRequest) Validate() error {
	if r.GetKey() == "" {
		return errors.New("config key is required")
	}
	if len(r.GetValue()) == 0 {
		return errors.New("value is required")
	}
	return nil
}
