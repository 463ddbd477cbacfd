package types

import (
	"encoding/json"

	"github.com/developeraldawla/project-n8n/app/entity"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *RegisterRequest) GetEmail() string {
	if r == nil {
		return ""
	}
	return r.Email
}

func (r *RegisterRequest) GetPassword() string {
	if r == nil {
		return ""
	}
	return r.Password
}

// FeatureRequest asks whether a feature is enabled on the user's plan.
type FeatureRequest struct {
	UserId string `json:"user_id"`
	Key    string `json:"key"`
}

func (r *FeatureRequest) GetUserId() string {
	if r == nil {
		return ""
	}
	return r.UserId
}

func (r *FeatureRequest) GetKey() string {
	if r == nil {
		return ""
	}
	return r.Key
}

type FeatureResponse struct {
	UserId  string `json:"user_id"`
	Key     string `json:"key"`
	Enabled bool   `json:"enabled"`
}

type LimitRequest struct {
	UserId string `json:"user_id"`
	Key    string `json:"key"`
}

func (r *LimitRequest) GetUserId() string {
	if r == nil {
		return ""
	}
	return r.UserId
}

func (r *LimitRequest) GetKey() string {
	if r == nil {
		return ""
	}
	return r.Key
}

type LimitResponse struct {
	UserId    string `json:"user_id"`
	Key       string `json:"key"`
	Limit     int64  `json:"limit"`
	Unlimited bool   `json:"unlimited"`
}

type UsageRequest struct {
	UserId string `json:"user_id"`
}

func (r *UsageRequest) GetUserId() string {
	if r == nil {
		return ""
	}
	return r.UserId
}

type UsageResponse struct {
	UserId    string `json:"user_id"`
	Date      string `json:"date"`
	Used      int64  `json:"used"`
	Limit     int64  `json:"limit"`
	Remaining int64  `json:"remaining"`
}

type PlanRequest struct {
	Id                uint64           `json:"-"`
	Slug              string           `json:"slug"`
	Name              string           `json:"name"`
	Description       string           `json:"description"`
	PriceMonthlyCents int64            `json:"price_monthly_cents"`
	PriceYearlyCents  int64            `json:"price_yearly_cents"`
	Currency          string           `json:"currency"`
	TrialDays         int32            `json:"trial_days"`
	Features          map[string]bool  `json:"features"`
	Limits            map[string]int64 `json:"limits"`
	IsActive          *bool            `json:"is_active"`
}

func (r *PlanRequest) GetId() uint64                { return r.Id }
func (r *PlanRequest) GetSlug() string              { return r.Slug }
func (r *PlanRequest) GetName() string              { return r.Name }
func (r *PlanRequest) GetDescription() string       { return r.Description }
func (r *PlanRequest) GetPriceMonthlyCents() int64  { return r.PriceMonthlyCents }
func (r *PlanRequest) GetPriceYearlyCents() int64   { return r.PriceYearlyCents }
func (r *PlanRequest) GetCurrency() string          { return r.Currency }
func (r *PlanRequest) GetTrialDays() int32          { return r.TrialDays }
func (r *PlanRequest) GetFeatures() map[string]bool { return r.Features }
func (r *PlanRequest) GetLimits() map[string]int64  { return r.Limits }

// GetIsActive defaults to true when the field is omitted.
func (r *PlanRequest) GetIsActive() bool {
	if r.IsActive == nil {
		return true
	}
	return *r.IsActive
}

type Plan struct {
	Id                uint64           `json:"id"`
	Slug              string           `json:"slug"`
	Name              string           `json:"name"`
	Description       string           `json:"description"`
	PriceMonthlyCents int64            `json:"price_monthly_cents"`
	PriceYearlyCents  int64            `json:"price_yearly_cents"`
	Currency          string           `json:"currency"`
	TrialDays         int32            `json:"trial_days"`
	Features          map[string]bool  `json:"features"`
	Limits            map[string]int64 `json:"limits"`
	IsActive          bool             `json:"is_active"`
	CreatedAt         string           `json:"created_at"`
	UpdatedAt         string           `json:"updated_at"`
}

type ToolRequest struct {
	Id           uint64          `json:"-"`
	Slug         string          `json:"slug"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	Description  string          `json:"description"`
	Status       string          `json:"status"`
	InputSchema  json.RawMessage `json:"input_schema"`
	OutputSchema json.RawMessage `json:"output_schema"`
	WebhookUrl   string          `json:"webhook_url"`
	Publish      bool            `json:"publish"`
}

func (r *ToolRequest) GetId() uint64                    { return r.Id }
func (r *ToolRequest) GetSlug() string                  { return r.Slug }
func (r *ToolRequest) GetName() string                  { return r.Name }
func (r *ToolRequest) GetCategory() string              { return r.Category }
func (r *ToolRequest) GetDescription() string           { return r.Description }
func (r *ToolRequest) GetStatus() string                { return r.Status }
func (r *ToolRequest) GetInputSchema() json.RawMessage  { return r.InputSchema }
func (r *ToolRequest) GetOutputSchema() json.RawMessage { return r.OutputSchema }
func (r *ToolRequest) GetWebhookUrl() string            { return r.WebhookUrl }
func (r *ToolRequest) GetPublish() bool                 { return r.Publish }

type ToolVersionRequest struct {
	ToolId       uint64          `json:"-"`
	InputSchema  json.RawMessage `json:"input_schema"`
	OutputSchema json.RawMessage `json:"output_schema"`
	WebhookUrl   string          `json:"webhook_url"`
	Publish      bool            `json:"publish"`
}

func (r *ToolVersionRequest) GetToolId() uint64                { return r.ToolId }
func (r *ToolVersionRequest) GetInputSchema() json.RawMessage  { return r.InputSchema }
func (r *ToolVersionRequest) GetOutputSchema() json.RawMessage { return r.OutputSchema }
func (r *ToolVersionRequest) GetWebhookUrl() string            { return r.WebhookUrl }
func (r *ToolVersionRequest) GetPublish() bool                 { return r.Publish }

type PublishToolVersionRequest struct {
	ToolId  uint64
	Version int32
}

func (r *PublishToolVersionRequest) GetToolId() uint64 { return r.ToolId }
func (r *PublishToolVersionRequest) GetVersion() int32 { return r.Version }

type ToolAccessEntry struct {
	PlanId   uint64 `json:"plan_id"`
	IsHidden bool   `json:"is_hidden"`
}

type ToolAccessRequest struct {
	ToolId uint64            `json:"-"`
	Access []ToolAccessEntry `json:"access"`
}

func (r *ToolAccessRequest) GetToolId() uint64 { return r.ToolId }

func (r *ToolAccessRequest) GetAccess() []entity.ToolAccess {
	items := make([]entity.ToolAccess, 0, len(r.Access))
	for _, entry := range r.Access {
		items = append(items, entity.ToolAccess{ToolID: r.ToolId, PlanID: entry.PlanId, IsHidden: entry.IsHidden})
	}
	return items
}

type Tool struct {
	Id             uint64 `json:"id"`
	Slug           string `json:"slug"`
	Name           string `json:"name"`
	Category       string `json:"category"`
	Description    string `json:"description"`
	Status         string `json:"status"`
	CurrentVersion int32  `json:"current_version"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}

type ToolVersion struct {
	ToolId       uint64          `json:"tool_id"`
	Version      int32           `json:"version"`
	InputSchema  json.RawMessage `json:"input_schema"`
	OutputSchema json.RawMessage `json:"output_schema,omitempty"`
	WebhookUrl   string          `json:"webhook_url,omitempty"`
	IsPublished  bool            `json:"is_published"`
	PublishedAt  string          `json:"published_at,omitempty"`
	CreatedAt    string          `json:"created_at"`
}

type ToolAccess struct {
	ToolId   uint64 `json:"tool_id"`
	PlanId   uint64 `json:"plan_id"`
	IsHidden bool   `json:"is_hidden"`
}

type ExecuteToolRequest struct {
	Slug  string          `json:"-"`
	Input json.RawMessage `json:"input"`
}

func (r *ExecuteToolRequest) GetSlug() string           { return r.Slug }
func (r *ExecuteToolRequest) GetInput() json.RawMessage { return r.Input }

type SubscribeRequest struct {
	PlanSlug string `json:"plan_slug"`
}

func (r *SubscribeRequest) GetPlanSlug() string { return r.PlanSlug }

type PaymentCallbackRequest struct {
	SubscriptionId uint64 `json:"subscription_id"`
	Status         string `json:"status"`
	TransactionId  string `json:"transaction_id"`
}

func (r *PaymentCallbackRequest) GetSubscriptionId() uint64 { return r.SubscriptionId }
func (r *PaymentCallbackRequest) GetStatus() string         { return r.Status }
func (r *PaymentCallbackRequest) GetTransactionId() string  { return r.TransactionId }

type Subscription struct {
	Id                 uint64 `json:"id"`
	UserId             string `json:"user_id"`
	PlanId             uint64 `json:"plan_id"`
	Status             int32  `json:"status"`
	StatusName         string `json:"status_name"`
	CurrentPeriodStart string `json:"current_period_start,omitempty"`
	CurrentPeriodEnd   string `json:"current_period_end,omitempty"`
	CancelAtPeriodEnd  bool   `json:"cancel_at_period_end"`
	TransactionId      string `json:"transaction_id,omitempty"`
	CreatedAt          string `json:"created_at"`
	UpdatedAt          string `json:"updated_at"`
}

type ChangeUserPlanRequest struct {
	UserId string `json:"-"`
	PlanId uint64 `json:"plan_id"`
}

func (r *ChangeUserPlanRequest) GetUserId() string { return r.UserId }
func (r *ChangeUserPlanRequest) GetPlanId() uint64 { return r.PlanId }

type User struct {
	Id        string `json:"id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	PlanId    uint64 `json:"plan_id,omitempty"`
	CreatedAt string `json:"created_at"`
}

type PageRequest struct {
	Limit  int
	Offset int
}

func (r *PageRequest) GetLimit() int  { return r.Limit }
func (r *PageRequest) GetOffset() int { return r.Offset }

type IDRequest struct {
	Id uint64
}

func (r *IDRequest) GetId() uint64 { return r.Id }

type Notification struct {
	Id        uint64 `json:"id"`
	Type      string `json:"type"`
	Message   string `json:"message"`
	IsRead    bool   `json:"is_read"`
	CreatedAt string `json:"created_at"`
}

type AuditLog struct {
	Id           uint64          `json:"id"`
	AdminId      string          `json:"admin_id"`
	AdminEmail   string          `json:"admin_email,omitempty"`
	AdminRole    string          `json:"admin_role,omitempty"`
	Action       string          `json:"action"`
	TargetEntity string          `json:"target_entity"`
	Details      json.RawMessage `json:"details,omitempty"`
	CreatedAt    string          `json:"created_at"`
}

type ContentRequest struct {
	Key      string          `json:"-"`
	Content  json.RawMessage `json:"content"`
	Language string          `json:"language"`
}

func (r *ContentRequest) GetKey() string              { return r.Key }
func (r *ContentRequest) GetContent() json.RawMessage { return r.Content }
func (r *ContentRequest) GetLanguage() string         { return r.Language }

type LandingContent struct {
	SectionKey string          `json:"section_key"`
	Content    json.RawMessage `json:"content"`
	Language   string          `json:"language"`
	UpdatedAt  string          `json:"updated_at"`
}

type ConfigRequest struct {
	Key   string          `json:"-"`
	Value json.RawMessage `json:"value"`
}

func (r *ConfigRequest) GetKey() string            { return r.Key }
func (r *ConfigRequest) GetValue() json.RawMessage { return r.Value }

type SystemConfig struct {
	Key       string          `json:"key"`
	Value     json.RawMessage `json:"value"`
	UpdatedBy string          `json:"updated_by,omitempty"`
	UpdatedAt string          `json:"updated_at"`
}
