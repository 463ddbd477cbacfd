package dto

import (
	"encoding/json"

	"github.com/developeraldawla/project-n8n/app/types"
)

type ProfileResponse struct {
	User *types.User `json:"user"`
	Plan *types.Plan `json:"plan,omitempty"`
}

type ListPlansResponse struct {
	Plans []*types.Plan `json:"plans"`
}

type PlanEnvelopeResponse struct {
	Plan *types.Plan `json:"plan"`
}

type ListToolsResponse struct {
	Tools []*types.Tool `json:"tools"`
}

type ToolDetailResponse struct {
	Tool    *types.Tool        `json:"tool"`
	Version *types.ToolVersion `json:"version,omitempty"`
}

type ListToolVersionsResponse struct {
	Versions []*types.ToolVersion `json:"versions"`
}

type ToolVersionEnvelopeResponse struct {
	Version *types.ToolVersion `json:"version"`
}

type ToolAccessResponse struct {
	Access []*types.ToolAccess `json:"access"`
}

type ExecutionUsage struct {
	Used  int64 `json:"used"`
	Limit int64 `json:"limit"`
}

type ExecuteToolResponse struct {
	ExecutionID string          `json:"execution_id"`
	Tool        string          `json:"tool"`
	Version     int32           `json:"version"`
	Output      json.RawMessage `json:"output"`
	OutputKey   string          `json:"output_key,omitempty"`
	Usage       ExecutionUsage  `json:"usage"`
}

type UsageStatsResponse struct {
	PlanName   string `json:"plan_name"`
	DailyLimit int64  `json:"daily_limit"`
	Used       int64  `json:"used"`
	Remaining  int64  `json:"remaining"`
	Total      int64  `json:"total"`
	Success    int64  `json:"success"`
	Failed     int64  `json:"failed"`
	Denied     int64  `json:"denied"`
}

type SubscriptionEnvelopeResponse struct {
	Subscription *types.Subscription `json:"subscription"`
}

type CreateSubscriptionResponse struct {
	Subscription *types.Subscription `json:"subscription"`
	Plan         *types.Plan         `json:"plan"`
	PaymentURL   string              `json:"payment_url,omitempty"`
}

type ListUsersResponse struct {
	Users []*types.User `json:"users"`
}

type ListNotificationsResponse struct {
	Notifications []*types.Notification `json:"notifications"`
}

type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}

type ListAuditLogsResponse struct {
	Logs []*types.AuditLog `json:"logs"`
}

type ListContentResponse struct {
	Sections []*types.LandingContent `json:"sections"`
}
