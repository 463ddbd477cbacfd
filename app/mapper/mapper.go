package mapper

import (
	"time"

	"github.com/developeraldawla/project-n8n/app/entity"
	"github.com/developeraldawla/project-n8n/app/types"
)

func PlanToProto(item *entity.Plan) *types.Plan {
	if item == nil {
		return nil
	}

	features := item.Features
	if features == nil {
		features = map[string]bool{}
	}
	limits := item.Limits
	if limits == nil {
		limits = map[string]int64{}
	}

	return &types.Plan{
		Id:                item.ID,
		Slug:              item.Slug,
		Name:              item.Name,
		Description:       item.Description,
		PriceMonthlyCents: item.PriceMonthlyCents,
		PriceYearlyCents:  item.PriceYearlyCents,
		Currency:          item.Currency,
		TrialDays:         item.TrialDays,
		Features:          features,
		Limits:            limits,
		IsActive:          item.IsActive,
		CreatedAt:         item.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:         item.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func PlansToProto(items []*entity.Plan) []*types.Plan {
	result := make([]*types.Plan, 0, len(items))
	for _, item := range items {
		result = append(result, PlanToProto(item))
	}
	return result
}

func ToolToProto(item *entity.Tool) *types.Tool {
	if item == nil {
		return nil
	}

	return &types.Tool{
		Id:             item.ID,
		Slug:           item.Slug,
		Name:           item.Name,
		Category:       item.Category,
		Description:    item.Description,
		Status:         item.Status,
		CurrentVersion: item.CurrentVersion,
		CreatedAt:      item.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:      item.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func ToolsToProto(items []*entity.Tool) []*types.Tool {
	result := make([]*types.Tool, 0, len(items))
	for _, item := range items {
		result = append(result, ToolToProto(item))
	}
	return result
}

// ToolVersionToProto hides the webhook URL unless withWebhook is set; end
// users never see where a tool is executed.
func ToolVersionToProto(item *entity.ToolVersion, withWebhook bool) *types.ToolVersion {
	if item == nil {
		return nil
	}

	out := &types.ToolVersion{
		ToolId:       item.ToolID,
		Version:      item.VersionNumber,
		InputSchema:  item.InputSchema,
		OutputSchema: item.OutputSchema,
		IsPublished:  item.IsPublished,
		PublishedAt:  formatTime(item.PublishedAt),
		CreatedAt:    item.CreatedAt.UTC().Format(time.RFC3339),
	}
	if withWebhook {
		out.WebhookUrl = item.WebhookURL
	}
	return out
}

func ToolVersionsToProto(items []*entity.ToolVersion) []*types.ToolVersion {
	result := make([]*types.ToolVersion, 0, len(items))
	for _, item := range items {
		result = append(result, ToolVersionToProto(item, true))
	}
	return result
}

func ToolAccessToProto(items []*entity.ToolAccess) []*types.ToolAccess {
	result := make([]*types.ToolAccess, 0, len(items))
	for _, item := range items {
		result = append(result, &types.ToolAccess{ToolId: item.ToolID, PlanId: item.PlanID, IsHidden: item.IsHidden})
	}
	return result
}

func SubscriptionToProto(item *entity.Subscription) *types.Subscription {
	if item == nil {
		return nil
	}

	return &types.Subscription{
		Id:                 item.ID,
		UserId:             item.UserID,
		PlanId:             item.PlanID,
		Status:             item.Status,
		StatusName:         SubscriptionStatusName(item.Status),
		CurrentPeriodStart: formatTime(item.CurrentPeriodStart),
		CurrentPeriodEnd:   formatTime(item.CurrentPeriodEnd),
		CancelAtPeriodEnd:  item.CancelAtPeriodEnd,
		TransactionId:      derefString(item.TransactionID),
		CreatedAt:          item.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:          item.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func SubscriptionStatusName(status int32) string {
	switch status {
	case entity.SubscriptionStatusInactive:
		return "inactive"
	case entity.SubscriptionStatusProcessing:
		return "processing"
	case entity.SubscriptionStatusPendingPayment:
		return "pending_payment"
	case entity.SubscriptionStatusActive:
		return "active"
	default:
		return "unknown"
	}
}

func UserToProto(item *entity.User) *types.User {
	if item == nil {
		return nil
	}

	out := &types.User{
		Id:        item.ID,
		Email:     item.Email,
		Role:      item.Role,
		CreatedAt: item.CreatedAt.UTC().Format(time.RFC3339),
	}
	if item.PlanID != nil {
		out.PlanId = *item.PlanID
	}
	return out
}

func UsersToProto(items []*entity.User) []*types.User {
	result := make([]*types.User, 0, len(items))
	for _, item := range items {
		result = append(result, UserToProto(item))
	}
	return result
}

func NotificationsToProto(items []*entity.Notification) []*types.Notification {
	result := make([]*types.Notification, 0, len(items))
	for _, item := range items {
		result = append(result, &types.Notification{
			Id:        item.ID,
			Type:      item.Type,
			Message:   item.Message,
			IsRead:    item.IsRead,
			CreatedAt: item.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return result
}

func AuditLogsToProto(items []*entity.AuditLog) []*types.AuditLog {
	result := make([]*types.AuditLog, 0, len(items))
	for _, item := range items {
		result = append(result, &types.AuditLog{
			Id:           item.ID,
			AdminId:      item.AdminID,
			AdminEmail:   item.AdminEmail,
			AdminRole:    item.AdminRole,
			Action:       item.Action,
			TargetEntity: item.TargetEntity,
			Details:      item.Details,
			CreatedAt:    item.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return result
}

func LandingContentToProto(item *entity.LandingContent) *types.LandingContent {
	if item == nil {
		return nil
	}
	return &types.LandingContent{
		SectionKey: item.SectionKey,
		Content:    item.Content,
		Language:   item.Language,
		UpdatedAt:  item.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func LandingContentsToProto(items []*entity.LandingContent) []*types.LandingContent {
	result := make([]*types.LandingContent, 0, len(items))
	for _, item := range items {
		result = append(result, LandingContentToProto(item))
	}
	return result
}

func SystemConfigToProto(item *entity.SystemConfig) *types.SystemConfig {
	if item == nil {
		return nil
	}
	return &types.SystemConfig{
		Key:       item.Key,
		Value:     item.Value,
		UpdatedBy: derefString(item.UpdatedBy),
		UpdatedAt: item.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func formatTime(v *time.Time) string {
	if v == nil {
		return ""
	}
	return v.UTC().Format(time.RFC3339)
}
