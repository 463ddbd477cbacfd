package grpc

import (
	"context"
	"time"

	"github.com/developeraldawla/project-n8n/app/entity"
	"github.com/developeraldawla/project-n8n/app/service"
	"github.com/developeraldawla/project-n8n/app/types"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type Server struct {
	types.UnimplementedGateServiceServer
	gateService  *service.GateService
	usageService *service.UsageService
}

func NewServer(gateService *service.GateService, usageService *service.UsageService) *Server {
	return &Server{gateService: gateService, usageService: usageService}
}

// IsEnabled never fails for an unknown user; the gate answers false.
func (s *Server) IsEnabled(ctx context.Context, req *types.FeatureRequest) (*types.FeatureResponse, error) {
	if err := req.Validate(); err != nil {
		loggerWithContext(ctx).WithError(err).Debug("IsEnabled validation failed")
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	return &types.FeatureResponse{
		UserId:  req.GetUserId(),
		Key:     req.GetKey(),
		Enabled: s.gateService.IsEnabled(ctx, req.GetUserId(), req.GetKey()),
	}, nil
}

func (s *Server) GetLimit(ctx context.Context, req *types.LimitRequest) (*types.LimitResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	limit := s.gateService.GetLimit(ctx, req.GetUserId(), req.GetKey())
	return &types.LimitResponse{
		UserId:    req.GetUserId(),
		Key:       req.GetKey(),
		Limit:     limit,
		Unlimited: limit == entity.LimitUnlimited,
	}, nil
}

func (s *Server) GetUsage(ctx context.Context, req *types.UsageRequest) (*types.UsageResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	usage, err := s.usageService.Usage(ctx, req.GetUserId())
	if err != nil {
		loggerWithContext(ctx).WithError(err).Error("Get usage failed")
		return nil, status.Error(codes.Internal, "internal server error")
	}
	return toUsageResponse(req.GetUserId(), usage), nil
}

// ConsumeQuota takes one unit of the user's daily quota for callers that run
// work outside the platform. Denials carry a QuotaFailure detail.
func (s *Server) ConsumeQuota(ctx context.Context, req *types.UsageRequest) (*types.UsageResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	usage, err := s.usageService.Consume(ctx, req.GetUserId())
	if err != nil {
		loggerWithContext(ctx).WithError(err).Error("Consume quota failed")
		return nil, status.Error(codes.Internal, "internal server error")
	}
	if !usage.Allowed {
		return nil, quotaExceeded(req.GetUserId(), usage)
	}
	return toUsageResponse(req.GetUserId(), usage), nil
}

func quotaExceeded(userID string, usage *service.Consumption) error {
	st := status.New(codes.ResourceExhausted, service.ErrDailyLimitReached.Error())
	detailed, err := st.WithDetails(&errdetails.QuotaFailure{
		Violations: []*errdetails.QuotaFailure_Violation{{
			Subject:     "user:" + userID,
			Description: "daily tool executions exhausted",
		}},
	})
	if err != nil {
		return st.Err()
	}
	return detailed.Err()
}

func toUsageResponse(userID string, usage *service.Consumption) *types.UsageResponse {
	return &types.UsageResponse{
		UserId:    userID,
		Date:      time.Now().UTC().Format("2006-01-02"),
		Used:      usage.Used,
		Limit:     usage.Limit,
		Remaining: usage.Remaining(),
	}
}
