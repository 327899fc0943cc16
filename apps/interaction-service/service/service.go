package service

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"collide-social/apps/interaction-service/model"
	"collide-social/pkg/config"
	tracecontext "collide-social/pkg/context"
	"collide-social/pkg/logger"
	"collide-social/pkg/telemetry"
)

// Service 用户互动聚合服务
type Service struct {
	deps     Deps
	cfg      config.AggregationConfig
	enricher *Enricher
	logger   logger.Logger
}

// NewService 创建互动聚合服务实例
func NewService(deps Deps, cfg config.AggregationConfig, log logger.Logger) *Service {
	if cfg.FetchLimit <= 0 {
		cfg.FetchLimit = model.SourceFetchLimit
	}
	if cfg.DefaultPageSize <= 0 {
		cfg.DefaultPageSize = model.DefaultPageSize
	}
	if cfg.MaxPageSize <= 0 {
		cfg.MaxPageSize = model.MaxPageSize
	}
	if cfg.SourceConcurrency <= 0 {
		cfg.SourceConcurrency = 1
	}
	if cfg.EnrichConcurrency <= 0 {
		cfg.EnrichConcurrency = 1
	}
	if deps.EventsTopic == "" {
		deps.EventsTopic = model.TopicLikeEvents
	}

	return &Service{
		deps:     deps,
		cfg:      cfg,
		enricher: NewEnricher(deps.Contents, deps.Follows, deps.LikeStatus, deps.LikeCounts, cfg.EnrichConcurrency, log),
		logger:   log,
	}
}

// normalizedQuery 填充默认值后的查询条件
type normalizedQuery struct {
	userID          int64
	interactionType string
	likeType        string
	commentType     string
	direction       string
	orderBy         string
	orderDirection  string
	page            int
	size            int
}

// GetUserInteractions 按条件查询用户互动
func (s *Service) GetUserInteractions(ctx context.Context, req *model.InteractionQueryRequest) (result *model.PageResult, err error) {
	ctx, span := telemetry.StartSpan(ctx, "interaction.service.GetUserInteractions")
	defer span.End()
	defer s.recoverQuery(ctx, span, "GetUserInteractions", &result, &err)

	if req == nil || req.UserID <= 0 {
		span.SetStatus(codes.Error, "invalid user ID")
		return nil, model.ErrInvalidUserID
	}

	q := s.normalizeQuery(req)
	ctx = tracecontext.WithUserID(ctx, q.userID)
	span.SetAttributes(
		attribute.Int64("interaction.user_id", q.userID),
		attribute.String("interaction.type", q.interactionType),
		attribute.String("interaction.like_type", q.likeType),
		attribute.String("interaction.comment_type", q.commentType),
		attribute.String("interaction.direction", q.direction),
		attribute.String("interaction.order_by", q.orderBy),
		attribute.String("interaction.order_direction", q.orderDirection),
		attribute.Int("interaction.page", q.page),
		attribute.Int("interaction.page_size", q.size),
	)

	kinds := selectSources(q)
	items := s.fetchSources(ctx, sourceQuery{
		userID: q.userID,
		order:  model.SortOrder{OrderBy: q.orderBy, Direction: q.orderDirection},
	}, kinds)

	SortInteractions(items, q.orderBy, q.orderDirection)
	result = Paginate(items, q.page, q.size)

	s.enricher.Enrich(ctx, q.userID, result.Records)
	s.enricher.FillMissing(ctx, result.Records)

	span.SetAttributes(
		attribute.Int("interaction.source_count", len(kinds)),
		attribute.Int64("interaction.total", result.Total),
		attribute.Int("interaction.record_count", len(result.Records)),
	)
	span.SetStatus(codes.Ok, "")

	s.logger.Debug(ctx, "User interactions queried",
		logger.F("user_id", q.userID),
		logger.F("interaction_type", q.interactionType),
		logger.F("direction", q.direction),
		logger.F("total", result.Total),
		logger.F("page", q.page))
	return result, nil
}

// GetUserInteractionsWithParams 按参数查询用户互动，构造请求后委托给GetUserInteractions
func (s *Service) GetUserInteractionsWithParams(ctx context.Context, userID int64, interactionType, likeType, commentType, direction, orderBy, orderDirection string, currentPage, pageSize int) (*model.PageResult, error) {
	return s.GetUserInteractions(ctx, &model.InteractionQueryRequest{
		UserID:          userID,
		InteractionType: interactionType,
		LikeType:        likeType,
		CommentType:     commentType,
		Direction:       direction,
		OrderBy:         orderBy,
		OrderDirection:  orderDirection,
		CurrentPage:     currentPage,
		PageSize:        pageSize,
	})
}

// GetAllInteractions 查询用户全部互动：我的点赞、我的评论和回复我的评论，按创建时间倒序
func (s *Service) GetAllInteractions(ctx context.Context, userID int64, currentPage, pageSize int) (result *model.PageResult, err error) {
	ctx, span := telemetry.StartSpan(ctx, "interaction.service.GetAllInteractions")
	defer span.End()
	defer s.recoverQuery(ctx, span, "GetAllInteractions", &result, &err)

	if userID <= 0 {
		span.SetStatus(codes.Error, "invalid user ID")
		return nil, model.ErrInvalidUserID
	}

	page, size := s.clampPage(currentPage, pageSize)
	ctx = tracecontext.WithUserID(ctx, userID)
	span.SetAttributes(
		attribute.Int64("interaction.user_id", userID),
		attribute.Int("interaction.page", page),
		attribute.Int("interaction.page_size", size),
	)

	items := s.fetchSources(ctx, sourceQuery{
		userID: userID,
		order:  model.SortOrder{OrderBy: model.OrderByCreateTime, Direction: model.OrderDesc},
	}, allViewSources)

	SortInteractions(items, model.OrderByCreateTime, model.OrderDesc)
	result = Paginate(items, page, size)
	s.enricher.Enrich(ctx, userID, result.Records)

	span.SetAttributes(
		attribute.Int64("interaction.total", result.Total),
		attribute.Int("interaction.record_count", len(result.Records)),
	)
	span.SetStatus(codes.Ok, "")
	return result, nil
}

// recoverQuery 在服务边界捕获panic并转换为普通错误
func (s *Service) recoverQuery(ctx context.Context, span trace.Span, operation string, result **model.PageResult, err *error) {
	r := recover()
	if r == nil {
		return
	}

	s.logger.Error(ctx, "Interaction query panicked",
		logger.F("operation", operation),
		logger.F("panic", fmt.Sprint(r)))
	span.SetStatus(codes.Error, "internal error")

	*result = nil
	*err = fmt.Errorf("查询失败: %v", r)
}

// normalizeQuery 填充默认值，无法识别的枚举值回退为默认值
func (s *Service) normalizeQuery(req *model.InteractionQueryRequest) *normalizedQuery {
	page, size := s.clampPage(req.CurrentPage, req.PageSize)
	return &normalizedQuery{
		userID:          req.UserID,
		interactionType: pickEnum(req.InteractionType, model.FilterAll, model.FilterLikes, model.FilterComments),
		likeType:        pickEnum(req.LikeType, "", model.SubTypeContent, model.SubTypeComment),
		commentType:     pickEnum(req.CommentType, "", model.SubTypeContent, model.SubTypeDynamic),
		direction:       pickEnum(req.Direction, model.DirectionAll, model.DirectionGive, model.DirectionReceive),
		orderBy:         pickEnum(req.OrderBy, model.OrderByCreateTime, model.OrderByUpdateTime),
		orderDirection:  pickEnum(req.OrderDirection, model.OrderDesc, model.OrderAsc),
		page:            page,
		size:            size,
	}
}

// clampPage 页码至少为1，每页条数为空时取默认值且不超过上限
func (s *Service) clampPage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = s.cfg.DefaultPageSize
	}
	if size > s.cfg.MaxPageSize {
		size = s.cfg.MaxPageSize
	}
	return page, size
}

// pickEnum 忽略大小写匹配枚举值，匹配失败返回默认值
func pickEnum(value, def string, allowed ...string) string {
	value = strings.TrimSpace(value)
	if strings.EqualFold(value, def) {
		return def
	}
	for _, a := range allowed {
		if strings.EqualFold(value, a) {
			return a
		}
	}
	return def
}
