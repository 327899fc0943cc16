package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"collide-social/apps/interaction-service/converter"
	"collide-social/apps/interaction-service/model"
	"collide-social/apps/interaction-service/service"
	tracecontext "collide-social/pkg/context"
	"collide-social/pkg/httpx"
	"collide-social/pkg/logger"
)

// InteractionService 处理器依赖的互动服务
type InteractionService interface {
	GetUserInteractions(ctx context.Context, req *model.InteractionQueryRequest) (*model.PageResult, error)
	GetAllInteractions(ctx context.Context, userID int64, currentPage, pageSize int) (*model.PageResult, error)
	GetInteractionStatistics(ctx context.Context, userID int64) (*model.InteractionStatistics, error)
	DoLike(ctx context.Context, userID int64, likeType string, targetID int64, targetTitle string, targetAuthorID int64) (*model.Like, error)
	CancelLike(ctx context.Context, userID int64, likeType string, targetID int64) (bool, error)
}

// HTTPHandler HTTP处理器
type HTTPHandler struct {
	svc       InteractionService
	converter *converter.Converter
	logger    logger.Logger
}

// NewHTTPHandler 创建HTTP处理器
func NewHTTPHandler(svc InteractionService, log logger.Logger) *HTTPHandler {
	return &HTTPHandler{
		svc:       svc,
		converter: converter.NewConverter(),
		logger:    log,
	}
}

// RegisterRoutes 注册HTTP路由
func (h *HTTPHandler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		// 互动聚合查询
		api.GET("/user-interactions", h.QueryUserInteractions)               // 查询参数形式
		api.POST("/user-interactions/query", h.GetUserInteractions)          // JSON请求体形式
		api.GET("/user-interactions/all", h.GetAllInteractions)              // 全部互动
		api.GET("/user-interactions/statistics", h.GetInteractionStatistics) // 互动统计

		// 点赞
		api.POST("/likes/do", h.DoLike)         // 点赞
		api.POST("/likes/cancel", h.CancelLike) // 取消点赞
	}
}

// QueryUserInteractions 按查询参数查询用户互动
func (h *HTTPHandler) QueryUserInteractions(c *gin.Context) {
	var req model.InteractionQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpx.Fail(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}
	h.queryInteractions(c, &req)
}

// GetUserInteractions 按JSON请求体查询用户互动
func (h *HTTPHandler) GetUserInteractions(c *gin.Context) {
	var req model.InteractionQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Fail(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}
	h.queryInteractions(c, &req)
}

func (h *HTTPHandler) queryInteractions(c *gin.Context, req *model.InteractionQueryRequest) {
	ctx := c.Request.Context()
	if req.UserID == 0 {
		req.UserID = tracecontext.GetUserID(ctx)
	}

	result, err := h.svc.GetUserInteractions(ctx, req)
	if err != nil {
		h.logger.Error(ctx, "Failed to query user interactions",
			logger.F("error", err.Error()),
			logger.F("userID", req.UserID),
			logger.F("interactionType", req.InteractionType),
			logger.F("direction", req.Direction))
		h.writeError(c, err)
		return
	}

	httpx.OK(c, "查询成功", h.converter.PageResultToVO(result))
}

// AllInteractionsRequest 全部互动查询请求
type AllInteractionsRequest struct {
	UserID      int64 `form:"userId"`
	CurrentPage int   `form:"currentPage"`
	PageSize    int   `form:"pageSize"`
}

// GetAllInteractions 查询用户全部互动
func (h *HTTPHandler) GetAllInteractions(c *gin.Context) {
	var req AllInteractionsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpx.Fail(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}

	ctx := c.Request.Context()
	if req.UserID == 0 {
		req.UserID = tracecontext.GetUserID(ctx)
	}

	result, err := h.svc.GetAllInteractions(ctx, req.UserID, req.CurrentPage, req.PageSize)
	if err != nil {
		h.logger.Error(ctx, "Failed to get all interactions",
			logger.F("error", err.Error()),
			logger.F("userID", req.UserID))
		h.writeError(c, err)
		return
	}

	httpx.OK(c, "查询成功", h.converter.PageResultToVO(result))
}

// StatisticsRequest 互动统计请求
type StatisticsRequest struct {
	UserID int64 `form:"userId"`
}

// GetInteractionStatistics 查询用户互动统计
func (h *HTTPHandler) GetInteractionStatistics(c *gin.Context) {
	var req StatisticsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpx.Fail(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}

	ctx := c.Request.Context()
	if req.UserID == 0 {
		req.UserID = tracecontext.GetUserID(ctx)
	}

	stats, err := h.svc.GetInteractionStatistics(ctx, req.UserID)
	if err != nil {
		h.logger.Error(ctx, "Failed to get interaction statistics",
			logger.F("error", err.Error()),
			logger.F("userID", req.UserID))
		h.writeError(c, err)
		return
	}

	httpx.OK(c, "查询成功", stats)
}

// DoLikeRequest 点赞请求
type DoLikeRequest struct {
	UserID         int64  `json:"userId" binding:"required"`
	LikeType       string `json:"likeType" binding:"required"`
	TargetID       int64  `json:"targetId" binding:"required"`
	TargetTitle    string `json:"targetTitle"`
	TargetAuthorID int64  `json:"targetAuthorId"`
}

// DoLike 点赞
func (h *HTTPHandler) DoLike(c *gin.Context) {
	var req DoLikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Fail(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}

	ctx := c.Request.Context()
	like, err := h.svc.DoLike(ctx, req.UserID, req.LikeType, req.TargetID, req.TargetTitle, req.TargetAuthorID)
	if err != nil {
		h.logger.Error(ctx, "Failed to like target",
			logger.F("error", err.Error()),
			logger.F("userID", req.UserID),
			logger.F("likeType", req.LikeType),
			logger.F("targetID", req.TargetID))
		h.writeError(c, err)
		return
	}

	httpx.OK(c, "点赞成功", h.converter.LikeModelToVO(like))
}

// CancelLikeRequest 取消点赞请求
type CancelLikeRequest struct {
	UserID   int64  `json:"userId" binding:"required"`
	LikeType string `json:"likeType" binding:"required"`
	TargetID int64  `json:"targetId" binding:"required"`
}

// CancelLike 取消点赞
func (h *HTTPHandler) CancelLike(c *gin.Context) {
	var req CancelLikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Fail(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}

	ctx := c.Request.Context()
	cancelled, err := h.svc.CancelLike(ctx, req.UserID, req.LikeType, req.TargetID)
	if err != nil {
		h.logger.Error(ctx, "Failed to cancel like",
			logger.F("error", err.Error()),
			logger.F("userID", req.UserID),
			logger.F("likeType", req.LikeType),
			logger.F("targetID", req.TargetID))
		h.writeError(c, err)
		return
	}

	httpx.OK(c, "取消成功", gin.H{"cancelled": cancelled})
}

// writeError 按错误类型选择HTTP状态码
func (h *HTTPHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrInvalidUserID), errors.Is(err, model.ErrInvalidTarget):
		httpx.Fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrLikeWriteUnavailable):
		httpx.Fail(c, http.StatusServiceUnavailable, err.Error())
	default:
		httpx.Fail(c, http.StatusInternalServerError, err.Error())
	}
}
