package middleware

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	tracecontext "collide-social/pkg/context"
)

// 上游网关透传的请求头
const (
	HeaderTraceID   = "X-Trace-ID"
	HeaderRequestID = "X-Request-ID"
	HeaderUserID    = "X-User-ID"
)

// OTelMiddleware OpenTelemetry中间件配置
type OTelMiddleware struct {
	serviceName string
}

// NewOTelMiddleware 创建OpenTelemetry中间件
func NewOTelMiddleware(serviceName string) *OTelMiddleware {
	return &OTelMiddleware{serviceName: serviceName}
}

// GinMiddleware 返回Gin的OpenTelemetry中间件：otelgin创建span，随后补充业务上下文
func (m *OTelMiddleware) GinMiddleware() []gin.HandlerFunc {
	return []gin.HandlerFunc{
		otelgin.Middleware(m.serviceName),
		func(c *gin.Context) {
			ctx := m.enhanceContext(c.Request.Context(), c)
			c.Request = c.Request.WithContext(ctx)
			c.Header(HeaderRequestID, tracecontext.GetRequestID(ctx))
			c.Next()
		},
	}
}

// enhanceContext 写入trace/request/user/client信息
func (m *OTelMiddleware) enhanceContext(ctx context.Context, c *gin.Context) context.Context {
	traceID := c.GetHeader(HeaderTraceID)
	if traceID == "" {
		if span := trace.SpanFromContext(ctx); span.SpanContext().IsValid() {
			traceID = span.SpanContext().TraceID().String()
		}
	}
	ctx = tracecontext.WithTraceID(ctx, traceID)
	ctx = tracecontext.WithRequestID(ctx, c.GetHeader(HeaderRequestID))

	if raw := c.GetHeader(HeaderUserID); raw != "" {
		if userID, err := strconv.ParseInt(raw, 10, 64); err == nil {
			ctx = tracecontext.WithUserID(ctx, userID)
		}
	}

	ctx = tracecontext.WithServiceName(ctx, m.serviceName)
	ctx = tracecontext.WithClientInfo(ctx, c.ClientIP(), c.GetHeader("User-Agent"))

	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(
			attribute.String("http.route", c.FullPath()),
			attribute.String("http.client_ip", c.ClientIP()),
		)
	}

	return ctx
}

// GRPCUnaryServerInterceptor 返回gRPC一元服务器拦截器
func (m *OTelMiddleware) GRPCUnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		ctx = m.enhanceGRPCContext(ctx, info.FullMethod)
		return handler(ctx, req)
	}
}

// enhanceGRPCContext 从metadata中提取追踪信息
func (m *OTelMiddleware) enhanceGRPCContext(ctx context.Context, method string) context.Context {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if traceIDs := md.Get("x-trace-id"); len(traceIDs) > 0 {
			ctx = tracecontext.WithTraceID(ctx, traceIDs[0])
		}
		if requestIDs := md.Get("x-request-id"); len(requestIDs) > 0 {
			ctx = tracecontext.WithRequestID(ctx, requestIDs[0])
		}
		if userIDs := md.Get("x-user-id"); len(userIDs) > 0 {
			if userID, err := strconv.ParseInt(userIDs[0], 10, 64); err == nil {
				ctx = tracecontext.WithUserID(ctx, userID)
			}
		}
	}

	ctx = tracecontext.WithServiceName(ctx, m.serviceName)

	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(
			attribute.String("rpc.method", method),
			attribute.String("rpc.service", m.serviceName),
		)
	}

	return ctx
}
