package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"

	"collide-social/apps/interaction-service/consumer"
	"collide-social/apps/interaction-service/dao"
	"collide-social/apps/interaction-service/handler"
	"collide-social/apps/interaction-service/model"
	"collide-social/apps/interaction-service/service"
	"collide-social/pkg/lifecycle"
	"collide-social/pkg/server"
)

func main() {
	// 创建应用程序
	app, err := server.NewApplication("interaction-service")
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}
	cfg := app.GetConfig()
	appLogger := app.GetLogger()

	// 启用HTTP服务器，gRPC只提供健康检查
	app.EnableHTTP()
	app.EnableGRPC()

	// 初始化PostgreSQL连接
	postgreSQL := app.GetPostgreSQL()

	// 自动迁移数据库表结构
	if err := postgreSQL.AutoMigrate(
		&model.Like{},
		&model.Comment{},
		&model.Content{},
		&model.Follow{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// 初始化DAO层
	likeDAO := dao.NewLikeDAO(postgreSQL)
	commentDAO := dao.NewCommentDAO(postgreSQL)
	contentDAO := dao.NewContentDAO(postgreSQL)
	followDAO := dao.NewFollowDAO(postgreSQL)

	// Redis不可用时点赞数直接查库
	var cache dao.LikeCountCache
	if redisClient := app.GetRedisClient(); redisClient != nil {
		cache = redisClient
	}
	likeCounter := dao.NewCachedLikeCounter(likeDAO, cache, cfg.Aggregation.LikeCountCacheTTL, appLogger)

	producer := app.GetKafkaProducer()
	deps := service.Deps{
		Contents:    contentDAO,
		Follows:     followDAO,
		LikeStatus:  likeDAO,
		LikeCounts:  likeCounter,
		Likes:       likeDAO,
		Comments:    commentDAO,
		LikeWriter:  likeDAO,
		CountCache:  likeCounter,
		EventsTopic: cfg.Kafka.LikeTopic,
	}
	if producer != nil {
		deps.Events = producer
	}

	// 初始化Service层
	svc := service.NewService(deps, cfg.Aggregation, appLogger)

	// 初始化Handler并注册HTTP路由
	httpHandler := handler.NewHTTPHandler(svc, appLogger)
	app.RegisterHTTPRoutes(func(engine *gin.Engine) {
		httpHandler.RegisterRoutes(engine)
	})

	// 点赞事件消费者，负责清理其他实例的点赞数缓存，Kafka不可用时不启动
	if producer != nil {
		likeConsumer := consumer.NewLikeEventConsumer(likeCounter, appLogger)
		app.AddLifecycleHook(lifecycle.Hook{
			Name:     "like-event-consumer",
			Priority: 200,
			OnStart: func(context.Context) error {
				// 消费循环的生命周期跟随进程，不使用启动超时上下文
				return likeConsumer.Start(context.Background(), cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.LikeTopic)
			},
			OnStop: func(context.Context) error {
				return likeConsumer.Stop()
			},
		})
	}

	// 运行应用程序
	if err := app.Run(); err != nil {
		log.Fatalf("Application exited: %v", err)
	}
}
