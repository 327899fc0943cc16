package model

// 默认配置
const (
	DefaultPageSize  = 20
	MaxPageSize      = 100
	SourceFetchLimit = 1000 // 单个数据源最多拉取的行数
)

// 互动类型
const (
	InteractionTypeLike    = "LIKE"
	InteractionTypeComment = "COMMENT"
)

// 互动子类型（目标对象类型）
const (
	SubTypeContent = "CONTENT"
	SubTypeComment = "COMMENT"
	SubTypeDynamic = "DYNAMIC"
)

// 查询过滤：互动类型
const (
	FilterAll      = "ALL"
	FilterLikes    = "LIKES"
	FilterComments = "COMMENTS"
)

// 查询过滤：方向
const (
	DirectionAll     = "ALL"
	DirectionGive    = "GIVE"
	DirectionReceive = "RECEIVE"
)

// 排序字段
const (
	OrderByCreateTime = "createTime"
	OrderByUpdateTime = "updateTime"
)

// 排序方向
const (
	OrderAsc  = "ASC"
	OrderDesc = "DESC"
)

// 记录状态
const (
	LikeStatusActive    = "active"
	LikeStatusCancelled = "cancelled"
	CommentStatusNormal = "NORMAL"
	CommentStatusDelete = "DELETED"
	FollowStatusActive  = "active"
)

// UnknownContentTitle 内容无法解析时的占位标题
const UnknownContentTitle = "未知内容"

// Redis缓存键前缀
const (
	CacheKeyLikeCount = "interaction:like_count" // 目标点赞数缓存
)

// Kafka主题
const (
	TopicLikeEvents = "like-events"
)

// 点赞事件类型
const (
	LikeEventDo     = "like"
	LikeEventCancel = "cancel"
)

// ValidLikeTypes 可点赞的目标类型
var ValidLikeTypes = []string{
	SubTypeContent,
	SubTypeComment,
	SubTypeDynamic,
}

// ValidateLikeType 验证点赞目标类型
func ValidateLikeType(likeType string) bool {
	for _, t := range ValidLikeTypes {
		if t == likeType {
			return true
		}
	}
	return false
}
