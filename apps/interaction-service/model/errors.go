package model

import "errors"

var (
	ErrInvalidUserID   = errors.New("用户ID不能为空")
	ErrInvalidTarget   = errors.New("目标对象无效")
	ErrContentNotFound = errors.New("内容不存在")
	ErrLikeNotFound    = errors.New("点赞记录不存在")
)
