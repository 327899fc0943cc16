package service

import (
	"context"
	"errors"

	"collide-social/apps/interaction-service/model"
	"collide-social/pkg/logger"
)

// Enricher 批量补全互动视图的内容、作者、关注与点赞信息
// 先对ID去重再逐个查询，避免每条互动各查一次
type Enricher struct {
	contents    ContentReader
	follows     FollowChecker
	likeStatus  LikeChecker
	likeCounts  LikeCounter
	concurrency int
	logger      logger.Logger
}

// NewEnricher 创建补全器
func NewEnricher(contents ContentReader, follows FollowChecker, likeStatus LikeChecker, likeCounts LikeCounter, concurrency int, log logger.Logger) *Enricher {
	return &Enricher{
		contents:    contents,
		follows:     follows,
		likeStatus:  likeStatus,
		likeCounts:  likeCounts,
		concurrency: concurrency,
		logger:      log,
	}
}

// contentLookup 单个内容的查询结果
type contentLookup struct {
	summary   *model.ContentSummary
	likeCount int64
	liked     bool
}

// enrichLookups 本次请求的查询结果
type enrichLookups struct {
	contents map[int64]*contentLookup
	follows  map[int64]bool
}

// Enrich 补全互动列表，任何查询失败都回退为默认值
func (e *Enricher) Enrich(ctx context.Context, currentUserID int64, items []*model.Interaction) {
	if len(items) == 0 {
		return
	}

	lookups := &enrichLookups{
		contents: e.lookupContents(ctx, currentUserID, items),
	}
	lookups.follows = e.lookupFollows(ctx, currentUserID, e.collectAuthors(currentUserID, items, lookups.contents))

	for _, item := range items {
		e.enrichOne(item, currentUserID, lookups)
	}
}

// lookupContents 查询去重后的内容摘要、点赞数和当前用户点赞状态
func (e *Enricher) lookupContents(ctx context.Context, currentUserID int64, items []*model.Interaction) map[int64]*contentLookup {
	var ids []int64
	seen := make(map[int64]bool)
	needLikeStatus := make(map[int64]bool)
	for _, item := range items {
		if item.SubType != model.SubTypeContent {
			continue
		}
		if !seen[item.TargetID] {
			seen[item.TargetID] = true
			ids = append(ids, item.TargetID)
		}
		// 自己的点赞记录无需再查点赞状态
		if !item.IsOwnLike(currentUserID) {
			needLikeStatus[item.TargetID] = true
		}
	}

	slots := make([]*contentLookup, len(ids))
	forEachBounded(ctx, e.logger, "lookup_content", e.concurrency, len(ids), func(ctx context.Context, i int) {
		id := ids[i]
		summary, err := e.contents.GetContentSummary(ctx, id)
		if err != nil {
			if errors.Is(err, model.ErrContentNotFound) {
				e.logger.Debug(ctx, "Content not found for interaction", logger.F("content_id", id))
			} else {
				e.logger.Warn(ctx, "Failed to get content summary",
					logger.F("content_id", id),
					logger.F("error", err.Error()))
			}
			return
		}
		if summary == nil {
			return
		}

		lookup := &contentLookup{summary: summary}
		if count, err := e.likeCounts.CountTargetLikes(ctx, id, model.SubTypeContent); err != nil {
			e.logger.Warn(ctx, "Failed to count content likes",
				logger.F("content_id", id),
				logger.F("error", err.Error()))
		} else {
			lookup.likeCount = count
		}
		if needLikeStatus[id] {
			if liked, err := e.likeStatus.CheckLikeStatus(ctx, currentUserID, model.SubTypeContent, id); err != nil {
				e.logger.Warn(ctx, "Failed to check like status",
					logger.F("content_id", id),
					logger.F("user_id", currentUserID),
					logger.F("error", err.Error()))
			} else {
				lookup.liked = liked
			}
		}
		slots[i] = lookup
	})

	result := make(map[int64]*contentLookup, len(ids))
	for i, lookup := range slots {
		if lookup != nil {
			result[ids[i]] = lookup
		}
	}
	return result
}

// collectAuthors 收集需要查询关注状态的作者，排除当前用户
func (e *Enricher) collectAuthors(currentUserID int64, items []*model.Interaction, contents map[int64]*contentLookup) []int64 {
	var authors []int64
	seen := make(map[int64]bool)
	add := func(id int64) {
		if id <= 0 || id == currentUserID || seen[id] {
			return
		}
		seen[id] = true
		authors = append(authors, id)
	}

	for _, item := range items {
		switch {
		case item.SubType == model.SubTypeContent:
			if lookup, ok := contents[item.TargetID]; ok {
				add(lookup.summary.AuthorID)
			}
		case item.InteractionType == model.InteractionTypeLike:
			add(item.AuthorID)
		}
	}
	return authors
}

// lookupFollows 查询当前用户对各作者的关注状态
func (e *Enricher) lookupFollows(ctx context.Context, currentUserID int64, authors []int64) map[int64]bool {
	slots := make([]bool, len(authors))
	forEachBounded(ctx, e.logger, "lookup_follow", e.concurrency, len(authors), func(ctx context.Context, i int) {
		following, err := e.follows.CheckFollowStatus(ctx, currentUserID, authors[i])
		if err != nil {
			e.logger.Warn(ctx, "Failed to check follow status",
				logger.F("user_id", currentUserID),
				logger.F("author_id", authors[i]),
				logger.F("error", err.Error()))
			return
		}
		slots[i] = following
	})

	result := make(map[int64]bool, len(authors))
	for i, id := range authors {
		result[id] = slots[i]
	}
	return result
}

// enrichOne 按子类型补全单条互动
func (e *Enricher) enrichOne(item *model.Interaction, currentUserID int64, lookups *enrichLookups) {
	if item.ContentCoverURLs == nil {
		item.ContentCoverURLs = []string{}
	}

	switch {
	case item.SubType == model.SubTypeContent:
		lookup, ok := lookups.contents[item.TargetID]
		if !ok {
			applyContentFallback(item)
			return
		}
		summary := lookup.summary
		item.Title = summary.Title
		item.AuthorID = summary.AuthorID
		item.AuthorNickname = summary.AuthorNickname
		item.AuthorAvatar = summary.AuthorAvatar
		item.ContentCoverURLs = SplitCoverURLs(summary.CoverURL)
		item.ContentDescription = summary.Description
		item.ContentLikeCount = lookup.likeCount
		item.IsLike = item.IsOwnLike(currentUserID) || lookup.liked
		item.IsFollowingAuthor = lookups.follows[summary.AuthorID]

	case item.InteractionType == model.InteractionTypeLike:
		// 评论或动态上的点赞，只有点赞记录上冗余的标题和作者
		item.Title = fallbackTitle(item)
		item.ContentLikeCount = 0
		item.IsLike = true
		item.IsFollowingAuthor = lookups.follows[item.AuthorID]

	default:
		applyContentFallback(item)
	}
}

// applyContentFallback 内容无法解析时的默认值
func applyContentFallback(item *model.Interaction) {
	item.Title = fallbackTitle(item)
	if item.InteractionType == model.InteractionTypeComment {
		item.AuthorID = 0
		item.AuthorNickname = ""
		item.AuthorAvatar = ""
	}
	item.ContentLikeCount = 0
	item.IsLike = false
	item.IsFollowingAuthor = false
	item.ContentCoverURLs = []string{}
	item.ContentDescription = ""
}

func fallbackTitle(item *model.Interaction) string {
	if item.StoredTitle != "" {
		return item.StoredTitle
	}
	return model.UnknownContentTitle
}

// FillMissing 二次补全：对标题或作者仍为空的内容互动重新读取内容摘要，只填充空字段
func (e *Enricher) FillMissing(ctx context.Context, items []*model.Interaction) {
	var ids []int64
	seen := make(map[int64]bool)
	for _, item := range items {
		switch item.SubType {
		case model.SubTypeContent:
			if (item.Title == "" || item.AuthorID == 0) && !seen[item.TargetID] {
				seen[item.TargetID] = true
				ids = append(ids, item.TargetID)
			}
		case model.SubTypeDynamic:
			if item.Title == "" || item.AuthorID == 0 {
				e.logger.Debug(ctx, "Dynamic interaction has no target details",
					logger.F("interaction_id", item.ID),
					logger.F("target_id", item.TargetID))
			}
		}
	}
	if len(ids) == 0 {
		return
	}

	slots := make([]*model.ContentSummary, len(ids))
	forEachBounded(ctx, e.logger, "fill_missing", e.concurrency, len(ids), func(ctx context.Context, i int) {
		summary, err := e.contents.GetContentSummary(ctx, ids[i])
		if err != nil {
			e.logger.Debug(ctx, "Content still unavailable for missing fields",
				logger.F("content_id", ids[i]),
				logger.F("error", err.Error()))
			return
		}
		slots[i] = summary
	})

	summaries := make(map[int64]*model.ContentSummary, len(ids))
	for i, summary := range slots {
		if summary != nil {
			summaries[ids[i]] = summary
		}
	}

	for _, item := range items {
		if item.SubType != model.SubTypeContent {
			continue
		}
		summary, ok := summaries[item.TargetID]
		if !ok {
			continue
		}
		if item.Title == "" {
			item.Title = summary.Title
		}
		if item.AuthorID == 0 {
			item.AuthorID = summary.AuthorID
		}
		if item.AuthorNickname == "" {
			item.AuthorNickname = summary.AuthorNickname
		}
		if item.AuthorAvatar == "" {
			item.AuthorAvatar = summary.AuthorAvatar
		}
	}
}
