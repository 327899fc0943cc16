package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"collide-social/apps/interaction-service/model"
	"collide-social/pkg/config"
	"collide-social/pkg/logger"
)

var errBackend = errors.New("backend unavailable")

var baseTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// at 返回基准时间之后n分钟的时间指针
func at(n int) *time.Time {
	t := baseTime.Add(time.Duration(n) * time.Minute)
	return &t
}

func pageOf[T any](rows []T, page model.PageRequest) []T {
	offset := page.Offset()
	if offset >= len(rows) {
		return []T{}
	}
	end := offset + page.Size
	if end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end]
}

type fakeLikes struct {
	mu      sync.Mutex
	rows    []*model.Like
	userErr error
	authErr error
	queries []string
}

func (f *fakeLikes) record(q string) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	f.mu.Unlock()
}

func (f *fakeLikes) FindUserLikes(ctx context.Context, page model.PageRequest, userID int64, likeType, status string) ([]*model.Like, int64, error) {
	f.record("user:" + likeType)
	if f.userErr != nil {
		return nil, 0, f.userErr
	}
	var matched []*model.Like
	for _, l := range f.rows {
		if l.UserID == userID && (likeType == "" || l.LikeType == likeType) && (status == "" || l.Status == status) {
			matched = append(matched, l)
		}
	}
	return pageOf(matched, page), int64(len(matched)), nil
}

func (f *fakeLikes) FindAuthorLikes(ctx context.Context, page model.PageRequest, authorID int64, likeType, status string) ([]*model.Like, int64, error) {
	f.record("author:" + likeType)
	if f.authErr != nil {
		return nil, 0, f.authErr
	}
	var matched []*model.Like
	for _, l := range f.rows {
		if l.TargetAuthorID == authorID && (likeType == "" || l.LikeType == likeType) && (status == "" || l.Status == status) {
			matched = append(matched, l)
		}
	}
	return pageOf(matched, page), int64(len(matched)), nil
}

type fakeComments struct {
	mu         sync.Mutex
	rows       []*model.Comment
	commentErr error
	replyErr   error
	queries    []string

	includeDeleted []bool
}

func (f *fakeComments) record(q string, includeDeleted bool) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	f.includeDeleted = append(f.includeDeleted, includeDeleted)
	f.mu.Unlock()
}

func (f *fakeComments) FindUserComments(ctx context.Context, page model.PageRequest, userID int64, commentType, status string, order model.SortOrder, includeDeleted bool) ([]*model.Comment, int64, error) {
	f.record("user:"+commentType, includeDeleted)
	if f.commentErr != nil {
		return nil, 0, f.commentErr
	}
	var matched []*model.Comment
	for _, c := range f.rows {
		if c.UserID == userID && (commentType == "" || c.CommentType == commentType) && (status == "" || c.Status == status) {
			matched = append(matched, c)
		}
	}
	return pageOf(matched, page), int64(len(matched)), nil
}

func (f *fakeComments) FindUserReplies(ctx context.Context, page model.PageRequest, userID int64, status string, order model.SortOrder, includeDeleted bool) ([]*model.Comment, int64, error) {
	f.record("replies", includeDeleted)
	if f.replyErr != nil {
		return nil, 0, f.replyErr
	}
	var matched []*model.Comment
	for _, c := range f.rows {
		if c.ReplyToUserID == userID && c.UserID != userID && (status == "" || c.Status == status) {
			matched = append(matched, c)
		}
	}
	return pageOf(matched, page), int64(len(matched)), nil
}

type fakeContents struct {
	mu       sync.Mutex
	byID     map[int64]*model.ContentSummary
	failing  map[int64]bool
	calls    map[int64]int
	panicsOn int64
}

func (f *fakeContents) GetContentSummary(ctx context.Context, contentID int64) (*model.ContentSummary, error) {
	f.mu.Lock()
	if f.calls == nil {
		f.calls = make(map[int64]int)
	}
	f.calls[contentID]++
	f.mu.Unlock()

	if f.panicsOn != 0 && contentID == f.panicsOn {
		panic("content reader exploded")
	}
	if f.failing[contentID] {
		return nil, errBackend
	}
	summary, ok := f.byID[contentID]
	if !ok {
		return nil, model.ErrContentNotFound
	}
	copied := *summary
	return &copied, nil
}

func (f *fakeContents) callsFor(id int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[id]
}

type fakeFollows struct {
	mu        sync.Mutex
	following map[[2]int64]bool
	failing   bool
	checked   []int64
}

func (f *fakeFollows) CheckFollowStatus(ctx context.Context, followerID, followeeID int64) (bool, error) {
	f.mu.Lock()
	f.checked = append(f.checked, followeeID)
	f.mu.Unlock()
	if f.failing {
		return false, errBackend
	}
	return f.following[[2]int64{followerID, followeeID}], nil
}

type fakeLikeStatus struct {
	mu      sync.Mutex
	liked   map[int64]bool
	checked []int64
}

func (f *fakeLikeStatus) CheckLikeStatus(ctx context.Context, userID int64, likeType string, targetID int64) (bool, error) {
	f.mu.Lock()
	f.checked = append(f.checked, targetID)
	f.mu.Unlock()
	return f.liked[targetID], nil
}

type fakeCounts struct {
	counts  map[int64]int64
	failing bool
}

func (f *fakeCounts) CountTargetLikes(ctx context.Context, targetID int64, likeType string) (int64, error) {
	if f.failing {
		return 0, errBackend
	}
	return f.counts[targetID], nil
}

// fixture 一组可组合的假依赖
type fixture struct {
	likes      *fakeLikes
	comments   *fakeComments
	contents   *fakeContents
	follows    *fakeFollows
	likeStatus *fakeLikeStatus
	counts     *fakeCounts
}

func newFixture() *fixture {
	return &fixture{
		likes:      &fakeLikes{},
		comments:   &fakeComments{},
		contents:   &fakeContents{byID: map[int64]*model.ContentSummary{}, failing: map[int64]bool{}},
		follows:    &fakeFollows{following: map[[2]int64]bool{}},
		likeStatus: &fakeLikeStatus{liked: map[int64]bool{}},
		counts:     &fakeCounts{counts: map[int64]int64{}},
	}
}

func (f *fixture) deps() Deps {
	return Deps{
		Contents:   f.contents,
		Follows:    f.follows,
		LikeStatus: f.likeStatus,
		LikeCounts: f.counts,
		Likes:      f.likes,
		Comments:   f.comments,
	}
}

func (f *fixture) service() *Service {
	return NewService(f.deps(), config.AggregationConfig{
		FetchLimit:        model.SourceFetchLimit,
		DefaultPageSize:   model.DefaultPageSize,
		MaxPageSize:       model.MaxPageSize,
		SourceConcurrency: 4,
		EnrichConcurrency: 4,
	}, logger.NewNopLogger())
}

func (f *fixture) addContent(id, authorID int64, title, covers string) {
	f.contents.byID[id] = &model.ContentSummary{
		ID:             id,
		Title:          title,
		Description:    title + " description",
		CoverURL:       covers,
		AuthorID:       authorID,
		AuthorNickname: "author",
		AuthorAvatar:   "avatar.png",
	}
}

func (f *fixture) addLike(id, userID int64, likeType string, targetID, targetAuthorID int64, created *time.Time) *model.Like {
	like := &model.Like{
		ID:             id,
		LikeType:       likeType,
		TargetID:       targetID,
		UserID:         userID,
		TargetAuthorID: targetAuthorID,
		Status:         model.LikeStatusActive,
		CreateTime:     created,
		UpdateTime:     created,
	}
	f.likes.rows = append(f.likes.rows, like)
	return like
}

func (f *fixture) addComment(id, userID int64, commentType string, targetID, replyTo int64, created *time.Time) *model.Comment {
	comment := &model.Comment{
		ID:            id,
		CommentType:   commentType,
		TargetID:      targetID,
		UserID:        userID,
		ReplyToUserID: replyTo,
		Content:       "comment",
		Status:        model.CommentStatusNormal,
		CreateTime:    created,
		UpdateTime:    created,
	}
	f.comments.rows = append(f.comments.rows, comment)
	return comment
}

func recordIDs(result *model.PageResult) []int64 {
	ids := make([]int64, 0, len(result.Records))
	for _, r := range result.Records {
		ids = append(ids, r.ID)
	}
	return ids
}
