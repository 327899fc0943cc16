package service

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"collide-social/apps/interaction-service/model"
)

const testUser int64 = 42

// seedScenario 用户42：对内容1、2、3的三个点赞（t1<t2<t3），对内容4的两条评论（t4<t5）
func seedScenario(f *fixture) {
	for id := int64(1); id <= 4; id++ {
		f.addContent(id, 7, "content", "a.png")
	}
	f.addLike(101, testUser, model.SubTypeContent, 1, 7, at(1))
	f.addLike(102, testUser, model.SubTypeContent, 2, 7, at(2))
	f.addLike(103, testUser, model.SubTypeContent, 3, 7, at(3))
	f.addComment(201, testUser, model.SubTypeContent, 4, 0, at(4))
	f.addComment(202, testUser, model.SubTypeContent, 4, 0, at(5))
}

func TestGetUserInteractionsMergesSortsAndPaginates(t *testing.T) {
	f := newFixture()
	seedScenario(f)
	svc := f.service()

	result, err := svc.GetUserInteractionsWithParams(context.Background(), testUser,
		model.FilterAll, "", "", model.DirectionAll, model.OrderByCreateTime, model.OrderDesc, 1, 3)
	if err != nil {
		t.Fatalf("GetUserInteractions: %v", err)
	}

	if result.Total != 5 {
		t.Fatalf("expected total 5, got %d", result.Total)
	}
	if result.TotalPages != 2 || result.CurrentPage != 1 || result.PageSize != 3 {
		t.Fatalf("unexpected page metadata: %+v", result)
	}
	if got, want := recordIDs(result), []int64{202, 201, 103}; !reflect.DeepEqual(got, want) {
		t.Fatalf("expected records %v, got %v", want, got)
	}
	if result.Records[0].InteractionType != model.InteractionTypeComment || result.Records[2].InteractionType != model.InteractionTypeLike {
		t.Fatalf("unexpected interaction types: %s, %s", result.Records[0].InteractionType, result.Records[2].InteractionType)
	}
}

func TestGetAllInteractionsEmpty(t *testing.T) {
	svc := newFixture().service()

	result, err := svc.GetAllInteractions(context.Background(), testUser, 1, 100)
	if err != nil {
		t.Fatalf("GetAllInteractions: %v", err)
	}
	if result.Records == nil || len(result.Records) != 0 {
		t.Fatalf("expected empty non-nil records, got %v", result.Records)
	}
	if result.Total != 0 || result.TotalPages != 0 {
		t.Fatalf("expected zero totals, got total=%d pages=%d", result.Total, result.TotalPages)
	}
}

func TestGetAllInteractionsUsesFixedSources(t *testing.T) {
	f := newFixture()
	seedScenario(f)
	f.addComment(301, 9, model.SubTypeDynamic, 50, testUser, at(6))
	// 别人对我评论的点赞不属于全部互动视图
	f.addLike(401, 9, model.SubTypeComment, 201, testUser, at(7))
	svc := f.service()

	result, err := svc.GetAllInteractions(context.Background(), testUser, 1, 100)
	if err != nil {
		t.Fatalf("GetAllInteractions: %v", err)
	}
	if got, want := recordIDs(result), []int64{301, 202, 201, 103, 102, 101}; !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for _, q := range f.likes.queries {
		if strings.HasPrefix(q, "author:") {
			t.Fatalf("all view must not query received likes, saw %q", q)
		}
	}
	reply := result.Records[0]
	if reply.SubType != model.SubTypeDynamic || reply.Title != model.UnknownContentTitle {
		t.Fatalf("reply on a dynamic should take the row subtype and sentinel title, got %+v", reply)
	}
}

func TestPageBeyondEndKeepsTotal(t *testing.T) {
	f := newFixture()
	seedScenario(f)
	svc := f.service()

	result, err := svc.GetUserInteractionsWithParams(context.Background(), testUser,
		model.FilterAll, "", "", model.DirectionAll, "", "", 9, 2)
	if err != nil {
		t.Fatalf("GetUserInteractions: %v", err)
	}
	if len(result.Records) != 0 {
		t.Fatalf("expected no records beyond the last page, got %d", len(result.Records))
	}
	if result.Total != 5 || result.TotalPages != 3 {
		t.Fatalf("expected total=5 pages=3, got total=%d pages=%d", result.Total, result.TotalPages)
	}
}

func TestAllEqualsLikesPlusComments(t *testing.T) {
	f := newFixture()
	seedScenario(f)
	f.addLike(104, testUser, model.SubTypeComment, 900, 8, at(8))
	f.addLike(105, 8, model.SubTypeComment, 201, testUser, at(9))
	f.addComment(203, testUser, model.SubTypeDynamic, 60, 0, at(10))
	f.addComment(302, 8, model.SubTypeContent, 4, testUser, at(11))
	svc := f.service()
	ctx := context.Background()

	total := func(interactionType string) int64 {
		t.Helper()
		result, err := svc.GetUserInteractionsWithParams(ctx, testUser, interactionType, "", "", model.DirectionAll, "", "", 1, 10)
		if err != nil {
			t.Fatalf("GetUserInteractions(%s): %v", interactionType, err)
		}
		return result.Total
	}

	all, likes, comments := total(model.FilterAll), total(model.FilterLikes), total(model.FilterComments)
	if likes != 5 || comments != 4 {
		t.Fatalf("expected 5 likes and 4 comments, got %d and %d", likes, comments)
	}
	if all != likes+comments {
		t.Fatalf("expected ALL (%d) to equal LIKES (%d) + COMMENTS (%d)", all, likes, comments)
	}
}

func TestSourceSelectionFollowsFilters(t *testing.T) {
	tests := []struct {
		name string
		q    normalizedQuery
		want []sourceKind
	}{
		{
			name: "all",
			q:    normalizedQuery{interactionType: model.FilterAll, direction: model.DirectionAll},
			want: []sourceKind{sourceGivenContentLikes, sourceGivenCommentLikes, sourceReceivedCommentLikes, sourceGivenContentComments, sourceGivenDynamicComments, sourceReceivedReplies},
		},
		{
			name: "given content likes",
			q:    normalizedQuery{interactionType: model.FilterLikes, likeType: model.SubTypeContent, direction: model.DirectionGive},
			want: []sourceKind{sourceGivenContentLikes},
		},
		{
			name: "received content likes have no source",
			q:    normalizedQuery{interactionType: model.FilterLikes, likeType: model.SubTypeContent, direction: model.DirectionReceive},
			want: nil,
		},
		{
			name: "received likes",
			q:    normalizedQuery{interactionType: model.FilterLikes, direction: model.DirectionReceive},
			want: []sourceKind{sourceReceivedCommentLikes},
		},
		{
			name: "given dynamic comments",
			q:    normalizedQuery{interactionType: model.FilterComments, commentType: model.SubTypeDynamic, direction: model.DirectionGive},
			want: []sourceKind{sourceGivenDynamicComments},
		},
		{
			name: "comments both directions",
			q:    normalizedQuery{interactionType: model.FilterComments, direction: model.DirectionAll},
			want: []sourceKind{sourceGivenContentComments, sourceGivenDynamicComments, sourceReceivedReplies},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := tt.q
			if got := selectSources(&q); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestReceivedRepliesIgnoreCommentType(t *testing.T) {
	f := newFixture()
	f.addComment(301, 9, model.SubTypeDynamic, 50, testUser, at(1))
	f.addComment(302, 9, model.SubTypeContent, 51, testUser, at(2))
	svc := f.service()

	for _, commentType := range []string{model.SubTypeContent, model.SubTypeDynamic, ""} {
		result, err := svc.GetUserInteractionsWithParams(context.Background(), testUser,
			model.FilterComments, "", commentType, model.DirectionReceive, "", "", 1, 10)
		if err != nil {
			t.Fatalf("commentType %q: %v", commentType, err)
		}
		if got := recordIDs(result); result.Total != 2 || !reflect.DeepEqual(got, []int64{302, 301}) {
			t.Fatalf("commentType %q: expected both replies, got total=%d ids=%v", commentType, result.Total, got)
		}
	}
}

func TestCommentSourcesIncludeDeletedWithNormalStatus(t *testing.T) {
	f := newFixture()
	svc := f.service()

	if _, err := svc.GetUserInteractionsWithParams(context.Background(), testUser,
		model.FilterComments, "", "", model.DirectionAll, "", "", 1, 10); err != nil {
		t.Fatalf("GetUserInteractions: %v", err)
	}
	if _, err := svc.GetInteractionStatistics(context.Background(), testUser); err != nil {
		t.Fatalf("GetInteractionStatistics: %v", err)
	}

	f.comments.mu.Lock()
	defer f.comments.mu.Unlock()
	if len(f.comments.includeDeleted) != 5 {
		t.Fatalf("expected 5 comment queries, got %v", f.comments.queries)
	}
	for i, v := range f.comments.includeDeleted {
		if !v {
			t.Fatalf("query %s: includeDeleted should be true", f.comments.queries[i])
		}
	}
}

func TestEnrichmentFallbackWhenContentLookupFails(t *testing.T) {
	f := newFixture()
	f.addComment(201, testUser, model.SubTypeContent, 9, 0, at(1))
	f.addLike(101, testUser, model.SubTypeContent, 9, 7, at(2))
	f.contents.failing[9] = true
	f.counts.counts[9] = 99
	f.follows.following[[2]int64{testUser, 7}] = true
	svc := f.service()

	result, err := svc.GetUserInteractionsWithParams(context.Background(), testUser,
		model.FilterAll, "", "", model.DirectionAll, "", "", 1, 10)
	if err != nil {
		t.Fatalf("GetUserInteractions must not fail on lookup errors: %v", err)
	}
	if len(result.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(result.Records))
	}
	for _, item := range result.Records {
		if item.Title != model.UnknownContentTitle {
			t.Errorf("record %d: expected sentinel title, got %q", item.ID, item.Title)
		}
		if item.ContentLikeCount != 0 || item.IsLike || item.IsFollowingAuthor {
			t.Errorf("record %d: expected defaults, got count=%d isLike=%v following=%v",
				item.ID, item.ContentLikeCount, item.IsLike, item.IsFollowingAuthor)
		}
		if item.ContentCoverURLs == nil || len(item.ContentCoverURLs) != 0 {
			t.Errorf("record %d: expected empty cover list, got %v", item.ID, item.ContentCoverURLs)
		}
	}
}

func TestSourceFailureDegradesToPartialFeed(t *testing.T) {
	f := newFixture()
	seedScenario(f)
	f.likes.userErr = errBackend
	svc := f.service()

	result, err := svc.GetUserInteractionsWithParams(context.Background(), testUser,
		model.FilterAll, "", "", model.DirectionAll, "", "", 1, 10)
	if err != nil {
		t.Fatalf("GetUserInteractions: %v", err)
	}
	if got := recordIDs(result); !reflect.DeepEqual(got, []int64{202, 201}) {
		t.Fatalf("expected the comments to survive, got %v", got)
	}
}

func TestIdenticalCallsAreIdempotent(t *testing.T) {
	f := newFixture()
	seedScenario(f)
	// 相同时间戳的记录依赖合并顺序保持稳定
	f.addComment(203, testUser, model.SubTypeDynamic, 60, 0, at(3))
	f.addLike(104, testUser, model.SubTypeComment, 900, 8, at(3))
	svc := f.service()
	ctx := context.Background()

	first, err := svc.GetUserInteractionsWithParams(ctx, testUser, "", "", "", "", "", "", 1, 20)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := svc.GetUserInteractionsWithParams(ctx, testUser, "", "", "", "", "", "", 1, 20)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical results, got %v and %v", recordIDs(first), recordIDs(second))
	}
}

func TestDefaultsAndClamping(t *testing.T) {
	f := newFixture()
	seedScenario(f)
	svc := f.service()

	result, err := svc.GetUserInteractions(context.Background(), &model.InteractionQueryRequest{
		UserID:          testUser,
		InteractionType: "likes",
		Direction:       "bogus",
		OrderDirection:  "asc",
		CurrentPage:     -3,
		PageSize:        10_000,
	})
	if err != nil {
		t.Fatalf("GetUserInteractions: %v", err)
	}
	if result.CurrentPage != 1 || result.PageSize != model.MaxPageSize {
		t.Fatalf("expected clamped page 1 size %d, got %d/%d", model.MaxPageSize, result.CurrentPage, result.PageSize)
	}
	if got := recordIDs(result); !reflect.DeepEqual(got, []int64{101, 102, 103}) {
		t.Fatalf("expected likes in ascending order, got %v", got)
	}

	result, err = svc.GetAllInteractions(context.Background(), testUser, 0, 0)
	if err != nil {
		t.Fatalf("GetAllInteractions: %v", err)
	}
	if result.PageSize != model.DefaultPageSize {
		t.Fatalf("expected default page size, got %d", result.PageSize)
	}
}

func TestInvalidUserIDIsRejected(t *testing.T) {
	svc := newFixture().service()
	ctx := context.Background()

	if _, err := svc.GetUserInteractions(ctx, &model.InteractionQueryRequest{}); !errors.Is(err, model.ErrInvalidUserID) {
		t.Fatalf("expected ErrInvalidUserID, got %v", err)
	}
	if _, err := svc.GetUserInteractions(ctx, nil); !errors.Is(err, model.ErrInvalidUserID) {
		t.Fatalf("expected ErrInvalidUserID for nil request, got %v", err)
	}
	if _, err := svc.GetAllInteractions(ctx, -1, 1, 10); !errors.Is(err, model.ErrInvalidUserID) {
		t.Fatalf("expected ErrInvalidUserID, got %v", err)
	}
	if _, err := svc.GetInteractionStatistics(ctx, 0); !errors.Is(err, model.ErrInvalidUserID) {
		t.Fatalf("expected ErrInvalidUserID, got %v", err)
	}
}

func TestPanicIsReturnedAsError(t *testing.T) {
	f := newFixture()
	seedScenario(f)
	svc := f.service()
	svc.enricher = nil

	result, err := svc.GetAllInteractions(context.Background(), testUser, 1, 10)
	if err == nil {
		t.Fatal("expected an error after an internal panic")
	}
	if result != nil {
		t.Fatalf("expected nil result, got %+v", result)
	}
	if !strings.HasPrefix(err.Error(), "查询失败") {
		t.Fatalf("unexpected error message %q", err.Error())
	}
}

func TestLookupPanicOnlyDegradesThatItem(t *testing.T) {
	f := newFixture()
	seedScenario(f)
	f.contents.panicsOn = 2
	svc := f.service()

	result, err := svc.GetAllInteractions(context.Background(), testUser, 1, 10)
	if err != nil {
		t.Fatalf("GetAllInteractions: %v", err)
	}
	for _, item := range result.Records {
		if item.TargetID == 2 && item.Title != model.UnknownContentTitle {
			t.Fatalf("expected sentinel title for the failed lookup, got %q", item.Title)
		}
		if item.TargetID == 1 && item.Title != "content" {
			t.Fatalf("expected other items to be enriched, got %q", item.Title)
		}
	}
}

func TestGetInteractionStatistics(t *testing.T) {
	f := newFixture()
	seedScenario(f)
	f.addLike(105, 8, model.SubTypeComment, 201, testUser, at(9))
	f.addComment(302, 8, model.SubTypeContent, 4, testUser, at(11))
	f.comments.replyErr = errBackend
	svc := f.service()

	stats, err := svc.GetInteractionStatistics(context.Background(), testUser)
	if err != nil {
		t.Fatalf("GetInteractionStatistics: %v", err)
	}
	want := &model.InteractionStatistics{
		UserID:          testUser,
		LikesGiven:      3,
		LikesReceived:   1,
		CommentsGiven:   2,
		RepliesReceived: 0,
	}
	if !reflect.DeepEqual(stats, want) {
		t.Fatalf("expected %+v, got %+v", want, stats)
	}
}
