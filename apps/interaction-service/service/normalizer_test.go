package service

import (
	"reflect"
	"testing"

	"collide-social/apps/interaction-service/model"
)

func TestSplitCoverURLs(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{}},
		{"  ", []string{}},
		{" a.png ", []string{"a.png"}},
		{"a.png,b.png", []string{"a.png", "b.png"}},
		{"a.png, ,b.png,", []string{"a.png", "b.png"}},
	}
	for _, tt := range tests {
		if got := SplitCoverURLs(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitCoverURLs(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLikeToInteraction(t *testing.T) {
	like := &model.Like{
		ID:             5,
		LikeType:       model.SubTypeComment,
		TargetID:       9,
		UserID:         testUser,
		TargetTitle:    "stored",
		TargetAuthorID: 3,
		UserNickname:   "me",
		Status:         model.LikeStatusActive,
		CreateTime:     at(1),
	}

	item := LikeToInteraction(like, "")
	if item.InteractionType != model.InteractionTypeLike || item.SubType != model.SubTypeComment {
		t.Fatalf("unexpected types %s/%s", item.InteractionType, item.SubType)
	}
	if item.Title != "stored" || item.StoredTitle != "stored" || item.AuthorID != 3 {
		t.Fatalf("stored target fields not carried over: %+v", item)
	}
	if !item.IsLike || item.ContentCoverURLs == nil || item.UserNickname != "me" || item.CreateTime != like.CreateTime {
		t.Fatalf("unexpected like interaction: %+v", item)
	}
	if got := LikeToInteraction(like, model.SubTypeContent).SubType; got != model.SubTypeContent {
		t.Fatalf("explicit subtype should win, got %s", got)
	}
}

func TestCommentToInteraction(t *testing.T) {
	comment := &model.Comment{
		ID:                  8,
		CommentType:         model.SubTypeDynamic,
		TargetID:            4,
		ParentCommentID:     2,
		Content:             "hello",
		UserID:              9,
		ReplyToUserID:       testUser,
		ReplyToUserNickname: "me",
		LikeCount:           3,
		ReplyCount:          1,
		Status:              model.CommentStatusNormal,
	}

	item := CommentToInteraction(comment, "")
	if item.InteractionType != model.InteractionTypeComment || item.SubType != model.SubTypeDynamic {
		t.Fatalf("unexpected types %s/%s", item.InteractionType, item.SubType)
	}
	if item.CommentContent != "hello" || item.ParentCommentID != 2 || item.ReplyToUserID != testUser ||
		item.ReplyToUserNickname != "me" || item.LikeCount != 3 || item.ReplyCount != 1 {
		t.Fatalf("comment fields not carried over: %+v", item)
	}
	if item.Title != "" || item.IsLike {
		t.Fatalf("comments start without target details: %+v", item)
	}
}
