package service

import (
	"context"
	"errors"
	"testing"

	"Inkstone/internal/api/dto"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// seedPost 建一篇裸文章并返回其元数据 ID 与序号。
func seedPost(t *testing.T, env *testEnv, title string) (primitive.ObjectID, int64) {
	t.Helper()
	post, err := env.posts.CreatePost(context.Background(), &dto.PostCreateDTO{
		Title:      title,
		RawContent: "# " + title,
	})
	if err != nil {
		t.Fatalf("seed post %s: %v", title, err)
	}
	for id, m := range env.db.postMetas {
		if m.PostNo == post.PostNo {
			return id, post.PostNo
		}
	}
	t.Fatalf("post meta for %s not stored", title)
	return primitive.NilObjectID, 0
}

// assertMirrored 校验 标签.PostMetaList 与 文章.TagList 互为镜像。
func assertMirrored(t *testing.T, env *testEnv) {
	t.Helper()
	for tagID, tag := range env.db.tags {
		for _, metaID := range tag.PostMetaList {
			meta, ok := env.db.postMetas[metaID]
			if !ok {
				t.Errorf("tag %s references missing post meta %s", tag.Name, metaID.Hex())
				continue
			}
			if !containsID(meta.TagList, tagID) {
				t.Errorf("tag %s lists post %d but post does not list tag back", tag.Name, meta.PostNo)
			}
		}
	}
	for _, meta := range env.db.postMetas {
		for _, tagID := range meta.TagList {
			tag, ok := env.db.tags[tagID]
			if !ok {
				t.Errorf("post %d references missing tag %s", meta.PostNo, tagID.Hex())
				continue
			}
			if !containsID(tag.PostMetaList, meta.ID) {
				t.Errorf("post %d lists tag %s but tag does not list post back", meta.PostNo, tag.Name)
			}
		}
	}
}

func TestTagServiceUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("空请求被拒绝", func(t *testing.T) {
		env := newTestEnv()
		err := env.tags.UpdateTag(ctx, "任意", &dto.TagUpdateDTO{})
		if !errors.Is(err, ErrParameterEmpty) {
			t.Fatalf("err = %v, want PARAMETER_EMPTY", err)
		}
	})

	t.Run("挂接文章后双向引用一致", func(t *testing.T) {
		env := newTestEnv()
		metaID, _ := seedPost(t, env, "golang")
		if _, err := env.tags.CreateTag(ctx, &dto.TagCreateDTO{Name: "go"}); err != nil {
			t.Fatalf("create tag: %v", err)
		}
		err := env.tags.UpdateTag(ctx, "go", &dto.TagUpdateDTO{
			PostMetaIDsToAdd: []string{metaID.Hex()},
		})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		assertMirrored(t, env)
	})

	t.Run("摘除文章后双向引用同时消失", func(t *testing.T) {
		env := newTestEnv()
		metaID, _ := seedPost(t, env, "golang")
		if _, err := env.tags.CreateTag(ctx, &dto.TagCreateDTO{Name: "go"}); err != nil {
			t.Fatalf("create tag: %v", err)
		}
		if err := env.tags.UpdateTag(ctx, "go", &dto.TagUpdateDTO{PostMetaIDsToAdd: []string{metaID.Hex()}}); err != nil {
			t.Fatalf("attach: %v", err)
		}
		if err := env.tags.UpdateTag(ctx, "go", &dto.TagUpdateDTO{PostMetaIDsToRemove: []string{metaID.Hex()}}); err != nil {
			t.Fatalf("detach: %v", err)
		}
		meta := env.db.postMetas[metaID]
		if len(meta.TagList) != 0 {
			t.Errorf("post TagList = %v, want empty", meta.TagList)
		}
		assertMirrored(t, env)
	})

	t.Run("挂接已删除文章时整体回滚", func(t *testing.T) {
		env := newTestEnv()
		goodID, _ := seedPost(t, env, "存活")
		deadID, deadNo := seedPost(t, env, "已删")
		if err := env.posts.DeletePost(ctx, deadNo); err != nil {
			t.Fatalf("delete post: %v", err)
		}
		if _, err := env.tags.CreateTag(ctx, &dto.TagCreateDTO{Name: "go"}); err != nil {
			t.Fatalf("create tag: %v", err)
		}
		err := env.tags.UpdateTag(ctx, "go", &dto.TagUpdateDTO{
			PostMetaIDsToAdd: []string{goodID.Hex(), deadID.Hex()},
		})
		if !errors.Is(err, ErrPostNotFound(nil)) {
			t.Fatalf("err = %v, want POST_NOT_FOUND", err)
		}
		// 前一个成功挂接的也要随事务回滚
		good := env.db.postMetas[goodID]
		if len(good.TagList) != 0 {
			t.Errorf("surviving post TagList = %v, want empty after rollback", good.TagList)
		}
		assertMirrored(t, env)
	})

	t.Run("重命名", func(t *testing.T) {
		env := newTestEnv()
		if _, err := env.tags.CreateTag(ctx, &dto.TagCreateDTO{Name: "旧名"}); err != nil {
			t.Fatalf("create tag: %v", err)
		}
		if err := env.tags.UpdateTag(ctx, "旧名", &dto.TagUpdateDTO{NewName: strPtr("新名")}); err != nil {
			t.Fatalf("rename: %v", err)
		}
		found, err := env.tags.FindTags(ctx, &dto.TagFindDTO{Name: "新名"})
		if err != nil {
			t.Fatalf("find: %v", err)
		}
		if len(found) != 1 {
			t.Fatalf("len(found) = %d, want 1", len(found))
		}
	})
}

func TestTagServiceFind(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	for _, name := range []string{"golang", "mongodb", "gomock"} {
		if _, err := env.tags.CreateTag(ctx, &dto.TagCreateDTO{Name: name}); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	t.Run("精确匹配", func(t *testing.T) {
		found, err := env.tags.FindTags(ctx, &dto.TagFindDTO{Name: "golang"})
		if err != nil {
			t.Fatalf("find: %v", err)
		}
		if len(found) != 1 || found[0].Name != "golang" {
			t.Fatalf("found = %+v, want 单个 golang", found)
		}
	})

	t.Run("子串匹配", func(t *testing.T) {
		found, err := env.tags.FindTags(ctx, &dto.TagFindDTO{Name: "go", IsContains: true})
		if err != nil {
			t.Fatalf("find: %v", err)
		}
		if len(found) != 3 {
			t.Fatalf("len(found) = %d, want 3", len(found))
		}
	})
}

func TestTagServiceDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("删除后文章侧反向引用被清理", func(t *testing.T) {
		env := newTestEnv()
		metaID, _ := seedPost(t, env, "golang")
		if _, err := env.tags.CreateTag(ctx, &dto.TagCreateDTO{Name: "go"}); err != nil {
			t.Fatalf("create tag: %v", err)
		}
		if err := env.tags.UpdateTag(ctx, "go", &dto.TagUpdateDTO{PostMetaIDsToAdd: []string{metaID.Hex()}}); err != nil {
			t.Fatalf("attach: %v", err)
		}
		if err := env.tags.DeleteTag(ctx, "go"); err != nil {
			t.Fatalf("delete: %v", err)
		}
		meta := env.db.postMetas[metaID]
		if len(meta.TagList) != 0 {
			t.Errorf("post TagList = %v, want empty", meta.TagList)
		}
		if len(env.db.tags) != 0 {
			t.Errorf("tags left = %d, want 0", len(env.db.tags))
		}
	})

	t.Run("标签不存在时报 404", func(t *testing.T) {
		env := newTestEnv()
		err := env.tags.DeleteTag(ctx, "不存在")
		if !errors.Is(err, ErrTagNotFound("")) {
			t.Fatalf("err = %v, want TAG_NOT_FOUND", err)
		}
	})
}
