package service

import (
	"context"
	"errors"
	"reflect"
	"sort"
	"strings"
	"time"

	"Inkstone/internal/model"
	"Inkstone/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// fakeDB 纯内存的集合集合体。记录按值存储，配合 fakeTx 的快照回滚，
// 可以验证"事务中途失败不留下部分写入"这一性质。
type fakeDB struct {
	categories   map[primitive.ObjectID]model.Category
	tags         map[primitive.ObjectID]model.Tag
	series       map[primitive.ObjectID]model.Series
	postMetas    map[primitive.ObjectID]model.PostMeta
	postVersions map[primitive.ObjectID]model.PostVersion
	comments     map[primitive.ObjectID]model.Comment
	images       map[primitive.ObjectID]model.Image
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		categories:   make(map[primitive.ObjectID]model.Category),
		tags:         make(map[primitive.ObjectID]model.Tag),
		series:       make(map[primitive.ObjectID]model.Series),
		postMetas:    make(map[primitive.ObjectID]model.PostMeta),
		postVersions: make(map[primitive.ObjectID]model.PostVersion),
		comments:     make(map[primitive.ObjectID]model.Comment),
		images:       make(map[primitive.ObjectID]model.Image),
	}
}

func copyIDs(ids []primitive.ObjectID) []primitive.ObjectID {
	if ids == nil {
		return nil
	}
	return append([]primitive.ObjectID(nil), ids...)
}

func copyIDPtr(id *primitive.ObjectID) *primitive.ObjectID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func (db *fakeDB) clone() *fakeDB {
	out := newFakeDB()
	for id, c := range db.categories {
		c.ParentCategory = copyIDPtr(c.ParentCategory)
		out.categories[id] = c
	}
	for id, t := range db.tags {
		t.PostMetaList = copyIDs(t.PostMetaList)
		out.tags[id] = t
	}
	for id, s := range db.series {
		s.PostMetaList = copyIDs(s.PostMetaList)
		s.ThumbnailImage = copyIDPtr(s.ThumbnailImage)
		out.series[id] = s
	}
	for id, m := range db.postMetas {
		m.TagList = copyIDs(m.TagList)
		m.Category = copyIDPtr(m.Category)
		m.Series = copyIDPtr(m.Series)
		out.postMetas[id] = m
	}
	for id, v := range db.postVersions {
		v.ThumbnailImage = copyIDPtr(v.ThumbnailImage)
		v.LastPostVersion = copyIDPtr(v.LastPostVersion)
		out.postVersions[id] = v
	}
	for id, c := range db.comments {
		c.RefComment = copyIDPtr(c.RefComment)
		c.LastVersionComment = copyIDPtr(c.LastVersionComment)
		out.comments[id] = c
	}
	for id, i := range db.images {
		out.images[id] = i
	}
	return out
}

// errDuplicateKey 模拟唯一索引冲突。
var errDuplicateKey = errors.New("E11000 duplicate key error")

// fakeTx 执行前打快照，失败时整体还原。
type fakeTx struct {
	db *fakeDB
}

func (t *fakeTx) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	backup := t.db.clone()
	if err := fn(ctx); err != nil {
		*t.db = *backup
		return err
	}
	return nil
}

// matchFilter 按 Query.Build 的产物做内存匹配，覆盖三种组合子。
func matchFilter(filter bson.M, fields map[string]any) bool {
	for key, want := range filter {
		got, ok := fields[key]
		if !ok {
			return false
		}
		if m, ok := want.(bson.M); ok {
			if pattern, ok := m["$regex"].(string); ok {
				s, _ := got.(string)
				plain := strings.ReplaceAll(pattern, "\\", "")
				if !strings.Contains(strings.ToLower(s), strings.ToLower(plain)) {
					return false
				}
				continue
			}
			ts, ok := got.(time.Time)
			if !ok {
				return false
			}
			if from, ok := m["$gte"].(time.Time); ok && ts.Before(from) {
				return false
			}
			if to, ok := m["$lte"].(time.Time); ok && ts.After(to) {
				return false
			}
			continue
		}
		if !reflect.DeepEqual(got, want) {
			return false
		}
	}
	return true
}

// ---------- CategoryRepo ----------

type fakeCategoryRepo struct {
	db *fakeDB
}

func (r *fakeCategoryRepo) Create(ctx context.Context, category *model.Category) (primitive.ObjectID, error) {
	for _, c := range r.db.categories {
		if c.Name == category.Name {
			return primitive.NilObjectID, errDuplicateKey
		}
	}
	id := primitive.NewObjectID()
	stored := *category
	stored.ID = id
	stored.ParentCategory = copyIDPtr(category.ParentCategory)
	r.db.categories[id] = stored
	return id, nil
}

func (r *fakeCategoryRepo) FindOneByID(ctx context.Context, id primitive.ObjectID) (*model.Category, error) {
	c, ok := r.db.categories[id]
	if !ok {
		return nil, nil
	}
	c.ParentCategory = copyIDPtr(c.ParentCategory)
	return &c, nil
}

func (r *fakeCategoryRepo) FindOneByName(ctx context.Context, name string) (*model.Category, error) {
	for _, c := range r.db.categories {
		if c.Name == name {
			c.ParentCategory = copyIDPtr(c.ParentCategory)
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeCategoryRepo) Find(ctx context.Context, q repository.Query) ([]*model.Category, error) {
	filter := q.Build()
	var out []*model.Category
	for _, c := range r.db.categories {
		fields := map[string]any{"_id": c.ID, "name": c.Name, "level": c.Level}
		if matchFilter(filter, fields) {
			item := c
			item.ParentCategory = copyIDPtr(c.ParentCategory)
			out = append(out, &item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeCategoryRepo) FindChildren(ctx context.Context, parentID primitive.ObjectID) ([]*model.Category, error) {
	var out []*model.Category
	for _, c := range r.db.categories {
		if c.ParentCategory != nil && *c.ParentCategory == parentID {
			item := c
			out = append(out, &item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeCategoryRepo) UpdateByID(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	c, ok := r.db.categories[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	for key, value := range set {
		switch key {
		case "name":
			c.Name = value.(string)
		case "level":
			c.Level = value.(int)
		case "parent_category":
			c.ParentCategory = asIDPtr(value)
		}
	}
	r.db.categories[id] = c
	return nil
}

func (r *fakeCategoryRepo) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := r.db.categories[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(r.db.categories, id)
	return nil
}

func asIDPtr(value any) *primitive.ObjectID {
	switch v := value.(type) {
	case primitive.ObjectID:
		return &v
	case *primitive.ObjectID:
		return v
	default:
		return nil
	}
}

// ---------- TagRepo ----------

type fakeTagRepo struct {
	db *fakeDB
}

func (r *fakeTagRepo) Create(ctx context.Context, tag *model.Tag) (primitive.ObjectID, error) {
	for _, t := range r.db.tags {
		if t.Name == tag.Name {
			return primitive.NilObjectID, errDuplicateKey
		}
	}
	id := primitive.NewObjectID()
	stored := *tag
	stored.ID = id
	stored.PostMetaList = copyIDs(tag.PostMetaList)
	if stored.PostMetaList == nil {
		stored.PostMetaList = []primitive.ObjectID{}
	}
	r.db.tags[id] = stored
	return id, nil
}

func (r *fakeTagRepo) FindOneByID(ctx context.Context, id primitive.ObjectID) (*model.Tag, error) {
	t, ok := r.db.tags[id]
	if !ok {
		return nil, nil
	}
	t.PostMetaList = copyIDs(t.PostMetaList)
	return &t, nil
}

func (r *fakeTagRepo) FindOneByName(ctx context.Context, name string) (*model.Tag, error) {
	for _, t := range r.db.tags {
		if t.Name == name {
			t.PostMetaList = copyIDs(t.PostMetaList)
			return &t, nil
		}
	}
	return nil, nil
}

func (r *fakeTagRepo) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*model.Tag, error) {
	var out []*model.Tag
	for _, id := range ids {
		if t, ok := r.db.tags[id]; ok {
			item := t
			item.PostMetaList = copyIDs(t.PostMetaList)
			out = append(out, &item)
		}
	}
	return out, nil
}

func (r *fakeTagRepo) Find(ctx context.Context, q repository.Query) ([]*model.Tag, error) {
	filter := q.Build()
	var out []*model.Tag
	for _, t := range r.db.tags {
		if matchFilter(filter, map[string]any{"name": t.Name}) {
			item := t
			item.PostMetaList = copyIDs(t.PostMetaList)
			out = append(out, &item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeTagRepo) Rename(ctx context.Context, id primitive.ObjectID, newName string) error {
	t, ok := r.db.tags[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	t.Name = newName
	r.db.tags[id] = t
	return nil
}

func (r *fakeTagRepo) AddPostMetas(ctx context.Context, id primitive.ObjectID, postMetaIDs []primitive.ObjectID) error {
	t, ok := r.db.tags[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	for _, metaID := range postMetaIDs {
		if !containsID(t.PostMetaList, metaID) {
			t.PostMetaList = append(t.PostMetaList, metaID)
		}
	}
	r.db.tags[id] = t
	return nil
}

func (r *fakeTagRepo) RemovePostMetas(ctx context.Context, id primitive.ObjectID, postMetaIDs []primitive.ObjectID) error {
	t, ok := r.db.tags[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	t.PostMetaList = removeIDs(t.PostMetaList, postMetaIDs)
	r.db.tags[id] = t
	return nil
}

func (r *fakeTagRepo) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := r.db.tags[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(r.db.tags, id)
	return nil
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

func removeIDs(ids []primitive.ObjectID, drop []primitive.ObjectID) []primitive.ObjectID {
	out := ids[:0]
	for _, id := range ids {
		if !containsID(drop, id) {
			out = append(out, id)
		}
	}
	return out
}

// ---------- SeriesRepo ----------

type fakeSeriesRepo struct {
	db *fakeDB
}

func (r *fakeSeriesRepo) Create(ctx context.Context, series *model.Series) (primitive.ObjectID, error) {
	for _, s := range r.db.series {
		if s.Name == series.Name {
			return primitive.NilObjectID, errDuplicateKey
		}
	}
	id := primitive.NewObjectID()
	stored := *series
	stored.ID = id
	stored.PostMetaList = copyIDs(series.PostMetaList)
	if stored.PostMetaList == nil {
		stored.PostMetaList = []primitive.ObjectID{}
	}
	r.db.series[id] = stored
	return id, nil
}

func (r *fakeSeriesRepo) FindOneByID(ctx context.Context, id primitive.ObjectID) (*model.Series, error) {
	s, ok := r.db.series[id]
	if !ok {
		return nil, nil
	}
	s.PostMetaList = copyIDs(s.PostMetaList)
	return &s, nil
}

func (r *fakeSeriesRepo) FindOneByName(ctx context.Context, name string) (*model.Series, error) {
	for _, s := range r.db.series {
		if s.Name == name {
			s.PostMetaList = copyIDs(s.PostMetaList)
			return &s, nil
		}
	}
	return nil, nil
}

func (r *fakeSeriesRepo) Find(ctx context.Context, q repository.Query) ([]*model.Series, error) {
	filter := q.Build()
	var out []*model.Series
	for _, s := range r.db.series {
		if matchFilter(filter, map[string]any{"name": s.Name}) {
			item := s
			item.PostMetaList = copyIDs(s.PostMetaList)
			out = append(out, &item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeSeriesRepo) UpdateByID(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	s, ok := r.db.series[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	for key, value := range set {
		switch key {
		case "name":
			s.Name = value.(string)
		case "thumbnail_content":
			s.ThumbnailContent = value.(string)
		case "thumbnail_image":
			s.ThumbnailImage = asIDPtr(value)
		}
	}
	r.db.series[id] = s
	return nil
}

func (r *fakeSeriesRepo) AppendPostMetas(ctx context.Context, id primitive.ObjectID, postMetaIDs []primitive.ObjectID) error {
	s, ok := r.db.series[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	s.PostMetaList = append(s.PostMetaList, postMetaIDs...)
	r.db.series[id] = s
	return nil
}

func (r *fakeSeriesRepo) RemovePostMetas(ctx context.Context, id primitive.ObjectID, postMetaIDs []primitive.ObjectID) error {
	s, ok := r.db.series[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	s.PostMetaList = removeIDs(s.PostMetaList, postMetaIDs)
	r.db.series[id] = s
	return nil
}

func (r *fakeSeriesRepo) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := r.db.series[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(r.db.series, id)
	return nil
}

// ---------- PostMetaRepo ----------

type fakePostMetaRepo struct {
	db *fakeDB
}

func (r *fakePostMetaRepo) NextPostNo(ctx context.Context) (int64, error) {
	var max int64
	for _, m := range r.db.postMetas {
		if m.PostNo > max {
			max = m.PostNo
		}
	}
	return max + 1, nil
}

func (r *fakePostMetaRepo) Create(ctx context.Context, meta *model.PostMeta) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	stored := *meta
	stored.ID = id
	stored.TagList = copyIDs(meta.TagList)
	if stored.TagList == nil {
		stored.TagList = []primitive.ObjectID{}
	}
	stored.Category = copyIDPtr(meta.Category)
	stored.Series = copyIDPtr(meta.Series)
	r.db.postMetas[id] = stored
	return id, nil
}

func (r *fakePostMetaRepo) FindOneByID(ctx context.Context, id primitive.ObjectID) (*model.PostMeta, error) {
	m, ok := r.db.postMetas[id]
	if !ok {
		return nil, nil
	}
	return r.copyOut(m), nil
}

func (r *fakePostMetaRepo) FindOneByPostNo(ctx context.Context, postNo int64) (*model.PostMeta, error) {
	for _, m := range r.db.postMetas {
		if m.PostNo == postNo {
			return r.copyOut(m), nil
		}
	}
	return nil, nil
}

func (r *fakePostMetaRepo) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*model.PostMeta, error) {
	var out []*model.PostMeta
	for _, id := range ids {
		if m, ok := r.db.postMetas[id]; ok {
			out = append(out, r.copyOut(m))
		}
	}
	return out, nil
}

func (r *fakePostMetaRepo) Find(ctx context.Context, q repository.Query) ([]*model.PostMeta, error) {
	filter := q.Build()
	var out []*model.PostMeta
	for _, m := range r.db.postMetas {
		fields := map[string]any{"post_no": m.PostNo, "is_deleted": m.IsDeleted}
		if matchFilter(filter, fields) {
			out = append(out, r.copyOut(m))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PostNo > out[j].PostNo })
	return out, nil
}

func (r *fakePostMetaRepo) copyOut(m model.PostMeta) *model.PostMeta {
	m.TagList = copyIDs(m.TagList)
	m.Category = copyIDPtr(m.Category)
	m.Series = copyIDPtr(m.Series)
	return &m
}

func (r *fakePostMetaRepo) UpdateByID(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	m, ok := r.db.postMetas[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	for key, value := range set {
		switch key {
		case "category":
			m.Category = asIDPtr(value)
		case "is_private":
			m.IsPrivate = value.(bool)
		case "is_deprecated":
			m.IsDeprecated = value.(bool)
		case "is_draft":
			m.IsDraft = value.(bool)
		case "is_deleted":
			m.IsDeleted = value.(bool)
		case "tag_list":
			m.TagList = copyIDs(value.([]primitive.ObjectID))
		}
	}
	r.db.postMetas[id] = m
	return nil
}

func (r *fakePostMetaRepo) AddTag(ctx context.Context, id primitive.ObjectID, tagID primitive.ObjectID) error {
	m, ok := r.db.postMetas[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	if !containsID(m.TagList, tagID) {
		m.TagList = append(m.TagList, tagID)
	}
	r.db.postMetas[id] = m
	return nil
}

func (r *fakePostMetaRepo) RemoveTag(ctx context.Context, id primitive.ObjectID, tagID primitive.ObjectID) error {
	m, ok := r.db.postMetas[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	m.TagList = removeIDs(m.TagList, []primitive.ObjectID{tagID})
	r.db.postMetas[id] = m
	return nil
}

func (r *fakePostMetaRepo) SetSeries(ctx context.Context, id primitive.ObjectID, seriesID primitive.ObjectID) error {
	m, ok := r.db.postMetas[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	m.Series = &seriesID
	r.db.postMetas[id] = m
	return nil
}

func (r *fakePostMetaRepo) ClearSeries(ctx context.Context, id primitive.ObjectID) error {
	m, ok := r.db.postMetas[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	m.Series = nil
	r.db.postMetas[id] = m
	return nil
}

func (r *fakePostMetaRepo) IncCommentCount(ctx context.Context, postNo int64, delta int64) error {
	for id, m := range r.db.postMetas {
		if m.PostNo == postNo {
			m.CommentCount += delta
			r.db.postMetas[id] = m
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (r *fakePostMetaRepo) CountByCategory(ctx context.Context, categoryID primitive.ObjectID) (int64, error) {
	var count int64
	for _, m := range r.db.postMetas {
		if !m.IsDeleted && m.Category != nil && *m.Category == categoryID {
			count++
		}
	}
	return count, nil
}

// ---------- PostVersionRepo ----------

type fakePostVersionRepo struct {
	db *fakeDB
}

func (r *fakePostVersionRepo) Create(ctx context.Context, version *model.PostVersion) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	stored := *version
	stored.ID = id
	stored.ThumbnailImage = copyIDPtr(version.ThumbnailImage)
	stored.LastPostVersion = copyIDPtr(version.LastPostVersion)
	r.db.postVersions[id] = stored
	return id, nil
}

func (r *fakePostVersionRepo) FindOneByID(ctx context.Context, id primitive.ObjectID) (*model.PostVersion, error) {
	v, ok := r.db.postVersions[id]
	if !ok {
		return nil, nil
	}
	return r.copyOut(v), nil
}

func (r *fakePostVersionRepo) FindLatest(ctx context.Context, postNo int64, language string) (*model.PostVersion, error) {
	for _, v := range r.db.postVersions {
		if v.PostNo == postNo && v.Language == language && v.IsLatestVersion {
			return r.copyOut(v), nil
		}
	}
	return nil, nil
}

func (r *fakePostVersionRepo) Find(ctx context.Context, q repository.Query) ([]*model.PostVersion, error) {
	filter := q.Build()
	var out []*model.PostVersion
	for _, v := range r.db.postVersions {
		fields := map[string]any{
			"_id":               v.ID,
			"post_no":           v.PostNo,
			"title":             v.Title,
			"raw_content":       v.RawContent,
			"rendered_content":  v.RenderedContent,
			"language":          v.Language,
			"is_latest_version": v.IsLatestVersion,
			"updated_date":      v.UpdatedDate,
		}
		if matchFilter(filter, fields) {
			out = append(out, r.copyOut(v))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedDate.After(out[j].UpdatedDate) })
	return out, nil
}

func (r *fakePostVersionRepo) copyOut(v model.PostVersion) *model.PostVersion {
	v.ThumbnailImage = copyIDPtr(v.ThumbnailImage)
	v.LastPostVersion = copyIDPtr(v.LastPostVersion)
	return &v
}

func (r *fakePostVersionRepo) MarkSuperseded(ctx context.Context, id primitive.ObjectID) error {
	v, ok := r.db.postVersions[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	v.IsLatestVersion = false
	r.db.postVersions[id] = v
	return nil
}

func (r *fakePostVersionRepo) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := r.db.postVersions[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(r.db.postVersions, id)
	return nil
}

// ---------- CommentRepo ----------

type fakeCommentRepo struct {
	db *fakeDB
}

func (r *fakeCommentRepo) Create(ctx context.Context, comment *model.Comment) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	stored := *comment
	stored.ID = id
	stored.RefComment = copyIDPtr(comment.RefComment)
	stored.LastVersionComment = copyIDPtr(comment.LastVersionComment)
	r.db.comments[id] = stored
	return id, nil
}

func (r *fakeCommentRepo) FindOneByID(ctx context.Context, id primitive.ObjectID) (*model.Comment, error) {
	c, ok := r.db.comments[id]
	if !ok {
		return nil, nil
	}
	c.RefComment = copyIDPtr(c.RefComment)
	c.LastVersionComment = copyIDPtr(c.LastVersionComment)
	return &c, nil
}

func (r *fakeCommentRepo) FindByPostNo(ctx context.Context, postNo int64, limit, offset int64) ([]*model.Comment, error) {
	var all []*model.Comment
	for _, c := range r.db.comments {
		if c.PostNo == postNo && c.IsLatestVersion {
			item := c
			all = append(all, &item)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedDate.Before(all[j].CreatedDate) })
	if offset >= int64(len(all)) {
		return nil, nil
	}
	all = all[offset:]
	if limit < int64(len(all)) {
		all = all[:limit]
	}
	return all, nil
}

func (r *fakeCommentRepo) MarkSuperseded(ctx context.Context, id primitive.ObjectID) error {
	c, ok := r.db.comments[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	c.IsLatestVersion = false
	r.db.comments[id] = c
	return nil
}

func (r *fakeCommentRepo) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := r.db.comments[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(r.db.comments, id)
	return nil
}

// ---------- ImageRepo ----------

type fakeImageRepo struct {
	db *fakeDB
}

func (r *fakeImageRepo) Create(ctx context.Context, image *model.Image) (primitive.ObjectID, error) {
	for _, i := range r.db.images {
		if i.Title == image.Title {
			return primitive.NilObjectID, errDuplicateKey
		}
	}
	id := primitive.NewObjectID()
	stored := *image
	stored.ID = id
	r.db.images[id] = stored
	return id, nil
}

func (r *fakeImageRepo) FindOneByID(ctx context.Context, id primitive.ObjectID) (*model.Image, error) {
	i, ok := r.db.images[id]
	if !ok {
		return nil, nil
	}
	return &i, nil
}

func (r *fakeImageRepo) FindOneByTitle(ctx context.Context, title string) (*model.Image, error) {
	for _, i := range r.db.images {
		if i.Title == title {
			return &i, nil
		}
	}
	return nil, nil
}

func (r *fakeImageRepo) Find(ctx context.Context, q repository.Query) ([]*model.Image, error) {
	filter := q.Build()
	var out []*model.Image
	for _, i := range r.db.images {
		if matchFilter(filter, map[string]any{"title": i.Title}) {
			item := i
			out = append(out, &item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (r *fakeImageRepo) DeleteByTitle(ctx context.Context, title string) error {
	for id, i := range r.db.images {
		if i.Title == title {
			delete(r.db.images, id)
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

// testEnv 把全部 fake 仓储和真实 service 装配在同一个 fakeDB 上。
type testEnv struct {
	db         *fakeDB
	categories CategoryService
	tags       TagService
	series     SeriesService
	posts      PostService
	comments   CommentService
}

func newTestEnv() *testEnv {
	db := newFakeDB()
	tx := &fakeTx{db: db}
	categoryRepo := &fakeCategoryRepo{db: db}
	tagRepo := &fakeTagRepo{db: db}
	seriesRepo := &fakeSeriesRepo{db: db}
	postMetaRepo := &fakePostMetaRepo{db: db}
	postVersionRepo := &fakePostVersionRepo{db: db}
	commentRepo := &fakeCommentRepo{db: db}
	imageRepo := &fakeImageRepo{db: db}
	return &testEnv{
		db:         db,
		categories: NewCategoryService(categoryRepo, postMetaRepo, tx),
		tags:       NewTagService(tagRepo, postMetaRepo, tx),
		series:     NewSeriesService(seriesRepo, postMetaRepo, imageRepo, tx),
		posts:      NewPostService(postMetaRepo, postVersionRepo, categoryRepo, tagRepo, seriesRepo, imageRepo, tx),
		comments:   NewCommentService(commentRepo, postMetaRepo, tx),
	}
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }
