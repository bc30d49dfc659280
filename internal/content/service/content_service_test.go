package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mensbreakfast/breakfast-backend/internal/content/domain"
	"github.com/mensbreakfast/breakfast-backend/internal/storage/objectstore"
)

type memStore struct {
	videos    map[domain.VideoKind][]domain.VideoPost
	media     []domain.Media
	blogs     []domain.Blog
	rotateErr error
}

func newMemStore() *memStore {
	return &memStore{videos: map[domain.VideoKind][]domain.VideoPost{}}
}

func (m *memStore) ListVideos(_ context.Context, kind domain.VideoKind) ([]domain.VideoPost, error) {
	return m.videos[kind], nil
}

func (m *memStore) GetVideo(_ context.Context, kind domain.VideoKind, id string) (*domain.VideoPost, error) {
	for _, p := range m.videos[kind] {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memStore) ActiveVideo(_ context.Context, kind domain.VideoKind) (*domain.VideoPost, error) {
	for _, p := range m.videos[kind] {
		if p.IsActive {
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memStore) CreateVideo(_ context.Context, p domain.VideoPost) (*domain.VideoPost, error) {
	p.ID = uuid.NewString()
	p.IsActive = true
	p.CreatedAt = time.Now()
	m.videos[p.Kind] = append([]domain.VideoPost{p}, m.videos[p.Kind]...)
	return &p, nil
}

func (m *memStore) Rotate(_ context.Context, kind domain.VideoKind) (string, error) {
	if m.rotateErr != nil {
		return "", m.rotateErr
	}
	posts := m.videos[kind]
	if len(posts) == 0 {
		return "", nil
	}
	for i := range posts {
		posts[i].IsActive = i == 0
	}
	return posts[0].ID, nil
}

func (m *memStore) ListMedia(context.Context) ([]domain.Media, error) { return m.media, nil }

func (m *memStore) CreateMedia(_ context.Context, md domain.Media, _ string) (*domain.Media, error) {
	md.ID = uuid.NewString()
	m.media = append(m.media, md)
	return &md, nil
}

func (m *memStore) ListBlogs(context.Context) ([]domain.Blog, error) { return m.blogs, nil }

func (m *memStore) GetBlog(_ context.Context, id string) (*domain.Blog, error) {
	for _, b := range m.blogs {
		if b.ID == id {
			return &b, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memStore) CreateBlog(_ context.Context, b domain.Blog) (*domain.Blog, error) {
	b.ID = uuid.NewString()
	m.blogs = append(m.blogs, b)
	return &b, nil
}

type bucketRecorder struct{ buckets []string }

func (b *bucketRecorder) Upload(_ context.Context, bucket, filename, _ string, body io.Reader, _ int64) (string, error) {
	_, _ = io.Copy(io.Discard, body)
	b.buckets = append(b.buckets, bucket)
	return "https://cdn.example.com/" + bucket + "/" + filename, nil
}

func file(name string) *objectstore.File {
	return &objectstore.File{Name: name, Body: strings.NewReader("x")}
}

func TestCreateVideo(t *testing.T) {
	store := newMemStore()
	up := &bucketRecorder{}
	svc := NewContentService(store, up, nil)
	ctx := context.Background()

	_, err := svc.CreateVideo(ctx, "admin", domain.KindThought, "Patience", "", nil)
	assert.ErrorIs(t, err, domain.ErrVideoRequired)

	_, err = svc.CreateVideo(ctx, "admin", domain.KindThought, "  ", "", file("a.mp4"))
	assert.ErrorIs(t, err, domain.ErrInvalidContent)

	p, err := svc.CreateVideo(ctx, "admin", domain.KindThought, "Patience", "desc", file("a.mp4"))
	require.NoError(t, err)
	assert.Equal(t, []string{objectstore.BucketThoughtVideos}, up.buckets)
	require.NotNil(t, p.VideoURL)
	assert.Equal(t, "admin", *p.CreatedBy)
}

func TestCreateMediaAndBlog(t *testing.T) {
	store := newMemStore()
	up := &bucketRecorder{}
	svc := NewContentService(store, up, nil)
	ctx := context.Background()

	_, err := svc.CreateMedia(ctx, "admin", domain.Media{Title: "Book"}, nil)
	assert.ErrorIs(t, err, domain.ErrImageRequired)

	_, err = svc.CreateMedia(ctx, "admin", domain.Media{Title: "Book", Type: "vinyl"}, file("c.png"))
	assert.ErrorIs(t, err, domain.ErrInvalidMediaType)

	m, err := svc.CreateMedia(ctx, "admin", domain.Media{Title: "Book"}, file("c.png"))
	require.NoError(t, err)
	assert.Equal(t, domain.MediaBook, m.Type)

	b, err := svc.CreateBlog(ctx, "admin", "Index funds", "Start early.", nil)
	require.NoError(t, err)
	assert.Nil(t, b.ImageURL)

	_, err = svc.CreateBlog(ctx, "admin", "Bonds", "", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidContent)

	assert.Equal(t, []string{objectstore.BucketMediaImages}, up.buckets)

	_, err = svc.GetBlog(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRotateWeekly(t *testing.T) {
	store := newMemStore()
	svc := NewContentService(store, &bucketRecorder{}, nil)
	ctx := context.Background()

	for _, topic := range []string{"one", "two", "three"} {
		_, err := svc.CreateVideo(ctx, "admin", domain.KindMondayMotivation, topic, "", file("v.mp4"))
		require.NoError(t, err)
	}
	require.NoError(t, svc.RotateWeekly(ctx))

	active := 0
	for _, p := range store.videos[domain.KindMondayMotivation] {
		if p.IsActive {
			active++
			assert.Equal(t, "three", p.Topic)
		}
	}
	assert.Equal(t, 1, active)

	cur, err := svc.CurrentVideo(ctx, domain.KindMondayMotivation)
	require.NoError(t, err)
	assert.Equal(t, "three", cur.Topic)

	store.rotateErr = errors.New("db down")
	assert.Error(t, svc.RotateWeekly(ctx))
}
