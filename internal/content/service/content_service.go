package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/mensbreakfast/breakfast-backend/internal/content/domain"
	"github.com/mensbreakfast/breakfast-backend/internal/logging"
	"github.com/mensbreakfast/breakfast-backend/internal/realtime"
	"github.com/mensbreakfast/breakfast-backend/internal/storage/objectstore"
)

// Store is implemented by repository.ContentRepository.
type Store interface {
	ListVideos(ctx context.Context, kind domain.VideoKind) ([]domain.VideoPost, error)
	GetVideo(ctx context.Context, kind domain.VideoKind, id string) (*domain.VideoPost, error)
	ActiveVideo(ctx context.Context, kind domain.VideoKind) (*domain.VideoPost, error)
	CreateVideo(ctx context.Context, p domain.VideoPost) (*domain.VideoPost, error)
	Rotate(ctx context.Context, kind domain.VideoKind) (string, error)
	ListMedia(ctx context.Context) ([]domain.Media, error)
	CreateMedia(ctx context.Context, m domain.Media, createdBy string) (*domain.Media, error)
	ListBlogs(ctx context.Context) ([]domain.Blog, error)
	GetBlog(ctx context.Context, id string) (*domain.Blog, error)
	CreateBlog(ctx context.Context, b domain.Blog) (*domain.Blog, error)
}

type ContentService struct {
	store     Store
	uploader  objectstore.Uploader
	publisher realtime.Publisher
}

func NewContentService(store Store, uploader objectstore.Uploader, publisher realtime.Publisher) *ContentService {
	return &ContentService{store: store, uploader: uploader, publisher: publisher}
}

// CurrentVideo returns the post shown this week for kind.
func (s *ContentService) CurrentVideo(ctx context.Context, kind domain.VideoKind) (*domain.VideoPost, error) {
	return s.store.ActiveVideo(ctx, kind)
}

func (s *ContentService) ListVideos(ctx context.Context, kind domain.VideoKind) ([]domain.VideoPost, error) {
	return s.store.ListVideos(ctx, kind)
}

func (s *ContentService) GetVideo(ctx context.Context, kind domain.VideoKind, id string) (*domain.VideoPost, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	return s.store.GetVideo(ctx, kind, id)
}

func (s *ContentService) CreateVideo(ctx context.Context, uid string, kind domain.VideoKind, topic, description string, video *objectstore.File) (*domain.VideoPost, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, domain.ErrInvalidContent
	}
	if video == nil {
		return nil, domain.ErrVideoRequired
	}

	url, err := objectstore.Put(ctx, s.uploader, objectstore.BucketThoughtVideos, video)
	if err != nil {
		return nil, err
	}

	p, err := s.store.CreateVideo(ctx, domain.VideoPost{
		Kind:        kind,
		Topic:       topic,
		Description: strings.TrimSpace(description),
		VideoURL:    &url,
		CreatedBy:   &uid,
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, realtime.ActionInsert, p.ID, p)
	return p, nil
}

func (s *ContentService) ListMedia(ctx context.Context) ([]domain.Media, error) {
	return s.store.ListMedia(ctx)
}

func (s *ContentService) CreateMedia(ctx context.Context, uid string, m domain.Media, image *objectstore.File) (*domain.Media, error) {
	m.Title = strings.TrimSpace(m.Title)
	m.Type = strings.ToLower(strings.TrimSpace(m.Type))
	if m.Type == "" {
		m.Type = domain.MediaBook
	}
	if m.Title == "" {
		return nil, domain.ErrInvalidContent
	}
	if !domain.ValidMediaType(m.Type) {
		return nil, domain.ErrInvalidMediaType
	}
	if image == nil {
		return nil, domain.ErrImageRequired
	}

	url, err := objectstore.Put(ctx, s.uploader, objectstore.BucketMediaImages, image)
	if err != nil {
		return nil, err
	}
	m.ImageURL = &url

	out, err := s.store.CreateMedia(ctx, m, uid)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, realtime.ActionInsert, out.ID, out)
	return out, nil
}

func (s *ContentService) ListBlogs(ctx context.Context) ([]domain.Blog, error) {
	return s.store.ListBlogs(ctx)
}

func (s *ContentService) GetBlog(ctx context.Context, id string) (*domain.Blog, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	return s.store.GetBlog(ctx, id)
}

// CreateBlog stores a blog post; the image is optional.
func (s *ContentService) CreateBlog(ctx context.Context, uid, title, body string, image *objectstore.File) (*domain.Blog, error) {
	b := domain.Blog{
		Title:    strings.TrimSpace(title),
		Content:  strings.TrimSpace(body),
		AuthorID: &uid,
	}
	if b.Title == "" || b.Content == "" {
		return nil, domain.ErrInvalidContent
	}

	if image != nil {
		url, err := objectstore.Put(ctx, s.uploader, objectstore.BucketBlogImages, image)
		if err != nil {
			return nil, err
		}
		b.ImageURL = &url
	}

	out, err := s.store.CreateBlog(ctx, b)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, realtime.ActionInsert, out.ID, out)
	return out, nil
}

// RotateWeekly makes the newest post of every video series the only active one.
func (s *ContentService) RotateWeekly(ctx context.Context) error {
	log := logging.New(ctx)
	var firstErr error
	for _, kind := range domain.Kinds {
		id, err := s.store.Rotate(ctx, kind)
		if err != nil {
			log.Error("rotate_"+string(kind), err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		log.Infof("rotate_"+string(kind), "active=%q", id)
		if id != "" {
			s.publish(ctx, realtime.ActionUpdate, id, map[string]any{"kind": kind, "active": true})
		}
	}
	return firstErr
}

func (s *ContentService) publish(ctx context.Context, action, id string, payload any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, realtime.TopicContent, action, id, "", payload); err != nil {
		logging.New(ctx).Warnf("publish_content", "id=%s err=%v", id, err)
	}
}
