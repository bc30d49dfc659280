package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mensbreakfast/breakfast-backend/internal/content/domain"
)

type ContentRepository struct {
	db *pgxpool.Pool
}

func NewContentRepository(db *pgxpool.Pool) *ContentRepository {
	return &ContentRepository{db: db}
}

func videoTable(kind domain.VideoKind) (string, error) {
	switch kind {
	case domain.KindMondayMotivation:
		return "monday_motivations", nil
	case domain.KindThought:
		return "thoughts_of_day", nil
	}
	return "", fmt.Errorf("unknown video kind %q", kind)
}

const videoColumns = `id::text, topic, description, video_url, is_active, created_by, created_at`

func scanVideo(row pgx.Row, kind domain.VideoKind) (*domain.VideoPost, error) {
	p := domain.VideoPost{Kind: kind}
	if err := row.Scan(&p.ID, &p.Topic, &p.Description, &p.VideoURL, &p.IsActive, &p.CreatedBy, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListVideos returns posts of kind, newest first.
func (r *ContentRepository) ListVideos(ctx context.Context, kind domain.VideoKind) ([]domain.VideoPost, error) {
	table, err := videoTable(kind)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, `select `+videoColumns+` from `+table+` order by created_at desc`)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	defer rows.Close()

	out := make([]domain.VideoPost, 0)
	for rows.Next() {
		p, err := scanVideo(rows, kind)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *ContentRepository) GetVideo(ctx context.Context, kind domain.VideoKind, id string) (*domain.VideoPost, error) {
	table, err := videoTable(kind)
	if err != nil {
		return nil, err
	}
	p, err := scanVideo(r.db.QueryRow(ctx, `select `+videoColumns+` from `+table+` where id = $1::uuid`, id), kind)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", table, err)
	}
	return p, nil
}

// ActiveVideo returns the newest active post of kind.
func (r *ContentRepository) ActiveVideo(ctx context.Context, kind domain.VideoKind) (*domain.VideoPost, error) {
	table, err := videoTable(kind)
	if err != nil {
		return nil, err
	}
	q := `select ` + videoColumns + ` from ` + table + ` where is_active order by created_at desc limit 1`
	p, err := scanVideo(r.db.QueryRow(ctx, q), kind)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("active %s: %w", table, err)
	}
	return p, nil
}

func (r *ContentRepository) CreateVideo(ctx context.Context, p domain.VideoPost) (*domain.VideoPost, error) {
	table, err := videoTable(p.Kind)
	if err != nil {
		return nil, err
	}
	q := `insert into ` + table + ` (topic, description, video_url, created_by)
values ($1, $2, $3, $4)
returning ` + videoColumns

	out, err := scanVideo(r.db.QueryRow(ctx, q, p.Topic, p.Description, p.VideoURL, p.CreatedBy), p.Kind)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", table, err)
	}
	return out, nil
}

// Rotate leaves only the newest post of kind active. It returns the id of the
// active post, or "" when the table is empty.
func (r *ContentRepository) Rotate(ctx context.Context, kind domain.VideoKind) (string, error) {
	table, err := videoTable(kind)
	if err != nil {
		return "", err
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var id string
	err = tx.QueryRow(ctx, `select id::text from `+table+` order by created_at desc limit 1 for update`).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("newest %s: %w", table, err)
	}

	if _, err := tx.Exec(ctx, `update `+table+` set is_active = (id = $1::uuid)`, id); err != nil {
		return "", fmt.Errorf("rotate %s: %w", table, err)
	}
	return id, tx.Commit(ctx)
}

const mediaColumns = `id::text, title, type, image_url, description, link, created_at`

func (r *ContentRepository) ListMedia(ctx context.Context) ([]domain.Media, error) {
	rows, err := r.db.Query(ctx, `select `+mediaColumns+` from recommended_media where is_active order by created_at desc`)
	if err != nil {
		return nil, fmt.Errorf("list media: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Media, 0)
	for rows.Next() {
		var m domain.Media
		if err := rows.Scan(&m.ID, &m.Title, &m.Type, &m.ImageURL, &m.Description, &m.Link, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan media: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *ContentRepository) CreateMedia(ctx context.Context, m domain.Media, createdBy string) (*domain.Media, error) {
	const q = `
insert into recommended_media (title, type, image_url, description, link, created_by)
values ($1, $2, $3, $4, $5, $6)
returning ` + mediaColumns

	var out domain.Media
	err := r.db.QueryRow(ctx, q, m.Title, m.Type, m.ImageURL, m.Description, m.Link, createdBy).
		Scan(&out.ID, &out.Title, &out.Type, &out.ImageURL, &out.Description, &out.Link, &out.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create media: %w", err)
	}
	return &out, nil
}

const blogSelect = `
select b.id::text, b.title, b.content, b.image_url, b.author_id,
       coalesce(trim(u.name || ' ' || u.surname), ''), b.created_at
from investment_blogs b
left join users u on u.id = b.author_id`

func scanBlog(row pgx.Row) (*domain.Blog, error) {
	var b domain.Blog
	if err := row.Scan(&b.ID, &b.Title, &b.Content, &b.ImageURL, &b.AuthorID, &b.AuthorName, &b.CreatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *ContentRepository) ListBlogs(ctx context.Context) ([]domain.Blog, error) {
	rows, err := r.db.Query(ctx, blogSelect+` order by b.created_at desc`)
	if err != nil {
		return nil, fmt.Errorf("list blogs: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Blog, 0)
	for rows.Next() {
		b, err := scanBlog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan blog: %w", err)
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

func (r *ContentRepository) GetBlog(ctx context.Context, id string) (*domain.Blog, error) {
	b, err := scanBlog(r.db.QueryRow(ctx, blogSelect+` where b.id = $1::uuid`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get blog: %w", err)
	}
	return b, nil
}

func (r *ContentRepository) CreateBlog(ctx context.Context, b domain.Blog) (*domain.Blog, error) {
	var id string
	err := r.db.QueryRow(ctx,
		`insert into investment_blogs (title, content, image_url, author_id) values ($1, $2, $3, $4) returning id::text`,
		b.Title, b.Content, b.ImageURL, b.AuthorID,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create blog: %w", err)
	}
	return r.GetBlog(ctx, id)
}
