package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mensbreakfast/breakfast-backend/internal/events/domain"
)

type EventRepository struct {
	db *pgxpool.Pool
}

func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{db: db}
}

const eventColumns = `id::text, title, description, date, location, image_url, type, attendee_count, created_at`

func scanEvent(row pgx.Row) (*domain.Event, error) {
	var e domain.Event
	if err := row.Scan(&e.ID, &e.Title, &e.Description, &e.Date, &e.Location, &e.ImageURL, &e.Type, &e.AttendeeCount, &e.CreatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}

// List returns every event ordered by date ascending.
func (r *EventRepository) List(ctx context.Context) ([]domain.Event, error) {
	rows, err := r.db.Query(ctx, `select `+eventColumns+` from events order by date asc`)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func (r *EventRepository) Get(ctx context.Context, id string) (*domain.Event, error) {
	e, err := scanEvent(r.db.QueryRow(ctx, `select `+eventColumns+` from events where id = $1::uuid`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}

func (r *EventRepository) Create(ctx context.Context, req domain.CreateEventRequest) (*domain.Event, error) {
	const q = `
insert into events (title, description, date, location, image_url, type)
values ($1, $2, $3, $4, $5, $6)
returning ` + eventColumns

	e, err := scanEvent(r.db.QueryRow(ctx, q, req.Title, req.Description, req.Date, req.Location, req.ImageURL, req.Type))
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return e, nil
}

func (r *EventRepository) Update(ctx context.Context, id string, req domain.UpdateEventRequest) (*domain.Event, error) {
	const q = `
update events
set title = coalesce($2, title),
    description = coalesce($3, description),
    date = coalesce($4, date),
    location = coalesce($5, location),
    type = coalesce($6, type)
where id = $1::uuid
returning ` + eventColumns

	e, err := scanEvent(r.db.QueryRow(ctx, q, id, req.Title, req.Description, req.Date, req.Location, req.Type))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	return e, nil
}

// Delete removes the event's RSVPs and then the event in one transaction.
func (r *EventRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `delete from rsvps where event_id = $1::uuid`, id); err != nil {
		return fmt.Errorf("delete rsvps: %w", err)
	}
	tag, err := tx.Exec(ctx, `delete from events where id = $1::uuid`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}
	return tx.Commit(ctx)
}

func (r *EventRepository) SetAttendeeCount(ctx context.Context, id string, n int) error {
	if _, err := r.db.Exec(ctx, `update events set attendee_count = $2 where id = $1::uuid`, id, n); err != nil {
		return fmt.Errorf("set attendee count: %w", err)
	}
	return nil
}

func (r *EventRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `select count(*) from events`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return n, nil
}

// ListRSVPs returns RSVP rows, restricted to eventIDs when any are given.
func (r *EventRepository) ListRSVPs(ctx context.Context, eventIDs ...string) ([]domain.RSVP, error) {
	q := `select id::text, event_id::text, user_id, created_at from rsvps`
	args := []any{}
	if len(eventIDs) > 0 {
		q += ` where event_id::text = any($1)`
		args = append(args, eventIDs)
	}

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list rsvps: %w", err)
	}
	defer rows.Close()

	out := make([]domain.RSVP, 0)
	for rows.Next() {
		var v domain.RSVP
		if err := rows.Scan(&v.ID, &v.EventID, &v.UserID, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan rsvp: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// UserEventIDs returns the ids of events uid has RSVP'd to.
func (r *EventRepository) UserEventIDs(ctx context.Context, uid string) (map[string]bool, error) {
	rows, err := r.db.Query(ctx, `select event_id::text from rsvps where user_id = $1`, uid)
	if err != nil {
		return nil, fmt.Errorf("user rsvps: %w", err)
	}
	defer rows.Close()

	out := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan rsvp: %w", err)
		}
		out[id] = true
	}
	return out, rows.Err()
}

// CreateRSVP inserts the (event, user) pair. The unique constraint backs up the
// service-level duplicate check.
func (r *EventRepository) CreateRSVP(ctx context.Context, eventID, uid string) (*domain.RSVP, error) {
	const q = `
insert into rsvps (event_id, user_id)
values ($1::uuid, $2)
returning id::text, event_id::text, user_id, created_at`

	var v domain.RSVP
	err := r.db.QueryRow(ctx, q, eventID, uid).Scan(&v.ID, &v.EventID, &v.UserID, &v.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyRSVPd
		}
		return nil, fmt.Errorf("create rsvp: %w", err)
	}
	return &v, nil
}

// ListRSVPDetails joins every RSVP with its event and user, newest first.
func (r *EventRepository) ListRSVPDetails(ctx context.Context) ([]domain.RSVPDetail, error) {
	const q = `
select r.id::text, r.event_id::text, r.user_id, r.created_at,
       e.title, e.date, u.name, u.surname, u.image
from rsvps r
join events e on e.id = r.event_id
join users u on u.id = r.user_id
order by r.created_at desc`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list rsvp details: %w", err)
	}
	defer rows.Close()

	out := make([]domain.RSVPDetail, 0)
	for rows.Next() {
		var d domain.RSVPDetail
		if err := rows.Scan(&d.ID, &d.EventID, &d.UserID, &d.CreatedAt,
			&d.EventTitle, &d.EventDate, &d.UserName, &d.UserSurname, &d.UserImage); err != nil {
			return nil, fmt.Errorf("scan rsvp detail: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
