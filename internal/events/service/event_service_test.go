package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mensbreakfast/breakfast-backend/internal/events/domain"
	"github.com/mensbreakfast/breakfast-backend/internal/storage/objectstore"
)

type memStore struct {
	events    map[string]*domain.Event
	rsvps     []domain.RSVP
	rsvpErr   error
	setCounts map[string]int
}

func newMemStore() *memStore {
	return &memStore{events: map[string]*domain.Event{}, setCounts: map[string]int{}}
}

func (m *memStore) add(e domain.Event) string {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	m.events[e.ID] = &e
	return e.ID
}

func (m *memStore) List(context.Context) ([]domain.Event, error) {
	out := make([]domain.Event, 0, len(m.events))
	for _, e := range m.events {
		out = append(out, *e)
	}
	// date ascending
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Date.Before(out[j-1].Date); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out, nil
}

func (m *memStore) Get(_ context.Context, id string) (*domain.Event, error) {
	e, ok := m.events[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	cp := *e
	return &cp, nil
}

func (m *memStore) Create(_ context.Context, req domain.CreateEventRequest) (*domain.Event, error) {
	url := req.ImageURL
	id := m.add(domain.Event{Title: req.Title, Date: req.Date, Location: req.Location, Type: req.Type, ImageURL: &url})
	return m.Get(context.Background(), id)
}

func (m *memStore) Update(_ context.Context, id string, req domain.UpdateEventRequest) (*domain.Event, error) {
	e, ok := m.events[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	if req.Title != nil {
		e.Title = *req.Title
	}
	cp := *e
	return &cp, nil
}

func (m *memStore) Delete(_ context.Context, id string) error {
	if _, ok := m.events[id]; !ok {
		return domain.ErrEventNotFound
	}
	kept := m.rsvps[:0]
	for _, r := range m.rsvps {
		if r.EventID != id {
			kept = append(kept, r)
		}
	}
	m.rsvps = kept
	delete(m.events, id)
	return nil
}

func (m *memStore) SetAttendeeCount(_ context.Context, id string, n int) error {
	m.setCounts[id] = n
	m.events[id].AttendeeCount = n
	return nil
}

func (m *memStore) ListRSVPs(_ context.Context, eventIDs ...string) ([]domain.RSVP, error) {
	if m.rsvpErr != nil {
		return nil, m.rsvpErr
	}
	if len(eventIDs) == 0 {
		return append([]domain.RSVP(nil), m.rsvps...), nil
	}
	var out []domain.RSVP
	for _, r := range m.rsvps {
		for _, id := range eventIDs {
			if r.EventID == id {
				out = append(out, r)
			}
		}
	}
	return out, nil
}

func (m *memStore) CreateRSVP(_ context.Context, eventID, uid string) (*domain.RSVP, error) {
	for _, r := range m.rsvps {
		if r.EventID == eventID && r.UserID == uid {
			return nil, domain.ErrAlreadyRSVPd
		}
	}
	r := domain.RSVP{ID: uuid.NewString(), EventID: eventID, UserID: uid, CreatedAt: time.Now()}
	m.rsvps = append(m.rsvps, r)
	return &r, nil
}

func (m *memStore) ListRSVPDetails(context.Context) ([]domain.RSVPDetail, error) {
	return nil, nil
}

type published struct{ topic, action, id, uid string }

type fakePublisher struct {
	mu  sync.Mutex
	got []published
}

func (f *fakePublisher) Publish(_ context.Context, topic, action, id, uid string, _ any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.got = append(f.got, published{topic, action, id, uid})
	return nil
}

type fakeUploader struct{ bucket string }

func (f *fakeUploader) Upload(_ context.Context, bucket, filename, _ string, body io.Reader, _ int64) (string, error) {
	f.bucket = bucket
	_, _ = io.ReadAll(body)
	return "https://cdn.example.com/" + bucket + "/" + filename, nil
}

var now = time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)

func newService(store *memStore) (*EventService, *fakePublisher, *fakeUploader) {
	pub := &fakePublisher{}
	up := &fakeUploader{}
	svc := NewEventService(store, up, pub)
	svc.now = func() time.Time { return now }
	return svc, pub, up
}

func TestListEvents_DerivesCountsAndFilters(t *testing.T) {
	store := newMemStore()
	past := store.add(domain.Event{Title: "past", Date: now.Add(-24 * time.Hour), AttendeeCount: 40})
	next := store.add(domain.Event{Title: "next", Date: now.Add(24 * time.Hour), AttendeeCount: 7})
	store.rsvps = []domain.RSVP{
		{EventID: past, UserID: "a"},
		{EventID: past, UserID: "me"},
		{EventID: next, UserID: "b"},
	}
	svc, _, _ := newService(store)

	all, err := svc.ListEvents(context.Background(), "me", domain.FilterAll)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "past", all[0].Title)
	assert.Equal(t, 2, all[0].AttendeeCount)
	assert.True(t, all[0].IsPast)
	assert.True(t, all[0].RSVP)
	assert.Equal(t, domain.StateGoing, all[0].State)
	assert.Equal(t, 1, all[1].AttendeeCount)
	assert.Equal(t, domain.StateNotGoing, all[1].State)

	upcoming, err := svc.ListEvents(context.Background(), "me", domain.FilterUpcoming)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, "next", upcoming[0].Title)
}

func TestListEvents_FallsBackToStoredCounts(t *testing.T) {
	store := newMemStore()
	store.add(domain.Event{Title: "e", Date: now.Add(time.Hour), AttendeeCount: 12})
	store.rsvpErr = errors.New("connection reset")
	svc, _, _ := newService(store)

	list, err := svc.ListEvents(context.Background(), "me", domain.FilterAll)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 12, list[0].AttendeeCount)
}

func TestRSVP(t *testing.T) {
	store := newMemStore()
	id := store.add(domain.Event{Title: "e", Date: now.Add(time.Hour), AttendeeCount: 0})
	store.rsvps = []domain.RSVP{{EventID: id, UserID: "other"}}
	svc, pub, _ := newService(store)
	ctx := context.Background()

	v, err := svc.RSVP(ctx, "me", id)
	require.NoError(t, err)
	assert.Equal(t, 2, v.AttendeeCount)
	assert.True(t, v.RSVP)
	assert.Equal(t, 2, store.setCounts[id])
	require.Len(t, pub.got, 2)
	assert.Equal(t, "rsvps", pub.got[0].topic)
	assert.Equal(t, "me", pub.got[0].uid)

	_, err = svc.RSVP(ctx, "me", id)
	assert.ErrorIs(t, err, domain.ErrAlreadyRSVPd)
	assert.Len(t, store.rsvps, 2, "duplicate must not add a row")
}

func TestRSVP_EndedAndUnknown(t *testing.T) {
	store := newMemStore()
	past := store.add(domain.Event{Title: "old", Date: now.Add(-time.Hour)})
	svc, _, _ := newService(store)
	ctx := context.Background()

	_, err := svc.RSVP(ctx, "me", past)
	assert.ErrorIs(t, err, domain.ErrEventEnded)
	assert.Empty(t, store.rsvps)

	_, err = svc.RSVP(ctx, "me", "not-a-uuid")
	assert.ErrorIs(t, err, domain.ErrEventNotFound)

	_, err = svc.RSVP(ctx, "me", uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrEventNotFound)
}

func TestCreateEvent(t *testing.T) {
	store := newMemStore()
	svc, pub, up := newService(store)
	ctx := context.Background()
	req := domain.CreateEventRequest{Title: " Breakfast ", Location: "Hall", Date: now.Add(48 * time.Hour)}

	_, err := svc.CreateEvent(ctx, req, nil)
	assert.ErrorIs(t, err, domain.ErrImageRequired)

	_, err = svc.CreateEvent(ctx, domain.CreateEventRequest{Location: "Hall", Date: now}, &objectstore.File{})
	assert.ErrorIs(t, err, domain.ErrInvalidEvent)

	e, err := svc.CreateEvent(ctx, req, &objectstore.File{Name: "cover.jpg", Body: strings.NewReader("img")})
	require.NoError(t, err)
	assert.Equal(t, "Breakfast", e.Title)
	assert.Equal(t, domain.DefaultEventType, e.Type)
	assert.Equal(t, objectstore.BucketEventImages, up.bucket)
	require.NotNil(t, e.ImageURL)
	assert.Contains(t, *e.ImageURL, "event-images")
	require.Len(t, pub.got, 1)
	assert.Equal(t, "insert", pub.got[0].action)
}

func TestDeleteEvent_RemovesRSVPs(t *testing.T) {
	store := newMemStore()
	id := store.add(domain.Event{Title: "e", Date: now.Add(time.Hour)})
	other := store.add(domain.Event{Title: "f", Date: now.Add(time.Hour)})
	store.rsvps = []domain.RSVP{{EventID: id, UserID: "a"}, {EventID: other, UserID: "a"}}
	svc, _, _ := newService(store)

	require.NoError(t, svc.DeleteEvent(context.Background(), id))
	assert.Len(t, store.rsvps, 1)
	assert.ErrorIs(t, svc.DeleteEvent(context.Background(), id), domain.ErrEventNotFound)
}
