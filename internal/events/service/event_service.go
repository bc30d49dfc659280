package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mensbreakfast/breakfast-backend/internal/events/domain"
	"github.com/mensbreakfast/breakfast-backend/internal/logging"
	"github.com/mensbreakfast/breakfast-backend/internal/realtime"
	"github.com/mensbreakfast/breakfast-backend/internal/storage/objectstore"
)

// Store is implemented by repository.EventRepository.
type Store interface {
	List(ctx context.Context) ([]domain.Event, error)
	Get(ctx context.Context, id string) (*domain.Event, error)
	Create(ctx context.Context, req domain.CreateEventRequest) (*domain.Event, error)
	Update(ctx context.Context, id string, req domain.UpdateEventRequest) (*domain.Event, error)
	Delete(ctx context.Context, id string) error
	SetAttendeeCount(ctx context.Context, id string, n int) error
	ListRSVPs(ctx context.Context, eventIDs ...string) ([]domain.RSVP, error)
	CreateRSVP(ctx context.Context, eventID, uid string) (*domain.RSVP, error)
	ListRSVPDetails(ctx context.Context) ([]domain.RSVPDetail, error)
}

// EventView is an event with the fields derived for one viewer.
type EventView struct {
	domain.Event
	IsPast bool             `json:"is_past"`
	RSVP   bool             `json:"rsvp"`
	State  domain.RSVPState `json:"state"`
}

type EventService struct {
	store     Store
	uploader  objectstore.Uploader
	publisher realtime.Publisher
	now       func() time.Time
}

func NewEventService(store Store, uploader objectstore.Uploader, publisher realtime.Publisher) *EventService {
	return &EventService{
		store:     store,
		uploader:  uploader,
		publisher: publisher,
		now:       time.Now,
	}
}

// ListEvents returns events matching filter, date ascending. Attendee counts
// are re-derived from RSVP rows; if those cannot be loaded the stored counts
// are kept.
func (s *EventService) ListEvents(ctx context.Context, uid string, filter domain.Filter) ([]EventView, error) {
	events, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	mine := map[string]bool{}
	rsvps, err := s.store.ListRSVPs(ctx)
	if err != nil {
		logging.New(ctx).Warnf("list_events", "rsvps unavailable, using stored attendee counts: %v", err)
	} else {
		events = domain.ApplyAttendeeCounts(events, domain.CountAttendees(rsvps))
		for _, r := range rsvps {
			if r.UserID == uid {
				mine[r.EventID] = true
			}
		}
	}

	now := s.now()
	out := make([]EventView, 0, len(events))
	for i := range events {
		if !filter.Match(&events[i], now) {
			continue
		}
		out = append(out, s.view(events[i], mine[events[i].ID], now))
	}
	return out, nil
}

func (s *EventService) GetEvent(ctx context.Context, uid, id string) (*EventView, error) {
	e, hasRSVP, err := s.load(ctx, uid, id)
	if err != nil {
		return nil, err
	}
	v := s.view(*e, hasRSVP, s.now())
	return &v, nil
}

// RSVP moves uid from not going to going for event id.
func (s *EventService) RSVP(ctx context.Context, uid, id string) (*EventView, error) {
	e, hasRSVP, err := s.load(ctx, uid, id)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if err := domain.CanRSVP(e, hasRSVP, now); err != nil {
		return nil, err
	}

	rsvp, err := s.store.CreateRSVP(ctx, id, uid)
	if err != nil {
		return nil, err
	}

	if rsvps, err := s.store.ListRSVPs(ctx, id); err == nil {
		e.AttendeeCount = domain.CountAttendees(rsvps)[id]
		if err := s.store.SetAttendeeCount(ctx, id, e.AttendeeCount); err != nil {
			logging.New(ctx).Error("rsvp_store_count", err)
		}
	} else {
		e.AttendeeCount++
		logging.New(ctx).Warnf("rsvp_recount", "event=%s err=%v", id, err)
	}

	s.publish(ctx, realtime.TopicRSVPs, realtime.ActionInsert, rsvp.ID, uid, rsvp)
	s.publish(ctx, realtime.TopicEvents, realtime.ActionUpdate, id, "", map[string]any{"attendee_count": e.AttendeeCount})

	v := s.view(*e, true, now)
	return &v, nil
}

// CreateEvent uploads the image and stores the event.
func (s *EventService) CreateEvent(ctx context.Context, req domain.CreateEventRequest, image *objectstore.File) (*domain.Event, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Location = strings.TrimSpace(req.Location)
	req.Type = strings.TrimSpace(req.Type)
	if req.Type == "" {
		req.Type = domain.DefaultEventType
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if image == nil {
		return nil, domain.ErrImageRequired
	}

	url, err := objectstore.Put(ctx, s.uploader, objectstore.BucketEventImages, image)
	if err != nil {
		return nil, err
	}
	req.ImageURL = url

	e, err := s.store.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, realtime.TopicEvents, realtime.ActionInsert, e.ID, "", e)
	return e, nil
}

func (s *EventService) UpdateEvent(ctx context.Context, id string, req domain.UpdateEventRequest) (*domain.Event, error) {
	if !validID(id) {
		return nil, domain.ErrEventNotFound
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return nil, domain.ErrInvalidEvent
	}
	e, err := s.store.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, realtime.TopicEvents, realtime.ActionUpdate, e.ID, "", e)
	return e, nil
}

func (s *EventService) DeleteEvent(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrEventNotFound
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, realtime.TopicEvents, realtime.ActionDelete, id, "", nil)
	return nil
}

func (s *EventService) ListRSVPDetails(ctx context.Context) ([]domain.RSVPDetail, error) {
	return s.store.ListRSVPDetails(ctx)
}

func (s *EventService) load(ctx context.Context, uid, id string) (*domain.Event, bool, error) {
	if !validID(id) {
		return nil, false, domain.ErrEventNotFound
	}
	e, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, false, err
	}

	rsvps, err := s.store.ListRSVPs(ctx, id)
	if err != nil {
		return nil, false, err
	}
	e.AttendeeCount = domain.CountAttendees(rsvps)[id]

	hasRSVP := false
	for _, r := range rsvps {
		if r.UserID == uid {
			hasRSVP = true
			break
		}
	}
	return e, hasRSVP, nil
}

func (s *EventService) view(e domain.Event, hasRSVP bool, now time.Time) EventView {
	return EventView{
		Event:  e,
		IsPast: e.IsPast(now),
		RSVP:   hasRSVP,
		State:  domain.StateFor(&e, hasRSVP, now),
	}
}

func (s *EventService) publish(ctx context.Context, topic, action, id, uid string, payload any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, topic, action, id, uid, payload); err != nil {
		logging.New(ctx).Warnf("publish_"+topic, "id=%s err=%v", id, err)
	}
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
