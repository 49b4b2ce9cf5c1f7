package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-service-sdk/internal/adapter"
	"github.com/MKhiriev/go-service-sdk/internal/logger"
	"github.com/MKhiriev/go-service-sdk/internal/store"
	"github.com/MKhiriev/go-service-sdk/internal/utils"
	"github.com/MKhiriev/go-service-sdk/internal/validators"
	"github.com/MKhiriev/go-service-sdk/models"
	"github.com/MKhiriev/go-service-sdk/sdk"
)

const (
	subjectEventCreated = "demo.events.created"
	subjectHeartbeat    = "demo.heartbeat"

	eventRetention   = 24 * time.Hour
	defaultListLimit = 100
	maxListLimit     = 1000
)

type event struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
}

type createEventRequest struct {
	Kind string `json:"kind" validate:"required,max=64"`
}

type heartbeat struct {
	Service string    `json:"service"`
	At      time.Time `json:"at"`
}

type dbSource interface {
	DB() (*store.DB, error)
}

// eventsAPI stores submitted events and announces them on the broker.
// storage and publisher are nil when the service runs without them.
type eventsAPI struct {
	storage   dbSource
	publisher adapter.Publisher
	created   *adapter.JSONPublisher[event]

	ids      *utils.UUIDGenerator
	validate validators.Validator
	now      func() time.Time

	logger *logger.Logger
}

func newEventsAPI(storage dbSource, publisher adapter.Publisher, logger *logger.Logger) *eventsAPI {
	a := &eventsAPI{
		storage:   storage,
		publisher: publisher,
		ids:       utils.NewUUIDGenerator(),
		validate:  validators.NewStructValidator(),
		now:       time.Now,
		logger:    logger,
	}
	if publisher != nil {
		a.created = adapter.NewJSONPublisher[event](publisher, subjectEventCreated)
	}
	return a
}

func storageOf(svc *sdk.ServiceContext) dbSource {
	if s, ok := svc.Storage(); ok {
		return s
	}
	return nil
}

func publisherOf(svc *sdk.ServiceContext) adapter.Publisher {
	if ps, ok := svc.PubSub(); ok {
		return ps
	}
	return nil
}

func (a *eventsAPI) routes(b *sdk.HTTPServerBuilder) {
	b.RegisterGet("/api/events", models.ActionFunc{
		Handle: a.list,
		Doc: models.Description{
			Summary: "List the most recent events",
			Tags:    []string{"events"},
			Output:  []event{},
		},
	})
	b.RegisterPost("/api/events", models.ActionFunc{
		Handle: a.create,
		Doc: models.Description{
			Summary: "Store an event and announce it",
			Tags:    []string{"events"},
			Input:   createEventRequest{},
			Output:  event{},
		},
	})
}

func (a *eventsAPI) db() (*store.DB, error) {
	if a.storage == nil {
		return nil, models.NewHTTPError(http.StatusServiceUnavailable, "storage is not configured")
	}
	db, err := a.storage.DB()
	if err != nil {
		return nil, models.WrapHTTPError(http.StatusServiceUnavailable, err)
	}
	return db, nil
}

func (a *eventsAPI) list(r *http.Request) (*models.Output, error) {
	limit := uint64(defaultListLimit)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || n == 0 || n > maxListLimit {
			return nil, fmt.Errorf("%w: limit must be between 1 and %d", models.ErrInvalidInput, maxListLimit)
		}
		limit = n
	}

	db, err := a.db()
	if err != nil {
		return nil, err
	}

	rows, err := db.Builder().
		Select("id", "kind", "created_at").
		From("events").
		OrderBy("created_at DESC").
		Limit(limit).
		QueryContext(r.Context())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", store.ErrExecutingQuery, err)
	}
	defer rows.Close()

	events := make([]event, 0)
	for rows.Next() {
		var (
			ev      event
			created int64
		)
		if err = rows.Scan(&ev.ID, &ev.Kind, &created); err != nil {
			return nil, fmt.Errorf("%w: %w", store.ErrExecutingQuery, err)
		}
		ev.CreatedAt = time.UnixMilli(created).UTC()
		events = append(events, ev)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", store.ErrExecutingQuery, err)
	}

	return models.OK(events), nil
}

func (a *eventsAPI) create(r *http.Request) (*models.Output, error) {
	var req createEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrInvalidInput, err)
	}
	if err := a.validate.Validate(r.Context(), req); err != nil {
		return nil, err
	}

	db, err := a.db()
	if err != nil {
		return nil, err
	}

	ev := event{
		ID:        a.ids.Generate(),
		Kind:      req.Kind,
		CreatedAt: a.now().UTC().Truncate(time.Millisecond),
	}

	_, err = db.Builder().
		Insert("events").
		Columns("id", "kind", "created_at").
		Values(ev.ID, ev.Kind, ev.CreatedAt.UnixMilli()).
		ExecContext(r.Context())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", store.ErrExecutingQuery, err)
	}

	if a.created != nil {
		if err = a.created.Publish(r.Context(), ev); err != nil {
			logger.FromRequest(r).Warn().Err(err).Str("id", ev.ID).Msg("event stored but not announced")
		}
	}

	return &models.Output{Status: http.StatusCreated, Body: ev}, nil
}

func (a *eventsAPI) heartbeat(ctx context.Context) error {
	if a.publisher == nil {
		return nil
	}
	payload, err := json.Marshal(heartbeat{Service: "demo-service", At: a.now().UTC()})
	if err != nil {
		return err
	}
	return a.publisher.Publish(ctx, subjectHeartbeat, payload)
}

// purgeExpired deletes events older than the retention period. It is a
// no-op until storage is connected.
func (a *eventsAPI) purgeExpired(ctx context.Context) error {
	if a.storage == nil {
		return nil
	}
	db, err := a.storage.DB()
	if errors.Is(err, store.ErrNotConnected) {
		return nil
	}
	if err != nil {
		return err
	}

	res, err := db.Builder().
		Delete("events").
		Where(sq.Lt{"created_at": a.now().Add(-eventRetention).UnixMilli()}).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", store.ErrExecutingQuery, err)
	}

	if n, err := res.RowsAffected(); err == nil && n > 0 {
		a.logger.Info().Int64("deleted", n).Msg("expired events purged")
	}
	return nil
}

func (a *eventsAPI) onEventCreated(ctx context.Context, msg sdk.Message) error {
	return adapter.JSONHandler(func(ctx context.Context, ev event) error {
		a.logger.Debug().Str("id", ev.ID).Str("kind", ev.Kind).Msg("event announced")
		return nil
	})(ctx, msg)
}
