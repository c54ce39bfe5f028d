package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"evcast/backend/services/scheduling-service/internal/allocator"
	"evcast/backend/services/scheduling-service/internal/costtable"
	"evcast/backend/services/scheduling-service/internal/metrics"
	"evcast/backend/services/scheduling-service/internal/models"
	"evcast/backend/services/scheduling-service/internal/pattern"
	redisstore "evcast/backend/services/scheduling-service/internal/redis"
	"evcast/backend/services/scheduling-service/internal/repository"
	"evcast/backend/services/scheduling-service/internal/ws"
)

const defaultOptimizeAttempts = 3

var (
	// ErrInvalidInput wraps every request validation failure.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidTransition means the booking already reached a different terminal status.
	ErrInvalidTransition = errors.New("invalid status transition")

	ErrDuplicateBooking = repository.ErrDuplicateBooking
	ErrSlotTaken        = repository.ErrSlotTaken
	ErrBookingNotFound  = repository.ErrBookingNotFound
	ErrNoSlotAvailable  = allocator.ErrNoSlotAvailable
	ErrInsufficientData = pattern.ErrInsufficientData
)

// BookingStore persists bookings.
type BookingStore interface {
	Create(ctx context.Context, b *models.Booking) (*models.Booking, error)
	Get(ctx context.Context, id string) (*models.Booking, error)
	UpdateStatus(ctx context.Context, id string, from, to models.Status) (*models.Booking, error)
	HasPending(ctx context.Context, userEmail, vehicleModel, date string, hour int) (bool, error)
	ListByOwner(ctx context.Context, userEmail, vehicleModel string) ([]models.Booking, error)
}

// StationStore answers per-station slot queries.
type StationStore interface {
	Bookings(ctx context.Context, location, date string, hour int) ([]models.Booking, error)
	IsSlotFree(ctx context.Context, location, date string, hour int) (bool, error)
}

// HistoryStore reads charging history.
type HistoryStore interface {
	ListSessions(ctx context.Context, userEmail, vehicleModel string) ([]models.ChargingSession, error)
}

// CostSource builds a fresh cost table per call.
type CostSource interface {
	Load() (*costtable.Table, error)
}

// SlotHolder reserves a slot across instances while its booking is written.
type SlotHolder interface {
	Acquire(ctx context.Context, slot models.Slot) (func(context.Context) error, error)
}

// EventPublisher pushes booking lifecycle events to connected clients.
type EventPublisher interface {
	Publish(eventType string, booking models.Booking)
}

// Option customises SchedulingService.
type Option func(*SchedulingService)

// WithSlotHolder enables redis slot holds around booking writes.
func WithSlotHolder(h SlotHolder) Option {
	return func(s *SchedulingService) { s.holds = h }
}

// WithEvents enables booking event push.
func WithEvents(p EventPublisher) Option {
	return func(s *SchedulingService) { s.events = p }
}

// WithMetrics enables Prometheus counters.
func WithMetrics(r *metrics.Recorder) Option {
	return func(s *SchedulingService) { s.metrics = r }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *SchedulingService) { s.now = now }
}

// WithLocation sets the time zone used to read history hours and pick target dates.
func WithLocation(loc *time.Location) Option {
	return func(s *SchedulingService) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithOptimizeAttempts bounds re-allocation after lost slot races.
func WithOptimizeAttempts(n int) Option {
	return func(s *SchedulingService) {
		if n > 0 {
			s.attempts = n
		}
	}
}

// SchedulingService implements booking and optimization use cases.
type SchedulingService struct {
	bookings BookingStore
	stations StationStore
	history  HistoryStore
	costs    CostSource
	holds    SlotHolder
	events   EventPublisher
	metrics  *metrics.Recorder
	logger   *zap.Logger
	now      func() time.Time
	loc      *time.Location
	attempts int
}

// NewSchedulingService builds service.
func NewSchedulingService(
	bookings BookingStore,
	stations StationStore,
	history HistoryStore,
	costs CostSource,
	logger *zap.Logger,
	opts ...Option,
) *SchedulingService {
	s := &SchedulingService{
		bookings: bookings,
		stations: stations,
		history:  history,
		costs:    costs,
		logger:   logger,
		now:      time.Now,
		loc:      time.UTC,
		attempts: defaultOptimizeAttempts,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ScheduleInput describes a manual booking.
type ScheduleInput struct {
	UserEmail    string
	VehicleModel string
	Date         string
	Hour         int
	Location     string
}

func (in *ScheduleInput) normalize() error {
	in.UserEmail = strings.ToLower(strings.TrimSpace(in.UserEmail))
	in.VehicleModel = strings.TrimSpace(in.VehicleModel)
	in.Location = strings.TrimSpace(in.Location)
	in.Date = strings.TrimSpace(in.Date)

	switch {
	case in.UserEmail == "":
		return fmt.Errorf("%w: user email is required", ErrInvalidInput)
	case in.VehicleModel == "":
		return fmt.Errorf("%w: vehicle_model is required", ErrInvalidInput)
	case in.Location == "":
		return fmt.Errorf("%w: location is required", ErrInvalidInput)
	case in.Hour < 0 || in.Hour > 23:
		return fmt.Errorf("%w: hour must be between 0 and 23", ErrInvalidInput)
	}
	if _, err := models.ParseDate(in.Date); err != nil {
		return fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}
	return nil
}

// Schedule books (location, date, hour) for the user's vehicle.
func (s *SchedulingService) Schedule(ctx context.Context, in ScheduleInput) (*models.Booking, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}

	pending, err := s.bookings.HasPending(ctx, in.UserEmail, in.VehicleModel, in.Date, in.Hour)
	if err != nil {
		s.metrics.Booking(metrics.OutcomeError)
		return nil, fmt.Errorf("check pending booking: %w", err)
	}
	if pending {
		s.metrics.Booking(metrics.OutcomeDuplicate)
		return nil, ErrDuplicateBooking
	}

	slot := models.Slot{Location: in.Location, Date: in.Date, Hour: in.Hour}
	release, err := s.hold(ctx, slot)
	if err != nil {
		s.metrics.Booking(metrics.OutcomeSlotTaken)
		return nil, err
	}
	defer release()

	booking, err := s.bookings.Create(ctx, &models.Booking{
		UserEmail:    in.UserEmail,
		VehicleModel: in.VehicleModel,
		Date:         in.Date,
		Hour:         in.Hour,
		Location:     in.Location,
		Status:       models.StatusScheduled,
	})
	switch {
	case errors.Is(err, ErrDuplicateBooking):
		s.metrics.Booking(metrics.OutcomeDuplicate)
		return nil, err
	case errors.Is(err, ErrSlotTaken):
		s.metrics.Booking(metrics.OutcomeSlotTaken)
		return nil, err
	case err != nil:
		s.metrics.Booking(metrics.OutcomeError)
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.metrics.Booking(metrics.OutcomeCreated)
	s.publish(ws.EventBookingCreated, *booking)
	s.logger.Info("booking scheduled",
		zap.String("id", booking.ID),
		zap.String("email", booking.UserEmail),
		zap.String("slot", slot.Key()),
	)
	return booking, nil
}

// hold takes the optional redis slot hold. Redis failures degrade to no hold since
// the database index still guards the slot.
func (s *SchedulingService) hold(ctx context.Context, slot models.Slot) (func(), error) {
	noop := func() {}
	if s.holds == nil {
		return noop, nil
	}
	release, err := s.holds.Acquire(ctx, slot)
	if errors.Is(err, redisstore.ErrSlotHeld) {
		return noop, ErrSlotTaken
	}
	if err != nil {
		s.logger.Warn("slot hold unavailable", zap.String("slot", slot.Key()), zap.Error(err))
		return noop, nil
	}
	return func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()
		if err := release(ctx); err != nil {
			s.logger.Warn("failed to release slot hold", zap.String("slot", slot.Key()), zap.Error(err))
		}
	}, nil
}

// Confirm moves a pending booking to "confirmat".
func (s *SchedulingService) Confirm(ctx context.Context, userEmail, id string) (*models.Booking, error) {
	return s.transition(ctx, userEmail, id, models.StatusConfirmed)
}

// Cancel moves a pending booking to "anulata". Cancelling a cancelled booking is a no-op.
func (s *SchedulingService) Cancel(ctx context.Context, userEmail, id string) (*models.Booking, error) {
	return s.transition(ctx, userEmail, id, models.StatusCancelled)
}

func (s *SchedulingService) transition(ctx context.Context, userEmail, id string, to models.Status) (*models.Booking, error) {
	userEmail = strings.ToLower(strings.TrimSpace(userEmail))
	booking, err := s.bookings.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.UserEmail != userEmail {
		return nil, ErrBookingNotFound
	}
	if booking.Status == to {
		return booking, nil
	}
	if booking.Status != models.StatusScheduled {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, to)
	}

	updated, err := s.bookings.UpdateStatus(ctx, id, models.StatusScheduled, to)
	if errors.Is(err, repository.ErrStatusChanged) {
		current, getErr := s.bookings.Get(ctx, id)
		if getErr != nil {
			return nil, getErr
		}
		if current.Status == to {
			return current, nil
		}
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, to)
	}
	if err != nil {
		return nil, fmt.Errorf("update booking status: %w", err)
	}

	s.metrics.Transition(string(to))
	eventType := ws.EventBookingConfirmed
	if to == models.StatusCancelled {
		eventType = ws.EventBookingCancelled
	}
	s.publish(eventType, *updated)
	s.logger.Info("booking status changed",
		zap.String("id", updated.ID),
		zap.String("status", string(updated.Status)),
	)
	return updated, nil
}

// IsSlotFree reports whether no live booking occupies the slot.
func (s *SchedulingService) IsSlotFree(ctx context.Context, location, date string, hour int) (bool, error) {
	if err := validateSlot(location, date, hour); err != nil {
		return false, err
	}
	return s.stations.IsSlotFree(ctx, location, date, hour)
}

// StationView is the per-station listing of a slot.
type StationView struct {
	Slot     models.Slot      `json:"slot"`
	TimeSlot string           `json:"time_slot"`
	Free     bool             `json:"free"`
	Bookings []models.Booking `json:"bookings"`
}

// StationBookings lists the bookings recorded at a slot along with its availability.
func (s *SchedulingService) StationBookings(ctx context.Context, location, date string, hour int) (*StationView, error) {
	if err := validateSlot(location, date, hour); err != nil {
		return nil, err
	}
	bookings, err := s.stations.Bookings(ctx, location, date, hour)
	if err != nil {
		return nil, err
	}
	free := true
	for _, b := range bookings {
		if b.Status.Active() {
			free = false
			break
		}
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	return &StationView{
		Slot:     models.Slot{Location: location, Date: date, Hour: hour},
		TimeSlot: models.FormatTimeSlot(hour),
		Free:     free,
		Bookings: bookings,
	}, nil
}

func validateSlot(location, date string, hour int) error {
	if strings.TrimSpace(location) == "" {
		return fmt.Errorf("%w: location is required", ErrInvalidInput)
	}
	if _, err := models.ParseDate(date); err != nil {
		return fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}
	if hour < 0 || hour > 23 {
		return fmt.Errorf("%w: hour must be between 0 and 23", ErrInvalidInput)
	}
	return nil
}

// ListBookings returns the user's bookings, optionally for one vehicle model.
func (s *SchedulingService) ListBookings(ctx context.Context, userEmail, vehicleModel string) ([]models.Booking, error) {
	userEmail = strings.ToLower(strings.TrimSpace(userEmail))
	if userEmail == "" {
		return nil, fmt.Errorf("%w: user email is required", ErrInvalidInput)
	}
	return s.bookings.ListByOwner(ctx, userEmail, strings.TrimSpace(vehicleModel))
}

// Pattern analyses the user's charging history for one vehicle.
func (s *SchedulingService) Pattern(ctx context.Context, userEmail, vehicleModel string) (pattern.Pattern, error) {
	userEmail, vehicleModel, err := ownerKey(userEmail, vehicleModel)
	if err != nil {
		return pattern.Pattern{}, err
	}
	sessions, err := s.history.ListSessions(ctx, userEmail, vehicleModel)
	if err != nil {
		return pattern.Pattern{}, fmt.Errorf("load history: %w", err)
	}
	return pattern.Analyze(sessions, s.loc)
}

// Costs returns the freshly computed cost table, cheapest first.
func (s *SchedulingService) Costs() ([]costtable.Entry, error) {
	table, err := s.costs.Load()
	if err != nil {
		return nil, err
	}
	return table.Ranked(), nil
}

// OptimizeResult is the outcome of an optimization run.
type OptimizeResult struct {
	Booking    *models.Booking  `json:"booking"`
	Pattern    pattern.Pattern  `json:"pattern"`
	Allocation allocator.Result `json:"allocation"`
	Attempts   int              `json:"attempts"`
}

// Optimize analyses history, picks the cheapest free slot starting at the optimal hour
// and books it. Slots lost to concurrent writers are excluded and the scan repeated.
func (s *SchedulingService) Optimize(ctx context.Context, userEmail, vehicleModel string) (*OptimizeResult, error) {
	userEmail, vehicleModel, err := ownerKey(userEmail, vehicleModel)
	if err != nil {
		return nil, err
	}

	var (
		sessions []models.ChargingSession
		owned    []models.Booking
		table    *costtable.Table
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sessions, err = s.history.ListSessions(gctx, userEmail, vehicleModel)
		if err != nil {
			return fmt.Errorf("load history: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		owned, err = s.bookings.ListByOwner(gctx, userEmail, "")
		if err != nil {
			return fmt.Errorf("load bookings: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		table, err = s.costs.Load()
		if err != nil {
			return fmt.Errorf("load cost table: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		s.metrics.Optimize("error")
		return nil, err
	}

	p, err := pattern.Analyze(sessions, s.loc)
	if err != nil {
		s.metrics.Optimize("insufficient_data")
		return nil, err
	}

	req := allocator.Request{
		OptimalHour:  p.OptimalHour,
		Date:         allocator.TargetDate(s.now().In(s.loc), p.OptimalHour),
		UserBookings: owned,
	}

	for attempt := 1; attempt <= s.attempts; attempt++ {
		started := time.Now()
		res, err := allocator.Allocate(ctx, req, table, s.stations)
		s.metrics.Allocation(time.Since(started).Seconds())
		if errors.Is(err, allocator.ErrNoSlotAvailable) {
			s.metrics.Optimize("no_slot")
			return nil, err
		}
		if err != nil {
			s.metrics.Optimize("error")
			return nil, err
		}

		booking, err := s.Schedule(ctx, ScheduleInput{
			UserEmail:    userEmail,
			VehicleModel: vehicleModel,
			Date:         res.Date,
			Hour:         res.Hour,
			Location:     res.Location,
		})
		if errors.Is(err, ErrSlotTaken) {
			s.logger.Info("slot lost to concurrent booking, retrying",
				zap.String("location", res.Location),
				zap.Int("hour", res.Hour),
				zap.Int("attempt", attempt),
			)
			req.Exclude = append(req.Exclude, models.Slot{Location: res.Location, Date: res.Date, Hour: res.Hour})
			continue
		}
		if err != nil {
			s.metrics.Optimize("error")
			return nil, err
		}

		s.metrics.Optimize("ok")
		return &OptimizeResult{Booking: booking, Pattern: p, Allocation: res, Attempts: attempt}, nil
	}

	s.metrics.Optimize("slot_taken")
	return nil, ErrSlotTaken
}

func ownerKey(userEmail, vehicleModel string) (string, string, error) {
	userEmail = strings.ToLower(strings.TrimSpace(userEmail))
	vehicleModel = strings.TrimSpace(vehicleModel)
	if userEmail == "" {
		return "", "", fmt.Errorf("%w: user email is required", ErrInvalidInput)
	}
	if vehicleModel == "" {
		return "", "", fmt.Errorf("%w: vehicle_model is required", ErrInvalidInput)
	}
	return userEmail, vehicleModel, nil
}

func (s *SchedulingService) publish(eventType string, booking models.Booking) {
	if s.events == nil {
		return
	}
	s.events.Publish(eventType, booking)
}
