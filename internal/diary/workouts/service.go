package workouts

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/2beens/liftingdiary/internal/diary/daywindow"
	"github.com/2beens/liftingdiary/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=workouts_test

type workoutsRepo interface {
	ListInWindow(ctx context.Context, ownerUserID string, window daywindow.Window) (*Snapshot, error)
	GetByID(ctx context.Context, ownerUserID string, workoutID int) (*Snapshot, error)
}

// Service answers workout reads for one caller at a time. Calendar dates are
// interpreted in a single target zone fixed at construction.
type Service struct {
	repo workoutsRepo
	loc  *time.Location
}

func NewService(repo workoutsRepo, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		repo: repo,
		loc:  loc,
	}
}

func (s *Service) Location() *time.Location {
	return s.loc
}

// ListForDate returns the owner's workouts whose instant falls on date in the
// target zone, newest first.
func (s *Service) ListForDate(ctx context.Context, ownerUserID string, date daywindow.Date) (_ []Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.listForDate")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	if strings.TrimSpace(ownerUserID) == "" {
		return nil, ErrUnauthenticated
	}
	if !date.Valid() {
		return nil, fmt.Errorf("%w: %s", daywindow.ErrInvalidDate, date)
	}

	window := daywindow.Compute(date, s.loc)
	span.SetAttributes(attribute.String("date", date.String()))

	snap, err := s.repo.ListInWindow(ctx, ownerUserID, window)
	if err != nil {
		return nil, fmt.Errorf("list workouts for %s: %w", date, err)
	}

	return assemble(snap), nil
}

// GetByID returns one workout of the owner. Missing and foreign workouts both
// yield ErrNotFound.
func (s *Service) GetByID(ctx context.Context, ownerUserID string, workoutID int) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.getById")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	if strings.TrimSpace(ownerUserID) == "" {
		return nil, ErrUnauthenticated
	}
	if workoutID <= 0 {
		return nil, ErrNotFound
	}

	snap, err := s.repo.GetByID(ctx, ownerUserID, workoutID)
	if err != nil {
		return nil, fmt.Errorf("get workout %d: %w", workoutID, err)
	}

	workouts := assemble(snap)
	if len(workouts) == 0 {
		return nil, ErrNotFound
	}
	return &workouts[0], nil
}
