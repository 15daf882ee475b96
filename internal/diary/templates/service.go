package templates

import (
	"context"
	"fmt"
	"strings"

	"github.com/2beens/liftingdiary/internal/diary/workouts"
	"github.com/2beens/liftingdiary/internal/telemetry/tracing"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=templates_test

type templatesRepo interface {
	List(ctx context.Context, ownerUserID string) (*Snapshot, error)
	Get(ctx context.Context, ownerUserID string, templateID int) (*Snapshot, error)
}

type Template struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	IsPublic    bool       `json:"isPublic"`
	UsageCount  int        `json:"usageCount"`
	Exercises   []Exercise `json:"exercises"`
}

type Exercise struct {
	ID            int     `json:"id"`
	ExerciseID    int     `json:"exerciseId"`
	ExerciseName  string  `json:"exerciseName"`
	Order         int     `json:"order"`
	TargetSets    *int    `json:"targetSets"`
	TargetRepsMin *int    `json:"targetRepsMin"`
	TargetRepsMax *int    `json:"targetRepsMax"`
	Notes         *string `json:"notes"`
}

type Service struct {
	repo templatesRepo
}

func NewService(repo templatesRepo) *Service {
	return &Service{
		repo: repo,
	}
}

func (s *Service) List(ctx context.Context, ownerUserID string) (_ []Template, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.templates.list")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	if strings.TrimSpace(ownerUserID) == "" {
		return nil, workouts.ErrUnauthenticated
	}

	snap, err := s.repo.List(ctx, ownerUserID)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	return assemble(snap), nil
}

func (s *Service) Get(ctx context.Context, ownerUserID string, templateID int) (_ *Template, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.templates.get")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	if strings.TrimSpace(ownerUserID) == "" {
		return nil, workouts.ErrUnauthenticated
	}
	if templateID <= 0 {
		return nil, ErrNotFound
	}

	snap, err := s.repo.Get(ctx, ownerUserID, templateID)
	if err != nil {
		return nil, fmt.Errorf("get template %d: %w", templateID, err)
	}

	templates := assemble(snap)
	if len(templates) == 0 {
		return nil, ErrNotFound
	}
	return &templates[0], nil
}

func assemble(snap *Snapshot) []Template {
	templates := make([]Template, 0)
	if snap == nil {
		return templates
	}

	exercisesByTemplate := make(map[int][]Exercise, len(snap.Templates))
	for _, e := range snap.Exercises {
		exercisesByTemplate[e.TemplateID] = append(exercisesByTemplate[e.TemplateID], Exercise{
			ID:            e.ID,
			ExerciseID:    e.ExerciseCatalogID,
			ExerciseName:  e.ExerciseName,
			Order:         e.Order,
			TargetSets:    e.TargetSets,
			TargetRepsMin: e.TargetRepsMin,
			TargetRepsMax: e.TargetRepsMax,
			Notes:         e.Notes,
		})
	}

	for _, t := range snap.Templates {
		exercises := exercisesByTemplate[t.ID]
		if exercises == nil {
			exercises = []Exercise{}
		}
		templates = append(templates, Template{
			ID:          t.ID,
			Name:        t.Name,
			Description: t.Description,
			IsPublic:    t.IsPublic,
			UsageCount:  t.UsageCount,
			Exercises:   exercises,
		})
	}
	return templates
}
