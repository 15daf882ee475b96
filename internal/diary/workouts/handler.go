package workouts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/liftingdiary/internal/auth"
	"github.com/2beens/liftingdiary/internal/diary/daywindow"
	"github.com/2beens/liftingdiary/internal/telemetry/metrics"
	"github.com/2beens/liftingdiary/internal/telemetry/tracing"
	"github.com/2beens/liftingdiary/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=workouts_test

type workoutsService interface {
	ListForDate(ctx context.Context, ownerUserID string, date daywindow.Date) ([]Workout, error)
	GetByID(ctx context.Context, ownerUserID string, workoutID int) (*Workout, error)
	Location() *time.Location
}

type ListResponse struct {
	Date     daywindow.Date `json:"date"`
	Timezone string         `json:"timezone"`
	Workouts []Workout      `json:"workouts"`
}

type Handler struct {
	service        workoutsService
	metricsManager *metrics.Manager
	queryTimeout   time.Duration
	// injectable clock, used to resolve "today"
	Now func() time.Time
}

func NewHandler(
	service workoutsService,
	metricsManager *metrics.Manager,
	queryTimeout time.Duration,
) *Handler {
	return &Handler{
		service:        service,
		metricsManager: metricsManager,
		queryTimeout:   queryTimeout,
		Now:            time.Now,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/workouts", handler.HandleList).Methods("GET", "OPTIONS").Name("list-workouts")
	router.HandleFunc("/workouts/{id}", handler.HandleGet).Methods("GET", "OPTIONS").Name("get-workout")
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.list")
	defer span.End()

	loc := handler.service.Location()
	date := daywindow.Today(handler.Now(), loc)
	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		parsed, err := daywindow.ParseDate(dateStr)
		if err != nil {
			log.Debugf("list workouts: %s", err)
			http.Error(w, "invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		date = parsed
	}

	ctx, cancel := handler.withTimeout(ctx)
	defer cancel()

	ownerUserID, _ := auth.UserIDFromContext(ctx)
	workouts, err := handler.service.ListForDate(ctx, ownerUserID, date)
	if err != nil {
		handler.writeError(w, "list workouts", err)
		return
	}

	if handler.metricsManager != nil {
		handler.metricsManager.CounterWorkoutsServed.Add(float64(len(workouts)))
	}

	respJson, err := json.Marshal(ListResponse{
		Date:     date,
		Timezone: loc.String(),
		Workouts: workouts,
	})
	if err != nil {
		log.Errorf("failed to marshal workouts: %s", err)
		http.Error(w, "failed to marshal workouts", http.StatusInternalServerError)
		return
	}
	pkg.WritePrivateJSONOK(w, respJson)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.get")
	defer span.End()

	vars := mux.Vars(r)
	idStr := vars["id"]
	if idStr == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return
	}

	ctx, cancel := handler.withTimeout(ctx)
	defer cancel()

	ownerUserID, _ := auth.UserIDFromContext(ctx)
	workout, err := handler.service.GetByID(ctx, ownerUserID, id)
	if err != nil {
		handler.writeError(w, "get workout", err)
		return
	}

	if handler.metricsManager != nil {
		handler.metricsManager.CounterWorkoutsServed.Inc()
	}

	workoutJson, err := json.Marshal(workout)
	if err != nil {
		log.Errorf("failed to marshal workout: %s", err)
		http.Error(w, "failed to marshal workout", http.StatusInternalServerError)
		return
	}
	pkg.WritePrivateJSONOK(w, workoutJson)
}

func (handler *Handler) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if handler.queryTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, handler.queryTimeout)
}

// writeError maps service errors onto status codes. Foreign and missing
// workouts are logged the same way.
func (handler *Handler) writeError(w http.ResponseWriter, op string, err error) {
	status := StatusFromError(err)
	switch status {
	case http.StatusUnauthorized:
		log.Tracef("%s: unauthenticated", op)
		http.Error(w, "no can do", status)
	case http.StatusBadRequest:
		log.Debugf("%s: %s", op, err)
		http.Error(w, "invalid request", status)
	case http.StatusNotFound:
		log.Debugf("%s: not found", op)
		http.Error(w, "workout not found", status)
	case http.StatusServiceUnavailable:
		log.Errorf("%s: %s", op, err)
		http.Error(w, "workout store unavailable", status)
	default:
		log.Errorf("%s: %s", op, err)
		http.Error(w, "internal error", status)
	}
}

// StatusFromError returns the HTTP status for an error produced by Service.
func StatusFromError(err error) int {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, daywindow.ErrInvalidDate):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrStoreUnavailable),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
