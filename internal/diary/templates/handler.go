package templates

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/liftingdiary/internal/auth"
	"github.com/2beens/liftingdiary/internal/diary/workouts"
	"github.com/2beens/liftingdiary/internal/telemetry/tracing"
	"github.com/2beens/liftingdiary/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=templates_test

type templatesService interface {
	List(ctx context.Context, ownerUserID string) ([]Template, error)
	Get(ctx context.Context, ownerUserID string, templateID int) (*Template, error)
}

type Handler struct {
	service      templatesService
	queryTimeout time.Duration
}

func NewHandler(service templatesService, queryTimeout time.Duration) *Handler {
	return &Handler{
		service:      service,
		queryTimeout: queryTimeout,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/templates", handler.HandleList).Methods("GET", "OPTIONS").Name("list-templates")
	router.HandleFunc("/templates/{id}", handler.HandleGet).Methods("GET", "OPTIONS").Name("get-template")
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.templates.list")
	defer span.End()

	ctx, cancel := handler.withTimeout(ctx)
	defer cancel()

	ownerUserID, _ := auth.UserIDFromContext(ctx)
	templates, err := handler.service.List(ctx, ownerUserID)
	if err != nil {
		writeError(w, "list templates", err)
		return
	}

	templatesJson, err := json.Marshal(templates)
	if err != nil {
		log.Errorf("failed to marshal templates: %s", err)
		http.Error(w, "failed to marshal templates", http.StatusInternalServerError)
		return
	}
	pkg.WritePrivateJSONOK(w, templatesJson)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.templates.get")
	defer span.End()

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return
	}

	ctx, cancel := handler.withTimeout(ctx)
	defer cancel()

	ownerUserID, _ := auth.UserIDFromContext(ctx)
	template, err := handler.service.Get(ctx, ownerUserID, id)
	if err != nil {
		writeError(w, "get template", err)
		return
	}

	templateJson, err := json.Marshal(template)
	if err != nil {
		log.Errorf("failed to marshal template: %s", err)
		http.Error(w, "failed to marshal template", http.StatusInternalServerError)
		return
	}
	pkg.WritePrivateJSONOK(w, templateJson)
}

func (handler *Handler) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if handler.queryTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, handler.queryTimeout)
}

func writeError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, ErrNotFound) {
		log.Debugf("%s: not found", op)
		http.Error(w, "template not found", http.StatusNotFound)
		return
	}

	status := workouts.StatusFromError(err)
	if status >= http.StatusInternalServerError {
		log.Errorf("%s: %s", op, err)
	}
	http.Error(w, http.StatusText(status), status)
}
