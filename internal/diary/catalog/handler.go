package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/2beens/liftingdiary/internal/diary/schema"
	"github.com/2beens/liftingdiary/internal/telemetry/tracing"
	"github.com/2beens/liftingdiary/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=catalog_test

type catalogService interface {
	List(ctx context.Context) ([]schema.ExerciseCatalogEntry, error)
}

type Handler struct {
	service      catalogService
	queryTimeout time.Duration
}

func NewHandler(service catalogService, queryTimeout time.Duration) *Handler {
	return &Handler{
		service:      service,
		queryTimeout: queryTimeout,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/exercises", handler.HandleList).Methods("GET", "OPTIONS").Name("list-exercises")
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.catalog.list")
	defer span.End()

	if handler.queryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, handler.queryTimeout)
		defer cancel()
	}

	entries, err := handler.service.List(ctx)
	if err != nil {
		log.Errorf("list exercises: %s", err)
		if errors.Is(err, ErrStoreUnavailable) || errors.Is(err, context.DeadlineExceeded) {
			http.Error(w, "exercise catalog unavailable", http.StatusServiceUnavailable)
			return
		}
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	entriesJson, err := json.Marshal(entries)
	if err != nil {
		log.Errorf("failed to marshal exercises: %s", err)
		http.Error(w, "failed to marshal exercises", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, entriesJson)
}
