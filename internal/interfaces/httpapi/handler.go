package httpapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/tournament-admin/internal/platform/logging"
	"github.com/riskibarqy/tournament-admin/internal/usecase"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const maxRequestBodyBytes = 1 << 20

type Handler struct {
	teamService       *usecase.TeamService
	scheduleService   *usecase.ScheduleService
	matchService      *usecase.MatchService
	statisticsService *usecase.StatisticsService
	location          *time.Location
	logger            *logging.Logger
	validator         *validator.Validate
}

// NewHandler builds the HTTP handler. location is used to render match dates and times.
func NewHandler(
	teamService *usecase.TeamService,
	scheduleService *usecase.ScheduleService,
	matchService *usecase.MatchService,
	statisticsService *usecase.StatisticsService,
	location *time.Location,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if location == nil {
		location = time.UTC
	}

	return &Handler{
		teamService:       teamService,
		scheduleService:   scheduleService,
		matchService:      matchService,
		statisticsService: statisticsService,
		location:          location,
		logger:            logger,
		validator:         validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r.Context(), "Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// decodeRequest reads a JSON body into dst and validates it. An empty body is
// accepted when allowEmpty is set, leaving dst at its zero value.
func (h *Handler) decodeRequest(ctx context.Context, r *http.Request, dst any, allowEmpty bool) error {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: read request body: %v", usecase.ErrInvalidInput, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 && allowEmpty {
		return h.validateRequest(ctx, dst)
	}

	decoder := sonic.ConfigDefault.NewDecoder(bytes.NewReader(raw))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON payload", usecase.ErrInvalidInput)
	}

	return h.validateRequest(ctx, dst)
}

// fail logs err at a level matching its class, marks the span and writes the
// error response.
func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error, kv ...any) {
	kv = append(kv, "error", err)
	if isClientError(err) {
		h.logger.WarnContext(ctx, msg, kv...)
	} else {
		span := trace.SpanFromContext(ctx)
		span.RecordError(err)
		span.SetStatus(codes.Error, msg)
		h.logger.ErrorContext(ctx, msg, kv...)
	}
	writeError(ctx, w, err)
}

func queryInt(r *http.Request, key string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: query parameter %s must be an integer", usecase.ErrInvalidInput, key)
	}
	return v, nil
}
