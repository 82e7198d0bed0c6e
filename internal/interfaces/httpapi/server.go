package httpapi

import (
	"net/http"

	"github.com/riskibarqy/tournament-admin/internal/platform/logging"
)

type RouterConfig struct {
	SwaggerEnabled     bool
	CORSAllowedOrigins []string
	// AdminToken guards every write route; empty leaves them open.
	AdminToken string
}

func NewRouter(handler *Handler, cfg RouterConfig, logger *logging.Logger) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler, cfg.SwaggerEnabled)
	registerReadRoutes(mux, handler)
	registerAdminRoutes(mux, handler, AdminToken(cfg.AdminToken))

	return chain(mux,
		Tracing(),
		AccessLog(logger),
		CORS(cfg.CORSAllowedOrigins),
		Recover(logger),
	)
}
