package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/polkaforge/polkaforge/backend/internal/analysis/intent"
	"github.com/polkaforge/polkaforge/backend/internal/handler/chat"
	"github.com/polkaforge/polkaforge/backend/internal/handler/dashboard"
	"github.com/polkaforge/polkaforge/backend/internal/handler/explorer"
	"github.com/polkaforge/polkaforge/backend/internal/handler/jobs"
	"github.com/polkaforge/polkaforge/backend/internal/handler/quickaction"
	"github.com/polkaforge/polkaforge/backend/internal/handler/repos"
	"github.com/polkaforge/polkaforge/backend/internal/handler/stream"
	"github.com/polkaforge/polkaforge/backend/internal/handler/wallet"
	"github.com/polkaforge/polkaforge/backend/internal/handler/ws"
	"github.com/polkaforge/polkaforge/backend/internal/logger"
	"github.com/polkaforge/polkaforge/backend/internal/metrics"
	middlewarePkg "github.com/polkaforge/polkaforge/backend/internal/middleware"
	docModel "github.com/polkaforge/polkaforge/backend/internal/model/doc"
	quickactionModel "github.com/polkaforge/polkaforge/backend/internal/model/quickaction"
	chatService "github.com/polkaforge/polkaforge/backend/internal/service/chat"
	dashboardService "github.com/polkaforge/polkaforge/backend/internal/service/dashboard"
	jobService "github.com/polkaforge/polkaforge/backend/internal/service/jobs"
	"github.com/polkaforge/polkaforge/backend/internal/service/upload"
	walletService "github.com/polkaforge/polkaforge/backend/internal/service/wallet"
	"github.com/polkaforge/polkaforge/backend/pkg/utils"
)

// Dependencies are the services the HTTP layer is wired to.
type Dependencies struct {
	Chat           *chatService.Service
	Dispatcher     *intent.Dispatcher
	QuickActions   quickactionModel.Store
	Wallet         *walletService.Service
	Jobs           *jobService.Service
	Uploads        *upload.Service
	Docs           docModel.Store
	Dashboard      *dashboardService.Service
	Metrics        *metrics.Metrics
	Logger         zerolog.Logger
	AllowedOrigins []string
}

// NewRouter wires HTTP routes to core services.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logger.RequestLogger(deps.Logger))
	r.Use(middleware.Recoverer)
	r.Use(deps.Metrics.Middleware)
	r.Use(middlewarePkg.CORS(deps.AllowedOrigins))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	r.Route("/api", func(api chi.Router) {
		chat.New(deps.Chat).RegisterRoutes(api)
		stream.New(deps.Chat, logger.Component(deps.Logger, "stream")).RegisterRoutes(api)
		ws.New(deps.Chat, logger.Component(deps.Logger, "websocket")).RegisterRoutes(api)
		quickaction.New(deps.QuickActions, deps.Dispatcher).RegisterRoutes(api)

		if deps.Wallet != nil {
			wallet.New(deps.Wallet).RegisterRoutes(api)
		}
		if deps.Jobs != nil {
			jobs.New(deps.Jobs).RegisterRoutes(api)
		}
		if deps.Uploads != nil {
			repos.New(deps.Uploads).RegisterRoutes(api)
		}
		if deps.Docs != nil {
			explorer.New(deps.Docs).RegisterRoutes(api)
		}
		if deps.Dashboard != nil {
			dashboard.New(deps.Dashboard).RegisterRoutes(api)
		}
	})

	return r
}
