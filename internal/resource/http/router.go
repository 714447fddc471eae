package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/openlearnco/campus/internal/resource/service"
	"github.com/openlearnco/campus/internal/resource/store"
	"github.com/openlearnco/campus/pkg/httpx"
	"github.com/openlearnco/campus/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	authn          httpx.Authenticator
	internalSecret string
	buildVersion   string
	startTime      time.Time
	logger         *slog.Logger

	store          store.Store
	DatasetService *service.DatasetService
}

func NewRouter(
	authn httpx.Authenticator,
	internalSecret, buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:            http.NewServeMux(),
		authn:          authn,
		internalSecret: internalSecret,
		buildVersion:   buildVersion,
		startTime:      time.Now(),
		store:          st,
		logger:         logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerDatasets()
	r.registerInternal()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerDatasets() {
	h := &DatasetsHandler{DatasetService: r.DatasetService}

	secured := func(fn http.HandlerFunc, limit httpx.RateLimitConfig) http.Handler {
		return httpx.Chain(fn,
			httpx.RequireAuth(r.authn),
			httpx.RateLimitByUser(limit),
		)
	}

	r.Mux.Handle("POST /v1/datasets", secured(h.HandleCreate, httpx.ModerateLimit))
	r.Mux.Handle("GET /v1/datasets", secured(h.HandleList, httpx.LenientLimit))
	r.Mux.Handle("GET /v1/datasets/{id}", secured(h.HandleGet, httpx.LenientLimit))
	r.Mux.Handle("PUT /v1/datasets/{id}", secured(h.HandleUpdate, httpx.ModerateLimit))
	r.Mux.Handle("DELETE /v1/datasets/{id}", secured(h.HandleDelete, httpx.ModerateLimit))
}

func (r *Router) registerInternal() {
	h := &InternalHandler{DatasetService: r.DatasetService}

	// Internal routes authenticate services, not users. No user token is
	// consulted even if one is present.
	r.Mux.Handle("GET /internal/v1/datasets/{id}/content",
		httpx.Chain(http.HandlerFunc(h.HandleContent),
			httpx.RequireInternalSecret(r.internalSecret),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
}
