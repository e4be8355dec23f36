package server

import (
	nethttp "net/http"

	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/http"
	"golang.org/x/time/rate"

	"github.com/dtnitsch/learnmap/models"
)

const (
	allowMethods = "GET, POST, PUT, DELETE, OPTIONS"
	allowHeaders = "Content-Type, Authorization, Accept"
	maxAge       = "600"
)

// NewHTTPServer builds the API server. Routes live under /api.
func NewHTTPServer(c models.ServerConfig, h *Handler) *http.Server {
	var opts = []http.ServerOption{
		http.Middleware(
			recovery.Recovery(),
		),
		http.Filter(corsFilter(c.FrontendURL)),
	}
	if c.Addr != "" {
		opts = append(opts, http.Address(c.Addr))
	}
	if c.Timeout > 0 {
		opts = append(opts, http.Timeout(c.Timeout))
	}

	srv := http.NewServer(opts...)

	r := srv.Route("/api")
	r.GET("/health", h.Health)
	r.POST("/analyze", h.Analyze)
	r.POST("/generate-pdf", h.GeneratePDF)
	r.GET("/analyses", h.ListAnalyses)
	r.GET("/analyses/{id}", h.GetAnalysis)
	r.GET("/analyses/{id}/pdf", h.AnalysisPDF)

	return srv
}

// NewLimiter returns the /api/analyze throttle, or nil when rpm <= 0.
func NewLimiter(c models.ConcurrencyConfig) *rate.Limiter {
	if c.RPM <= 0 {
		return nil
	}
	burst := c.QPS
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(float64(c.RPM)/60.0), burst)
}

// corsFilter applies the cross-origin policy to every response and answers
// preflight requests before routing.
func corsFilter(frontendURL string) http.FilterFunc {
	origin := frontendURL
	if origin == "" {
		origin = "*"
	}

	return func(next nethttp.Handler) nethttp.Handler {
		return nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
			header := w.Header()
			header.Set("Access-Control-Allow-Origin", origin)
			header.Set("Access-Control-Allow-Methods", allowMethods)
			header.Set("Access-Control-Allow-Headers", allowHeaders)
			if origin != "*" {
				header.Add("Vary", "Origin")
			}

			if r.Method == nethttp.MethodOptions {
				header.Set("Access-Control-Max-Age", maxAge)
				w.WriteHeader(nethttp.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
