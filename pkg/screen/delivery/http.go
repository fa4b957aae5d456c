package delivery

import (
	"net/http"
	"runtime/debug"

	"github.com/KeynihAV/aladdin/pkg/metrics"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type HealthHandler struct{}

func (hh *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// NewRouter serves metrics and health checks. Every other path goes to the
// default mux, where the Telegram webhook listener registers itself.
func NewRouter(logger *zap.Logger) *mux.Router {
	router := mux.NewRouter()
	router.Use(recovery(logger))
	router.Use(metrics.TimeTrackingMiddleware)

	hh := &HealthHandler{}
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	router.HandleFunc("/health", hh.Health).Methods("GET")
	router.PathPrefix("/").Handler(http.DefaultServeMux)
	return router
}

func recovery(logger *zap.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic in http handler",
						zap.Any("panic", err),
						zap.String("path", r.URL.Path),
						zap.ByteString("stack", debug.Stack()),
					)
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
