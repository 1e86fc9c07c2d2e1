package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/inboxatlas/inboxatlas/pkg/observability"
)

// observe emits HTTP hooks around each request.
func observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		reqID := middleware.GetReqID(ctx)

		observability.HTTP().OnRequest(ctx, r.Method, r.URL.Path, reqID)
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		observability.HTTP().OnResponse(ctx, r.Method, r.URL.Path, reqID, ww.Status(), time.Since(start))
	})
}
