// Package graphql serves the storefront's GraphQL-shaped JSON API: a POST-only
// endpoint whose root fields are dispatched to the catalog and order services.
package graphql

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

type Handler struct {
	exec *Executor
	log  *zap.Logger
}

func NewHandler(exec *Executor, log *zap.Logger) *Handler {
	return &Handler{exec: exec, log: log.Named("graphql.http")}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, Response{
			Errors: []Error{{Message: "Method not allowed. Please use POST."}},
		})
		return
	}

	var req Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		h.log.Info("invalid request body", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, Response{
			Errors: []Error{{Message: "Invalid JSON request."}},
		})
		return
	}

	resp := h.exec.Execute(r.Context(), req)
	if len(resp.Errors) > 0 {
		h.log.Warn("request completed with errors",
			zap.String("operation", req.OperationName),
			zap.Any("errors", resp.Errors),
		)
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("encode response failed", zap.Error(err))
	}
}
