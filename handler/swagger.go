package handler

import "net/http"

// handleSwaggerFile serves the OpenAPI document consumed by the swagger UI
// mounted under /docs.
func (h *Handler) handleSwaggerFile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		http.ServeFile(w, r, "./docs/swagger.json")
	}
}
