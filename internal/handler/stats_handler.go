package handler

import (
	"net/http"

	"blog-api/internal/service"
)

type StatsHandler struct {
	service *service.BlogService
}

func NewStatsHandler(service *service.BlogService) *StatsHandler {
	return &StatsHandler{service: service}
}

func (h *StatsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
