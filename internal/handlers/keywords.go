package handlers

import (
	"net/http"
	"strconv"
	"time"
)

// KeywordInfo represents a keyword in the list response.
type KeywordInfo struct {
	Keyword   string `json:"keyword"`
	Response  string `json:"response"`
	UpdatedAt string `json:"updated_at"`
}

// KeywordListResponse represents the keywords list response.
type KeywordListResponse struct {
	Keywords []KeywordInfo `json:"keywords"`
	Total    int           `json:"total"`
}

// ListKeywords handles listing stored keywords.
func (h *Handler) ListKeywords(w http.ResponseWriter, r *http.Request) {
	limitStr := r.URL.Query().Get("limit")
	offsetStr := r.URL.Query().Get("offset")

	limit := 20
	if limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}
	if limit > 100 {
		limit = 100
	}

	offset := 0
	if offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}

	rows, total, err := h.store.List(r.Context(), limit, offset)
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "database error")
		return
	}

	keywords := make([]KeywordInfo, len(rows))
	for i, row := range rows {
		keywords[i] = KeywordInfo{
			Keyword:   row.Keyword,
			Response:  row.Response,
			UpdatedAt: row.UpdatedAt.UTC().Format(time.RFC3339),
		}
	}

	h.JSON(w, http.StatusOK, KeywordListResponse{
		Keywords: keywords,
		Total:    total,
	})
}

// StatsResponse represents the response from the stats endpoint.
type StatsResponse struct {
	TotalKeywords int64  `json:"total_keywords"`
	Version       string `json:"version"`
}

// Stats returns keyword statistics.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	total, err := h.store.Count(r.Context())
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "failed to count keywords")
		return
	}

	h.JSON(w, http.StatusOK, StatsResponse{
		TotalKeywords: total,
		Version:       version,
	})
}
