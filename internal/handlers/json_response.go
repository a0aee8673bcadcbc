package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/lib/pq"

	"adboard/internal/interfaces"
	"adboard/internal/listing"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"message": message})
}

func writeJSONErrorResponse(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, map[string]any{"error": code, "message": message})
}

type dataResponse struct {
	Data any `json:"data"`
}

type paginatedResponse struct {
	Data       any `json:"data"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// maxPage bounds the page number so offset math stays far from overflow.
const maxPage = 1_000_000

type pagination struct {
	page     int
	pageSize int
	limit    int
	offset   int
}

// parsePaginationParams reads page (1-based) and page_size.
func parsePaginationParams(r *http.Request, defaultSize, maxSize int) (pagination, error) {
	p := pagination{page: 1, pageSize: defaultSize}

	q := r.URL.Query()
	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxPage {
			return pagination{}, errors.New("invalid page")
		}
		p.page = n
	}
	if v := q.Get("page_size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return pagination{}, errors.New("invalid page_size")
		}
		if n > maxSize {
			n = maxSize
		}
		p.pageSize = n
	}

	p.limit = p.pageSize
	p.offset = (p.page - 1) * p.pageSize
	return p, nil
}

func writePaginatedResponse(w http.ResponseWriter, status int, data any, page, pageSize, total int) {
	writeJSON(w, status, paginatedResponse{
		Data:       data,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: listing.TotalPages(total, pageSize),
	})
}

func parseIDParam(s string) (int64, bool) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// writeRepositoryError maps repository failures onto the API error body.
// It returns false when err is not one of the known cases.
func writeRepositoryError(w http.ResponseWriter, err error, resource string) bool {
	if errors.Is(err, sql.ErrNoRows) {
		writeJSONErrorResponse(w, http.StatusNotFound, resource+"_not_found", resource+" not found")
		return true
	}

	var blocked *interfaces.DeletionBlockedError
	if errors.As(err, &blocked) {
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":      "deletion_blocked",
			"message":    blocked.Error(),
			"references": blocked.References,
		})
		return true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			writeJSONErrorResponse(w, http.StatusConflict, "duplicate_"+resource, resource+" already exists")
			return true
		case "23503":
			writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_reference", "Referenced record does not exist")
			return true
		}
	}
	return false
}
