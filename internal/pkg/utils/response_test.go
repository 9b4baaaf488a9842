package utils

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/flowvera/flowvera/internal/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAppError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"app error", errors.Forbidden("You do not have access to this project"), http.StatusForbidden, errors.ErrCodeForbidden, "You do not have access to this project"},
		{"wrapped app error", fmt.Errorf("ctx: %w", errors.NotFound("Subscription")), http.StatusNotFound, errors.ErrCodeNotFound, "Subscription not found"},
		{"plain error hidden", fmt.Errorf("pq: relation does not exist"), http.StatusInternalServerError, errors.ErrCodeInternal, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			require.NoError(t, WriteAppError(rr, tt.err))

			assert.Equal(t, tt.wantStatus, rr.Code)
			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.wantCode, body.Error.Code)
			assert.Equal(t, tt.wantMsg, body.Error.Message)
		})
	}
}

func TestWriteJSONUnencodable(t *testing.T) {
	rr := httptest.NewRecorder()
	err := WriteJSON(rr, http.StatusOK, map[string]interface{}{"bad": make(chan int)})
	require.Error(t, err)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, errors.ErrCodeInternal, body.Error.Code)
}

func TestParsePageRequest(t *testing.T) {
	tests := []struct {
		query    string
		page     int
		pageSize int
		offset   int
	}{
		{"", 1, DefaultPageSize, 0},
		{"?page=3&page_size=10", 3, 10, 20},
		{"?page=-1&page_size=1000", 1, MaxPageSize, 0},
		{"?page=abc&page_size=0", 1, DefaultPageSize, 0},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/admin/users"+tt.query, nil)
			p := ParsePageRequest(r)
			assert.Equal(t, tt.page, p.Page)
			assert.Equal(t, tt.pageSize, p.PageSize)
			assert.Equal(t, tt.offset, p.Offset())
		})
	}
}

func TestNewPaginatedResponse(t *testing.T) {
	resp := NewPaginatedResponse([]string{"a"}, PageRequest{Page: 1, PageSize: 20}, 41)
	assert.Equal(t, 3, resp.TotalPages)

	resp = NewPaginatedResponse([]string{}, PageRequest{Page: 1, PageSize: 20}, 0)
	assert.Equal(t, 0, resp.TotalPages)
}
