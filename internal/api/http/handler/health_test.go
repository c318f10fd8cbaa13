package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/bookshop-server/internal/mocks"
	"github.com/dtroode/bookshop-server/internal/testutil"
)

func TestHealth_Check(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		pingErr    error
		wantStatus int
		wantBody   string
	}{
		{name: "store reachable", wantStatus: http.StatusOK, wantBody: `{"ok":true}`},
		{name: "store down", pingErr: assert.AnError, wantStatus: http.StatusServiceUnavailable, wantBody: `{"ok":false}`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := mocks.NewUserStore(t)
			store.On("Ping", mock.Anything).Return(tt.pingErr).Once()
			h := NewHealth(store, testutil.MakeNoopLogger())

			rec := httptest.NewRecorder()
			h.Check(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			require.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}
