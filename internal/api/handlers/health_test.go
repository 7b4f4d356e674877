package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func TestHealthHandler_Healthy(t *testing.T) {
	mockDB := new(MockPinger)
	mockDB.On("Ping", mock.Anything).Return(nil)
	handler := NewHealthHandler(mockDB, true, true, false)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	handler.Health(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "up", resp.Components["database"])
	assert.Equal(t, "up", resp.Components["storage"])
	assert.Equal(t, "up", resp.Components["models"])
	assert.Equal(t, "not_configured", resp.Components["parser"])
}

func TestHealthHandler_DatabaseDown(t *testing.T) {
	mockDB := new(MockPinger)
	mockDB.On("Ping", mock.Anything).Return(assert.AnError)
	handler := NewHealthHandler(mockDB, true, true, true)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	handler.Health(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "unhealthy", resp.Status)
	assert.Equal(t, "down", resp.Components["database"])
}
