package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"backend/internal/gate"
	"backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRetrainStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	g := gate.New(50)
	g.Seed(12)

	h := NewRetrainHandler(g, nil, zap.NewNop())
	r := gin.New()
	r.GET("/retrain/status", asUser(1, models.RoleUser), h.Status)

	req := httptest.NewRequest(http.MethodGet, "/retrain/status", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		FeedbackCount  int  `json:"feedback_count"`
		MinRequired    int  `json:"min_required"`
		ReadyToRetrain bool `json:"ready_to_retrain"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 12, resp.FeedbackCount)
	assert.Equal(t, 50, resp.MinRequired)
	assert.False(t, resp.ReadyToRetrain)
}
