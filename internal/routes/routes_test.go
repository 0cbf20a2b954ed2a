package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := SetupRouter()

	t.Run("global middleware installed before route registration", func(t *testing.T) {
		// recovery + request logger
		require.Len(t, r.Handlers, 2)

		// With no DB connected the stops handler panics; only middleware
		// registered ahead of the route groups can turn that into a 500.
		// If the chain were attached after registration this request
		// would crash the test instead of responding.
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/public/stops", nil)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("tracking socket rejects a missing token", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ws/track", nil)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
