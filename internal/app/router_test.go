package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bookdesk-service/internal/apiclient"
	"bookdesk-service/internal/domain/auth"
	authHandler "bookdesk-service/internal/handlers/auth"
	cartHandler "bookdesk-service/internal/handlers/cart"
	confirmHandler "bookdesk-service/internal/handlers/confirm"
	deviceHandler "bookdesk-service/internal/handlers/device"
	notifyHandler "bookdesk-service/internal/handlers/notification"
	scheduleHandler "bookdesk-service/internal/handlers/schedule"
	wsHandler "bookdesk-service/internal/handlers/websocket"
	"bookdesk-service/internal/middleware"
	"bookdesk-service/internal/pkg/session"
	"bookdesk-service/internal/pkg/storage"
	authUsecase "bookdesk-service/internal/service/auth"
	cartUsecase "bookdesk-service/internal/service/cart"
	confirmUsecase "bookdesk-service/internal/service/confirm"
	deviceUsecase "bookdesk-service/internal/service/device"
	notifyUsecase "bookdesk-service/internal/service/notification"
	scheduleUsecase "bookdesk-service/internal/service/schedule"
	"bookdesk-service/internal/websocket"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRouter(t *testing.T) (*gin.Engine, *session.Manager) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	mgr, err := session.NewManager(context.Background(), storage.NewMemory(), logger)
	require.NoError(t, err)
	api := apiclient.New(apiclient.Config{BaseURL: "http://127.0.0.1:0"}, mgr, logger)

	registry := notifyUsecase.NewRegistry(logger)
	devices := deviceUsecase.NewDeviceService(api, logger)
	cartStore := cartUsecase.NewStore(cartUsecase.NewCartService(api, logger), devices, 0, logger)
	signal := scheduleUsecase.NewSignal(logger)

	r := gin.New()
	SetupRouter(r, &Handlers{
		AuthHandler:     authHandler.NewAuthHandler(authUsecase.NewAuthService(api, mgr, logger), cartStore, registry, logger),
		NotifHandler:    notifyHandler.NewNotificationHandler(registry),
		ConfirmHandler:  confirmHandler.NewConfirmHandler(confirmUsecase.NewBroker(logger, confirmUsecase.OverlapReject), logger),
		CartHandler:     cartHandler.NewCartHandler(cartStore, registry),
		DeviceHandler:   deviceHandler.NewDeviceHandler(devices),
		ScheduleHandler: scheduleHandler.NewScheduleHandler(scheduleUsecase.NewAppointmentService(api, signal, logger), signal, registry),
		WSHandler:       wsHandler.NewWebSocketHandler(websocket.NewHub(logger), nil, logger),
		AuthMiddleware:  middleware.NewAuthMiddleware(mgr),
	})
	return r, mgr
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestPublicRoutes(t *testing.T) {
	r, _ := newRouter(t)

	assert.Equal(t, http.StatusOK, get(r, "/api/v1/health").Code)
	assert.Equal(t, http.StatusOK, get(r, "/metrics").Code)
	assert.Equal(t, http.StatusOK, get(r, "/api/v1/notifications").Code)
	assert.Equal(t, http.StatusOK, get(r, "/api/v1/confirm").Code)

	w := get(r, "/api/v1/auth/me")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"is_authenticated":false`)
}

func TestProtectedRoutesNeedSession(t *testing.T) {
	r, mgr := newRouter(t)

	assert.Equal(t, http.StatusUnauthorized, get(r, "/api/v1/cart").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/api/v1/schedule/refresh").Code)

	require.NoError(t, mgr.SetToken(context.Background(), "opaque"))
	assert.Equal(t, http.StatusOK, get(r, "/api/v1/schedule/refresh").Code)
}

func send(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAppointmentWritesNeedStaff(t *testing.T) {
	r, mgr := newRouter(t)
	status := `{"status":"confirmed"}`

	assert.Equal(t, http.StatusUnauthorized, send(r, http.MethodPatch, "/api/v1/schedule/appointments/1/status", status).Code)

	require.NoError(t, mgr.SetToken(context.Background(), "opaque"))
	mgr.SetUser(&auth.UserProfile{ID: 1, Roles: []string{"customer"}})

	assert.Equal(t, http.StatusOK, get(r, "/api/v1/schedule/refresh").Code)
	assert.Equal(t, http.StatusForbidden, send(r, http.MethodPatch, "/api/v1/schedule/appointments/1/status", status).Code)
	assert.Equal(t, http.StatusForbidden, send(r, http.MethodPost, "/api/v1/schedule/appointments", `{}`).Code)
	assert.Equal(t, http.StatusForbidden, send(r, http.MethodPut, "/api/v1/schedule/appointments/1", `{}`).Code)
	assert.Equal(t, http.StatusForbidden, send(r, http.MethodDelete, "/api/v1/schedule/appointments/1", "").Code)

	mgr.SetUser(&auth.UserProfile{ID: 1, Roles: []string{"employee"}})
	w := send(r, http.MethodPatch, "/api/v1/schedule/appointments/x/status", status)
	assert.Equal(t, http.StatusBadRequest, w.Code, "past the role check, the handler rejects the id")
}

// Dialog and toast controls stay usable before login, e.g. on the login screen.
func TestUIControlsWorkWithoutSession(t *testing.T) {
	r, _ := newRouter(t)

	assert.Equal(t, http.StatusOK, send(r, http.MethodDelete, "/api/v1/notifications", "").Code)
	assert.Equal(t, http.StatusOK, send(r, http.MethodDelete, "/api/v1/notifications/missing", "").Code)
	// nothing pending, but the request reaches the broker
	assert.Equal(t, http.StatusNotFound, send(r, http.MethodPost, "/api/v1/confirm/cancel", "").Code)
	assert.Equal(t, http.StatusNotFound, send(r, http.MethodPost, "/api/v1/confirm/accept", "").Code)
}
