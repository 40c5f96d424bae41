package router

import (
	"testing"

	"album-server/internal/testutils"

	"github.com/gin-gonic/gin"
)

func TestInitRouterRegistersCoreRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	testutils.SetupConfig(t)
	testutils.SetupDB(t)

	r := gin.New()
	InitRouter(r)

	type wantRoute struct {
		method string
		path   string
	}
	wants := []wantRoute{
		{method: "GET", path: "/api/ping"},
		{method: "POST", path: "/api/register"},
		{method: "POST", path: "/api/login"},
		{method: "POST", path: "/api/auth/confirm/:token"},
		{method: "POST", path: "/api/auth/password/forget"},
		{method: "POST", path: "/api/auth/password/reset"},
		{method: "GET", path: "/api/me"},
		{method: "GET", path: "/api/me/feed"},
		{method: "POST", path: "/api/me/avatar"},
		{method: "POST", path: "/api/me/avatar/crop"},
		{method: "GET", path: "/api/explore"},
		{method: "POST", path: "/api/users/:username/follow"},
		{method: "GET", path: "/api/users/:username/followers"},
		{method: "POST", path: "/api/photos"},
		{method: "GET", path: "/api/photos/:id"},
		{method: "POST", path: "/api/photos/:id/comments"},
		{method: "POST", path: "/api/photos/:id/collect"},
		{method: "POST", path: "/api/photos/:id/tags"},
		{method: "GET", path: "/api/notifications"},
		{method: "POST", path: "/api/notifications/read-all"},
		{method: "POST", path: "/api/admin/users/:username/lock"},
		{method: "PATCH", path: "/api/admin/users/:username/role"},
	}

	have := make(map[string]bool)
	for _, route := range r.Routes() {
		have[route.Method+" "+route.Path] = true
	}

	for _, w := range wants {
		if !have[w.method+" "+w.path] {
			t.Fatalf("missing route: %s %s", w.method, w.path)
		}
	}
}
