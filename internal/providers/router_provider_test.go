package providers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dummyHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}

func serveRoutes(rp RouterProviderInterface) *http.ServeMux {
	mux := http.NewServeMux()
	for _, route := range rp.GetRoutes() {
		mux.Handle(route.Url, route.Handler)
	}
	return mux
}

func TestRouterProvider_GetAddsRoute(t *testing.T) {
	rp := NewRouterProvider()
	rp.Get("/test", dummyHandler())

	routes := rp.GetRoutes()
	require.Len(t, routes, 1)
	assert.Equal(t, "GET /test", routes[0].Url)
}

func TestRouterProvider_AllMethods(t *testing.T) {
	rp := NewRouterProvider()
	rp.Get("/a", dummyHandler())
	rp.Post("/a", dummyHandler())
	rp.Put("/a", dummyHandler())
	rp.Delete("/a/{id}", dummyHandler())

	routes := rp.GetRoutes()
	require.Len(t, routes, 4)
	assert.Equal(t, "POST /a", routes[1].Url)
	assert.Equal(t, "PUT /a", routes[2].Url)
	assert.Equal(t, "DELETE /a/{id}", routes[3].Url)
}

func TestRouterProvider_SamePathDifferentMethodsDoNotConflict(t *testing.T) {
	rp := NewRouterProvider()
	rp.Get("/favorites", dummyHandler())
	rp.Post("/favorites", dummyHandler())

	mux := serveRoutes(rp)
	for _, method := range []string{http.MethodGet, http.MethodPost} {
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, httptest.NewRequest(method, "/favorites", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
	}
}

func TestRouterProvider_GetRouteRejectsPost(t *testing.T) {
	rp := NewRouterProvider()
	rp.Get("/test", dummyHandler())

	rr := httptest.NewRecorder()
	serveRoutes(rp).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/test", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
