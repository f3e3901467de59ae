package site

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSiteHandler(t *testing.T) {
	Convey("Given a router with the site registered", t, func() {
		r := chi.NewRouter()
		r.Get("/api/ping", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
		Register(context.Background(), r)

		get := func(p string) *httptest.ResponseRecorder {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, p, nil))
			return w
		}

		Convey("Then / serves the index page", func() {
			w := get("/")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldContainSubstring, "text/html")
			So(w.Body.String(), ShouldContainSubstring, "NovHub")
		})

		Convey("And assets are served with their type", func() {
			w := get("/app.js")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldContainSubstring, "javascript")
		})

		Convey("And the stay form leaves a blank duration to the server default", func() {
			body := get("/app.js").Body.String()
			So(body, ShouldContainSubstring, "body.weeks = Number(data.weeks)")
			So(body, ShouldNotContainSubstring, "weeks: Number(data.weeks)")
		})

		Convey("And client routes fall back to the index page", func() {
			w := get("/dashboard")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "NovHub")
		})

		Convey("And missing assets are 404", func() {
			So(get("/missing.css").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("And API routes still win", func() {
			So(get("/api/ping").Code, ShouldEqual, http.StatusNoContent)
		})
	})
}

func TestSiteHandlerWithNilRouter(t *testing.T) {
	Convey("Given a nil router", t, func() {
		So(func() { Register(context.Background(), nil) }, ShouldPanic)
	})
}
