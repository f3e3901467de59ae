package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/okian/novhub/internal/adapters/http/api"
	"github.com/okian/novhub/internal/adapters/repository"
	service "github.com/okian/novhub/internal/app"
	"github.com/okian/novhub/internal/domain/model"
	"github.com/okian/novhub/internal/domain/types"
	"github.com/okian/novhub/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

const passcode = "letmein"

func newTestServer() (*httptest.Server, *service.Service, *repository.MemoryStore) {
	store := repository.NewMemoryStore()
	var n atomic.Int64
	svc := service.New(store,
		service.WithLogger(logger.Nop()),
		service.WithAdminPasscode(passcode),
		service.WithUploadLimits(1<<20, time.Millisecond),
		service.WithIDGenerator(func() string {
			return fmt.Sprintf("id-%d", n.Add(1))
		}),
	)
	_ = svc.Start(context.Background())
	srv := api.NewServer(svc, api.WithLogger(logger.Nop()), api.WithAllowedOrigins([]string{"http://localhost:3000"}))
	return httptest.NewServer(srv.Router(nil)), svc, store
}

func do(ts *httptest.Server, method, path, body string, headers map[string]string) *http.Response {
	var req *http.Request
	if body == "" {
		req, _ = http.NewRequest(method, ts.URL+path, nil)
	} else {
		req, _ = http.NewRequest(method, ts.URL+path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := ts.Client().Do(req)
	So(err, ShouldBeNil)
	return resp
}

func decode(resp *http.Response, dst any) {
	defer resp.Body.Close()
	So(json.NewDecoder(resp.Body).Decode(dst), ShouldBeNil)
}

func admin() map[string]string { return map[string]string{"X-Admin-Passcode": passcode} }

func TestServer_Public(t *testing.T) {
	Convey("Given a running API server", t, func() {
		ts, svc, _ := newTestServer()
		defer ts.Close()
		defer func() { _ = svc.Stop(context.Background()) }()

		Convey("Health and metrics respond", func() {
			resp := do(ts, http.MethodGet, "/healthz", "", nil)
			var body map[string]string
			decode(resp, &body)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(body["status"], ShouldEqual, "ok")

			resp = do(ts, http.MethodGet, "/metrics", "", nil)
			resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
		})

		Convey("The catalog lists mentors", func() {
			resp := do(ts, http.MethodGet, "/api/catalog", "", nil)
			var body map[string]any
			decode(resp, &body)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(body, ShouldContainKey, "mentors")
		})

		Convey("Submitting an application returns 201 and bumps students", func() {
			var before types.Stats
			decode(do(ts, http.MethodGet, "/api/stats", "", nil), &before)

			resp := do(ts, http.MethodPost, "/api/applications",
				`{"fullName":"Ada","email":"ada@x.io","program":"Startup Sandbox","status":"approved"}`, nil)
			var app model.Application
			decode(resp, &app)
			So(resp.StatusCode, ShouldEqual, http.StatusCreated)
			So(app.Status, ShouldEqual, model.StatusPending)
			So(app.ID, ShouldNotBeEmpty)

			var after types.Stats
			decode(do(ts, http.MethodGet, "/api/stats", "", nil), &after)
			So(after.Students, ShouldEqual, before.Students+1)
		})

		Convey("A repeated idempotency key is rejected with 409", func() {
			h := map[string]string{"Idempotency-Key": "k-1"}
			body := `{"fullName":"Ada","email":"ada@x.io","program":"Startup Sandbox"}`
			resp := do(ts, http.MethodPost, "/api/applications", body, h)
			resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusCreated)

			resp = do(ts, http.MethodPost, "/api/applications", body, h)
			var e map[string]string
			decode(resp, &e)
			So(resp.StatusCode, ShouldEqual, http.StatusConflict)
			So(e["code"], ShouldEqual, "duplicate")
		})

		Convey("Malformed and empty bodies are bad requests", func() {
			resp := do(ts, http.MethodPost, "/api/bookings/mentor", "{", nil)
			resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)

			resp = do(ts, http.MethodPost, "/api/session", "", nil)
			resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("A non-JSON body is rejected with 415", func() {
			resp := do(ts, http.MethodPost, "/api/contact", `{"email":"ada@x.io","message":"hi"}`,
				map[string]string{"Content-Type": "text/plain"})
			var e map[string]string
			decode(resp, &e)
			So(resp.StatusCode, ShouldEqual, http.StatusUnsupportedMediaType)
			So(e["code"], ShouldEqual, "unsupported_media_type")
		})

		Convey("Bookings validate their input", func() {
			resp := do(ts, http.MethodPost, "/api/bookings/stay",
				`{"type":"Hot Desk","email":"ada@x.io","start":"2026-04-01"}`, nil)
			var b model.Booking
			decode(resp, &b)
			So(resp.StatusCode, ShouldEqual, http.StatusCreated)
			So(b.Stay.Weeks, ShouldEqual, 4)

			resp = do(ts, http.MethodPost, "/api/bookings/mentor",
				`{"mentor":"nobody","email":"ada@x.io","slot":"Mon 10:00"}`, nil)
			resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Session and dashboard follow the signed-in user", func() {
			resp := do(ts, http.MethodGet, "/api/session", "", nil)
			resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)

			resp = do(ts, http.MethodGet, "/api/dashboard", "", nil)
			resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusUnauthorized)

			resp = do(ts, http.MethodPost, "/api/session", `{"email":"ada@x.io"}`, nil)
			var u model.User
			decode(resp, &u)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(u.Email, ShouldEqual, "ada@x.io")

			resp = do(ts, http.MethodPost, "/api/applications",
				`{"fullName":"Ada","email":"ADA@x.io","program":"Startup Sandbox"}`, nil)
			resp.Body.Close()

			var d types.Dashboard
			resp = do(ts, http.MethodGet, "/api/dashboard", "", nil)
			decode(resp, &d)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(d.Applications, ShouldHaveLength, 1)
		})

		Convey("Contact requires an email and a message", func() {
			resp := do(ts, http.MethodPost, "/api/contact", `{"name":"Ada","email":"","message":"hi"}`, nil)
			resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)

			resp = do(ts, http.MethodPost, "/api/contact", `{"name":"Ada","email":"ada@x.io","message":"hi"}`, nil)
			resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusAccepted)
		})

		Convey("Uploads run to completion and unknown ids are 404", func() {
			resp := do(ts, http.MethodPost, "/api/uploads", `{"fileName":"cv.pdf","size":1024}`, nil)
			var started struct {
				ID string `json:"id"`
			}
			decode(resp, &started)
			So(resp.StatusCode, ShouldEqual, http.StatusAccepted)
			So(started.ID, ShouldNotBeEmpty)

			var state string
			for i := 0; i < 200 && state != "completed"; i++ {
				var snap struct {
					State string `json:"state"`
				}
				decode(do(ts, http.MethodGet, "/api/uploads/"+started.ID, "", nil), &snap)
				state = snap.State
				time.Sleep(5 * time.Millisecond)
			}
			So(state, ShouldEqual, "completed")

			resp = do(ts, http.MethodGet, "/api/uploads/missing", "", nil)
			resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)

			resp = do(ts, http.MethodPost, "/api/uploads", `{"fileName":"big.pdf","size":2097152}`, nil)
			resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusRequestEntityTooLarge)
		})

		Convey("CORS preflight is answered for allowed origins", func() {
			resp := do(ts, http.MethodOptions, "/api/applications", "", map[string]string{
				"Origin":                        "http://localhost:3000",
				"Access-Control-Request-Method": http.MethodPost,
			})
			resp.Body.Close()
			So(resp.Header.Get("Access-Control-Allow-Origin"), ShouldEqual, "http://localhost:3000")
		})
	})
}

func TestServer_Admin(t *testing.T) {
	Convey("Given a running API server", t, func() {
		ts, svc, _ := newTestServer()
		defer ts.Close()
		defer func() { _ = svc.Stop(context.Background()) }()

		Convey("Admin routes require the passcode", func() {
			resp := do(ts, http.MethodGet, "/api/admin/applications", "", nil)
			resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusUnauthorized)

			resp = do(ts, http.MethodGet, "/api/admin/applications", "", map[string]string{"X-Admin-Passcode": "nope"})
			resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusUnauthorized)

			resp = do(ts, http.MethodPost, "/api/admin/unlock", `{"passcode":"`+passcode+`"}`, nil)
			resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
		})

		Convey("Reviewing an application is applied once", func() {
			resp := do(ts, http.MethodPost, "/api/applications",
				`{"fullName":"Ada","email":"ada@x.io","program":"Startup Sandbox"}`, nil)
			var app model.Application
			decode(resp, &app)

			var res types.ReviewResult
			resp = do(ts, http.MethodPost, "/api/admin/applications/"+app.ID+"/approve", "", admin())
			decode(resp, &res)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(res.Changed, ShouldBeTrue)
			So(res.Application.Status, ShouldEqual, model.StatusApproved)

			resp = do(ts, http.MethodPost, "/api/admin/applications/"+app.ID+"/reject", "", admin())
			decode(resp, &res)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(res.Changed, ShouldBeFalse)
			So(res.Warning, ShouldNotBeEmpty)

			resp = do(ts, http.MethodPost, "/api/admin/applications/"+app.ID+"/maybe", "", admin())
			resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)

			resp = do(ts, http.MethodPost, "/api/admin/applications/missing/approve", "", admin())
			resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)

			var apps []model.Application
			decode(do(ts, http.MethodGet, "/api/admin/applications", "", admin()), &apps)
			So(apps, ShouldHaveLength, 1)
		})

		Convey("Listings and system stats are available", func() {
			resp := do(ts, http.MethodGet, "/api/admin/bookings", "", admin())
			resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)

			resp = do(ts, http.MethodGet, "/api/admin/messages", "", admin())
			resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)

			var stats map[string]any
			resp = do(ts, http.MethodGet, "/api/admin/system", "", admin())
			decode(resp, &stats)
			So(stats["started"], ShouldEqual, true)
		})
	})
}

func TestServer_StorageUnavailable(t *testing.T) {
	Convey("Given a server whose store is closed", t, func() {
		ts, svc, store := newTestServer()
		defer ts.Close()
		defer func() { _ = svc.Stop(context.Background()) }()
		So(store.Close(), ShouldBeNil)

		Convey("Writes report 503", func() {
			resp := do(ts, http.MethodPost, "/api/contact", `{"name":"Ada","email":"ada@x.io","message":"hi"}`, nil)
			var e map[string]string
			decode(resp, &e)
			So(resp.StatusCode, ShouldEqual, http.StatusServiceUnavailable)
			So(e["code"], ShouldEqual, "storage_unavailable")
		})
	})
}

func TestServer_Mount(t *testing.T) {
	Convey("Given extra routes mounted by the caller", t, func() {
		srv := api.NewServer(nil)
		h := srv.Router(func(r chi.Router) {
			r.Get("/extra", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusTeapot) })
		})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/extra", nil))
		So(rec.Code, ShouldEqual, http.StatusTeapot)
	})
}
