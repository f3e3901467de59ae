package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/robfig/cron/v3"
	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/novhub/internal/adapters/repository"
	"github.com/okian/novhub/internal/config"
	"github.com/okian/novhub/pkg/logger"
)

func TestMainWiring(t *testing.T) {
	convey.Convey("Given configuration loaded from the environment", t, func() {
		t.Setenv("NOVHUB_STORE_DRIVER", "memory")
		t.Setenv("NOVHUB_NOTIFY_WORKER_COUNT", "1")
		t.Setenv("NOVHUB_CORS_ALLOWED_ORIGINS", "http://localhost:3000")

		ctx := context.Background()
		cfg, err := config.Load(ctx)
		convey.So(err, convey.ShouldBeNil)
		convey.So(cfg.StoreDriver, convey.ShouldEqual, "memory")

		store, err := repository.Open(ctx, repository.Settings{Driver: cfg.StoreDriver})
		convey.So(err, convey.ShouldBeNil)
		defer store.Close()

		svc := newService(cfg, store, logger.Nop())
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop(ctx)

		h := newRouter(ctx, cfg, svc, logger.Nop())
		get := func(path string) *httptest.ResponseRecorder {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
			return w
		}

		convey.Convey("When requesting each mounted surface", func() {
			convey.Convey("Then the API, docs and site all answer", func() {
				convey.So(get("/healthz").Code, convey.ShouldEqual, http.StatusOK)
				convey.So(get("/api/stats").Code, convey.ShouldEqual, http.StatusOK)
				convey.So(get("/openapi.yaml").Code, convey.ShouldEqual, http.StatusOK)
				convey.So(get("/api-docs").Code, convey.ShouldEqual, http.StatusOK)
				convey.So(get("/").Code, convey.ShouldEqual, http.StatusOK)
				convey.So(get("/metrics").Code, convey.ShouldEqual, http.StatusOK)
			})
		})

		convey.Convey("When scheduling background jobs", func() {
			c := cron.New()
			convey.So(scheduleJobs(ctx, c, cfg, svc, logger.Nop()), convey.ShouldBeNil)
			convey.So(c.Entries(), convey.ShouldHaveLength, 2)

			convey.Convey("Then each job runs without panicking", func() {
				for _, e := range c.Entries() {
					convey.So(e.Job.Run, convey.ShouldNotPanic)
				}
			})
		})

		convey.Convey("When the metrics schedule is invalid", func() {
			bad := *cfg
			bad.MetricsSchedule = "whenever"
			convey.So(scheduleJobs(ctx, cron.New(), &bad, svc, logger.Nop()), convey.ShouldNotBeNil)
		})
	})
}

func TestUpdateSystemMetrics(t *testing.T) {
	convey.Convey("Given the system metrics updater", t, func() {
		convey.So(updateSystemMetrics, convey.ShouldNotPanic)
	})
}
