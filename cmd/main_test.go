package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/roster/internal/config"
	"github.com/okian/roster/pkg/logger"
	"github.com/okian/roster/pkg/metrics"
	"github.com/smartystreets/goconvey/convey"
)

const testCurrentSheet = `id,name,record,sport,weight,country
c1,Jane Doe,10-0,boxing,Featherweight,Ireland
c2,Marco Silva,8-2,mma,Lightweight,Brazil
`

const testAlumniSheet = `id,name,record,sport,weight,country
a1,Rocky Vale,30-5,boxing,Middleweight,USA
`

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func writeSheet(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When loading configuration from the environment", func() {
			t.Setenv("ROSTER_ADDR", ":8181")
			t.Setenv("ROSTER_CURRENT_URL", "https://docs.example/current.csv")
			t.Setenv("ROSTER_RETAIN_ON_FAILURE", "true")

			convey.Convey("Then the values are applied", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8181")
				convey.So(cfg.RetainOnFailure, convey.ShouldBeTrue)
				convey.So(len(cfg.SourceList()), convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When the address is blank", func() {
			t.Setenv("ROSTER_ADDR", "")

			convey.Convey("Then configuration loading fails", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func TestMainApplicationIntegration(t *testing.T) {
	convey.Convey("Given sheets on disk and a configured service", t, func() {
		dir := t.TempDir()
		t.Setenv("ROSTER_CURRENT_URL", writeSheet(t, dir, "current.csv", testCurrentSheet))
		t.Setenv("ROSTER_ALUMNI_URL", "file://"+writeSheet(t, dir, "alumni.csv", testAlumniSheet))

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		cfg, err := config.Load(ctx)
		convey.So(err, convey.ShouldBeNil)

		svc := newService(cfg, logger.Get())
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()

		srv := httptest.NewServer(newMux(ctx, svc))
		defer srv.Close()

		convey.Convey("When listing alumni over HTTP", func() {
			resp, err := http.Get(srv.URL + "/participants?view=alumni")
			convey.So(err, convey.ShouldBeNil)
			defer resp.Body.Close()

			var body struct {
				Count        int `json:"count"`
				Participants []struct {
					ID string `json:"id"`
				} `json:"participants"`
			}
			convey.So(json.NewDecoder(resp.Body).Decode(&body), convey.ShouldBeNil)

			convey.Convey("Then only the alumni sheet is returned", func() {
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
				convey.So(body.Count, convey.ShouldEqual, 1)
				convey.So(body.Participants[0].ID, convey.ShouldEqual, "a1")
			})
		})

		convey.Convey("When requesting the API docs", func() {
			resp, err := http.Get(srv.URL + "/openapi.yaml")
			convey.So(err, convey.ShouldBeNil)
			defer resp.Body.Close()

			convey.Convey("Then the OpenAPI document is served", func() {
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
			})
		})

		convey.Convey("When reading stats", func() {
			stats := svc.GetStats()

			convey.Convey("Then both sources are counted", func() {
				convey.So(stats["sources"], convey.ShouldEqual, 2)
				convey.So(stats["participants"], convey.ShouldEqual, 3)
			})
		})
	})
}

func TestMainApplicationComponents(t *testing.T) {
	convey.Convey("Given main application components", t, func() {
		convey.Convey("When the system metrics updater runs until its context ends", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()

			convey.Convey("Then it returns without panicking", func() {
				convey.So(func() {
					startSystemMetricsUpdater(ctx, 10*time.Millisecond)
				}, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When updating system metrics directly", func() {
			convey.Convey("Then nothing panics", func() {
				convey.So(updateSystemMetrics, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When metrics are configured from config", func() {
			defer metrics.Configure()
			cfg := config.New()
			cfg.MetricsIntervalSec = 2
			cfg.MetricsLabels = map[string]string{"deployment": "test"}
			configureMetrics(cfg)
			updateSystemMetrics()

			convey.Convey("Then the interval and labels reach the exported series", func() {
				convey.So(metrics.RefreshInterval(), convey.ShouldEqual, 2*time.Second)

				families, err := metrics.GetRegistry().Gather()
				convey.So(err, convey.ShouldBeNil)
				var labeled bool
				for _, f := range families {
					if f.GetName() != "roster_system_goroutine_count" {
						continue
					}
					for _, lp := range f.GetMetric()[0].GetLabel() {
						labeled = labeled || (lp.GetName() == "deployment" && lp.GetValue() == "test")
					}
				}
				convey.So(labeled, convey.ShouldBeTrue)
			})
		})
	})
}
