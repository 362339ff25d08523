package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsOptions(t *testing.T) {
	Convey("Given metrics options", t, func() {
		Convey("When creating options", func() {
			metricsEnabledOpt := WithMetricsEnabled(true)
			refreshIntervalOpt := WithRefreshInterval(5 * time.Second)
			customLabelsOpt := WithCustomLabels(map[string]string{"env": "test"})
			registryOpt := WithPrometheusRegistry(prometheus.NewRegistry())

			Convey("Then they should be valid functions", func() {
				So(metricsEnabledOpt, ShouldNotBeNil)
				So(refreshIntervalOpt, ShouldNotBeNil)
				So(customLabelsOpt, ShouldNotBeNil)
				So(registryOpt, ShouldNotBeNil)
			})
		})
	})
}

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be enabled with the default interval", func() {
				So(manager, ShouldNotBeNil)
				So(manager.enabled, ShouldBeTrue)
				So(manager.refreshInterval, ShouldEqual, defaultRefreshInterval)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithMetricsEnabled(false),
				WithRefreshInterval(3*time.Second),
				WithCustomLabels(map[string]string{"deployment": "staging"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the options are applied", func() {
				So(manager.enabled, ShouldBeFalse)
				So(manager.refreshInterval, ShouldEqual, 3*time.Second)
			})

			Convey("And the metrics land on the given registry with the labels", func() {
				manager.participantsTotal.Set(3)
				families, err := registry.Gather()
				So(err, ShouldBeNil)

				var label string
				for _, f := range families {
					if f.GetName() == "roster_participants_total" {
						for _, lp := range f.GetMetric()[0].GetLabel() {
							if lp.GetName() == "deployment" {
								label = lp.GetValue()
							}
						}
					}
				}
				So(label, ShouldEqual, "staging")
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording ingestion metrics", func() {
			before := testutil.ToFloat64(globalManager.sourceOutcomes.WithLabelValues("current", OutcomeOK))
			RecordSourceOutcome("current", OutcomeOK)
			RecordSourceRows("current", 10, 2, 8)
			RecordIngestRun(12.5)
			RecordIngestRetained()
			UpdateParticipantsTotal(8)

			Convey("Then the counters and gauges move", func() {
				So(testutil.ToFloat64(globalManager.sourceOutcomes.WithLabelValues("current", OutcomeOK)), ShouldEqual, before+1)
				So(testutil.ToFloat64(globalManager.sourceParticipants.WithLabelValues("current")), ShouldEqual, 8)
				So(testutil.ToFloat64(globalManager.participantsTotal), ShouldEqual, 8)
			})
		})

		Convey("When recording fetch metrics", func() {
			before := testutil.ToFloat64(globalManager.fetchProxyFallbacks)
			RecordFetchLatency("https", OutcomeOK, 40)
			RecordFetchProxyFallback()

			Convey("Then the fallback counter increments", func() {
				So(testutil.ToFloat64(globalManager.fetchProxyFallbacks), ShouldEqual, before+1)
			})
		})

		Convey("When recording query and embed metrics", func() {
			before := testutil.ToFloat64(globalManager.queries.WithLabelValues("alumni"))
			RecordQuery("alumni", 0.3, 4)
			RecordEmbedResolved("iframe")

			Convey("Then the query counter increments per view", func() {
				So(testutil.ToFloat64(globalManager.queries.WithLabelValues("alumni")), ShouldEqual, before+1)
				So(testutil.ToFloat64(globalManager.embedResolved.WithLabelValues("iframe")), ShouldBeGreaterThanOrEqualTo, 1)
			})
		})

		Convey("When publishing a snapshot", func() {
			at := time.Unix(1700000000, 0)
			RecordSnapshotPublished(7, 1.5, at)

			Convey("Then the version and timestamp are exported", func() {
				So(testutil.ToFloat64(globalManager.snapshotVersion), ShouldEqual, 7)
				So(testutil.ToFloat64(globalManager.snapshotLastUnix), ShouldEqual, 1700000000)
			})
		})

		Convey("When recording HTTP, error and system metrics", func() {
			So(func() {
				RecordHTTPRequest("/participants", "GET", "200")
				RecordHTTPRequestDuration("/participants", "GET", "200", 3.2)
				RecordErrorByComponent("ingest", "fetch_error")
				RecordErrorByType("fetch_error", "warning")
				RecordErrorByEndpoint("/reload", "POST", "internal")
				RecordErrorLatency("ingest", "fetch_error", 50)
				UpdateSystemMemoryUsage(1024)
				UpdateSystemGoroutineCount(12)
				RecordSystemGCPauseTime(0.4)
			}, ShouldNotPanic)

			Convey("Then gauges hold the last value", func() {
				So(testutil.ToFloat64(globalManager.systemGoroutineCount), ShouldEqual, 12)
			})
		})

		Convey("When reading the registry", func() {
			Convey("Then the custom registry is returned", func() {
				So(GetRegistry(), ShouldEqual, customRegistry)
				So(RefreshInterval(), ShouldEqual, defaultRefreshInterval)
			})
		})
	})
}

func TestMetricsEdgeCases(t *testing.T) {
	Convey("Given metrics edge cases", t, func() {
		Convey("When recording metrics with edge values", func() {
			Convey("And using zero values", func() {
				So(func() {
					UpdateParticipantsTotal(0)
					RecordSourceRows("zero", 0, 0, 0)
					RecordQuery("current", 0, 0)
					RecordHTTPRequestDuration("/test", "GET", "200", 0.0)
				}, ShouldNotPanic)
			})

			Convey("And using empty strings", func() {
				So(func() {
					RecordSourceOutcome("", "")
					RecordHTTPRequest("", "", "200")
					RecordHTTPRequestDuration("", "", "200", 10.0)
					RecordErrorByComponent("", "")
					RecordErrorByType("", "")
					RecordErrorByEndpoint("", "", "")
					RecordErrorLatency("", "", 10.0)
				}, ShouldNotPanic)
			})

			Convey("And using special characters in labels", func() {
				So(func() {
					RecordHTTPRequest("/participants?q=a&sport=mma", "GET", "200")
					RecordErrorByComponent("component-with-dash", "error_with_underscore")
					RecordErrorByType("error.with.dots", "error")
					RecordSourceOutcome("https://docs.example/sheet.csv", OutcomeFetchError)
				}, ShouldNotPanic)
			})
		})
	})
}

func TestMetricsConcurrency(t *testing.T) {
	Convey("Given metrics concurrency", t, func() {
		Convey("When recording metrics concurrently", func() {
			done := make(chan bool, 10)

			for i := 0; i < 10; i++ {
				go func() {
					for j := 0; j < 100; j++ {
						RecordQuery("current", float64(j), j)
						RecordSourceOutcome("concurrent", OutcomeOK)
						RecordHTTPRequest("/test", "GET", "200")
					}
					done <- true
				}()
			}

			for i := 0; i < 10; i++ {
				<-done
			}

			Convey("Then every increment is counted", func() {
				So(testutil.ToFloat64(globalManager.sourceOutcomes.WithLabelValues("concurrent", OutcomeOK)), ShouldEqual, 1000)
			})
		})
	})
}

func TestMetricsOptionsValidation(t *testing.T) {
	Convey("Given metrics options validation", t, func() {
		Convey("When creating with empty values", func() {
			manager := NewManager(
				WithCustomLabels(nil),
				WithRefreshInterval(0),
				WithPrometheusRegistry(prometheus.NewRegistry()),
			)

			Convey("Then defaults are kept", func() {
				So(manager.customLabels, ShouldNotBeNil)
				So(manager.refreshInterval, ShouldEqual, defaultRefreshInterval)
			})
		})

		Convey("When creating with a negative refresh interval", func() {
			manager := NewManager(WithRefreshInterval(-1*time.Second), WithPrometheusRegistry(prometheus.NewRegistry()))

			Convey("Then it is ignored", func() {
				So(manager.refreshInterval, ShouldEqual, defaultRefreshInterval)
			})
		})

		Convey("When creating with a nil registry", func() {
			manager := NewManager(WithPrometheusRegistry(nil), WithCustomLabels(map[string]string{"case": "nil_registry"}))

			Convey("Then the default registerer is used", func() {
				So(manager.registry, ShouldEqual, prometheus.DefaultRegisterer)
			})
		})
	})
}

func TestConfigure(t *testing.T) {
	Convey("Given a configured global manager", t, func() {
		defer Configure()

		Convey("When metrics are disabled", func() {
			Configure(WithMetricsEnabled(false), WithRefreshInterval(time.Minute))
			RecordSourceOutcome("disabled", OutcomeOK)
			UpdateParticipantsTotal(9)

			Convey("Then recording is a no-op on the new registry", func() {
				So(testutil.ToFloat64(globalManager.sourceOutcomes.WithLabelValues("disabled", OutcomeOK)), ShouldEqual, 0)
				So(testutil.ToFloat64(globalManager.participantsTotal), ShouldEqual, 0)
				So(RefreshInterval(), ShouldEqual, time.Minute)
				So(GetRegistry(), ShouldEqual, customRegistry)
			})
		})

		Convey("When constant labels are set", func() {
			Configure(WithCustomLabels(map[string]string{"deployment": "prod"}))
			UpdateParticipantsTotal(4)

			Convey("Then the exported series carry them", func() {
				families, err := GetRegistry().Gather()
				So(err, ShouldBeNil)
				var found bool
				for _, f := range families {
					if f.GetName() != "roster_participants_total" {
						continue
					}
					for _, lp := range f.GetMetric()[0].GetLabel() {
						found = found || (lp.GetName() == "deployment" && lp.GetValue() == "prod")
					}
				}
				So(found, ShouldBeTrue)
			})
		})
	})
}
