package service_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	service "github.com/strideworks/ghostrun/internal/app"
	"github.com/strideworks/ghostrun/internal/domain/ghost"
	"github.com/strideworks/ghostrun/internal/domain/motion"
	"github.com/strideworks/ghostrun/pkg/logger"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

// testRecording builds a deterministic recording for service tests.
func testRecording(frames, landmarks int, seed float64) motion.Recording {
	rec := motion.NewRecording(frames, landmarks)
	for f := 0; f < frames; f++ {
		for j := 0; j < landmarks; j++ {
			t := seed + float64(f)*0.25 + float64(j)*0.04
			rec.Set(f, j, motion.ChannelX, math.Sin(t))
			rec.Set(f, j, motion.ChannelY, math.Cos(t))
			rec.Set(f, j, motion.ChannelZ, math.Sin(t)*0.3)
			rec.Set(f, j, motion.ChannelConfidence, 0.9)
		}
	}
	return rec
}

func testRecordings(landmarks int) []motion.Recording {
	lengths := []int{10, 12, 14, 16, 18}
	recs := make([]motion.Recording, len(lengths))
	for i, n := range lengths {
		recs[i] = testRecording(n, landmarks, float64(i))
	}
	return recs
}

// stubExtractor satisfies service.Extractor for tests.
type stubExtractor struct {
	rec motion.Recording
	err error
}

func (e *stubExtractor) Extract(_ context.Context, _, _ string) (motion.Recording, error) {
	return e.rec, e.err
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should have sensible defaults", func() {
			So(svc, ShouldNotBeNil)
			So(svc.LandmarkCount(), ShouldEqual, motion.DefaultLandmarkCount)
			So(svc.RecordingsPerProfile(), ShouldEqual, ghost.DefaultRecordingsPerProfile)
		})
	})

	Convey("Given a new service with custom options", t, func() {
		svc := service.New(
			service.WithLandmarkCount(17),
			service.WithRecordingsPerProfile(3),
			service.WithToleranceFloor(1e-4),
			service.WithWorkers(4),
		)

		Convey("Then it should be created successfully", func() {
			So(svc, ShouldNotBeNil)
			So(svc.LandmarkCount(), ShouldEqual, 17)
			So(svc.RecordingsPerProfile(), ShouldEqual, 3)
		})
	})
}

func TestService_Start(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New()
		// Ensure service is stopped after test
		defer svc.Stop()

		Convey("When starting the service", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			err := svc.Start(ctx)

			Convey("Then it should start successfully", func() {
				So(err, ShouldBeNil)
			})

			Convey("And it should be marked as started", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
			})
		})
	})
}

func TestService_Stop(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := service.New()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := svc.Start(ctx)
		So(err, ShouldBeNil)

		Convey("When stopping the service", func() {
			svc.Stop()

			Convey("Then it should be marked as stopped", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, false)
			})
		})
	})
}

func TestService_BuildProfile(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := service.New()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When building a profile from five recordings", func() {
			profile, err := svc.BuildProfile(ctx, testRecordings(33), 0)

			Convey("Then it should succeed with the mean length", func() {
				So(err, ShouldBeNil)
				So(profile.FrameCount, ShouldEqual, 14)
				So(profile.SourceFrameCounts, ShouldResemble, []int{10, 12, 14, 16, 18})
			})

			Convey("And the counters should reflect the build", func() {
				So(err, ShouldBeNil)
				stats := svc.GetStats()
				So(stats["profilesBuilt"], ShouldEqual, int64(1))
			})
		})

		Convey("When building with the wrong number of recordings", func() {
			_, err := svc.BuildProfile(ctx, testRecordings(33)[:3], 0)

			Convey("Then it should fail with invalid input", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, motion.ErrInvalidInput), ShouldBeTrue)
			})
		})
	})
}

func TestService_ScoreRun(t *testing.T) {
	Convey("Given a started service and a built profile", t, func() {
		svc := service.New()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		recs := testRecordings(33)
		profile, err := svc.BuildProfile(ctx, recs, 0)
		So(err, ShouldBeNil)

		Convey("When scoring the representative recording", func() {
			result, serr := svc.ScoreRun(ctx, recs[profile.RepresentativeIndex], profile)

			Convey("Then its total error should reproduce the build distance", func() {
				So(serr, ShouldBeNil)
				So(result.TotalError, ShouldEqual, profile.RepresentativeDistance)
				So(result.FrameCount, ShouldEqual, profile.FrameCount)
			})
		})

		Convey("When scoring against an empty profile", func() {
			_, serr := svc.ScoreRun(ctx, recs[0], ghost.Profile{})

			Convey("Then it should fail with invalid input", func() {
				So(serr, ShouldNotBeNil)
				So(errors.Is(serr, motion.ErrInvalidInput), ShouldBeTrue)
			})
		})
	})
}

func TestService_Resample(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := service.New()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When resampling a recording", func() {
			out, err := svc.Resample(ctx, testRecording(10, 33, 1.1), 25)

			Convey("Then it should have the target length", func() {
				So(err, ShouldBeNil)
				So(out.Frames(), ShouldEqual, 25)
				So(out.Landmarks(), ShouldEqual, 33)
			})
		})

		Convey("When resampling to an invalid length", func() {
			_, err := svc.Resample(ctx, testRecording(10, 33, 1.1), 0)

			Convey("Then it should fail with invalid input", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, motion.ErrInvalidInput), ShouldBeTrue)
			})
		})
	})
}

func TestService_ExtractRecording(t *testing.T) {
	Convey("Given a service without an extractor", t, func() {
		svc := service.New()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When extracting a recording", func() {
			_, err := svc.ExtractRecording(ctx, "run.mp4", "posterior")

			Convey("Then it should report extraction unavailable", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, service.ErrExtractionUnavailable), ShouldBeTrue)
			})
		})
	})

	Convey("Given a service with a wired extractor", t, func() {
		want := testRecording(6, 33, 2.2)
		svc := service.New(service.WithExtractor(&stubExtractor{rec: want}))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When extracting a recording", func() {
			rec, err := svc.ExtractRecording(ctx, "run.mp4", "lateral")

			Convey("Then the extractor's recording should come back", func() {
				So(err, ShouldBeNil)
				So(rec.Equal(want), ShouldBeTrue)
			})

			Convey("And the stats should report the extractor", func() {
				stats := svc.GetStats()
				So(stats["extractorWired"], ShouldEqual, true)
				So(stats["extractions"], ShouldEqual, int64(1))
			})
		})
	})
}

func TestService_GetStats(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New()

		Convey("When getting stats before starting", func() {
			stats := svc.GetStats()

			Convey("Then it should return basic stats", func() {
				So(stats, ShouldNotBeNil)
				So(stats["started"], ShouldEqual, false)
				So(stats["extractorWired"], ShouldEqual, false)
			})
		})
	})
}
