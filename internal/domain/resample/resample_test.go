package resample_test

import (
	"errors"
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	motion "github.com/strideworks/ghostrun/internal/domain/motion"
	"github.com/strideworks/ghostrun/internal/domain/resample"
)

// rampRecording fills a recording whose every cell encodes its own
// (frame, point, channel) coordinates so interpolation mistakes surface.
func rampRecording(frames, landmarks int) motion.Recording {
	rec := motion.NewRecording(frames, landmarks)
	for f := 0; f < frames; f++ {
		for j := 0; j < landmarks; j++ {
			for c := 0; c < motion.ChannelCount; c++ {
				rec.Set(f, j, c, float64(f)+float64(j)/100+float64(c)/1000)
			}
		}
	}
	return rec
}

func TestResampleIdentity(t *testing.T) {
	Convey("Given a recording of any length", t, func() {
		rec := rampRecording(7, 33)

		Convey("When resampling to its own length", func() {
			out, err := resample.ToLength(rec, 7)

			Convey("Then the input should come back exactly", func() {
				So(err, ShouldBeNil)
				So(out.Equal(rec), ShouldBeTrue)
			})
		})
	})
}

func TestResampleSingleFrame(t *testing.T) {
	Convey("Given a single-frame recording", t, func() {
		rec := motion.NewRecording(1, 5)
		for j := 0; j < 5; j++ {
			rec.Set(0, j, motion.ChannelX, float64(j)*0.1)
			rec.Set(0, j, motion.ChannelConfidence, 0.8)
		}

		Convey("When resampling to a longer length", func() {
			out, err := resample.ToLength(rec, 9)

			Convey("Then every output frame should copy the single input frame", func() {
				So(err, ShouldBeNil)
				So(out.Frames(), ShouldEqual, 9)
				src := rec.Frame(0)
				for f := 0; f < 9; f++ {
					got := out.Frame(f)
					for c := range src {
						So(got[c], ShouldEqual, src[c])
					}
				}
			})
		})

		Convey("When resampling to length one", func() {
			out, err := resample.ToLength(rec, 1)

			Convey("Then the input should come back unchanged", func() {
				So(err, ShouldBeNil)
				So(out.Equal(rec), ShouldBeTrue)
			})
		})
	})
}

func TestResampleInterpolation(t *testing.T) {
	Convey("Given a two-frame recording", t, func() {
		rec := motion.NewRecording(2, 1)
		rec.Set(0, 0, motion.ChannelX, 0)
		rec.Set(1, 0, motion.ChannelX, 1)
		rec.Set(0, 0, motion.ChannelConfidence, 0.2)
		rec.Set(1, 0, motion.ChannelConfidence, 0.8)

		Convey("When upsampling to three frames", func() {
			out, err := resample.ToLength(rec, 3)

			Convey("Then the middle frame should be the midpoint blend", func() {
				So(err, ShouldBeNil)
				So(out.Frames(), ShouldEqual, 3)
				So(out.At(0, 0, motion.ChannelX), ShouldEqual, 0)
				So(out.At(1, 0, motion.ChannelX), ShouldAlmostEqual, 0.5, 1e-15)
				So(out.At(2, 0, motion.ChannelX), ShouldEqual, 1)

				// Confidence interpolates like every other channel.
				So(out.At(1, 0, motion.ChannelConfidence), ShouldAlmostEqual, 0.5, 1e-15)
			})
		})
	})

	Convey("Given a longer ramp recording", t, func() {
		rec := rampRecording(10, 3)

		Convey("When downsampling to four frames", func() {
			out, err := resample.ToLength(rec, 4)

			Convey("Then endpoints should be preserved exactly", func() {
				So(err, ShouldBeNil)
				first := rec.Frame(0)
				gotFirst := out.Frame(0)
				for c := range first {
					So(gotFirst[c], ShouldEqual, first[c])
				}
				lastIn := rec.Frame(9)
				lastOut := out.Frame(3)
				for c := range lastIn {
					So(lastOut[c], ShouldEqual, lastIn[c])
				}
			})

			Convey("And interior frames should follow the sampling rule", func() {
				So(err, ShouldBeNil)
				// Output 1 samples p = 1*9/3 = 3 exactly.
				So(out.At(1, 0, motion.ChannelX), ShouldEqual, rec.At(3, 0, motion.ChannelX))
				// Output 2 samples p = 2*9/3 = 6 exactly.
				So(out.At(2, 1, motion.ChannelZ), ShouldEqual, rec.At(6, 1, motion.ChannelZ))
			})
		})

		Convey("When upsampling to fifteen frames", func() {
			out, err := resample.ToLength(rec, 15)

			Convey("Then blends should interpolate between neighbours", func() {
				So(err, ShouldBeNil)
				// Output 7 samples p = 7*9/14 = 4.5, the midpoint of frames 4 and 5.
				want := (rec.At(4, 2, motion.ChannelY) + rec.At(5, 2, motion.ChannelY)) / 2
				So(out.At(7, 2, motion.ChannelY), ShouldAlmostEqual, want, 1e-12)
			})
		})
	})
}

func TestResampleBoundsPreserved(t *testing.T) {
	Convey("Given a recording with confidences inside [0,1]", t, func() {
		rec := motion.NewRecording(6, 4)
		for f := 0; f < 6; f++ {
			for j := 0; j < 4; j++ {
				rec.Set(f, j, motion.ChannelConfidence, math.Abs(math.Sin(float64(f*7+j))))
			}
		}

		Convey("When resampling up and down", func() {
			for _, target := range []int{2, 5, 11, 40} {
				out, err := resample.ToLength(rec, target)
				So(err, ShouldBeNil)

				for f := 0; f < out.Frames(); f++ {
					for j := 0; j < out.Landmarks(); j++ {
						conf := out.At(f, j, motion.ChannelConfidence)
						So(conf, ShouldBeGreaterThanOrEqualTo, 0)
						So(conf, ShouldBeLessThanOrEqualTo, 1)
					}
				}
			}
		})
	})
}

func TestResampleErrors(t *testing.T) {
	Convey("Given invalid inputs", t, func() {
		Convey("When the recording is empty", func() {
			var empty motion.Recording
			_, err := resample.ToLength(empty, 5)

			Convey("Then it should fail with invalid input", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, motion.ErrInvalidInput), ShouldBeTrue)
			})
		})

		Convey("When the target is zero", func() {
			rec := rampRecording(3, 2)
			_, err := resample.ToLength(rec, 0)

			Convey("Then it should fail with invalid input", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, motion.ErrInvalidInput), ShouldBeTrue)
			})
		})

		Convey("When the target is negative", func() {
			rec := rampRecording(3, 2)
			_, err := resample.ToLength(rec, -4)

			Convey("Then it should fail with invalid input", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, motion.ErrInvalidInput), ShouldBeTrue)
			})
		})
	})
}
