package weightkey_test

import (
	"testing"

	"github.com/okian/roster/internal/domain/weightkey"
	. "github.com/smartystreets/goconvey/convey"
)

func TestToKey(t *testing.T) {
	Convey("Given weight-class labels written by different people", t, func() {
		labels := []string{"Super Featherweight", "super-featherweight", "SUPERFEATHERWEIGHT", "  super feather weight\t"}

		Convey("Then they collapse to one key", func() {
			for _, l := range labels {
				So(weightkey.ToKey(l), ShouldEqual, "superfeatherweight")
			}
		})
	})

	Convey("Given labels with digits and symbols", t, func() {
		Convey("Then only letters survive", func() {
			So(weightkey.ToKey("Catchweight (147 lbs)"), ShouldEqual, "catchweightlbs")
			So(weightkey.ToKey("147"), ShouldEqual, "")
			So(weightkey.ToKey(""), ShouldEqual, "")
		})
	})

	Convey("Given non-ASCII letters", t, func() {
		Convey("Then they are dropped", func() {
			So(weightkey.ToKey("Pluma Ñ"), ShouldEqual, "pluma")
		})
	})

	Convey("Given any input", t, func() {
		inputs := []string{"Light Heavyweight", "  ", "Mini-Fly 105", "WELTER", "weltér", "a\nb"}

		Convey("Then ToKey is idempotent", func() {
			for _, in := range inputs {
				k := weightkey.ToKey(in)
				So(weightkey.ToKey(k), ShouldEqual, k)
			}
		})
	})
}

func TestPretty(t *testing.T) {
	Convey("Given canonical keys", t, func() {
		Convey("Then known prefixes are split off", func() {
			So(weightkey.Pretty("superfeatherweight"), ShouldEqual, "super featherweight")
			So(weightkey.Pretty("lightheavyweight"), ShouldEqual, "light heavy weight")
			So(weightkey.Pretty("middleweight"), ShouldEqual, "middle weight")
			So(weightkey.Pretty("cruiserweight"), ShouldEqual, "cruiser weight")
			So(weightkey.Pretty("featherweight"), ShouldEqual, "featherweight")
			So(weightkey.Pretty(""), ShouldEqual, "")
		})
	})
}
