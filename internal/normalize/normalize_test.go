package normalize_test

import (
	"testing"

	"github.com/halverson/scoutline/internal/normalize"
	. "github.com/smartystreets/goconvey/convey"
)

func TestName(t *testing.T) {
	Convey("Given free-text team names", t, func() {
		Convey("Accents, case and punctuation do not change the key", func() {
			So(normalize.Name("Montréal  Jr."), ShouldEqual, "montreal jr")
			So(normalize.Name("montreal jr"), ShouldEqual, "montreal jr")
			So(normalize.Name("MONTREAL-JR"), ShouldEqual, "montreal jr")
		})

		Convey("Digits survive and separators collapse", func() {
			So(normalize.Name("Elite   Hockey -- U18"), ShouldEqual, "elite hockey u18")
			So(normalize.Name("  16U AAA  "), ShouldEqual, "16u aaa")
		})

		Convey("Empty and non-ASCII-only input normalizes to empty", func() {
			So(normalize.Name(""), ShouldEqual, "")
			So(normalize.Name("   "), ShouldEqual, "")
			So(normalize.Name("★★★"), ShouldEqual, "")
		})

		Convey("Normalization is idempotent", func() {
			once := normalize.Name("Châteauguay Grenadiers U-15")
			So(normalize.Name(once), ShouldEqual, once)
		})
	})
}

func TestASCII(t *testing.T) {
	Convey("Given player names with diacritics", t, func() {
		Convey("Case and punctuation survive, marks fold away", func() {
			So(normalize.ASCII("Édouard Côté"), ShouldEqual, "Edouard Cote")
			So(normalize.ASCII("O'Brien, J.R."), ShouldEqual, "O'Brien, J.R.")
		})

		Convey("Characters with no ASCII fold are dropped", func() {
			So(normalize.ASCII("Yūki ★"), ShouldEqual, "Yuki ")
		})
	})
}

func TestAgeLevel(t *testing.T) {
	Convey("Given team names carrying age codes", t, func() {
		So(normalize.AgeLevel("Jr. Eagles U16"), ShouldEqual, "16")
		So(normalize.AgeLevel("Jr. Eagles u 16"), ShouldEqual, "16")
		So(normalize.AgeLevel("Jr. Eagles 16U AAA"), ShouldEqual, "16")
		So(normalize.AgeLevel("Jr. Eagles 16 u"), ShouldEqual, "16")
		So(normalize.AgeLevel("Jr. Eagles"), ShouldEqual, "")
		So(normalize.AgeLevel("Jr. Eagles U7"), ShouldEqual, "")
	})
}

func TestFileName(t *testing.T) {
	Convey("Given cohort values used as file stems", t, func() {
		So(normalize.FileName("U16 AAA (Tier 1)"), ShouldEqual, "U16_AAA_Tier_1_")

		Convey("Long values truncate at 60 characters", func() {
			long := ""
			for i := 0; i < 10; i++ {
				long += "abcdefghij"
			}
			So(len(normalize.FileName(long)), ShouldEqual, 60)
		})
	})
}
