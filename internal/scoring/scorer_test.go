package scoring_test

import (
	"bytes"
	"fmt"
	"reflect"
	"testing"

	"github.com/halverson/scoutline/internal/csvio"
	"github.com/halverson/scoutline/internal/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

// statsTable builds a scorer input table with deliberately mixed-case
// headers; the scorer must fold them.
func statsTable() *csvio.Table {
	return csvio.NewTable(
		"Player", "Team", "Position", "GP", "G", "A", "BirthYear",
		"Class 1", "Class 2", "Class 3", "OpponentRating",
	)
}

func addPlayer(t *csvio.Table, player, team, pos, gp, g, a, birthYear, class1, opp string) {
	t.Append(player, team, pos, gp, g, a, birthYear, class1, "", "", opp)
}

func TestScoreEndToEnd(t *testing.T) {
	Convey("Given one team with three forwards sharing an opponent rating", t, func() {
		in := statsTable()
		addPlayer(in, "Alex Morin", "Storm", "F", "12", "5", "5", "2008", "U16 AAA", "90")
		addPlayer(in, "Ben Carter", "Storm", "F", "15", "2", "1", "2008", "U16 AAA", "90")
		addPlayer(in, "Carl Dube", "Storm", "F", "20", "10", "12", "2008", "U16 AAA", "90")

		cohorts, err := scoring.New(2024).Score(in)
		So(err, ShouldBeNil)
		So(cohorts, ShouldHaveLength, 1)
		out := cohorts[0].Table

		Convey("Every row carries actual PPG = (g+a)/gp rounded to 2 decimals", func() {
			So(out.Len(), ShouldEqual, 3)
			So(out.Get(0, "actualppg"), ShouldEqual, "0.83")
			So(out.Get(1, "actualppg"), ShouldEqual, "0.2")
			So(out.Get(2, "actualppg"), ShouldEqual, "1.1")
		})

		Convey("With a flat schedule and age profile, adjustments only reflect team share", func() {
			So(out.Get(0, "schedadjppg"), ShouldEqual, "0.83")
			So(out.Get(0, "ageadjppg"), ShouldEqual, "0.83")
			So(out.Get(0, "pctteampointsadjppg"), ShouldEqual, "0.77")
			So(out.Get(1, "pctteampointsadjppg"), ShouldEqual, "0.13")
			So(out.Get(2, "pctteampointsadjppg"), ShouldEqual, "1.59")
		})

		Convey("Composite scores blend the three adjusted values", func() {
			So(out.Get(0, "truproscore"), ShouldEqual, "0.81")
			So(out.Get(1, "truproscore"), ShouldEqual, "0.18")
			So(out.Get(2, "truproscore"), ShouldEqual, "1.26")
		})

		Convey("Positional z-scores sum to approximately zero", func() {
			sum := 0.0
			for i := 0; i < out.Len(); i++ {
				var z float64
				_, err := fmt.Sscanf(out.Get(i, "positional_z_score"), "%f", &z)
				So(err, ShouldBeNil)
				sum += z
			}
			So(sum, ShouldAlmostEqual, 0.0, 1e-6)
		})

		Convey("Grades follow the z bands", func() {
			So(out.Get(0, "prospect_grade"), ShouldEqual, "")
			So(out.Get(1, "prospect_grade"), ShouldEqual, "")
			So(out.Get(2, "prospect_grade"), ShouldEqual, scoring.GradeSolid)
		})

		Convey("Difference-from-actual deltas line up", func() {
			So(out.Get(2, "scheddifffromactual"), ShouldEqual, "0")
			So(out.Get(2, "agedifffromactual"), ShouldEqual, "0")
			So(out.Get(2, "truprodifffromactual"), ShouldEqual, "0.16")
		})

		Convey("Input columns pass through ahead of the derived columns", func() {
			So(out.Columns[:11], ShouldResemble, []string{
				"player", "team", "position", "gp", "g", "a", "birthyear",
				"class 1", "class 2", "class 3", "opponentrating",
			})
			So(out.Get(0, "player"), ShouldEqual, "Alex Morin")
			So(out.Get(0, "opponentrating"), ShouldEqual, "90")
		})
	})
}

func TestScoreRowFilters(t *testing.T) {
	Convey("Given rows that violate the preconditions", t, func() {
		in := statsTable()
		addPlayer(in, "Kept Player", "Storm", "F", "10", "4", "4", "2008", "U16", "90")
		addPlayer(in, "Nine Games", "Storm", "F", "9", "9", "9", "2008", "U16", "90")
		addPlayer(in, "Goalie Guy", "Storm", "G", "20", "0", "1", "2008", "U16", "90")
		addPlayer(in, "1234", "Storm", "F", "20", "5", "5", "2008", "U16", "90")
		addPlayer(in, "Old Timer", "Storm", "F", "20", "5", "5", "1998", "U16", "90")
		addPlayer(in, "Bad Stats", "Storm", "F", "n/a", "5", "5", "2008", "U16", "90")
		addPlayer(in, "No Birth Year", "Storm", "F", "20", "5", "5", "", "U16", "90")
		addPlayer(in, "Kept Player", "Storm", "F", "10", "4", "4", "2008", "U16", "90")

		cohorts, err := scoring.New(2024).Score(in)
		So(err, ShouldBeNil)
		So(cohorts, ShouldHaveLength, 1)
		out := cohorts[0].Table

		Convey("Only the gp>=10 row with clean fields survives, once", func() {
			So(out.Len(), ShouldEqual, 1)
			So(out.Get(0, "player"), ShouldEqual, "Kept Player")
			So(out.Get(0, "gp"), ShouldEqual, "10")
		})
	})

	Convey("Given raw position labels", t, func() {
		in := statsTable()
		addPlayer(in, "Winger", "Storm", "lw", "10", "1", "1", "2008", "U16", "90")
		addPlayer(in, "Center", "Storm", "C", "10", "1", "1", "2008", "U16", "90")
		addPlayer(in, "Blue Liner", "Storm", "RD", "10", "1", "1", "2008", "U16", "90")
		addPlayer(in, "Unlabeled", "Storm", "", "10", "1", "1", "2008", "U16", "90")
		addPlayer(in, "Both Ways", "Storm", "F/D", "10", "1", "1", "2008", "U16", "90")

		cohorts, err := scoring.New(2024).Score(in)
		So(err, ShouldBeNil)
		out := cohorts[0].Table

		Convey("Labels collapse to F or D, forwards emitted first", func() {
			So(out.Len(), ShouldEqual, 5)
			var positions []string
			for i := 0; i < out.Len(); i++ {
				positions = append(positions, out.Get(i, "position"))
			}
			So(positions, ShouldResemble, []string{"F", "F", "F", "F", "D"})
		})
	})
}

func TestScoreScheduleCut(t *testing.T) {
	Convey("Given a cohort with one far-below-par opponent rating", t, func() {
		in := statsTable()
		addPlayer(in, "Strong Sched A", "Storm", "F", "10", "4", "4", "2008", "U16", "90")
		addPlayer(in, "Strong Sched B", "Wolves", "F", "10", "3", "3", "2008", "U16", "90")
		addPlayer(in, "Weak Sched", "Pylons", "F", "10", "9", "9", "2008", "U16", "50")

		cohorts, err := scoring.New(2024).Score(in)
		So(err, ShouldBeNil)
		out := cohorts[0].Table

		Convey("Rows under the 5th-percentile cutoff are dropped", func() {
			So(out.Len(), ShouldEqual, 2)
			for i := 0; i < out.Len(); i++ {
				So(out.Get(i, "player"), ShouldNotEqual, "Weak Sched")
			}
		})
	})

	Convey("Given a cohort with no parsable opponent ratings", t, func() {
		in := statsTable()
		addPlayer(in, "No Opp", "Storm", "F", "10", "4", "4", "2008", "U16", "")

		cohorts, err := scoring.New(2024).Score(in)
		So(err, ShouldBeNil)

		Convey("The cohort is omitted entirely", func() {
			So(cohorts, ShouldBeEmpty)
		})
	})
}

func TestScoreMultipleCohorts(t *testing.T) {
	Convey("Given a player carrying two class labels", t, func() {
		in := statsTable()
		in.Append("Dual Class", "Storm", "F", "12", "6", "6", "2008", "U16 AAA", "Showcase", "", "90")
		in.Append("Single Class", "Storm", "F", "12", "3", "3", "2008", "U16 AAA", "", "", "90")

		cohorts, err := scoring.New(2024).Score(in)
		So(err, ShouldBeNil)

		Convey("Each class field produces its own cohort", func() {
			So(cohorts, ShouldHaveLength, 2)
			So(cohorts[0].Field, ShouldEqual, "class 1")
			So(cohorts[0].Value, ShouldEqual, "U16 AAA")
			So(cohorts[0].Table.Len(), ShouldEqual, 2)
			So(cohorts[1].Field, ShouldEqual, "class 2")
			So(cohorts[1].Value, ShouldEqual, "Showcase")
			So(cohorts[1].Table.Len(), ShouldEqual, 1)
		})

		Convey("Scores are never comparable across cohorts: the dual-class player is re-scored per cohort", func() {
			So(cohorts[1].Table.Get(0, "player"), ShouldEqual, "Dual Class")
			// Alone in its second cohort the share adjustment is neutral.
			So(cohorts[1].Table.Get(0, "pctteampointsadjppg"), ShouldEqual, "1")
		})
	})
}

func TestScoreStarThreshold(t *testing.T) {
	Convey("Given fifteen pointless forwards and one dominant one", t, func() {
		in := statsTable()
		for i := 0; i < 15; i++ {
			addPlayer(in, fmt.Sprintf("Grinder %02d", i), "Storm", "F", "10", "0", "0", "2008", "U16", "90")
		}
		addPlayer(in, "Phenom", "Storm", "F", "10", "20", "20", "2008", "U16", "90")

		cohorts, err := scoring.New(2024).Score(in)
		So(err, ShouldBeNil)
		out := cohorts[0].Table

		Convey("The outlier clears the absolute super threshold", func() {
			last := out.Len() - 1
			So(out.Get(last, "player"), ShouldEqual, "Phenom")
			So(out.Get(last, "positional_z_score"), ShouldEqual, "3.75")
			So(out.Get(last, "prospect_grade"), ShouldEqual, scoring.GradeStar)
		})

		Convey("Everyone else stays ungraded", func() {
			for i := 0; i < out.Len()-1; i++ {
				So(out.Get(i, "prospect_grade"), ShouldEqual, "")
			}
		})
	})
}

func TestGradeMonotonicity(t *testing.T) {
	Convey("Given a spread of production in one position subgroup", t, func() {
		in := statsTable()
		for i := 0; i < 12; i++ {
			goals := fmt.Sprintf("%d", i)
			addPlayer(in, fmt.Sprintf("Player %02d", i), "Storm", "F", "10", goals, "0", "2008", "U16", "90")
		}

		cohorts, err := scoring.New(2024).Score(in)
		So(err, ShouldBeNil)
		out := cohorts[0].Table

		rank := map[string]int{
			"":                   0,
			scoring.GradeSolid:   1,
			scoring.GradeStrong:  2,
			scoring.GradeHighEnd: 3,
			scoring.GradeElite:   4,
			scoring.GradeStar:    5,
		}

		Convey("A strictly higher z never yields a lower-tier grade", func() {
			for i := 0; i < out.Len(); i++ {
				for j := 0; j < out.Len(); j++ {
					var zi, zj float64
					fmt.Sscanf(out.Get(i, "positional_z_score"), "%f", &zi)
					fmt.Sscanf(out.Get(j, "positional_z_score"), "%f", &zj)
					if zi > zj {
						So(rank[out.Get(i, "prospect_grade")],
							ShouldBeGreaterThanOrEqualTo, rank[out.Get(j, "prospect_grade")])
					}
				}
			}
		})
	})
}

func TestScoreSinglePlayerSubgroup(t *testing.T) {
	Convey("Given a subgroup with a single player", t, func() {
		in := statsTable()
		addPlayer(in, "Lone Defender", "Storm", "D", "10", "2", "2", "2008", "U16", "90")

		cohorts, err := scoring.New(2024).Score(in)
		So(err, ShouldBeNil)
		out := cohorts[0].Table

		Convey("The z-score is unresolvable and the player stays ungraded", func() {
			So(out.Len(), ShouldEqual, 1)
			So(out.Get(0, "positional_z_score"), ShouldEqual, "")
			So(out.Get(0, "prospect_grade"), ShouldEqual, "")
		})
	})
}

func TestScoreIdempotence(t *testing.T) {
	Convey("Given identical input scored twice", t, func() {
		build := func() *csvio.Table {
			in := statsTable()
			addPlayer(in, "Alex Morin", "Storm", "F", "12", "5", "5", "2008", "U16 AAA", "91.5")
			addPlayer(in, "Ben Carter", "Wolves", "F", "15", "2", "1", "2009", "U16 AAA", "88.2")
			addPlayer(in, "Carl Dube", "Storm", "D", "20", "10", "12", "2008", "U16 AAA", "91.5")
			addPlayer(in, "Dan Ebert", "Wolves", "D", "18", "1", "4", "2008", "U16 AAA", "88.2")
			return in
		}

		first, err := scoring.New(2024).Score(build())
		So(err, ShouldBeNil)
		second, err := scoring.New(2024).Score(build())
		So(err, ShouldBeNil)

		Convey("The outputs are byte-identical", func() {
			So(reflect.DeepEqual(first, second), ShouldBeTrue)

			var bufA, bufB bytes.Buffer
			So(csvio.Write(&bufA, first[0].Table), ShouldBeNil)
			So(csvio.Write(&bufB, second[0].Table), ShouldBeNil)
			So(bufA.String(), ShouldEqual, bufB.String())
		})
	})
}

func TestScoreErrors(t *testing.T) {
	Convey("Given an empty stats table", t, func() {
		_, err := scoring.New(2024).Score(statsTable())

		Convey("The run fails with the fatal no-rows error", func() {
			So(err, ShouldEqual, scoring.ErrNoRows)
		})
	})

	Convey("Given a table missing required columns", t, func() {
		in := csvio.NewTable("Player", "Team")
		in.Append("Someone", "Storm")

		_, err := scoring.New(2024).Score(in)
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, "missing required columns")
	})
}
