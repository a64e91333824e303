package mhr_test

import (
	"testing"

	"github.com/halverson/scoutline/internal/ingest/mhr"
	. "github.com/smartystreets/goconvey/convey"
)

const standingsHTML = `
<html><body>
<table>
  <tr><th>#</th><th>Team</th><th>Record</th><th>Rating</th><th>AGD</th><th>Sched</th><th>Links</th></tr>
  <tr>
    <td>1</td><td>Elite 18U AAA</td><td>20-4-1</td><td>91.2*</td><td>+2.4</td><td>88.7</td>
    <td>
      <a href="https://www.eliteprospects.com/team/101/elite-18-u18">EP</a>
      <a href="https://twitter.com/elite18">Twitter</a>
    </td>
  </tr>
  <tr>
    <td>2</td><td>Storm U16</td><td>12-10-2</td><td>84.1</td><td>-0.8</td><td>83.5</td>
    <td><a href="https://www.stormhockey.example/">Site</a></td>
  </tr>
  <tr>
    <td>3</td><td>Storm U16</td><td>12-10-2</td><td>84.1</td><td>-0.8</td><td>83.5</td>
    <td><a href="https://www.stormhockey.example/">Site</a></td>
  </tr>
  <tr><td>4</td><td>Short Row</td></tr>
</table>
</body></html>`

func TestParseStandings(t *testing.T) {
	Convey("Given a rendered standings page", t, func() {
		doc, err := mhr.ParseHTML(standingsHTML)
		So(err, ShouldBeNil)

		teams := mhr.ParseStandings(doc)

		Convey("Valid rows parse, duplicates and short rows are skipped", func() {
			So(teams, ShouldHaveLength, 2)
		})

		Convey("Ratings are stripped to numeric text", func() {
			So(teams[0].TeamRating, ShouldEqual, "91.2")
			So(teams[0].AGD, ShouldEqual, "2.4")
			So(teams[1].AGD, ShouldEqual, "-0.8")
			So(teams[0].OpponentRating, ShouldEqual, "88.7")
		})

		Convey("Profile links split from other links", func() {
			So(teams[0].EPURL, ShouldEqual, "https://www.eliteprospects.com/team/101/elite-18-u18")
			So(teams[0].OtherLinks, ShouldResemble, []string{"https://twitter.com/elite18"})
			So(teams[1].EPURL, ShouldEqual, "")
			So(teams[1].OtherLinks, ShouldResemble, []string{"https://www.stormhockey.example/"})
		})

		Convey("Names normalize and age codes extract", func() {
			So(teams[0].NormalizedTeam, ShouldEqual, "elite 18u aaa")
			So(teams[0].AgeLevel, ShouldEqual, "18")
			So(teams[1].AgeLevel, ShouldEqual, "16")
		})
	})

	Convey("Given a page without a standings table", t, func() {
		doc, err := mhr.ParseHTML("<html><body><p>maintenance</p></body></html>")
		So(err, ShouldBeNil)
		So(mhr.ParseStandings(doc), ShouldBeEmpty)
	})
}
