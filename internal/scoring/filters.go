package scoring

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/halverson/scoutline/internal/csvio"
	"github.com/halverson/scoutline/internal/normalize"
)

// positionAliases collapses every raw position label into F or D. Anything
// not in the table (goaltenders, wingers spelled out oddly) drops the row.
var positionAliases = map[string]string{
	"F": "F", "D": "D",
	"F/D": "F", "D/F": "D",
	"FORWARD": "F", "DEFENSE": "D",
	"": "F", "-": "F",
	"LW": "F", "RW": "F", "C": "F",
	"LD": "D", "RD": "D",
}

// playerRow is one player surviving the row filters, carrying its source
// row index for column passthrough plus the per-cohort working values.
type playerRow struct {
	src       int
	team      string
	position  string
	gp        float64
	goals     float64
	assists   float64
	birthYear float64
	age       float64
	opp       float64

	actual float64
	sched  float64
	ageAdj float64
	pctAdj float64
	score  float64
}

func canonicalPosition(raw string) (string, bool) {
	pos, ok := positionAliases[strings.ToUpper(strings.TrimSpace(raw))]
	return pos, ok
}

func isNumericName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// coerce parses a numeric cell; failures become NaN, never errors.
func coerce(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// filterRows applies the row-level preconditions: position canonicalizes
// to F or D, player name is not purely numeric, duplicates collapse,
// games/goals/assists/birth year coerce cleanly, gp >= minGames and birth
// year >= minBirthYear. Cleaned player names and positions are written
// back into the table so they flow through to the output columns.
func (s *Scorer) filterRows(t *csvio.Table) []playerRow {
	playerCol := t.Col("player")
	positionCol := t.Col("position")

	seen := make(map[string]struct{})
	var rows []playerRow
	for i := range t.Rows {
		player := strings.TrimSpace(normalize.ASCII(t.Get(i, "player")))
		t.Rows[i][playerCol] = player

		pos, ok := canonicalPosition(t.Get(i, "position"))
		if !ok {
			continue
		}
		t.Rows[i][positionCol] = pos

		if isNumericName(player) {
			continue
		}

		key := strings.Join([]string{
			player, t.Get(i, "team"), t.Get(i, "gp"), t.Get(i, "g"),
			t.Get(i, "a"), t.Get(i, "birthyear"),
		}, "\x1f")
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		gp := coerce(t.Get(i, "gp"))
		goals := coerce(t.Get(i, "g"))
		assists := coerce(t.Get(i, "a"))
		if math.IsNaN(gp) || math.IsNaN(goals) || math.IsNaN(assists) {
			continue
		}
		if gp < float64(s.minGames) {
			continue
		}

		birthYear := coerce(t.Get(i, "birthyear"))
		if math.IsNaN(birthYear) || birthYear < float64(s.minBirthYear) {
			continue
		}

		rows = append(rows, playerRow{
			src:       i,
			team:      t.Get(i, "team"),
			position:  pos,
			gp:        gp,
			goals:     goals,
			assists:   assists,
			birthYear: birthYear,
			age:       float64(s.seasonEnd) - birthYear,
			opp:       coerce(t.Get(i, "opponentrating")),
		})
	}
	return rows
}
