// Package scoring turns raw box-score totals into calibrated prospect
// scores and discrete grades, normalized within class-label cohorts.
package scoring

import (
	"errors"
	"math"

	"github.com/halverson/scoutline/internal/csvio"
)

// ErrNoRows aborts a run whose stats table is empty: every downstream
// cohort statistic would divide by zero or take an empty quantile.
var ErrNoRows = errors.New("player stats table has no rows")

// classFields are the cohort group-by columns, each processed
// independently; a player with several class labels appears in several
// cohorts.
var classFields = []string{"class 1", "class 2", "class 3"}

// requiredColumns must exist (after header folding) in the scorer input.
var requiredColumns = []string{
	"player", "team", "position", "gp", "g", "a", "birthyear", "opponentrating",
}

// DerivedColumns are appended to the input columns in every cohort output
// table, in this order.
var DerivedColumns = []string{
	"actualppg", "schedadjppg", "ageadjppg", "pctteampointsadjppg",
	"truproscore", "positional_z_score", "prospect_grade",
	"scheddifffromactual", "agedifffromactual", "truprodifffromactual",
}

// Scoring weights and bounds. The schedule multiplier is clamped to avoid
// runaway boosts from outlier schedules; the age range floor keeps
// single-age cohorts from exploding the age factor.
const (
	oppRatingQuantile = 0.05
	schedWeight       = 2.5
	schedMultMin      = 0.5
	schedMultMax      = 1.5
	oppRangeFloor     = 1.0
	ageWeight         = 1.5
	ageRangeFloor     = 1.5
	shareWeight       = 1.5
)

// CohortTable is one scored cohort: the class column it was grouped on,
// the cohort value, and the output table (input columns + DerivedColumns).
type CohortTable struct {
	Field string
	Value string
	Table *csvio.Table
}

// Scorer computes cohort scores for one season snapshot.
type Scorer struct {
	seasonEnd    int
	minGames     int
	minBirthYear int
}

// New creates a scorer for the season ending in seasonEnd (player age is
// seasonEnd minus birth year).
func New(seasonEnd int) *Scorer {
	return &Scorer{seasonEnd: seasonEnd, minGames: 10, minBirthYear: 1999}
}

// Score partitions the player table into cohorts per class field and
// scores each one. Input headers are matched case-insensitively. The input
// table is not modified. Deterministic: identical input yields identical
// output, so reruns are idempotent.
func (s *Scorer) Score(input *csvio.Table) ([]CohortTable, error) {
	if input.Len() == 0 {
		return nil, ErrNoRows
	}

	t := input.Clone()
	t.FoldHeaders()
	if err := t.RequireCols(requiredColumns...); err != nil {
		return nil, err
	}

	rows := s.filterRows(t)

	var out []CohortTable
	for _, field := range classFields {
		if !t.HasCol(field) {
			continue
		}
		for _, value := range distinctValues(t, rows, field) {
			group := collectGroup(t, rows, field, value)
			cohort := s.scoreCohort(t, group)
			if cohort != nil {
				out = append(out, CohortTable{Field: field, Value: value, Table: cohort})
			}
		}
	}
	return out, nil
}

// distinctValues lists the non-empty values of a class field across the
// filtered rows, in first-appearance order.
func distinctValues(t *csvio.Table, rows []playerRow, field string) []string {
	seen := make(map[string]struct{})
	var values []string
	for _, r := range rows {
		v := t.Get(r.src, field)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	return values
}

// collectGroup copies the rows belonging to one cohort. Copies, because
// the same player may score differently in each of its cohorts.
func collectGroup(t *csvio.Table, rows []playerRow, field, value string) []playerRow {
	var group []playerRow
	for _, r := range rows {
		if t.Get(r.src, field) == value {
			group = append(group, r)
		}
	}
	return group
}

// scoreCohort runs the adjustment chain for one cohort and renders its
// output table. Returns nil when no row survives the schedule-strength
// cut, which simply omits the cohort.
func (s *Scorer) scoreCohort(t *csvio.Table, group []playerRow) *csvio.Table {
	for i := range group {
		group[i].actual = round2((group[i].goals + group[i].assists) / group[i].gp)
	}

	// Teams below the 5th percentile of opponent rating carry too weak a
	// schedule signal to compare against.
	var opps []float64
	for _, r := range group {
		if !math.IsNaN(r.opp) {
			opps = append(opps, r.opp)
		}
	}
	if len(opps) == 0 {
		return nil
	}
	cutoff := quantile(opps, oppRatingQuantile)

	var kept []playerRow
	for _, r := range group {
		if !math.IsNaN(r.opp) && r.opp >= cutoff {
			kept = append(kept, r)
		}
	}
	if len(kept) == 0 {
		return nil
	}

	// Schedule-adjusted: reward above-average competition, bounded.
	minOpp, maxOpp := kept[0].opp, kept[0].opp
	sumOpp := 0.0
	for _, r := range kept {
		sumOpp += r.opp
		if r.opp < minOpp {
			minOpp = r.opp
		}
		if r.opp > maxOpp {
			maxOpp = r.opp
		}
	}
	meanOpp := sumOpp / float64(len(kept))
	rangeOpp := math.Max(maxOpp-minOpp, oppRangeFloor)
	for i := range kept {
		strength := (kept[i].opp - meanOpp) / rangeOpp
		mult := clamp(1+strength*schedWeight, schedMultMin, schedMultMax)
		kept[i].sched = round2(kept[i].actual * mult)
	}

	// Age-adjusted: boost younger-than-cohort-average players in
	// proportion to the cohort's age spread.
	ages := make([]float64, len(kept))
	for i, r := range kept {
		ages[i] = r.age
	}
	meanAge := mean(ages)
	minAge, maxAge := ages[0], ages[0]
	for _, a := range ages {
		if a < minAge {
			minAge = a
		}
		if a > maxAge {
			maxAge = a
		}
	}
	rangeAge := math.Max(maxAge-minAge, ageRangeFloor)
	for i := range kept {
		factor := (meanAge - kept[i].age) / rangeAge
		kept[i].ageAdj = round2(kept[i].sched * (1 + factor*ageWeight))
	}

	// Team-share-adjusted: boost players shouldering more of their
	// team's scoring, centered on the cohort mean share.
	teamTotals := make(map[string]float64)
	for _, r := range kept {
		teamTotals[r.team] += r.goals + r.assists
	}
	shares := make([]float64, len(kept))
	for i, r := range kept {
		if total := teamTotals[r.team]; total > 0 {
			shares[i] = (r.goals + r.assists) / total
		} else {
			shares[i] = math.NaN()
		}
	}
	meanShare := mean(shares)
	for i := range kept {
		kept[i].pctAdj = round2(kept[i].sched * (1 + (shares[i]-meanShare)*shareWeight))
	}

	for i := range kept {
		kept[i].score = round2((kept[i].sched + kept[i].ageAdj + kept[i].pctAdj) / 3)
	}

	out := csvio.NewTable(append(append([]string(nil), t.Columns...), DerivedColumns...)...)
	for _, pos := range []string{"F", "D"} {
		s.gradeSubgroup(t, kept, pos, out)
	}
	return out
}

// gradeSubgroup z-scores one position subgroup of a cohort and appends its
// rows to the output table.
func (s *Scorer) gradeSubgroup(t *csvio.Table, kept []playerRow, pos string, out *csvio.Table) {
	var sub []playerRow
	for _, r := range kept {
		if r.position == pos {
			sub = append(sub, r)
		}
	}
	if len(sub) == 0 {
		return
	}

	scores := make([]float64, len(sub))
	for i, r := range sub {
		scores[i] = r.score
	}
	meanScore := mean(scores)
	std := sampleStd(scores)
	superThreshold := meanScore + 2.5*std + std

	for _, r := range sub {
		z := math.NaN()
		if std > 0 && !math.IsNaN(r.score) {
			z = round2((r.score - meanScore) / std)
		}
		grade := assignGrade(r.score, z, superThreshold)

		row := append([]string(nil), t.Rows[r.src]...)
		row = append(row,
			fmtFloat(r.actual),
			fmtFloat(r.sched),
			fmtFloat(r.ageAdj),
			fmtFloat(r.pctAdj),
			fmtFloat(r.score),
			fmtFloat(z),
			grade,
			fmtFloat(round2(r.sched-r.actual)),
			fmtFloat(round2(r.ageAdj-r.actual)),
			fmtFloat(round2(r.score-r.actual)),
		)
		out.Append(row...)
	}
}
