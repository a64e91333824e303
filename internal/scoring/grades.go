package scoring

import "math"

// Prospect grade tiers, highest first. Most players earn no grade.
const (
	GradeStar    = "Star Prospect"
	GradeElite   = "Elite Prospect"
	GradeHighEnd = "High-End Prospect"
	GradeStrong  = "Strong Prospect"
	GradeSolid   = "Solid Prospect"
)

// assignGrade evaluates tiers in order, first match wins. The top tier is
// an absolute threshold on the composite score (mean + 2.5 std + one more
// std, kept as two terms deliberately); the rest are z-score bands. NaN
// comparisons are all false, so unresolvable scores stay ungraded.
func assignGrade(score, z, superThreshold float64) string {
	switch {
	case !math.IsNaN(score) && !math.IsNaN(superThreshold) && score >= superThreshold:
		return GradeStar
	case z > 2.5:
		return GradeElite
	case z > 2.0:
		return GradeHighEnd
	case z > 1.0:
		return GradeStrong
	case z > 0.5:
		return GradeSolid
	default:
		return ""
	}
}
