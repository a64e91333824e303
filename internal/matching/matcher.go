// Package matching resolves scraped teams against the reference mapping by
// fuzzy name similarity under an age-class compatibility gate, with global
// one-to-one assignment.
package matching

import (
	"log"

	"github.com/halverson/scoutline/internal/ageclass"
	"github.com/halverson/scoutline/internal/prospect"
)

// UsedRefs tracks reference teams already consumed within a run, keyed by
// normalized name. Passed in and mutated explicitly so the matcher carries
// no package state.
type UsedRefs map[string]struct{}

// Result holds the outcome of one matching pass. Unmatched lists scraped
// team names that survived no candidate: an omission, not an error.
type Result struct {
	Matched   []prospect.MatchedTeam
	Unmatched []string
}

// Matcher resolves scraped teams against a fixed reference set.
type Matcher struct {
	refs []prospect.ReferenceTeam

	// refLevels caches the class level extracted from each reference
	// profile URL, aligned with refs.
	refLevels []prospect.OptInt
}

// NewMatcher creates a matcher over the reference set. Reference order is
// preserved: it is the tie-break order for equal-scoring candidates.
func NewMatcher(refs []prospect.ReferenceTeam) *Matcher {
	levels := make([]prospect.OptInt, len(refs))
	for i, ref := range refs {
		levels[i] = ageclass.LevelFromURL(ref.EPURL)
	}
	return &Matcher{refs: refs, refLevels: levels}
}

// Match assigns each scraped team its best-scoring unconsumed reference
// team. Scraped teams are processed strictly in input order; that order is
// part of the contract, because an earlier team can consume the reference a
// later team would otherwise win.
//
// The class gate excludes candidates whose level differs from the scraped
// team's by more than 1, and only applies when both levels resolve. Ties on
// score go to the first-encountered candidate. A used set may be passed in
// to continue a previous pass; nil starts fresh. The returned set includes
// every reference consumed so far.
func (m *Matcher) Match(scraped []prospect.TeamRecord, used UsedRefs) (Result, UsedRefs) {
	if used == nil {
		used = make(UsedRefs)
	}

	var res Result
	for _, team := range scraped {
		teamLevel := ageclass.LevelFromLabel(team.Class1)

		bestIdx := -1
		bestScore := -1.0
		for i, ref := range m.refs {
			if _, taken := used[ref.NormalizedTeam]; taken {
				continue
			}
			if refLevel := m.refLevels[i]; teamLevel.Valid && refLevel.Valid {
				if delta := teamLevel.Value - refLevel.Value; delta > 1 || delta < -1 {
					continue
				}
			}
			// Strictly-greater keeps the first-encountered candidate
			// on ties.
			if score := Ratio(team.NormalizedTeam, ref.NormalizedTeam); score > bestScore {
				bestScore = score
				bestIdx = i
			}
		}

		if bestIdx < 0 {
			log.Printf("no reference match for %q (class %s)", team.Team, team.Class1)
			res.Unmatched = append(res.Unmatched, team.Team)
			continue
		}

		best := m.refs[bestIdx]
		used[best.NormalizedTeam] = struct{}{}
		res.Matched = append(res.Matched, prospect.MatchedTeam{
			Team:           team.Team,
			EPURL:          best.EPURL,
			Level:          best.Level,
			Class1:         best.Class1,
			Class2:         best.Class2,
			Class3:         best.Class3,
			Season:         team.Season,
			TeamRating:     team.TeamRating,
			OpponentRating: team.OpponentRating,
		})
	}

	return res, used
}
