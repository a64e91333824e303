// Package ageclass resolves scraped age codes into birth years and
// competition class labels, and extracts comparable class levels from
// labels and profile URLs.
package ageclass

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/halverson/scoutline/internal/prospect"
)

var (
	classLabelRe = regexp.MustCompile(`U(\d{2})`)
	classURLRe   = regexp.MustCompile(`-u(\d{2})`)
)

// offsetMarker identifies the nationality group whose competition calendar
// uses a one-year-earlier age cutoff.
const offsetMarker = "can"

// BirthYearFromCode maps a two-digit age code to a birth year
// (2000 + code). A missing or non-numeric code resolves to absent,
// never to an error.
func BirthYearFromCode(code string) prospect.OptInt {
	n, err := strconv.Atoi(strings.TrimSpace(code))
	if err != nil {
		return prospect.OptInt{}
	}
	return prospect.OptInt{Value: 2000 + n, Valid: true}
}

// ClassLabel derives the "U<n>" competition class from a birth year and
// the season's ending year. Offset nations are shifted down one class.
// An absent birth year propagates as an empty label.
func ClassLabel(birthYear prospect.OptInt, seasonEnd int, offsetNation bool) string {
	if !birthYear.Valid {
		return ""
	}
	diff := seasonEnd - birthYear.Value
	if offsetNation {
		diff--
	}
	return fmt.Sprintf("U%d", diff)
}

// OffsetNation reports whether any of the class context fields carries the
// offset-nation marker.
func OffsetNation(classes ...string) bool {
	for _, c := range classes {
		if strings.Contains(strings.ToLower(c), offsetMarker) {
			return true
		}
	}
	return false
}

// LevelFromLabel extracts the numeric class level from a label such as
// "U16" or "u16 AAA".
func LevelFromLabel(label string) prospect.OptInt {
	m := classLabelRe.FindStringSubmatch(strings.ToUpper(label))
	if m == nil {
		return prospect.OptInt{}
	}
	n, _ := strconv.Atoi(m[1])
	return prospect.OptInt{Value: n, Valid: true}
}

// LevelFromURL extracts the class level embedded as a "-u<n>" path segment
// in a team profile URL.
func LevelFromURL(url string) prospect.OptInt {
	m := classURLRe.FindStringSubmatch(strings.ToLower(url))
	if m == nil {
		return prospect.OptInt{}
	}
	n, _ := strconv.Atoi(m[1])
	return prospect.OptInt{Value: n, Valid: true}
}

// SeasonEndYear parses the ending year of a season label like "2023-2024".
func SeasonEndYear(season string) (int, error) {
	parts := strings.Split(strings.TrimSpace(season), "-")
	if len(parts) < 2 {
		return 0, fmt.Errorf("invalid season %q: expected YYYY-YYYY", season)
	}
	year, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return 0, fmt.Errorf("invalid season %q: %w", season, err)
	}
	return year, nil
}
