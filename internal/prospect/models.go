package prospect

// OptInt is an integer that may be absent. Parsing a non-numeric field
// yields the zero value with Valid=false rather than an error.
type OptInt struct {
	Value int
	Valid bool
}

// OptFloat is a float that may be absent.
type OptFloat struct {
	Value float64
	Valid bool
}

// TeamRecord is one scraped standings row. Created once per row and
// immutable afterwards, except for the league context and class fields
// appended before matching.
type TeamRecord struct {
	Team           string
	NormalizedTeam string
	AgeLevel       string
	Record         string
	TeamRating     string
	AGD            string
	OpponentRating string
	EPURL          string
	OtherLinks     []string

	// League context appended after scraping.
	Level  string
	Class1 string
	Class2 string
	Class3 string
	Season string

	// Resolved age fields. BirthYear is absent when the age code in the
	// team name is missing or non-numeric.
	BirthYear  OptInt
	ClassLevel string
}

// ReferenceTeam is one row of the reference mapping, the source of truth
// for team identity. Read-only during matching.
type ReferenceTeam struct {
	Team           string
	NormalizedTeam string
	EPURL          string
	Level          string
	Class1         string
	Class2         string
	Class3         string
}

// MatchedTeam is the result of resolving a scraped TeamRecord against a
// ReferenceTeam. It is the join key carried onto every player row.
type MatchedTeam struct {
	Team           string
	EPURL          string
	Level          string
	Class1         string
	Class2         string
	Class3         string
	Season         string
	TeamRating     string
	OpponentRating string
}

// PlayerStat is one player row assembled from the stats table and roster
// metadata of a matched team.
type PlayerStat struct {
	Player      string
	Team        string
	Position    string
	GamesPlayed int
	Goals       int
	Assists     int
	PPG         float64
	BirthYear   string
	Nationality string
	Jersey      string

	// Carried over from the MatchedTeam.
	EPURL          string
	Level          string
	Class1         string
	Class2         string
	Class3         string
	Season         string
	OpponentRating string

	// EliteProspects team identity extracted from the profile URL.
	EPTeamID     string
	TeamLogoFile string
}
