package types

// RoomSnapshot is the currentState carried by room_joined. Every slice is
// optional; a present slice replaces the client's copy on hydration.
type RoomSnapshot struct {
	MatchData       *SnapshotMatch   `json:"matchData,omitempty"`
	MatchStats      *MatchStats      `json:"matchStats,omitempty"`
	DisplaySettings *DisplaySettings `json:"displaySettings,omitempty"`
	MarqueeData     *Marquee         `json:"marqueeData,omitempty"`
	PenaltyData     *Penalty         `json:"penaltyData,omitempty"`
	LineupData      *Lineup          `json:"lineupData,omitempty"`
	FutsalErrors    *TeamPair[*int]  `json:"futsalErrors,omitempty"`
	Sponsors        *LogoCollection  `json:"sponsors,omitempty"`
	Organizing      *LogoCollection  `json:"organizing,omitempty"`
	MediaPartners   *LogoCollection  `json:"mediaPartners,omitempty"`
	TournamentLogo  *LogoCollection  `json:"tournamentLogo,omitempty"`
	LiveUnit        *LiveUnit        `json:"liveUnit,omitempty"`
	PosterSettings  *Poster          `json:"posterSettings,omitempty"`
	View            *string          `json:"view,omitempty"`
}

// SnapshotMatch is the server's matchData: match info fields at the top
// level plus both teams.
type SnapshotMatch struct {
	MatchInfo
	Status *string      `json:"status,omitempty"`
	TeamA  SnapshotTeam `json:"teamA"`
	TeamB  SnapshotTeam `json:"teamB"`
}

type SnapshotTeam struct {
	Name     *string        `json:"name,omitempty"`
	Score    *int           `json:"score,omitempty"`
	Logo     *string        `json:"logo,omitempty"`
	ScoreSet *int           `json:"scoreSet,omitempty"`
	Scorers  []ServerScorer `json:"scorers,omitempty"`
}

// ServerScorer stores a player's goal minutes comma separated: "12,45".
type ServerScorer struct {
	Player string `json:"player"`
	Score  string `json:"score"`
}
