package types

import "encoding/json"

// Payload fields are pointers (or nil-able slices) so a reducer can tell an
// omitted field from a zero value; omitted fields keep the previous value.

type TeamPair[T any] struct {
	TeamA T `json:"teamA"`
	TeamB T `json:"teamB"`
}

// JoinRoom:
//
//	accessCode: string
//	clientType: "display" | "controller"
//	timestamp: unix millis
//	viewType: "intro"
type JoinRoom struct {
	AccessCode string `json:"accessCode"`
	ClientType string `json:"clientType"`
	Timestamp  int64  `json:"timestamp"`
	ViewType   string `json:"viewType"`
}

type Connected struct {
	SocketID string `json:"socketId"`
}

type RoomJoined struct {
	AccessCode   string        `json:"accessCode"`
	ClientType   string        `json:"clientType,omitempty"`
	CurrentState *RoomSnapshot `json:"currentState,omitempty"`
}

type RoomError struct {
	Error string `json:"error"`
}

type ScorePayload struct {
	Scores TeamPair[*int] `json:"scores"`
}

type ScoreSetPayload struct {
	ScoreSet TeamPair[*int] `json:"scoreSet"`
}

type TeamNamesPayload struct {
	Names TeamPair[*string] `json:"names"`
}

type TeamLogosPayload struct {
	Logos TeamPair[*string] `json:"logos"`
}

// MatchInfo is an arbitrary subset of match fields. Kit colours use the
// server's field names.
type MatchInfo struct {
	Tournament     *string `json:"tournament,omitempty"`
	Stadium        *string `json:"stadium,omitempty"`
	MatchDate      *string `json:"matchDate,omitempty"`
	LiveText       *string `json:"liveText,omitempty"`
	MatchTitle     *string `json:"matchTitle,omitempty"`
	TypeMatch      *string `json:"typeMatch,omitempty"`
	MatchTime      *string `json:"matchTime,omitempty"`
	Period         *string `json:"period,omitempty"`
	TeamAKitColor  *string `json:"teamAkitcolor,omitempty"`
	TeamBKitColor  *string `json:"teamBkitcolor,omitempty"`
	TeamA2KitColor *string `json:"teamA2kitcolor,omitempty"`
	TeamB2KitColor *string `json:"teamB2kitcolor,omitempty"`
}

type MatchInfoPayload struct {
	MatchInfo MatchInfo `json:"matchInfo"`
}

type MatchTime struct {
	MatchTime *string `json:"matchTime,omitempty"`
	Period    *string `json:"period,omitempty"`
	Status    *string `json:"status,omitempty"`
}

type MatchTimePayload struct {
	Time MatchTime `json:"time"`
}

// TimerPayload is shared by timer_tick, timer_started, timer_paused,
// timer_resumed and timer_reset.
type TimerPayload struct {
	DisplayTime *string `json:"displayTime,omitempty"`
	CurrentTime *int    `json:"currentTime,omitempty"`
	Period      *string `json:"period,omitempty"`
}

type TimerControl struct {
	Action      string  `json:"action"`
	InitialTime *string `json:"initialTime,omitempty"`
	Period      *string `json:"period,omitempty"`
}

// GoalScorer is one goal. A nil Minute means the minute was not sent.
type GoalScorer struct {
	Player string `json:"player"`
	Minute *int   `json:"minute,omitempty"`
}

type GoalScorerPayload struct {
	Team   string     `json:"team"`
	Scorer GoalScorer `json:"scorer"`
}

type ViewPayload struct {
	ViewType *string `json:"viewType,omitempty"`
}

type AudioPayload struct {
	Command string          `json:"command"`
	Target  *string         `json:"target,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type MatchStats struct {
	Possession    *TeamPair[int] `json:"possession,omitempty"`
	TotalShots    *TeamPair[int] `json:"totalShots,omitempty"`
	ShotsOnTarget *TeamPair[int] `json:"shotsOnTarget,omitempty"`
	Corners       *TeamPair[int] `json:"corners,omitempty"`
	YellowCards   *TeamPair[int] `json:"yellowCards,omitempty"`
	RedCards      *TeamPair[int] `json:"redCards,omitempty"`
	Fouls         *TeamPair[int] `json:"fouls,omitempty"`
	Offsides      *TeamPair[int] `json:"offsides,omitempty"`
}

type MatchStatsPayload struct {
	Stats MatchStats `json:"stats"`
}

type DisplayLogo struct {
	Type        string   `json:"type"`
	Code        string   `json:"code_logo"`
	URL         string   `json:"url_logo"`
	Position    []string `json:"position"`
	TypeDisplay string   `json:"type_display"`
}

type DisplaySettings struct {
	SelectedSkin       *int          `json:"selectedSkin,omitempty"`
	LogoShape          *string       `json:"logoShape,omitempty"`
	RotateDisplay      *bool         `json:"rotateDisplay,omitempty"`
	ShowTournamentLogo *bool         `json:"showTournamentLogo,omitempty"`
	ShowSponsors       *bool         `json:"showSponsors,omitempty"`
	ShowOrganizing     *bool         `json:"showOrganizing,omitempty"`
	ShowMediaPartners  *bool         `json:"showMediaPartners,omitempty"`
	ShowTimer          *bool         `json:"showTimer,omitempty"`
	ShowDate           *bool         `json:"showDate,omitempty"`
	ShowStadium        *bool         `json:"showStadium,omitempty"`
	ShowLiveText       *bool         `json:"showLiveText,omitempty"`
	Logos              []DisplayLogo `json:"logos,omitempty"`
}

type DisplaySettingsPayload struct {
	DisplaySettings DisplaySettings `json:"displaySettings"`
}

type Marquee struct {
	Text     *string `json:"text,omitempty"`
	Mode     *string `json:"mode,omitempty"`
	Interval *int    `json:"interval,omitempty"`
	Color    *string `json:"color,omitempty"`
	FontSize *int    `json:"fontSize,omitempty"`
}

type MarqueePayload struct {
	Marquee Marquee `json:"marqueeData"`
}

type PenaltyShot struct {
	ID     string `json:"id"`
	Team   string `json:"team"`
	Player string `json:"player"`
	Result string `json:"result"`
	Round  int    `json:"round"`
}

type Penalty struct {
	HomeGoals    *int          `json:"homeGoals,omitempty"`
	AwayGoals    *int          `json:"awayGoals,omitempty"`
	CurrentTurn  *int          `json:"currentTurn,omitempty"`
	ShootHistory []PenaltyShot `json:"shootHistory,omitempty"`
	Status       *string       `json:"status,omitempty"`
}

type PenaltyPayload struct {
	Penalty Penalty `json:"penaltyData"`
}

type LineupPlayer struct {
	Number   string `json:"number"`
	Name     string `json:"name"`
	Position string `json:"position,omitempty"`
}

type Lineup struct {
	TeamA []LineupPlayer `json:"teamA,omitempty"`
	TeamB []LineupPlayer `json:"teamB,omitempty"`
}

type LineupPayload struct {
	Lineup Lineup `json:"lineupData"`
}

type FutsalErrorsPayload struct {
	FutsalErrors TeamPair[*int] `json:"futsalErrors"`
}

type LiveUnit struct {
	Text *string `json:"text,omitempty"`
}

type LiveUnitPayload struct {
	LiveUnit LiveUnit `json:"liveUnit"`
}

type Poster struct {
	PosterType *string `json:"posterType,omitempty"`
	Layout     *string `json:"layout,omitempty"`
}

type PosterPayload struct {
	Poster Poster `json:"posterSettings"`
}
