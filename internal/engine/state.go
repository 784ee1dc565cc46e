package engine

import (
	"encoding/json"
	"slices"
	"time"

	"github.com/ngoclaithe/scoliv2-sub000/internal/logos"
	"github.com/ngoclaithe/scoliv2-sub000/pkg/types"
)

type Status string

const (
	StatusWaiting Status = "waiting"
	StatusLive    Status = "live"
	StatusPause   Status = "pause"
)

// Team keys used by goal_scorers_updated.
const (
	TeamA = "teamA"
	TeamB = "teamB"
)

type ScorerEntry struct {
	Player string `json:"player"`
	Times  []int  `json:"times"` // ascending, no repeats
}

type TeamState struct {
	Name              string        `json:"name"`
	Score             int           `json:"score"`
	Logo              string        `json:"logo"`
	KitColorPrimary   string        `json:"kitColorPrimary"`
	KitColorSecondary string        `json:"kitColorSecondary"`
	ScoreSet          int           `json:"scoreSet"`
	Scorers           []ScorerEntry `json:"scorers"`
}

type MatchData struct {
	TeamA      TeamState `json:"teamA"`
	TeamB      TeamState `json:"teamB"`
	MatchTime  string    `json:"matchTime"`
	Period     string    `json:"period"`
	Status     Status    `json:"status"`
	Tournament string    `json:"tournament"`
	Stadium    string    `json:"stadium"`
	MatchDate  string    `json:"matchDate"`
	LiveText   string    `json:"liveText"`
	MatchTitle string    `json:"matchTitle"`
	TypeMatch  string    `json:"typeMatch"`
}

type Pair struct {
	TeamA int `json:"teamA"`
	TeamB int `json:"teamB"`
}

type MatchStats struct {
	Possession    Pair `json:"possession"`
	TotalShots    Pair `json:"totalShots"`
	ShotsOnTarget Pair `json:"shotsOnTarget"`
	Corners       Pair `json:"corners"`
	YellowCards   Pair `json:"yellowCards"`
	RedCards      Pair `json:"redCards"`
	Fouls         Pair `json:"fouls"`
	Offsides      Pair `json:"offsides"`
}

type DisplaySettings struct {
	SelectedSkin       int                 `json:"selectedSkin"`
	LogoShape          string              `json:"logoShape"`
	RotateDisplay      bool                `json:"rotateDisplay"`
	ShowTournamentLogo bool                `json:"showTournamentLogo"`
	ShowSponsors       bool                `json:"showSponsors"`
	ShowOrganizing     bool                `json:"showOrganizing"`
	ShowMediaPartners  bool                `json:"showMediaPartners"`
	ShowTimer          bool                `json:"showTimer"`
	ShowDate           bool                `json:"showDate"`
	ShowStadium        bool                `json:"showStadium"`
	ShowLiveText       bool                `json:"showLiveText"`
	Logos              []types.DisplayLogo `json:"logos"`
}

type Marquee struct {
	Text     string `json:"text"`
	Mode     string `json:"mode"`
	Interval int    `json:"interval"`
	Color    string `json:"color"`
	FontSize int    `json:"fontSize"`
}

type Penalty struct {
	HomeGoals    int                 `json:"homeGoals"`
	AwayGoals    int                 `json:"awayGoals"`
	CurrentTurn  int                 `json:"currentTurn"`
	ShootHistory []types.PenaltyShot `json:"shootHistory"`
	Status       string              `json:"status"`
}

type Lineup struct {
	TeamA []types.LineupPlayer `json:"teamA"`
	TeamB []types.LineupPlayer `json:"teamB"`
}

type LiveUnit struct {
	Text string `json:"text"`
}

type Poster struct {
	PosterType string `json:"posterType"`
	Layout     string `json:"layout"`
}

type View struct {
	CurrentView string `json:"currentView"`
}

// AudioCue is the last audio_control command; Seq increments on every cue
// so a player can tell a repeated command from a stale one.
type AudioCue struct {
	Command string          `json:"command"`
	Target  string          `json:"target"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Seq     int             `json:"seq"`
}

// State is the client's mirror of a room.
type State struct {
	Match          MatchData        `json:"matchData"`
	Stats          MatchStats       `json:"matchStats"`
	Display        DisplaySettings  `json:"displaySettings"`
	Marquee        Marquee          `json:"marqueeData"`
	Penalty        Penalty          `json:"penaltyData"`
	Lineup         Lineup           `json:"lineupData"`
	FutsalErrors   Pair             `json:"futsalErrors"`
	Sponsors       logos.Collection `json:"sponsors"`
	Organizing     logos.Collection `json:"organizing"`
	MediaPartners  logos.Collection `json:"mediaPartners"`
	TournamentLogo logos.Collection `json:"tournamentLogo"`
	LiveUnit       LiveUnit         `json:"liveUnit"`
	Poster         Poster           `json:"posterSettings"`
	View           View             `json:"view"`
	Audio          AudioCue         `json:"audio"`
	LastUpdate     time.Time        `json:"lastUpdate"`
}

func NewEmptyState() State {
	return State{
		Match: MatchData{
			TeamA:     newTeam("Team A", "#FF0000", "#FFFFFF"),
			TeamB:     newTeam("Team B", "#0000FF", "#FFFFFF"),
			MatchTime: "00:00",
			Period:    "1",
			Status:    StatusWaiting,
		},
		Stats: MatchStats{Possession: Pair{TeamA: 50, TeamB: 50}},
		Display: DisplaySettings{
			SelectedSkin:       1,
			LogoShape:          "round",
			ShowTournamentLogo: true,
			ShowSponsors:       true,
			ShowOrganizing:     true,
			ShowMediaPartners:  true,
			ShowTimer:          true,
			ShowDate:           true,
			ShowStadium:        true,
			ShowLiveText:       true,
			Logos:              []types.DisplayLogo{},
		},
		Marquee:        Marquee{Mode: "none"},
		Penalty:        Penalty{ShootHistory: []types.PenaltyShot{}, Status: "waiting"},
		Lineup:         Lineup{TeamA: []types.LineupPlayer{}, TeamB: []types.LineupPlayer{}},
		Sponsors:       logos.Collection{},
		Organizing:     logos.Collection{},
		MediaPartners:  logos.Collection{},
		TournamentLogo: logos.Collection{},
		Poster:         Poster{PosterType: "default"},
		View:           View{CurrentView: types.ViewIntro},
	}
}

func newTeam(name, primary, secondary string) TeamState {
	return TeamState{
		Name:              name,
		KitColorPrimary:   primary,
		KitColorSecondary: secondary,
		Scorers:           []ScorerEntry{},
	}
}

// Clone returns a deep copy so readers never share slices with the writer.
func (s State) Clone() State {
	c := s
	c.Match.TeamA = s.Match.TeamA.clone()
	c.Match.TeamB = s.Match.TeamB.clone()
	c.Display.Logos = cloneDisplayLogos(s.Display.Logos)
	c.Penalty.ShootHistory = slices.Clone(s.Penalty.ShootHistory)
	c.Lineup.TeamA = slices.Clone(s.Lineup.TeamA)
	c.Lineup.TeamB = slices.Clone(s.Lineup.TeamB)
	c.Sponsors = s.Sponsors.Clone()
	c.Organizing = s.Organizing.Clone()
	c.MediaPartners = s.MediaPartners.Clone()
	c.TournamentLogo = s.TournamentLogo.Clone()
	c.Audio.Payload = slices.Clone(s.Audio.Payload)
	return c
}

func (t TeamState) clone() TeamState {
	if t.Scorers == nil {
		return t
	}
	scorers := make([]ScorerEntry, len(t.Scorers))
	for i, sc := range t.Scorers {
		scorers[i] = ScorerEntry{Player: sc.Player, Times: slices.Clone(sc.Times)}
	}
	t.Scorers = scorers
	return t
}

func cloneDisplayLogos(in []types.DisplayLogo) []types.DisplayLogo {
	if in == nil {
		return nil
	}
	out := make([]types.DisplayLogo, len(in))
	for i, l := range in {
		l.Position = slices.Clone(l.Position)
		out[i] = l
	}
	return out
}

// Team returns the team addressed by key, or false for an unknown key.
func (m *MatchData) Team(key string) (*TeamState, bool) {
	switch key {
	case TeamA:
		return &m.TeamA, true
	case TeamB:
		return &m.TeamB, true
	}
	return nil, false
}
