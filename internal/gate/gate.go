package gate

import (
	"encoding/json"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/ngoclaithe/scoliv2-sub000/internal/logging"
	"github.com/ngoclaithe/scoliv2-sub000/internal/logos"
	"github.com/ngoclaithe/scoliv2-sub000/pkg/types"
)

// Launch parameters that carry match state. A client started with any of
// them is a controller.
const (
	ParamTeamAName     = "teamAName"
	ParamTeamBName     = "teamBName"
	ParamTeamAScore    = "teamAScore"
	ParamTeamBScore    = "teamBScore"
	ParamTeamALogo     = "teamALogo"
	ParamTeamBLogo     = "teamBLogo"
	ParamTeamAKitColor = "teamAkitcolor"
	ParamTeamBKitColor = "teamBkitcolor"
	ParamMatchTitle    = "matchTitle"
	ParamLiveText      = "liveText"
	ParamLocation      = "location"
	ParamMatchDate     = "matchDate"
	ParamMatchTime     = "matchTime"
	ParamView          = "view"
)

var stateParams = []string{
	ParamTeamAName, ParamTeamBName, ParamTeamAScore, ParamTeamBScore,
	ParamTeamALogo, ParamTeamBLogo, ParamTeamAKitColor, ParamTeamBKitColor,
	ParamMatchTitle, ParamLiveText, ParamLocation, ParamMatchDate, ParamMatchTime, ParamView,
}

// CanOriginate reports whether params hold any state-carrying field.
func CanOriginate(params url.Values) bool {
	for _, k := range stateParams {
		if params.Has(k) {
			return true
		}
	}
	return false
}

// Emitter is the part of the session client the gate writes through.
type Emitter interface {
	Emit(event string, data any) bool
	IsConnected() bool
}

type Outcome int

const (
	Sent Outcome = iota
	Denied
	Offline
)

func (o Outcome) String() string {
	switch o {
	case Sent:
		return "sent"
	case Denied:
		return "denied"
	case Offline:
		return "offline"
	}
	return "outcome(" + strconv.Itoa(int(o)) + ")"
}

// Controller wraps every outbound mutation. Its permission is fixed when it
// is built.
type Controller struct {
	em           Emitter
	log          *zap.Logger
	params       url.Values
	canOriginate bool
}

func NewController(em Emitter, params url.Values, log *zap.Logger) *Controller {
	return &Controller{
		em:           em,
		log:          logging.OrNop(log).Named("gate"),
		params:       params,
		canOriginate: CanOriginate(params),
	}
}

func (c *Controller) CanOriginate() bool { return c.canOriginate }

func (c *Controller) emit(event string, data any) Outcome {
	if !c.canOriginate {
		c.log.Debug("mutation denied", zap.String("event", event))
		return Denied
	}
	if !c.em.IsConnected() || !c.em.Emit(event, data) {
		c.log.Info("mutation dropped while offline", zap.String("event", event))
		return Offline
	}
	return Sent
}

func (c *Controller) UpdateScore(teamA, teamB int) Outcome {
	return c.emit(types.EvtScoreUpdate, types.ScorePayload{Scores: types.TeamPair[*int]{TeamA: &teamA, TeamB: &teamB}})
}

func (c *Controller) UpdateScoreSet(teamA, teamB int) Outcome {
	return c.emit(types.EvtScoreSetUpdate, types.ScoreSetPayload{ScoreSet: types.TeamPair[*int]{TeamA: &teamA, TeamB: &teamB}})
}

func (c *Controller) UpdateTeamNames(teamA, teamB string) Outcome {
	return c.emit(types.EvtTeamNamesUpdate, types.TeamNamesPayload{Names: types.TeamPair[*string]{TeamA: &teamA, TeamB: &teamB}})
}

func (c *Controller) UpdateTeamLogos(teamA, teamB string) Outcome {
	return c.emit(types.EvtTeamLogosUpdate, types.TeamLogosPayload{Logos: types.TeamPair[*string]{TeamA: &teamA, TeamB: &teamB}})
}

// UpdateMatchInfo sends only the non-nil fields of info.
func (c *Controller) UpdateMatchInfo(info types.MatchInfo) Outcome {
	return c.emit(types.EvtMatchInfoUpdate, types.MatchInfoPayload{MatchInfo: info})
}

func (c *Controller) UpdateMatchTime(t types.MatchTime) Outcome {
	return c.emit(types.EvtMatchTimeUpdate, types.MatchTimePayload{Time: t})
}

func (c *Controller) UpdateMatchStats(st types.MatchStats) Outcome {
	return c.emit(types.EvtMatchStatsUpdate, types.MatchStatsPayload{Stats: st})
}

func (c *Controller) UpdateDisplaySettings(d types.DisplaySettings) Outcome {
	return c.emit(types.EvtDisplaySettingsUpdate, types.DisplaySettingsPayload{DisplaySettings: d})
}

func (c *Controller) UpdateMarquee(m types.Marquee) Outcome {
	return c.emit(types.EvtMarqueeUpdate, types.MarqueePayload{Marquee: m})
}

func (c *Controller) UpdatePenalty(p types.Penalty) Outcome {
	return c.emit(types.EvtPenaltyUpdate, types.PenaltyPayload{Penalty: p})
}

func (c *Controller) UpdateLineup(l types.Lineup) Outcome {
	return c.emit(types.EvtLineupUpdate, types.LineupPayload{Lineup: l})
}

func (c *Controller) UpdateFutsalErrors(teamA, teamB int) Outcome {
	return c.emit(types.EvtFutsalErrorsUpdate, types.FutsalErrorsPayload{FutsalErrors: types.TeamPair[*int]{TeamA: &teamA, TeamB: &teamB}})
}

func (c *Controller) UpdateLiveUnit(text string) Outcome {
	return c.emit(types.EvtLiveUnitUpdate, types.LiveUnitPayload{LiveUnit: types.LiveUnit{Text: &text}})
}

func (c *Controller) UpdatePoster(p types.Poster) Outcome {
	return c.emit(types.EvtPosterUpdate, types.PosterPayload{Poster: p})
}

func (c *Controller) UpdateView(view string) Outcome {
	return c.emit(types.EvtViewUpdate, types.ViewPayload{ViewType: &view})
}

// UpdateSponsors sends entries under behavior (add, update, remove, or ""
// to replace the whole collection).
func (c *Controller) UpdateSponsors(behavior string, entries logos.Collection) Outcome {
	w := entries.ToWire()
	return c.emit(types.EvtSponsorsUpdate, types.CollectionPayload{Behavior: behavior, Sponsors: &w})
}

func (c *Controller) UpdateOrganizing(behavior string, entries logos.Collection) Outcome {
	w := entries.ToWire()
	return c.emit(types.EvtOrganizingUpdate, types.CollectionPayload{Behavior: behavior, Organizing: &w})
}

func (c *Controller) UpdateMediaPartners(behavior string, entries logos.Collection) Outcome {
	w := entries.ToWire()
	return c.emit(types.EvtMediaPartnersUpdate, types.CollectionPayload{Behavior: behavior, MediaPartners: &w})
}

func (c *Controller) UpdateTournamentLogo(behavior string, entries logos.Collection) Outcome {
	w := entries.ToWire()
	return c.emit(types.EvtTournamentLogoUpdate, types.CollectionPayload{Behavior: behavior, TournamentLogo: &w})
}

func (c *Controller) AddGoalScorer(team, player string, minute int) Outcome {
	return c.emit(types.EvtGoalScorerAdd, types.GoalScorerPayload{Team: team, Scorer: types.GoalScorer{Player: player, Minute: &minute}})
}

// StartTimer starts the relay clock from initial ("MM:SS"; empty keeps the
// current time).
func (c *Controller) StartTimer(initial, period string) Outcome {
	return c.timer(types.TimerStart, initial, period)
}

func (c *Controller) PauseTimer() Outcome { return c.timer(types.TimerPause, "", "") }

func (c *Controller) ResumeTimer() Outcome { return c.timer(types.TimerResume, "", "") }

func (c *Controller) ResetTimer(initial string) Outcome {
	return c.timer(types.TimerReset, initial, "")
}

func (c *Controller) timer(action, initial, period string) Outcome {
	tc := types.TimerControl{Action: action}
	if initial != "" {
		tc.InitialTime = &initial
	}
	if period != "" {
		tc.Period = &period
	}
	return c.emit(types.EvtTimerControl, tc)
}

func (c *Controller) AudioControl(command, target string, payload json.RawMessage) Outcome {
	a := types.AudioPayload{Command: command, Payload: payload}
	if target != "" {
		a.Target = &target
	}
	return c.emit(types.EvtAudioControl, a)
}

// SeedFromParams pushes the launch parameters into the room. Only the
// parameters that are present are sent.
func (c *Controller) SeedFromParams() []Outcome {
	p := c.params
	var out []Outcome

	if names := pairOf(p, ParamTeamAName, ParamTeamBName); names != nil {
		out = append(out, c.emit(types.EvtTeamNamesUpdate, types.TeamNamesPayload{Names: *names}))
	}
	if scores := intPairOf(p, ParamTeamAScore, ParamTeamBScore); scores != nil {
		out = append(out, c.emit(types.EvtScoreUpdate, types.ScorePayload{Scores: *scores}))
	}
	if logoPair := pairOf(p, ParamTeamALogo, ParamTeamBLogo); logoPair != nil {
		out = append(out, c.emit(types.EvtTeamLogosUpdate, types.TeamLogosPayload{Logos: *logoPair}))
	}

	info := types.MatchInfo{
		TeamAKitColor: param(p, ParamTeamAKitColor),
		TeamBKitColor: param(p, ParamTeamBKitColor),
		MatchTitle:    param(p, ParamMatchTitle),
		LiveText:      param(p, ParamLiveText),
		Stadium:       param(p, ParamLocation),
		MatchDate:     param(p, ParamMatchDate),
		MatchTime:     param(p, ParamMatchTime),
	}
	if info != (types.MatchInfo{}) {
		out = append(out, c.UpdateMatchInfo(info))
	}
	if v := param(p, ParamView); v != nil {
		out = append(out, c.UpdateView(*v))
	}
	return out
}

func param(p url.Values, key string) *string {
	if !p.Has(key) {
		return nil
	}
	v := p.Get(key)
	return &v
}

func pairOf(p url.Values, a, b string) *types.TeamPair[*string] {
	pair := types.TeamPair[*string]{TeamA: param(p, a), TeamB: param(p, b)}
	if pair.TeamA == nil && pair.TeamB == nil {
		return nil
	}
	return &pair
}

func intPairOf(p url.Values, a, b string) *types.TeamPair[*int] {
	atoi := func(key string) *int {
		n, err := strconv.Atoi(p.Get(key))
		if err != nil {
			return nil
		}
		return &n
	}
	pair := types.TeamPair[*int]{TeamA: atoi(a), TeamB: atoi(b)}
	if pair.TeamA == nil && pair.TeamB == nil {
		return nil
	}
	return &pair
}
