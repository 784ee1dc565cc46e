package engine

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/ngoclaithe/scoliv2-sub000/internal/logos"
	"github.com/ngoclaithe/scoliv2-sub000/pkg/types"
)

// Event reducers. Each one picks its slice out of the state and hands it to
// a slice function below; hydration reuses the same slice functions.

func scoreUpdated(s State, p types.ScorePayload) State {
	s.Match = setScores(s.Match, p.Scores)
	return s
}

func scoreSetUpdated(s State, p types.ScoreSetPayload) State {
	s.Match = setScoreSets(s.Match, p.ScoreSet)
	return s
}

func teamNamesUpdated(s State, p types.TeamNamesPayload) State {
	s.Match = setNames(s.Match, p.Names)
	return s
}

func teamLogosUpdated(s State, p types.TeamLogosPayload) State {
	s.Match = setLogos(s.Match, p.Logos)
	return s
}

func matchInfoUpdated(s State, p types.MatchInfoPayload) State {
	s.Match = mergeMatchInfo(s.Match, p.MatchInfo)
	return s
}

func matchTimeUpdated(s State, p types.MatchTimePayload) State {
	setString(&s.Match.MatchTime, p.Time.MatchTime)
	setString(&s.Match.Period, p.Time.Period)
	if p.Time.Status != nil {
		if st, ok := ParseStatus(*p.Time.Status); ok {
			s.Match.Status = st
		}
	}
	return s
}

func timerTick(s State, p types.TimerPayload) State {
	s.Match = setClock(s.Match, p)
	return s
}

func timerTo(target Status) func(State, types.TimerPayload) State {
	return func(s State, p types.TimerPayload) State {
		s.Match = setClock(s.Match, p)
		if CanTransition(s.Match.Status, target) {
			s.Match.Status = target
		}
		return s
	}
}

// timerResumed only leaves pause; a resume seen while waiting still updates
// the clock but does not start the match.
func timerResumed(s State, p types.TimerPayload) State {
	s.Match = setClock(s.Match, p)
	if s.Match.Status == StatusPause {
		s.Match.Status = StatusLive
	}
	return s
}

func timerReset(s State, p types.TimerPayload) State {
	if p.DisplayTime == nil && p.CurrentTime == nil {
		s.Match.MatchTime = "00:00"
	}
	s.Match = setClock(s.Match, p)
	s.Match.Status = StatusWaiting
	return s
}

func goalScorersUpdated(s State, p types.GoalScorerPayload) State {
	if p.Scorer.Player == "" || p.Scorer.Minute == nil || *p.Scorer.Minute < 0 {
		return s
	}
	team, ok := s.Match.Team(p.Team)
	if !ok {
		return s
	}
	team.Scorers = addScorerMinute(team.Scorers, p.Scorer.Player, *p.Scorer.Minute)
	return s
}

func matchStatsUpdated(s State, p types.MatchStatsPayload) State {
	s.Stats = mergeStats(s.Stats, p.Stats)
	return s
}

func displaySettingsUpdated(s State, p types.DisplaySettingsPayload) State {
	s.Display = mergeDisplay(s.Display, p.DisplaySettings)
	return s
}

func marqueeUpdated(s State, p types.MarqueePayload) State {
	s.Marquee = mergeMarquee(s.Marquee, p.Marquee)
	return s
}

func penaltyUpdated(s State, p types.PenaltyPayload) State {
	s.Penalty = mergePenalty(s.Penalty, p.Penalty)
	return s
}

func lineupUpdated(s State, p types.LineupPayload) State {
	s.Lineup = mergeLineup(s.Lineup, p.Lineup)
	return s
}

func futsalErrorsUpdated(s State, p types.FutsalErrorsPayload) State {
	s.FutsalErrors = setPair(s.FutsalErrors, p.FutsalErrors)
	return s
}

func liveUnitUpdated(s State, p types.LiveUnitPayload) State {
	setString(&s.LiveUnit.Text, p.LiveUnit.Text)
	return s
}

func posterUpdated(s State, p types.PosterPayload) State {
	s.Poster = mergePoster(s.Poster, p.Poster)
	return s
}

func sponsorsUpdated(s State, p types.CollectionPayload) State {
	s.Sponsors = reconcile(s.Sponsors, p.Tag(), p.Sponsors)
	return s
}

func organizingUpdated(s State, p types.CollectionPayload) State {
	s.Organizing = reconcile(s.Organizing, p.Tag(), p.Organizing)
	return s
}

func mediaPartnersUpdated(s State, p types.CollectionPayload) State {
	s.MediaPartners = reconcile(s.MediaPartners, p.Tag(), p.MediaPartners)
	return s
}

func tournamentLogoUpdated(s State, p types.CollectionPayload) State {
	s.TournamentLogo = reconcile(s.TournamentLogo, p.Tag(), p.TournamentLogo)
	return s
}

// viewUpdated accepts any view name; unknown views are left to the renderer.
func viewUpdated(s State, p types.ViewPayload) State {
	setString(&s.View.CurrentView, p.ViewType)
	return s
}

func audioControl(s State, p types.AudioPayload) State {
	if p.Command == "" {
		return s
	}
	cue := AudioCue{Command: p.Command, Payload: slices.Clone(p.Payload), Seq: s.Audio.Seq + 1}
	setString(&cue.Target, p.Target)
	s.Audio = cue
	return s
}

// Slice functions.

func setScores(m MatchData, p types.TeamPair[*int]) MatchData {
	setInt(&m.TeamA.Score, p.TeamA)
	setInt(&m.TeamB.Score, p.TeamB)
	return m
}

func setScoreSets(m MatchData, p types.TeamPair[*int]) MatchData {
	setInt(&m.TeamA.ScoreSet, p.TeamA)
	setInt(&m.TeamB.ScoreSet, p.TeamB)
	return m
}

func setNames(m MatchData, p types.TeamPair[*string]) MatchData {
	setString(&m.TeamA.Name, p.TeamA)
	setString(&m.TeamB.Name, p.TeamB)
	return m
}

func setLogos(m MatchData, p types.TeamPair[*string]) MatchData {
	setString(&m.TeamA.Logo, p.TeamA)
	setString(&m.TeamB.Logo, p.TeamB)
	return m
}

// mergeMatchInfo copies the provided fields; server kit colour names land
// in the teams' primary and secondary colours.
func mergeMatchInfo(m MatchData, info types.MatchInfo) MatchData {
	setString(&m.Tournament, info.Tournament)
	setString(&m.Stadium, info.Stadium)
	setString(&m.MatchDate, info.MatchDate)
	setString(&m.LiveText, info.LiveText)
	setString(&m.MatchTitle, info.MatchTitle)
	setString(&m.TypeMatch, info.TypeMatch)
	setString(&m.MatchTime, info.MatchTime)
	setString(&m.Period, info.Period)
	setString(&m.TeamA.KitColorPrimary, info.TeamAKitColor)
	setString(&m.TeamB.KitColorPrimary, info.TeamBKitColor)
	setString(&m.TeamA.KitColorSecondary, info.TeamA2KitColor)
	setString(&m.TeamB.KitColorSecondary, info.TeamB2KitColor)
	return m
}

func setClock(m MatchData, p types.TimerPayload) MatchData {
	switch {
	case p.DisplayTime != nil:
		m.MatchTime = *p.DisplayTime
	case p.CurrentTime != nil:
		m.MatchTime = FormatClock(*p.CurrentTime)
	}
	setString(&m.Period, p.Period)
	return m
}

// FormatClock renders elapsed seconds as MM:SS; minutes keep counting past 99.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// ParseClock is the inverse of FormatClock.
func ParseClock(clock string) (int, error) {
	mm, ss, ok := strings.Cut(strings.TrimSpace(clock), ":")
	if !ok {
		return 0, fmt.Errorf("clock %q: want MM:SS", clock)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 {
		return 0, fmt.Errorf("clock %q: bad minutes", clock)
	}
	sec, err := strconv.Atoi(ss)
	if err != nil || sec < 0 || sec > 59 {
		return 0, fmt.Errorf("clock %q: bad seconds", clock)
	}
	return m*60 + sec, nil
}

// addScorerMinute returns a new scorer list with minute recorded for
// player. The input list is not modified.
func addScorerMinute(scorers []ScorerEntry, player string, minute int) []ScorerEntry {
	next := make([]ScorerEntry, len(scorers), len(scorers)+1)
	copy(next, scorers)

	idx := slices.IndexFunc(next, func(e ScorerEntry) bool { return e.Player == player })
	if idx == -1 {
		return append(next, ScorerEntry{Player: player, Times: []int{minute}})
	}
	if slices.Contains(next[idx].Times, minute) {
		return next
	}
	times := append(slices.Clone(next[idx].Times), minute)
	slices.Sort(times)
	next[idx] = ScorerEntry{Player: player, Times: times}
	return next
}

func mergeStats(st MatchStats, p types.MatchStats) MatchStats {
	setIntPair(&st.Possession, p.Possession)
	setIntPair(&st.TotalShots, p.TotalShots)
	setIntPair(&st.ShotsOnTarget, p.ShotsOnTarget)
	setIntPair(&st.Corners, p.Corners)
	setIntPair(&st.YellowCards, p.YellowCards)
	setIntPair(&st.RedCards, p.RedCards)
	setIntPair(&st.Fouls, p.Fouls)
	setIntPair(&st.Offsides, p.Offsides)
	return st
}

func mergeDisplay(d DisplaySettings, p types.DisplaySettings) DisplaySettings {
	setInt(&d.SelectedSkin, p.SelectedSkin)
	setString(&d.LogoShape, p.LogoShape)
	setBool(&d.RotateDisplay, p.RotateDisplay)
	setBool(&d.ShowTournamentLogo, p.ShowTournamentLogo)
	setBool(&d.ShowSponsors, p.ShowSponsors)
	setBool(&d.ShowOrganizing, p.ShowOrganizing)
	setBool(&d.ShowMediaPartners, p.ShowMediaPartners)
	setBool(&d.ShowTimer, p.ShowTimer)
	setBool(&d.ShowDate, p.ShowDate)
	setBool(&d.ShowStadium, p.ShowStadium)
	setBool(&d.ShowLiveText, p.ShowLiveText)
	if p.Logos != nil {
		d.Logos = cloneDisplayLogos(p.Logos)
	}
	return d
}

func mergeMarquee(mq Marquee, p types.Marquee) Marquee {
	setString(&mq.Text, p.Text)
	setString(&mq.Mode, p.Mode)
	setInt(&mq.Interval, p.Interval)
	setString(&mq.Color, p.Color)
	setInt(&mq.FontSize, p.FontSize)
	return mq
}

func mergePenalty(pen Penalty, p types.Penalty) Penalty {
	setInt(&pen.HomeGoals, p.HomeGoals)
	setInt(&pen.AwayGoals, p.AwayGoals)
	setInt(&pen.CurrentTurn, p.CurrentTurn)
	setString(&pen.Status, p.Status)
	if p.ShootHistory != nil {
		pen.ShootHistory = slices.Clone(p.ShootHistory)
	}
	return pen
}

func mergeLineup(l Lineup, p types.Lineup) Lineup {
	if p.TeamA != nil {
		l.TeamA = slices.Clone(p.TeamA)
	}
	if p.TeamB != nil {
		l.TeamB = slices.Clone(p.TeamB)
	}
	return l
}

func mergePoster(ps Poster, p types.Poster) Poster {
	setString(&ps.PosterType, p.PosterType)
	setString(&ps.Layout, p.Layout)
	return ps
}

func setPair(pair Pair, p types.TeamPair[*int]) Pair {
	setInt(&pair.TeamA, p.TeamA)
	setInt(&pair.TeamB, p.TeamB)
	return pair
}

// reconcile leaves the collection alone when the payload did not carry it.
func reconcile(c logos.Collection, behavior string, w *types.LogoCollection) logos.Collection {
	if w == nil {
		return c
	}
	return logos.Reconcile(c, logos.PatchFromWire(behavior, w))
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func setIntPair(dst *Pair, v *types.TeamPair[int]) {
	if v != nil {
		*dst = Pair{TeamA: v.TeamA, TeamB: v.TeamB}
	}
}
