package engine

import (
	"slices"
	"strconv"
	"strings"

	"github.com/ngoclaithe/scoliv2-sub000/internal/logos"
	"github.com/ngoclaithe/scoliv2-sub000/pkg/types"
)

// Display logo tags used to partition displaySettings.logos.
const (
	LogoSponsor    = "sponsor"
	LogoOrganizing = "organizing"
	LogoMedia      = "media"
	LogoTournament = "tournament"
)

// Hydrate applies a room_joined snapshot. Every slice present in snap is
// rebuilt from defaults and replaces the slice in s; absent slices are kept.
func Hydrate(s State, snap *types.RoomSnapshot) State {
	if snap == nil {
		return s
	}
	d := NewEmptyState()
	next := s

	if snap.MatchData != nil {
		next.Match = hydrateMatch(d.Match, *snap.MatchData)
	}
	if snap.MatchStats != nil {
		next.Stats = mergeStats(d.Stats, *snap.MatchStats)
	}
	if snap.DisplaySettings != nil {
		next.Display = mergeDisplay(d.Display, *snap.DisplaySettings)
	}
	if snap.MarqueeData != nil {
		next.Marquee = mergeMarquee(d.Marquee, *snap.MarqueeData)
	}
	if snap.PenaltyData != nil {
		next.Penalty = mergePenalty(d.Penalty, *snap.PenaltyData)
	}
	if snap.LineupData != nil {
		next.Lineup = mergeLineup(d.Lineup, *snap.LineupData)
	}
	if snap.FutsalErrors != nil {
		next.FutsalErrors = setPair(d.FutsalErrors, *snap.FutsalErrors)
	}
	if snap.LiveUnit != nil {
		next.LiveUnit = d.LiveUnit
		setString(&next.LiveUnit.Text, snap.LiveUnit.Text)
	}
	if snap.PosterSettings != nil {
		next.Poster = mergePoster(d.Poster, *snap.PosterSettings)
	}
	if snap.View != nil {
		next.View = View{CurrentView: *snap.View}
	}

	// Logos partitioned out of displaySettings.logos win over the dedicated
	// fields, per collection, when the partition is non-empty.
	var parts map[string]logos.Collection
	if snap.DisplaySettings != nil {
		parts = PartitionLogos(snap.DisplaySettings.Logos)
	}
	next.Sponsors = pickCollection(next.Sponsors, parts[LogoSponsor], snap.Sponsors)
	next.Organizing = pickCollection(next.Organizing, parts[LogoOrganizing], snap.Organizing)
	next.MediaPartners = pickCollection(next.MediaPartners, parts[LogoMedia], snap.MediaPartners)
	if snap.TournamentLogo != nil {
		next.TournamentLogo = logos.FromWire(snap.TournamentLogo)
	}
	return next
}

func hydrateMatch(m MatchData, sm types.SnapshotMatch) MatchData {
	m = mergeMatchInfo(m, sm.MatchInfo)
	if sm.Status != nil {
		if st, ok := ParseStatus(*sm.Status); ok {
			m.Status = st
		}
	}
	m = setNames(m, types.TeamPair[*string]{TeamA: sm.TeamA.Name, TeamB: sm.TeamB.Name})
	m = setScores(m, types.TeamPair[*int]{TeamA: sm.TeamA.Score, TeamB: sm.TeamB.Score})
	m = setLogos(m, types.TeamPair[*string]{TeamA: sm.TeamA.Logo, TeamB: sm.TeamB.Logo})
	m = setScoreSets(m, types.TeamPair[*int]{TeamA: sm.TeamA.ScoreSet, TeamB: sm.TeamB.ScoreSet})
	if sm.TeamA.Scorers != nil {
		m.TeamA.Scorers = ExpandScorers(sm.TeamA.Scorers)
	}
	if sm.TeamB.Scorers != nil {
		m.TeamB.Scorers = ExpandScorers(sm.TeamB.Scorers)
	}
	return m
}

func pickCollection(current, partitioned logos.Collection, dedicated *types.LogoCollection) logos.Collection {
	if len(partitioned) > 0 {
		return partitioned
	}
	if dedicated != nil {
		return logos.FromWire(dedicated)
	}
	return current
}

// ExpandScorers turns server scorer records ({player, score: "12,45"}) into
// entries with sorted, unique minutes. Records for the same player merge;
// unparsable minutes are skipped.
func ExpandScorers(records []types.ServerScorer) []ScorerEntry {
	out := []ScorerEntry{}
	for _, r := range records {
		if r.Player == "" {
			continue
		}
		idx := slices.IndexFunc(out, func(e ScorerEntry) bool { return e.Player == r.Player })
		if idx == -1 {
			out = append(out, ScorerEntry{Player: r.Player, Times: []int{}})
			idx = len(out) - 1
		}
		for _, part := range strings.Split(r.Score, ",") {
			minute, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil || minute < 0 {
				continue
			}
			if !slices.Contains(out[idx].Times, minute) {
				out[idx].Times = append(out[idx].Times, minute)
			}
		}
		slices.Sort(out[idx].Times)
	}
	return out
}

// CollapseScorers is the inverse of ExpandScorers.
func CollapseScorers(entries []ScorerEntry) []types.ServerScorer {
	out := make([]types.ServerScorer, 0, len(entries))
	for _, e := range entries {
		minutes := make([]string, len(e.Times))
		for i, t := range e.Times {
			minutes[i] = strconv.Itoa(t)
		}
		out = append(out, types.ServerScorer{Player: e.Player, Score: strings.Join(minutes, ",")})
	}
	return out
}

// PartitionLogos splits a flat tagged logo list into collections keyed by
// normalized tag. Unknown tags are dropped.
func PartitionLogos(in []types.DisplayLogo) map[string]logos.Collection {
	out := map[string]logos.Collection{}
	for _, l := range in {
		tag, ok := normalizeTag(l.Type)
		if !ok {
			continue
		}
		c := out[tag]
		if c.IndexOf(l.Code) != -1 {
			continue
		}
		pos := append([]string{}, l.Position...)
		out[tag] = append(c, logos.Logo{Code: l.Code, URL: l.URL, Position: pos, TypeDisplay: l.TypeDisplay})
	}
	return out
}

func normalizeTag(t string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case "sponsor", "sponsors":
		return LogoSponsor, true
	case "organizing", "organizer", "organizers":
		return LogoOrganizing, true
	case "media", "media_partner", "media_partners", "mediapartners":
		return LogoMedia, true
	case "tournament", "tournament_logo":
		return LogoTournament, true
	}
	return "", false
}

// Snapshot renders s as the currentState a relay sends on room_joined.
// displaySettings.logos is rebuilt from the logo collections so it can never
// outrank them with stale entries on Hydrate.
func Snapshot(s State) types.RoomSnapshot {
	c := s.Clone()
	m := c.Match
	status := string(m.Status)

	snap := types.RoomSnapshot{
		MatchData: &types.SnapshotMatch{
			MatchInfo: types.MatchInfo{
				Tournament:     &m.Tournament,
				Stadium:        &m.Stadium,
				MatchDate:      &m.MatchDate,
				LiveText:       &m.LiveText,
				MatchTitle:     &m.MatchTitle,
				TypeMatch:      &m.TypeMatch,
				MatchTime:      &m.MatchTime,
				Period:         &m.Period,
				TeamAKitColor:  &m.TeamA.KitColorPrimary,
				TeamBKitColor:  &m.TeamB.KitColorPrimary,
				TeamA2KitColor: &m.TeamA.KitColorSecondary,
				TeamB2KitColor: &m.TeamB.KitColorSecondary,
			},
			Status: &status,
			TeamA:  snapshotTeam(&m.TeamA),
			TeamB:  snapshotTeam(&m.TeamB),
		},
		MatchStats: &types.MatchStats{
			Possession:    pairOf(c.Stats.Possession),
			TotalShots:    pairOf(c.Stats.TotalShots),
			ShotsOnTarget: pairOf(c.Stats.ShotsOnTarget),
			Corners:       pairOf(c.Stats.Corners),
			YellowCards:   pairOf(c.Stats.YellowCards),
			RedCards:      pairOf(c.Stats.RedCards),
			Fouls:         pairOf(c.Stats.Fouls),
			Offsides:      pairOf(c.Stats.Offsides),
		},
		DisplaySettings: &types.DisplaySettings{
			SelectedSkin:       &c.Display.SelectedSkin,
			LogoShape:          &c.Display.LogoShape,
			RotateDisplay:      &c.Display.RotateDisplay,
			ShowTournamentLogo: &c.Display.ShowTournamentLogo,
			ShowSponsors:       &c.Display.ShowSponsors,
			ShowOrganizing:     &c.Display.ShowOrganizing,
			ShowMediaPartners:  &c.Display.ShowMediaPartners,
			ShowTimer:          &c.Display.ShowTimer,
			ShowDate:           &c.Display.ShowDate,
			ShowStadium:        &c.Display.ShowStadium,
			ShowLiveText:       &c.Display.ShowLiveText,
			Logos:              FlattenLogos(c),
		},
		MarqueeData: &types.Marquee{
			Text:     &c.Marquee.Text,
			Mode:     &c.Marquee.Mode,
			Interval: &c.Marquee.Interval,
			Color:    &c.Marquee.Color,
			FontSize: &c.Marquee.FontSize,
		},
		PenaltyData: &types.Penalty{
			HomeGoals:    &c.Penalty.HomeGoals,
			AwayGoals:    &c.Penalty.AwayGoals,
			CurrentTurn:  &c.Penalty.CurrentTurn,
			ShootHistory: c.Penalty.ShootHistory,
			Status:       &c.Penalty.Status,
		},
		LineupData:     &types.Lineup{TeamA: c.Lineup.TeamA, TeamB: c.Lineup.TeamB},
		FutsalErrors:   &types.TeamPair[*int]{TeamA: &c.FutsalErrors.TeamA, TeamB: &c.FutsalErrors.TeamB},
		LiveUnit:       &types.LiveUnit{Text: &c.LiveUnit.Text},
		PosterSettings: &types.Poster{PosterType: &c.Poster.PosterType, Layout: &c.Poster.Layout},
		View:           &c.View.CurrentView,
	}

	sponsors := c.Sponsors.ToWire()
	organizing := c.Organizing.ToWire()
	media := c.MediaPartners.ToWire()
	tournament := c.TournamentLogo.ToWire()
	snap.Sponsors = &sponsors
	snap.Organizing = &organizing
	snap.MediaPartners = &media
	snap.TournamentLogo = &tournament
	return snap
}

// FlattenLogos lists every logo collection of s as tagged display logos, in
// sponsor, organizing, media, tournament order.
func FlattenLogos(s State) []types.DisplayLogo {
	var out []types.DisplayLogo
	for _, part := range []struct {
		tag string
		c   logos.Collection
	}{
		{LogoSponsor, s.Sponsors},
		{LogoOrganizing, s.Organizing},
		{LogoMedia, s.MediaPartners},
		{LogoTournament, s.TournamentLogo},
	} {
		for _, l := range part.c {
			out = append(out, types.DisplayLogo{
				Type:        part.tag,
				Code:        l.Code,
				URL:         l.URL,
				Position:    append([]string{}, l.Position...),
				TypeDisplay: l.TypeDisplay,
			})
		}
	}
	return out
}

func snapshotTeam(t *TeamState) types.SnapshotTeam {
	return types.SnapshotTeam{
		Name:     &t.Name,
		Score:    &t.Score,
		Logo:     &t.Logo,
		ScoreSet: &t.ScoreSet,
		Scorers:  CollapseScorers(t.Scorers),
	}
}

func pairOf(p Pair) *types.TeamPair[int] {
	return &types.TeamPair[int]{TeamA: p.TeamA, TeamB: p.TeamB}
}
