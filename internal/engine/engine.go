package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/ngoclaithe/scoliv2-sub000/pkg/types"
)

var ErrUnknownEvent = errors.New("unknown event")
var ErrMalformedPayload = errors.New("malformed payload")

// Event is one inbound patch: the wire event name and its raw data.
type Event struct {
	Name string
	Data json.RawMessage
}

// Reducer returns the next state for one event payload. It must not modify
// the state it was given and touches exactly one slice.
type Reducer func(s State, data json.RawMessage) (State, error)

var table = map[string]Reducer{
	types.EvtScoreUpdated:           reduce(scoreUpdated),
	types.EvtScoreSetUpdated:        reduce(scoreSetUpdated),
	types.EvtTeamNamesUpdated:       reduce(teamNamesUpdated),
	types.EvtTeamLogosUpdated:       reduce(teamLogosUpdated),
	types.EvtMatchInfoUpdated:       reduce(matchInfoUpdated),
	types.EvtMatchTimeUpdated:       reduce(matchTimeUpdated),
	types.EvtTimerTick:              reduce(timerTick),
	types.EvtTimerStarted:           reduce(timerTo(StatusLive)),
	types.EvtTimerPaused:            reduce(timerTo(StatusPause)),
	types.EvtTimerResumed:           reduce(timerResumed),
	types.EvtTimerReset:             reduce(timerReset),
	types.EvtGoalScorersUpdated:     reduce(goalScorersUpdated),
	types.EvtMatchStatsUpdated:      reduce(matchStatsUpdated),
	types.EvtDisplaySettingsUpdated: reduce(displaySettingsUpdated),
	types.EvtMarqueeUpdated:         reduce(marqueeUpdated),
	types.EvtPenaltyUpdated:         reduce(penaltyUpdated),
	types.EvtLineupUpdated:          reduce(lineupUpdated),
	types.EvtFutsalErrorsUpdated:    reduce(futsalErrorsUpdated),
	types.EvtLiveUnitUpdated:        reduce(liveUnitUpdated),
	types.EvtPosterUpdated:          reduce(posterUpdated),
	types.EvtSponsorsUpdated:        reduce(sponsorsUpdated),
	types.EvtOrganizingUpdated:      reduce(organizingUpdated),
	types.EvtMediaPartnersUpdated:   reduce(mediaPartnersUpdated),
	types.EvtTournamentLogoUpdated:  reduce(tournamentLogoUpdated),
	types.EvtViewUpdated:            reduce(viewUpdated),
	types.EvtAudioControl:           reduce(audioControl),
}

// Apply runs the reducer registered for ev and stamps LastUpdate. On error
// the previous state is returned unchanged.
func Apply(s State, ev Event, now time.Time) (State, error) {
	r, ok := table[ev.Name]
	if !ok {
		return s, fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Name)
	}
	next, err := r(s, ev.Data)
	if err != nil {
		return s, fmt.Errorf("%s: %w", ev.Name, err)
	}
	next.LastUpdate = now
	return next, nil
}

// Handles reports whether name has a reducer.
func Handles(name string) bool {
	_, ok := table[name]
	return ok
}

// events lists every event name with a reducer, sorted.
func events() []string {
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func reduce[P any](fn func(State, P) State) Reducer {
	return func(s State, data json.RawMessage) (State, error) {
		var p P
		if len(data) > 0 {
			if err := json.Unmarshal(data, &p); err != nil {
				return s, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
			}
		}
		return fn(s, p), nil
	}
}
