package types

// Client -> Server
const (
	EvtJoinRoom              = "join_room"
	EvtScoreUpdate           = "score_update"
	EvtScoreSetUpdate        = "score_set_update"
	EvtTeamNamesUpdate       = "team_names_update"
	EvtTeamLogosUpdate       = "team_logos_update"
	EvtMatchInfoUpdate       = "match_info_update"
	EvtMatchTimeUpdate       = "match_time_update"
	EvtMatchStatsUpdate      = "match_stats_update"
	EvtDisplaySettingsUpdate = "display_settings_update"
	EvtMarqueeUpdate         = "marquee_update"
	EvtPenaltyUpdate         = "penalty_update"
	EvtLineupUpdate          = "lineup_update"
	EvtFutsalErrorsUpdate    = "futsal_errors_update"
	EvtLiveUnitUpdate        = "live_unit_update"
	EvtPosterUpdate          = "poster_update"
	EvtSponsorsUpdate        = "sponsors_update"
	EvtOrganizingUpdate      = "organizing_update"
	EvtMediaPartnersUpdate   = "media_partners_update"
	EvtTournamentLogoUpdate  = "tournament_logo_update"
	EvtViewUpdate            = "view_update"
	EvtGoalScorerAdd         = "goal_scorer_add"
	EvtTimerControl          = "timer_control"
)

// Server -> Client
const (
	EvtConnected              = "connected"
	EvtRoomJoined             = "room_joined"
	EvtRoomError              = "room_error"
	EvtRoomLeft               = "room_left"
	EvtScoreUpdated           = "score_updated"
	EvtScoreSetUpdated        = "score_set_updated"
	EvtTeamNamesUpdated       = "team_names_updated"
	EvtTeamLogosUpdated       = "team_logos_updated"
	EvtMatchInfoUpdated       = "match_info_updated"
	EvtMatchTimeUpdated       = "match_time_updated"
	EvtMatchStatsUpdated      = "match_stats_updated"
	EvtDisplaySettingsUpdated = "display_settings_updated"
	EvtMarqueeUpdated         = "marquee_updated"
	EvtPenaltyUpdated         = "penalty_updated"
	EvtLineupUpdated          = "lineup_updated"
	EvtFutsalErrorsUpdated    = "futsal_errors_updated"
	EvtLiveUnitUpdated        = "live_unit_updated"
	EvtPosterUpdated          = "poster_updated"
	EvtSponsorsUpdated        = "sponsors_updated"
	EvtOrganizingUpdated      = "organizing_updated"
	EvtMediaPartnersUpdated   = "media_partners_updated"
	EvtTournamentLogoUpdated  = "tournament_logo_updated"
	EvtViewUpdated            = "view_updated"
	EvtGoalScorersUpdated     = "goal_scorers_updated"
	EvtTimerTick              = "timer_tick"
	EvtTimerStarted           = "timer_started"
	EvtTimerPaused            = "timer_paused"
	EvtTimerResumed           = "timer_resumed"
	EvtTimerReset             = "timer_reset"
	EvtAudioControl           = "audio_control"
)

// relayed maps every controller command that the relay rebroadcasts
// unchanged to the event name displays receive.
var relayed = map[string]string{
	EvtScoreUpdate:           EvtScoreUpdated,
	EvtScoreSetUpdate:        EvtScoreSetUpdated,
	EvtTeamNamesUpdate:       EvtTeamNamesUpdated,
	EvtTeamLogosUpdate:       EvtTeamLogosUpdated,
	EvtMatchInfoUpdate:       EvtMatchInfoUpdated,
	EvtMatchTimeUpdate:       EvtMatchTimeUpdated,
	EvtMatchStatsUpdate:      EvtMatchStatsUpdated,
	EvtDisplaySettingsUpdate: EvtDisplaySettingsUpdated,
	EvtMarqueeUpdate:         EvtMarqueeUpdated,
	EvtPenaltyUpdate:         EvtPenaltyUpdated,
	EvtLineupUpdate:          EvtLineupUpdated,
	EvtFutsalErrorsUpdate:    EvtFutsalErrorsUpdated,
	EvtLiveUnitUpdate:        EvtLiveUnitUpdated,
	EvtPosterUpdate:          EvtPosterUpdated,
	EvtSponsorsUpdate:        EvtSponsorsUpdated,
	EvtOrganizingUpdate:      EvtOrganizingUpdated,
	EvtMediaPartnersUpdate:   EvtMediaPartnersUpdated,
	EvtTournamentLogoUpdate:  EvtTournamentLogoUpdated,
	EvtViewUpdate:            EvtViewUpdated,
	EvtGoalScorerAdd:         EvtGoalScorersUpdated,
	EvtAudioControl:          EvtAudioControl,
}

// Relayed returns the broadcast name for a controller command. timer_control
// is not relayed directly; the room clock answers it.
func Relayed(command string) (string, bool) {
	evt, ok := relayed[command]
	return evt, ok
}

// Timer actions carried by timer_control.
const (
	TimerStart  = "start"
	TimerPause  = "pause"
	TimerResume = "resume"
	TimerReset  = "reset"
)

// Client types sent in join_room.
const (
	ClientDisplay    = "display"
	ClientController = "controller"
)

// ViewIntro is the view requested on join.
const ViewIntro = "intro"
