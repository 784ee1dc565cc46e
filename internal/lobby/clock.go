package lobby

import (
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/ngoclaithe/scoliv2-sub000/internal/engine"
	"github.com/ngoclaithe/scoliv2-sub000/pkg/types"
)

func (l *Lobby) timerControl(data json.RawMessage) {
	var tc types.TimerControl
	if err := json.Unmarshal(data, &tc); err != nil {
		l.log.Warn("bad timer_control", zap.Error(err))
		return
	}
	if tc.Period != nil {
		l.clock.Period = *tc.Period
	}

	switch tc.Action {
	case types.TimerStart:
		l.setInitial(tc.InitialTime)
		l.clock.Running = true
		l.armTimer()
		l.commitValue(types.EvtTimerStarted, l.clockPayload())

	case types.TimerPause:
		l.clock.Running = false
		l.stopTimer()
		l.commitValue(types.EvtTimerPaused, l.clockPayload())

	case types.TimerResume:
		if l.state.Match.Status != engine.StatusPause {
			l.log.Debug("resume ignored", zap.String("status", string(l.state.Match.Status)))
			return
		}
		l.clock.Running = true
		l.armTimer()
		l.commitValue(types.EvtTimerResumed, l.clockPayload())

	case types.TimerReset:
		l.clock.Running = false
		l.stopTimer()
		l.clock.Seconds = 0
		l.setInitial(tc.InitialTime)
		l.commitValue(types.EvtTimerReset, l.clockPayload())

	default:
		l.log.Warn("unknown timer action", zap.String("action", tc.Action))
	}
}

func (l *Lobby) setInitial(initial *string) {
	if initial == nil {
		return
	}
	secs, err := engine.ParseClock(*initial)
	if err != nil {
		l.log.Warn("bad initial time", zap.Error(err))
		return
	}
	l.clock.Seconds = secs
}

func (l *Lobby) clockPayload() types.TimerPayload {
	display := engine.FormatClock(l.clock.Seconds)
	secs := l.clock.Seconds
	p := types.TimerPayload{DisplayTime: &display, CurrentTime: &secs}
	if l.clock.Period != "" {
		period := l.clock.Period
		p.Period = &period
	}
	return p
}

func (l *Lobby) onTimer(gen int) {
	if gen != l.timerGen || !l.clock.Running {
		return
	}
	l.clock.Seconds++
	l.commitValue(types.EvtTimerTick, l.clockPayload())
	l.armTimer()
}

// armTimer schedules the next tick and invalidates any pending one.
func (l *Lobby) armTimer() {
	l.stopTimer()
	gen := l.timerGen
	l.timer = time.AfterFunc(l.tick, func() {
		select {
		case l.inbox <- timerFired{Gen: gen}:
		case <-l.ctx.Done():
		}
	})
}

func (l *Lobby) stopTimer() {
	l.timerGen++
	if l.timer != nil {
		l.timer.Stop()
		l.timer = nil
	}
}
