// Command scoreboard joins a match room and mirrors its state. Started with
// match parameters it also acts as a controller and pushes them to the room.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ngoclaithe/scoliv2-sub000/internal/accesscode"
	"github.com/ngoclaithe/scoliv2-sub000/internal/config"
	"github.com/ngoclaithe/scoliv2-sub000/internal/engine"
	"github.com/ngoclaithe/scoliv2-sub000/internal/gate"
	"github.com/ngoclaithe/scoliv2-sub000/internal/logging"
	"github.com/ngoclaithe/scoliv2-sub000/internal/mirror"
	"github.com/ngoclaithe/scoliv2-sub000/internal/session"
	"github.com/ngoclaithe/scoliv2-sub000/pkg/types"
)

func main() {
	code := flag.String("code", "", "room access code")
	params := flag.String("params", "", "launch parameters as a query string, e.g. teamAName=Ha+Noi&view=scoreboard")
	flag.Parse()

	if err := run(*code, *params); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(code, rawParams string) error {
	if code == "" {
		return fmt.Errorf("-code is required")
	}
	values, err := url.ParseQuery(rawParams)
	if err != nil {
		return fmt.Errorf("-params: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.LogLevel, cfg.Development)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	verified, err := accesscode.NewHTTPClient(cfg.APIURL, nil).Verify(ctx, code)
	if err != nil {
		return fmt.Errorf("verify %s: %w", code, err)
	}

	client := session.New(session.Config{
		URL:               cfg.WSURL,
		ReconnectAttempts: cfg.ReconnectAttempts,
		ReconnectDelay:    cfg.ReconnectDelay,
		DialTimeout:       cfg.ConnectTimeout,
	}, log)
	defer client.Disconnect()

	store := mirror.New(log)
	store.Attach(client)
	store.Subscribe(func(st engine.State) { logState(log, st) })
	client.OnStatus(func(connected bool) { log.Info("connection", zap.Bool("connected", connected)) })

	ctl := gate.NewController(client, values, log)
	clientType := types.ClientDisplay
	if ctl.CanOriginate() {
		clientType = types.ClientController
	}

	sess := client.Connect(ctx, verified.Code, clientType)
	log.Info("session", zap.String("accessCode", sess.AccessCode), zap.String("clientType", clientType),
		zap.Bool("connected", sess.Connected))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := store.WaitHydrated(gctx); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		if ctl.CanOriginate() {
			for _, out := range ctl.SeedFromParams() {
				log.Debug("seed", zap.Stringer("outcome", out))
			}
		}
		<-gctx.Done()
		return nil
	})
	return g.Wait()
}

func logState(log *zap.Logger, st engine.State) {
	m := st.Match
	log.Info("state",
		zap.String("score", fmt.Sprintf("%s %d - %d %s", m.TeamA.Name, m.TeamA.Score, m.TeamB.Score, m.TeamB.Name)),
		zap.String("clock", m.MatchTime),
		zap.String("period", m.Period),
		zap.String("status", string(m.Status)),
		zap.String("view", st.View.CurrentView),
		zap.Int("sponsors", len(st.Sponsors)),
	)
}
