package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	bbolt "go.etcd.io/bbolt"

	"github.com/sellerdesk/couponctl/internal/animate"
	"github.com/sellerdesk/couponctl/internal/config"
	"github.com/sellerdesk/couponctl/internal/cookiejar"
	"github.com/sellerdesk/couponctl/internal/credential"
	"github.com/sellerdesk/couponctl/internal/dashboard"
	"github.com/sellerdesk/couponctl/internal/gateway"
	"github.com/sellerdesk/couponctl/internal/logging"
	"github.com/sellerdesk/couponctl/internal/notify"
	"github.com/sellerdesk/couponctl/internal/session"
	"github.com/sellerdesk/couponctl/internal/store"
	boltstore "github.com/sellerdesk/couponctl/internal/store/bolt"
	"github.com/sellerdesk/couponctl/internal/upstream"
)

// app holds the collaborators every command shares.
type app struct {
	cfg      *config.Config
	log      *slog.Logger
	db       *bbolt.DB
	store    store.Store
	jar      *cookiejar.Jar
	client   *upstream.Client
	resolver *credential.Resolver
	bus      *notify.InMemoryBus
}

type appKey struct{}

// commands that never touch the upstream or the store
func skipApp(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "completion", "help", "man":
			return true
		}
	}
	return strings.HasPrefix(cmd.Name(), "__complete")
}

func loadApp(cmd *cobra.Command, _ []string) error {
	if skipApp(cmd) {
		return nil
	}
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	cmd.SetContext(context.WithValue(cmd.Context(), appKey{}, a))
	return nil
}

func closeApp(cmd *cobra.Command, _ []string) error {
	if a, ok := cmd.Context().Value(appKey{}).(*app); ok {
		return a.Close()
	}
	return nil
}

func getApp(cmd *cobra.Command) *app {
	a, ok := cmd.Context().Value(appKey{}).(*app)
	if !ok {
		panic("couponctl: app not loaded for " + cmd.CommandPath())
	}
	return a
}

func newApp(cmd *cobra.Command) (*app, error) {
	flags := cmd.Flags()
	cfgPath, _ := flags.GetString("config")
	level, _ := flags.GetString("log-level")
	cookie, _ := flags.GetString("cookie")
	launchURL, _ := flags.GetString("launch-url")

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	if level != "" {
		cfg.Log.Level = level
	}

	log, err := logging.New(os.Stderr, cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(log)

	db, err := boltstore.Open(cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", cfg.Store.Path, err)
	}

	var s store.Store
	switch cfg.Store.Backend {
	case config.StoreBackendBolt:
		s = boltstore.New(db)
	default:
		s = store.NewKeyring(store.DefaultKeyringService)
	}

	gw := gateway.NewHTTP(cfg.Upstream.Timeout, cfg.Upstream.RateLimit, log)
	client, err := upstream.New(gw, upstream.Options{
		BaseURL:        cfg.Upstream.BaseURL,
		UserAgent:      cfg.Upstream.UserAgent,
		AcceptLanguage: cfg.Upstream.AcceptLanguage,
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	query, err := credential.QueryFromLaunchURL(launchURL)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("invalid --launch-url: %w", err)
	}

	resolver := credential.NewResolver(query, s, log)
	resolver.Override = strings.TrimSpace(cookie)

	return &app{
		cfg:      cfg,
		log:      log,
		db:       db,
		store:    s,
		jar:      cookiejar.New(db),
		client:   client,
		resolver: resolver,
		bus:      notify.NewBus(log),
	}, nil
}

// Close releases the bolt file. The bolt store shares the handle, so only
// the keyring store is closed on its own.
func (a *app) Close() error {
	var errs []error
	if a.cfg.Store.Backend != config.StoreBackendBolt {
		errs = append(errs, a.store.Close())
	}
	errs = append(errs, a.db.Close())
	return errors.Join(errs...)
}

func (a *app) dashboard(anim *animate.Animator) *dashboard.Dashboard {
	return dashboard.New(a.client, a.resolver,
		dashboard.WithLogger(a.log),
		dashboard.WithBus(a.bus),
		dashboard.WithAnimator(anim),
	)
}

func (a *app) teardown() *session.Teardown {
	return &session.Teardown{
		Store:       a.store,
		Cookies:     a.jar,
		Host:        a.client.Host(),
		CookieNames: a.cfg.Session.CookieNames,
		Bus:         a.bus,
		Log:         a.log,
	}
}
