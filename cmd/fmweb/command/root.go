// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package command provides the root and sub-commands for the fmweb
// project. Commands are organized using the cobra library.
// The root command starts the web server itself while the "db"
// sub-command can be used for the database schema actions.
//
//	./fmweb [-c /path/of/config.yaml]           # start web server
//	./fmweb db migrate up|down [steps] [-c /path/of/config.yaml]
//	./fmweb db version [-c /path/of/config.yaml]
//	./fmweb db init-dev [-c /path/of/config.yaml]
//	./fmweb db init-prod --admin-email a@b.c --admin-password ...
//
// Secrets are read from the environment, which may be filled by a
// .env file (see the --env-file flag).
package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/futuremech/fmweb/pkg/adapter/cache/redis"
	"github.com/futuremech/fmweb/pkg/adapter/config"
	"github.com/futuremech/fmweb/pkg/adapter/db/postgres/bookingsrp"
	"github.com/futuremech/fmweb/pkg/adapter/db/postgres/catalogrp"
	"github.com/futuremech/fmweb/pkg/adapter/db/postgres/notificationsrp"
	"github.com/futuremech/fmweb/pkg/adapter/db/postgres/ordersrp"
	"github.com/futuremech/fmweb/pkg/adapter/db/postgres/reportsrp"
	"github.com/futuremech/fmweb/pkg/adapter/db/postgres/usersrp"
	"github.com/futuremech/fmweb/pkg/adapter/render/pdf"
	"github.com/futuremech/fmweb/pkg/adapter/restful/gin/routes"
	"github.com/futuremech/fmweb/pkg/core/log"
	"github.com/futuremech/fmweb/pkg/core/usecase/appuc"
	"github.com/spf13/cobra"
)

var (
	cfgPath  string
	envFiles []string
)

var rootCmd = &cobra.Command{
	Use:   "fmweb",
	Short: "Future Mech car services and car parts web application",
	Long: `Future Mech car services and car parts web application.
Clients may book car services for their vehicles, buy car parts, and
pay for both of them online. Service staff and admins manage the
bookings, the catalog, the discount codes, and the users.

The web server reloads its configuration file when it receives the
SIGHUP signal. Only the use case settings are reloaded, while the
connections and the external integrations are kept.`,
	RunE:          startWebServer,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// loadConfig loads the dotenv files and the configuration file and
// sets up the default logger accordingly.
func loadConfig() (*config.Config, error) {
	if err := config.LoadEnvFiles(envFiles...); err != nil {
		return nil, err
	}
	cfgPath = config.Path(cfgPath)
	c, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	if err = c.Logging.Setup(os.Stderr); err != nil {
		return nil, fmt.Errorf("setting up logger: %w", err)
	}
	return c, nil
}

func startWebServer(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	c, err := loadConfig()
	if err != nil {
		return err
	}
	p, err := c.Database.ConnectionPool(ctx)
	if err != nil {
		return fmt.Errorf("creating DB pool: %w", err)
	}
	defer p.Close()
	rc, err := c.Redis.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("connecting to redis: %w", err)
	}
	defer rc.Close()
	files, err := c.Storage.NewStore()
	if err != nil {
		return fmt.Errorf("creating file store: %w", err)
	}
	deps, err := newDeps(ctx, c)
	if err != nil {
		return err
	}
	deps.Files = files
	app, err := appuc.New(p, newRepos(c, rc), deps)
	if err != nil {
		return fmt.Errorf("creating app use case: %w", err)
	}
	if err = app.Reload(c); err != nil {
		return fmt.Errorf("building use cases: %w", err)
	}

	sessions, err := c.Session.NewManager()
	if err != nil {
		return fmt.Errorf("creating session manager: %w", err)
	}
	limiter := c.Gin.NewLimiter()
	e := c.Gin.NewEngine(c.Storage.MaxUploadSize)
	routes.Register(e, app, routes.Options{
		Sessions:      sessions,
		SecureCookies: c.Session.Secure,
		Limiter:       limiter,
		Metrics:       c.Gin.NewMetrics(),
		UploadsDir:    files.Dir,
	})

	sch, err := c.Cron.NewScheduler(app, limiter)
	if err != nil {
		return fmt.Errorf("scheduling jobs: %w", err)
	}
	sch.Start()

	srv := &http.Server{Addr: c.Gin.Address, Handler: e}
	srvErr := make(chan error, 1)
	go func() {
		log.Info(ctx, "listening", slog.String("addr", c.Gin.Address))
		srvErr <- srv.ListenAndServe()
	}()
	err = serve(ctx, app, srvErr)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(), c.Gin.ShutdownTimeout.Std(),
	)
	defer cancel()
	if serr := srv.Shutdown(shutdownCtx); serr != nil {
		log.Error(ctx, "shutting down http server", log.Err("err", serr))
	}
	if serr := sch.Stop(shutdownCtx); serr != nil {
		log.Error(ctx, "stopping scheduler", log.Err("err", serr))
	}
	return err
}

// serve waits for the termination signals, reloading the use cases
// on SIGHUP, until the server fails or the process is interrupted.
func serve(ctx context.Context, app *appuc.UseCase, srvErr <-chan error) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigCh)
	for {
		select {
		case err := <-srvErr:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("running http server: %w", err)
		case sig := <-sigCh:
			if sig != syscall.SIGHUP {
				log.Info(ctx, "shutting down", slog.String("signal", sig.String()))
				return nil
			}
			reload(ctx, app)
		}
	}
}

func reload(ctx context.Context, app *appuc.UseCase) {
	c, err := config.Load(cfgPath)
	if err == nil {
		err = app.Reload(c)
	}
	if err != nil {
		log.Error(ctx, "reloading configuration", log.Err("err", err))
		return
	}
	log.Info(ctx, "configuration is reloaded", slog.String("path", cfgPath))
}

// newDeps instantiates the external collaborators of the use cases,
// except for the file store.
func newDeps(ctx context.Context, c *config.Config) (*appuc.Deps, error) {
	d := &appuc.Deps{Renderer: pdf.Renderer{}}
	var err error
	if d.Hasher, err = c.Passwords.NewHasher(); err != nil {
		return nil, fmt.Errorf("creating password hasher: %w", err)
	}
	if d.Mailer, err = c.Mail.NewMailer(); err != nil {
		return nil, fmt.Errorf("creating mailer: %w", err)
	}
	if d.SMS, err = c.SMS.NewSender(); err != nil {
		return nil, fmt.Errorf("creating sms sender: %w", err)
	}
	processor, err := c.Payments.NewProcessor()
	if err != nil {
		return nil, fmt.Errorf("creating payment processor: %w", err)
	}
	d.Processor = processor
	if d.Identity, err = c.OAuth.NewProvider(ctx); err != nil {
		return nil, fmt.Errorf("creating identity provider: %w", err)
	}
	return d, nil
}

// newRepos instantiates the PostgreSQL repositories, while carts and
// password reset tokens are kept in redis.
func newRepos(c *config.Config, rc *redis.Client) *appuc.Repos {
	return &appuc.Repos{
		Users:         usersrp.New(),
		Vehicles:      usersrp.NewVehicles(),
		Services:      catalogrp.NewServices(),
		Parts:         catalogrp.NewParts(),
		Bookings:      bookingsrp.New(),
		Orders:        ordersrp.New(),
		Discounts:     ordersrp.NewDiscounts(),
		Payments:      ordersrp.NewPayments(),
		Notifications: notificationsrp.New(),
		Contacts:      notificationsrp.NewContacts(),
		Reports:       reportsrp.New(),
		Carts:         redis.NewCarts(rc, c.Redis.CartTTL.Std()),
		ResetTokens:   redis.NewResetTokens(rc),
	}
}

// Execute runs the rootCmd which in turn parses CLI arguments and
// flags and runs the most specific cobra command.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&cfgPath, "config", "c", "", "config file path")
	pf.StringSliceVar(
		&envFiles, "env-file", nil, "dotenv files (default .env)",
	)
}
