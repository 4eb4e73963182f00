package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	appservice "orderservice/pkg/order/application/service"
	"orderservice/pkg/order/domain/service"
	"orderservice/pkg/order/infrastructure/event"
	"orderservice/pkg/order/infrastructure/mysql"
	"orderservice/pkg/order/infrastructure/password"
	"orderservice/pkg/order/infrastructure/transport"
)

const shutdownTimeout = 15 * time.Second

func main() {
	app := &cli.App{
		Name:  appID,
		Usage: "order creation service",
		Commands: []*cli.Command{
			{
				Name:   "service",
				Usage:  "serve the REST API",
				Action: runService,
			},
			{
				Name:   "migrate",
				Usage:  "apply database migrations",
				Action: runMigrate,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.WithError(err).Fatal("failed to run")
	}
}

func setup() (*config, error) {
	c, err := parseEnv()
	if err != nil {
		return nil, err
	}
	if err := initLogger(c); err != nil {
		return nil, err
	}
	return c, nil
}

func dsn(c *config) mysql.DSN {
	return mysql.DSN{
		User:     c.DBUser,
		Password: c.DBPassword,
		Host:     c.DBHost,
		Database: c.DBName,
	}
}

func closeDB(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		log.WithError(err).Error("failed to close database connection")
	}
}

func runMigrate(_ *cli.Context) error {
	c, err := setup()
	if err != nil {
		return err
	}
	return mysql.Migrate(dsn(c))
}

func runService(cliCtx *cli.Context) error {
	c, err := setup()
	if err != nil {
		return err
	}

	if err := mysql.Migrate(dsn(c)); err != nil {
		return err
	}

	db, err := mysql.Open(cliCtx.Context, dsn(c), mysql.ConnectionOptions{
		MaxConnections:  c.DBMaxConn,
		ConnMaxLifetime: c.DBConnMaxLifetime,
	})
	if err != nil {
		return err
	}
	defer closeDB(db)

	dispatcher := event.NewLogDispatcher(log.StandardLogger())
	userRepo := mysql.NewUserRepository(db)
	productRepo := mysql.NewProductRepository(db)
	orderRepo := mysql.NewOrderRepository(db)

	handler := transport.NewHandler(
		service.NewOrderService(userRepo, productRepo, orderRepo, orderRepo, dispatcher),
		appservice.NewUserService(userRepo, password.NewBcryptManager(c.BcryptCost), dispatcher),
		appservice.NewProductService(productRepo, userRepo, dispatcher),
	)

	srv := &http.Server{
		Addr:              c.ServeRESTAddress,
		Handler:           transport.Router(handler, c.RequestTimeout),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cliCtx.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.WithField("address", c.ServeRESTAddress).Info("starting REST server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "REST server failed")
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down REST server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
