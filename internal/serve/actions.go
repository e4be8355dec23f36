package serve

import (
	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/transport/http"
	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/learnmap/internal/bootstrap"
	"github.com/dtnitsch/learnmap/internal/server"
	"github.com/dtnitsch/learnmap/models"
	"github.com/dtnitsch/learnmap/pkg/logger"
)

const Name = "learnmap"

// Version is set at build time with -ldflags "-X .../internal/serve.Version=x.y.z".
var Version = "dev"

// ServeAction runs the HTTP API until the process receives SIGINT or SIGTERM.
func ServeAction(c *cli.Context) error {
	cfg, err := bootstrap.Config(c)
	if err != nil {
		return err
	}
	if v := c.String("addr"); v != "" {
		cfg.Server.Addr = v
	}

	hs, cleanup, err := NewHTTPServer(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	app := kratos.New(
		kratos.Name(Name),
		kratos.Version(Version),
		kratos.Logger(logger.KratosLogger{}),
		kratos.Server(hs),
	)

	logger.Log.WithField("addr", cfg.Server.Addr).
		WithField("model", cfg.LLM.Model).
		WithField("history", cfg.DB.Path != "").
		Info("starting learnmap server")
	return app.Run()
}

// NewHTTPServer assembles the API server from configuration. cleanup
// releases the history database.
func NewHTTPServer(cfg *models.Config) (*http.Server, func(), error) {
	analyzer, err := bootstrap.Analyzer(cfg)
	if err != nil {
		return nil, nil, err
	}
	resolver, err := bootstrap.Resolver(cfg)
	if err != nil {
		return nil, nil, err
	}

	opts := []server.HandlerOption{
		server.WithLimiter(server.NewLimiter(cfg.Concurrency)),
	}
	cleanup := func() {}

	store, err := bootstrap.History(cfg)
	if err != nil {
		return nil, nil, err
	}
	if store != nil {
		opts = append(opts, server.WithHistory(store))
		cleanup = func() {
			if err := store.Close(); err != nil {
				logger.Log.WithError(err).Warn("failed to close history database")
			}
		}
	}

	h := server.NewHandler(analyzer, resolver, opts...)
	return server.NewHTTPServer(cfg.Server, h), cleanup, nil
}

func Command() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the learning map HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: "listen address, overrides server.addr and PORT"},
		},
		Action: ServeAction,
	}
}
