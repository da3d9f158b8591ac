package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/waffleviz/waffle/internal/server"
	"github.com/waffleviz/waffle/pkg/cache"
	"github.com/waffleviz/waffle/pkg/errors"
	"github.com/waffleviz/waffle/pkg/store"
)

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		storeKind string
		mongoURI  string
		mongoDB   string
		redisAddr string
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the waffle HTTP API",
		Long: `Run the waffle HTTP API.

The server stores datasets and renders charts over HTTP. Datasets are
held in memory by default; pass --store mongo for a persistent MongoDB
backend. Rendered artifacts are cached on local disk, or in Redis when
--redis is set.

The server shuts down gracefully on SIGINT or SIGTERM.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			ca, err := serveCache(ctx, redisAddr, noCache)
			if err != nil {
				return err
			}
			st, err := serveStore(ctx, storeKind, mongoURI, mongoDB)
			if err != nil {
				ca.Close()
				return err
			}

			srv := server.New(server.Config{
				Store:  st,
				Cache:  ca,
				Logger: c.Logger,
			})
			defer srv.Close(context.Background())

			printInfo("Serving waffle API on %s", addr)
			printDetail("store: %s", storeKind)
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&storeKind, "store", "memory", "dataset store backend: memory (default), mongo")
	cmd.Flags().StringVar(&mongoURI, "mongo-uri", "", "MongoDB connection URI (with --store mongo)")
	cmd.Flags().StringVar(&mongoDB, "mongo-db", "waffle", "MongoDB database name")
	cmd.Flags().StringVar(&redisAddr, "redis", "", "Redis address for the artifact cache (host:port)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable artifact caching")

	return cmd
}

// serveCache picks the cache backend for the server.
func serveCache(ctx context.Context, redisAddr string, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if redisAddr != "" {
		return cache.NewRedisCache(ctx, redisAddr)
	}
	return newCache(false)
}

// serveStore picks the dataset store backend for the server.
func serveStore(ctx context.Context, kind, mongoURI, mongoDB string) (store.Store, error) {
	switch kind {
	case "memory":
		return store.NewMemoryStore(), nil
	case "mongo":
		if mongoURI == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "--store mongo requires --mongo-uri")
		}
		return store.NewMongoStore(ctx, mongoURI, mongoDB)
	}
	return nil, errors.New(errors.ErrCodeInvalidInput,
		"unknown store backend %q (must be 'memory' or 'mongo')", kind)
}
