package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/serpentine/internal/server"
	"github.com/matzehuels/serpentine/pkg/cache"
)

// serveCommand creates the command running the HTTP render server.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr          string
		noCache       bool
		maxDim        int
		maxSegments   int
		renderTimeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve rendered images over HTTP",
		Long: `Serve rendered images over HTTP.

GET /render.png takes the preset, shape, color, width, height, segments,
blend, grain, grain_style, footer and streams query parameters. Rendered
images are cached in Redis when SERPENTINE_REDIS_ADDR is set, otherwise in
the local cache directory.`,
		Example: `  serpentine serve --addr :8080
  curl -o card.png 'localhost:8080/render.png?shape=42&color=7'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			// Served renders live in their own key namespace.
			keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "serve:")
			runner := c.newRunner(ctx, noCache, keyer, logger)
			defer runner.Close()

			srv := server.New(runner, logger)
			srv.MaxDimension = maxDim
			srv.MaxSegments = maxSegments
			srv.RenderTimeout = renderTimeout
			return listen(ctx, addr, srv, renderTimeout)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().IntVar(&maxDim, "max-dimension", server.DefaultMaxDimension, "largest width or height a request may ask for")
	cmd.Flags().IntVar(&maxSegments, "max-segments", server.DefaultMaxSegments, "largest total segment count a request may ask for")
	cmd.Flags().DurationVar(&renderTimeout, "render-timeout", server.DefaultRenderTimeout, "time limit for a single render")
	return cmd
}

// listen serves h on addr until ctx is cancelled, then shuts down
// gracefully. Responses may take up to renderTimeout to produce.
func listen(ctx context.Context, addr string, h http.Handler, renderTimeout time.Duration) error {
	logger := loggerFromContext(ctx)
	hs := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      renderTimeout + 30*time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- hs.ListenAndServe()
	}()
	printSuccess("Listening on %s", StyleHighlight.Render(addr))

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := hs.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
