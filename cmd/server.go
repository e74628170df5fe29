package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ziadkadry99/campusmap/internal/auth"
	"github.com/ziadkadry99/campusmap/internal/config"
	"github.com/ziadkadry99/campusmap/internal/controller"
	"github.com/ziadkadry99/campusmap/internal/directory"
	"github.com/ziadkadry99/campusmap/internal/geo"
	"github.com/ziadkadry99/campusmap/internal/logging"
	"github.com/ziadkadry99/campusmap/internal/mapsocket"
	"github.com/ziadkadry99/campusmap/internal/routing"
	"github.com/ziadkadry99/campusmap/internal/server"
	"github.com/ziadkadry99/campusmap/internal/session"
	"github.com/ziadkadry99/campusmap/internal/web"
)

var (
	serverPort int
	serverOpen bool
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the campus map web server",
	Long:  `Loads the location directory and serves the map page, the login page, the JSON API and the map websocket.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = serverPort
		}
		log, err := newLogger(cfg)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// Without location data there is nothing to show.
		dir, err := loadDirectory(ctx, cfg)
		if err != nil {
			return err
		}
		if dir.Len() == 0 {
			log.Warn("location directory is empty", "source", cfg.Data.Locations)
		}

		sessions, closeSessions, err := openSessions(cfg)
		if err != nil {
			return err
		}
		defer closeSessions()

		serverCfg := server.Config{
			Port:           cfg.Server.Port,
			AllowAll:       cfg.Server.AllowAll,
			AllowedOrigins: cfg.Server.AllowedOrigins,
		}
		mapCfg := mapConfig(cfg, dir, sessions, log)
		mapCfg.AllowedOrigins = serverCfg.Origins()
		mapCfg.AllowAll = serverCfg.AllowAll
		limiter := auth.NewLoginRateLimiter(log)

		srv := server.New(serverCfg, server.Deps{
			Directory: dir,
			Sessions:  sessions,
			Gate:      auth.NewGate(userSource(cfg), log),
			Limiter:   limiter,
			Map:       mapsocket.New(mapCfg),
			Logger:    log,
		})

		log.Info("campusmap starting",
			"version", Version,
			"port", cfg.Server.Port,
			"locations", dir.Len(),
			"session_backend", string(cfg.Session.Backend),
			"server_side_routing", cfg.Routing.ServerSide,
		)
		if serverOpen {
			go web.OpenBrowser(fmt.Sprintf("http://localhost:%d", cfg.Server.Port))
		}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			log.Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
		g.Go(func() error {
			purgeIdle(gctx, sessions, limiter, cfg.Session, log)
			return nil
		})
		return g.Wait()
	},
}

// mapConfig translates the config into the websocket handler's settings.
func mapConfig(cfg *config.Config, dir *directory.Directory, sessions *session.Manager, log *logging.Logger) mapsocket.Config {
	var router routing.Router
	if cfg.Routing.ServerSide {
		router = routing.NewClient(routing.Config{
			ServiceURL: cfg.Routing.ServiceURL,
			Profile:    cfg.Routing.Profile,
			Timeout:    cfg.Routing.Timeout,
			UserAgent:  "campusmap/" + Version,
		})
	}
	return mapsocket.Config{
		Directory: dir,
		Sessions:  sessions,
		Controller: controller.Options{
			FocusZoom:     cfg.Map.FocusZoom,
			BoundsPadding: cfg.Map.BoundsPadding,
			RouteDebounce: cfg.Routing.Debounce,
			RouteProfile:  cfg.Routing.Profile,
			Router:        router,
		},
		Center: geo.LatLng{Lat: cfg.Map.CenterLat, Lng: cfg.Map.CenterLng},
		Zoom:   cfg.Map.Zoom,
		Tiles:  cfg.Map.Tiles,
		Logger: log,
	}
}

// purgeIdle drops idle sessions and refilled login rate-limit buckets until
// ctx is done.
func purgeIdle(ctx context.Context, sessions *session.Manager, limiter *auth.IPRateLimiter, cfg config.SessionConfig, log *logging.Logger) {
	t := time.NewTicker(cfg.PurgeInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := limiter.Sweep(); n > 0 {
				log.Debug("dropped idle rate-limit buckets", "count", n)
			}
			n, err := sessions.PurgeIdle(ctx, cfg.TTL)
			if err != nil {
				log.Warn("purging idle sessions", "error", err)
				continue
			}
			if n > 0 {
				log.Debug("purged idle sessions", "count", n)
			}
		}
	}
}

func init() {
	serverCmd.Flags().IntVar(&serverPort, "port", 8080, "Port to listen on (overrides server.port)")
	serverCmd.Flags().BoolVar(&serverOpen, "open", false, "Open the map in the default browser")
	rootCmd.AddCommand(serverCmd)
}
