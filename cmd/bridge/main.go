package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/marcelsud/session-bridge/bridge"
	"github.com/marcelsud/session-bridge/command"
	"github.com/marcelsud/session-bridge/config"
	"github.com/marcelsud/session-bridge/driver"
	"github.com/marcelsud/session-bridge/driver/whatsmeow"
	"github.com/marcelsud/session-bridge/internal/http/chi"
	"github.com/marcelsud/session-bridge/internal/logger"
	"github.com/marcelsud/session-bridge/media"
	"github.com/marcelsud/session-bridge/metrics"
	"github.com/marcelsud/session-bridge/registry"
	"github.com/marcelsud/session-bridge/registry/sqlite"
	"github.com/marcelsud/session-bridge/session"
	sessionredis "github.com/marcelsud/session-bridge/session/redis"
	"github.com/marcelsud/session-bridge/subscription"
	"github.com/marcelsud/session-bridge/webhook"
	"github.com/marcelsud/session-bridge/webhook/payload"
	"github.com/marcelsud/session-bridge/webhook/signature"
)

const TIMEOUT = 30 * time.Second

// imageFetchTimeout bounds downloads of imageUrl in send-image
const imageFetchTimeout = 30 * time.Second

/* bridge runs one session: the driver, its status reporting, webhook fan-out and the command API
 * Usage: bridge [--config bridge.yaml] <session_id>
 * Exit codes: 0 = stopped by a signal, 1 = configuration error or unrecoverable session failure
 */

var configFile string

var rootCmd = &cobra.Command{
	Use:           "bridge [session_id]",
	Short:         "Run one messaging session and its command API",
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runBridge,
}

func main() {
	rootCmd.Flags().StringVar(&configFile, "config", "", "config file (default ./bridge.yaml when present)")
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runBridge(cmd *cobra.Command, args []string) error {
	cfg, err := config.GetConfig(configFile)
	if err != nil {
		return err
	}
	if len(args) == 1 {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid session id %q: %w", args[0], err)
		}
		cfg.Session.ID = id
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger.Init(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT,
	)
	defer stop()

	id := cfg.Session.ID
	source, writers, closeRegistry, err := openRegistry(cfg)
	if err != nil {
		return err
	}
	defer closeRegistry()

	var mirror *sessionredis.Mirror
	if cfg.Redis.Enabled {
		mirror, err = sessionredis.NewMirror(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.HeartbeatTTL)
		if err != nil {
			return err
		}
		defer mirror.Close()
		writers = append(writers, mirror)
	}
	status := session.NewService(id, writers...)

	drv, err := whatsmeow.New(ctx, whatsmeow.Config{
		SessionID: id,
		StoreDir:  cfg.Driver.StoreDir,
		LogLevel:  cfg.Driver.LogLevel,
	})
	if err != nil {
		return err
	}
	defer drv.Close()

	throughput := metrics.NewThroughput()
	exporter, err := metrics.NewOTelExporter(metrics.NewLocalCollector(status.Current, throughput), throughput)
	if err != nil {
		return err
	}
	defer exporter.Shutdown(context.Background())

	var secret signature.Secret
	if cfg.Webhook.SigningSecret != "" {
		secret, err = signature.ParseSecret(cfg.Webhook.SigningSecret)
		if err != nil {
			return err
		}
	}
	baseURL := cfg.Media.PublicBaseURL
	serveFiles := baseURL == ""
	if serveFiles {
		baseURL = fmt.Sprintf("http://localhost:%d", cfg.Port())
	}
	dispatcher := webhook.NewService(subscription.NewMatcher(source), webhook.Config{
		Format:  payload.NewFormat(cfg.Webhook.Envelope),
		Timeout: cfg.Webhook.Timeout,
		Secret:  secret,
	}).
		WithMedia(media.NewStore(drv, cfg.Media.Dir, baseURL)).
		WithRecorder(exporter).
		WithAccount(func() payload.Account {
			me := drv.Me()
			return payload.Account{ID: me.ID, PushName: me.PushName}
		})

	commands := command.NewService(id, drv, dispatcher, media.NewLoader(imageFetchTimeout))

	var qrOut io.Writer
	if cfg.Driver.QRTerminal {
		qrOut = os.Stdout
	}
	supervisor := bridge.New(id, drv, status, dispatcher, bridge.Config{
		ReinitBackoff: cfg.Bridge.ReinitBackoff,
		StatusTimeout: cfg.Bridge.StatusTimeout,
		QRTerminal:    qrOut,
	})

	if mirror != nil {
		go func() {
			if err := mirror.Heartbeat(ctx, status.Current); err != nil {
				log.Warn().Err(err).Int("session_id", id).Msg("session heartbeat stopped")
			}
		}()
	}

	var files http.Handler
	if serveFiles {
		files = chi.Files(cfg.Media.Dir)
	}
	r := chi.Handlers(ctx, commands, status, drv, exporter.ServeHTTP(), files)
	srv := &http.Server{
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		Addr:         fmt.Sprintf(":%d", cfg.Port()),
		Handler:      r,
	}

	errShutdown := make(chan error, 1)
	go shutdown(srv, ctx, errShutdown)
	go func() {
		log.Info().Int("session_id", id).Int("port", cfg.Port()).Msg("command API listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("command API stopped")
			stop()
		}
	}()

	runErr := supervisor.Run(ctx)
	stop()
	if err := <-errShutdown; err != nil {
		log.Warn().Err(err).Msg("shutting down command API")
	}
	supervisor.Wait()
	commands.Wait()

	if runErr != nil {
		if errors.Is(runErr, driver.ErrUnrecoverable) {
			return fmt.Errorf("session %d: %w", id, runErr)
		}
		return runErr
	}
	log.Info().Int("session_id", id).Msg("session stopped")
	return nil
}

// openRegistry picks the subscription source and status writers for the configured registry driver
func openRegistry(cfg *config.Config) (subscription.Source, []session.Writer, func(), error) {
	switch cfg.Registry.Driver {
	case "http":
		c := registry.NewClient(cfg.Registry.URL, cfg.Registry.Timeout)
		return c, []session.Writer{c}, func() {}, nil
	case "sqlite":
		st, err := sqlite.Open(cfg.Registry.SQLitePath)
		if err != nil {
			return nil, nil, nil, err
		}
		return st, []session.Writer{st}, func() { st.Close() }, nil
	default:
		return subscription.NewFileSource(cfg.Registry.FilePath), []session.Writer{session.NewLogWriter()}, func() {}, nil
	}
}

func shutdown(server *http.Server, ctxShutdown context.Context, errShutdown chan error) {
	<-ctxShutdown.Done()

	ctxTimeout, stop := context.WithTimeout(context.Background(), TIMEOUT)
	defer stop()

	err := server.Shutdown(ctxTimeout)
	switch err {
	case nil:
		log.Info().Msg("shutting down server")
		errShutdown <- nil
	case context.DeadlineExceeded:
		errShutdown <- fmt.Errorf("Forcing closing the server")
	default:
		errShutdown <- fmt.Errorf("Forcing closing the server")
	}
}
