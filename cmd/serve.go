package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/iksnae/workflow-recorder/internal"
	"github.com/iksnae/workflow-recorder/internal/server"
	"github.com/spf13/cobra"
)

var (
	serveAddr     string
	serveNoSave   bool
	serveNoMetric bool
)

// serveCmd runs the recording agent
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the recording agent",
	Long: `Run the HTTP agent the browser extension talks to.

Routes:
  POST /api/messages                  control and event messages
  POST /api/tabs                      tab lifecycle signals
  GET  /api/stream                    WebSocket update feed
  GET  /api/workflows[/{id}[/export]] archived workflows
  GET  /metrics                       Prometheus metrics
  GET  /healthz                       liveness`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := settings.Addr
		if serveAddr != "" {
			addr = serveAddr
		}

		archive, err := openArchive()
		if err != nil {
			return err
		}
		defer archive.Close()

		var metrics *internal.Metrics
		if !serveNoMetric {
			metrics = internal.NewMetrics()
		}
		hub := server.NewHub()

		opts := settings.RecorderOptions()
		opts.Broadcaster = hub
		opts.Metrics = metrics
		recorder := internal.NewRecorder(opts)

		var saver internal.WorkflowSaver
		if settings.AutoSave && !serveNoSave {
			saver = archive
		}

		srv := server.New(addr, server.Deps{
			Controller:      internal.NewController(recorder, saver),
			Archive:         archive,
			Metrics:         metrics,
			Hub:             hub,
			Logger:          internal.Logger(),
			CORSAllowOrigin: settings.CORSAllowOrigin,
		})

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		internal.LogInfo("Archive: %s", dataPaths.ArchiveDB)
		return srv.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides config)")
	serveCmd.Flags().BoolVar(&serveNoSave, "no-save", false, "Do not archive workflows when a recording stops")
	serveCmd.Flags().BoolVar(&serveNoMetric, "no-metrics", false, "Disable the /metrics endpoint")
}
