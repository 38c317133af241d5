package cmd

import (
	"github.com/spf13/cobra"

	"github.com/userTI10/Dashboard-admissao/internal/api"
	"github.com/userTI10/Dashboard-admissao/internal/logger"
	"github.com/userTI10/Dashboard-admissao/internal/metrics"
)

func newServeCommand() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			deps, err := newCommandDeps("stdout")
			if err != nil {
				return err
			}
			defer func() { _ = deps.Logger.Sync() }()

			if port != 0 {
				deps.Config.Service.Port = port
			}

			reg := metrics.NewRegistry()
			svc := deps.newDashboardService(reg)
			handler := api.NewHandler(svc, deps.Config.Service.Name, deps.Config.Service.Version, deps.Logger)
			server := api.NewServer(handler, deps.Config, deps.Logger, metrics.Handler(reg))

			deps.Logger.Info("Starting holmes dashboard",
				logger.Int("port", deps.Config.Service.Port),
				logger.Int("categories", len(svc.Categories())),
			)
			return server.RunWithGracefulShutdown(cmd.Context())
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "listen port (overrides service.port)")
	return cmd
}
