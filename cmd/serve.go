package main

import (
	"fmt"

	"github.com/campusconnect-nz/campus-api/config"
	"github.com/campusconnect-nz/campus-api/pkg/logger"
	"github.com/campusconnect-nz/campus-api/pkg/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP API. Usage:

	campus-api serve --config-dir ./config
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := config.Load(configDir)
		if err != nil {
			return err
		}
		config.PrintStartupConfig(cmd.OutOrStdout(), env)

		zapLogger := logger.GetLogger(env.LoggerConfig)
		zap.ReplaceGlobals(zapLogger)
		defer func() { _ = logger.Sync() }()

		zap.L().Info("Starting Campus Connect API",
			zap.String("version", env.AppConfig.Version),
			zap.String("environment", env.AppConfig.Environment),
			zap.Int("port", env.AppConfig.Port))

		if err := server.StartServer(env); err != nil {
			zap.L().Error("Server exited", zap.Error(err))
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
