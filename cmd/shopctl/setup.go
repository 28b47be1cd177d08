package main

import (
	"fmt"

	"shoppos/internal/config"
	"shoppos/internal/dto"
	"shoppos/internal/infra"
	"shoppos/internal/service"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(connectionCmd)
	connectionCmd.AddCommand(connectionShowCmd)
	connectionCmd.AddCommand(connectionSetCmd)
	connectionCmd.AddCommand(connectionClearCmd)
}

var connectionCmd = &cobra.Command{
	Use:   "connection",
	Short: "Inspect or change the database connection override",
	Long: `Inspect or change the database connection override file that the server
reads at startup. A running server picks up changes on its next restart; use
the setup page to switch a live server.`,
}

var connectionShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the active connection string with the password masked",
	RunE: func(cmd *cobra.Command, _ []string) error {
		svc, err := setupService()
		if err != nil {
			return err
		}
		res, err := svc.Current()
		if err != nil {
			return err
		}
		printConnection(cmd, res)
		return nil
	},
}

var connectionSetCmd = &cobra.Command{
	Use:   "set DATABASE_URL",
	Short: "Test DATABASE_URL and save it as the override",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := setupService()
		if err != nil {
			return err
		}
		res, err := svc.Apply(cmd.Context(), dto.ConnectionRequest{DatabaseURL: args[0]})
		if err != nil {
			return err
		}
		printConnection(cmd, res)
		return nil
	},
}

var connectionClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the override and fall back to DATABASE_URL",
	RunE: func(cmd *cobra.Command, _ []string) error {
		svc, err := setupService()
		if err != nil {
			return err
		}
		res, err := svc.Reset(cmd.Context())
		if err != nil {
			return err
		}
		printConnection(cmd, res)
		return nil
	},
}

func setupService() (service.SetupService, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	store := infra.NewConnectionStore(cfg.ConnectionOverridePath)
	// No live server to swap: the schema is still applied so a fresh database
	// is usable on the next start.
	reload := func(dsn string) error {
		db, err := infra.NewDatabase(dsn)
		if err != nil {
			return err
		}
		return infra.CloseDatabase(db)
	}
	return service.NewSetupService(store, cfg.DatabaseURL, infra.PingDSN, reload), nil
}

func printConnection(cmd *cobra.Command, res *dto.ConnectionResponse) {
	fmt.Fprintf(cmd.OutOrStdout(), "source: %s\nurl:    %s\n", res.Source, res.DatabaseURL)
}
