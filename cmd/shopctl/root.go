package main

import (
	"fmt"

	"shoppos/internal/config"
	"shoppos/internal/infra"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var rootCmd = &cobra.Command{
	Use:          "shopctl",
	Short:        "ShopPOS administration tool",
	SilenceUsage: true,
}

// openDatabase connects to the same database the server would use, honouring
// the connection override saved from the setup page.
func openDatabase() (*config.Config, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	dsn, _, err := infra.NewConnectionStore(cfg.ConnectionOverridePath).Resolve(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve connection: %w", err)
	}
	db, err := infra.NewDatabase(dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("connect %s: %w", infra.MaskDSN(dsn), err)
	}
	return cfg, db, nil
}
