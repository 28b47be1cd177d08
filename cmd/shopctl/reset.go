package main

import (
	"errors"
	"fmt"

	"shoppos/internal/dto"
	"shoppos/internal/infra"
	"shoppos/internal/repository"
	"shoppos/internal/service"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(resetCmd)

	resetCmd.Flags().Bool("products", false, "Delete all products")
	resetCmd.Flags().Bool("sales", false, "Delete all sales and their refunds")
	resetCmd.Flags().Bool("refunds", false, "Delete all refunds")
	resetCmd.Flags().Bool("credit-customers", false, "Delete all credit customers and their ledger")
	resetCmd.Flags().Bool("all", false, "Delete every business record")
	resetCmd.Flags().Bool("yes", false, "Confirm the deletion")
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Bulk-delete business data",
	Long: `Bulk-delete business data. Users, roles, permissions and shop settings
are never touched. Nothing is deleted unless --yes is given.`,
	RunE: runReset,
}

func runReset(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	all, _ := flags.GetBool("all")
	yes, _ := flags.GetBool("yes")
	var req dto.ResetRequest
	req.Products, _ = flags.GetBool("products")
	req.Sales, _ = flags.GetBool("sales")
	req.Refunds, _ = flags.GetBool("refunds")
	req.CreditCustomers, _ = flags.GetBool("credit-customers")

	if !all && !req.Any() {
		return errors.New("select at least one data type or --all")
	}
	if !yes {
		return errors.New("refusing to delete without --yes")
	}

	_, db, err := openDatabase()
	if err != nil {
		return err
	}
	defer infra.CloseDatabase(db)

	svc := service.NewResetService(repository.NewResetRepository(db))
	var res *dto.ResetResponse
	if all {
		res, err = svc.ResetAll(cmd.Context())
	} else {
		res, err = svc.ResetSelected(cmd.Context(), req)
	}
	if err != nil {
		return err
	}
	for _, t := range res.Tables {
		fmt.Fprintf(cmd.OutOrStdout(), "%-20s %d\n", t.Table, t.Deleted)
	}
	return nil
}
