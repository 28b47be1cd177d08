package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"shoppos/internal/dto"
	"shoppos/internal/infra"
	"shoppos/internal/repository"
	"shoppos/internal/service"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(productsCmd)
	productsCmd.AddCommand(productsExportCmd)
	productsCmd.AddCommand(productsImportCmd)

	productsExportCmd.Flags().StringP("output", "o", "", "Write to this file instead of stdout (.xlsx selects the workbook format)")
}

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "Export or import the product catalog",
}

var productsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export every product as CSV or XLSX",
	RunE:  runProductsExport,
}

var productsImportCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Import products from a .csv or .xlsx file",
	Args:  cobra.ExactArgs(1),
	RunE:  runProductsImport,
}

func productService() (service.ProductService, func(), error) {
	cfg, db, err := openDatabase()
	if err != nil {
		return nil, nil, err
	}
	svc := service.NewProductService(repository.NewProductRepository(db), cfg.LowStockThreshold)
	return svc, func() { _ = infra.CloseDatabase(db) }, nil
}

func isWorkbook(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".xlsx")
}

func runProductsExport(cmd *cobra.Command, _ []string) error {
	output, _ := cmd.Flags().GetString("output")

	svc, closeDB, err := productService()
	if err != nil {
		return err
	}
	defer closeDB()

	var w io.Writer = cmd.OutOrStdout()
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	if isWorkbook(output) {
		return svc.ExportXLSX(cmd.Context(), w)
	}
	return svc.ExportCSV(cmd.Context(), w)
}

func runProductsImport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	svc, closeDB, err := productService()
	if err != nil {
		return err
	}
	defer closeDB()

	var result *dto.ImportResult
	if isWorkbook(args[0]) {
		result, err = svc.ImportXLSX(cmd.Context(), f)
	} else {
		result, err = svc.ImportCSV(cmd.Context(), f)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "rows: %d  imported: %d  skipped: %d\n", result.Total, result.Imported, result.Skipped)
	for _, e := range result.Errors {
		fmt.Fprintf(out, "  line %d: %s\n", e.Line, e.Reason)
	}
	return nil
}
