package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/finclutech/employee-service/internal/export"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "write every employee to an xlsx workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, logger, err := openApp(cmd.Context(), nil)
		if err != nil {
			return err
		}
		defer logger.Sync() //nolint:errcheck
		defer app.Close()

		views, err := app.Employees.ListAllEmployees(cmd.Context())
		if err != nil {
			return err
		}
		data, err := export.EmployeesXLSX(views)
		if err != nil {
			return err
		}
		if err := os.WriteFile(exportOut, data, 0o644); err != nil {
			return err
		}
		cmd.Printf("wrote %d employees to %s\n", len(views), exportOut)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "employees.xlsx", "output file")
}
