package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/finclutech/employee-service/internal/seed"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "load departments and employees from a yaml file",
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(seedFile)
		if err != nil {
			return err
		}
		defer f.Close()

		data, err := seed.Load(f)
		if err != nil {
			return err
		}

		app, logger, err := openApp(cmd.Context(), nil)
		if err != nil {
			return err
		}
		defer logger.Sync() //nolint:errcheck
		defer app.Close()

		res, err := seed.NewSeeder(app.Departments, app.Employees, logger).Apply(cmd.Context(), data)
		if err != nil {
			return err
		}
		cmd.Printf("departments: %d created, %d skipped\nemployees: %d created, %d skipped\n",
			res.DepartmentsCreated, res.DepartmentsSkipped, res.EmployeesCreated, res.EmployeesSkipped)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "seed.yaml", "path to the seed file")
}
