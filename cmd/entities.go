package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sells-group/answer-engine/internal/entity"
)

var entitiesCmd = &cobra.Command{
	Use:   "entities",
	Short: "Manage the company disambiguation index",
}

var entitiesImportCmd = &cobra.Command{
	Use:   "import <csv-file>",
	Short: "Import companies from a CSV file (name,description,region)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := entity.OpenIndex(cfg.Entities.Path)
		if err != nil {
			return err
		}
		defer index.Close()

		n, err := index.ImportCSV(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "imported: %d\n", n)
		return nil
	},
}

func init() {
	entitiesCmd.AddCommand(entitiesImportCmd)
	rootCmd.AddCommand(entitiesCmd)
}
