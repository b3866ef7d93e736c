package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/skillforge/internal/lint"
)

var lintCmd = &cobra.Command{
	Use:   "lint <file.json>...",
	Short: "Validate template JSON files against the save schema",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		issues, err := lint.ValidateFiles(args)
		if err != nil {
			return err
		}

		if len(issues) == 0 {
			fmt.Printf("%d file(s) OK\n", len(args))
			return nil
		}

		for _, issue := range issues {
			fmt.Println(issue)
		}
		return fmt.Errorf("%d of %d file(s) failed validation", len(issues), len(args))
	},
}
