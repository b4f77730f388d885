package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/viant/afs"

	"github.com/viant/pytracer/validate"
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <dir>",
		Short: "Validate every artifact JSON file under a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			fs := afs.New()

			report, err := validate.Directory(context.Background(), fs, dir)
			if err != nil {
				return fmt.Errorf("validate %q: %w", dir, err)
			}

			for file, r := range report.Files {
				status := "ok"
				if !r.OK {
					status = "CONFLICTS"
				}
				fmt.Printf("%s: %s\n", file, status)
				if !r.OK {
					fmt.Print(validate.FormatConflictReport(r))
				}
			}
			if !report.OK() {
				return fmt.Errorf("validation found conflicts")
			}
			return nil
		},
	}
	return cmd
}
