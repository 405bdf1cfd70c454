package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/iota-uz/review-sdk/modules/review/services"
)

func newTemplateCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "template",
		Short: "Write an empty import workbook with the expected sheets and headers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTemplate(output)
		},
	}
	cmd.Flags().StringVar(&output, "output", services.TemplateFileName, "Destination path")
	return cmd
}

func runTemplate(output string) error {
	if output == "" {
		return withCode(exitUsage, fmt.Errorf("--output is required"))
	}
	data, err := services.NewTemplateService().Template()
	if err != nil {
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write template: %w", err)
	}
	return nil
}
