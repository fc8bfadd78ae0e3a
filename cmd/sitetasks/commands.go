package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yukikurage/sitewalk-tasks/internal/constants"
	"github.com/yukikurage/sitewalk-tasks/internal/services"
)

func digestCmd(load appLoader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Send the weekly digest to every subcontractor now",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := load(cmd)
			if err != nil {
				return err
			}

			report := a.EmailService.SendWeeklyEmails(cmd.Context(), services.DigestOptions{Trigger: constants.DigestTriggerCLI})

			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Weekly digest: %d of %d sent\n", report.EmailsSent, len(report.Results))
			for _, r := range report.Results {
				state := "FAILED"
				switch {
				case r.Success:
					state = "SENT"
				case r.Skipped:
					state = "SKIPPED"
				}
				name := r.Subcontractor
				if name == "" {
					name = "-"
				}
				fmt.Fprintf(out, "  %-8s %-30s %2d tasks  %s\n", state, name, r.TaskCount, r.Message)
			}
			return nil
		},
	}

	cmd.Flags().BoolP("json", "j", false, "Output as JSON")

	return cmd
}

func initCmd(load appLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the master and Contractors tabs if missing",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := load(cmd)
			if err != nil {
				return err
			}

			created, err := a.TaskService.InitializeSheet(cmd.Context())
			if err != nil {
				return err
			}
			if len(created) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Sheet already initialized")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created tabs: %s\n", strings.Join(created, ", "))
			return nil
		},
	}
}

func projectCmd(load appLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "project [name]",
		Short: "Create a project tab",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := load(cmd)
			if err != nil {
				return err
			}

			created, err := a.TaskService.CreateNewProjectTab(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "Project tab %s created\n", args[0])
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Project tab %s already exists\n", args[0])
			}
			return nil
		},
	}
}

func exportCmd(load appLoader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [subcontractor]",
		Short: "Export a subcontractor's open tasks as csv or xlsx",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := load(cmd)
			if err != nil {
				return err
			}

			format, _ := cmd.Flags().GetString("format")
			export, err := a.ExportService.ExportSubcontractorTasks(cmd.Context(), args[0], format)
			if err != nil {
				return err
			}

			output, _ := cmd.Flags().GetString("output")
			if output == "-" {
				_, err := cmd.OutOrStdout().Write(export.Data)
				return err
			}
			if output == "" {
				output = export.Filename
			}
			if err := os.WriteFile(output, export.Data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringP("format", "f", services.ExportFormatCSV, "Export format (csv, xlsx)")
	cmd.Flags().StringP("output", "o", "", "Output file, - for stdout (default: generated name)")

	return cmd
}
