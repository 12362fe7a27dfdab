// Errors command group manages captured application errors.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var errorsCmd = &cobra.Command{
	Use:   "errors",
	Short: "Inspect and triage captured errors",
	Long: `Errors manages the captured-error table: list visible entries, dismiss
them, or report them to the configured endpoint and remove them on success.

Example:
  walletdb errors list
  walletdb errors dismiss 3f2a...
  walletdb errors report
  walletdb errors clear`,
}

var errorsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List captured errors",
	Args:  cobra.NoArgs,
	RunE:  runErrorsList,
}

var errorsDismissCmd = &cobra.Command{
	Use:   "dismiss [id...]",
	Short: "Dismiss captured errors (all when no ids given)",
	RunE:  runErrorsDismiss,
}

var errorsReportCmd = &cobra.Command{
	Use:   "report [id...]",
	Short: "Report captured errors and dismiss them on success",
	RunE:  runErrorsReport,
}

var errorsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every captured error",
	Args:  cobra.NoArgs,
	RunE:  runErrorsClear,
}

func init() {
	errorsCmd.AddCommand(errorsListCmd)
	errorsCmd.AddCommand(errorsDismissCmd)
	errorsCmd.AddCommand(errorsReportCmd)
	errorsCmd.AddCommand(errorsClearCmd)
}

func runErrorsList(cmd *cobra.Command, args []string) error {
	captured, err := store.VisibleErrors()
	if err != nil {
		return fmt.Errorf("list errors: %w", err)
	}

	if flagJSON {
		return printJSON(captured)
	}

	if len(captured) == 0 {
		fmt.Println("no captured errors")
		return nil
	}
	for _, ce := range captured {
		// counts stores recurrences, so occurrences are counts+1.
		fmt.Printf("%s  x%d  %s: %s\n", ce.ID, ce.Extra.Counts+1, ce.Error.Name, ce.Error.Message)
	}
	return nil
}

func runErrorsDismiss(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		if err := store.DismissAllErrors(); err != nil {
			return fmt.Errorf("dismiss errors: %w", err)
		}
		fmt.Println("dismissed all errors")
		return nil
	}

	if err := store.DismissErrors(args...); err != nil {
		return fmt.Errorf("dismiss errors: %w", err)
	}
	fmt.Printf("dismissed %d error(s)\n", len(args))
	return nil
}

func runErrorsReport(cmd *cobra.Command, args []string) error {
	if configReportURL == "" {
		return fmt.Errorf("no report_url configured")
	}

	ids := args
	if len(ids) == 0 {
		visible, err := store.VisibleErrors()
		if err != nil {
			return fmt.Errorf("list errors: %w", err)
		}
		if len(visible) == 0 {
			fmt.Println("no captured errors to report")
			return nil
		}
		for _, ce := range visible {
			ids = append(ids, ce.ID)
		}
	}

	if err := store.ReportErrors(cmd.Context(), ids...); err != nil {
		return fmt.Errorf("report errors: %w", err)
	}
	fmt.Println("reported and dismissed")
	return nil
}

func runErrorsClear(cmd *cobra.Command, args []string) error {
	if err := store.ClearErrors(); err != nil {
		return fmt.Errorf("clear errors: %w", err)
	}
	fmt.Println("cleared")
	return nil
}
