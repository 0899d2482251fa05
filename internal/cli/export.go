package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harvestlane/contactsync/internal/backup"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Output   string
	Password string
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the local queue to a backup archive",
		Long: `Export all locally queued submissions (and the local submission
store, when present) to a gzipped archive. With --password the archive
is encrypted; the password is never stored and must be supplied again
on import.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "out", "o", "contactsync-backup.tar.gz", "archive output path")
	cmd.Flags().StringVar(&opts.Password, "password", "", "encrypt the archive with this password")

	return cmd
}

func runExport(cmd *cobra.Command, opts *ExportOptions) error {
	a, err := openApp(opts.RootOptions)
	if err != nil {
		return err
	}
	defer a.Close()

	svc := backup.NewService(a.queue, nil)
	manifest, err := svc.Export(opts.Output, opts.Password)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.Format == "json" {
		return printJSON(out, manifest)
	}
	fmt.Fprintf(out, "Exported %d pending submission(s) to %s.\n", manifest.PendingCount, opts.Output)
	return nil
}

// ImportOptions holds flags for the import command.
type ImportOptions struct {
	*RootOptions
	Password string
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ImportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "import <archive>",
		Short: "Restore queued submissions from a backup archive",
		Args:  cobra.ExactArgs(1),

		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.Password, "password", "", "password for encrypted archives")

	return cmd
}

func runImport(cmd *cobra.Command, opts *ImportOptions, path string) error {
	a, err := openApp(opts.RootOptions)
	if err != nil {
		return err
	}
	defer a.Close()

	archive, err := backup.Open(path, opts.Password)
	if err != nil {
		return err
	}

	svc := backup.NewService(a.queue, nil)
	restored, err := svc.RestorePending(archive)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Restored %d pending submission(s) from %s.\n", restored, path)
	return nil
}
