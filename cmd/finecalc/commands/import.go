package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jask/finecalc/internal/service"
)

var (
	importEncoding string
	assignIDs      bool
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import reference tables from CSV",
	}
	cmd.PersistentFlags().StringVar(&importEncoding, "encoding", "utf-8", "input encoding: utf-8 or shift_jis")

	catalogCmd := &cobra.Command{
		Use:   "catalog <file.csv>",
		Short: "Merge offenses (crime_id, crime, fine) into the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, args[0], (*service.IngestService).ImportCatalogCSV)
		},
	}
	catalogCmd.Flags().BoolVar(&assignIDs, "assign-ids", false, "derive ids for rows without crime_id")

	presetsCmd := &cobra.Command{
		Use:   "presets <file.csv>",
		Short: "Merge presets (preset_name, member_list) into the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, args[0], (*service.IngestService).ImportPresetsCSV)
		},
	}

	cmd.AddCommand(catalogCmd, presetsCmd)
	return cmd
}

type importFunc func(*service.IngestService, context.Context, io.Reader) (service.IngestResult, error)

func runImport(cmd *cobra.Command, path string, fn importFunc) error {
	ctx := cmd.Context()
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	st, closer, err := openStore(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer closer.Close()

	svc := &service.IngestService{Store: st, Encoding: importEncoding, AssignMissingIDs: assignIDs}
	res, err := fn(svc, ctx, f)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, e := range res.Errors {
		fmt.Fprintf(out, "  %v\n", e)
	}
	fmt.Fprintf(out, "imported %d, skipped %d, errors %d\n", res.Imported, res.Skipped, len(res.Errors))
	log.Info("import", "file", path, "imported", res.Imported, "skipped", res.Skipped, "errors", len(res.Errors))
	return nil
}
