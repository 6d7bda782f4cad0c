package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jask/finecalc/internal/service"
)

var (
	exportEncoding string
	confirmReset   bool
)

func ledgerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Inspect or maintain the stored wanted list",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Print the stored wanted list",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, closer, err := openStore(ctx, cfg.Store)
			if err != nil {
				return err
			}
			defer closer.Close()

			svc := &service.LedgerService{Store: st, Location: cfg.Location()}
			rows, err := svc.List(ctx)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID/NAME\tSTART\tEND\tCHARGES\tTOTAL")
			for _, r := range rows {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s%d\n",
					r.SubjectID,
					r.Start.In(svc.Location).Format(cfg.UI.TimeFormat),
					r.End.In(svc.Location).Format(cfg.UI.TimeFormat),
					r.Charges, cfg.UI.CurrencySymbol, r.TotalFine)
			}
			return tw.Flush()
		},
	}

	exportCmd := &cobra.Command{
		Use:   "export <file.csv>",
		Short: "Write the stored wanted list to a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, closer, err := openStore(ctx, cfg.Store)
			if err != nil {
				return err
			}
			defer closer.Close()

			f, err := os.Create(args[0])
			if err != nil {
				return err
			}
			svc := &service.LedgerService{Store: st, Location: cfg.Location()}
			n, err := svc.Export(ctx, f, exportEncoding)
			if cerr := f.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d rows to %s\n", n, args[0])
			return nil
		},
	}
	exportCmd.Flags().StringVar(&exportEncoding, "encoding", "shift_jis", "output encoding: utf-8 or shift_jis")

	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Empty the stored wanted list",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirmReset {
				return fmt.Errorf("refusing to reset without --yes")
			}
			ctx := cmd.Context()
			st, closer, err := openStore(ctx, cfg.Store)
			if err != nil {
				return err
			}
			defer closer.Close()

			if err := (&service.MaintenanceService{Store: st}).Reset(ctx); err != nil {
				return err
			}
			log.Info("wanted list reset")
			fmt.Fprintln(cmd.OutOrStdout(), "wanted list emptied")
			return nil
		},
	}
	resetCmd.Flags().BoolVarP(&confirmReset, "yes", "y", false, "confirm the reset")

	cmd.AddCommand(listCmd, exportCmd, resetCmd)
	return cmd
}
