package commands

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jask/finecalc/internal/session"
	"github.com/jask/finecalc/internal/tui"
)

func runTUI(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	st, closer := openSessionStore(ctx, cfg.Store, log)
	defer closer.Close()

	sess := session.New(st,
		session.WithLogger(log),
		session.WithLocation(cfg.Location()),
		session.WithDuration(cfg.Wanted.DurationHours),
	)
	warnings := sess.Open(ctx)

	p := tea.NewProgram(tui.New(ctx, sess, cfg, warnings), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
