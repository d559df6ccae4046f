package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"gowakeonlan/internal/tui"
)

func newTUICmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive host list (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, s)
		},
	}
}

// runTUI runs the host list until the user quits. The model saves on quit.
func runTUI(cmd *cobra.Command, s *session) error {
	model := tui.NewHostsModel(cmd.Context(), s.app)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))

	final, err := p.Run()
	if err != nil {
		s.log.Error(err, "Error running TUI")
		return err
	}
	if m, ok := final.(tui.HostsModel); ok {
		return m.SaveErr()
	}
	return nil
}
