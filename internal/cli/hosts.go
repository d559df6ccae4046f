package cli

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"gowakeonlan/internal/registry"
	"gowakeonlan/internal/reporting"
)

// handleArg turns a 1-based index from the command line into a handle.
func handleArg(hosts *registry.Registry, arg string) (registry.Handle, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return registry.Handle{}, fmt.Errorf("invalid host index %q: must be a number from 1", arg)
	}
	h, err := hosts.HandleAt(n - 1)
	if err != nil {
		return registry.Handle{}, fmt.Errorf("no host at index %d: %w", n, err)
	}
	return h, nil
}

func handleArgs(hosts *registry.Registry, args []string) ([]registry.Handle, error) {
	handles := make([]registry.Handle, 0, len(args))
	for _, arg := range args {
		h, err := handleArg(hosts, arg)
		if err != nil {
			return nil, err
		}
		handles = append(handles, h)
	}
	return handles, nil
}

func newListCmd(s *session) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List known hosts",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return reporting.Hosts(cmd.OutOrStdout(), output, s.app.Hosts().Save())
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", reporting.FormatText, "output format: text, json or html")
	return cmd
}

func newReportCmd(s *session) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write an HTML report of the host list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filename, err := reporting.GenerateHostReport(dir, s.app.Hosts().Save())
			if err != nil {
				return fmt.Errorf("failed to generate report: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Report saved to %s\n", filename)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", ".", "directory the report is written to")
	return cmd
}

func newAddCmd(s *session) *cobra.Command {
	var name, mac, destination string
	var port int
	var selected bool
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a host",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rec := s.app.NewHostDefaults()
			rec.Selected = selected
			rec.Name = name
			rec.MACAddress = mac
			if cmd.Flags().Changed("port") {
				rec.Port = port
			}
			if cmd.Flags().Changed("destination") {
				rec.Destination = destination
			}

			h, err := s.app.AddHost(rec)
			if err != nil {
				return err
			}
			if err := s.app.Save(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added host %d\n", h.Index()+1)
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "host name")
	cmd.Flags().StringVarP(&mac, "mac", "m", "", "MAC address, e.g. AA:BB:CC:DD:EE:FF")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "UDP port (default from wake.default_port)")
	cmd.Flags().StringVar(&destination, "destination", "", "destination address (default from wake.default_destination)")
	cmd.Flags().BoolVarP(&selected, "select", "s", false, "select the host for the next wake")
	_ = cmd.MarkFlagRequired("mac")
	return cmd
}

func newEditCmd(s *session) *cobra.Command {
	var name, mac, destination string
	var port int
	cmd := &cobra.Command{
		Use:   "edit <index>",
		Short: "Change the fields of a host",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := handleArg(s.app.Hosts(), args[0])
			if err != nil {
				return err
			}
			rec, err := s.app.Hosts().Get(h)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("name") {
				rec.Name = name
			}
			if flags.Changed("mac") {
				rec.MACAddress = mac
			}
			if flags.Changed("port") {
				rec.Port = port
			}
			if flags.Changed("destination") {
				rec.Destination = destination
			}

			if err := s.app.EditHost(h, rec); err != nil {
				return err
			}
			return s.app.Save(cmd.Context())
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "host name")
	cmd.Flags().StringVarP(&mac, "mac", "m", "", "MAC address")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "UDP port")
	cmd.Flags().StringVar(&destination, "destination", "", "destination address")
	cmd.MarkFlagsOneRequired("name", "mac", "port", "destination")
	return cmd
}

func newRemoveCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <index>...",
		Aliases: []string{"rm"},
		Short:   "Remove hosts",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hosts := s.app.Hosts()
			handles, err := handleArgs(hosts, args)
			if err != nil {
				return err
			}

			// Removal shifts later positions, so go from the highest index down.
			indexes := make([]int, 0, len(handles))
			for _, h := range handles {
				indexes = append(indexes, h.Index())
			}
			slices.Sort(indexes)
			indexes = slices.Compact(indexes)
			for _, i := range slices.Backward(indexes) {
				h, err := hosts.HandleAt(i)
				if err != nil {
					return err
				}
				if err := s.app.RemoveHost(h); err != nil {
					return err
				}
			}
			return s.app.Save(cmd.Context())
		},
	}
}

func newSelectCmd(s *session) *cobra.Command {
	var off, all, none bool
	cmd := &cobra.Command{
		Use:   "select [index...]",
		Short: "Select hosts for the next wake, or deselect them with --off",
		RunE: func(cmd *cobra.Command, args []string) error {
			hosts := s.app.Hosts()
			if all || none {
				if len(args) > 0 {
					return fmt.Errorf("--all and --none take no index")
				}
				for h := range hosts.All() {
					if err := s.app.SetSelected(h, all); err != nil {
						return err
					}
				}
				return s.app.Save(cmd.Context())
			}

			if len(args) == 0 {
				return fmt.Errorf("select needs at least one index, --all or --none")
			}
			handles, err := handleArgs(hosts, args)
			if err != nil {
				return err
			}
			for _, h := range handles {
				if err := s.app.SetSelected(h, !off); err != nil {
					return err
				}
			}
			return s.app.Save(cmd.Context())
		},
	}
	cmd.Flags().BoolVar(&off, "off", false, "deselect instead of select")
	cmd.Flags().BoolVar(&all, "all", false, "select every host")
	cmd.Flags().BoolVar(&none, "none", false, "deselect every host")
	cmd.MarkFlagsMutuallyExclusive("off", "all", "none")
	return cmd
}
