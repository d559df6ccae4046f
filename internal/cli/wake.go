package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"gowakeonlan/internal/app"
	"gowakeonlan/internal/reporting"
)

func newWakeCmd(s *session) *cobra.Command {
	var mac, destination, output string
	var port int
	cmd := &cobra.Command{
		Use:   "wake [index...]",
		Short: "Send magic packets to the selected hosts, the given indexes or --mac",
		Long: `Without arguments every selected host is woken up.
With indexes only those hosts are, whether they are selected or not.
With --mac a machine that is not in the host list is woken up.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if mac != "" {
				if len(args) > 0 {
					return fmt.Errorf("--mac takes no index")
				}
				if !cmd.Flags().Changed("port") {
					port = s.cfg.Wake.DefaultPort
				}
				if !cmd.Flags().Changed("destination") {
					destination = s.cfg.Wake.DefaultDestination
				}
				if err := s.app.WakeAddress(mac, port, destination); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Sent magic packet to %s\n", mac)
				return nil
			}

			var results []app.WakeResult
			var err error
			if len(args) > 0 {
				handles, herr := handleArgs(s.app.Hosts(), args)
				if herr != nil {
					return herr
				}
				results, err = s.app.WakeHosts(cmd.Context(), handles)
			} else {
				results, err = s.app.WakeSelected(cmd.Context())
			}
			if rerr := reporting.WakeResults(cmd.OutOrStdout(), output, results); rerr != nil {
				return rerr
			}
			return err
		},
	}
	cmd.Flags().StringVarP(&mac, "mac", "m", "", "wake this MAC address instead of registered hosts")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "UDP port for --mac (default from wake.default_port)")
	cmd.Flags().StringVar(&destination, "destination", "", "destination address for --mac (default from wake.default_destination)")
	cmd.Flags().StringVarP(&output, "output", "o", reporting.FormatText, "output format: text or json")
	return cmd
}
