package cli

import (
	"fmt"
	"net"

	"github.com/spf13/cobra"

	"gowakeonlan/internal/arp"
	"gowakeonlan/internal/reporting"
)

func newARPCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "arp",
		Short: "Inspect the ARP table and import hosts from it",
	}
	cmd.AddCommand(newARPListCmd(s), newARPImportCmd(s))
	return cmd
}

func newARPListCmd(s *session) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List ARP entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := s.app.ARPEntries(cmd.Context())
			if err != nil {
				return err
			}
			return reporting.ARPEntries(cmd.OutOrStdout(), output, entries)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", reporting.FormatText, "output format: text or json")
	return cmd
}

func newARPImportCmd(s *session) *cobra.Command {
	var all, resolve bool
	var iface string
	cmd := &cobra.Command{
		Use:   "import [ip...]",
		Short: "Add hosts from ARP entries, named after their IP address",
		RunE: func(cmd *cobra.Command, args []string) error {
			if all == (len(args) > 0) {
				return fmt.Errorf("give either IP addresses or --all")
			}

			entries, err := s.app.ARPEntries(cmd.Context())
			if err != nil && !resolve {
				return err
			}

			var picked []arp.Entry
			if all {
				picked = entries
			}
			for _, arg := range args {
				ip := net.ParseIP(arg).To4()
				if ip == nil {
					return fmt.Errorf("invalid IPv4 address: %s", arg)
				}
				e, ok := findEntry(entries, ip)
				if !ok {
					if !resolve {
						return fmt.Errorf("%s is not in the ARP table (try --resolve)", arg)
					}
					if e, err = s.resolve(cmd, ip, iface); err != nil {
						return err
					}
				}
				picked = append(picked, e)
			}

			for _, e := range picked {
				h, err := s.app.ImportARPEntry(e)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %s (%s) as host %d\n", e.IP, e.MAC, h.Index()+1)
			}
			return s.app.Save(cmd.Context())
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "import every entry")
	cmd.Flags().BoolVar(&resolve, "resolve", false, "send an ARP request for addresses missing from the table")
	cmd.Flags().StringVarP(&iface, "iface", "i", "", "interface for --resolve (default arp.interface, then the gateway interface)")
	cmd.MarkFlagsMutuallyExclusive("all", "resolve")
	return cmd
}

func (s *session) resolve(cmd *cobra.Command, ip net.IP, iface string) (arp.Entry, error) {
	if iface == "" {
		iface = s.cfg.ARP.Interface
	}
	if iface == "" {
		var err error
		if iface, err = arp.DefaultInterface(s.log); err != nil {
			return arp.Entry{}, err
		}
	}
	mac, err := arp.Resolve(cmd.Context(), ip.String(), iface)
	if err != nil {
		s.log.Error(err, "Failed to resolve", "ip", ip.String(), "interface", iface)
		return arp.Entry{}, err
	}
	return arp.Entry{IP: ip, MAC: mac, Device: iface}, nil
}

func findEntry(entries []arp.Entry, ip net.IP) (arp.Entry, bool) {
	for _, e := range entries {
		if e.IP.Equal(ip) {
			return e, true
		}
	}
	return arp.Entry{}, false
}
