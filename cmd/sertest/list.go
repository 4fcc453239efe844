package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/markatk/sertest/internal/serialport"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List known serial ports",
		RunE: func(cmd *cobra.Command, args []string) error {
			ports, err := serialport.KnownPorts()
			if err != nil {
				if errors.Is(err, serialport.ErrEnumerationUnsupported) {
					fmt.Fprintln(cmd.OutOrStdout(), "port enumeration is not supported in this build; pass --port explicitly")
					return nil
				}
				return err
			}
			if len(ports) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no serial ports found")
				return nil
			}
			for _, p := range ports {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n", p.Name)
				if p.IsUSB {
					fmt.Fprintf(cmd.OutOrStdout(), "\tUSB %s:%s %s %s (serial %s)\n", p.VendorID, p.ProductID, p.Manufacturer, p.Product, p.SerialNumber)
				}
			}
			return nil
		},
	}
}
