package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/floodlab/riskdispatch/infra/registry"
)

var zonesCmd = &cobra.Command{
	Use:   "zones",
	Short: "Zone registry commands",
}

var zonesValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a zone registry file",
	RunE:  runZonesValidate,
}

var zonesPath string

func init() {
	zonesValidateCmd.Flags().StringVar(&zonesPath, "zones", "", "zone registry file")
	_ = zonesValidateCmd.MarkFlagRequired("zones")
	zonesCmd.AddCommand(zonesValidateCmd)
	rootCmd.AddCommand(zonesCmd)
}

func runZonesValidate(cmd *cobra.Command, args []string) error {
	reg, err := registry.Load(zonesPath, "")
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d zones ok\n", zonesPath, reg.Len())
	return nil
}
