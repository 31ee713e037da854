package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
)

var noCache bool

var flowsCmd = &cobra.Command{
	Use:   "flows",
	Short: "Correlate every flow definition of the org and print them as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		container, err := newContainer(cmd)
		if err != nil {
			return err
		}
		defer container.Close()

		res, err := container.GetCorrelationModule().Usecase.RunFlows(cmd.Context(), !noCache)
		if err != nil {
			return err
		}
		return printJSON(res)
	},
}

var objectCmd = &cobra.Command{
	Use:   "object <apiName>",
	Short: "Assemble one object with its fields and sub-resources and print it as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		container, err := newContainer(cmd)
		if err != nil {
			return err
		}
		defer container.Close()

		res, err := container.GetCorrelationModule().Usecase.RunObject(cmd.Context(), args[0], !noCache)
		if err != nil {
			return err
		}
		return printJSON(res)
	},
}

func init() {
	flowsCmd.Flags().BoolVar(&noCache, "no-cache", false, "ignore cached results")
	objectCmd.Flags().BoolVar(&noCache, "no-cache", false, "ignore cached results")
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
