package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"azmlclient"
)

func newRRCmd(opts *rootOptions) *cobra.Command {
	var (
		inputFlags  []string
		paramFlags  []string
		outputNames []string
		outDir      string
	)

	cmd := &cobra.Command{
		Use:   "rr",
		Short: "Run the service synchronously (request-response)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, logger, err := buildClient(opts)
			if err != nil {
				return err
			}
			inputs, err := readInputTables(inputFlags)
			if err != nil {
				return err
			}
			params, err := parseParams(paramFlags)
			if err != nil {
				return err
			}
			outputs, err := client.Execute(cmd.Context(), inputs, azmlclient.ParamsFromMap(params), outputNames)
			if err != nil {
				return err
			}
			if err := writeOutputTables(outDir, outputs); err != nil {
				return err
			}
			for name, t := range outputs {
				logger.Info("wrote output", "name", name, "rows", t.NumRows())
			}
			fmt.Fprintf(os.Stdout, "wrote %d output(s) to %s\n", len(outputs), outDir)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&inputFlags, "input", nil, "Input table as name=path.csv (repeatable)")
	cmd.Flags().StringArrayVar(&paramFlags, "param", nil, "Global parameter as name=value (repeatable)")
	cmd.Flags().StringArrayVar(&outputNames, "output", nil, "Output name to fetch (repeatable, default all)")
	cmd.Flags().StringVar(&outDir, "out", ".", "Directory to write output CSV files to")
	return cmd
}
