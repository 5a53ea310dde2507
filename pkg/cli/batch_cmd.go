package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"azmlclient"
)

func newBatchCmd(opts *rootOptions) *cobra.Command {
	var (
		inputFlags  []string
		paramFlags  []string
		outputNames []string
		outDir      string
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Run the service as a batch job through blob storage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(outputNames) == 0 {
				return fmt.Errorf("batch execution needs at least one --output name to pre-allocate its blob")
			}
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
			outputs, err := client.ExecuteBatch(cmd.Context(), inputs, azmlclient.ParamsFromMap(params), outputNames)
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
	cmd.Flags().StringArrayVar(&outputNames, "output", nil, "Output name to fetch (repeatable, required)")
	cmd.Flags().StringVar(&outDir, "out", ".", "Directory to write output CSV files to")
	return cmd
}
