package cmd

import (
	"fmt"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/xkilldash9x/campus-nav/internal/campus"
)

// newGenerateCmd creates the `generate` command, which dumps the built-in
// campus dataset as JSON so a deployment can copy and customize it, then
// point campus.data_file at the result.
func newGenerateCmd() *cobra.Command {
	var output string

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Writes the built-in campus dataset as a customizable JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			data := campus.DefaultGraphData()
			raw, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(data, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode campus dataset: %w", err)
			}

			if output == "" {
				fmt.Println(string(raw))
				return nil
			}
			if err := os.WriteFile(output, raw, 0o644); err != nil {
				return fmt.Errorf("failed to write dataset file: %w", err)
			}
			fmt.Printf("Campus dataset written to %s\n", output)
			return nil
		},
	}

	generateCmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	return generateCmd
}
