package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/lifeatlas/lifeatlas/internal/output"
	"github.com/lifeatlas/lifeatlas/pkg/domain"
)

var domainsCmd = &cobra.Command{
	Use:   "domains",
	Short: "List the domain catalog",
	Long:  `List every known domain with its description and expected data fields.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		writer, err := output.NewWriter(os.Stdout, output.Format(format))
		if err != nil {
			logError("%v", err)
			return err
		}
		if err := writer.Write(domain.Catalog()); err != nil {
			return err
		}
		return writer.Flush()
	},
}

func init() {
	rootCmd.AddCommand(domainsCmd)
	domainsCmd.Flags().String("format", "yaml", "output format: json, jsonl, yaml")
}
