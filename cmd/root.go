package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"shelfscan/src/infrastructure/log"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "shelfscan",
	Short: "Extract product metadata from retail shelf photographs",
	Long: `shelfscan recognizes text on retail shelf photographs and extracts
structured product metadata (name, brand, price, flavor, pack size) from it.
The serve command exposes the pipeline as an asynchronous HTTP API; analyze
and batch run it directly against local images.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return log.Configure(viper.GetBool("log.production"))
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
