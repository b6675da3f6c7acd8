package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "omnidive",
	Short: "AI-generated deep dives into any topic",
	Long: `OmniDive asks a generative AI model for a structured overview of a topic
(title, summary, key facts, chart stats and Q&A) plus an illustration, and
serves the result as a web page with a small hosting dashboard. It can also
run one-off explorations in the terminal or act as an MCP tool server.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".omnidive.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
