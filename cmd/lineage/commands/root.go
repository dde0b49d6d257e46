package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/modelprov/lineage/pkg/engine"
	"github.com/modelprov/lineage/pkg/version"

	"github.com/modelprov/lineage/internal/ingest"
)

var (
	cfgFile   string
	edgesPath string
	strategy  string
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "lineage",
	Short: "In-memory lineage queries over model/dataset provenance graphs",
	Long: `lineage - Provenance Graph Query Engine

Load a provenance edge list into memory and answer ancestor, descendant,
k-hop and shortest-path queries at interactive latency.`,
	Version: version.Current,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default ~/.lineage.yaml)")
	rootCmd.PersistentFlags().StringVar(&edgesPath, "edges", "data/edges.tsv", "Edge list TSV path")
	rootCmd.PersistentFlags().StringVar(&strategy, "strategy", "fresh", "Visited strategy: fresh or epoch")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		renderHelp(cmd)
	})

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.SetConfigFile(filepath.Join(home, ".lineage.yaml"))
			viper.SetConfigType("yaml")
		}
	}
	viper.SetEnvPrefix("LINEAGE")
	viper.AutomaticEnv()
	viper.ReadInConfig()

	if viper.IsSet("edges") && !rootCmd.PersistentFlags().Changed("edges") {
		edgesPath = viper.GetString("edges")
	}
	if viper.IsSet("strategy") && !rootCmd.PersistentFlags().Changed("strategy") {
		strategy = viper.GetString("strategy")
	}
}

// buildEngine loads the edge list and constructs the query engine with the
// configured visited strategy.
func buildEngine() (*engine.Engine, error) {
	g, err := ingest.LoadGraph(edgesPath)
	if err != nil {
		return nil, err
	}
	return engine.New(g, engine.WithStrategy(engine.Strategy(strategy)))
}

func renderHelp(cmd *cobra.Command) {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00FF99")).
		MarginBottom(1)

	flagStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA"))

	fmt.Println(titleStyle.Render(fmt.Sprintf("LINEAGE %s", version.Current)))
	fmt.Println(cmd.Short)

	fmt.Println(titleStyle.Render("USAGE"))
	fmt.Printf("  %s\n\n", cmd.UseLine())

	if len(cmd.Commands()) > 0 {
		fmt.Println(titleStyle.Render("COMMANDS"))
		for _, c := range cmd.Commands() {
			if c.IsAvailableCommand() {
				fmt.Printf("  %-12s %s\n", c.Name(), c.Short)
			}
		}
		fmt.Println("")
	}

	fmt.Println(titleStyle.Render("FLAGS"))
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		output := fmt.Sprintf("  --%-15s %s", f.Name, f.Usage)
		if f.DefValue != "" && f.DefValue != "false" && f.DefValue != "0" {
			output += fmt.Sprintf(" (default %s)", f.DefValue)
		}
		fmt.Println(flagStyle.Render(output))
	})
	fmt.Println("")
}
