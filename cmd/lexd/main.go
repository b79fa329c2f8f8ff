// Command lexd compiles lexd grammars and runs analysis, generation and
// accuracy evaluation from the terminal.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	lexd "github.com/pamir-morph/golexd"
)

// config is read from golexd.yaml next to the working directory; flags
// override it.
type config struct {
	// Grammar is a .lexd file or a directory of them.
	Grammar string `yaml:"grammar"`
	// Budget bounds path exploration per query, 0 means the default.
	Budget int `yaml:"budget"`
}

func defaultConfig() *config {
	return &config{Grammar: "grammar"}
}

func loadConfig(path string) (*config, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func (c *config) options() *lexd.Options {
	if c.Budget <= 0 {
		return nil
	}
	return &lexd.Options{Budget: c.Budget}
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		grammar    string
		budget     int
	)
	cfg := defaultConfig()

	cmd := &cobra.Command{
		Use:           "lexd",
		Short:         "Morphological lexicon compiler and query tool",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			*cfg = *loaded
			if cmd.Flags().Changed("grammar") || cmd.InheritedFlags().Changed("grammar") {
				cfg.Grammar = grammar
			}
			if cmd.Flags().Changed("budget") || cmd.InheritedFlags().Changed("budget") {
				cfg.Budget = budget
			}
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", "golexd.yaml", "config file")
	cmd.PersistentFlags().StringVar(&grammar, "grammar", "", "grammar file or directory")
	cmd.PersistentFlags().IntVar(&budget, "budget", 0, "query exploration budget")

	cmd.AddCommand(compileCmd(cfg))
	cmd.AddCommand(analyzeCmd(cfg))
	cmd.AddCommand(generateCmd(cfg))
	cmd.AddCommand(evalCmd(cfg))
	return cmd
}

func compile(cfg *config) (*lexd.Transducer, error) {
	t, err := lexd.CompilePath(cfg.Grammar)
	if err != nil {
		return nil, err
	}
	s := t.Stats()
	slog.Debug("grammar compiled", "states", s.States, "entries", s.Entries)
	return t, nil
}

func compileCmd(cfg *config) *cobra.Command {
	return &cobra.Command{
		Use:   "compile",
		Short: "Compile the grammar and print transducer statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := compile(cfg)
			if err != nil {
				return err
			}
			s := t.Stats()
			fmt.Printf("word classes  %d\n", s.WordClasses)
			fmt.Printf("lexicons      %d\n", s.Lexicons)
			fmt.Printf("entries       %d\n", s.Entries)
			fmt.Printf("templates     %d\n", s.Templates)
			fmt.Printf("states        %d\n", s.States)
			fmt.Printf("transitions   %d\n", s.Transitions)
			return nil
		},
	}
}

func analyzeCmd(cfg *config) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <surface>...",
		Short: "Print the lexical readings of surface forms",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := compile(cfg)
			if err != nil {
				return err
			}
			for _, surface := range args {
				readings, err := t.Analyze(surface, cfg.options())
				if err != nil {
					return err
				}
				if len(readings) == 0 {
					fmt.Printf("%s\t*unknown*\n", surface)
					continue
				}
				for _, reading := range readings {
					fmt.Printf("%s\t%s\n", surface, reading)
				}
			}
			return nil
		},
	}
}

func generateCmd(cfg *config) *cobra.Command {
	return &cobra.Command{
		Use:   "generate <lexical>...",
		Short: "Print the surface forms of lexical readings",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := compile(cfg)
			if err != nil {
				return err
			}
			for _, lexical := range args {
				surfaces, err := t.Generate(lexical, cfg.options())
				if err != nil {
					return err
				}
				if len(surfaces) == 0 {
					fmt.Printf("%s\t*none*\n", lexical)
					continue
				}
				for _, surface := range surfaces {
					fmt.Printf("%s\t%s\n", lexical, surface)
				}
			}
			return nil
		},
	}
}

func evalCmd(cfg *config) *cobra.Command {
	return &cobra.Command{
		Use:   "eval <gold.tsv>",
		Short: "Score the analyzer against a tab-separated gold standard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := compile(cfg)
			if err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			res, err := t.Evaluate(f, cfg.options())
			if err != nil {
				return err
			}
			fmt.Printf("total      %d\n", res.Total)
			fmt.Printf("analyzed   %d  (coverage %.1f%%)\n", res.Analyzed, 100*res.Coverage())
			fmt.Printf("correct    %d  (accuracy %.1f%%)\n", res.Correct, 100*res.Accuracy())
			fmt.Printf("ambiguous  %d\n", res.Ambiguous)
			return nil
		},
	}
}
