package main

import (
	"context"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jask/notefeed/internal/config"
	"github.com/jask/notefeed/internal/content"
	"github.com/jask/notefeed/internal/service"
	"github.com/jask/notefeed/internal/tui"
)

var version = "dev"

var configPath string

// rootCmd runs the notebook TUI.
var rootCmd = &cobra.Command{
	Use:           "notefeed",
	Short:         "Study notes feed with captured content and quizzes",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTUI,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "notefeed", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/notefeed/config.toml or $NOTEFEED_CONFIG)")
	rootCmd.AddCommand(versionCmd, typesCmd, cacheCmd, keyCmd, configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("notefeed: %v", err)
	}
}

func runTUI(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	rt, err := openDeps(cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	services := tui.Services{
		Generation: &service.GenerationService{Provider: rt.Provider, Log: rt.Log.With("component", "generation")},
		Quiz: &service.QuizService{
			Provider: rt.Provider,
			Log:      rt.Log.With("component", "quiz"),
			Topic:    cfg.Quiz.Topic,
			Count:    cfg.Quiz.QuestionCount,
		},
	}
	rt.Log.Info("starting", "version", version, "provider", cfg.LLM.Provider, "cache", rt.DB != nil)

	app := tui.New(ctx, cfg.UI, content.NewNotebook(nil), services, rt.Log.With("component", "tui"))
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return err
	}
	return nil
}
