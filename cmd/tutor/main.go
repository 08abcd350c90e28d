package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"tutorcore/internal/config"
)

var (
	// Global flags
	cfgPath    string
	verbose    bool
	topic      string
	discipline string
	level      int
	lesson     int
	docsDir    string
	engine     string
	noTTS      bool
	noWatch    bool

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "tutor",
	Short: "tutor - interactive lesson runtime",
	Long: `tutor runs an interactive tutoring session over an in-process event bus.

A lesson moves through fixed stages (goals, tasks, work, reflection) while
the expert pipeline answers questions from the knowledge base, the
motivation estimator adapts the teaching style, and optional speech
synthesis voices the answers.

Run without arguments to start an interactive lesson.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zapCfg := zap.NewProductionConfig()
		if verbose {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		} else {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		}
		var err error
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runLesson,
}

// kbCmd ranks knowledge base documents against a query
var kbCmd = &cobra.Command{
	Use:   "kb [query]",
	Short: "Query the knowledge base index",
	Long: `Ranks the loaded documents against the query with the same index the
expert pipeline uses, and prints the top snippets with their scores.

Example:
  tutor kb "как выбрать диаграмму для сравнения"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runKB,
}

// configInitCmd writes the default configuration file
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration file",
	RunE:  runConfigInit,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration commands",
}

var kbTopK int

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "tutor.yaml", "configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&docsDir, "docs", "", "knowledge base folder (overrides config)")

	rootCmd.Flags().StringVar(&topic, "topic", "", "lesson topic (overrides config)")
	rootCmd.Flags().StringVar(&discipline, "discipline", "", "discipline name (overrides config)")
	rootCmd.Flags().IntVar(&level, "level", 0, "student level 1-4 (overrides config)")
	rootCmd.Flags().IntVar(&lesson, "lesson", 0, "lesson number (overrides config)")
	rootCmd.Flags().StringVar(&engine, "engine", "", "tts engine: piper or rhvoice (overrides config)")
	rootCmd.Flags().BoolVar(&noTTS, "no-tts", false, "disable speech synthesis")
	rootCmd.Flags().BoolVar(&noWatch, "no-watch", false, "disable knowledge folder watching")

	kbCmd.Flags().IntVar(&kbTopK, "top", 3, "number of results")

	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(kbCmd, configCmd)
}

// loadConfig layers the YAML file over defaults and applies flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	if topic != "" {
		cfg.Session.Topic = topic
	}
	if discipline != "" {
		cfg.Session.Discipline = discipline
	}
	if level != 0 {
		cfg.Session.StudentLevel = level
	}
	if lesson != 0 {
		cfg.Session.LessonNumber = lesson
	}
	if docsDir != "" {
		cfg.Knowledge.Dir = docsDir
	}
	if engine != "" {
		cfg.TTS.Engine = engine
	}
	if noTTS {
		cfg.TTS.Enabled = false
	}
	if noWatch {
		cfg.Knowledge.Watch = false
	}
	return cfg, nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	}
	if err := config.DefaultConfig().Save(cfgPath); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", cfgPath)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
