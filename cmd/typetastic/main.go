// Package main provides the CLI entrypoint for typetastic.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/typetastic/internal/config"
	"github.com/verte-zerg/typetastic/internal/events"
	"github.com/verte-zerg/typetastic/internal/generator"
	"github.com/verte-zerg/typetastic/internal/leaderboard"
	"github.com/verte-zerg/typetastic/internal/model"
	"github.com/verte-zerg/typetastic/internal/profile"
	"github.com/verte-zerg/typetastic/internal/stats"
	"github.com/verte-zerg/typetastic/internal/statsui"
	"github.com/verte-zerg/typetastic/internal/store"
	"github.com/verte-zerg/typetastic/internal/tui"
	"github.com/verte-zerg/typetastic/internal/wordlist"
)

var (
	dbPath  string
	logPath string

	practiceProfile    string
	practiceDifficulty string
	practiceSource     string
	practiceText       string
	practiceWordList   string

	settingsDifficulty string
	settingsSource     string
	settingsText       string

	leaderboardPlain bool

	historyProfile string
	historyLast    int
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logErrf("failed to load .env: %v\n", err)
	}
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "typetastic",
		Short:         "Terminal typing practice with profiles and a leaderboard",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path (default: $TYPETASTIC_DB or XDG data dir)")
	rootCmd.PersistentFlags().StringVar(&logPath, "log-file", "", "log file used while a TUI is running")

	rootCmd.Flags().StringVar(&practiceProfile, "profile", "", "profile to practice as")
	rootCmd.Flags().StringVar(&practiceDifficulty, "difficulty", "", "difficulty for this run (easy, medium, hard)")
	rootCmd.Flags().StringVar(&practiceSource, "source", "", "text source for this run (random, quotes, pangram, custom)")
	rootCmd.Flags().StringVar(&practiceText, "text", "", "custom text for this run")
	rootCmd.Flags().StringVar(&practiceWordList, "wordlist", "", "word list file for the random source")

	rootCmd.AddCommand(newProfileCmd())
	rootCmd.AddCommand(newSettingsCmd())
	rootCmd.AddCommand(newLeaderboardCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// app bundles the storage stack shared by every command.
type app struct {
	db       *store.Store
	profiles *profile.Store
	bus      *events.Bus
	logger   *log.Logger
}

func openApp(ctx context.Context, cmd *cobra.Command, logger *log.Logger) (*app, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	path := config.DefaultDBPath()
	applyStringConfig(cmd, "db", &path, fileCfg.Storage.Path)
	if cmd.Flags().Changed("db") {
		path = dbPath
	}
	db, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	bus := events.NewBus(logger)
	profiles := profile.Open(ctx, db, profile.WithBus(bus), profile.WithLogger(logger))
	return &app{db: db, profiles: profiles, bus: bus, logger: logger}, nil
}

func (a *app) Close() {
	if cerr := a.db.Close(); cerr != nil {
		logErrf("failed to close db: %v\n", cerr)
	}
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "difficulty", &practiceDifficulty, fileCfg.Practice.Difficulty)
	applyStringConfig(cmd, "source", &practiceSource, fileCfg.Practice.Source)
	applyStringConfig(cmd, "text", &practiceText, fileCfg.Practice.CustomText)
	applyStringConfig(cmd, "wordlist", &practiceWordList, fileCfg.Practice.WordList)

	overrides, err := settingsOverrides(practiceDifficulty, practiceSource, practiceText, cmd.Flags().Changed("text") || fileCfg.Practice.CustomText != nil)
	if err != nil {
		return err
	}

	var words []string
	if practiceWordList != "" {
		words, err = wordlist.LoadWords(expandHome(practiceWordList))
		if err != nil {
			return wordListLoadError(practiceWordList, err)
		}
	}

	closeLog, logger, err := openLog()
	if err != nil {
		return err
	}
	defer closeLog()

	ctx := cmd.Context()
	a, err := openApp(ctx, cmd, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	if practiceProfile != "" {
		if _, ok := a.profiles.Get(practiceProfile); !ok {
			return fmt.Errorf("unknown profile %q (create it with: typetastic profile create %s)", practiceProfile, practiceProfile)
		}
		if err := a.profiles.Select(ctx, practiceProfile); err != nil {
			return err
		}
	}

	gen := generator.New(generator.WithWords(words))
	m := tui.NewModel(a.profiles, gen, tui.Options{
		Overrides: overrides,
		Logger:    logger,
		Bus:       a.bus,
	})
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// settingsOverrides validates run overrides and returns a function applying
// the ones that were set on top of a profile's stored settings.
func settingsOverrides(difficulty, source, text string, hasText bool) (func(model.Settings) model.Settings, error) {
	d, err := parseDifficulty(difficulty)
	if err != nil {
		return nil, err
	}
	src, err := parseSource(source)
	if err != nil {
		return nil, err
	}
	return func(s model.Settings) model.Settings {
		if d != "" {
			s.Difficulty = d
		}
		if src != "" {
			s.TextSource = src
		}
		if hasText {
			s.CustomText = text
		}
		return s
	}, nil
}

func parseDifficulty(value string) (model.Difficulty, error) {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return "", nil
	}
	d := model.Difficulty(value)
	if !d.Valid() {
		return "", fmt.Errorf("--difficulty must be one of easy, medium, hard")
	}
	return d, nil
}

func parseSource(value string) (model.TextSource, error) {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return "", nil
	}
	s := model.TextSource(value)
	if !s.Valid() {
		return "", fmt.Errorf("--source must be one of random, quotes, pangram, custom")
	}
	return s, nil
}

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage profiles",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List profiles",
		Args:  cobra.NoArgs,
		RunE:  runProfileListCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "create <name>",
		Short: "Create a profile and make it active",
		Args:  cobra.ExactArgs(1),
		RunE:  runProfileCreateCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "select <name>",
		Short: "Make a profile active",
		Args:  cobra.ExactArgs(1),
		RunE:  runProfileSelectCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a profile and its settings",
		Args:  cobra.ExactArgs(1),
		RunE:  runProfileDeleteCmd,
	})
	return cmd
}

func runProfileListCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd.Context(), cmd, stderrLogger())
	if err != nil {
		return err
	}
	defer a.Close()
	return writeProfileList(cmd.OutOrStdout(), a.profiles)
}

func writeProfileList(w io.Writer, profiles *profile.Store) error {
	all := profiles.Profiles()
	if len(all) == 0 {
		_, err := fmt.Fprintln(w, "No profiles yet. Create one with: typetastic profile create <name>")
		return err
	}
	current, _ := profiles.Current()
	for _, p := range all {
		marker := " "
		if p.Username == current.Username {
			marker = "*"
		}
		if _, err := fmt.Fprintf(w, "%s %s  sessions=%d best-score=%d streak=%d\n",
			marker, p.Username, len(p.PerformanceHistory), p.BestScore, p.Streak); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func runProfileCreateCmd(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context(), cmd, stderrLogger())
	if err != nil {
		return err
	}
	defer a.Close()
	p, err := a.profiles.Create(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Created profile %s (now active)\n", p.Username)
	return err
}

func runProfileSelectCmd(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context(), cmd, stderrLogger())
	if err != nil {
		return err
	}
	defer a.Close()
	if _, ok := a.profiles.Get(args[0]); !ok {
		return fmt.Errorf("%w: %s", profile.ErrUnknownProfile, args[0])
	}
	if err := a.profiles.Select(cmd.Context(), args[0]); err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Switched to %s\n", args[0])
	return err
}

func runProfileDeleteCmd(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context(), cmd, stderrLogger())
	if err != nil {
		return err
	}
	defer a.Close()
	if _, ok := a.profiles.Get(args[0]); !ok {
		return fmt.Errorf("%w: %s", profile.ErrUnknownProfile, args[0])
	}
	if err := a.profiles.Delete(cmd.Context(), args[0]); err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintf(out, "Deleted profile %s\n", args[0]); err != nil {
		return err
	}
	if cur, ok := a.profiles.Current(); ok {
		_, err = fmt.Fprintf(out, "Active profile: %s\n", cur.Username)
		return err
	}
	return nil
}

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or update the active profile's practice settings",
		Args:  cobra.NoArgs,
		RunE:  runSettingsCmd,
	}
	cmd.Flags().StringVar(&settingsDifficulty, "difficulty", "", "easy, medium or hard")
	cmd.Flags().StringVar(&settingsSource, "source", "", "random, quotes, pangram or custom")
	cmd.Flags().StringVar(&settingsText, "text", "", "custom practice text")
	return cmd
}

func runSettingsCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd.Context(), cmd, stderrLogger())
	if err != nil {
		return err
	}
	defer a.Close()

	cur, ok := a.profiles.Current()
	if !ok {
		return fmt.Errorf("%w: create one with: typetastic profile create <name>", profile.ErrNoActiveProfile)
	}
	settings := a.profiles.Settings(cmd.Context(), cur.Username)
	flags := cmd.Flags()
	if flags.Changed("difficulty") || flags.Changed("source") || flags.Changed("text") {
		apply, err := settingsOverrides(settingsDifficulty, settingsSource, settingsText, flags.Changed("text"))
		if err != nil {
			return err
		}
		settings = apply(settings)
		if err := a.profiles.SaveSettings(cmd.Context(), cur.Username, settings); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
	}
	return writeSettings(cmd.OutOrStdout(), cur.Username, settings)
}

func writeSettings(w io.Writer, username string, s model.Settings) error {
	lines := []string{
		fmt.Sprintf("Profile:     %s", username),
		fmt.Sprintf("Difficulty:  %s", s.Difficulty),
		fmt.Sprintf("Source:      %s", s.TextSource),
		fmt.Sprintf("Custom text: %q", s.CustomText),
	}
	_, err := fmt.Fprintln(w, strings.Join(lines, "\n"))
	return err
}

func newLeaderboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show profiles ranked by best score",
		Args:  cobra.NoArgs,
		RunE:  runLeaderboardCmd,
	}
	cmd.Flags().BoolVar(&leaderboardPlain, "plain", false, "print a plain table instead of the interactive view")
	return cmd
}

func runLeaderboardCmd(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	if leaderboardPlain || !stats.IsTerminal(out) {
		a, err := openApp(cmd.Context(), cmd, stderrLogger())
		if err != nil {
			return err
		}
		defer a.Close()
		return stats.RenderLeaderboard(out, leaderboard.Rank(a.profiles.Profiles()))
	}

	closeLog, logger, err := openLog()
	if err != nil {
		return err
	}
	defer closeLog()
	a, err := openApp(cmd.Context(), cmd, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	program := tea.NewProgram(statsui.NewModel(a.profiles), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run leaderboard TUI: %w", err)
	}
	return nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent sessions of a profile",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().StringVar(&historyProfile, "profile", "", "profile to show (default: active profile)")
	cmd.Flags().IntVar(&historyLast, "last", stats.DefaultHistoryWindow, "number of recent sessions")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	if historyLast <= 0 {
		return fmt.Errorf("--last must be > 0")
	}
	a, err := openApp(cmd.Context(), cmd, stderrLogger())
	if err != nil {
		return err
	}
	defer a.Close()

	var (
		p  model.Profile
		ok bool
	)
	if historyProfile != "" {
		p, ok = a.profiles.Get(historyProfile)
		if !ok {
			return fmt.Errorf("%w: %s", profile.ErrUnknownProfile, historyProfile)
		}
	} else {
		p, ok = a.profiles.Current()
		if !ok {
			return fmt.Errorf("%w: pass --profile or create one", profile.ErrNoActiveProfile)
		}
	}
	return stats.RenderHistory(cmd.OutOrStdout(), stats.BuildHistory(p, historyLast))
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := config.EnsureConfigFile(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// openLog routes the standard logger to a file so log lines do not corrupt
// the alt screen.
func openLog() (func(), *log.Logger, error) {
	path := logPath
	if path == "" {
		path = config.DefaultLogPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := tea.LogToFile(path, "typetastic")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	closeLog := func() {
		if cerr := f.Close(); cerr != nil {
			logErrf("failed to close log file: %v\n", cerr)
		}
	}
	return closeLog, log.Default(), nil
}

func stderrLogger() *log.Logger {
	return log.New(os.Stderr, "typetastic: ", 0)
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	return filepath.Join(home, path[2:])
}

func wordListLoadError(path string, err error) error {
	lines := []string{
		fmt.Sprintf("failed to load word list: %v", err),
		fmt.Sprintf("expected word list at: %s", path),
		"Use one word per line, or remove `wordlist` from the config to use the built-in texts.",
	}
	return fmt.Errorf("%s", strings.Join(lines, "\n"))
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
