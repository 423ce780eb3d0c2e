package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/miosa/joi-tui/app"
	"github.com/miosa/joi-tui/client"
	"github.com/miosa/joi-tui/config"
	"github.com/miosa/joi-tui/markdown"
	"github.com/miosa/joi-tui/session"
	"github.com/miosa/joi-tui/style"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:           "joi",
	Short:         "Chat with Joi from the terminal",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runChat,
}

var (
	flagProfile    string
	flagDev        bool
	flagBackendURL string
	flagOrigin     string
	flagNoColor    bool
	flagLogLevel   string
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&flagProfile, "profile", "", "named profile for state isolation (~/.joi/profiles/<name>)")
	flags.BoolVar(&flagDev, "dev", false, "dev mode (alias for --profile dev)")
	flags.StringVar(&flagBackendURL, "backend-url", "", "backend base URL, e.g. wss://joi.example.com (overrides config and JOI_BACKEND_URL)")
	flags.StringVar(&flagOrigin, "origin", "", "origin the client runs from; loopback origins derive a local backend")
	flags.BoolVar(&flagNoColor, "no-color", false, "disable ANSI colors")
	flags.StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn, error (default from config)")
	rootCmd.SetVersionTemplate("joi {{.Version}}\n")
	rootCmd.AddCommand(logoutCmd, whoamiCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "joi: %v\n", err)
		os.Exit(1)
	}
}

func runChat(cmd *cobra.Command, args []string) error {
	dir, cfg, err := setup(cmd)
	if err != nil {
		return err
	}
	closeLog, err := setupLogging(dir, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closeLog()

	if flagNoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
		markdown.SetPlain(true)
	}
	applyTheme(cfg.Theme)

	store, err := session.Open(cfg.SessionBackend, dir)
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn().Err(err).Msg("[session] close failed")
		}
	}()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	log.Info().Msgf("[app] joi %s starting (profile %s)", version, dir)
	m := app.New(app.Options{
		Config:  cfg,
		Store:   store,
		Dialer:  client.NewDialer(),
		HTTP:    client.New(),
		Version: version,
		Context: ctx,
	})

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	log.Info().Msg("[app] exit")
	return nil
}

// setup resolves the profile directory and loads its configuration with
// flag overrides applied. A fresh profile gets a default config file.
func setup(cmd *cobra.Command) (string, config.Config, error) {
	dir, err := profileDir()
	if err != nil {
		return "", config.Config{}, err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", config.Config{}, fmt.Errorf("create profile dir: %w", err)
	}
	if _, err := os.Stat(config.Path(dir)); errors.Is(err, fs.ErrNotExist) {
		if err := config.Save(dir, config.Defaults()); err != nil {
			return "", config.Config{}, fmt.Errorf("write default config: %w", err)
		}
	}

	cfg, err := config.Load(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "joi: %v (using defaults)\n", err)
	}
	flags := cmd.Flags()
	if flags.Changed("backend-url") {
		cfg.BackendURL = flagBackendURL
	}
	if flags.Changed("origin") {
		cfg.Origin = flagOrigin
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = flagLogLevel
	}
	return dir, cfg, nil
}

func profileDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home directory: %w", err)
	}
	profile := flagProfile
	if flagDev && profile == "" {
		profile = "dev"
	}
	if profile == "" {
		return filepath.Join(home, ".joi"), nil
	}
	return filepath.Join(home, ".joi", "profiles", profile), nil
}

// setupLogging sends the global zerolog logger to <dir>/joi.log; the TUI owns
// the terminal.
func setupLogging(dir, level string) (func(), error) {
	f, err := os.OpenFile(filepath.Join(dir, "joi.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(f).With().Timestamp().Logger()
	return func() { _ = f.Close() }, nil
}

func applyTheme(name string) {
	if name == "" || name == "auto" {
		if lipgloss.HasDarkBackground() {
			name = "dark"
		} else {
			name = "light"
		}
	}
	if !style.SetTheme(name) {
		log.Warn().Msgf("[app] unknown theme %q; using %s", name, style.CurrentThemeName)
	}
}
