package cli

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"simple-bible/internal/logger"
	"simple-bible/internal/state"
	"simple-bible/internal/ui"
)

func runTUI(cmd *cobra.Command, _ []string) error {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	return withApp(func(a *app) error {
		logFile, err := os.OpenFile(a.cfg.LogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer logFile.Close()
		prev := logger.SetOutput(logFile)
		defer logger.SetOutput(prev)

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		ctrl := state.NewController(a.settings, a.history,
			state.WithDefaultTranslation(a.cfg.DefaultTranslation),
			state.WithChapterBounds(a.catalog),
		)
		defer ctrl.Wait()

		themeKey := a.settings.Theme()
		if themeKey == "" {
			themeKey = a.cfg.Theme
		}

		model, err := ui.NewModel(ctx, ui.Deps{
			Controller:   ctrl,
			Catalog:      a.catalog,
			Source:       a.client,
			Search:       a.client,
			Compare:      a.client,
			Translations: a.cfg.Translations,
			Theme:        themeKey,
			SaveTheme:    a.settings.SaveTheme,
		})
		if err != nil {
			return err
		}
		defer model.Close()

		p := tea.NewProgram(
			model,
			tea.WithAltScreen(),
			tea.WithMouseCellMotion(),
			tea.WithContext(ctx),
		)
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("running reader: %w", err)
		}
		return nil
	})
}
