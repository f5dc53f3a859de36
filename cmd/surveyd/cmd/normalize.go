package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"surveydesk/internal/domain/branch"
	"surveydesk/internal/domain/survey"
	"surveydesk/internal/infrastructure/storage"
)

var (
	dryRun  bool
	verbose bool
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize-branches",
	Short: "Привести названия филиалов к каноническим",
	Long: `Проходит по всем анкетам и заменяет написание филиала на одно из
канонических названий городов. Повторный запуск ничего не меняет.`,
	RunE: runNormalize,
}

func runNormalize(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := storage.Open(ctx, cfg.DB, log)
	if err != nil {
		return fmt.Errorf("открытие хранилища: %w", err)
	}
	defer store.Close()

	result, err := branch.NewService(store, log).Run(ctx, dryRun)
	if err != nil {
		return fmt.Errorf("нормализация: %w", err)
	}

	if verbose || dryRun {
		for _, c := range result.Changes {
			fmt.Printf("%s %s  %s %s %s\n",
				color.CyanString("%-7s", c.Kind), c.ID,
				color.RedString("%q", c.From), "→", color.GreenString(c.To))
		}
		if len(result.Changes) > 0 {
			fmt.Println()
		}
	}

	for _, kind := range survey.Kinds {
		fmt.Printf("%-8s просмотрено: %d, изменено: %d, не распознано: %d\n",
			kind, result.Scanned[kind], result.Changed[kind], result.Unmatched[kind])
	}

	switch {
	case dryRun:
		color.Yellow("Пробный запуск: изменения не сохранены (%d к изменению)", result.Total())
	case result.Total() == 0:
		color.Green("✅ Все названия уже канонические")
	default:
		color.Green("✅ Обновлено записей: %d", result.Total())
	}
	return nil
}

func init() {
	normalizeCmd.Flags().BoolVar(&dryRun, "dry-run", false, "показать изменения без записи")
	normalizeCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "печатать каждое изменение")
}
