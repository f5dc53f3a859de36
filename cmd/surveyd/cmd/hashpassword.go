package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"surveydesk/internal/domain/auth"
)

var allowWeak bool

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password",
	Short: "Получить bcrypt-хэш для ADMIN_PASSWORD",
	Long: `Читает пароль из терминала (или из stdin) и печатает bcrypt-хэш,
который можно положить в ADMIN_PASSWORD вместо открытого пароля.`,
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	RunE: func(cmd *cobra.Command, _ []string) error {
		password, err := readPassword()
		if err != nil {
			return err
		}

		if err := auth.CheckStrength(password); err != nil {
			if !allowWeak {
				return fmt.Errorf("%w (используйте --allow-weak, чтобы всё равно получить хэш)", err)
			}
			fmt.Fprintln(os.Stderr, color.YellowString("Внимание: %v", err))
		}

		hash, err := auth.HashPassword(password)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}

func readPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return "", fmt.Errorf("чтение пароля: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	fmt.Fprint(os.Stderr, "Пароль: ")
	password, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("чтение пароля: %w", err)
	}

	fmt.Fprint(os.Stderr, "Повторите пароль: ")
	confirm, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("чтение пароля: %w", err)
	}
	if string(password) != string(confirm) {
		return "", errors.New("пароли не совпадают")
	}
	return string(password), nil
}

func init() {
	hashPasswordCmd.Flags().BoolVar(&allowWeak, "allow-weak", false, "не отклонять слабый пароль")
}
