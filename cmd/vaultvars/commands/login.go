package commands

import (
	"bufio"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zalando/go-keyring"

	"github.com/opsforge/vaultvars/internal/config"
	vverrors "github.com/opsforge/vaultvars/internal/errors"
	"github.com/opsforge/vaultvars/internal/store/vault"
)

func NewLoginCommand(cfg *config.Config) *cobra.Command {
	var deleteToken bool

	cmd := &cobra.Command{
		Use:   "login [token]",
		Short: "Store a Vault token in the OS keyring",
		Long: `Store a Vault token in the operating system keyring so later runs can
authenticate without VAULT_TOKEN in the environment.

The token is taken from the argument when given, otherwise read from
standard input. Pipe it in for automation:

  vault print token | vaultvars login

Use --delete to remove a previously stored token.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Load(); err != nil {
				return err
			}

			if deleteToken {
				if err := keyring.Delete(vault.KeyringService, vault.KeyringUser); err != nil {
					if err == keyring.ErrNotFound {
						cfg.Logger.Warn("No stored token to delete")
						return nil
					}
					return vverrors.UserError{
						Message: "Failed to delete token from keyring",
						Details: err.Error(),
						Err:     err,
					}
				}
				cfg.Logger.Info("Token removed from keyring")
				return nil
			}

			var token string
			if len(args) == 1 {
				token = strings.TrimSpace(args[0])
				if token == "" {
					return vverrors.UserError{
						Message:    "Empty token",
						Suggestion: "Provide a non-empty Vault token",
					}
				}
			} else {
				var err error
				token, err = readToken(cmd, cfg.NonInteractive)
				if err != nil {
					return err
				}
			}

			if err := keyring.Set(vault.KeyringService, vault.KeyringUser, token); err != nil {
				return vverrors.UserError{
					Message:    "Failed to store token in keyring",
					Details:    err.Error(),
					Suggestion: "Check that an OS keyring service is available, or use VAULT_TOKEN instead",
					Err:        err,
				}
			}
			cfg.Logger.Info("Token stored in keyring")
			return nil
		},
	}

	cmd.Flags().BoolVar(&deleteToken, "delete", false, "Remove the stored token")

	return cmd
}

// readToken reads a token from stdin. The prompt is only shown on a
// terminal-like interactive run; piped input stays silent.
func readToken(cmd *cobra.Command, nonInteractive bool) (string, error) {
	if !nonInteractive {
		cmd.Print("Vault token: ")
	}
	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", vverrors.UserError{
			Message:    "Failed to read token from standard input",
			Suggestion: "Pipe the token in: vault print token | vaultvars login",
			Err:        err,
		}
	}
	token := strings.TrimSpace(line)
	if token == "" {
		return "", vverrors.UserError{
			Message:    "Empty token",
			Suggestion: "Provide a non-empty Vault token on standard input",
		}
	}
	return token, nil
}
