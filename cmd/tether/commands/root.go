package commands

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"tether/internal/app"
)

var (
	home         string
	passphrase   string
	relayURL     string
	curveBackend string
	username     string

	appCtx *app.Wire
)

func Execute() error {
	root := &cobra.Command{
		Use:   "tether",
		Short: "End-to-end encrypted chat CLI over P-256",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if home == "" {
				dir, err := os.UserHomeDir()
				if err != nil {
					return err
				}
				home = filepath.Join(dir, ".tether")
			}
			if err := os.MkdirAll(home, 0o700); err != nil {
				return err
			}

			wire, err := app.NewWire(app.Config{
				Home:         home,
				RelayURL:     relayURL,
				CurveBackend: curveBackend,
			})
			if err != nil {
				return err
			}
			appCtx = wire
			return nil
		},
	}

	root.PersistentFlags().StringVar(&home, "home", "", "config dir (default ~/.tether)")
	root.PersistentFlags().StringVarP(&passphrase, "passphrase", "p", "", "passphrase to protect keys")
	root.PersistentFlags().StringVar(&relayURL, "relay", "", "relay base URL (e.g. http://127.0.0.1:8080)")
	root.PersistentFlags().StringVar(&curveBackend, "curve-backend", app.BackendPlatform,
		"P-256 backend: platform or arithmetic")

	root.AddCommand(initCmd(), fingerprintCmd(), registerCmd(), startSessionCmd(), sendCmd(), recvCmd())
	return root.Execute()
}
