package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

const defaultOneTimePrekeys = 10

func registerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register <username>",
		Short: "Publish your prekey bundle to the relay",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if passphrase == "" {
				return fmt.Errorf("passphrase required (-p)")
			}
			if appCtx.Relay == nil {
				return fmt.Errorf("no relay configured. use --relay")
			}
			username := args[0]

			if _, _, err := appCtx.Prekey.GenerateAndStore(passphrase, defaultOneTimePrekeys); err != nil {
				return err
			}
			bundle, err := appCtx.Prekey.LoadBundle(passphrase, username)
			if err != nil {
				return err
			}
			if err := appCtx.Relay.Register(bundle); err != nil {
				return err
			}
			fmt.Printf("Registered %q with %d one-time prekeys.\n", username, len(bundle.OneTime))
			return nil
		},
	}
}
