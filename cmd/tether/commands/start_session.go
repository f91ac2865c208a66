package commands

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"
)

func startSessionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start-session <peer>",
		Short: "Run the handshake with a peer's published bundle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if passphrase == "" {
				return fmt.Errorf("passphrase required (-p)")
			}
			if appCtx.Relay == nil {
				return fmt.Errorf("no relay configured. use --relay")
			}
			peer := args[0]

			sess, err := appCtx.Sessions.Initiate(passphrase, peer)
			if err != nil {
				return err
			}
			fmt.Printf("Session established with %q.\nRoot key: %s\n",
				peer, hex.EncodeToString(sess.RootKey))
			return nil
		},
	}
}
