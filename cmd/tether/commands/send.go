package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func sendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "send <peer> <message>",
		Short: "Encrypt and send a message to a peer",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if passphrase == "" {
				return fmt.Errorf("passphrase required (-p)")
			}
			if appCtx.Relay == nil {
				return fmt.Errorf("no relay configured. use --relay")
			}
			if username == "" {
				return fmt.Errorf("username required (--username)")
			}
			peer, msg := args[0], args[1]

			if err := appCtx.Messages.Send(passphrase, username, peer, []byte(msg)); err != nil {
				return err
			}
			fmt.Printf("Sent to %q.\n", peer)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "your registered username")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}
