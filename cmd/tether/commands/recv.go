package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func recvCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recv",
		Short: "Fetch and decrypt pending messages",
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

			msgs, err := appCtx.Messages.Receive(passphrase, username, 0)
			if err != nil {
				return err
			}
			if len(msgs) == 0 {
				fmt.Println("No new messages.")
				return nil
			}
			for _, m := range msgs {
				fmt.Printf("[%s] %s\n", m.From, m.Plaintext)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "your registered username")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}
