package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marcelsud/session-bridge/webhook/signature"
)

func secretCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "secret",
		Short: "Manage webhook signing secrets",
	}

	var size int
	generate := &cobra.Command{
		Use:   "generate",
		Short: "Print a new signing secret for webhook.signing_secret",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := signature.GenerateSecret(size)
			if err != nil {
				return err
			}
			fmt.Println(s.String())
			return nil
		},
	}
	generate.Flags().IntVar(&size, "bytes", 32, fmt.Sprintf("secret size in bytes (%d-%d)", signature.MinSecretBytes, signature.MaxSecretBytes))

	cmd.AddCommand(generate)
	return cmd
}
