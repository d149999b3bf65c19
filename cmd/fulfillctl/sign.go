package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/polkiloo/fulfillsync/internal/pkg/signature"
)

func signCmd() *cobra.Command {
	var (
		mode          string
		secret        string
		timestamp     string
		flattenFields []string
		headers       bool
	)

	cmd := &cobra.Command{
		Use:   "sign [file|-]",
		Short: "Compute the webhook signature of a payload",
		Long: `Compute the base64 HMAC-SHA256 signature the payment gateway would send
for the given payload. Use "-" to read the payload from stdin. The secret
defaults to the WEBHOOK_SECRET environment variable.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := signature.ParseMode(mode)
			if err != nil {
				return err
			}
			if secret == "" {
				secret = os.Getenv("WEBHOOK_SECRET")
			}
			if secret == "" {
				return errors.New("a secret is required (--secret or WEBHOOK_SECRET)")
			}
			if parsed == signature.ModeTimestamp && timestamp == "" {
				return errors.New("--timestamp is required in timestamp mode")
			}

			body, err := readPayload(cmd, args[0])
			if err != nil {
				return err
			}

			verifier := signature.NewVerifier(secret, signature.Options{Mode: parsed, FlattenFields: flattenFields})
			sig, err := verifier.Sign(body, timestamp)
			if err != nil {
				return fmt.Errorf("sign payload: %w", err)
			}

			out := cmd.OutOrStdout()
			if !headers {
				fmt.Fprintln(out, sig)
				return nil
			}
			fmt.Fprintf(out, "%s: %s\n", signature.DefaultSignatureHeader, sig)
			if parsed == signature.ModeTimestamp {
				fmt.Fprintf(out, "%s: %s\n", signature.DefaultTimestampHeader, timestamp)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&mode, "mode", "m", string(signature.ModeTimestamp), "Canonicalization mode (raw, timestamp, flattened)")
	cmd.Flags().StringVarP(&secret, "secret", "s", "", "Shared webhook secret")
	cmd.Flags().StringVarP(&timestamp, "timestamp", "t", "", "Timestamp header value (timestamp mode)")
	cmd.Flags().StringSliceVar(&flattenFields, "flatten-fields", nil, "Fields always present in the flattened signing string")
	cmd.Flags().BoolVar(&headers, "headers", false, "Print ready-to-use request headers")

	return cmd
}

func readPayload(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}
	return body, nil
}
