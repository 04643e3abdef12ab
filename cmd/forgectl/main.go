package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/polkaforge/polkaforge/backend/internal/analysis/intent"
	"github.com/polkaforge/polkaforge/backend/internal/model/reply"
	"github.com/polkaforge/polkaforge/backend/internal/service/wallet/substrate"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "forgectl",
		Short:         "PolkaForge assistant tooling",
		Long:          "forgectl previews assistant replies and reads Polkadot balances from the command line.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newAskCmd(), newTemplatesCmd(), newBalanceCmd(), newAddressCmd())
	return root
}

func newAskCmd() *cobra.Command {
	var (
		showCode bool
		asJSON   bool
	)
	cmd := &cobra.Command{
		Use:   "ask <text>",
		Short: "Show the reply the assistant gives to a message",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			match := intent.Default().Dispatch(strings.Join(args, " "))
			out := cmd.OutOrStdout()

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(match)
			}

			fmt.Fprintf(out, "template: %s", match.Template.Name)
			if match.Keyword != "" {
				fmt.Fprintf(out, " (keyword %q)", match.Keyword)
			}
			fmt.Fprintf(out, "\n\n%s\n", match.Template.Text)
			if showCode && match.Template.CodeSample != "" {
				fmt.Fprintf(out, "\n--- %s ---\n%s\n", match.Template.CodeTitle, match.Template.CodeSample)
			}
			for _, s := range match.Template.Suggestions {
				fmt.Fprintf(out, "  [%s] %s\n", s.Type, s.Label)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showCode, "code", false, "print the attached code sample")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the match as JSON")
	return cmd
}

func newTemplatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List reply templates in match order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			catalog := reply.Default()
			for i, tpl := range catalog.Templates() {
				fmt.Fprintf(out, "%d. %-9s %-9s %s\n", i+1, tpl.Name, tpl.Action, strings.Join(tpl.Keywords, ", "))
			}
			fmt.Fprintf(out, "-  %-9s (no keyword matched)\n", catalog.Fallback.Name)
			return nil
		},
	}
}

func newBalanceCmd() *cobra.Command {
	var (
		endpoint string
		timeout  time.Duration
	)
	cmd := &cobra.Command{
		Use:   "balance <address>",
		Short: "Read the free DOT balance of an address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := substrate.NewClient(substrate.ClientOptions{Endpoint: endpoint, Timeout: timeout})
			snap, err := client.FreeBalance(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("read balance: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s DOT at block #%d\n",
				substrate.FormatUnits(snap.Free, substrate.PolkadotDecimals, 4), snap.BlockNumber)
			return nil
		},
	}
	cmd.Flags().StringVar(&endpoint, "rpc", substrate.DefaultEndpoint, "websocket RPC endpoint")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "request timeout")
	return cmd
}

func newAddressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "address <address>",
		Short: "Decode an SS58 address and show its System.Account storage key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			accountID, prefix, err := substrate.DecodeAddress(args[0])
			if err != nil {
				return err
			}
			polkadot, err := substrate.EncodeAddress(accountID, substrate.PolkadotPrefix)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "prefix:      %d\n", prefix)
			fmt.Fprintf(out, "account id:  0x%s\n", hex.EncodeToString(accountID))
			fmt.Fprintf(out, "polkadot:    %s\n", polkadot)
			fmt.Fprintf(out, "storage key: 0x%s\n", hex.EncodeToString(substrate.SystemAccountKey(accountID)))
			return nil
		},
	}
}
