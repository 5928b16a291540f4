package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vietddude/warroom/internal/control"
	"github.com/vietddude/warroom/internal/core/config"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <address>",
	Short: "Check whether a wallet holds enough of the gating token",
	Args:  cobra.ExactArgs(1),
	Run:   runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) {
	run(func(cfg *config.AppConfig) error {
		return verifyWallet(context.Background(), cfg, args[0], os.Stdout)
	})
}

// verifyWallet prints the holder table. A ledger failure still prints the
// soft result before the error is returned.
func verifyWallet(ctx context.Context, cfg *config.AppConfig, address string, out io.Writer) error {
	verifier, provider := control.NewVerifier(cfg)
	if provider != nil {
		defer func() {
			_ = provider.Close()
		}()
	}

	result, err := verifier.Verify(ctx, address)
	if result == nil {
		return fmt.Errorf("verification failed: %w", err)
	}

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', tabwriter.Debug)
	_, _ = fmt.Fprintln(w, "ADDRESS\tBALANCE\tMIN HOLD\tHOLDER")
	_, _ = fmt.Fprintf(w, "%s\t%g\t%g\t%t\n", result.Address, result.Balance, result.MinHold, result.IsHolder)
	_ = w.Flush()

	if err != nil {
		return fmt.Errorf("ledger query failed: %w", err)
	}
	return nil
}
