package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/vietddude/warroom/internal/control"
	"github.com/vietddude/warroom/internal/core/config"
)

var messagesLimit int

var messagesCmd = &cobra.Command{
	Use:   "messages",
	Short: "Print stored messages, newest first",
	Run:   runMessages,
}

func init() {
	messagesCmd.Flags().IntVar(&messagesLimit, "limit", 0, "maximum messages to print (0 = page limit)")
	rootCmd.AddCommand(messagesCmd)
}

func runMessages(cmd *cobra.Command, args []string) {
	run(func(cfg *config.AppConfig) error {
		return printMessages(context.Background(), cfg, messagesLimit, os.Stdout)
	})
}

func printMessages(ctx context.Context, cfg *config.AppConfig, limit int, out io.Writer) error {
	store, err := control.OpenStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open message store: %w", err)
	}
	defer func() {
		_ = store.Close()
	}()

	if limit <= 0 {
		limit = cfg.Storage.PageLimit
	}

	messages, err := store.List(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to list messages from %s: %w", store.Name(), err)
	}
	if limit > 0 && len(messages) > limit {
		messages = messages[:limit]
	}

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', tabwriter.Debug)
	_, _ = fmt.Fprintln(w, "CREATED\tSENDER\tWALLET\tTEXT")
	for _, m := range messages {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", m.CreatedAt.Format(time.RFC3339), m.SenderName, m.WalletAddress, m.Text)
	}
	return w.Flush()
}
