package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/zjrosen/hostpad/internal/catalog"
	"github.com/zjrosen/hostpad/internal/config"
	"github.com/zjrosen/hostpad/internal/flags"
	"github.com/zjrosen/hostpad/internal/keys"
	"github.com/zjrosen/hostpad/internal/log"
	"github.com/zjrosen/hostpad/internal/textbox"
	"github.com/zjrosen/hostpad/internal/ui/textpad"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Walk through unreviewed hosts, renaming as needed",
	Long: `Open each unreviewed host's name in a one-line box.

  ctrl+g  save the (possibly edited) name and mark the host reviewed
  ctrl+c  skip this host
  ctrl+q  stop reviewing`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withCatalog(cmd.Context(), func(ctx context.Context, cat *catalog.Catalog) error {
			return reviewHosts(ctx, cat, cmd.OutOrStdout(), reviewOptions{
				Bindings: cfg.Bindings,
				All:      features.Enabled(flags.FlagReviewAll),
			})
		})
	},
}

func init() {
	rootCmd.AddCommand(reviewCmd)
}

// reviewOptions adjusts a review pass.
type reviewOptions struct {
	// Bindings are applied to every box.
	Bindings map[string]string

	// All visits reviewed hosts too.
	All bool
}

// reviewSummary counts what happened during a review pass.
type reviewSummary struct {
	Reviewed int
	Renamed  int
	Skipped  int
}

const (
	// reviewNameCols is the minimum width of the hostname box.
	reviewNameCols = 40

	// reviewNameSpare is the room left after a long hostname for typing.
	reviewNameSpare = 8
)

// reviewHosts prompts for every unreviewed host in list order.
func reviewHosts(ctx context.Context, cat *catalog.Catalog, w io.Writer, opts reviewOptions) error {
	hosts, err := cat.Hosts(ctx)
	if err != nil {
		return err
	}

	var sum reviewSummary
	pending := 0
	for _, h := range hosts {
		if opts.All || !h.Reviewed {
			pending++
		}
	}
	seen := 0
	for _, h := range hosts {
		if h.Reviewed && !opts.All {
			continue
		}
		seen++

		cols := max(reviewNameCols, utf8.RuneCountInString(h.Hostname)+reviewNameSpare)
		pad, err := textpad.New(textpad.Config{
			Textbox: textbox.Config{Rows: 1, Cols: cols, StripSpaces: true},
			Title:   reviewTitle(h, seen, pending),
			Initial: h.Hostname,
			Setup: func(tb *textbox.Textbox) error {
				return config.ApplyBindings(tb, opts.Bindings)
			},
			Help:   keys.Review,
			Cancel: keys.Review.Skip,
			Abort:  keys.Review.Quit,
		})
		if err != nil {
			return err
		}
		loaded := strings.TrimSpace(pad.Value())
		final, err := runTextpad(ctx, pad)
		if err != nil {
			return fmt.Errorf("running editor: %w", err)
		}

		switch final.Outcome() {
		case textpad.Aborted:
			writeReviewSummary(w, sum)
			return nil
		case textpad.Done:
			// An untouched box can differ from the stored name when the
			// box replaced unprintable characters.
			name := strings.TrimSpace(final.Value())
			if name == "" || name == loaded {
				name = h.Hostname
			}
			if name != h.Hostname {
				if err := cat.Rename(ctx, h.Hostname, name); err != nil {
					return err
				}
				sum.Renamed++
				log.Info(log.CatEdit, "renamed host", "from", h.Hostname, "to", name)
			}
			if err := cat.MarkReviewed(ctx, name); err != nil {
				return err
			}
			sum.Reviewed++
		default:
			sum.Skipped++
		}
	}

	writeReviewSummary(w, sum)
	return nil
}

func reviewTitle(h catalog.Host, n, total int) string {
	return fmt.Sprintf("Host %d/%d  %s  %s", n, total,
		strings.Join(h.IPs, ", "), strings.Join(h.MACs, ", "))
}

func writeReviewSummary(w io.Writer, sum reviewSummary) {
	_, _ = fmt.Fprintf(w, "Reviewed %d host(s), renamed %d, skipped %d\n",
		sum.Reviewed, sum.Renamed, sum.Skipped)
}
