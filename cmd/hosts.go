package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/muesli/reflow/padding"
	"github.com/muesli/reflow/truncate"
	"github.com/spf13/cobra"

	"github.com/zjrosen/hostpad/internal/catalog"
	"github.com/zjrosen/hostpad/internal/flags"
	"github.com/zjrosen/hostpad/internal/log"
	"github.com/zjrosen/hostpad/internal/paths"
	"github.com/zjrosen/hostpad/internal/watcher"
)

var hostsReviewed bool

var hostsCmd = &cobra.Command{
	Use:   "hosts",
	Short: "Manage the host catalog",
	Long: `Manage the host catalog: records of MAC address, IP address and hostname,
grouped by hostname (case-insensitive) when listed.`,
}

var hostsAddCmd = &cobra.Command{
	Use:   "add HOSTNAME IP MAC",
	Short: "Add a host record",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCatalog(cmd.Context(), func(ctx context.Context, cat *catalog.Catalog) error {
			id, err := cat.Add(ctx, catalog.Record{
				Hostname: args[0],
				IP:       args[1],
				MAC:      args[2],
				Reviewed: hostsReviewed,
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added %s (record %d)\n", args[0], id)
			return nil
		})
	},
}

var hostsRmCmd = &cobra.Command{
	Use:     "rm HOSTNAME",
	Aliases: []string{"remove"},
	Short:   "Remove every record for a hostname",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCatalog(cmd.Context(), func(ctx context.Context, cat *catalog.Catalog) error {
			n, err := cat.Remove(ctx, args[0])
			if err != nil {
				return err
			}
			if n == 0 {
				return fmt.Errorf("%w: %s", catalog.ErrHostNotFound, args[0])
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed %d record(s) for %s\n", n, args[0])
			return nil
		})
	},
}

var hostsFindCmd = &cobra.Command{
	Use:   "find MAC",
	Short: "List records with a MAC address",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCatalog(cmd.Context(), func(ctx context.Context, cat *catalog.Catalog) error {
			records, err := cat.FindByMAC(ctx, args[0])
			if err != nil {
				return err
			}
			writeRecords(cmd.OutOrStdout(), records)
			return nil
		})
	},
}

var hostsShowCmd = &cobra.Command{
	Use:   "show HOSTNAME|INDEX",
	Short: "Show one host by name or by list position",
	Long: `Show one host by name, or by its position in "hosts list".
Negative positions count from the end.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCatalog(cmd.Context(), func(ctx context.Context, cat *catalog.Catalog) error {
			host, err := lookupHost(ctx, cat, args[0])
			if err != nil {
				return err
			}
			writeHosts(cmd.OutOrStdout(), []catalog.Host{host})
			return nil
		})
	},
}

var hostsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List hosts grouped by hostname",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withCatalog(cmd.Context(), func(ctx context.Context, cat *catalog.Catalog) error {
			return listHosts(ctx, cat, cmd.OutOrStdout())
		})
	},
}

var hostsWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Reprint the host list whenever the database changes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return withCatalog(ctx, func(ctx context.Context, cat *catalog.Catalog) error {
			return watchHosts(ctx, cat, cmd.OutOrStdout())
		})
	},
}

func init() {
	hostsAddCmd.Flags().BoolVar(&hostsReviewed, "reviewed", false, "mark the record as already reviewed")

	hostsCmd.AddCommand(hostsAddCmd, hostsRmCmd, hostsFindCmd, hostsShowCmd, hostsListCmd, hostsWatchCmd)
	rootCmd.AddCommand(hostsCmd)
}

// withCatalog opens the configured catalog for the duration of fn.
func withCatalog(ctx context.Context, fn func(context.Context, *catalog.Catalog) error) error {
	opts := []catalog.Option{catalog.WithCacheTTL(cfg.Catalog.CacheTTL)}
	if features.Enabled(flags.FlagBypassHostCache) {
		opts = append(opts, catalog.WithoutCache())
	}

	cat, err := catalog.Open(ctx, paths.ResolveCatalog(cfg.Catalog.Path), opts...)
	if err != nil {
		return err
	}
	defer func() {
		if err := cat.Close(); err != nil {
			log.ErrorErr(log.CatDB, "closing catalog", err)
		}
	}()
	return fn(ctx, cat)
}

// lookupHost treats an integer argument as a list position.
func lookupHost(ctx context.Context, cat *catalog.Catalog, arg string) (catalog.Host, error) {
	if i, err := strconv.Atoi(arg); err == nil {
		return cat.At(ctx, i)
	}
	return cat.Get(ctx, arg)
}

func listHosts(ctx context.Context, cat *catalog.Catalog, w io.Writer) error {
	hosts, err := cat.Hosts(ctx)
	if err != nil {
		return err
	}
	if len(hosts) == 0 {
		_, _ = fmt.Fprintln(w, "No hosts.")
		return nil
	}
	writeHosts(w, hosts)
	return nil
}

// watchHosts prints the list, then reprints it after every database
// change until ctx is done.
func watchHosts(ctx context.Context, cat *catalog.Catalog, w io.Writer) error {
	wt, err := watcher.New(watcher.DefaultConfig(cat.Path()))
	if err != nil {
		return err
	}
	changes, err := wt.Start()
	if err != nil {
		return err
	}
	defer func() { _ = wt.Stop() }()

	if err := listHosts(ctx, cat, w); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case _, ok := <-changes:
			if !ok {
				return nil
			}
			log.Debug(log.CatWatcher, "catalog changed, reloading")
			cat.Invalidate()
			_, _ = fmt.Fprintln(w)
			if err := listHosts(ctx, cat, w); err != nil {
				return err
			}
		}
	}
}

// Column widths for host tables.
const (
	colHostname = 24
	colIPs      = 32
	colMACs     = 40
)

func writeHosts(w io.Writer, hosts []catalog.Host) {
	writeRow(w, "#", "HOSTNAME", "IP ADDRESSES", "MAC ADDRESSES", "REVIEWED")
	for i, h := range hosts {
		reviewed := "no"
		if h.Reviewed {
			reviewed = "yes"
		}
		writeRow(w, strconv.Itoa(i), h.Hostname, strings.Join(h.IPs, ", "), strings.Join(h.MACs, ", "), reviewed)
	}
}

func writeRecords(w io.Writer, records []catalog.Record) {
	if len(records) == 0 {
		_, _ = fmt.Fprintln(w, "No records.")
		return
	}
	writeRow(w, "ID", "HOSTNAME", "IP ADDRESS", "MAC ADDRESS", "REVIEWED")
	for _, r := range records {
		reviewed := "no"
		if r.Reviewed {
			reviewed = "yes"
		}
		writeRow(w, strconv.FormatInt(r.ID, 10), r.Hostname, r.IP, r.MAC, reviewed)
	}
}

func writeRow(w io.Writer, index, hostname, ips, macs, reviewed string) {
	_, _ = fmt.Fprintf(w, "%s %s %s %s %s\n",
		cell(index, 4),
		cell(hostname, colHostname),
		cell(ips, colIPs),
		cell(macs, colMACs),
		reviewed,
	)
}

// cell truncates s to width-1 columns and pads it to width.
func cell(s string, width int) string {
	return padding.String(truncate.StringWithTail(s, uint(width-1), "…"), uint(width))
}
