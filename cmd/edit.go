package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel/attribute"

	"github.com/zjrosen/hostpad/internal/config"
	"github.com/zjrosen/hostpad/internal/log"
	"github.com/zjrosen/hostpad/internal/textbox"
	"github.com/zjrosen/hostpad/internal/tracing"
	"github.com/zjrosen/hostpad/internal/ui/textpad"
)

var (
	editInitial string
	editStdin   bool
	editDiff    bool
)

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit text in the box and print the result",
	Long: `Open the text box, edit with Emacs-style keys, and print what was typed.

Ctrl-G finishes, Ctrl-C cancels. With --stdin, keys are read from standard
input instead of the terminal (control bytes included), which makes the box
scriptable:

  printf 'hello\x01\x0bbye\x07' | hostpad edit --stdin`,
	Args: cobra.NoArgs,
	RunE: runEdit,
}

func init() {
	flags := rootCmd.Flags()
	flags.Int("rows", 0, "box height (default from config)")
	flags.Int("cols", 0, "box width (default from config)")
	flags.Bool("insert", false, "insert mode instead of overwrite")
	flags.Bool("strip", true, "ignore trailing blanks when gathering")
	flags.StringVar(&editInitial, "initial", "", "text to load into the box")
	flags.BoolVar(&editStdin, "stdin", false, "read keys from standard input")
	flags.BoolVar(&editDiff, "diff", false, "also print a diff against --initial")

	_ = viper.BindPFlag("textbox.rows", flags.Lookup("rows"))
	_ = viper.BindPFlag("textbox.cols", flags.Lookup("cols"))
	_ = viper.BindPFlag("textbox.insert_mode", flags.Lookup("insert"))
	_ = viper.BindPFlag("textbox.strip_spaces", flags.Lookup("strip"))

	// "hostpad" and "hostpad edit" share one flag set.
	editCmd.Flags().AddFlagSet(flags)
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, _ []string) error {
	opts := cfg.TextboxOptions()

	var (
		text     string
		keyCount int
		err      error
	)
	ctx, span := tracing.Start(cmd.Context(), tracing.SpanEdit,
		attribute.String(tracing.AttrSessionID, tracing.NewSessionID()),
		attribute.Int(tracing.AttrRows, opts.Rows),
		attribute.Int(tracing.AttrCols, opts.Cols),
		attribute.Bool(tracing.AttrInsertMode, opts.InsertMode),
	)
	defer func() {
		span.SetAttributes(attribute.Int(tracing.AttrKeys, keyCount))
		tracing.End(span, err)
	}()

	if editStdin {
		text, keyCount, err = editFromReader(opts, cfg.Bindings, editInitial, cmd.InOrStdin())
	} else {
		var cancelled bool
		text, keyCount, cancelled, err = editInTerminal(ctx, opts, cfg.Bindings, editInitial)
		if err == nil && cancelled {
			log.Info(log.CatEdit, "edit cancelled", "keys", keyCount)
			return nil
		}
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printContents(out, text)
	if editDiff {
		printDiff(out, editInitial, text)
	}
	return nil
}

// editFromReader drives a textbox from raw input bytes until a command
// stops it or the input runs out.
func editFromReader(opts textbox.Config, bindings map[string]string, initial string, in io.Reader) (string, int, error) {
	keyCount := 0
	validate := opts.Validate
	opts.Validate = func(k textbox.Key) textbox.Key {
		keyCount++
		if validate != nil {
			return validate(k)
		}
		return k
	}

	tb, err := textbox.New(opts)
	if err != nil {
		return "", 0, err
	}
	if err := config.ApplyBindings(tb, bindings); err != nil {
		return "", 0, err
	}
	tb.SetText(initial)

	text, err := tb.Edit(textbox.NewRuneReader(in))
	if errors.Is(err, io.EOF) {
		err = nil
	}
	if err != nil {
		return text, keyCount, fmt.Errorf("reading keys: %w", err)
	}
	log.Debug(log.CatEdit, "stdin edit finished", "keys", keyCount, "length", len(text))
	return text, keyCount, nil
}

// runTextpad runs a textpad model as a full-screen program and returns the
// final model. Tests replace it.
var runTextpad = func(ctx context.Context, pad textpad.Model) (textpad.Model, error) {
	p := tea.NewProgram(pad, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return pad, err
	}
	return final.(textpad.Model), nil
}

func editInTerminal(ctx context.Context, opts textbox.Config, bindings map[string]string, initial string) (string, int, bool, error) {
	pad, err := textpad.New(textpad.Config{
		Textbox: opts,
		Title:   "Edit text, then press ctrl+g",
		Initial: initial,
		Setup: func(tb *textbox.Textbox) error {
			return config.ApplyBindings(tb, bindings)
		},
	})
	if err != nil {
		return "", 0, false, err
	}

	final, err := runTextpad(ctx, pad)
	if err != nil {
		return "", 0, false, fmt.Errorf("running editor: %w", err)
	}
	return final.Value(), final.KeyCount(), final.Cancelled(), nil
}

func printContents(w io.Writer, text string) {
	_, _ = fmt.Fprintf(w, "Contents of text box: %q\n", text)
}

// printDiff writes a character diff of before→after, colored when w is a
// terminal.
func printDiff(w io.Writer, before, after string) {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(before, after, false))
	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		_, _ = fmt.Fprintln(w, dmp.DiffPrettyText(diffs))
		return
	}
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			_, _ = fmt.Fprintf(w, "+%q\n", d.Text)
		case diffmatchpatch.DiffDelete:
			_, _ = fmt.Fprintf(w, "-%q\n", d.Text)
		default:
			_, _ = fmt.Fprintf(w, " %q\n", d.Text)
		}
	}
}
