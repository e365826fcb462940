package cmd

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/hostpad/internal/config"
	"github.com/zjrosen/hostpad/internal/textbox"
	"github.com/zjrosen/hostpad/internal/ui/markdown"
)

// keysWidth is the wrap width for the rendered table.
const keysWidth = 120

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Show the key bindings in effect",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		doc, err := bindingsMarkdown(cfg.Bindings)
		if err != nil {
			return err
		}
		r, err := markdown.New(keysWidth, cfg.UI.MarkdownStyle)
		if err != nil {
			return err
		}
		out, err := r.Render(doc)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

var keysBindCmd = &cobra.Command{
	Use:   "bind CHORD COMMAND",
	Short: "Bind a key to a command in the config file",
	Example: `  hostpad keys bind ctrl+t edit.end
  hostpad keys bind ctrl+u delete.to_line_end`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath()
		updated, err := saveBinding(path, cfg.Bindings, args[0], args[1])
		if err != nil {
			return err
		}
		cfg.Bindings = updated
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Bound %s to %s in %s\n", args[0], args[1], path)
		return nil
	},
}

var keysUnbindCmd = &cobra.Command{
	Use:   "unbind CHORD",
	Short: "Remove a configured binding, restoring the default",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath()
		updated, err := saveBinding(path, cfg.Bindings, args[0], "")
		if err != nil {
			return err
		}
		cfg.Bindings = updated
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Unbound %s in %s\n", args[0], path)
		return nil
	},
}

func init() {
	keysCmd.AddCommand(keysBindCmd, keysUnbindCmd)
	rootCmd.AddCommand(keysCmd)
}

// configPath is the file bindings are saved to: the one loaded, else the
// user config.
func configPath() string {
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "hostpad", "config.yaml")
}

// saveBinding sets chord to id in the config file, or removes chord when
// id is empty, and returns the resulting bindings. Chords are stored by
// their canonical name.
func saveBinding(path string, current map[string]string, chord, id string) (map[string]string, error) {
	k, err := textbox.ParseKey(chord)
	if err != nil {
		return nil, err
	}
	chord = k.String()

	updated := maps.Clone(current)
	if updated == nil {
		updated = make(map[string]string)
	}
	if id == "" {
		if _, ok := updated[chord]; !ok {
			return nil, fmt.Errorf("%s has no configured binding", chord)
		}
		delete(updated, chord)
	} else {
		updated[chord] = id
	}

	if err := config.ValidateBindings(updated); err != nil {
		return nil, err
	}
	if err := config.SaveBindings(path, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// effectiveBindings overlays configured chords on the defaults and returns
// the chords bound to each command ID, in key order.
func effectiveBindings(overrides map[string]string) (map[string][]textbox.Key, error) {
	byKey := make(map[textbox.Key]string, len(textbox.DefaultBindings)+len(overrides))
	for _, b := range textbox.DefaultBindings {
		byKey[b.Key] = b.ID
	}
	for chord, id := range overrides {
		k, err := textbox.ParseKey(chord)
		if err != nil {
			return nil, fmt.Errorf("bindings: %w", err)
		}
		if textbox.Description(id) == "" {
			return nil, fmt.Errorf("bindings.%s: unknown command %q", chord, id)
		}
		byKey[k] = id
	}

	byID := make(map[string][]textbox.Key)
	for k, id := range byKey {
		byID[id] = append(byID[id], k)
	}
	for _, ks := range byID {
		sort.Slice(ks, func(i, j int) bool { return ks[i] < ks[j] })
	}
	return byID, nil
}

// bindingsMarkdown renders the effective bindings as a markdown table.
func bindingsMarkdown(overrides map[string]string) (string, error) {
	byID, err := effectiveBindings(overrides)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("# Key bindings\n\n")
	sb.WriteString("| Command | Keys | Description |\n")
	sb.WriteString("|---------|------|-------------|\n")
	for _, id := range textbox.CommandIDs() {
		chords := make([]string, 0, len(byID[id]))
		for _, k := range byID[id] {
			chords = append(chords, "`"+k.String()+"`")
		}
		keyCol := strings.Join(chords, ", ")
		if keyCol == "" {
			keyCol = "(unbound)"
		}
		fmt.Fprintf(&sb, "| `%s` | %s | %s |\n", id, keyCol, textbox.Description(id))
	}
	sb.WriteString("\nOther printable characters are typed into the box.\n")
	return sb.String(), nil
}
