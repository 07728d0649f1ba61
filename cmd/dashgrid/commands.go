package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jask/dashgrid/internal/catalog"
	"github.com/jask/dashgrid/internal/config"
	"github.com/jask/dashgrid/internal/dashboard"
	"github.com/jask/dashgrid/internal/grid"
	"github.com/jask/dashgrid/internal/prefs"
	"github.com/jask/dashgrid/internal/tui"
	"github.com/jask/dashgrid/widgets"
)

func showCmd(e *env) *cobra.Command {
	var asJSON, asGrid bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the current dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := e.store.Config()
			out := cmd.OutOrStdout()
			switch {
			case asJSON:
				raw, err := dashboard.Encode(cfg)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, raw)
			case asGrid:
				fmt.Fprintln(out, renderGrid(e.store.Catalog(), cfg, 96))
			default:
				printConfig(out, cfg)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the saved document")
	cmd.Flags().BoolVar(&asGrid, "grid", false, "draw the visible widgets")
	return cmd
}

func printConfig(out io.Writer, cfg dashboard.Config) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "WIDGET\tVISIBLE\tX\tY\tW\tH")
	for _, it := range cfg.Layout {
		fmt.Fprintf(tw, "%s\t%t\t%d\t%d\t%d\t%d\n", it.ID, cfg.Visible[it.ID], it.X, it.Y, it.W, it.H)
	}
	_ = tw.Flush()
	if len(cfg.Order) > 0 {
		fmt.Fprintf(out, "\ncards: %s\n", strings.Join(cfg.Order, ", "))
	}
}

// maxGridLines bounds the text drawn by show --grid; y has no upper bound.
const maxGridLines = 200

func renderGrid(cat *catalog.Catalog, cfg dashboard.Config, width int) string {
	g := widgets.Grid{Cols: grid.Cols, RowHeight: 2}
	for _, it := range cfg.VisibleLayout() {
		title := it.ID
		if w, ok := cat.Widget(it.ID); ok && w.Title != "" {
			title = w.Title
		}
		g.Tiles = append(g.Tiles, widgets.Tile{Title: title, X: it.X, Y: it.Y, W: it.W, H: it.H})
	}
	height := max(2, g.Height())
	if height <= maxGridLines {
		return g.Render(width, height)
	}
	hidden := 0
	for _, t := range g.Tiles {
		if t.Y*g.RowHeight >= maxGridLines {
			hidden++
		}
	}
	out := g.Render(width, maxGridLines)
	return out + fmt.Sprintf("\n(%d widget(s) below line %d not shown)", hidden, maxGridLines)
}

// widgetArg resolves a widget id, suggesting the closest match on a typo.
func widgetArg(cat *catalog.Catalog, id string) error {
	if cat.Has(id) {
		return nil
	}
	if s := catalog.Suggest(id, cat.IDs()); s != "" {
		return fmt.Errorf("unknown widget %q (did you mean %q?)", id, s)
	}
	return fmt.Errorf("unknown widget %q", id)
}

func intArgs(args ...string) ([]int, error) {
	out := make([]int, len(args))
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", a)
		}
		out[i] = n
	}
	return out, nil
}

func visibleCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "visible <widget> <on|off>",
		Short: "Show or hide a widget",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := widgetArg(e.store.Catalog(), args[0]); err != nil {
				return err
			}
			var shown bool
			switch strings.ToLower(args[1]) {
			case "on", "true", "show", "1":
				shown = true
			case "off", "false", "hide", "0":
			default:
				return fmt.Errorf("want on or off, got %q", args[1])
			}
			_, err := e.store.SetVisible(cmd.Context(), args[0], shown)
			return err
		},
	}
}

func resizeCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "resize <widget> <w> <h>",
		Short: "Resize a widget within its bounds",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := widgetArg(e.store.Catalog(), args[0]); err != nil {
				return err
			}
			n, err := intArgs(args[1:]...)
			if err != nil {
				return err
			}
			cfg, err := e.store.Resize(cmd.Context(), args[0], n[0], n[1])
			if it, ok := cfg.Item(args[0]); ok {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %dx%d\n", it.ID, it.W, it.H)
			}
			return err
		},
	}
}

func moveCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "move <widget> <x> <y>",
		Short: "Move a widget on the grid",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := widgetArg(e.store.Catalog(), args[0]); err != nil {
				return err
			}
			n, err := intArgs(args[1:]...)
			if err != nil {
				return err
			}
			patch := grid.Patch{ID: args[0], X: &n[0], Y: &n[1]}
			cfg, err := e.store.ApplyPartialLayout(cmd.Context(), []grid.Patch{patch})
			if it, ok := cfg.Item(args[0]); ok {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d,%d\n", it.ID, it.X, it.Y)
			}
			return err
		},
	}
}

func applyCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "apply",
		Short: "Merge a partial layout read from stdin",
		Long: `Reads a JSON array of layout items from stdin and merges it into the
stored layout. Fields left out keep their current value, for example:

  echo '[{"i":"stats","x":6},{"i":"bookings","x":0}]' | dashgrid apply`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}
			partial, err := dashboard.DecodePartial(string(data))
			if err != nil {
				return err
			}
			_, err = e.store.ApplyPartialLayout(cmd.Context(), partial)
			return err
		},
	}
}

func presetCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "preset <name>",
		Short: "Replace visibility and layout with a preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat := e.store.Catalog()
			if _, ok := cat.Preset(args[0]); !ok {
				if s := catalog.Suggest(args[0], cat.PresetNames()); s != "" {
					return fmt.Errorf("unknown preset %q (did you mean %q?)", args[0], s)
				}
				return fmt.Errorf("unknown preset %q (have %s)", args[0], strings.Join(cat.PresetNames(), ", "))
			}
			_, err := e.store.ApplyPreset(cmd.Context(), args[0])
			return err
		},
	}
}

func resetCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore the default dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := e.store.Reset(cmd.Context())
			return err
		},
	}
}

func reorderCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "reorder <card> <target>",
		Short: "Move a card to the position of another card",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := e.store.Reorder(cmd.Context(), args[0], args[1])
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(cfg.Order, ", "))
			return err
		},
	}
}

func catalogCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List widgets, cards and presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat := e.store.Catalog()
			out := cmd.OutOrStdout()
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "WIDGET\tTITLE\tDEFAULT\tSIZE\tBOUNDS")
			for _, w := range cat.Widgets() {
				l := w.Layout
				fmt.Fprintf(tw, "%s\t%s\t%t\t%dx%d\t%d-%d x %d-%d\n", w.ID, w.Title, w.Visible, l.W, l.H, l.MinW, l.MaxW, l.MinH, l.MaxH)
			}
			_ = tw.Flush()
			fmt.Fprintf(out, "\ncards: %s\npresets: %s\n", strings.Join(cat.Cards(), ", "), strings.Join(cat.PresetNames(), ", "))
			return nil
		},
	}
}

func historyCmd(e *env) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List saved revisions (sqlite storage only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if e.kv == nil {
				return fmt.Errorf("history needs storage.backend = sqlite, have %s", e.cfg.Storage.Backend)
			}
			revs, err := e.kv.History(cmd.Context(), e.store.Key())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(revs)
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSAVED\tVISIBLE")
			for _, r := range revs {
				cfg := dashboard.Decode(r.Value, e.store.Catalog())
				fmt.Fprintf(tw, "%d\t%s\t%d\n", r.ID, r.SavedAt.Format("2006-01-02 15:04:05"), len(cfg.VisibleLayout()))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print revisions as JSON")
	return cmd
}

func restoreCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <revision>",
		Short: "Restore a saved revision (sqlite storage only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if e.kv == nil {
				return fmt.Errorf("restore needs storage.backend = sqlite, have %s", e.cfg.Storage.Backend)
			}
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("%q is not a revision id", args[0])
			}
			rev, err := e.kv.Revision(cmd.Context(), id)
			if err != nil {
				return err
			}
			if rev == nil || rev.Key != e.store.Key() {
				return fmt.Errorf("revision %d not found", id)
			}
			_, err = e.store.Restore(cmd.Context(), rev.Value)
			return err
		},
	}
}

func tuiCmd(e *env) *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Edit the dashboard interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := tea.NewProgram(tui.New(cmd.Context(), e.store), tea.WithAltScreen())
			if watch {
				if e.cfg.Storage.Backend != config.BackendFile {
					return fmt.Errorf("--watch needs storage.backend = file, have %s", e.cfg.Storage.Backend)
				}
				w, err := prefs.Watch(e.cfg.Storage.Path, prefs.DefaultDebounce, func() { p.Send(tui.ReloadMsg{}) }, e.log)
				if err != nil {
					return err
				}
				defer w.Close()
			}
			_, err := p.Run()
			return err
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", false, "reload when another process saves the dashboard")
	return cmd
}

func configCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the dashgrid config file",
	}
	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the effective configuration to the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.Path()
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.Save(e.cfg); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	cmd.AddCommand(initCmd)
	return cmd
}
