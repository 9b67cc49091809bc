package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"fontpair/internal/export"
	"fontpair/internal/ingest"
	"fontpair/pkg/models"
)

var titleStyle = lipgloss.NewStyle().Bold(true)

func fontTable(list []models.Font) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("FAMILY", "CATEGORY", "FOUNDRY", "WEIGHTS", "LEGIBILITY")
	for _, f := range list {
		t.Row(f.Family, string(f.Category), f.Foundry, joinInts(f.Weights), string(f.Legibility))
	}
	return t.String()
}

func joinInts(v []int) string {
	s := make([]string, len(v))
	for i, n := range v {
		s[i] = strconv.Itoa(n)
	}
	return strings.Join(s, " ")
}

func newFontsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{Use: "fonts", Short: "Search and inspect fonts"}

	var limit int
	search := &cobra.Command{
		Use:   "search [query]",
		Short: "Search fonts by family",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := app.context(cmd)
			defer cancel()

			q := ""
			if len(args) == 1 {
				q = args[0]
			}
			list, err := app.backend().SearchFonts(ctx, q, limit)
			if err != nil {
				return err
			}
			if app.opts.json {
				return app.printJSON(list)
			}
			if len(list) == 0 {
				fmt.Fprintln(app.Out, "no fonts found")
				return nil
			}
			fmt.Fprintln(app.Out, fontTable(list))
			return nil
		},
	}
	search.Flags().IntVarP(&limit, "limit", "n", 20, "max results")

	show := &cobra.Command{
		Use:   "show <family>",
		Short: "Show one font",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := app.context(cmd)
			defer cancel()

			f, err := app.backend().Font(ctx, args[0])
			if err != nil {
				return err
			}
			if app.opts.json {
				return app.printJSON(f)
			}
			printFont(app.Out, f)
			return nil
		},
	}

	cmd.AddCommand(search, show)
	return cmd
}

func printFont(w io.Writer, f models.Font) {
	fmt.Fprintln(w, titleStyle.Render(f.Family))
	fmt.Fprintf(w, "  category:   %s\n", f.Category)
	fmt.Fprintf(w, "  foundry:    %s (%s)\n", f.Foundry, f.FoundrySlug)
	fmt.Fprintf(w, "  weights:    %s\n", joinInts(f.Weights))
	fmt.Fprintf(w, "  legibility: %s\n", f.Legibility)
	if len(f.Designers) > 0 {
		fmt.Fprintf(w, "  designers:  %s\n", strings.Join(f.Designers, ", "))
	}
	if f.Popularity > 0 {
		fmt.Fprintf(w, "  popularity: #%d\n", f.Popularity)
	}
	links := models.LinksFor(f.FontRecord)
	fmt.Fprintf(w, "  specimen:   %s\n", links.Specimen)
	fmt.Fprintf(w, "  css:        %s\n", links.Stylesheet)
}

func foundryTable(list []models.FoundryRecord) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("NAME", "SLUG", "KIND", "WEBSITE")
	for _, fd := range list {
		kind := "designer"
		if fd.IsFoundry {
			kind = "foundry"
		}
		t.Row(fd.Name, fd.Slug, kind, fd.Website)
	}
	return t.String()
}

func newFoundryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{Use: "foundry", Short: "Inspect foundries and designers"}

	var limit int
	search := &cobra.Command{
		Use:   "search [query]",
		Short: "Search foundries and designers by name or slug",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := app.context(cmd)
			defer cancel()

			q := ""
			if len(args) == 1 {
				q = args[0]
			}
			list, err := app.backend().SearchFoundries(ctx, q, limit)
			if err != nil {
				return err
			}
			if app.opts.json {
				return app.printJSON(list)
			}
			if len(list) == 0 {
				fmt.Fprintln(app.Out, "no foundries found")
				return nil
			}
			fmt.Fprintln(app.Out, foundryTable(list))
			return nil
		},
	}
	search.Flags().IntVarP(&limit, "limit", "n", 20, "max results")
	cmd.AddCommand(search)

	cmd.AddCommand(&cobra.Command{
		Use:   "show <slug>",
		Short: "Show a foundry and its fonts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := app.context(cmd)
			defer cancel()

			page, err := app.backend().Foundry(ctx, args[0])
			if err != nil {
				return err
			}
			if app.opts.json {
				return app.printJSON(page)
			}
			fmt.Fprintln(app.Out, titleStyle.Render(page.Foundry.Name))
			if page.Foundry.Website != "" {
				fmt.Fprintln(app.Out, page.Foundry.Website)
			}
			if page.Foundry.Bio != "" {
				fmt.Fprintln(app.Out, page.Foundry.Bio)
			}
			fmt.Fprintf(app.Out, "%d fonts\n", len(page.Fonts))
			if len(page.Fonts) > 0 {
				fmt.Fprintln(app.Out, fontTable(page.Fonts))
			}
			return nil
		},
	})
	return cmd
}

func printPair(w io.Writer, p PairResult) {
	fmt.Fprintf(w, "%s  %s (%s)\n", titleStyle.Render("header:"), p.Header.Family, p.Header.Category)
	fmt.Fprintf(w, "%s    %s (%s)\n", titleStyle.Render("body:"), p.Body.Family, p.Body.Category)
	fmt.Fprintf(w, "score:   %d\n", p.Score)
}

func newPairCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{Use: "pair", Short: "Generate and score pairings"}

	random := &cobra.Command{
		Use:   "random",
		Short: "Draw a random header and a complementary body",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := app.context(cmd)
			defer cancel()

			p, err := app.backend().RandomPair(ctx)
			if err != nil {
				return err
			}
			if app.opts.json {
				return app.printJSON(p)
			}
			printPair(app.Out, p)
			return nil
		},
	}

	var role string
	complement := &cobra.Command{
		Use:   "complement <family>",
		Short: "Find a partner for a locked font",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			locked, err := models.ParseRole(role)
			if err != nil {
				return err
			}
			ctx, cancel := app.context(cmd)
			defer cancel()

			p, err := app.backend().Complement(ctx, args[0], locked)
			if err != nil {
				return err
			}
			if app.opts.json {
				return app.printJSON(p)
			}
			printPair(app.Out, p)
			return nil
		},
	}
	complement.Flags().StringVar(&role, "role", string(models.RoleHeader), "slot the given font is locked in (header or body)")

	score := &cobra.Command{
		Use:   "score <base> <candidate>",
		Short: "Explain how well candidate complements base",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := app.context(cmd)
			defer cancel()

			s, err := app.backend().Score(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			if app.opts.json {
				return app.printJSON(s)
			}
			b := s.Breakdown
			fmt.Fprintf(app.Out, "%s -> %s: %s\n", s.Base.Family, s.Candidate.Family, titleStyle.Render(strconv.Itoa(s.Score)))
			fmt.Fprintf(app.Out, "  base %d, contrast %+d, cohesion %+d, self-pair %+d, legibility %+d\n",
				b.Base, b.Contrast, b.Cohesion, b.SelfPair, b.Legibility)
			return nil
		},
	}

	cmd.AddCommand(random, complement, score)
	return cmd
}

func newExportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{Use: "export", Short: "Export the catalog"}

	var out string
	jsonCmd := &cobra.Command{
		Use:   "json",
		Short: "Write fonts as a JSON array",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := app.context(cmd)
			defer cancel()

			list, _, err := app.backend().Snapshot(ctx)
			if err != nil {
				return err
			}
			if err := ingest.WriteJSON(out, list); err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "exported %d fonts to %s\n", len(list), out)
			return nil
		},
	}
	jsonCmd.Flags().StringVarP(&out, "out", "o", "data/fonts.json", "output path")

	var fontsOut, foundriesOut string
	csvCmd := &cobra.Command{
		Use:   "csv",
		Short: "Write fonts and foundries as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := app.context(cmd)
			defer cancel()

			list, fds, err := app.backend().Snapshot(ctx)
			if err != nil {
				return err
			}
			if err := export.ToFile(fontsOut, func(w io.Writer) error { return export.WriteFontsCSV(w, list) }); err != nil {
				return err
			}
			if err := export.ToFile(foundriesOut, func(w io.Writer) error { return export.WriteFoundriesCSV(w, fds) }); err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "exported %d fonts to %s and %d foundries to %s\n", len(list), fontsOut, len(fds), foundriesOut)
			return nil
		},
	}
	csvCmd.Flags().StringVar(&fontsOut, "fonts", "data/fonts.csv", "fonts output path")
	csvCmd.Flags().StringVar(&foundriesOut, "foundries", "data/foundries.csv", "foundries output path")

	cmd.AddCommand(jsonCmd, csvCmd)
	return cmd
}
