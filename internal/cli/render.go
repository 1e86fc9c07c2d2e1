package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/inboxatlas/inboxatlas/internal/server"
	"github.com/inboxatlas/inboxatlas/pkg/category"
	"github.com/inboxatlas/inboxatlas/pkg/render"
	"github.com/inboxatlas/inboxatlas/pkg/render/dot"
	"github.com/inboxatlas/inboxatlas/pkg/render/mermaid"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output    string   // output file path (or base path for multiple formats)
	formats   []string // output formats: "mermaid", "dot", "svg", "png", "pdf"
	detailed  bool     // include category identifiers in DOT/SVG node labels
	fromStore bool     // read categories from the configured store
	pick      bool     // interactively pick a subtree to render
	scale     float64  // raster scale for PNG output
}

// newRenderCmd creates the render command for generating diagrams.
// Categories come either from a JSON file of category records or from
// the configured store (--store).
func newRenderCmd() *cobra.Command {
	var formatsStr string
	opts := renderOpts{scale: 2.0}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render the category hierarchy as a diagram",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}

			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			if input == "" && !opts.fromStore {
				return fmt.Errorf("provide a category file or pass --store")
			}
			return runRender(cmd.Context(), input, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): mermaid (default), dot, svg, png, pdf (comma-separated)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include category identifiers in node labels")
	cmd.Flags().BoolVar(&opts.fromStore, "store", false, "read categories from the configured store")
	cmd.Flags().BoolVar(&opts.pick, "pick", false, "interactively pick a category subtree")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "raster scale for PNG output")

	return cmd
}

// parseFormats parses a comma-separated format string into a slice.
// If empty, defaults to ["mermaid"].
func parseFormats(s string) []string {
	if s == "" {
		return []string{"mermaid"}
	}
	return strings.Split(s, ",")
}

// validFormats is the set of supported output formats.
var validFormats = map[string]bool{"mermaid": true, "dot": true, "svg": true, "png": true, "pdf": true}

// formatExt maps formats to output file extensions.
var formatExt = map[string]string{"mermaid": "mmd", "dot": "dot", "svg": "svg", "png": "png", "pdf": "pdf"}

// validateFormats checks that all requested formats are valid.
func validateFormats(formats []string) error {
	for _, f := range formats {
		if !validFormats[f] {
			return fmt.Errorf("invalid format: %s (must be 'mermaid', 'dot', 'svg', 'png', or 'pdf')", f)
		}
	}
	return nil
}

// basePath derives the base output path from the output and input paths.
// If output is empty, it strips the extension from input (or falls back
// to "inbox" when reading from the store). A known format extension on
// output is stripped so multiple formats share one base.
func basePath(output, input string) string {
	if output == "" {
		if input == "" {
			return "inbox"
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if formatFromExt(ext) != "" {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

func formatFromExt(ext string) string {
	for f, e := range formatExt {
		if ext == "."+e {
			return f
		}
	}
	return ""
}

// runRender loads the category records, optionally narrows them to a
// picked subtree, and renders the requested formats.
func runRender(ctx context.Context, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)

	records, err := loadRecords(ctx, input, opts.fromStore)
	if err != nil {
		return err
	}
	logger.Infof("Loaded %d categories", len(records))

	if opts.pick {
		records, err = pickSubtree(records)
		if err != nil {
			return err
		}
		logger.Debugf("Picked subtree: %d categories", len(records))
	}

	if len(opts.formats) == 1 {
		return renderSingle(ctx, records, opts.formats[0], input, opts)
	}

	base := basePath(opts.output, input)
	for _, format := range opts.formats {
		path := fmt.Sprintf("%s.%s", base, formatExt[format])
		if err := renderToFile(ctx, records, format, path, opts); err != nil {
			return fmt.Errorf("%s: %w", format, err)
		}
	}
	return nil
}

// loadRecords reads category records from the store or a JSON file.
func loadRecords(ctx context.Context, input string, fromStore bool) ([]category.Record, error) {
	if fromStore {
		st, err := server.OpenStore(ctx, configFromContext(ctx))
		if err != nil {
			return nil, err
		}
		defer st.Close()
		return st.ListCategories(ctx)
	}

	data, err := os.ReadFile(input)
	if err != nil {
		return nil, err
	}
	var records []category.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse %s: %w", input, err)
	}
	return records, nil
}

// renderSingle renders one format. Text formats go to stdout when no
// output path is given; binary formats always go to a file.
func renderSingle(ctx context.Context, records []category.Record, format, input string, opts *renderOpts) error {
	if opts.output == "" && (format == "mermaid" || format == "dot") {
		data, err := renderDiagram(records, format, opts)
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	path := opts.output
	if path == "" {
		path = fmt.Sprintf("%s.%s", basePath("", input), formatExt[format])
	}
	return renderToFile(ctx, records, format, path, opts)
}

func renderToFile(ctx context.Context, records []category.Record, format, path string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)

	data, err := renderDiagram(records, format, opts)
	if err != nil {
		return err
	}
	logger.Debugf("Generated %s: %d bytes", format, len(data))

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	printFile(path)
	return nil
}

// renderDiagram dispatches to the appropriate renderer.
func renderDiagram(records []category.Record, format string, opts *renderOpts) ([]byte, error) {
	switch format {
	case "mermaid":
		return []byte(mermaid.Render(records)), nil
	case "dot":
		return []byte(toDOT(records, opts)), nil
	case "svg":
		return dot.RenderSVG(toDOT(records, opts))
	case "png":
		svg, err := dot.RenderSVG(toDOT(records, opts))
		if err != nil {
			return nil, err
		}
		return render.ToPNG(svg, opts.scale)
	case "pdf":
		svg, err := dot.RenderSVG(toDOT(records, opts))
		if err != nil {
			return nil, err
		}
		return render.ToPDF(svg)
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
}

func toDOT(records []category.Record, opts *renderOpts) string {
	return dot.ToDOT(category.BuildForest(records), dot.Options{Detailed: opts.detailed})
}

// pickSubtree runs the interactive category picker and narrows the
// records to the selected category and its descendants.
func pickSubtree(records []category.Record) ([]category.Record, error) {
	if len(records) == 0 {
		return records, nil
	}

	model := NewCategoryListModel(records)
	out, err := tea.NewProgram(model).Run()
	if err != nil {
		return nil, err
	}

	final, ok := out.(CategoryListModel)
	if !ok || final.Selected == nil {
		return nil, fmt.Errorf("no category selected")
	}
	return subtreeRecords(records, final.Selected.Name), nil
}

// subtreeRecords filters records to the named category and everything
// below it. The subtree root loses its parent link so it renders as a
// root.
func subtreeRecords(records []category.Record, name string) []category.Record {
	f := category.BuildForest(records)

	var root *category.Node
	for _, n := range f.Nodes() {
		if n.Name == name {
			root = n
			break
		}
	}
	if root == nil {
		return records
	}

	keep := map[string]bool{}
	var find func(n *category.Node)
	find = func(n *category.Node) {
		keep[n.Name] = true
		for _, c := range n.Children {
			find(c)
		}
	}
	find(root)

	var out []category.Record
	for _, r := range records {
		if !keep[r.Name] {
			continue
		}
		if r.Name == name {
			r.Parent = nil
		}
		out = append(out, r)
	}
	return out
}
