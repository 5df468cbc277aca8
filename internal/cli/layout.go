package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/phanxgames/tagsphere"
)

const maxLayoutSteps = 5000

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

func newLayoutCmd() *cobra.Command {
	var (
		data   dataFlags
		format string
		width  float64
		height float64
		steps  int
	)

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Converge a tag cloud headlessly and print label positions",
		Long: `Converge a tag cloud headlessly and print label positions.

The solver runs at 60 steps per simulated second until it halts or --max-steps
is reached. Output is a table (default) or JSON.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := configFromContext(ctx)
			data.apply(cfg)
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}
			engineCfg, err := cfg.EngineConfig()
			if err != nil {
				return err
			}
			if width > 0 {
				engineCfg.Width = width
			}
			if height > 0 {
				engineCfg.Height = height
			}
			engineCfg.AutoRotate = false
			logger := loggerFromContext(ctx)
			engineCfg.Logger = logger

			labels, err := loadLabels(ctx, nil, cfg.Data)
			if err != nil {
				return fmt.Errorf("load labels: %w", err)
			}

			p := newProgress(logger)
			res, err := converge(labels, engineCfg, steps)
			if err != nil {
				return err
			}
			p.done("layout converged", "steps", res.Steps, "halted", res.Halted)

			switch format {
			case "json":
				return writeLayoutJSON(cmd.OutOrStdout(), res)
			case "table":
				return writeLayoutTable(cmd.OutOrStdout(), res)
			default:
				return fmt.Errorf("unknown format %q (want table or json)", format)
			}
		},
	}

	cmd.Flags().StringVar(&data.url, "url", "", "JSON tag endpoint")
	cmd.Flags().StringVarP(&data.file, "file", "f", "", "JSON or YAML tag file")
	cmd.Flags().StringVar(&data.html, "html", "", "HTML page or file carrying .tag-data elements")
	cmd.Flags().StringVarP(&format, "format", "o", "table", "output format: table, json")
	cmd.Flags().Float64Var(&width, "width", 0, "container width (default from config)")
	cmd.Flags().Float64Var(&height, "height", 0, "container height (default from config)")
	cmd.Flags().IntVar(&steps, "max-steps", maxLayoutSteps, "solver step limit")

	return cmd
}

type layoutNode struct {
	Name     string  `json:"name"`
	Count    int     `json:"count"`
	FontSize float64 `json:"font_size"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Z        float64 `json:"z"`
	ScreenX  float64 `json:"screen_x"`
	ScreenY  float64 `json:"screen_y"`
	Opacity  float64 `json:"opacity"`
	Depth    int     `json:"depth"`
}

type layoutResult struct {
	Width  float64      `json:"width"`
	Height float64      `json:"height"`
	Steps  int          `json:"steps"`
	Halted bool         `json:"halted"`
	Nodes  []layoutNode `json:"nodes"`
}

// converge builds an engine and advances it until the solver halts.
func converge(labels []tagsphere.Label, cfg tagsphere.Config, maxSteps int) (*layoutResult, error) {
	eng, err := tagsphere.NewEngine(labels, cfg)
	if err != nil {
		return nil, err
	}
	defer eng.Dispose()

	if maxSteps <= 0 {
		maxSteps = maxLayoutSteps
	}
	for i := 0; i < maxSteps && !eng.Solver().Halted(); i++ {
		eng.Update(1.0 / 60)
	}

	depth := make(map[*tagsphere.Node]int, len(eng.Nodes()))
	for i, n := range eng.DrawOrder() {
		depth[n] = i
	}
	res := &layoutResult{
		Width:  cfg.Width,
		Height: cfg.Height,
		Steps:  eng.Solver().Steps(),
		Halted: eng.Solver().Halted(),
	}
	for _, n := range eng.Nodes() {
		res.Nodes = append(res.Nodes, layoutNode{
			Name:     n.Label.Name,
			Count:    n.Label.Count,
			FontSize: n.FontSize,
			X:        n.Pos.X,
			Y:        n.Pos.Y,
			Z:        n.Pos.Z,
			ScreenX:  n.Screen.X,
			ScreenY:  n.Screen.Y,
			Opacity:  n.Opacity,
			Depth:    depth[n],
		})
	}
	return res, nil
}

func writeLayoutJSON(w io.Writer, res *layoutResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

func writeLayoutTable(w io.Writer, res *layoutResult) error {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) }
	rows := make([][]string, 0, len(res.Nodes))
	for _, n := range res.Nodes {
		rows = append(rows, []string{
			n.Name, strconv.Itoa(n.Count), f(n.FontSize),
			f(n.X), f(n.Y), f(n.Z),
			strconv.FormatFloat(n.Opacity, 'f', 2, 64), strconv.Itoa(n.Depth),
		})
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers("Label", "Count", "Size", "X", "Y", "Z", "Opacity", "Depth").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			return lipgloss.NewStyle()
		})
	status := "halted"
	if !res.Halted {
		status = "still moving"
	}
	_, err := fmt.Fprintf(w, "%s\n%s\n", t.Render(),
		dimStyle.Render(fmt.Sprintf("%gx%g, %d steps, %s", res.Width, res.Height, res.Steps, status)))
	return err
}
