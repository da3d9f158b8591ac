package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/waffleviz/waffle/pkg/dataset"
	"github.com/waffleviz/waffle/pkg/legend"
	"github.com/waffleviz/waffle/pkg/palette"
	"github.com/waffleviz/waffle/pkg/pipeline"
	"github.com/waffleviz/waffle/pkg/waffle"
)

// previewCommand creates the preview command for exploring a dataset
// interactively in the terminal.
func (c *CLI) previewCommand() *cobra.Command {
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "preview [dataset]",
		Short: "Preview a waffle chart in the terminal",
		Long: `Preview a waffle chart in the terminal.

The preview command draws the tile grid with terminal colors and lets
you explore layout options interactively: flip the fill direction,
toggle autoscaling, and resize the grid without leaving the shell.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPreview(cmd.Context(), args[0], opts)
		},
	}

	addLayoutFlags(cmd, &opts)
	cmd.Flags().StringVar(&opts.Palette, "palette", opts.Palette, "palette name: viridis (default), cividis, plasma, tab10, tol")

	return cmd
}

// runPreview loads the dataset and hands control to the TUI.
func (c *CLI) runPreview(ctx context.Context, source string, opts pipeline.Options) error {
	ds, err := dataset.LoadSource(ctx, source)
	if err != nil {
		return err
	}
	opts.SetAllocateDefaults()

	m, err := newPreviewModel(ds, opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("preview: %w", err)
	}
	return nil
}

// =============================================================================
// PreviewModel - Interactive chart preview
// =============================================================================

// previewModel is the bubbletea model for the interactive preview.
type previewModel struct {
	Dataset *dataset.Dataset
	Opts    pipeline.Options

	alloc   *waffle.Allocation
	tiles   []string       // rendered block per category, background last
	entries []legend.Entry // legend lines with percentages
	err     error
}

// newPreviewModel builds the model and computes the initial allocation.
func newPreviewModel(ds *dataset.Dataset, opts pipeline.Options) (previewModel, error) {
	m := previewModel{Dataset: ds, Opts: opts}
	m.reallocate()
	if m.err != nil {
		return m, m.err
	}
	return m, nil
}

// reallocate recomputes the allocation and tile colors for the current
// options. On failure the previous grid is kept and the error shown.
func (m *previewModel) reallocate() {
	alloc, err := waffle.Allocate(m.Dataset.Categories, m.Opts.AllocOptions())
	if err != nil {
		m.err = err
		return
	}

	cmap, err := palette.ByName(m.Opts.Palette)
	if err != nil {
		m.err = err
		return
	}
	colors := cmap.Resample(len(alloc.Categories))
	tiles := make([]string, len(colors))
	for i, col := range colors {
		tiles[i] = lipgloss.NewStyle().Foreground(lipgloss.Color(col.Hex())).Render("██")
	}

	m.alloc = alloc
	m.tiles = tiles
	m.entries = legend.Build(alloc.Categories, alloc.Proportions, legend.Options{ShowPercents: true})
	m.err = nil
}

func (m previewModel) Init() tea.Cmd {
	return nil
}

func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "v":
			m.Opts.Vertical = !m.Opts.Vertical
			m.reallocate()
		case "a":
			m.Opts.NoAutoscale = !m.Opts.NoAutoscale
			m.reallocate()
		case "+", "=":
			m.Opts.Width++
			m.Opts.Height++
			m.reallocate()
		case "-":
			if m.Opts.Width > 1 && m.Opts.Height > 1 {
				m.Opts.Width--
				m.Opts.Height--
				m.reallocate()
			}
		}
	}
	return m, nil
}

func (m previewModel) View() string {
	var b strings.Builder

	if m.Dataset.Title != "" {
		b.WriteString(StyleTitle.Render(m.Dataset.Title))
		b.WriteString("\n")
	}
	b.WriteString(StyleDim.Render("v flip fill  a autoscale  +/- resize  q quit"))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString("  " + StyleWarning.Render(m.err.Error()))
		b.WriteString("\n\n")
	}

	for _, row := range m.alloc.Grid.Cells {
		b.WriteString("  ")
		for _, cell := range row {
			b.WriteString(m.tile(cell))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for _, e := range m.entries {
		b.WriteString("  " + m.tiles[e.Index] + " " + StyleValue.Render(e.Label))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(StyleDim.Render("  " + m.status()))
	b.WriteString("\n")

	return b.String()
}

// tile renders one grid cell as a colored block. Background cells get a
// dim shade so the grid outline stays visible.
func (m previewModel) tile(cell int) string {
	if cell == waffle.Background || cell >= len(m.tiles) {
		return StyleDim.Render("░░")
	}
	return m.tiles[cell]
}

// status summarizes the current layout settings.
func (m previewModel) status() string {
	fill := "rows"
	if m.alloc.Vertical {
		fill = "columns"
	}
	autoscale := "on"
	if !m.Opts.ShouldAutoscale() {
		autoscale = "off"
	}
	s := fmt.Sprintf("%dx%d grid · fill %s · autoscale %s",
		m.alloc.Grid.Width, m.alloc.Grid.Height, fill, autoscale)
	if m.alloc.ScaleSteps > 0 {
		s += fmt.Sprintf(" · grew %d steps", m.alloc.ScaleSteps)
	}
	if m.alloc.Visible < m.alloc.NonZero {
		s += fmt.Sprintf(" · %d categories hidden", m.alloc.NonZero-m.alloc.Visible)
	}
	return s
}
