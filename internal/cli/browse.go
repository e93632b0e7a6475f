package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/panelmap/pkg/diagram"
	pkgio "github.com/matzehuels/panelmap/pkg/io"
	"github.com/matzehuels/panelmap/pkg/pipeline"
)

var (
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	listHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	detailStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1)
)

// browseCommand creates the browse command.
func (c *CLI) browseCommand() *cobra.Command {
	var flags buildFlags

	cmd := &cobra.Command{
		Use:   "browse [tree.json|tree.yaml|diagram.layout.json]",
		Short: "Browse the nodes of a laid-out diagram",
		Long: `Browse the nodes of a diagram in the terminal.

A tree file is laid out first; a .layout.json file is shown as is. Move with
the arrow keys, press enter to show a node's full label and q to quit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			d, err := c.loadDiagram(ctx, args[0], &flags)
			if err != nil {
				return err
			}
			if d.Empty() {
				c.out.warning("Diagram is empty")
				return nil
			}
			final, err := tea.NewProgram(NewNodeListModel(d), tea.WithContext(ctx)).Run()
			if err != nil {
				return err
			}
			if m, ok := final.(NodeListModel); ok && m.Selected != nil {
				n := m.Selected
				c.out.keyValue("id", n.ID)
				c.out.keyValue("depth", fmt.Sprint(n.Depth))
				c.out.keyValue("position", fmt.Sprintf("%.0f, %.0f", n.Position.X, n.Position.Y))
				c.out.keyValue("size", fmt.Sprintf("%.0f × %.0f", n.Width, n.Height))
				c.out.keyValue("label", strings.ReplaceAll(n.Label, "\n", " / "))
			}
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

// loadDiagram reads a laid-out diagram, or lays out a tree file.
func (c *CLI) loadDiagram(ctx context.Context, path string, flags *buildFlags) (diagram.Diagram, error) {
	if strings.HasSuffix(path, ".layout.json") {
		return pkgio.ImportJSON(path)
	}

	opts := c.pipelineOptions()
	flags.apply(&opts)
	root, err := pipeline.ParseFile(path, opts.IDs, c.Logger)
	if err != nil {
		return diagram.Diagram{}, err
	}
	runner := c.newRunner(ctx, flags.noCache)
	defer runner.Close()
	return runner.Build(ctx, root, opts)
}

// =============================================================================
// NodeListModel - Interactive node listing
// =============================================================================

// NodeListModel is the bubbletea model listing diagram nodes in tree order.
type NodeListModel struct {
	Nodes    []diagram.Node
	Cursor   int
	Offset   int
	Height   int
	Expanded bool
	Selected *diagram.Node
}

// NewNodeListModel lists the nodes of d depth first from the root.
func NewNodeListModel(d diagram.Diagram) NodeListModel {
	return NodeListModel{Nodes: treeOrder(d), Height: 15}
}

// treeOrder returns nodes in depth-first pre-order. Nodes unreachable from
// the root are appended in document order.
func treeOrder(d diagram.Diagram) []diagram.Node {
	idx := d.Index()
	children := d.Children()
	out := make([]diagram.Node, 0, len(d.Nodes))
	seen := make(map[string]bool, len(d.Nodes))

	var visit func(id string)
	visit = func(id string) {
		i, ok := idx[id]
		if !ok || seen[id] {
			return
		}
		seen[id] = true
		out = append(out, d.Nodes[i])
		for _, c := range children[id] {
			visit(c)
		}
	}
	if root, ok := d.Root(); ok {
		visit(root)
	}
	for _, n := range d.Nodes {
		if !seen[n.ID] {
			seen[n.ID] = true
			out = append(out, n)
		}
	}
	return out
}

func (m NodeListModel) Init() tea.Cmd {
	return nil
}

func (m NodeListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Nodes)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case " ":
			m.Expanded = !m.Expanded
		case "enter":
			if len(m.Nodes) == 0 {
				return m, tea.Quit
			}
			n := m.Nodes[m.Cursor]
			m.Selected = &n
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 12
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m NodeListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Diagram Nodes"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  space details  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Nodes))
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		n := m.Nodes[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor,
			strings.Repeat("  ", n.Depth) + firstLine(n.Label),
			fmt.Sprint(n.Depth),
			"■",
			fmt.Sprintf("%.0f, %.0f", n.Position.X, n.Position.Y),
			fmt.Sprintf("%.0f × %.0f", n.Width, n.Height),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Node", "Depth", "Branch", "Position", "Size").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return listHeaderStyle
			}
			i := m.Offset + row
			if i >= len(m.Nodes) {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle()
			if col == 3 {
				base = base.Foreground(lipgloss.Color(m.Nodes[i].BranchColor))
			} else if col > 1 {
				base = base.Foreground(colorDim)
			}
			if i == m.Cursor {
				return base.Bold(true)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	if m.Expanded && len(m.Nodes) > 0 {
		b.WriteString(detailStyle.Render(m.Nodes[m.Cursor].Label))
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Nodes))))

	return b.String()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " …"
	}
	return s
}
