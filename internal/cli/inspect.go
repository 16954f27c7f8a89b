package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/graphvis/pkg/adjlist"
	"github.com/matzehuels/graphvis/pkg/graph"
	"github.com/matzehuels/graphvis/pkg/pipeline"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
	tabActive    = lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Underline(true)
	tabInactive  = lipgloss.NewStyle().Foreground(colorGray)
	headerStyle  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "inspect [file|-]",
		Short: "Browse nodes, one-way relations and components",
		Long: `Browse a parsed adjacency list in the terminal: every node with its degree and
neighbors, the one-way relations that were dropped, and the connected
components of the resulting graph. Use --plain to print the tables instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), args[0], plain)
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print tables without the interactive view")

	return cmd
}

func (c *CLI) runInspect(ctx context.Context, stdin io.Reader, stdout io.Writer, input string, plain bool) error {
	text, err := readInput(stdin, input)
	if err != nil {
		return err
	}
	res, err := pipeline.Build(ctx, text, pipeline.Options{Seed: pipeline.DefaultSeed})
	if err != nil {
		return err
	}

	m := newInspectModel(res)
	if plain {
		for i := range m.Tabs {
			fmt.Fprintln(stdout, StyleTitle.Render(m.Tabs[i].Title))
			fmt.Fprintln(stdout, m.Tabs[i].table(-1, 0, len(m.Tabs[i].Rows)).Render())
		}
		return nil
	}

	// Stdin held the adjacency list, so keys come from the terminal.
	var opts []tea.ProgramOption
	if input == stdinName {
		opts = append(opts, tea.WithInputTTY())
	}
	opts = append(opts, tea.WithContext(ctx), tea.WithOutput(stdout), tea.WithAltScreen())
	_, err = tea.NewProgram(m, opts...).Run()
	return err
}

// =============================================================================
// InspectModel - Interactive graph browser
// =============================================================================

// inspectTab is one table of the inspect view.
type inspectTab struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// table renders rows [offset, end) with the cursor row highlighted. A
// negative cursor highlights nothing.
func (t inspectTab) table(cursor, offset, end int) *table.Table {
	end = min(end, len(t.Rows))
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(t.Headers...).
		Rows(t.Rows[offset:end]...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if offset+row == cursor {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorWhite)
			}
			return lipgloss.NewStyle().Foreground(colorGray)
		})
}

// InspectModel is the bubbletea model for browsing a parsed graph.
type InspectModel struct {
	Tabs   []inspectTab
	Active int
	Cursor int
	Offset int
	Height int
}

// newInspectModel builds the node, one-way and component tables.
func newInspectModel(res *adjlist.Result) InspectModel {
	g := res.Graph

	nodes := inspectTab{Title: "Nodes", Headers: []string{"Node", "Degree", "Neighbors"}}
	for _, id := range g.NodeIDs() {
		nb := g.Neighbors(id)
		nodes.Rows = append(nodes.Rows, []string{id, strconv.Itoa(len(nb)), joinOrDash(nb)})
	}

	oneWay := inspectTab{Title: "One-way", Headers: []string{"Source", "Target", "Missing"}}
	for _, r := range res.Dropped {
		oneWay.Rows = append(oneWay.Rows, []string{r.Source, r.Target, r.Mirror().String()})
	}

	comps := inspectTab{Title: "Components", Headers: []string{"#", "Size", "Nodes"}}
	for i, cc := range graph.Components(g) {
		comps.Rows = append(comps.Rows, []string{strconv.Itoa(i + 1), strconv.Itoa(len(cc)), strings.Join(cc, ", ")})
	}

	return InspectModel{
		Tabs:   []inspectTab{nodes, oneWay, comps},
		Height: 15,
	}
}

func joinOrDash(ids []string) string {
	if len(ids) == 0 {
		return "-"
	}
	return strings.Join(ids, ", ")
}

func (m InspectModel) Init() tea.Cmd {
	return nil
}

func (m InspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		rows := len(m.Tabs[m.Active].Rows)
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "right", "l":
			m.Active = (m.Active + 1) % len(m.Tabs)
			m.Cursor, m.Offset = 0, 0
		case "shift+tab", "left", "h":
			m.Active = (m.Active + len(m.Tabs) - 1) % len(m.Tabs)
			m.Cursor, m.Offset = 0, 0
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < rows-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m InspectModel) View() string {
	var b strings.Builder

	titles := make([]string, len(m.Tabs))
	for i, t := range m.Tabs {
		label := fmt.Sprintf("%s (%d)", t.Title, len(t.Rows))
		if i == m.Active {
			titles[i] = tabActive.Render(label)
		} else {
			titles[i] = tabInactive.Render(label)
		}
	}
	b.WriteString(strings.Join(titles, "  "))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("←/→ switch  ↑/↓ navigate  q quit"))
	b.WriteString("\n\n")

	tab := m.Tabs[m.Active]
	if len(tab.Rows) == 0 {
		b.WriteString(listDimStyle.Render("  nothing to show"))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(tab.table(m.Cursor, m.Offset, m.Offset+m.Height).Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(tab.Rows))))

	return b.String()
}
