package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/promiscuity/pkg/candidate"
	"github.com/matzehuels/promiscuity/pkg/conll"
	"github.com/matzehuels/promiscuity/pkg/tree"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// browseCommand creates the browse command.
func (c *CLI) browseCommand() *cobra.Command {
	var flags analysisFlags

	cmd := &cobra.Command{
		Use:   "browse <annotation.json>",
		Short: "Page through resolved trees interactively",
		Long: `Enumerate the resolved trees of an annotation and page through them in
the terminal. The selected tree is shown as CoNLL rows.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd, c.cfg.Analysis)
			if err != nil {
				return err
			}
			ann, err := readAnnotation(cmd, args[0])
			if err != nil {
				return err
			}
			res, err := c.analyze(cmd.Context(), ann, opts, flags.noCache)
			if err != nil {
				return err
			}
			if len(res.Trees) == 0 {
				return errors.New("no trees to browse")
			}
			if res.Truncated {
				printWarning("Showing the first %d trees (%s)", res.Count, res.Reason)
			}

			p := tea.NewProgram(NewTreeListModel(res.ID, res.Graph, res.Trees),
				tea.WithContext(cmd.Context()),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()))
			_, err = p.Run()
			return err
		},
	}

	flags.register(cmd)
	return cmd
}

// =============================================================================
// TreeListModel - Interactive tree browser
// =============================================================================

// TreeListModel is the bubbletea model for paging through trees.
type TreeListModel struct {
	ID     string
	Graph  *candidate.Graph
	Trees  []tree.Tree
	Cursor int
	Height int
	Offset int
}

// NewTreeListModel creates a new tree list model.
func NewTreeListModel(id string, g *candidate.Graph, trees []tree.Tree) TreeListModel {
	return TreeListModel{
		ID:     id,
		Graph:  g,
		Trees:  trees,
		Height: 10,
	}
}

func (m TreeListModel) Init() tea.Cmd {
	return nil
}

func (m TreeListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Trees)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		case "end", "G":
			m.Cursor = len(m.Trees) - 1
			m.Offset = max(0, m.Cursor-m.Height+1)
		}
	case tea.WindowSizeMsg:
		// The CoNLL table takes roughly half the screen.
		m.Height = msg.Height/2 - 4
		if m.Height < 3 {
			m.Height = 3
		}
		if m.Cursor >= m.Offset+m.Height {
			m.Offset = m.Cursor - m.Height + 1
		}
	}
	return m, nil
}

func (m TreeListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Trees for " + m.ID))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  g/G first/last  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Trees))
	for i := m.Offset; i < end; i++ {
		line := fmt.Sprintf("%4d  %s", i+1, m.Trees[i].Key())
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render("▸ " + line))
		} else {
			b.WriteString(listNormalStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if len(m.Trees) > 0 {
		b.WriteString(m.conllTable())
		b.WriteString("\n\n")
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Trees))))

	return b.String()
}

// conllTable renders the selected tree's CoNLL rows.
func (m TreeListModel) conllTable() string {
	rows, err := conll.Format(m.Graph, m.Trees[m.Cursor], conll.Options{})
	if err != nil {
		return StyleWarning.Render(err.Error())
	}
	data := make([][]string, len(rows))
	for i, r := range rows {
		data[i] = []string{strconv.Itoa(r.Index), r.Form, strconv.Itoa(r.Head)}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Form", "Head").
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 2 {
				return lipgloss.NewStyle().Foreground(colorCyan)
			}
			return lipgloss.NewStyle()
		})
	return t.Render()
}
