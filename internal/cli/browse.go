package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/categorycloud/pkg/cloud"
	"github.com/matzehuels/categorycloud/pkg/errors"
	"github.com/matzehuels/categorycloud/pkg/membership"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
	listErrStyle = lipgloss.NewStyle().Foreground(colorRed)
)

const barWidth = 20

func (c *CLI) browseCommand() *cobra.Command {
	var order string

	cmd := &cobra.Command{
		Use:   "browse <category>",
		Short: "Navigate a category tree interactively",
		Long: `Browse the subcategories of a category in the terminal.

Enter descends into the selected subcategory, backspace goes back up and o
switches between name and count order.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			opts := c.config.cloudOptions()
			if cmd.Flags().Changed("order") {
				opts.Order = membership.ParseOrder(order)
			}
			m := newBrowseModel(ctx, store, opts, cloud.TitleKey(args[0]))
			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			return err
		},
	}

	cmd.Flags().StringVar(&order, "order", "", "initial order: name (default) or count")

	return cmd
}

// =============================================================================
// browseModel - Interactive category navigation
// =============================================================================

// cloudLoadedMsg carries the result of building the cloud for category.
type cloudLoadedMsg struct {
	category string
	cloud    *cloud.Cloud
	err      error
}

// browseModel is the bubbletea model for the browse command. path is the
// breadcrumb from the starting category to the one on screen.
type browseModel struct {
	ctx   context.Context
	store membership.Store
	opts  cloud.Options

	path    []string
	cloud   *cloud.Cloud
	err     error
	loading bool

	cursor int
	offset int
	height int
}

func newBrowseModel(ctx context.Context, store membership.Store, opts cloud.Options, category string) browseModel {
	return browseModel{
		ctx:     ctx,
		store:   store,
		opts:    opts,
		path:    []string{category},
		loading: true,
		height:  15,
	}
}

func (m browseModel) current() string { return m.path[len(m.path)-1] }

func (m browseModel) load(category string) tea.Cmd {
	opts := m.opts
	opts.Category = category
	ctx, store := m.ctx, m.store
	return func() tea.Msg {
		c, err := cloud.Build(ctx, store, opts)
		return cloudLoadedMsg{category: category, cloud: c, err: err}
	}
}

func (m browseModel) Init() tea.Cmd {
	return m.load(m.current())
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case cloudLoadedMsg:
		if msg.category != m.current() {
			return m, nil
		}
		m.cloud, m.err, m.loading = msg.cloud, msg.err, false
		m.cursor, m.offset = 0, 0
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cloud != nil && m.cursor < len(m.cloud.Items)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case "enter", "right", "l":
			if m.loading || m.cloud == nil || m.err != nil || len(m.cloud.Items) == 0 {
				return m, nil
			}
			next := m.cloud.Items[m.cursor].Name
			m.path = append(m.path[:len(m.path):len(m.path)], next)
			m.loading = true
			return m, m.load(next)
		case "backspace", "left", "h":
			if len(m.path) == 1 {
				return m, nil
			}
			m.path = m.path[:len(m.path)-1]
			m.loading = true
			return m, m.load(m.current())
		case "o":
			if m.opts.Order == membership.OrderByCount {
				m.opts.Order = membership.OrderByName
			} else {
				m.opts.Order = membership.OrderByCount
			}
			m.loading = true
			return m, m.load(m.current())
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 8
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

func (m browseModel) View() string {
	var b strings.Builder

	crumbs := make([]string, len(m.path))
	for i, p := range m.path {
		crumbs[i] = strings.ReplaceAll(p, "_", " ")
	}
	b.WriteString(StyleTitle.Render(strings.Join(crumbs, " "+iconInfo+" ")))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("↑/↓ navigate  ⏎ open  ⌫ back  o order (%s)  q quit", m.opts.Order)))
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(listDimStyle.Render("  loading..."))
		return b.String()
	case errors.Is(m.err, errors.ErrCodeEmptyCategory):
		b.WriteString(listDimStyle.Render("  no subcategories"))
		return b.String()
	case m.err != nil:
		b.WriteString(listErrStyle.Render("  " + errors.UserMessage(m.err)))
		return b.String()
	}

	items := m.cloud.Items
	end := m.offset + m.height
	if end > len(items) {
		end = len(items)
	}

	rows := [][]string{}
	for i := m.offset; i < end; i++ {
		it := items[i]
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, it.Label(), fmt.Sprintf("%d", it.Count), it.SizeString() + "%", bar(it.Count, m.cloud.Stats.Max)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Subcategory", "Pages", "Size", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.offset+row == m.cursor {
				return lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
			}
			if col == 4 {
				return listDimStyle
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]  %d pages", m.cursor+1, len(items), m.cloud.Stats.Total)))

	return b.String()
}

// bar draws count as a horizontal bar scaled against top.
func bar(count, top int) string {
	if top <= 0 {
		return ""
	}
	n := count * barWidth / top
	if n < 1 && count > 0 {
		n = 1
	}
	return strings.Repeat("▇", n)
}
