package cli

import (
	"context"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/waterfall/pkg/host"
	"github.com/matzehuels/waterfall/pkg/scene"
	"github.com/matzehuels/waterfall/pkg/scene/term"
)

// watchInterval is how often preview --watch polls the data file.
const watchInterval = time.Second

// previewCommand draws a chart in the terminal and redraws it when the
// window is resized or the data file changes.
func (c *CLI) previewCommand() *cobra.Command {
	var (
		chart chartFlags
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "preview [file]",
		Short: "Draw a chart in the terminal",
		Long: `Draw a chart in the terminal. The chart follows the window width
(capped by --width) and is redrawn on resize. Press r to reload the file,
q to quit.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeDataFiles(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			m := newPreviewModel(args[0], func() (host.Props, error) {
				return loadProps(ctx, &chart, args[0])
			}, loggerFromContext(ctx))
			m.watch = watch

			final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			if uerr := m.binding.OnUnmount(); uerr != nil && err == nil {
				err = uerr
			}
			if pm, ok := final.(previewModel); ok && pm.err != nil && err == nil {
				err = pm.err
			}
			return err
		},
	}

	chart.register(cmd)
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "reload when the file changes")
	return cmd
}

func loadProps(ctx context.Context, chart *chartFlags, path string) (host.Props, error) {
	doc, err := chart.load(ctx, path)
	if err != nil {
		return host.Props{}, err
	}
	return host.Props{Data: doc.Data, Options: doc.Options}, nil
}

// =============================================================================
// previewModel - terminal chart host
// =============================================================================

type (
	reloadMsg struct{}
	tickMsg   time.Time
)

// previewModel is the bubbletea model hosting one chart binding.
type previewModel struct {
	path    string
	load    func() (host.Props, error)
	binding *host.Binding
	props   host.Props
	loaded  bool

	cols, rows int
	redraws    int
	modTime    time.Time
	watch      bool
	err        error
}

func newPreviewModel(path string, load func() (host.Props, error), logger *log.Logger) previewModel {
	factory := func(string) scene.Scene { return term.New() }
	return previewModel{
		path:    path,
		load:    load,
		binding: host.NewBinding(scene.NewRegistry(), factory, host.WithLogger(logger)),
	}
}

func (m previewModel) Init() tea.Cmd {
	cmds := []tea.Cmd{func() tea.Msg { return reloadMsg{} }}
	if m.watch {
		cmds = append(cmds, tick())
	}
	return tea.Batch(cmds...)
}

func tick() tea.Cmd {
	return tea.Tick(watchInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			return m.reload(), nil
		}
	case tea.WindowSizeMsg:
		m.cols, m.rows = msg.Width, msg.Height
		return m.sync(), nil
	case reloadMsg:
		return m.reload(), nil
	case tickMsg:
		if info, err := os.Stat(m.path); err == nil && info.ModTime().After(m.modTime) {
			m = m.reload()
		}
		return m, tick()
	}
	return m, nil
}

// reload reads the file again and hands the new props to the chart.
func (m previewModel) reload() previewModel {
	if info, err := os.Stat(m.path); err == nil {
		m.modTime = info.ModTime()
	}
	props, err := m.load()
	if err != nil {
		m.err = err
		return m
	}
	m.props, m.loaded, m.err = props, true, nil
	return m.sync()
}

// sync mounts the chart on first use and pushes the current props and
// window width afterwards.
func (m previewModel) sync() previewModel {
	if !m.loaded || m.cols <= 0 {
		return m
	}
	parent := float64(m.cols) * term.CellWidth
	if m.binding.Chart() == nil {
		if err := m.binding.OnMount(m.props, parent); err != nil {
			m.err = err
			return m
		}
		m.redraws++
		return m
	}
	changed, err := m.binding.OnPropsChanged(m.props, parent)
	if err != nil {
		m.err = err
		return m
	}
	if changed {
		m.redraws++
	}
	return m
}

func (m previewModel) View() string {
	var b strings.Builder

	if s, ok := m.binding.Scene().(*term.Surface); ok {
		b.WriteString(s.Render(m.chartSize(s)))
		b.WriteString("\n")
	} else if m.err == nil {
		b.WriteString(StyleDim.Render("loading " + m.path))
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString(styleIconError.Render(iconError) + " " + m.err.Error())
		b.WriteString("\n")
	}
	status := fmt.Sprintf("%s · %.0fpx · %d %s · r reload  q quit",
		m.path, m.binding.Width(), m.redraws, plural(m.redraws, "draw"))
	b.WriteString(StyleDim.Render(status))
	return b.String()
}

// chartSize fits the surface into the window, leaving two lines for the
// status bar and keeping the cell aspect.
func (m previewModel) chartSize(s *term.Surface) (cols, rows int) {
	w, h := s.Size()
	cols = min(m.cols, int(math.Ceil(w/term.CellWidth)))
	rows = int(math.Ceil(h / term.CellHeight))
	if avail := m.rows - 2; avail > 0 && rows > avail {
		rows = avail
	}
	return cols, rows
}
