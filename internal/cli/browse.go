package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gridkit/pkg/collection"
	"github.com/matzehuels/gridkit/pkg/dnd"
	"github.com/matzehuels/gridkit/pkg/errors"
	"github.com/matzehuels/gridkit/pkg/fixture"
	"github.com/matzehuels/gridkit/pkg/grid"
	"github.com/matzehuels/gridkit/pkg/layout"
	"github.com/matzehuels/gridkit/pkg/pipeline"
	"github.com/matzehuels/gridkit/pkg/render/text"
	"github.com/matzehuels/gridkit/pkg/selection"
)

// Terminal geometry. One character is text.DefaultCharWidth layout pixels
// wide and one line is lineHeight layout units tall; table rows add a 1 unit
// border to their height.
const (
	lineHeight   = 2.0
	chromeLines  = 4
	resizeStepPx = text.DefaultCharWidth
)

// browseCommand creates the browse command for the interactive table view.
func (c *CLI) browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse [fixture.toml]",
		Short: "Browse a table fixture interactively",
		Long: `Browse a table fixture in the terminal.

Navigate cells with the arrow keys, select rows with space, expand and
collapse rows with enter, and reorder rows with a keyboard drag (d, then
arrows to pick a target and enter to drop).`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeFixture,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBrowse(cmd.Context(), args[0])
		},
	}
}

func (c *CLI) runBrowse(ctx context.Context, path string) error {
	f, err := fixture.Load(path)
	if err != nil {
		return err
	}
	if f.Kind() != fixture.KindTable {
		return errors.New(errors.ErrCodeUnsupported, "browse needs a table fixture")
	}

	// The TUI owns the terminal, so engine logs are discarded.
	m := newBrowseModel(ctx, f, log.New(io.Discard))
	if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("browse: %w", err)
	}
	return nil
}

// =============================================================================
// Key map
// =============================================================================

type browseKeyMap struct {
	Up, Down, Left, Right key.Binding
	Home, End             key.Binding
	PageUp, PageDown      key.Binding
	Select, Extend        key.Binding
	Toggle, SelectAll     key.Binding
	Checkboxes            key.Binding
	Drag                  key.Binding
	Narrow, Widen         key.Binding
	Quit                  key.Binding
}

func defaultBrowseKeys() browseKeyMap {
	return browseKeyMap{
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:       key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right:      key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		Home:       key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "first")),
		End:        key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "last")),
		PageUp:     key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "page up")),
		PageDown:   key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "page down")),
		Select:     key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "select")),
		Extend:     key.NewBinding(key.WithKeys("shift+down", "J"), key.WithHelp("J", "extend")),
		Toggle:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("⏎", "expand")),
		SelectAll:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "all")),
		Checkboxes: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "checkboxes")),
		Drag:       key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "drag")),
		Narrow:     key.NewBinding(key.WithKeys("<"), key.WithHelp("<", "narrow")),
		Widen:      key.NewBinding(key.WithKeys(">"), key.WithHelp(">", "widen")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k browseKeyMap) help() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Toggle, k.Drag, k.Checkboxes, k.SelectAll, k.Narrow, k.Widen, k.Quit}
}

// dragKeys maps terminal keys to drop target navigation during a drag.
var dragKeys = map[string]string{
	"up":     dnd.KeyArrowUp,
	"k":      dnd.KeyArrowUp,
	"down":   dnd.KeyArrowDown,
	"j":      dnd.KeyArrowDown,
	"home":   dnd.KeyHome,
	"g":      dnd.KeyHome,
	"end":    dnd.KeyEnd,
	"G":      dnd.KeyEnd,
	"pgup":   dnd.KeyPageUp,
	"pgdown": dnd.KeyPageDown,
	"enter":  dnd.KeyEnter,
	"esc":    dnd.KeyEscape,
}

// =============================================================================
// Messages
// =============================================================================

type (
	settleMsg       struct{ token uint64 }
	scrollEndMsg    struct{ token uint64 }
	checkboxDoneMsg struct{ token uint64 }
)

// =============================================================================
// Toolbar
// =============================================================================

// toolbar fits key hints into the terminal width and collapses the rest
// into an overflow marker. The fit is cached per instance and recomputed
// only when the width changes.
type toolbar struct {
	items   []string
	width   int
	visible int
}

func newToolbar(bindings []key.Binding) *toolbar {
	items := make([]string, len(bindings))
	for i, b := range bindings {
		h := b.Help()
		items[i] = h.Key + " " + h.Desc
	}
	return &toolbar{items: items, width: -1}
}

const (
	toolbarGap      = "  "
	toolbarOverflow = "…"
)

// fit returns how many items fit in width, reserving room for the overflow
// marker when not all of them do.
func (t *toolbar) fit(width int) int {
	if width == t.width {
		return t.visible
	}
	t.width = width

	total := 0
	for i, item := range t.items {
		if i > 0 {
			total += lipgloss.Width(toolbarGap)
		}
		total += lipgloss.Width(item)
	}
	if total <= width {
		t.visible = len(t.items)
		return t.visible
	}

	room := width - lipgloss.Width(toolbarGap+toolbarOverflow)
	used, n := 0, 0
	for i, item := range t.items {
		w := lipgloss.Width(item)
		if i > 0 {
			w += lipgloss.Width(toolbarGap)
		}
		if used+w > room {
			break
		}
		used += w
		n++
	}
	t.visible = n
	return n
}

func (t *toolbar) render(width int) string {
	n := t.fit(width)
	out := strings.Join(t.items[:n], toolbarGap)
	if n < len(t.items) {
		if n > 0 {
			out += toolbarGap
		}
		out += toolbarOverflow
	}
	return out
}

// =============================================================================
// Model
// =============================================================================

var (
	browseTitleStyle  = styleTitle
	browseStatusStyle = lipgloss.NewStyle().Foreground(colorTarget)
	browseHelpStyle   = lipgloss.NewStyle().Foreground(colorFaint)
	browseTableStyle  = lipgloss.NewStyle().Foreground(colorText)
)

// browseModel owns the tree grid state, its layout and the drop machine.
// Timers (settle, scroll end, checkbox transition) come back as tokened
// messages; stale tokens are ignored by the engine types.
type browseModel struct {
	ctx     context.Context
	fixture *fixture.Fixture
	state   *grid.TreeGridState
	layout  *layout.Layout
	opts    pipeline.Options
	keys    browseKeyMap
	logger  *log.Logger

	machine    *dnd.Machine
	session    *dnd.Session
	dropped    *dnd.DropEvent
	checkboxes *grid.CheckboxTransition
	scroll     layout.ScrollTracker
	toolbar    *toolbar

	width, height int
	status        string
	scrollToken   uint64
}

func newBrowseModel(ctx context.Context, f *fixture.Fixture, logger *log.Logger) *browseModel {
	if ctx == nil {
		ctx = context.Background()
	}
	m := &browseModel{
		ctx:     ctx,
		fixture: f,
		keys:    defaultBrowseKeys(),
		logger:  logger,
		width:   80,
		height:  24,
	}
	m.state = f.TreeGridState(grid.StateOptions{FocusMode: grid.FocusCell, Logger: logger})
	m.checkboxes = grid.NewCheckboxTransition(f.Checkboxes)
	m.toolbar = newToolbar(m.keys.help())
	h := pipeline.DropHandlers(func(_ context.Context, e dnd.DropEvent) {
		m.dropped = &e
	})
	m.machine = dnd.NewMachine(dnd.Options{
		DropOperation: h.DropOperation,
		OnDrop:        h.Drop,
		Logger:        logger,
	})

	m.opts = pipeline.Options{
		RowHeight:     lineHeight - 1,
		HeadingHeight: lineHeight - 1,
		Logger:        logger,
	}
	m.resize()
	m.layout = pipeline.NewLayout(f, m.state.Table(), m.opts)
	if first := m.delegate().FirstKey(); first != "" {
		m.state.SetFocusedKey(first, selection.FocusFirst)
	}
	m.relayout()
	return m
}

func (m *browseModel) Init() tea.Cmd { return nil }

// resize maps the terminal size to the layout viewport.
func (m *browseModel) resize() {
	m.opts.Width = float64(m.width) * text.DefaultCharWidth
	m.opts.Height = float64(max(m.height-chromeLines, 1)) * lineHeight
}

func (m *browseModel) delegate() *grid.KeyboardDelegate {
	d := m.state.Delegate()
	if m.layout != nil {
		d.Rects = m.layout
	}
	return d
}

func (m *browseModel) env() dnd.Env {
	return dnd.Env{Selection: m.state.Selection(), Delegate: m.delegate()}
}

// focusedRow returns the row of the focused key.
func (m *browseModel) focusedRow() collection.Key {
	k := m.state.FocusedKey()
	if n := m.state.Table().Item(k); n != nil && n.Type == collection.TypeCell {
		return n.ParentKey
	}
	return k
}

// focusedColumn returns the column of the focused cell.
func (m *browseModel) focusedColumn() (collection.Key, bool) {
	t := m.state.Table()
	n := t.Item(m.state.FocusedKey())
	if n == nil || n.Type != collection.TypeCell {
		return "", false
	}
	cols := t.Columns()
	if n.ColIndex >= len(cols) {
		return "", false
	}
	return cols[n.ColIndex].Key, true
}

// relayout syncs the layout with the current collection, keeps the focused
// row laid out and scrolls it into view. It returns the scroll-end timer
// when the viewport moved.
func (m *browseModel) relayout() tea.Cmd {
	m.layout.SetCollection(m.state.Table())
	m.layout.SetPersistedKeys(m.focusedRow())
	m.layout.SetVisibleRect(m.opts.VisibleRect())
	m.layout.Validate(layout.InvalidationContext{})

	y, h, ok := m.layout.ItemRect(m.focusedRow())
	if !ok {
		return nil
	}
	header := 0.0
	if ts, isTable := m.layout.Strategy().(*layout.TableStrategy); isTable {
		header = ts.HeaderHeight(m.layout)
	}
	scrollY := m.opts.ScrollY
	switch {
	case y-header < scrollY:
		scrollY = max(y-header, 0)
	case y+h > scrollY+m.opts.Height:
		scrollY = y + h - m.opts.Height
	}
	if scrollY == m.opts.ScrollY {
		return nil
	}
	m.opts.ScrollY = scrollY
	m.layout.SetVisibleRect(m.opts.VisibleRect())
	m.layout.Validate(layout.InvalidationContext{})

	token, delay := m.scroll.Scroll()
	m.scrollToken = token
	return tea.Tick(delay, func(time.Time) tea.Msg { return scrollEndMsg{token} })
}

func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, m.relayout()

	case settleMsg:
		if m.machine.Settle(m.env(), msg.token) {
			m.logger.Debug("drop settled", "focused", m.state.FocusedKey())
		}
		return m, m.relayout()

	case scrollEndMsg:
		m.scroll.End(msg.token)
		return m, nil

	case checkboxDoneMsg:
		if m.checkboxes.End(msg.token) {
			m.state.SetShowSelectionCheckboxes(m.checkboxes.InCollection())
		}
		return m, m.relayout()

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		if m.session != nil {
			return m, m.dragKey(msg)
		}
		return m, m.navigate(msg)
	}
	return m, nil
}

// navigate handles keys outside a drag.
func (m *browseModel) navigate(msg tea.KeyMsg) tea.Cmd {
	d := m.delegate()
	focus := m.state.FocusedKey()
	sel := m.state.Selection()
	m.status = ""

	var next collection.Key
	switch {
	case key.Matches(msg, m.keys.Up):
		next = d.KeyAbove(focus)
	case key.Matches(msg, m.keys.Down):
		next = d.KeyBelow(focus)
	case key.Matches(msg, m.keys.Left):
		next = d.KeyLeftOf(focus)
	case key.Matches(msg, m.keys.Right):
		next = d.KeyRightOf(focus)
	case key.Matches(msg, m.keys.Home):
		next = d.FirstKey()
	case key.Matches(msg, m.keys.End):
		next = d.LastKey()
	case key.Matches(msg, m.keys.PageUp):
		next = d.KeyPageAbove(focus)
	case key.Matches(msg, m.keys.PageDown):
		next = d.KeyPageBelow(focus)
	case key.Matches(msg, m.keys.Extend):
		if below := d.KeyBelow(focus); below != "" {
			m.state.SetFocusedKey(below, selection.FocusFirst)
			sel.ExtendSelection(m.focusedRow())
		}
	case key.Matches(msg, m.keys.Select):
		sel.Select(m.focusedRow(), selection.PointerKeyboard)
	case key.Matches(msg, m.keys.SelectAll):
		sel.ToggleSelectAll()
	case key.Matches(msg, m.keys.Toggle):
		if n := m.state.Table().Item(m.focusedRow()); n != nil && n.HasChildNodes {
			m.state.ToggleKey(n.Key)
		}
	case key.Matches(msg, m.keys.Checkboxes):
		return m.toggleCheckboxes()
	case key.Matches(msg, m.keys.Drag):
		m.startDrag()
	case key.Matches(msg, m.keys.Narrow):
		m.resizeColumn(-resizeStepPx)
	case key.Matches(msg, m.keys.Widen):
		m.resizeColumn(resizeStepPx)
	}
	if next != "" {
		m.state.SetFocusedKey(next, selection.FocusFirst)
	}
	return m.relayout()
}

func (m *browseModel) toggleCheckboxes() tea.Cmd {
	show := !m.checkboxes.Shown()
	token, delay, ok := m.checkboxes.Toggle(show)
	if !ok {
		return nil
	}
	if show {
		m.state.SetShowSelectionCheckboxes(true)
	}
	return tea.Batch(m.relayout(), tea.Tick(delay, func(time.Time) tea.Msg {
		return checkboxDoneMsg{token}
	}))
}

// resizeColumn widens or narrows the focused column.
func (m *browseModel) resizeColumn(delta float64) {
	col, ok := m.focusedColumn()
	ts, isTable := m.layout.Strategy().(*layout.TableStrategy)
	if !ok || !isTable {
		m.status = "focus a cell to resize its column"
		return
	}
	if !ts.StartResize(col) {
		m.status = fmt.Sprintf("column %s is not resizable", col)
		return
	}
	current := ts.ColumnWidths()[col]
	ts.UpdateResize(m.layout, current+delta)
	ts.EndResize()
	// Declared fixture widths are controlled; keep the resized widths in
	// force until the terminal width changes.
	m.layout.Validate(layout.InvalidationContext{ColumnWidths: ts.ColumnWidths()})
	m.status = fmt.Sprintf("%s: %s", col, formatPx(ts.ColumnWidths()[col]))
}

// =============================================================================
// Drag and drop
// =============================================================================

// startDrag begins a keyboard drag of the selected rows, or of the focused
// row when it is not selected.
func (m *browseModel) startDrag() {
	sel := m.state.Selection()
	row := m.focusedRow()
	keys := []collection.Key{row}
	if sel.IsSelected(row) {
		keys = keys[:0]
		for _, k := range m.state.Table().Keys() {
			if n := m.state.Table().Item(k); n != nil && n.Type.IsRow() && sel.IsSelected(k) {
				keys = append(keys, k)
			}
		}
	}
	if row == "" || len(keys) == 0 {
		return
	}
	// Drop targets are rows, so the drag starts from the focused row.
	sel.SetFocusedKey(row, selection.FocusFirst)
	m.session = dnd.NewSession(m.machine.ID(), keys, nil, dnd.OpMove)
	m.dropped = nil
	m.machine.DropEnter(m.env(), m.session)
	m.status = m.dragStatus()
}

// dragKey routes a key to the drop machine and applies a committed drop.
func (m *browseModel) dragKey(msg tea.KeyMsg) tea.Cmd {
	name, ok := dragKeys[msg.String()]
	if !ok {
		return nil
	}
	req, dropped := m.machine.KeyDown(m.ctx, m.env(), m.session, name)
	if m.machine.State() == dnd.StateIdle && !dropped {
		m.session = nil
		m.status = "drag cancelled"
		return nil
	}
	if !dropped {
		m.status = m.dragStatus()
		return nil
	}

	m.session = nil
	if m.dropped == nil {
		return nil
	}
	e := *m.dropped
	m.dropped = nil
	moved, err := m.fixture.Move(e.Keys, e.Target)
	if err != nil {
		m.status = errors.UserMessage(err)
		m.machine.Settle(m.env(), req.Token)
		return nil
	}
	m.fixture = moved
	m.state.SetRows(moved.RowSpecs())
	m.machine.CollectionChanged(m.env())
	m.status = fmt.Sprintf("moved %d row(s) %s", len(e.Keys), e.Target)
	return tea.Batch(m.relayout(), tea.Tick(req.Delay, func(time.Time) tea.Msg {
		return settleMsg{req.Token}
	}))
}

func (m *browseModel) dragStatus() string {
	t := m.machine.Target()
	if t.IsZero() {
		return "dragging: no valid target"
	}
	return fmt.Sprintf("drop %s", t)
}

// =============================================================================
// View
// =============================================================================

func (m *browseModel) View() string {
	var b strings.Builder

	title := m.fixture.Title
	if title == "" {
		title = "gridkit"
	}
	b.WriteString(browseTitleStyle.Render(title))
	b.WriteString("\n")

	body := text.Render(m.state.Table(), m.layout.Snapshot(), text.Options{
		Selected: m.state.Selection().IsSelected,
		Focused:  m.focusedRow(),
	})
	b.WriteString(browseTableStyle.Render(strings.TrimRight(body, "\n")))
	b.WriteString("\n")

	status := m.status
	if m.checkboxes.IsTransitioning() {
		status = strings.TrimSpace(status + " (checkboxes animating)")
	}
	b.WriteString(browseStatusStyle.Render(status))
	b.WriteString("\n")
	b.WriteString(browseHelpStyle.Render(m.toolbar.render(m.width)))
	return b.String()
}
