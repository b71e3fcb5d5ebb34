// Package tui provides the interactive terminal browser for ranked lists.
package tui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/lepinkainen/bestlastyear/internal/browse"
	"github.com/lepinkainen/bestlastyear/internal/catalog"
	"github.com/lepinkainen/bestlastyear/internal/deeplink"
)

const (
	defaultListWidth  = 80
	defaultListHeight = 24
)

var runProgram = func(m tea.Model) (tea.Model, error) {
	return tea.NewProgram(m, tea.WithAltScreen()).Run()
}

// Options configures the browser.
type Options struct {
	ContentType catalog.ContentType
	Fetch       browse.FetchFunc
	Opener      deeplink.Opener
}

// resultMsg delivers a finished fetch back to the update loop.
type resultMsg browse.Result

// openedMsg reports the outcome of handing a link to the desktop.
type openedMsg struct {
	link string
	err  error
}

type rankedItem struct {
	catalog.Item
	rank int
}

func (i rankedItem) FilterValue() string { return i.Title }

type itemStyles struct {
	normal      lipgloss.Style
	selected    lipgloss.Style
	rankStyle   lipgloss.Style
	titleStyle  lipgloss.Style
	ratingStyle lipgloss.Style
	metaStyle   lipgloss.Style
	linkStyle   lipgloss.Style
}

func newItemStyles() itemStyles {
	asciiBorder := lipgloss.Border{
		Top:         "-",
		Bottom:      "-",
		Left:        "|",
		Right:       "|",
		TopLeft:     "+",
		TopRight:    "+",
		BottomLeft:  "+",
		BottomRight: "+",
	}

	container := lipgloss.NewStyle().
		Border(asciiBorder).
		BorderForeground(lipgloss.Color("62")).
		Padding(0, 1).
		Foreground(lipgloss.Color("252"))

	selected := container.Copy().
		BorderForeground(lipgloss.Color("214")).
		Foreground(lipgloss.Color("230")).
		Background(lipgloss.Color("237"))

	return itemStyles{
		normal:   container,
		selected: selected,
		rankStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("110")),
		titleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("254")),
		ratingStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("178")),
		metaStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("247")),
		linkStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("99")).
			Bold(true),
	}
}

type cardDelegate struct {
	styles itemStyles
}

func newDelegate() cardDelegate {
	return cardDelegate{styles: newItemStyles()}
}

func (d cardDelegate) Height() int                         { return 6 }
func (d cardDelegate) Spacing() int                        { return 0 }
func (d cardDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }

func (d cardDelegate) Render(w io.Writer, m list.Model, idx int, item list.Item) {
	card, ok := item.(rankedItem)
	if !ok {
		return
	}
	width := m.Width() - 4

	title := d.styles.rankStyle.Render(fmt.Sprintf("#%d", card.rank)) + " " +
		d.styles.titleStyle.Render(truncate(card.Title, width-8))
	if card.StremioURL != "" {
		title += " " + d.styles.linkStyle.Render("[w] Stremio")
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		title,
		d.styles.metaStyle.Render("Released: "+card.ReleaseDate),
		d.styles.ratingStyle.Render(formatRating(card.Rating, card.Votes)),
		d.styles.metaStyle.Render(truncate("Genres: "+card.GenreList(), width)),
	)

	container := d.styles.normal
	if idx == m.Index() {
		container = d.styles.selected
	}
	_, _ = fmt.Fprint(w, container.Render(content))
}

type model struct {
	ctx         context.Context
	session     *browse.Session
	fetch       browse.FetchFunc
	opener      deeplink.Opener
	list        list.Model
	spinner     spinner.Model
	genreCursor int
	status      string
}

func newModel(ctx context.Context, opts Options) *model {
	l := list.New(nil, newDelegate(), defaultListWidth, defaultListHeight)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.SetShowTitle(false)
	l.DisableQuitKeybindings()
	l.Styles.NoItems = lipgloss.NewStyle()

	opener := opts.Opener
	if opener == nil {
		opener = deeplink.SystemOpener{}
	}

	return &model{
		ctx:     ctx,
		session: browse.NewSession(opts.ContentType),
		fetch:   opts.Fetch,
		opener:  opener,
		list:    l,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(spinnerStyle)),
	}
}

func (m *model) Init() tea.Cmd {
	return m.request(m.session.Start())
}

// request runs req in the background. The result comes back as a resultMsg
// tagged with the request's generation.
func (m *model) request(req browse.Request) tea.Cmd {
	ctx, fetch := m.ctx, m.fetch
	run := func() tea.Msg {
		return resultMsg(req.Run(ctx, fetch))
	}
	return tea.Batch(run, m.spinner.Tick)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case resultMsg:
		if m.session.Commit(browse.Result(msg)) {
			if msg.Err != nil {
				slog.Warn("Fetch failed", "generation", msg.Generation, "error", msg.Err)
			}
			m.syncList()
		}
		return m, nil
	case openedMsg:
		m.status = ""
		if msg.err != nil {
			m.status = fmt.Sprintf("Could not open %s: %v", msg.link, msg.err)
		}
		return m, nil
	case spinner.TickMsg:
		if !m.session.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		width := clamp(defaultListWidth, msg.Width-2, 40)
		height := max(msg.Height-10, 6)
		m.list.SetSize(width, height)
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "tab":
		return m, m.setContentType(m.session.Selection().ContentType().Other())
	case "m":
		return m, m.setContentType(catalog.Movie)
	case "a":
		return m, m.setContentType(catalog.Anime)
	case "left", "h":
		m.moveGenreCursor(-1)
		return m, nil
	case "right", "l":
		m.moveGenreCursor(1)
		return m, nil
	case " ":
		badges := m.badges()
		if len(badges) == 0 {
			return m, nil
		}
		return m, m.request(m.session.SelectGenre(badges[m.genreCursor].Name))
	case "enter":
		if item, ok := m.selectedItem(); ok {
			link := deeplink.SearchURL(item.Title, m.session.Selection().ContentType())
			return m, m.open(link, m.opener.OpenNew)
		}
		return m, nil
	case "w":
		// Only the Stremio link; the item's search action must not fire too.
		if item, ok := m.selectedItem(); ok && item.StremioURL != "" {
			return m, m.open(item.StremioURL, m.opener.Navigate)
		}
		return m, nil
	case "up", "down", "k", "j", "pgup", "pgdown", "home", "end", "g", "G":
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *model) setContentType(ct catalog.ContentType) tea.Cmd {
	req, changed, err := m.session.SetContentType(ct)
	if err != nil || !changed {
		return nil
	}
	m.genreCursor = 0
	m.syncList()
	return m.request(req)
}

func (m *model) open(link string, open func(string) error) tea.Cmd {
	return func() tea.Msg {
		return openedMsg{link: link, err: open(link)}
	}
}

func (m *model) selectedItem() (catalog.Item, bool) {
	if m.session.Loading() || m.session.Err() != nil {
		return catalog.Item{}, false
	}
	selected, ok := m.list.SelectedItem().(rankedItem)
	if !ok {
		return catalog.Item{}, false
	}
	return selected.Item, true
}

// syncList mirrors the session's committed items into the list widget.
func (m *model) syncList() {
	items := m.session.Items()
	listItems := make([]list.Item, len(items))
	for i, item := range items {
		listItems[i] = rankedItem{Item: item, rank: i + 1}
	}
	m.list.SetItems(listItems)
	m.list.ResetSelected()
	m.moveGenreCursor(0)
}

// badges returns the facets of the current list followed by any selected
// genre the list no longer carries, so every selection can be undone.
func (m *model) badges() []catalog.GenreFacet {
	facets := m.session.Facets()
	badges := make([]catalog.GenreFacet, 0, len(facets))
	badges = append(badges, facets...)
	for _, name := range m.session.Selection().Genres() {
		found := false
		for _, f := range facets {
			if f.Name == name {
				found = true
				break
			}
		}
		if !found {
			badges = append(badges, catalog.GenreFacet{Name: name})
		}
	}
	return badges
}

func (m *model) moveGenreCursor(delta int) {
	n := len(m.badges())
	if n == 0 {
		m.genreCursor = 0
		return
	}
	m.genreCursor = (m.genreCursor + delta + n) % n
}

func (m *model) View() string {
	ct := m.session.Selection().ContentType()
	sections := []string{
		headerStyle.Render(fmt.Sprintf("Best %s of the Last Year", ct.Label())),
		m.toggleView(ct),
	}
	if genres := m.genresView(); genres != "" {
		sections = append(sections, genres)
	}

	switch {
	case m.session.Loading():
		sections = append(sections, bodyStyle.Render(m.spinner.View()+" Loading..."))
	case m.session.Err() != nil:
		// transport and status details go to the log only
		sections = append(sections, errorStyle.Render("Error: "+browse.ErrNetwork.Error()))
	case len(m.session.Items()) == 0:
		sections = append(sections, bodyStyle.Render(fmt.Sprintf("No %s found.", strings.ToLower(ct.Label()))))
	default:
		sections = append(sections, m.list.View())
	}

	if m.status != "" {
		sections = append(sections, errorStyle.Render(m.status))
	}
	sections = append(sections,
		footerStyle.Render("Data provided by "+ct.Source()),
		helpStyle.Render("tab/m/a type | left/right genre | space toggle | up/down move | enter search | w stremio | q quit"),
	)
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *model) toggleView(current catalog.ContentType) string {
	buttons := make([]string, 0, len(catalog.ContentTypes))
	for _, ct := range catalog.ContentTypes {
		style := toggleStyle
		if ct == current {
			style = activeToggleStyle
		}
		buttons = append(buttons, style.Render(ct.Label()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Left, buttons...)
}

func (m *model) genresView() string {
	badges := m.badges()
	if len(badges) == 0 {
		return ""
	}
	selection := m.session.Selection()
	rendered := make([]string, len(badges))
	for i, b := range badges {
		style := badgeStyle
		if selection.IsSelected(b.Name) {
			style = selectedBadgeStyle
		}
		if i == m.genreCursor {
			style = style.Copy().Underline(true)
		}
		rendered[i] = style.Render(fmt.Sprintf("%s (%d)", b.Name, b.Count))
	}
	return genreBarStyle.Width(m.list.Width()).Render(strings.Join(rendered, " "))
}

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")).
			MarginBottom(1)

	toggleStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("238"))

	activeToggleStyle = toggleStyle.Copy().
				Bold(true).
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("178"))

	genreBarStyle = lipgloss.NewStyle().
			MarginTop(1)

	badgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("248"))

	selectedBadgeStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("230")).
				Background(lipgloss.Color("62"))

	spinnerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	bodyStyle = lipgloss.NewStyle().
			MarginTop(1)

	errorStyle = lipgloss.NewStyle().
			MarginTop(1).
			Bold(true).
			Foreground(lipgloss.Color("161"))

	footerStyle = lipgloss.NewStyle().
			MarginTop(1).
			Foreground(lipgloss.Color("247")).
			Faint(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))
)

// Run starts the interactive browser and blocks until the user quits.
func Run(ctx context.Context, opts Options) error {
	if opts.Fetch == nil {
		return fmt.Errorf("tui: no fetch function configured")
	}
	if !opts.ContentType.Valid() {
		return fmt.Errorf("tui: %w: %s", catalog.ErrUnknownContentType, opts.ContentType)
	}

	if _, err := runProgram(newModel(ctx, opts)); err != nil {
		return fmt.Errorf("run browser: %w", err)
	}
	return nil
}

var votePrinter = message.NewPrinter(language.English)

// formatRating renders "Rating: 8.4/10 (12,345 votes)".
func formatRating(rating float64, votes int) string {
	return votePrinter.Sprintf("Rating: %.1f/10 (%d votes)", rating, votes)
}

func truncate(value string, width int) string {
	value = strings.Join(strings.Fields(value), " ")
	runes := []rune(value)
	if width <= 0 || len(runes) <= width {
		return value
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}

func clamp(defaultValue, available, minimum int) int {
	width := defaultValue
	if available > 0 && available < defaultValue {
		width = available
	}
	if width < minimum {
		width = minimum
	}
	return width
}
