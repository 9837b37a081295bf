// Package dashui provides the Bubble Tea combat log dashboard.
package dashui

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/fightlog/internal/chart"
	"github.com/verte-zerg/fightlog/internal/dashboard"
	"github.com/verte-zerg/fightlog/internal/model"
	"github.com/verte-zerg/fightlog/internal/stats"
)

const (
	tabCharts = iota
	tabFights
	tabOverview
)

const (
	inputFile = iota
	inputWindow
	inputMinDuration
)

const sparkWidth = 24

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	modalStyle      = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A")).
			Padding(1, 2)
)

// decodedMsg carries the text of a file decoded off the update loop.
type decodedMsg struct {
	ticket dashboard.Ticket
	text   string
	err    error
}

// Model implements the Bubble Tea dashboard.
type Model struct {
	ctrl  *dashboard.Controller
	board *chart.Board
	lib   *chart.TextLibrary
	cfg   model.Config
	path  string

	tabs       []string
	activeTab  int
	viewports  []viewport.Model
	fightTable table.Model

	width  int
	height int

	loading  bool
	errMsg   string
	alert    string
	warnings int

	settingsMode  bool
	inputs        []textinput.Model
	inputIndex    int
	settingsError string
}

// NewModel constructs a dashboard over ctrl drawing on board with lib.
// When path is not empty it is loaded on start.
func NewModel(ctrl *dashboard.Controller, board *chart.Board, lib *chart.TextLibrary, cfg model.Config, path string) *Model {
	m := &Model{
		ctrl:  ctrl,
		board: board,
		lib:   lib,
		cfg:   cfg,
		path:  path,
		tabs:  []string{"Charts", "Fights", "Overview"},
	}
	ctrl.SetNotifier(m)
	m.initInputs()
	m.initViewports()
	m.fightTable = buildFightTable(nil, 0, 1)
	return m
}

// Alert implements dashboard.Notifier by opening the warning modal.
func (m *Model) Alert(message string) {
	m.alert = message
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	if m.path == "" {
		return nil
	}
	return m.load(m.path)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.redraw()
		return m, nil
	case decodedMsg:
		m.finish(msg)
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.alert != "" {
			switch msg.Type {
			case tea.KeyEnter, tea.KeyEsc, tea.KeySpace:
				m.alert = ""
			}
			return m, nil
		}
		if m.settingsMode {
			return m.updateSettings(msg)
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "f":
			m.setTab(tabFights)
			return m, nil
		case "[":
			m.stepFight(-1)
			return m, nil
		case "]":
			m.stepFight(1)
			return m, nil
		case "a":
			return m, m.toggleMode()
		case "r":
			if m.path == "" {
				return m, nil
			}
			return m, m.load(m.path)
		case "/":
			return m.startSettings()
		case "enter":
			if m.activeTab == tabFights {
				m.selectFight(m.fightTable.Cursor())
				m.setTab(tabCharts)
			}
			return m, nil
		case "g", "home":
			if m.activeTab == tabFights {
				m.fightTable.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabFights {
				m.fightTable.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		default:
			if m.activeTab == tabFights {
				var cmd tea.Cmd
				m.fightTable, cmd = m.fightTable.Update(msg)
				return m, cmd
			}
			vp := m.viewports[m.activeTab]
			var cmd tea.Cmd
			vp, cmd = vp.Update(msg)
			m.viewports[m.activeTab] = vp
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.alert != "" {
		return fitLines(m.renderAlertModal(), m.width, m.height)
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

// load starts an ingestion and decodes the file off the update loop.
func (m *Model) load(path string) tea.Cmd {
	ticket, err := m.ctrl.Start(dashboard.FileSources(path))
	if err != nil {
		m.errMsg = err.Error()
		return nil
	}
	m.path = path
	m.loading = true
	m.errMsg = ""
	ctrl := m.ctrl
	return func() tea.Msg {
		text, err := ctrl.Decode(context.Background(), ticket.Source)
		return decodedMsg{ticket: ticket, text: text, err: err}
	}
}

func (m *Model) finish(msg decodedMsg) {
	if msg.err != nil {
		if msg.ticket.Generation == m.ctrl.Generation() {
			m.loading = false
			m.errMsg = msg.err.Error()
		}
		return
	}
	out, err := m.ctrl.Finish(msg.ticket, msg.text, m.cfg.Window, m.cfg.MinDuration)
	if errors.Is(err, dashboard.ErrStaleIngestion) {
		return
	}
	m.loading = false
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	m.warnings = len(out.Warnings)
	m.errMsg = ""
	if out.RenderErr != nil {
		m.errMsg = out.RenderErr.Error()
	}
	if !out.Rendered {
		m.errMsg = "No fights found."
	}
	m.refreshFightTable()
	m.renderContents()
}

func (m *Model) selectFight(index int) {
	if err := m.ctrl.SelectFight(index); err != nil {
		m.errMsg = err.Error()
	} else {
		m.errMsg = ""
	}
	m.fightTable.SetCursor(maxInt(0, m.ctrl.Selector().Index()))
	m.renderContents()
}

func (m *Model) stepFight(delta int) {
	sel := m.ctrl.Selector()
	if sel.Len() == 0 || m.ctrl.Mode() == dashboard.ModeAggregate {
		return
	}
	next := sel.Index() + delta
	if next < 0 || next >= sel.Len() {
		return
	}
	m.selectFight(next)
}

func (m *Model) toggleMode() tea.Cmd {
	if m.ctrl.Mode() == dashboard.ModeAggregate {
		m.ctrl.SetMode(dashboard.ModeFights)
		m.cfg.Aggregate = false
	} else {
		m.ctrl.SetMode(dashboard.ModeAggregate)
		m.cfg.Aggregate = true
	}
	if m.path == "" {
		return nil
	}
	return m.load(m.path)
}

// redraw re-renders the charts at the current width.
func (m *Model) redraw() {
	if m.width > 0 {
		m.lib.Width = maxInt(20, m.width-2)
	}
	if err := m.ctrl.Redraw(); err != nil {
		m.errMsg = err.Error()
	}
	m.renderContents()
}

func (m *Model) initViewports() {
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
}

func (m *Model) initInputs() {
	m.inputs = []textinput.Model{
		newSettingsInput("File: "),
		newSettingsInput("Window (s): "),
		newSettingsInput("Min duration (s): "),
	}
	m.setInputsFromConfig()
}

func newSettingsInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) setInputsFromConfig() {
	m.inputs[inputFile].SetValue(m.path)
	m.inputs[inputWindow].SetValue(strconv.FormatInt(m.cfg.Window, 10))
	m.inputs[inputMinDuration].SetValue(strconv.FormatInt(m.cfg.MinDuration, 10))
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if !m.settingsMode && m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, vpHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = vpHeight
	}
	m.fightTable.SetWidth(m.width)
	m.fightTable.SetHeight(maxInt(1, vpHeight-1))
	for i := range m.inputs {
		promptWidth := lipgloss.Width(m.inputs[i].Prompt)
		m.inputs[i].Width = maxInt(10, m.width-promptWidth-2)
	}
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.setTab(next)
}

func (m *Model) setTab(tab int) {
	m.activeTab = tab
	if m.activeTab == tabFights {
		m.fightTable.Focus()
	} else {
		m.fightTable.Blur()
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	summary := padLines(m.renderSummary(), m.width)
	return tabs + "\n" + summary
}

func (m *Model) renderSummary() string {
	file := m.path
	if file == "" {
		file = "none"
	}
	mode := "fights"
	if m.ctrl.Mode() == dashboard.ModeAggregate {
		mode = "aggregate"
	}
	summary := fmt.Sprintf("File: %s  window=%d  min=%d  mode=%s", file, m.cfg.Window, m.cfg.MinDuration, mode)
	if m.loading {
		summary += "  loading..."
	} else if label := m.currentLabel(); label != "" {
		summary += "  Fight: " + label
	}
	return headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) currentLabel() string {
	sel := m.ctrl.Selector()
	idx := sel.Index()
	if idx == dashboard.NoSelection {
		return ""
	}
	labels := sel.Labels()
	return fmt.Sprintf("%d/%d %s", idx+1, len(labels), labels[idx])
}

func (m *Model) renderHelp() string {
	help := "Nav: left/right  Fight: [/]  Fights: f  Aggregate: a  Reload: r  Settings: /  Quit: q"
	if m.activeTab == tabFights {
		help = "Nav: left/right  Move: up/down  Select: enter  Settings: /  Quit: q"
	}
	return headerStyle.Render(help)
}

func (m *Model) renderSettingsHelp() string {
	return headerStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel  quit: ctrl+c")
}

func (m *Model) renderFooter() string {
	if m.settingsMode {
		return m.renderSettingsHelp()
	}
	if m.errMsg != "" {
		return m.renderHelp() + "\n" + errorStyle.Render(m.errMsg)
	}
	return m.renderHelp()
}

func (m *Model) renderSettingsForm() string {
	lines := []string{"Settings (enter to apply, esc to cancel)"}
	for _, input := range m.inputs {
		lines = append(lines, input.View())
	}
	if m.settingsError != "" {
		lines = append(lines, errorStyle.Render(m.settingsError))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderBody(height int) string {
	if m.settingsMode {
		return fitLines(m.renderSettingsForm(), m.width, height)
	}
	if m.activeTab == tabFights {
		if m.ctrl.Selector().Len() == 0 {
			return fitLines("No fights loaded.", m.width, height)
		}
		return fitLines(tableMutedStyle.Render(m.fightTable.View()), m.width, height)
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, height)
}

func (m *Model) renderContents() {
	if len(m.viewports) == 0 {
		return
	}
	charts := m.board.View()
	if charts == "" {
		charts = "No log loaded. Press / to choose a file."
	}
	m.viewports[tabCharts].SetContent(charts)
	m.viewports[tabOverview].SetContent(m.renderOverview())
}

func (m *Model) renderOverview() string {
	sel := m.ctrl.Selector()
	fights := sel.Fights()
	if len(fights) == 0 {
		return "No fights loaded."
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	cards := []string{
		metricCard("Fights", strconv.Itoa(len(fights))),
		metricCard("Skipped lines", strconv.Itoa(m.warnings)),
	}
	if f, ok := sel.Current(); ok {
		dps, hps := stats.FightMetrics(f)
		cards = append(cards,
			metricCard("Duration", fmt.Sprintf("%ds", f.Time.Duration()+1)),
			metricCard("DPS", fmt.Sprintf("%.1f", dps)),
			metricCard("HPS", fmt.Sprintf("%.1f", hps)),
		)
	}
	summary := strings.Join(cards, "\n")
	if width >= 80 {
		summary = lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	}
	var buf bytes.Buffer
	if err := stats.RenderFightList(&buf, fights, sel.Labels(), sparkWidth); err != nil {
		return fmt.Sprintf("Failed to render fight list: %v", err)
	}
	return strings.TrimRight(summary+"\n\n"+buf.String(), "\n")
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func (m *Model) refreshFightTable() {
	sel := m.ctrl.Selector()
	_, bodyHeight, _ := m.layoutHeights()
	m.fightTable = buildFightTable(sel, m.width, bodyHeight)
	if idx := sel.Index(); idx != dashboard.NoSelection {
		m.fightTable.SetCursor(idx)
	}
	if m.activeTab == tabFights {
		m.fightTable.Focus()
	}
}

func buildFightTable(sel *dashboard.Selector, width, height int) table.Model {
	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Fight", Width: maxInt(20, width-4-10-10-6)},
		{Title: "DPS", Width: 10},
		{Title: "HPS", Width: 10},
	}
	var rows []table.Row
	if sel != nil {
		labels := sel.Labels()
		for i, f := range sel.Fights() {
			dps, hps := stats.FightMetrics(f)
			rows = append(rows, table.Row{
				strconv.Itoa(i + 1),
				labels[i],
				fmt.Sprintf("%.1f", dps),
				fmt.Sprintf("%.1f", hps),
			})
		}
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(maxInt(1, height-1)),
	)
	if width > 0 {
		t.SetWidth(width)
	}
	t.SetStyles(fightTableStyles())
	return t
}

func fightTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func (m *Model) startSettings() (tea.Model, tea.Cmd) {
	m.settingsMode = true
	m.settingsError = ""
	m.setInputsFromConfig()
	return m, m.setInputIndex(0)
}

func (m *Model) updateSettings(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.settingsMode = false
		m.settingsError = ""
		return m, nil
	case tea.KeyEnter:
		path, err := m.applySettings()
		if err != nil {
			m.settingsError = err.Error()
			return m, nil
		}
		m.settingsMode = false
		m.settingsError = ""
		m.updateLayout()
		if path == "" {
			return m, nil
		}
		return m, m.load(path)
	case tea.KeyTab:
		return m, m.setInputIndex(m.inputIndex + 1)
	case tea.KeyShiftTab:
		return m, m.setInputIndex(m.inputIndex - 1)
	}
	var cmd tea.Cmd
	m.inputs[m.inputIndex], cmd = m.inputs[m.inputIndex].Update(msg)
	return m, cmd
}

func (m *Model) setInputIndex(idx int) tea.Cmd {
	count := len(m.inputs)
	if count == 0 {
		return nil
	}
	if idx < 0 {
		idx = count - 1
	}
	if idx >= count {
		idx = 0
	}
	m.inputIndex = idx
	var cmd tea.Cmd
	for i := range m.inputs {
		if i == m.inputIndex {
			cmd = m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
	return cmd
}

// applySettings stores the thresholds and returns the file to load.
func (m *Model) applySettings() (string, error) {
	window, err := strconv.ParseInt(strings.TrimSpace(m.inputs[inputWindow].Value()), 10, 64)
	if err != nil {
		return "", fmt.Errorf("invalid window (use integer seconds)")
	}
	minDuration, err := strconv.ParseInt(strings.TrimSpace(m.inputs[inputMinDuration].Value()), 10, 64)
	if err != nil {
		return "", fmt.Errorf("invalid min duration (use integer seconds)")
	}
	m.cfg.Window = window
	m.cfg.MinDuration = minDuration
	return strings.TrimSpace(m.inputs[inputFile].Value()), nil
}

func (m *Model) renderAlertModal() string {
	inner := modalInnerWidth(m.width)
	body := []string{
		cardValueStyle.Render("Parse warnings"),
		wrapText(m.alert, inner),
		"",
		headerStyle.Render("Enter / Esc to dismiss"),
	}
	box := modalStyle.Width(modalWidth(m.width)).Render(strings.Join(body, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func modalWidth(width int) int {
	return maxInt(40, minInt(width-4, 100))
}

func modalInnerWidth(width int) int {
	w := modalWidth(width)
	w -= 6 // 2 border + 4 padding
	if w < 10 {
		return 10
	}
	return w
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
