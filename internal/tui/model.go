package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/diogo/nearbychat/internal/api"
	"github.com/diogo/nearbychat/internal/chat"
	"github.com/diogo/nearbychat/internal/models"
	"github.com/diogo/nearbychat/internal/render"
)

// Animation tick message
type animationTickMsg time.Time

// exchangeDoneMsg carries the outcome of a request back to the event loop
type exchangeDoneMsg struct {
	exchange *chat.Exchange
	outcome  chat.Outcome
}

// ChatConfig holds the settings the chat model is built from
type ChatConfig struct {
	RequestContext models.RequestContext
	LiveMode       bool
	Render         render.Options
	Logger         zerolog.Logger
	// CopyFunc writes text to the clipboard. Defaults to clipboard.WriteAll.
	CopyFunc func(string) error
}

// turn is one rendered entry of the messages panel
type turn struct {
	assistant bool
	text      string
	results   []models.ResultCard
}

// panel is the chat.View the controller renders into. It lives behind a
// pointer so copies of Model share it.
type panel struct {
	turns        []turn
	loading      bool
	clearPending bool
}

func (p *panel) RenderUserTurn(text string) {
	p.turns = append(p.turns, turn{text: text})
}

func (p *panel) RenderAssistantTurn(text string, results []models.ResultCard) {
	p.turns = append(p.turns, turn{assistant: true, text: text, results: results})
}

func (p *panel) ShowLoading() { p.loading = true }
func (p *panel) HideLoading() { p.loading = false }
func (p *panel) ClearInput()  { p.clearPending = true }

// takeClear reports and resets a pending input clear
func (p *panel) takeClear() bool {
	c := p.clearPending
	p.clearPending = false
	return c
}

// lastReply returns the text of the most recent assistant turn
func (p *panel) lastReply() (string, bool) {
	for i := len(p.turns) - 1; i >= 0; i-- {
		if p.turns[i].assistant {
			return p.turns[i].text, true
		}
	}
	return "", false
}

var _ chat.View = (*panel)(nil)

// Model represents the TUI state
type Model struct {
	controller *chat.Controller
	panel      *panel
	endpoint   string
	liveMode   bool
	renderOpts render.Options
	copyFunc   func(string) error
	logger     zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	// UI components
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	// State
	ready          bool
	notice         string
	animationFrame int

	// Dimensions
	width  int
	height int
}

// NewChatModel creates a new chat TUI model
func NewChatModel(ctx context.Context, client api.ClientInterface, cfg ChatConfig) Model {
	ta := textarea.New()
	ta.Placeholder = "Ask about places nearby..."
	ta.CharLimit = 2000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.Focus()

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	copyFunc := cfg.CopyFunc
	if copyFunc == nil {
		copyFunc = clipboard.WriteAll
	}

	ctx, cancel := context.WithCancel(ctx)
	p := &panel{}

	return Model{
		controller: chat.NewController(p, client, cfg.RequestContext, chat.WithLogger(cfg.Logger)),
		panel:      p,
		endpoint:   client.Endpoint(),
		liveMode:   cfg.LiveMode,
		renderOpts: cfg.Render,
		copyFunc:   copyFunc,
		logger:     cfg.Logger,
		ctx:        ctx,
		cancel:     cancel,
		textarea:   ta,
		spinner:    s,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// animationTick returns a command that sends animation tick messages
func animationTick() tea.Cmd {
	return tea.Tick(time.Millisecond*80, func(t time.Time) tea.Msg {
		return animationTickMsg(t)
	})
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 4 // Header panel with border
		inputHeight := 6  // Input panel with border
		statusHeight := 2 // Status bar and notice line
		padding := 2

		vpHeight := m.height - headerHeight - inputHeight - statusHeight - padding
		if vpHeight < 5 {
			vpHeight = 5
		}

		contentWidth := m.width - 4

		if !m.ready {
			m.viewport = viewport.New(contentWidth, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = contentWidth
			m.viewport.Height = vpHeight
		}
		m.textarea.SetWidth(contentWidth - 4)
		m.updateViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.cancel()
			return m, tea.Quit

		case "ctrl+l":
			m.liveMode = !m.liveMode
			m.notice = "Live mode " + onOff(m.liveMode)
			return m, nil

		case "ctrl+y":
			m.notice = m.copyLastReply()
			return m, nil

		case "enter":
			return m.submit()
		}

	case exchangeDoneMsg:
		m.controller.Finish(msg.exchange, msg.outcome)
		m.updateViewport()
		m.viewport.GotoBottom()

	case spinner.TickMsg:
		if m.loading() {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
			// the loading block in the viewport embeds the spinner frame
			m.updateViewport()
		}

	case animationTickMsg:
		if m.loading() {
			m.animationFrame++
			cmds = append(cmds, animationTick())
		}
	}

	// Only pass KeyMsg to textarea to prevent escape sequence leaks
	if !m.loading() {
		if _, ok := msg.(tea.KeyMsg); ok {
			m.textarea, cmd = m.textarea.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// submit starts an exchange for the current input. Enter is ignored while a
// reply is outstanding.
func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.loading() {
		return m, nil
	}

	input := strings.TrimSpace(m.textarea.Value())
	switch input {
	case "exit", "quit", "/exit", "/quit":
		m.cancel()
		return m, tea.Quit
	}

	ex, ok := m.controller.Begin(input, m.liveMode)
	if !ok {
		return m, nil
	}
	if m.panel.takeClear() {
		m.textarea.Reset()
	}
	m.notice = ""
	m.animationFrame = 0
	m.updateViewport()
	m.viewport.GotoBottom()

	return m, tea.Batch(
		m.sendExchange(ex),
		m.spinner.Tick,
		animationTick(),
	)
}

// sendExchange performs the request off the event loop
func (m Model) sendExchange(ex *chat.Exchange) tea.Cmd {
	ctrl, ctx := m.controller, m.ctx
	return func() tea.Msg {
		return exchangeDoneMsg{exchange: ex, outcome: ctrl.Send(ctx, ex)}
	}
}

func (m Model) loading() bool {
	return m.controller.Pending() > 0
}

// copyLastReply copies the latest assistant turn and returns a notice
func (m Model) copyLastReply() string {
	reply, ok := m.panel.lastReply()
	if !ok {
		return "Nothing to copy yet"
	}
	if err := m.copyFunc(reply); err != nil {
		m.logger.Warn().Err(err).Msg("clipboard copy failed")
		return "Copy failed: " + err.Error()
	}
	return "Copied last reply to clipboard"
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	contentWidth := m.width - 4
	var sections []string

	// Header
	header := headerStyle.Width(contentWidth).Render(lipgloss.JoinHorizontal(lipgloss.Center,
		titleStyle.Render("◉ Nearby Chat"),
		hintStyle.Render("  •  "),
		subtitleStyle.Render(m.endpoint),
		hintStyle.Render("  •  "),
		m.renderLiveBadge(),
	))
	sections = append(sections, header)

	// Messages
	var messagesContent string
	if len(m.panel.turns) == 0 && !m.panel.loading {
		messagesContent = m.renderWelcome()
	} else {
		messagesContent = m.viewport.View()
	}
	sections = append(sections, messagesAreaStyle.
		Width(contentWidth).
		Height(m.viewport.Height).
		Render(messagesContent))

	// Input
	var inputContent string
	if m.loading() {
		inputContent = m.renderLoadingAnimation()
	} else {
		inputContent = lipgloss.JoinVertical(
			lipgloss.Left,
			inputLabelStyle.Render("You"),
			m.textarea.View(),
		)
	}
	sections = append(sections, inputPanelStyle.Width(contentWidth).Render(inputContent))

	// Status
	sections = append(sections, m.renderStatusBar(contentWidth))
	if m.notice != "" {
		sections = append(sections, noticeStyle.Width(contentWidth).Align(lipgloss.Center).Render(m.notice))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderLiveBadge() string {
	if m.liveMode {
		return liveOnStyle.Render("● LIVE")
	}
	return liveOffStyle.Render("○ live off")
}

// renderWelcome renders the welcome screen when no messages exist
func (m Model) renderWelcome() string {
	width := m.viewport.Width - 4
	content := lipgloss.JoinVertical(
		lipgloss.Center,
		"",
		welcomeIconStyle.Width(width).Render("📍"),
		"",
		welcomeTitleStyle.Width(width).Render("What are you looking for nearby?"),
		"",
		welcomeStyle.Width(width).Render("Ask for cafes, clinics, pharmacies or any service around you"),
		"",
	)

	topPadding := (m.viewport.Height - lipgloss.Height(content)) / 2
	if topPadding < 0 {
		topPadding = 0
	}
	return strings.Repeat("\n", topPadding) + content
}

// renderLoadingAnimation renders the animated indicator shown in the input panel
func (m Model) renderLoadingAnimation() string {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}
	barChars := []string{"█", "█", "█", "█", "█", "█", "█", "█", "▓", "▒", "░"}

	frame := m.animationFrame

	spinColor := gradientColors[frame%len(gradientColors)]
	spin := lipgloss.NewStyle().Foreground(spinColor).Bold(true).Render(chars[frame%len(chars)])

	barWidth := 20
	var bar strings.Builder
	for i := 0; i < barWidth; i++ {
		colorIdx := (i + frame) % len(gradientColors)
		charIdx := (i + frame/2) % len(barChars)
		bar.WriteString(lipgloss.NewStyle().Foreground(gradientColors[colorIdx]).Render(barChars[charIdx]))
	}

	text := lipgloss.NewStyle().Foreground(colorText).Render(" " + models.LoadingText + " ")

	return fmt.Sprintf("%s %s %s", spin, bar.String(), text)
}

// renderStatusBar renders the bottom status bar with shortcuts
func (m Model) renderStatusBar(width int) string {
	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Send"},
		{"Ctrl+L", "Live"},
		{"Ctrl+Y", "Copy"},
		{"Esc", "Quit"},
		{"↑↓", "Scroll"},
	}

	items := make([]string, 0, len(shortcuts))
	for _, s := range shortcuts {
		items = append(items, lipgloss.JoinHorizontal(
			lipgloss.Center,
			statusKeyStyle.Render(s.key),
			statusDescStyle.Render(" "+s.desc),
		))
	}

	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(strings.Join(items, "  │  "))
}

// updateViewport refreshes the viewport content with styled turns
func (m *Model) updateViewport() {
	var content strings.Builder
	bubbleWidth := m.viewport.Width - 6
	if bubbleWidth < 10 {
		bubbleWidth = 10
	}

	for i, t := range m.panel.turns {
		if i > 0 {
			content.WriteString("\n")
		}

		if !t.assistant {
			label := userLabelStyle.Render("● You")
			bubble := userBubbleStyle.Width(bubbleWidth).Render(t.text)
			content.WriteString(label + "\n" + bubble + "\n")
			continue
		}

		label := assistantLabelStyle.Render("◉ Assistant")
		rendered := render.Reply(t.text, m.renderOpts.WithWidth(bubbleWidth-4))
		content.WriteString(label + "\n" + assistantBubbleStyle.Width(bubbleWidth).Render(rendered) + "\n")

		if grid := render.Cards(t.results, bubbleWidth); grid != "" {
			content.WriteString(grid + "\n")
		}
	}

	if m.panel.loading {
		if len(m.panel.turns) > 0 {
			content.WriteString("\n")
		}
		content.WriteString(loadingBlockStyle.Render(m.spinner.View()+" "+models.LoadingText) + "\n")
	}

	m.viewport.SetContent(content.String())
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

// RunChat starts the chat TUI and blocks until the user quits
func RunChat(ctx context.Context, client api.ClientInterface, cfg ChatConfig) error {
	m := NewChatModel(ctx, client, cfg)
	defer m.cancel()

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	_, err := p.Run()
	return err
}
