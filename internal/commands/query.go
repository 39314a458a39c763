package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/diogo/nearbychat/internal/chat"
	"github.com/diogo/nearbychat/internal/config"
	apierrors "github.com/diogo/nearbychat/internal/errors"
	"github.com/diogo/nearbychat/internal/logging"
	"github.com/diogo/nearbychat/internal/models"
	"github.com/diogo/nearbychat/internal/render"
	"github.com/diogo/nearbychat/internal/tui"
)

// Gradient colors for animation
var gradientColors = []lipgloss.Color{
	lipgloss.Color("#ff6b6b"), // Red
	lipgloss.Color("#feca57"), // Yellow
	lipgloss.Color("#48dbfb"), // Cyan
	lipgloss.Color("#ff9ff3"), // Pink
	lipgloss.Color("#54a0ff"), // Blue
	lipgloss.Color("#5f27cd"), // Purple
	lipgloss.Color("#00d2d3"), // Teal
	lipgloss.Color("#1dd1a1"), // Green
}

var (
	colorText     = lipgloss.Color("#c0caf5")
	colorTextDim  = lipgloss.Color("#565f89")
	colorTextMute = lipgloss.Color("#3b4261")
	colorSuccess  = lipgloss.Color("#9ece6a")
	colorWarning  = lipgloss.Color("#f7768e")
	colorPrimary  = lipgloss.Color("#7aa2f7")
	colorUser     = lipgloss.Color("#9ece6a")
)

// Styles matching the chat TUI
var (
	assistantLabelStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	assistantBubbleStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Foreground(colorText).
				Padding(0, 1).
				MarginBottom(1)

	userLabelStyle = lipgloss.NewStyle().
			Foreground(colorUser).
			Bold(true)

	userTextStyle = lipgloss.NewStyle().
			Foreground(colorTextDim).
			MarginBottom(1)
)

// spinner handles the animated loading indicator
type spinner struct {
	out     io.Writer
	message string
	stop    chan struct{}
	done    chan struct{}
	mu      sync.Mutex
	frame   int
	started bool
	stopped bool // Flag to prevent double-close
}

// newSpinner creates a new animated spinner drawing to out
func newSpinner(out io.Writer, message string) *spinner {
	return &spinner{
		out:     out,
		message: message,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// start begins the animation
func (s *spinner) start() {
	s.mu.Lock()
	s.started = true
	s.mu.Unlock()

	go func() {
		defer close(s.done)

		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		// Hide cursor
		fmt.Fprint(s.out, "\033[?25l")

		for {
			select {
			case <-s.stop:
				// Clear line and show cursor
				fmt.Fprint(s.out, "\r\033[K\033[?25h")
				return
			case <-ticker.C:
				s.mu.Lock()
				s.render()
				s.frame++
				s.mu.Unlock()
			}
		}
	}()
}

// render draws the current animation frame
func (s *spinner) render() {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}
	barChars := []string{"█", "█", "█", "█", "█", "█", "▓", "▒", "░"}

	spinColor := gradientColors[s.frame%len(gradientColors)]
	spinnerChar := lipgloss.NewStyle().Foreground(spinColor).Bold(true).Render(chars[s.frame%len(chars)])

	barWidth := 16
	var bar strings.Builder
	for i := 0; i < barWidth; i++ {
		colorIdx := (i + s.frame) % len(gradientColors)
		charIdx := (i + s.frame/2) % len(barChars)
		bar.WriteString(lipgloss.NewStyle().Foreground(gradientColors[colorIdx]).Render(barChars[charIdx]))
	}

	var dots strings.Builder
	numDots := (s.frame / 3) % 4
	for i := 0; i < 3; i++ {
		if i < numDots {
			dotColor := gradientColors[(s.frame+i)%len(gradientColors)]
			dots.WriteString(lipgloss.NewStyle().Foreground(dotColor).Render("●"))
		} else {
			dots.WriteString(lipgloss.NewStyle().Foreground(colorTextMute).Render("○"))
		}
	}

	msg := lipgloss.NewStyle().Foreground(colorText).Render(s.message)
	fmt.Fprintf(s.out, "\r\033[K%s %s %s %s", spinnerChar, bar.String(), msg, dots.String())
}

// halt stops the animation and waits for it to clear the line. It is a
// no-op for a spinner that never started.
func (s *spinner) halt() {
	s.mu.Lock()
	if !s.started || s.stopped {
		s.mu.Unlock()
		return
	}
	close(s.stop)
	s.stopped = true
	s.mu.Unlock()
	<-s.done
}

// printView renders chat turns for a one-shot query. Raw mode prints plain
// text; decorated mode mirrors the chat TUI bubbles and animates the loading
// indicator on stderr.
type printView struct {
	out        io.Writer
	errOut     io.Writer
	raw        bool
	width      int
	renderOpts render.Options
	spin       *spinner
}

var _ chat.View = (*printView)(nil)

func (v *printView) RenderUserTurn(text string) {
	if v.raw {
		return
	}
	fmt.Fprintln(v.out, userLabelStyle.Render("● You"))
	fmt.Fprintln(v.out, userTextStyle.Render(text))
}

func (v *printView) RenderAssistantTurn(text string, results []models.ResultCard) {
	if v.raw {
		fmt.Fprintln(v.out, text)
		if len(results) > 0 {
			fmt.Fprintln(v.out)
			fmt.Fprintln(v.out, render.CardText(results))
		}
		return
	}

	contentWidth := v.width - 4
	fmt.Fprintln(v.out, assistantLabelStyle.Render("◉ Assistant"))
	fmt.Fprintln(v.out, assistantBubbleStyle.Width(v.width).Render(render.Reply(text, v.renderOpts.WithWidth(contentWidth))))
	if grid := render.Cards(results, v.width); grid != "" {
		fmt.Fprintln(v.out, grid)
	}
}

func (v *printView) ShowLoading() {
	if v.raw {
		return
	}
	v.spin = newSpinner(v.errOut, models.LoadingText)
	v.spin.start()
}

func (v *printView) HideLoading() {
	if v.spin != nil {
		v.spin.halt()
		v.spin = nil
	}
}

func (v *printView) ClearInput() {}

// runQuery submits a single query and prints the outcome. A failed
// exchange is printed as a chat turn and reported as a reportedError.
func runQuery(ctx context.Context, deps *Dependencies, cfg config.Config, query string, rawOutput bool) error {
	logger := logging.NewConsole(deps.Stderr, cfg.LogLevel)

	client, err := deps.NewClient(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	bubbleWidth := getTerminalWidth() - 4
	if bubbleWidth < 40 {
		bubbleWidth = 40
	}
	if bubbleWidth > 120 {
		bubbleWidth = 120
	}

	view := &printView{
		out:        deps.Stdout,
		errOut:     deps.Stderr,
		raw:        rawOutput,
		width:      bubbleWidth,
		renderOpts: render.OptionsFromConfig(cfg.Markdown, bubbleWidth-4),
	}
	controller := chat.NewController(view, client, cfg.RequestContext(), chat.WithLogger(logger))

	outcome, ok := controller.Submit(ctx, query, cfg.LiveMode)
	if !ok {
		return apierrors.ErrEmptyQuery
	}

	if outcome.Err != nil {
		// The turn already carries the message; stderr only gets the details.
		if details := tui.FormatErrorDetails(outcome.Err); details != "" && !rawOutput {
			fmt.Fprintln(deps.Stderr, details)
		}
		return &reportedError{err: outcome.Err}
	}

	if cfg.CopyToClipboard && !rawOutput {
		if err := deps.Clipboard(outcome.Response.AIResponse); err != nil {
			warnMsg := lipgloss.NewStyle().Foreground(colorWarning).Render(
				fmt.Sprintf("⚠ Failed to copy to clipboard: %v", err),
			)
			fmt.Fprintln(deps.Stderr, warnMsg)
		} else {
			fmt.Fprintln(deps.Stderr, lipgloss.NewStyle().Foreground(colorSuccess).Render("✓ Copied to clipboard"))
		}
	}

	return nil
}

// getTerminalWidth returns the terminal width or a default value
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // default width
	}
	return width
}

// isStdoutTTY returns true if stdout is connected to a terminal
func isStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
