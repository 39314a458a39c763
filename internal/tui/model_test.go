package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/diogo/nearbychat/internal/api"
	apierrors "github.com/diogo/nearbychat/internal/errors"
	"github.com/diogo/nearbychat/internal/models"
	"github.com/diogo/nearbychat/internal/render"
)

var testRequestContext = models.RequestContext{ClientID: "c1", UserID: "u1", Lat: 1, Long: 2}

// newTestModel builds a sized chat model backed by client
func newTestModel(t *testing.T, client api.ClientInterface, copied *string) Model {
	t.Helper()
	cfg := ChatConfig{
		RequestContext: testRequestContext,
		Render:         render.DefaultOptions().WithStyle(render.StyleNoTTY),
		CopyFunc: func(s string) error {
			if copied == nil {
				return errors.New("no clipboard")
			}
			*copied = s
			return nil
		},
	}
	m := NewChatModel(context.Background(), client, cfg)
	t.Cleanup(m.cancel)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return updated.(Model)
}

func press(t *testing.T, m Model, key tea.KeyType) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(tea.KeyMsg{Type: key})
	return updated.(Model), cmd
}

// findDone runs cmd, expanding batches, and returns the first exchange result
func findDone(t *testing.T, cmd tea.Cmd) exchangeDoneMsg {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case exchangeDoneMsg:
			return msg
		case tea.BatchMsg:
			queue = append(queue, msg...)
		}
	}
	t.Fatal("no exchangeDoneMsg produced")
	return exchangeDoneMsg{}
}

func TestNewChatModel(t *testing.T) {
	m := newTestModel(t, &api.MockClient{EndpointVal: "http://example.test/ai"}, nil)

	if !m.ready {
		t.Error("model should be ready after a window size message")
	}
	if m.endpoint != "http://example.test/ai" {
		t.Errorf("endpoint = %q", m.endpoint)
	}
	if m.loading() {
		t.Error("new model should not be loading")
	}
	view := m.View()
	if !strings.Contains(view, "http://example.test/ai") || !strings.Contains(view, "live off") {
		t.Errorf("header should show endpoint and live badge:\n%s", view)
	}
}

func TestView_NotReady(t *testing.T) {
	m := NewChatModel(context.Background(), &api.MockClient{}, ChatConfig{})
	defer m.cancel()
	if !strings.Contains(m.View(), "Initializing") {
		t.Errorf("unexpected view before sizing: %q", m.View())
	}
}

func TestEnter_SuccessfulExchange(t *testing.T) {
	client := &api.MockClient{Response: &models.AIResponse{
		AIResponse: "Hi",
		Results:    []models.ResultCard{{Name: "Cafe", PhoneNumber: "123", Distance: "2"}},
	}}
	m := newTestModel(t, client, nil)
	m.textarea.SetValue("  coffee nearby  ")

	m, cmd := press(t, m, tea.KeyEnter)
	if cmd == nil {
		t.Fatal("Enter should start an exchange")
	}
	if !m.loading() {
		t.Error("model should be loading after Enter")
	}
	if m.textarea.Value() != "" {
		t.Errorf("input not cleared: %q", m.textarea.Value())
	}
	if len(m.panel.turns) != 1 || m.panel.turns[0].text != "coffee nearby" {
		t.Errorf("user turn not rendered optimistically: %+v", m.panel.turns)
	}
	if view := m.View(); !strings.Contains(view, models.LoadingText) {
		t.Errorf("view should show the loading text:\n%s", view)
	}

	updated, _ := m.Update(findDone(t, cmd))
	m = updated.(Model)

	if m.loading() || m.panel.loading {
		t.Error("loading should end with the exchange")
	}
	view := m.View()
	for _, want := range []string{"Hi", "Cafe", "📞 123", "📍 2 km"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
	if m.controller.History().Len() != 2 {
		t.Errorf("history Len() = %d, want 2", m.controller.History().Len())
	}
}

func TestEnter_ServerErrorRendersAsAssistantTurn(t *testing.T) {
	client := &api.MockClient{Err: apierrors.NewServerError(400, models.DefaultEndpoint, "bad request")}
	m := newTestModel(t, client, nil)
	m.textarea.SetValue("hello")

	m, cmd := press(t, m, tea.KeyEnter)
	updated, _ := m.Update(findDone(t, cmd))
	m = updated.(Model)

	last := m.panel.turns[len(m.panel.turns)-1]
	if !last.assistant || last.text != "Error: bad request" {
		t.Errorf("last turn = %+v", last)
	}
	if m.controller.History().Len() != 0 {
		t.Error("history must not change on error")
	}
}

func TestEnter_BlankInputIsIgnored(t *testing.T) {
	client := &api.MockClient{}
	m := newTestModel(t, client, nil)
	m.textarea.SetValue("   ")

	m, cmd := press(t, m, tea.KeyEnter)
	if cmd != nil {
		t.Error("blank input should not produce a command")
	}
	if len(m.panel.turns) != 0 || m.loading() {
		t.Error("blank input should not render or load")
	}
}

func TestEnter_IgnoredWhileAwaiting(t *testing.T) {
	client := &api.MockClient{Response: &models.AIResponse{AIResponse: "ok"}}
	m := newTestModel(t, client, nil)
	m.textarea.SetValue("first")
	m, _ = press(t, m, tea.KeyEnter)

	m.textarea.SetValue("second")
	m, cmd := press(t, m, tea.KeyEnter)
	if cmd != nil {
		t.Error("Enter while awaiting should be ignored")
	}
	if len(m.panel.turns) != 1 || m.controller.Pending() != 1 {
		t.Errorf("turns = %d, pending = %d; want 1, 1", len(m.panel.turns), m.controller.Pending())
	}
}

func TestSpinnerTick_RefreshesLoadingBlock(t *testing.T) {
	m := newTestModel(t, &api.MockClient{Response: &models.AIResponse{AIResponse: "ok"}}, nil)
	m.textarea.SetValue("pharmacy")
	m, _ = press(t, m, tea.KeyEnter)

	before := m.spinner.View()
	updated, _ := m.Update(m.spinner.Tick())
	m = updated.(Model)

	after := m.spinner.View()
	if after == before {
		t.Fatalf("spinner frame did not advance: %q", after)
	}
	if !strings.Contains(m.viewport.View(), after+" "+models.LoadingText) {
		t.Errorf("viewport should show the current spinner frame %q:\n%s", after, m.viewport.View())
	}
}

func TestEnter_ExitCommands(t *testing.T) {
	for _, input := range []string{"exit", "quit", "/exit", "/quit"} {
		t.Run(input, func(t *testing.T) {
			m := newTestModel(t, &api.MockClient{}, nil)
			m.textarea.SetValue(input)

			_, cmd := press(t, m, tea.KeyEnter)
			if cmd == nil {
				t.Fatal("expected quit command")
			}
			if _, ok := cmd().(tea.QuitMsg); !ok {
				t.Error("expected tea.QuitMsg")
			}
			if m.ctx.Err() == nil {
				t.Error("quitting should cancel in-flight requests")
			}
		})
	}
}

func TestCtrlL_TogglesLiveMode(t *testing.T) {
	client := &api.MockClient{Response: &models.AIResponse{AIResponse: "ok"}}
	m := newTestModel(t, client, nil)

	m, _ = press(t, m, tea.KeyCtrlL)
	if !m.liveMode || !strings.Contains(m.View(), "LIVE") {
		t.Error("Ctrl+L should enable live mode")
	}

	m.textarea.SetValue("pharmacy")
	m, cmd := press(t, m, tea.KeyEnter)
	findDone(t, cmd)

	req, _ := client.LastRequest()
	if !req.LiveMode {
		t.Error("request should carry live_mode=true")
	}

	m, _ = press(t, m, tea.KeyCtrlL)
	if m.liveMode {
		t.Error("second Ctrl+L should disable live mode")
	}
}

func TestCtrlY_CopiesLastReply(t *testing.T) {
	var copied string
	client := &api.MockClient{Response: &models.AIResponse{AIResponse: "Try Blue Tokai"}}
	m := newTestModel(t, client, &copied)

	m, _ = press(t, m, tea.KeyCtrlY)
	if m.notice != "Nothing to copy yet" {
		t.Errorf("notice = %q", m.notice)
	}

	m.textarea.SetValue("coffee")
	m, cmd := press(t, m, tea.KeyEnter)
	updated, _ := m.Update(findDone(t, cmd))
	m = updated.(Model)

	m, _ = press(t, m, tea.KeyCtrlY)
	if copied != "Try Blue Tokai" {
		t.Errorf("copied = %q", copied)
	}
	if !strings.Contains(m.View(), "Copied last reply") {
		t.Error("view should show the copy notice")
	}
}

func TestCtrlY_CopyFailure(t *testing.T) {
	m := newTestModel(t, &api.MockClient{}, nil)
	m.panel.RenderAssistantTurn("reply", nil)

	m, _ = press(t, m, tea.KeyCtrlY)
	if !strings.HasPrefix(m.notice, "Copy failed") {
		t.Errorf("notice = %q", m.notice)
	}
}

func TestEsc_Quits(t *testing.T) {
	m := newTestModel(t, &api.MockClient{}, nil)
	_, cmd := press(t, m, tea.KeyEsc)
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestPanel_LastReply(t *testing.T) {
	p := &panel{}
	if _, ok := p.lastReply(); ok {
		t.Error("empty panel has no reply")
	}
	p.RenderAssistantTurn("one", nil)
	p.RenderUserTurn("question")
	if got, _ := p.lastReply(); got != "one" {
		t.Errorf("lastReply() = %q", got)
	}
}

func TestFormatError(t *testing.T) {
	if FormatError(nil) != "" {
		t.Error("nil error should format as empty")
	}

	out := FormatError(apierrors.NewServerError(500, "http://x/ai", "boom"))
	for _, want := range []string{"Error: boom", "HTTP Status: 500", "Endpoint: http://x/ai"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in %q", want, out)
		}
	}

	out = FormatError(apierrors.NewTransportError("send request", "http://x/ai", errors.New("connection refused")))
	if !strings.Contains(out, "Connection error: connection refused") || !strings.Contains(out, "Hint") {
		t.Errorf("unexpected transport format: %q", out)
	}
}

func TestFormatErrorDetails(t *testing.T) {
	if FormatErrorDetails(errors.New("plain")) != "" {
		t.Error("plain errors carry no details")
	}

	out := FormatErrorDetails(apierrors.NewServerError(503, "http://x/ai", "unavailable"))
	if !strings.Contains(out, "HTTP Status: 503") || !strings.Contains(out, "Endpoint: http://x/ai") {
		t.Errorf("missing details: %q", out)
	}
	if strings.Contains(out, "unavailable") {
		t.Errorf("details should not include the message: %q", out)
	}
}

func TestFormatError_PlainError(t *testing.T) {
	out := FormatError(errors.New("failed to load config: bad json"))
	if !strings.Contains(out, "✗ failed to load config: bad json") {
		t.Errorf("unexpected format: %q", out)
	}
	if strings.Contains(out, "Connection error") {
		t.Error("plain errors must not be labelled as connection errors")
	}
}
