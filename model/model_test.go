package model

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/miosa/joi-tui/msg"
	"github.com/miosa/joi-tui/protocol"
	"github.com/miosa/joi-tui/transcript"
)

func TestChat_StreamedTurn(t *testing.T) {
	m := NewChat(80, 20)
	m.AddUserMessage("hi")
	for _, env := range []protocol.Envelope{
		{Type: protocol.TypeTyping, Status: true},
		{Type: protocol.TypeMessageStart},
		{Type: protocol.TypeChar, Content: "Hel"},
		{Type: protocol.TypeChar, Content: "lo"},
	} {
		if !m.Apply(env) {
			t.Fatalf("Apply(%s) reported unknown type", env.Type)
		}
	}
	if !m.Typing() {
		t.Error("typing indicator should be on")
	}
	if !strings.Contains(m.View(), "Hello") {
		t.Errorf("open turn not rendered:\n%s", m.View())
	}

	m.Apply(protocol.Envelope{Type: protocol.TypeMessageEnd})
	m.Apply(protocol.Envelope{Type: protocol.TypeTyping, Status: false})

	turns := m.Transcript().Turns()
	want := []transcript.Turn{
		{Role: transcript.RoleUser, Text: "hi"},
		{Role: transcript.RoleAssistant, Text: "Hello"},
	}
	if len(turns) != len(want) {
		t.Fatalf("want %d turns, got %d", len(want), len(turns))
	}
	for i := range want {
		if turns[i] != want[i] {
			t.Errorf("turn %d: want %+v, got %+v", i, want[i], turns[i])
		}
	}
	if _, open := m.Transcript().Current(); open {
		t.Error("turn should be sealed")
	}
}

func TestChat_UnknownEnvelope(t *testing.T) {
	m := NewChat(80, 20)
	if m.Apply(protocol.Envelope{Type: "presence"}) {
		t.Error("unknown type should report false")
	}
	if m.Transcript().Len() != 0 {
		t.Error("unknown type must not mutate the transcript")
	}
}

func TestChat_Clear(t *testing.T) {
	m := NewChat(80, 20)
	m.AddUserMessage("hi")
	m.SetTyping(true)
	m.Clear()
	if m.Transcript().Len() != 0 || m.Typing() {
		t.Errorf("Clear left state behind: len=%d typing=%v", m.Transcript().Len(), m.Typing())
	}
	if !strings.Contains(m.View(), "No messages yet") {
		t.Errorf("empty placeholder missing:\n%s", m.View())
	}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeInto(m LoginModel, s string) LoginModel {
	updated, _ := m.Update(keyRunes(s))
	return updated.(LoginModel)
}

func TestLogin_BlankNameIgnored(t *testing.T) {
	m := typeInto(NewLogin(), "   ")
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(LoginModel)
	if cmd != nil {
		t.Error("blank name must not submit")
	}
	if m.Disabled() {
		t.Error("form should stay enabled")
	}
}

func TestLogin_SubmitDisablesForm(t *testing.T) {
	m := typeInto(NewLogin(), "  ana ")
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(LoginModel)
	if cmd == nil {
		t.Fatal("want a submit command")
	}
	if !m.Disabled() || m.Status() != "Connecting..." {
		t.Errorf("want disabled form showing Connecting..., got disabled=%v status=%q", m.Disabled(), m.Status())
	}

	batch, ok := cmd().(tea.BatchMsg)
	if !ok {
		t.Fatalf("want tea.BatchMsg, got %T", cmd())
	}
	var got *msg.SubmitLogin
	for _, c := range batch {
		if s, ok := c().(msg.SubmitLogin); ok {
			got = &s
		}
	}
	if got == nil || got.Name != "ana" {
		t.Errorf("want SubmitLogin{ana}, got %+v", got)
	}

	// Typing is ignored while disabled.
	m = typeInto(m, "x")
	if m.Value() != "  ana " {
		t.Errorf("disabled form accepted input: %q", m.Value())
	}

	m.Show()
	if m.Disabled() {
		t.Error("Show should re-enable the form")
	}
}

func TestLogin_ConnectingOverlay(t *testing.T) {
	m := NewLogin()
	m.Hide()
	if m.Visible() {
		t.Fatal("Hide should hide the view")
	}
	m.Connecting("Reconnecting...")
	if !m.Visible() || !m.Disabled() {
		t.Error("overlay should be visible with the form disabled")
	}
	view := m.View()
	if !strings.Contains(view, "Reconnecting...") || !strings.Contains(view, WakeHint) {
		t.Errorf("overlay missing status or hint:\n%s", view)
	}
}

func TestInput_History(t *testing.T) {
	m := NewInput(DefaultInputKeys())
	m.Submit("first")
	m.Submit("second")

	up := func(m InputModel) InputModel {
		u, _ := m.Update(tea.KeyMsg{Type: tea.KeyUp})
		return u.(InputModel)
	}
	down := func(m InputModel) InputModel {
		u, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
		return u.(InputModel)
	}

	m = up(m)
	if m.Value() != "second" {
		t.Errorf("want second, got %q", m.Value())
	}
	m = up(up(m))
	if m.Value() != "first" {
		t.Errorf("want first (clamped), got %q", m.Value())
	}
	m = down(down(m))
	if m.Value() != "" {
		t.Errorf("want empty past newest, got %q", m.Value())
	}
}

func TestInput_HistoryKeepsDraft(t *testing.T) {
	m := NewInput(DefaultInputKeys())
	m.Submit("hi")
	m.Submit("hi")
	m.SetValue("half typed")

	u, _ := m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = u.(InputModel)
	if m.Value() != "hi" {
		t.Fatalf("want hi, got %q", m.Value())
	}
	u, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	if got := u.(InputModel).Value(); got != "hi" {
		t.Errorf("repeated submit should be stored once, got %q", got)
	}
	u, _ = u.(InputModel).Update(tea.KeyMsg{Type: tea.KeyDown})
	if got := u.(InputModel).Value(); got != "half typed" {
		t.Errorf("want the draft back, got %q", got)
	}
}

func TestInput_TabCompletion(t *testing.T) {
	m := NewInput(DefaultInputKeys())
	m.SetValue("/l")
	u, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = u.(InputModel)
	if m.Value() != CmdLogout {
		t.Errorf("want %s, got %q", CmdLogout, m.Value())
	}

	m.SetValue("hello")
	u, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if got := u.(InputModel).Value(); got != "hello" {
		t.Errorf("plain text must not complete, got %q", got)
	}
}

func TestToasts_Expire(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m := ToastsModel{now: func() time.Time { return now }}
	for _, s := range []string{"a", "b", "c", "d"} {
		m.Add(s, ToastWarning)
	}
	if got := m.Messages(); strings.Join(got, ",") != "b,c,d" {
		t.Errorf("want oldest dropped, got %v", got)
	}

	now = now.Add(toastTTL)
	m.Tick()
	if m.HasToasts() {
		t.Errorf("toasts should expire, got %v", m.Messages())
	}
}

func TestStatus_View(t *testing.T) {
	m := NewStatus()
	m.SetName("ana")
	m.SetDetail("reconnecting")
	if v := m.View(); !strings.Contains(v, "offline") || !strings.Contains(v, "ana") || !strings.Contains(v, "reconnecting") {
		t.Errorf("unexpected offline view: %q", v)
	}
	m.SetOnline(true)
	m.SetDetail("")
	if v := m.View(); !strings.Contains(v, "online") || strings.Contains(v, "reconnecting") {
		t.Errorf("unexpected online view: %q", v)
	}
}

func TestBanner_ShowsHost(t *testing.T) {
	b := NewBanner("v1.2.0")
	b.SetBackend("wss://joi.example.com/ws")
	v := b.View()
	if !strings.Contains(v, "joi.example.com") || strings.Contains(v, "wss://") {
		t.Errorf("banner should show the host only: %q", v)
	}
}

func TestToasts_RepeatRefreshes(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m := ToastsModel{now: func() time.Time { return now }}
	m.Add("Not connected to server. Please wait.", ToastWarning)
	m.Add("other", ToastInfo)
	now = now.Add(toastTTL / 2)
	m.Add("Not connected to server. Please wait.", ToastWarning)

	if got := m.Messages(); strings.Join(got, "|") != "other|Not connected to server. Please wait." {
		t.Fatalf("repeat should move to the end without a copy, got %v", got)
	}
	now = now.Add(toastTTL/2 + time.Millisecond)
	m.Tick()
	if got := m.Messages(); len(got) != 1 || got[0] != "Not connected to server. Please wait." {
		t.Errorf("refreshed toast should outlive the older one, got %v", got)
	}
}

func TestInput_EnterEmitsSubmit(t *testing.T) {
	m := NewInput(DefaultInputKeys())
	m.SetValue("  hello ")
	u, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter should produce a command")
	}
	got, ok := cmd().(msg.SubmitInput)
	if !ok || got.Text != "  hello " {
		t.Errorf("want SubmitInput with the raw text, got %#v", got)
	}
	if u.(InputModel).Value() != "  hello " {
		t.Error("the app resets the input, not the enter key")
	}
}
