// Package app is the root bubbletea model. It feeds connection and input
// events to the lifecycle state machine and runs the effects it returns.
package app

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"github.com/miosa/joi-tui/client"
	"github.com/miosa/joi-tui/config"
	"github.com/miosa/joi-tui/endpoint"
	"github.com/miosa/joi-tui/lifecycle"
	"github.com/miosa/joi-tui/model"
	"github.com/miosa/joi-tui/msg"
	"github.com/miosa/joi-tui/session"
)

// Options are the app's collaborators.
type Options struct {
	Config  config.Config
	Store   session.Store
	Dialer  client.Dialer
	HTTP    *client.Client
	Version string
	// Context bounds dials and health probes; cancelled on exit.
	Context context.Context
}

// Model is the root tea.Model.
type Model struct {
	opts    Options
	ctx     context.Context
	machine lifecycle.Machine

	banner model.BannerModel
	chat   model.ChatModel
	input  model.InputModel
	login  model.LoginModel
	status model.StatusModel
	toasts model.ToastsModel
	help   help.Model

	channel      *client.Channel
	connectStart time.Time

	keys        KeyMap
	width       int
	height      int
	confirmQuit bool
	initCmds    []tea.Cmd
}

// New builds the root model. A display name remembered by the store starts
// a connection attempt straight away, without the login form.
func New(opts Options) Model {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Dialer == nil {
		opts.Dialer = client.NewDialer()
	}
	if opts.HTTP == nil {
		opts.HTTP = client.New()
	}
	policy := lifecycle.Policy{
		BaseDelay: opts.Config.ReconnectDelay.Duration,
		MaxDelay:  opts.Config.MaxReconnectDelay.Duration,
	}
	keys := DefaultKeyMap()
	m := Model{
		opts:    opts,
		ctx:     opts.Context,
		machine: lifecycle.New(policy),
		banner:  model.NewBanner(opts.Version),
		chat:    model.NewChat(80, 20),
		input:   model.NewInput(keys.Input()),
		login:   model.NewLogin(),
		status:  model.NewStatus(),
		toasts:  model.NewToasts(),
		help:    help.New(),
		keys:    keys,
		width:   80,
		height:  24,
	}

	name, ok, err := opts.Store.Load()
	switch {
	case err != nil:
		log.Warn().Err(err).Msg("[session] load failed; starting logged out")
	case ok:
		log.Info().Msgf("[session] restoring session for %q", name)
		m.initCmds = append(m.initCmds, m.apply(lifecycle.SessionRestored{Name: name}))
	}
	return m
}

// Machine returns the connection state machine.
func (m Model) Machine() lifecycle.Machine { return m.machine }

func (m Model) Init() tea.Cmd {
	cmds := append([]tea.Cmd{m.login.Init(), tickCmd(), tea.WindowSize()}, m.initCmds...)
	return tea.Batch(cmds...)
}

func (m Model) Update(rawMsg tea.Msg) (tea.Model, tea.Cmd) {
	switch v := rawMsg.(type) {
	case tea.WindowSizeMsg:
		m.width = v.Width
		m.height = v.Height
		m.banner.SetWidth(v.Width)
		m.input.SetWidth(v.Width)
		m.help.Width = v.Width
		m.login.SetSize(v.Width, v.Height)
		m.layout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(v)

	case msg.SubmitLogin:
		cmd := m.apply(lifecycle.LoginSubmitted{Name: v.Name})
		return m, cmd

	case msg.SubmitInput:
		return m.submitInput(v.Text)

	case msg.TickMsg:
		had := m.toasts.HasToasts()
		m.toasts.Tick()
		if had != m.toasts.HasToasts() {
			m.layout()
		}
		return m, tickCmd()

	case spinner.TickMsg:
		updated, cmd := m.login.Update(v)
		m.login = updated.(model.LoginModel)
		return m, cmd

	// -- connection attempt --

	case client.HealthEvent:
		cmd := m.handleHealth(v)
		return m, cmd

	case msg.WakeTimer:
		if !m.attemptPending(v.Seq) {
			return m, nil
		}
		return m, client.HealthCmd(m.ctx, m.opts.HTTP, m.currentEndpoint(), v.Seq, v.Attempt)

	case msg.SlowConnect:
		if m.attemptPending(v.Seq) {
			log.Info().Msgf("[ws] attempt %d still pending after %s", v.Seq, m.opts.Config.SlowConnectNotice.Duration)
			m.login.Connecting(textStillWaking)
		}
		return m, nil

	case msg.ReconnectTimer:
		cmd := m.apply(lifecycle.ReconnectDue{Seq: v.Seq})
		return m, cmd

	// -- channel --

	case client.ChannelOpenedEvent:
		if !m.attemptPending(v.Seq) {
			log.Debug().Msgf("[ws] closing stale channel %s (attempt %d)", v.Channel.ID, v.Seq)
			_ = v.Channel.Close()
			return m, nil
		}
		m.channel = v.Channel
		log.Info().Str("channel", v.Channel.ID).Msgf("[ws] connected to %s", v.Channel.URL)
		cmd := m.apply(lifecycle.ChannelOpened{Seq: v.Seq})
		return m, cmd

	case client.ChannelClosedEvent:
		cmd := m.handleClosed(v)
		return m, cmd

	case client.ChannelErrorEvent:
		log.Warn().Err(v.Err).Msgf("[ws] channel error (attempt %d)", v.Seq)
		if v.Seq == m.machine.Seq {
			m.toast("Send failed: "+v.Err.Error(), model.ToastError)
		}
		cmd := m.apply(lifecycle.ChannelErrored{Seq: v.Seq, Err: v.Err})
		return m, cmd

	case client.EnvelopeEvent:
		if !m.live(v.Seq) {
			return m, nil
		}
		if !m.chat.Apply(v.Envelope) {
			log.Debug().Msgf("[ws] ignoring message type %q", v.Envelope.Type)
		}
		return m, m.channel.ReadCmd()

	case client.ParseWarningEvent:
		if !m.live(v.Seq) {
			return m, nil
		}
		log.Warn().Err(v.Err).Str("raw", v.Raw).Msg("[ws] malformed frame")
		m.toast(textBadFrame, model.ToastWarning)
		return m, m.channel.ReadCmd()
	}

	// Cursor blink and other component messages.
	var cmd tea.Cmd
	if m.login.Visible() {
		updated, c := m.login.Update(rawMsg)
		m.login = updated.(model.LoginModel)
		cmd = c
	} else {
		updated, c := m.input.Update(rawMsg)
		m.input = updated.(model.InputModel)
		cmd = c
	}
	return m, cmd
}

func (m Model) View() string {
	var sections []string
	if m.toasts.HasToasts() {
		sections = append(sections, m.toasts.View(m.width))
	}
	if m.login.Visible() {
		sections = append(sections, m.login.View())
	} else {
		sections = append(sections, m.banner.View(), m.chat.View(), m.status.View(), m.input.View(), m.helpView())
	}
	if m.confirmQuit {
		sections = append(sections, "\n  Press Ctrl+C again to quit, or any key to cancel.")
	}
	return strings.Join(sections, "\n")
}

// -- input --

func (m Model) handleKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirmQuit {
		if key.Matches(k, m.keys.Cancel) {
			cmd := m.quit()
			return m, cmd
		}
		m.confirmQuit = false
		return m, nil
	}

	if m.login.Visible() {
		switch {
		case key.Matches(k, m.keys.Cancel):
			m.confirmQuit = true
			return m, nil
		case key.Matches(k, m.keys.QuitEOF) && m.login.Value() == "":
			cmd := m.quit()
			return m, cmd
		case key.Matches(k, m.keys.Logout) && m.machine.State != lifecycle.StateLoggedOut:
			// abandons an auto-connect or a pending reconnect
			cmd := m.logout()
			return m, cmd
		}
		updated, cmd := m.login.Update(k)
		m.login = updated.(model.LoginModel)
		return m, cmd
	}

	switch {
	case key.Matches(k, m.keys.Escape):
		m.input.Reset()
		return m, nil
	case key.Matches(k, m.keys.Cancel):
		if m.input.Value() == "" {
			m.confirmQuit = true
			return m, nil
		}
		m.input.Reset()
		return m, nil
	case key.Matches(k, m.keys.QuitEOF):
		if m.input.Value() == "" {
			cmd := m.quit()
			return m, cmd
		}
	case key.Matches(k, m.keys.Logout):
		cmd := m.logout()
		return m, cmd
	case key.Matches(k, m.keys.PageUp), key.Matches(k, m.keys.PageDown):
		updated, cmd := m.chat.Update(k)
		m.chat = updated.(model.ChatModel)
		return m, cmd
	}
	updated, cmd := m.input.Update(k)
	m.input = updated.(model.InputModel)
	return m, cmd
}

// submitInput handles a msg.SubmitInput from the chat input. Blank input is dropped; a
// message typed while the channel is not open is refused and kept.
func (m Model) submitInput(raw string) (Model, tea.Cmd) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return m, nil
	}
	switch text {
	case model.CmdQuit, model.CmdExit:
		cmd := m.quit()
		return m, cmd
	case model.CmdLogout:
		m.input.Submit(text)
		cmd := m.logout()
		return m, cmd
	}
	if m.machine.State != lifecycle.StateOpen || m.channel == nil {
		m.toast(textNotConnected, model.ToastWarning)
		return m, nil
	}
	m.input.Submit(text)
	m.chat.AddUserMessage(text)
	return m, m.channel.ChatCmd(text)
}

func (m *Model) logout() tea.Cmd {
	log.Info().Msgf("[app] logout requested by %q", m.machine.Name)
	return m.apply(lifecycle.LogoutRequested{})
}

func (m *Model) quit() tea.Cmd {
	m.closeChannel()
	return tea.Quit
}

// -- lifecycle --

// apply feeds ev to the state machine and runs the resulting effects.
func (m *Model) apply(ev lifecycle.Event) tea.Cmd {
	prev := m.machine.State
	var effects []lifecycle.Effect
	m.machine, effects = lifecycle.Transition(m.machine, ev)
	if prev != m.machine.State {
		log.Debug().Msgf("[app] %s -> %s (%T)", prev, m.machine.State, ev)
	}
	m.status.SetDetail(statusDetail(m.machine.State))

	var cmds []tea.Cmd
	for _, eff := range effects {
		cmds = append(cmds, m.run(eff))
	}
	return tea.Batch(cmds...)
}

func (m *Model) run(eff lifecycle.Effect) tea.Cmd {
	switch e := eff.(type) {
	case lifecycle.SaveSession:
		if err := m.opts.Store.Save(e.Name); err != nil {
			log.Error().Err(err).Msg("[session] save failed")
			m.toast("Could not remember your name: "+err.Error(), model.ToastError)
		}
		m.status.SetName(e.Name)

	case lifecycle.ClearSession:
		if err := m.opts.Store.Clear(); err != nil {
			log.Error().Err(err).Msg("[session] clear failed")
		}
		m.status.SetName("")

	case lifecycle.OpenChannel:
		return m.openChannel(e)

	case lifecycle.SendLogin:
		if !m.live(e.Seq) {
			return nil
		}
		m.status.SetOnline(true)
		m.status.SetName(e.Name)
		// the login frame must be on the wire before any reply is read
		return tea.Sequence(m.channel.LoginCmd(e.Name), m.channel.ReadCmd())

	case lifecycle.CloseChannel:
		m.closeChannel()

	case lifecycle.ScheduleReconnect:
		log.Info().Msgf("[ws] reconnecting %q in %s (attempt %d)", e.Name, e.Delay, e.Attempt)
		m.status.SetOnline(false)
		m.input.Blur()
		cmd := m.login.Connecting(reconnectText(e.Delay, e.Attempt))
		seq := e.Seq
		return tea.Batch(cmd, tea.Tick(e.Delay, func(time.Time) tea.Msg {
			return msg.ReconnectTimer{Seq: seq}
		}))

	case lifecycle.ShowLogin:
		m.status.SetOnline(false)
		m.input.Blur()
		return m.login.Show()

	case lifecycle.HideLogin:
		m.login.Hide()
		m.layout()
		return m.input.Focus()

	case lifecycle.ClearTranscript:
		m.chat.Clear()

	case lifecycle.ShowError:
		log.Error().Err(e.Err).Msg("[app] connection attempt abandoned")
		m.login.SetError(errorText(e.Err))
	}
	return nil
}

// openChannel resolves the endpoint, pre-warms the backend if configured,
// and dials. The previous channel, if any, is closed first.
func (m *Model) openChannel(e lifecycle.OpenChannel) tea.Cmd {
	m.closeChannel()
	m.status.SetOnline(false)
	m.status.SetName(e.Name)

	cfg := m.opts.Config
	ep, err := endpoint.Resolve(endpoint.Env{BackendURL: cfg.BackendURL, Origin: cfg.Origin})
	if err != nil {
		log.Error().Err(err).Msg("[ws] cannot resolve backend endpoint")
		return m.apply(lifecycle.ConfigFailed{Seq: e.Seq, Err: err})
	}
	m.banner.SetBackend(ep.WS)
	m.connectStart = time.Now()
	log.Info().Msgf("[ws] attempt %d: connecting %q to %s", e.Seq, e.Name, ep.WS)

	cmds := []tea.Cmd{m.login.Connecting(textConnecting)}
	if d := cfg.SlowConnectNotice.Duration; d > 0 {
		seq := e.Seq
		cmds = append(cmds, tea.Tick(d, func(time.Time) tea.Msg { return msg.SlowConnect{Seq: seq} }))
	}
	if cfg.WakeAttempts > 0 {
		cmds = append(cmds, client.HealthCmd(m.ctx, m.opts.HTTP, ep, e.Seq, 0))
	} else {
		cmds = append(cmds, client.DialCmd(m.ctx, m.opts.Dialer, ep.WS, e.Seq))
	}
	return tea.Batch(cmds...)
}

// handleHealth dials once the backend answers or the wake budget is spent,
// and otherwise polls again after the wake interval.
func (m *Model) handleHealth(h client.HealthEvent) tea.Cmd {
	if !m.attemptPending(h.Seq) {
		return nil
	}
	cfg := m.opts.Config
	ep := m.currentEndpoint()
	if h.Err == nil || h.Attempt >= cfg.WakeAttempts {
		if h.Err != nil {
			log.Warn().Err(h.Err).Msgf("[ws] backend still not healthy after %d polls; dialing anyway", h.Attempt)
		}
		return client.DialCmd(m.ctx, m.opts.Dialer, ep.WS, h.Seq)
	}
	log.Debug().Err(h.Err).Msgf("[ws] health poll %d failed", h.Attempt)
	m.login.Connecting(waitingText(time.Since(m.connectStart)))
	seq, next := h.Seq, h.Attempt+1
	return tea.Tick(cfg.WakeInterval.Duration, func(time.Time) tea.Msg {
		return msg.WakeTimer{Seq: seq, Attempt: next}
	})
}

func (m *Model) handleClosed(v client.ChannelClosedEvent) tea.Cmd {
	if m.channel != nil && m.channel.Seq == v.Seq {
		_ = m.channel.Close()
		m.channel = nil
	}
	if v.Seq != m.machine.Seq {
		return nil
	}
	_, remembered, err := m.opts.Store.Load()
	if err != nil {
		log.Warn().Err(err).Msg("[session] load failed after close")
	}
	ev := log.Info()
	if v.Err != nil {
		ev = log.Warn().Err(v.Err)
	}
	ev.Int("code", v.Code).Bool("remembered", remembered).Msgf("[ws] channel closed (attempt %d)", v.Seq)
	return m.apply(lifecycle.ChannelClosed{Seq: v.Seq, Err: v.Err, Remembered: remembered})
}

// attemptPending reports whether seq is the attempt currently connecting.
func (m *Model) attemptPending(seq uint64) bool {
	return seq == m.machine.Seq && m.machine.State == lifecycle.StateConnecting
}

// live reports whether seq belongs to the channel currently held.
func (m *Model) live(seq uint64) bool {
	return m.channel != nil && m.channel.Seq == seq && seq == m.machine.Seq
}

func (m *Model) currentEndpoint() endpoint.Endpoint {
	cfg := m.opts.Config
	ep, _ := endpoint.Resolve(endpoint.Env{BackendURL: cfg.BackendURL, Origin: cfg.Origin})
	return ep
}

func (m *Model) closeChannel() {
	if m.channel == nil {
		return
	}
	log.Info().Str("channel", m.channel.ID).Msg("[ws] closing channel")
	_ = m.channel.Close()
	m.channel = nil
}

// -- layout --

func (m *Model) toast(text string, level model.ToastLevel) {
	m.toasts.Add(text, level)
	m.layout()
}

// layout resizes the chat viewport to the space left by the other sections.
func (m *Model) layout() {
	m.chat.SetSize(m.width, m.chatHeight())
}

func (m Model) chatHeight() int {
	reserved := countLines(m.banner.View()) + countLines(m.status.View()) +
		countLines(m.input.View()) + countLines(m.helpView())
	if m.toasts.HasToasts() {
		reserved += countLines(m.toasts.View(m.width))
	}
	h := m.height - reserved
	if h < 5 {
		h = 5
	}
	return h
}

func (m Model) helpView() string {
	return m.help.ShortHelpView(m.keys.ShortHelp())
}

func countLines(s string) int {
	if s == "" {
		return 0
	}
	return lipgloss.Height(s)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return msg.TickMsg{} })
}
