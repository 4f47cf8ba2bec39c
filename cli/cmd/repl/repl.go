package repl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/laddr/addr"
	"github.com/ardnew/laddr/buffer"
	"github.com/ardnew/laddr/log"
)

const prompt = "➜ "

// maxDisplay is the number of selected lines printed for one address.
const maxDisplay = 200

func helpMessage() string {
	return `
Commands:

  :help                 Print this cruft
  :marks                List marks
  :mark NAME [ADDRESS]  Store ADDRESS, or the last result, as mark NAME
  :cursor [RANGE]       Print or set the cursor (e.g. 4 or 2-5,9)
  :clear                Clear screen
  :quit                 Exit REPL

Addresses:

  N  $  .  %  'mark  /regex/  !addr  (addr)  N-M  N^k
  a+b union   a*b intersect   a& block   a^k offset
  a#k expand  a##k expand both ways

Usage:
  Type an address to print the lines it selects
  Completions appear automatically as you type
  Press Tab / Shift-Tab to cycle through candidates
  Use Up/Down arrows for history navigation
  Press Ctrl+C on empty line or Ctrl+D to exit
`
}

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	indexStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

// formatCommand formats the command echo line with prompt and input styled.
func formatCommand(input string) string {
	return promptStyle.Render(prompt) + inputStyle.Render(input)
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc      func() context.Context
	input        textinput.Model
	snap         *buffer.Snapshot
	opts         []addr.Option
	logger       log.Logger
	history      *History
	historyIdx   int
	last         *addr.Range   // most recent successful result
	matches      fuzzy.Matches // current fuzzy match results
	candidates   []string      // backing candidate list
	wordStart    int           // byte offset of current word start
	wordEnd      int           // byte offset of current word end
	suggIdx      int           // selected candidate index
	tabActive    bool          // whether user is tab-cycling
	preTabText   string        // input text before tab-cycling began
	preTabCursor int           // cursor position before tab-cycling began
	width        int           // terminal width for ellipsization
	quitting     bool
}

// Run starts the REPL over the given snapshot. Addresses are parsed and
// evaluated with opts. History is kept in cacheDir.
func Run(
	ctx context.Context,
	snap *buffer.Snapshot,
	cacheDir string,
	logger log.Logger,
	opts ...addr.Option,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	logger.TraceContext(
		ctx,
		"repl start",
		slog.String("cache_dir", cacheDir),
		slog.Int("lines", snap.Len()),
		slog.Int("marks", len(snap.MarkNames())),
	)

	var historyPath string
	if cacheDir != "" {
		historyPath = filepath.Join(cacheDir, baseHistory)
	}

	history := NewHistory(historyPath)
	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history", slog.Any("error", err))
	}

	logger.TraceContext(
		ctx,
		"repl history loaded",
		slog.Int("entry_count", history.Len()),
	)

	m := newModel(ctx, snap, history, logger, opts...)

	p := tea.NewProgram(m, tea.WithContext(ctx))
	_, err = p.Run()

	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}

	return err
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	snap *buffer.Snapshot,
	history *History,
	logger log.Logger,
	opts ...addr.Option,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(prompt)
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		snap:       snap,
		opts:       append([]addr.Option{addr.WithLogger(logger)}, opts...),
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		suggIdx:    -1,
		width:      defaultWidth,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(prompt) - 2

		return m, nil
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")

	input := m.input.Value()

	switch {
	case m.historyIdx < m.history.Len():
		hint := fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len())
		b.WriteString(hintStyle.Render(hint))

	case strings.TrimSpace(input) == "":
		b.WriteString(hintStyle.Render(
			fmt.Sprintf("%d lines, cursor %s. Type an address or :help",
				m.snap.Len(), m.snap.Cursor()),
		))

	case len(m.matches) > 0:
		b.WriteString(renderCandidateBar(
			m.matches, m.suggIdx, m.tabActive, m.width,
		))
	}

	b.WriteString("\n")

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(
		m.ctxFunc(),
		"repl keypress",
		slog.String("key", msg.String()),
		slog.Int("type", int(msg.Type)),
	)

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		refreshMatches(&m, false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if !m.tabActive || len(m.matches) == 0 {
			return m.executeInput()
		}
		// Lock in the current tab candidate without executing.
		m.tabActive = false
		refreshMatches(&m, true)

		return m, nil

	case tea.KeyTab:
		return m.cycle(1)

	case tea.KeyShiftTab:
		return m.cycle(-1)

	case tea.KeyUp:
		return m.historyMove(-1)

	case tea.KeyDown:
		return m.historyMove(1)

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refreshMatches(&m, false)
		}

		return m, nil

	case tea.KeyRunes:
		var cmd tea.Cmd

		m.tabActive = false
		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		refreshMatches(&m, true)

		return m, cmd
	}

	// For any other key (backspace, delete, arrows, etc.),
	// update input and recompute matches without auto-confirm.
	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m, false)

	return m, cmd
}

// cycle moves the tab selection by step, starting tab-cycling if needed.
func (m model) cycle(step int) (model, tea.Cmd) {
	if len(m.matches) == 0 {
		return m, nil
	}

	// Single candidate: complete and confirm immediately.
	if len(m.matches) == 1 {
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m, nil
	}

	if m.tabActive {
		m.suggIdx = (m.suggIdx + step + len(m.matches)) % len(m.matches)
	} else {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()

		m.suggIdx = 0
		if step < 0 {
			m.suggIdx = len(m.matches) - 1
		}
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m, nil
}

// replaceCurrentWord replaces the current word boundaries in the input with
// the given replacement text and repositions the cursor.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	newInput := input[:m.wordStart] + replacement + input[m.wordEnd:]
	newCursor := m.wordStart + len(replacement)

	m.input.SetValue(newInput)
	m.input.SetCursor(newCursor)

	m.wordEnd = newCursor
}

// refreshMatches recomputes fuzzy matches for the current input state.
// When autoConfirm is true it also auto-confirms the completion when exactly
// one candidate remains and the typed word already equals that candidate.
func refreshMatches(m *model, autoConfirm bool) {
	m.matches, m.candidates, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	if m.input.Value()[m.wordStart:m.wordEnd] == m.matches[0].Str {
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil
	}
}

func (m model) historyMove(step int) (model, tea.Cmd) {
	idx := m.historyIdx + step

	switch {
	case idx < 0:
		return m, nil

	case idx >= m.history.Len():
		m.historyIdx = m.history.Len()
		m.input.SetValue("")

	default:
		line, err := m.history.GetLine(idx)
		if err != nil {
			return m, nil
		}

		m.historyIdx = idx
		m.input.SetValue(line)
		m.input.SetCursor(len(line))
	}

	refreshMatches(&m, false)

	return m, nil
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())

	m.input.SetValue("")
	m.matches = nil
	m.tabActive = false

	if input != "" {
		if _, err := m.history.Write(input); err != nil {
			m.logger.WarnContext(m.ctxFunc(), "could not save history",
				slog.Any("error", err))
		}
	}

	m.historyIdx = m.history.Len()

	echo := tea.Println(formatCommand(input))

	if strings.HasPrefix(input, ":") {
		var (
			out string
			cmd tea.Cmd
		)

		m, out, cmd = m.executeCommand(input)

		if out == "" {
			return m, tea.Sequence(echo, cmd)
		}

		return m, tea.Sequence(echo, tea.Println(out), cmd)
	}

	var out string

	m, out = m.evaluate(input)

	return m, tea.Sequence(echo, tea.Println(out))
}

// evaluate evaluates src against the snapshot and renders the selected
// lines. An empty src selects the cursor.
func (m model) evaluate(src string) (model, string) {
	ctx := m.ctxFunc()

	m.logger.TraceContext(ctx, "repl eval", slog.String("input", src))

	r, rest, err := m.resolve(src)
	if err != nil {
		return m, errorStyle.Render("error: " + err.Error())
	}

	m.last = &r

	var b strings.Builder

	in := m.snap.Clip(r)
	shown := 0

	for i := range in.All() {
		if shown == maxDisplay {
			b.WriteString(hintStyle.Render(
				fmt.Sprintf("... %d more", in.Len()-shown),
			))
			b.WriteString("\n")

			break
		}

		text, _ := m.snap.Line(i)

		b.WriteString(indexStyle.Render(fmt.Sprintf("%6d", i)))
		b.WriteString("  ")
		b.WriteString(text)
		b.WriteString("\n")

		shown++
	}

	summary := fmt.Sprintf("%s (%d)", r, r.Len())
	if rest != "" {
		summary += " ignored: " + strconv.Quote(rest)
	}

	b.WriteString(resultStyle.Render(summary))

	return m, b.String()
}

// resolve parses and evaluates src against the snapshot.
func (m model) resolve(src string) (addr.Range, string, error) {
	ctx := m.ctxFunc()

	a, err := addr.Parse(ctx, src, m.opts...)
	if err != nil {
		return addr.Range{}, "", err
	}

	r, err := a.Eval(ctx, m.snap)
	if err != nil {
		return addr.Range{}, "", err
	}

	return r, a.Rest(), nil
}

// executeCommand runs a control command and returns its rendered output.
func (m model) executeCommand(input string) (model, string, tea.Cmd) {
	name, args, _ := strings.Cut(input, " ")
	args = strings.TrimSpace(args)

	m.logger.TraceContext(
		m.ctxFunc(),
		"repl command",
		slog.String("command", name),
		slog.String("args", args),
	)

	switch name {
	case ":q", ":quit", ":exit":
		m.quitting = true

		return m, "", tea.Quit

	case ":h", ":help":
		return m, helpMessage(), nil

	case ":clear":
		return m, "", tea.ClearScreen

	case ":marks":
		return m, m.listMarks(), nil

	case ":cursor":
		return m.setCursor(args)

	case ":mark":
		return m.setMark(args)

	default:
		return m, errorStyle.Render(
			fmt.Sprintf("%s: %s", ErrUnknownCommand, name),
		), nil
	}
}

func (m model) listMarks() string {
	names := m.snap.MarkNames()
	if len(names) == 0 {
		return hintStyle.Render("  (no marks)")
	}

	var b strings.Builder

	for i, name := range names {
		r, _ := m.snap.Mark(name)

		if i > 0 {
			b.WriteString("\n")
		}

		fmt.Fprintf(&b, "  '%s %s", name, hintStyle.Render(r.String()))
	}

	return b.String()
}

func (m model) setCursor(args string) (model, string, tea.Cmd) {
	if args == "" {
		return m, resultStyle.Render(m.snap.Cursor().String()), nil
	}

	r, err := addr.ParseRange(args)
	if err != nil {
		return m, errorStyle.Render("error: " + err.Error()), nil
	}

	m.snap = m.snap.With(buffer.WithCursor(r))

	return m, resultStyle.Render("cursor " + r.String()), nil
}

func (m model) setMark(args string) (model, string, tea.Cmd) {
	name, src, _ := strings.Cut(args, " ")
	src = strings.TrimSpace(src)

	if name == "" {
		return m, errorStyle.Render(
			ErrUsage.Error() + ": :mark NAME [ADDRESS]",
		), nil
	}

	if !addr.IsMarkName(name) {
		return m, errorStyle.Render(
			fmt.Sprintf("%s: %q", ErrInvalidMarkName, name),
		), nil
	}

	var r addr.Range

	switch {
	case src != "":
		var err error

		r, _, err = m.resolve(src)
		if err != nil {
			return m, errorStyle.Render("error: " + err.Error()), nil
		}

	case m.last != nil:
		r = *m.last

	default:
		return m, errorStyle.Render(ErrNoResult.Error()), nil
	}

	m.snap = m.snap.With(buffer.WithMark(name, r))

	return m, resultStyle.Render(fmt.Sprintf("'%s %s", name, r)), nil
}
