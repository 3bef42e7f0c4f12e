package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/muesli/reflow/wordwrap"

	"github.com/tugruldev/lighthouse-quest/pkg/chat"
	"github.com/tugruldev/lighthouse-quest/pkg/lang"
	"github.com/tugruldev/lighthouse-quest/pkg/state"
	"github.com/tugruldev/lighthouse-quest/pkg/world"
)

const (
	AgentName       = "Keeper"
	PlaceHolderText = "What do you do?"
)

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config       *ConsoleConfig
	client       *http.Client
	world        *world.World
	gameState    state.GameState
	transcript   []chat.ChatMessage
	chatViewport viewport.Model
	metaViewport viewport.Model
	textarea     textarea.Model
	ready        bool
	width        int
	height       int
	err          error
	loading      bool

	// Language selection state. The locale is fixed for the session once
	// chosen.
	showLanguageModal bool
	selectedLanguage  int

	// Quit confirmation state
	showQuitModal bool

	// Progress bar state
	progressTick int
}

type interpretMsg struct {
	response *chat.InterpretResponse
	err      error
}

type sessionSavedMsg struct {
	id  uuid.UUID
	err error
}

type sessionLoadedMsg struct {
	gameState *state.GameState
	err       error
}

type progressTickMsg struct{}

var languageChoices = []struct {
	tag   string
	label string
}{
	{lang.English, "English"},
	{lang.Turkish, "Türkçe"},
}

var (
	chatPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")). // beacon yellow
			Bold(true)

	narratorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	passwordStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("213")).
			Bold(true)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")).
			Bold(true).
			Align(lipgloss.Center)

	modalItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	modalSelectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("220")).
				Bold(true)

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey
)

func NewConsoleUI(cfg *ConsoleConfig, client *http.Client) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = chat.MaxInputLength
	ta.SetWidth(50)
	ta.SetHeight(3)
	ta.ShowLineNumbers = false

	chatVp := viewport.New(50, 20)
	chatVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	return ConsoleUI{
		config:            cfg,
		client:            client,
		world:             world.MustLoad(),
		textarea:          ta,
		chatViewport:      chatVp,
		metaViewport:      metaVp,
		ready:             false,
		showLanguageModal: true,
	}
}

func (m *ConsoleUI) startGame(locale string) {
	m.gameState = state.NewGameState(m.world, locale)
	m.transcript = nil

	if room, ok := m.world.GetRoom(m.gameState.CurrentRoomID); ok {
		m.transcript = append(m.transcript, chat.ChatMessage{
			Role:    chat.ChatRoleAgent,
			Content: room.Long[m.gameState.Language],
		})
	}
}

func (m *ConsoleUI) writeChatContent() {
	chatWidth := m.chatViewport.Width - 6

	var content strings.Builder
	content.WriteString(titleStyle.Render("LIGHTHOUSE QUEST") + "\n\n")
	content.WriteString("Type what you want to do and press Enter.\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", max(chatWidth-6, 10))) + "\n\n")

	for _, msg := range m.transcript {
		switch msg.Role {
		case chat.ChatRoleAgent, chat.ChatRoleSystem:
			wrapped := wordwrap.String(msg.Content, chatWidth-6)
			content.WriteString(narratorStyle.Render(AgentName+": ") + wrapped + "\n\n")
		case chat.ChatRoleUser:
			content.WriteString(userStyle.Render("You: ") + wordwrap.String(msg.Content, chatWidth-6) + "\n\n")
		}
	}

	if m.gameState.GameComplete && m.gameState.Password != "" {
		content.WriteString(passwordStyle.Render("The beacon burns. Password: "+m.gameState.Password) + "\n\n")
	}

	if m.loading {
		content.WriteString(m.renderProgressBar())
	}

	m.chatViewport.SetContent(content.String())
	m.chatViewport.GotoBottom()
}

func (m *ConsoleUI) writeMetadata() {
	var content strings.Builder
	content.WriteString(titleStyle.Render("GAME STATE") + "\n\n")

	content.WriteString("Room:\n")
	if room, ok := m.world.GetRoom(m.gameState.CurrentRoomID); ok {
		content.WriteString(room.Name[m.gameState.Language] + "\n\n")
	} else {
		content.WriteString(m.gameState.CurrentRoomID + "\n\n")
	}

	content.WriteString("Inventory:\n")
	if len(m.gameState.Inventory) == 0 {
		content.WriteString("(empty)\n\n")
	} else {
		for _, item := range m.gameState.Inventory {
			content.WriteString("• " + item + "\n")
		}
		content.WriteString("\n")
	}

	content.WriteString(fmt.Sprintf("Progress: %d/6\n\n", m.gameState.PuzzleProgress.Count()))

	if m.gameState.GameComplete {
		content.WriteString(passwordStyle.Render("COMPLETE") + "\n")
		content.WriteString(m.gameState.Password + "\n\n")
	}

	content.WriteString("Language: " + m.gameState.Language + "\n\n")

	content.WriteString("Commands:\n")
	content.WriteString("• Ctrl+C: Quit\n")
	content.WriteString("• Enter: Send\n")
	content.WriteString("• /save: Save game\n")
	content.WriteString("• /load <id>: Load\n")
	content.WriteString("• /help: Help\n")

	m.metaViewport.SetContent(content.String())
}

func (m ConsoleUI) Init() tea.Cmd {
	return textarea.Blink
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showLanguageModal {
		return m.updateLanguageModal(msg)
	}
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		mvCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.chatViewport, vpCmd = m.chatViewport.Update(msg)
		return m, vpCmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.writeChatContent()
		m.writeMetadata()
		m.ready = true

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyEnter:
			if m.loading {
				return m, nil
			}

			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				return m, nil
			}

			if strings.HasPrefix(input, "/") {
				return m.handleCommand(input)
			}

			m.textarea.Reset()
			m.loading = true
			m.progressTick = 0

			m.transcript = append(m.transcript, chat.ChatMessage{
				Role:    chat.ChatRoleUser,
				Content: input,
			})
			m.writeChatContent()

			return m, tea.Batch(m.sendInterpret(input), progressTick())
		}

	case interpretMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			m.transcript = append(m.transcript, chat.ChatMessage{
				Role:    chat.ChatRoleSystem,
				Content: errorStyle.Render("The fog swallows your words: " + msg.err.Error()),
			})
		} else {
			// The response snapshot is authoritative.
			if msg.response.State != nil {
				m.gameState = *msg.response.State
			}
			m.transcript = append(m.transcript, chat.ChatMessage{
				Role:    chat.ChatRoleAgent,
				Content: msg.response.Narration,
			})
		}
		m.writeChatContent()
		m.writeMetadata()
		return m, nil

	case sessionSavedMsg:
		if msg.err != nil {
			m.transcript = append(m.transcript, chat.ChatMessage{
				Role:    chat.ChatRoleSystem,
				Content: errorStyle.Render("Save failed: " + msg.err.Error()),
			})
		} else {
			m.transcript = append(m.transcript, chat.ChatMessage{
				Role:    chat.ChatRoleSystem,
				Content: "Game saved. Resume with /load " + msg.id.String(),
			})
		}
		m.writeChatContent()
		return m, nil

	case sessionLoadedMsg:
		if msg.err != nil {
			m.transcript = append(m.transcript, chat.ChatMessage{
				Role:    chat.ChatRoleSystem,
				Content: errorStyle.Render("Load failed: " + msg.err.Error()),
			})
		} else {
			m.gameState = *msg.gameState
			m.transcript = append(m.transcript, chat.ChatMessage{
				Role:    chat.ChatRoleSystem,
				Content: "Game loaded.",
			})
		}
		m.writeChatContent()
		m.writeMetadata()
		return m, nil

	case progressTickMsg:
		if m.loading {
			m.progressTick++
			m.writeChatContent()
			return m, progressTick()
		}
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.chatViewport, vpCmd = m.chatViewport.Update(msg)
	m.metaViewport, mvCmd = m.metaViewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, mvCmd)
}

func (m *ConsoleUI) resize() {
	chatWidth := int(float64(m.width)*0.75) - 4
	metaWidth := m.width - chatWidth - 6

	m.chatViewport.Width = chatWidth - 2
	m.chatViewport.Height = m.height - 7
	m.metaViewport.Width = metaWidth - 2
	m.metaViewport.Height = m.height - 4
	m.textarea.SetWidth(chatWidth - 4)
}

func (m ConsoleUI) handleCommand(input string) (tea.Model, tea.Cmd) {
	fields := strings.Fields(strings.TrimSpace(input))
	cmd := strings.ToLower(fields[0])

	m.textarea.Reset()

	switch cmd {
	case "/help":
		helpText := `
Commands:
• /help - Show this help
• /save - Save your game server-side
• /load <id> - Resume a saved game
• Ctrl+C - Quit game

How to play:
• Type your actions in plain language and press Enter
• The keeper narrates what happens
• Light the beacon to win
`
		m.transcript = append(m.transcript, chat.ChatMessage{
			Role:    chat.ChatRoleSystem,
			Content: helpText,
		})
		m.writeChatContent()
		return m, nil

	case "/save":
		return m, m.saveGame()

	case "/load":
		if len(fields) < 2 {
			m.transcript = append(m.transcript, chat.ChatMessage{
				Role:    chat.ChatRoleSystem,
				Content: "Usage: /load <session id>",
			})
			m.writeChatContent()
			return m, nil
		}
		id, err := uuid.Parse(fields[1])
		if err != nil {
			m.transcript = append(m.transcript, chat.ChatMessage{
				Role:    chat.ChatRoleSystem,
				Content: "Invalid session id.",
			})
			m.writeChatContent()
			return m, nil
		}
		return m, m.loadGame(id)
	}

	return m, nil
}

func (m ConsoleUI) sendInterpret(input string) tea.Cmd {
	return func() tea.Msg {
		resp, err := interpret(m.client, m.config.APIBaseURL, input, m.gameState)
		return interpretMsg{resp, err}
	}
}

func (m ConsoleUI) saveGame() tea.Cmd {
	return func() tea.Msg {
		id, err := saveSession(m.client, m.config.APIBaseURL, m.gameState)
		return sessionSavedMsg{id, err}
	}
}

func (m ConsoleUI) loadGame(id uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		gs, err := loadSession(m.client, m.config.APIBaseURL, id)
		return sessionLoadedMsg{gs, err}
	}
}

func (m ConsoleUI) updateLanguageModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyUp:
			if m.selectedLanguage > 0 {
				m.selectedLanguage--
			}
		case tea.KeyDown:
			if m.selectedLanguage < len(languageChoices)-1 {
				m.selectedLanguage++
			}
		case tea.KeyEnter:
			m.startGame(languageChoices[m.selectedLanguage].tag)
			m.showLanguageModal = false
			if m.width > 0 && m.height > 0 {
				m.resize()
				m.writeChatContent()
				m.writeMetadata()
				m.ready = true
			}
			m.textarea.Focus()
			return m, textarea.Blink
		}
	}

	return m, nil
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				m.textarea.Focus()
				return m, textarea.Blink
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) renderLanguageModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Choose your language / Dilinizi seçin"))
	content.WriteString("\n\n")

	for i, choice := range languageChoices {
		if i == m.selectedLanguage {
			content.WriteString(modalSelectedItemStyle.Render(fmt.Sprintf("▶ %s", choice.label)))
		} else {
			content.WriteString(modalItemStyle.Render(fmt.Sprintf("  %s", choice.label)))
		}
		content.WriteString("\n")
	}

	content.WriteString("\n")
	content.WriteString(promptStyle.Render("Use ↑/↓ to navigate, Enter to select, Ctrl+C to exit"))

	modal := modalStyle.Width(60).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Quit Game?"))
	content.WriteString("\n\n")
	content.WriteString("Are you sure you want to leave the lighthouse?")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showLanguageModal {
		return m.renderLanguageModal()
	}
	if m.showQuitModal {
		return m.renderQuitModal()
	}
	if !m.ready {
		return "\n  Initializing..."
	}

	chatWidth := int(float64(m.width)*0.75) - 4
	metaWidth := m.width - chatWidth - 6

	chatPanel := chatPanelStyle.Width(chatWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.chatViewport.View(),
			"",
			separatorStyle.Render(strings.Repeat("─", max(chatWidth-4, 10))),
			m.textarea.View(),
		),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, chatPanel, metaPanel)
}

// renderProgressBar creates an animated progress bar for loading states.
func (m ConsoleUI) renderProgressBar() string {
	usable := m.chatViewport.Width - 6
	if usable <= 0 {
		usable = 30
	}
	if usable > 80 {
		usable = 80
	} else if usable < 10 {
		usable = 10
	}

	const totalFrames = 40
	frame := m.progressTick % totalFrames
	filled := (frame * usable) / totalFrames

	var bar strings.Builder
	for i := 0; i < usable; i++ {
		switch {
		case i < filled:
			bar.WriteString("█")
		case i == filled && frame%4 < 2:
			bar.WriteString("▓")
		default:
			bar.WriteString("░")
		}
	}
	return separatorStyle.Render(bar.String())
}

func progressTick() tea.Cmd {
	return tea.Tick(time.Millisecond*200, func(time.Time) tea.Msg {
		return progressTickMsg{}
	})
}
