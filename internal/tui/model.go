package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"recipechef/internal/domain"
	"recipechef/internal/service"
)

// ChefPort is the TUI-facing subset of the chef service.
type ChefPort interface {
	Ask(ctx context.Context, req service.AskRequest) (domain.ConversationTurn, error)
	MealPlan(ctx context.Context, ownerID string) (string, error)
	SaveFavourite(ctx context.Context, ownerID string, turn domain.ConversationTurn) (domain.Favourite, error)
	SetProfile(ctx context.Context, userID string, profile domain.DietaryProfile) error
}

// Model is the Bubble Tea model for the chat client.
type Model struct {
	chef    ChefPort
	ownerID string

	input    textinput.Model
	viewport viewport.Model

	transcript []string
	prior      *domain.ConversationTurn
	status     string
	busy       bool
	ready      bool
}

type answerMsg struct {
	turn domain.ConversationTurn
	err  error
}

type planMsg struct {
	plan string
	err  error
}

type savedMsg struct {
	fav domain.Favourite
	err error
}

// New creates a chat model bound to one user.
func New(chef ChefPort, ownerID string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about your cookbooks (/mealplan, /fav, /prefs, /quit)"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		chef:     chef,
		ownerID:  ownerID,
		input:    ti,
		viewport: vp,
		status:   "Ready. Ask a cooking question.",
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		// account for frames around transcript and input boxes
		_, th := transcriptBoxStyle.GetFrameSize()
		_, ih := inputBoxStyle.GetFrameSize()
		reserved := 1 + 1 + ih + 1 // header, status, input frame, spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-th)
		m.viewport.SetContent(m.renderTranscript())
		return m, nil

	case answerMsg:
		m.busy = false
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
		} else {
			m.prior = &msg.turn
			m.transcript = append(m.transcript,
				answerStyle.Render(msg.turn.Answer)+provenanceLine(msg.turn.SourceDocuments))
			m.status = "Answered. /fav saves this recipe."
		}
		m.viewport.SetContent(m.renderTranscript())
		m.viewport.GotoBottom()
		return m, nil

	case planMsg:
		m.busy = false
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
		} else {
			m.transcript = append(m.transcript, answerStyle.Render(msg.plan))
			m.status = "Meal plan ready."
		}
		m.viewport.SetContent(m.renderTranscript())
		m.viewport.GotoBottom()
		return m, nil

	case savedMsg:
		m.busy = false
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
		} else {
			m.status = fmt.Sprintf("Saved %q to favourites.", msg.fav.RecipeName)
		}
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			if m.busy {
				return m, nil
			}
			line := strings.TrimSpace(m.input.Value())
			if line == "" {
				return m, nil
			}
			m.input.SetValue("")
			return m.submit(line)
		case "up":
			m.viewport.LineUp(1)
			return m, nil
		case "down":
			m.viewport.LineDown(1)
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit(line string) (tea.Model, tea.Cmd) {
	switch {
	case line == "/quit":
		return m, tea.Quit

	case line == "/mealplan":
		m.busy = true
		m.status = "Planning the week..."
		m.transcript = append(m.transcript, questionStyle.Render("you: /mealplan"))
		m.viewport.SetContent(m.renderTranscript())
		chef, owner := m.chef, m.ownerID
		return m, func() tea.Msg {
			plan, err := chef.MealPlan(context.Background(), owner)
			return planMsg{plan: plan, err: err}
		}

	case line == "/fav":
		if m.prior == nil {
			m.status = "Nothing to save yet."
			return m, nil
		}
		m.busy = true
		m.status = "Saving..."
		chef, owner, turn := m.chef, m.ownerID, *m.prior
		return m, func() tea.Msg {
			fav, err := chef.SaveFavourite(context.Background(), owner, turn)
			return savedMsg{fav: fav, err: err}
		}

	case strings.HasPrefix(line, "/prefs"):
		profile := parseProfile(strings.TrimPrefix(line, "/prefs"))
		if err := m.chef.SetProfile(context.Background(), m.ownerID, profile); err != nil {
			m.status = "Error: " + err.Error()
		} else if len(profile) == 0 {
			m.status = "Dietary preferences cleared."
		} else {
			m.status = "Dietary preferences set: " + strings.Join(profile, ", ")
		}
		return m, nil

	default:
		m.busy = true
		m.status = "Thinking..."
		m.transcript = append(m.transcript, questionStyle.Render("you: "+line))
		m.viewport.SetContent(m.renderTranscript())
		m.viewport.GotoBottom()
		chef, owner, prior := m.chef, m.ownerID, m.prior
		return m, func() tea.Msg {
			turn, err := chef.Ask(context.Background(), service.AskRequest{
				OwnerID:  owner,
				Question: line,
				Prior:    prior,
			})
			return answerMsg{turn: turn, err: err}
		}
	}
}

// View renders the TUI layout and conversation.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Recipe Chef")
	transcript := transcriptBoxStyle.Render(m.viewport.View())
	input := inputBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	return header + "\n" + transcript + "\n" + input + "\n" + status
}

func (m Model) renderTranscript() string {
	if len(m.transcript) == 0 {
		return "No conversation yet. Ask about a recipe from your cookbooks."
	}
	return strings.Join(m.transcript, "\n\n")
}

func provenanceLine(sources []string) string {
	if len(sources) == 0 {
		return ""
	}
	return "\n" + sourceStyle.Render("from: "+strings.Join(sources, ", "))
}

func parseProfile(s string) domain.DietaryProfile {
	var profile domain.DietaryProfile
	for _, part := range strings.Split(s, ",") {
		tag := strings.ToLower(strings.TrimSpace(part))
		if tag != "" && !profile.Has(tag) {
			profile = append(profile, tag)
		}
	}
	return profile
}

var (
	transcriptBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	questionStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	answerStyle        = lipgloss.NewStyle()
	sourceStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
