package installer

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

const defaultModel = "gpt-4o-mini"

var suggestedModels = []string{"gpt-4o-mini", "gpt-4o", "gpt-4.1-mini", "gpt-4.1"}

// ModelStep allows selection of the chat model offered by the backend
type ModelStep struct {
	list     list.Model
	loading  bool
	fetching bool // Ensures we only trigger the API call once
	err      error
}

func NewModelStep() Step {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Select Chat Model"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle

	return &ModelStep{
		list:    l,
		loading: true,
	}
}

func (s *ModelStep) Init() tea.Cmd {
	return func() tea.Msg { return nextMsg{} }
}

func modelItems(ids []string) []list.Item {
	items := make([]list.Item, 0, len(ids))
	for _, id := range ids {
		desc := "ID: " + id
		if id == defaultModel {
			desc += " | default"
		}
		items = append(items, item{id: id, title: id, desc: desc})
	}
	return items
}

func (s *ModelStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	// 1. Trigger fetch once when we enter the step
	if s.loading && !s.fetching {
		s.fetching = true
		apiKey, baseURL := state.Answers.APIKey, state.Answers.BaseURL
		lister := state.ListModels

		return s, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			ids, err := lister(ctx, apiKey, baseURL)
			if err != nil {
				return errMsg(err)
			}
			if len(ids) == 0 {
				ids = suggestedModels
			}
			return modelsMsg(modelItems(ids))
		}
	}

	// Update list size
	s.list.SetSize(width, height-4)

	var cmd tea.Cmd
	switch msg := msg.(type) {
	case modelsMsg:
		s.list.SetItems(msg)
		s.loading = false
		return s, nil

	case errMsg:
		// Offer the usual suspects; the backend may not implement /models
		s.err = msg
		s.list.SetItems(modelItems(suggestedModels))
		s.loading = false
		return s, nil

	case tea.KeyMsg:
		if s.loading {
			return s, nil
		}
		if msg.String() == "enter" {
			wasFiltering := s.list.FilterState() == list.Filtering
			s.list, cmd = s.list.Update(msg)

			if wasFiltering || s.list.FilterState() == list.Filtering {
				return s, cmd
			}

			if i, ok := s.list.SelectedItem().(item); ok {
				state.Answers.Model = i.id
				return nil, nil
			}
			return s, cmd
		}
	}

	s.list, cmd = s.list.Update(msg)
	return s, cmd
}

func (s *ModelStep) View(state *InstallState) string {
	if s.loading {
		return "Fetching available models...\n"
	}
	if s.err != nil {
		return errorStyle.Render(fmt.Sprintf("Could not fetch models: %v", s.err)) + "\n\n" + s.list.View()
	}
	return s.list.View()
}
