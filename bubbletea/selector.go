package bubbletea

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pinnacledb/qtd"
)

// selectorPrompt is the entry meaning "no knowledge base selected".
const selectorPrompt = "Choose Documentation"

// Selector is a vertical list of the knowledge bases preceded by a prompt
// entry. It can only report a member of the enumeration or none.
type Selector struct {
	items   []qtd.KnowledgeBaseInfo
	cursor  int // 0 is the prompt; i+1 is items[i]
	focused bool
}

// NewSelector returns a Selector with nothing selected.
func NewSelector() Selector {
	return Selector{items: qtd.KnowledgeBases()}
}

// Selected returns the highlighted knowledge base, or "" when the prompt entry
// is highlighted.
func (s Selector) Selected() qtd.KnowledgeBase {
	if s.cursor == 0 {
		return ""
	}
	return s.items[s.cursor-1].ID
}

// Select highlights kb. Unknown values leave the selector unchanged.
func (s Selector) Select(kb qtd.KnowledgeBase) Selector {
	for i, info := range s.items {
		if info.ID == kb {
			s.cursor = i + 1
		}
	}
	return s
}

func (s *Selector) Focus() { s.focused = true }
func (s *Selector) Blur()  { s.focused = false }

// Update moves the highlight on up/down (or k/j) and reports whether the
// selection changed. Other messages are ignored, as is everything while blurred.
func (s Selector) Update(msg tea.Msg) (Selector, bool) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || !s.focused {
		return s, false
	}

	prev := s.cursor
	switch key.String() {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(s.items) {
			s.cursor++
		}
	case "home", "g":
		s.cursor = 0
	case "end", "G":
		s.cursor = len(s.items)
	}
	return s, s.cursor != prev
}

// View renders the list with the highlighted entry marked.
func (s Selector) View() string {
	labels := make([]string, 0, len(s.items)+1)
	labels = append(labels, selectorPrompt)
	for _, it := range s.items {
		labels = append(labels, it.Label)
	}

	var b strings.Builder
	for i, label := range labels {
		switch {
		case i == s.cursor && s.focused:
			b.WriteString(cursorStyle.Render("> " + label))
		case i == s.cursor:
			b.WriteString(selectedStyle.Render("* " + label))
		case i == 0:
			b.WriteString(dimStyle.Render("  " + label))
		default:
			b.WriteString("  " + label)
		}
		if i < len(labels)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
