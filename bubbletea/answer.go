package bubbletea

import (
	"fmt"
	"strings"

	"github.com/pinnacledb/qtd"
)

// RenderAnswer renders the answer region for s. spinner is the current spinner
// frame shown while a request is pending. The result depends only on its
// arguments.
func RenderAnswer(s qtd.Session, spinner string) string {
	switch s.State {
	case qtd.StatePending:
		return answerStyle.Render(strings.TrimSpace(spinner + " Thinking..."))
	case qtd.StateSucceeded:
		if s.Answer == nil {
			return ""
		}
		var b strings.Builder
		b.WriteString(s.Answer.Text)
		if len(s.Answer.Sources) > 0 {
			b.WriteString("\n\n")
			b.WriteString(sourceStyle.Render("Sources:"))
			for i, src := range s.Answer.Sources {
				b.WriteByte('\n')
				b.WriteString(sourceStyle.Render(fmt.Sprintf("  %d. %s", i+1, src)))
			}
		}
		return answerStyle.Render(b.String())
	case qtd.StateFailed:
		if s.Err == nil {
			return answerStyle.Render(errorStyle.Render("error: request failed"))
		}
		out := errorStyle.Render("error: " + s.Err.Message)
		if s.Err.Retryable() {
			out += "\n" + dimStyle.Render("press enter to retry")
		}
		return answerStyle.Render(out)
	default:
		return ""
	}
}
