package usecase

import (
	"strings"

	"nyai-server/internal/domain"
)

// AssembleContext renders every message before newestIndex into a single
// prompt block, one "<Role>: <content>" entry per message separated by blank
// lines. The newest message is excluded because it is passed to the model as
// the current question. The whole history is included verbatim, with no
// truncation or token budgeting.
func AssembleContext(messages []domain.Message, newestIndex int) string {
	if newestIndex < 0 || newestIndex > len(messages) {
		newestIndex = len(messages)
	}
	var sb strings.Builder
	for _, m := range messages[:newestIndex] {
		label := "AI"
		if m.Role == domain.RoleUser {
			label = "User"
		}
		sb.WriteString(label)
		sb.WriteString(": ")
		sb.WriteString(m.Content)
		sb.WriteString("\n\n")
	}
	return sb.String()
}
