package categorizer

import "strings"

// SystemMessage is sent ahead of the prompt when Options.SystemMessage is set.
const SystemMessage = "You are a helpful assistant that classifies service desk tickets into predefined categories."

// BuildPrompt renders the classification prompt. The description is inserted
// verbatim and the output is identical for identical inputs.
func BuildPrompt(description string, categories []string) string {
	var sb strings.Builder
	sb.WriteString("\nClassify the following service desk ticket into one of these categories:\n")
	sb.WriteString(strings.Join(categories, ", "))
	sb.WriteString("\n\nTicket Description:\n")
	sb.WriteString(description)
	sb.WriteString("\n\nCategory:\n")
	return sb.String()
}
