package prompt

import "strings"

// CompileOptions controls how a prompt renders to its final text blob.
type CompileOptions struct {
	// Markdown renders each section as a typed heading followed by its
	// content instead of plain concatenation.
	Markdown bool
	// SystemPrompt is prepended in markdown mode when non-empty.
	SystemPrompt string
}

// Compile concatenates the prompt's sections, in order, into the exported
// text blob. In markdown mode each section becomes
// "# <Capitalized Type>: <Name>" followed by its content, sections are
// separated by a blank line, and the system prompt leads.
func Compile(p Prompt, opts CompileOptions) string {
	if !opts.Markdown {
		parts := make([]string, 0, len(p.Sections))
		for _, s := range p.Sections {
			parts = append(parts, s.Content)
		}
		return strings.Join(parts, "\n\n")
	}

	var parts []string
	if opts.SystemPrompt != "" {
		parts = append(parts, opts.SystemPrompt)
	}
	for _, s := range p.Sections {
		heading := "# " + capitalize(string(s.Type)) + ": " + s.Name
		parts = append(parts, heading+"\n"+s.Content)
	}
	return strings.Join(parts, "\n\n")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
