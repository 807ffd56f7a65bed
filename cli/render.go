package cli

import (
	"fmt"
	"strings"

	markdown "github.com/MichaelMure/go-term-markdown"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/lipgloss"
	gomarkdown "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/parser"
	"github.com/mattn/go-runewidth"
	"github.com/sahilm/fuzzy"

	"polyprompt/model"
)

var (
	dimColor     = lipgloss.Color("7")
	accentColor  = lipgloss.Color("12")
	successColor = lipgloss.Color("10")
	dangerColor  = lipgloss.Color("9")

	HeaderStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	DimStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(successColor)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(dangerColor).
			Bold(true)
)

const renderWidth = 100

// renderMarkdown formats markdown for the terminal. Autolinks stay plain so
// the terminal can detect URLs itself.
func renderMarkdown(content string, width int) string {
	ext := markdown.Extensions() &^ parser.Autolink
	doc := parser.NewWithExtensions(ext).Parse([]byte(content))
	return string(gomarkdown.Render(doc, markdown.NewRenderer(width, 0)))
}

// outputOptions are the presentation flags shared by the prompt commands.
type outputOptions struct {
	render bool
	copy   bool
}

// emit writes a complete reply according to opts.
func (a *app) emit(opts outputOptions, text string) {
	if opts.render {
		a.printf("%s", renderMarkdown(text, renderWidth))
	} else {
		a.println(text)
	}
	if opts.copy {
		a.copyToClipboard(text)
	}
}

func (a *app) copyToClipboard(text string) {
	if err := clipboard.WriteAll(text); err != nil {
		fmt.Fprintln(a.errOut, ErrorStyle.Render("Failed to copy to clipboard: "+err.Error()))
		return
	}
	fmt.Fprintln(a.errOut, DimStyle.Render("Copied to clipboard"))
}

func header(title string) string {
	return HeaderStyle.Render("=== " + title + " ===")
}

// providerNames lists every accepted spelling of a provider identity.
var providerNames = []string{
	"claude", "anthropic",
	"openai",
	"azure-openai", "azure",
	"gemini", "google",
	"ollama",
}

// parseProvider resolves name to an identity, suggesting the closest known
// name when it does not match.
func parseProvider(name string) (model.Identity, error) {
	id, err := model.ParseIdentity(name)
	if err == nil {
		return id, nil
	}

	matches := fuzzy.Find(strings.ToLower(name), providerNames)
	if len(matches) > 0 {
		return "", fmt.Errorf("%w (did you mean %q?)", err, matches[0].Str)
	}
	return "", fmt.Errorf("%w (known providers: %s)", err, strings.Join(identityNames(), ", "))
}

func identityNames() []string {
	names := make([]string, len(model.AllIdentities))
	for i, id := range model.AllIdentities {
		names[i] = string(id)
	}
	return names
}

// table renders rows as left-aligned columns, measuring cells by display width.
func table(rows [][]string) string {
	var widths []int
	for _, row := range rows {
		for i, cell := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	var sb strings.Builder
	for _, row := range rows {
		for i, cell := range row {
			if i == len(row)-1 {
				sb.WriteString(cell)
				break
			}
			sb.WriteString(runewidth.FillRight(cell, widths[i]+2))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
