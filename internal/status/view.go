package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Colors and styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("14"))

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	subtleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// Render renders the status data to a string
func Render(data *Data) string {
	sections := []string{
		renderHeader(data),
		renderConfig(data),
		renderCompletion(data),
		renderLanguages(data),
		renderCache(data),
	}
	return strings.Join(sections, "\n\n")
}

func renderHeader(data *Data) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("📂 Current directory: ") + valueStyle.Render(data.CurrentDir) + "\n")
	b.WriteString(titleStyle.Render("📦 Version: ") + valueStyle.Render(data.Version))
	return b.String()
}

func renderConfig(data *Data) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("📝 Configuration:") + "\n")

	global := errorStyle.Render("✗ not found")
	if data.GlobalConfigExists {
		global = successStyle.Render("✓")
	}
	b.WriteString("   " + keyStyle.Render("Global: ") + subtleStyle.Render(data.GlobalConfigPath) + " " + global + "\n")

	if len(data.ConfigSources) == 0 {
		b.WriteString("   " + subtleStyle.Render("Using built-in defaults") + "\n")
	}
	for i, src := range data.ConfigSources {
		b.WriteString(fmt.Sprintf("   %d. %s %s\n", i+1, valueStyle.Render(src), successStyle.Render("✓")))
	}

	if data.ConfigError != "" {
		b.WriteString("   " + errorStyle.Render("✗ "+data.ConfigError) + "\n")
		b.WriteString("   " + warningStyle.Render("Run 'doxide validate' for details") + "\n")
	}

	lens := errorStyle.Render("✗ disabled")
	if data.CodeLensEnabled {
		lens = successStyle.Render("✓ enabled") + subtleStyle.Render(fmt.Sprintf(" (title %q)", data.GenerateTitle))
	}
	b.WriteString("   " + keyStyle.Render("Code lens: ") + lens + "\n")
	b.WriteString("   " + keyStyle.Render("Indentation: ") + valueStyle.Render(data.Indent))

	return b.String()
}

func renderCompletion(data *Data) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("🤖 Completion API:") + "\n")

	b.WriteString("   " + keyStyle.Render("Engine: ") + valueStyle.Render(data.Engine) + "\n")
	b.WriteString("   " + keyStyle.Render("Base URL: ") + subtleStyle.Render(data.BaseURL) + "\n")
	b.WriteString("   " + keyStyle.Render("Alternatives per request: ") + valueStyle.Render(fmt.Sprintf("%d", data.Choices)) + "\n")
	b.WriteString("   " + keyStyle.Render("Timeout: ") + valueStyle.Render(data.Timeout.String()) + "\n")

	rate := "unlimited"
	if data.RequestsPerMinute > 0 {
		rate = fmt.Sprintf("%d/min", data.RequestsPerMinute)
	}
	b.WriteString("   " + keyStyle.Render("Rate limit: ") + valueStyle.Render(rate) + "\n")

	prompt := "default"
	if data.CustomPrompt {
		prompt = "custom template"
	}
	if data.FewShot {
		prompt += ", few-shot"
	}
	b.WriteString("   " + keyStyle.Render("Prompt: ") + valueStyle.Render(prompt) + "\n")

	if data.APIKeySource != "" {
		b.WriteString("   " + keyStyle.Render("API key: ") + successStyle.Render("✓ set") + subtleStyle.Render(" (from "+data.APIKeySource+")"))
	} else {
		b.WriteString("   " + keyStyle.Render("API key: ") + errorStyle.Render("✗ missing") + "\n")
		b.WriteString("   " + warningStyle.Render("Set OPENAI_API_KEY or openAI.apiKey to generate docstrings"))
	}

	return b.String()
}

func renderLanguages(data *Data) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("🔤 Languages:") + "\n")

	if len(data.Languages) == 0 {
		b.WriteString("   " + subtleStyle.Render("No languages configured, every language uses ''' ... '''"))
		return b.String()
	}

	for _, lang := range data.Languages {
		symbols := subtleStyle.Render(" (format only)")
		if lang.Symbols {
			symbols = successStyle.Render(" ✓ functions detected")
		}
		b.WriteString(fmt.Sprintf("   %s %s %s%s\n",
			keyStyle.Render(lang.ID+":"),
			valueStyle.Render(lang.Start),
			valueStyle.Render(lang.End),
			symbols))
		if len(lang.StopTokens) > 0 {
			b.WriteString("      " + subtleStyle.Render("stop: "+strings.Join(lang.StopTokens, " ")) + "\n")
		}
	}

	return strings.TrimSuffix(b.String(), "\n")
}

func renderCache(data *Data) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("💾 Pending alternatives:") + "\n")

	b.WriteString("   " + keyStyle.Render("Path: ") + subtleStyle.Render(data.CachePath) + "\n")
	b.WriteString("   " + keyStyle.Render("Size: ") + valueStyle.Render(formatBytes(data.CacheFileSize)) + "\n")
	b.WriteString("   " + keyStyle.Render("Total entries: ") + valueStyle.Render(fmt.Sprintf("%d", data.CacheTotalEntries)) + "\n")
	b.WriteString("   " + keyStyle.Render("Total alternatives: ") + valueStyle.Render(fmt.Sprintf("%d", data.CacheTotalAlternatives)))

	for _, p := range data.Pending {
		b.WriteString(fmt.Sprintf("\n      %s %s %s",
			valueStyle.Render(fmt.Sprintf("%s:%d", truncateString(p.Path, 60), p.Line+1)),
			keyStyle.Render(fmt.Sprintf("[%d/%d]", p.Index+1, p.Alternatives)),
			subtleStyle.Render(p.Updated.Format("2006-01-02 15:04:05"))))
	}

	return b.String()
}

func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// truncateString keeps the end of long paths
func truncateString(s string, maxLen int) string {
	if len(s) > maxLen {
		return "..." + s[len(s)-maxLen+3:]
	}
	return s
}
