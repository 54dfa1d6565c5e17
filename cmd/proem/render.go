package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	dto "github.com/prometheus/client_model/go"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#1D4ED8", Dark: "#60A5FA"})
	labelStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#64748B", Dark: "#94A3B8"})
	bodyStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.AdaptiveColor{Light: "#16A34A", Dark: "#4ADE80"}).
			Padding(0, 1)

	titleCaser = cases.Title(language.English)
)

func renderVocabulary(prefix string, names []string) string {
	width := 0
	for _, name := range names {
		if len(name) > width {
			width = len(name)
		}
	}

	lines := []string{titleStyle.Render(fmt.Sprintf("Signals for %q", prefix))}
	for _, name := range names {
		phase, dir, stage := describeEvent(prefix, name)
		parts := []string{titleCaser.String(phase)}
		if dir != "" {
			parts = append(parts, titleCaser.String(dir), titleCaser.String(stage))
		}
		lines = append(lines, fmt.Sprintf("  %-*s  %s", width, name, mutedStyle.Render(strings.Join(parts, " / "))))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderReport(r *runReport) string {
	env := r.Environment
	if env == "" {
		env = "(none)"
	}

	lines := []string{
		titleStyle.Render("Proem run complete"),
		labelStyle.Render("prefix:      ") + r.Prefix,
		labelStyle.Render("environment: ") + env,
		labelStyle.Render("request:     ") + r.Request,
		labelStyle.Render("signals:     ") + fmt.Sprintf("%d fired", r.Total),
	}
	for _, s := range r.Signals {
		lines = append(lines, fmt.Sprintf("  %s %s", s.Name, mutedStyle.Render(fmt.Sprintf("x%d", s.Count))))
	}

	body := r.Body
	if body == "" {
		body = mutedStyle.Render("(empty response)")
	}
	lines = append(lines, labelStyle.Render("response:"), bodyStyle.Render(body))

	if len(r.Metrics) > 0 {
		lines = append(lines, labelStyle.Render("metrics:"), renderMetrics(r.Metrics))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderMetrics(families []*dto.MetricFamily) string {
	var lines []string
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			series := family.GetName() + formatLabels(metric.GetLabel())
			switch family.GetType() {
			case dto.MetricType_COUNTER:
				lines = append(lines, fmt.Sprintf("  %s %g", series, metric.GetCounter().GetValue()))
			case dto.MetricType_GAUGE:
				lines = append(lines, fmt.Sprintf("  %s %g", series, metric.GetGauge().GetValue()))
			case dto.MetricType_HISTOGRAM:
				h := metric.GetHistogram()
				lines = append(lines, fmt.Sprintf("  %s count=%d sum=%.6fs", series, h.GetSampleCount(), h.GetSampleSum()))
			}
		}
	}
	sort.Strings(lines)
	return strings.Join(lines, "\n")
}

func formatLabels(pairs []*dto.LabelPair) string {
	if len(pairs) == 0 {
		return ""
	}
	parts := make([]string, 0, len(pairs))
	for _, pair := range pairs {
		parts = append(parts, fmt.Sprintf("%s=%q", pair.GetName(), pair.GetValue()))
	}
	return "{" + strings.Join(parts, ",") + "}"
}
