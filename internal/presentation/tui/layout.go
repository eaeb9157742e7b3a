package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/morph/pkg/domain"
)

// LayoutsMarkdown summarizes a registry as a markdown table, one row per element.
func LayoutsMarkdown(title string, entries []domain.Entry) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", title)
	if len(entries) == 0 {
		sb.WriteString("_No layouts captured._\n")
		return sb.String()
	}

	sb.WriteString("| Element | Name | Portrait | Landscape |\n")
	sb.WriteString("|---|---|---|---|\n")
	for _, e := range entries {
		fmt.Fprintf(&sb, "| %s | %s | %s | %s |\n",
			e.ElementID, e.Name,
			summary(e.Layouts, domain.OrientationPortrait),
			summary(e.Layouts, domain.OrientationLandscape),
		)
	}
	return sb.String()
}

func summary(l domain.Layouts, o domain.Orientation) string {
	s, ok := l.Get(o)
	if !ok {
		return "-"
	}
	return fmt.Sprintf("pos %s size %s", s.AnchoredPosition, s.SizeDelta)
}

// EntryMarkdown lists every captured field of one entry side by side.
func EntryMarkdown(e domain.Entry) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s", e.ElementID)
	if e.Name != "" {
		fmt.Fprintf(&sb, " (%s)", e.Name)
	}
	sb.WriteString("\n\n| Field | Portrait | Landscape |\n|---|---|---|\n")

	p, hasP := e.Layouts.Get(domain.OrientationPortrait)
	l, hasL := e.Layouts.Get(domain.OrientationLandscape)
	rows := []struct {
		name string
		get  func(domain.Snapshot) fmt.Stringer
	}{
		{"local_position", func(s domain.Snapshot) fmt.Stringer { return s.LocalPosition }},
		{"local_scale", func(s domain.Snapshot) fmt.Stringer { return s.LocalScale }},
		{"size_delta", func(s domain.Snapshot) fmt.Stringer { return s.SizeDelta }},
		{"anchor_min", func(s domain.Snapshot) fmt.Stringer { return s.AnchorMin }},
		{"anchor_max", func(s domain.Snapshot) fmt.Stringer { return s.AnchorMax }},
		{"anchored_position", func(s domain.Snapshot) fmt.Stringer { return s.AnchoredPosition }},
		{"pivot", func(s domain.Snapshot) fmt.Stringer { return s.Pivot }},
	}
	for _, r := range rows {
		pv, lv := "-", "-"
		if hasP {
			pv = r.get(p).String()
		}
		if hasL {
			lv = r.get(l).String()
		}
		fmt.Fprintf(&sb, "| %s | %s | %s |\n", r.name, pv, lv)
	}
	return sb.String()
}
