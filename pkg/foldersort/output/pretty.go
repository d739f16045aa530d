package output

import (
	"bytes"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// PrettyFormatter renders a styled report for terminals.
type PrettyFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PrettyFormatter) Format(w *bytes.Buffer, r *Result) error {
	w.WriteString(f.formatHeader(r))
	w.WriteString("\n")
	w.WriteString(f.formatMoves(r))

	if len(r.Skipped) > 0 {
		w.WriteString("\n")
		w.WriteString(f.formatSkipped(r))
	}
	if len(r.EmptyFolders) > 0 {
		w.WriteString("\n")
		w.WriteString(f.formatEmpty(r))
	}

	w.WriteString(f.formatFooter(r))
	w.WriteString("\n")
	return nil
}

func (f *PrettyFormatter) formatHeader(r *Result) string {
	var lines []string

	lines = append(lines, fmt.Sprintf("%s %s", LabelStyle.Render("Target:"), ValueStyle.Render(r.Target)))

	info := []string{fmt.Sprintf("%s %s", LabelStyle.Render("Run:"), MutedStyle.Render(shortID(r.RunID)))}
	if r.DryRun {
		info = append(info, WarningStyle.Bold(true).Render("dry run, nothing was moved"))
	}
	lines = append(lines, strings.Join(info, "  "))

	return HeaderBox.Render(strings.Join(lines, "\n"))
}

// formatMoves lists moves grouped by destination folder.
func (f *PrettyFormatter) formatMoves(r *Result) string {
	if len(r.Moves) == 0 {
		return MutedStyle.Render("  No files to organize") + "\n"
	}

	groups := make(map[string][]MoveInfo)
	for _, m := range r.Moves {
		groups[m.Folder] = append(groups[m.Folder], m)
	}
	folders := make([]string, 0, len(groups))
	for folder := range groups {
		folders = append(folders, folder)
	}
	sort.Strings(folders)

	var sb strings.Builder
	for _, folder := range folders {
		moves := groups[folder]
		sb.WriteString(fmt.Sprintf("  %s %s\n",
			FolderStyle.Render(folder+"/"),
			MutedStyle.Render(fmt.Sprintf("(%d)", len(moves)))))

		for _, m := range moves {
			name := PathStyle.Render(m.Name)
			if m.Renamed {
				name += MutedStyle.Render(" → ") + WarningStyle.Render(filepath.Base(m.Destination))
			}
			sb.WriteString(fmt.Sprintf("    %s  %s\n", SizeStyle.Render(padLeft(m.SizeHuman, 9)), name))
		}
	}
	return sb.String()
}

func (f *PrettyFormatter) formatSkipped(r *Result) string {
	counts := make(map[string]int)
	for _, s := range r.Skipped {
		counts[s.Reason]++
	}
	reasons := make([]string, 0, len(counts))
	for reason := range counts {
		reasons = append(reasons, reason)
	}
	sort.Strings(reasons)

	parts := make([]string, 0, len(reasons))
	for _, reason := range reasons {
		parts = append(parts, fmt.Sprintf("%s %d", reason, counts[reason]))
	}
	return fmt.Sprintf("  %s %s\n", LabelStyle.Render("Left in place:"), MutedStyle.Render(strings.Join(parts, ", ")))
}

func (f *PrettyFormatter) formatEmpty(r *Result) string {
	removed := make(map[string]bool, len(r.Removed))
	for _, d := range r.Removed {
		removed[d] = true
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("  %s\n", LabelStyle.Render("Empty folders:")))
	for _, dir := range r.EmptyFolders {
		mark := MutedStyle.Render("kept   ")
		if removed[dir] {
			mark = SuccessStyle.Render("removed")
		}
		sb.WriteString(fmt.Sprintf("    %s  %s\n", mark, PathStyle.Render(RelPath(r.Target, dir))))
	}
	return sb.String()
}

func (f *PrettyFormatter) formatFooter(r *Result) string {
	parts := []string{
		fmt.Sprintf("%s %s", LabelStyle.Render("Moved:"), ValueStyle.Render(fmt.Sprintf("%d", r.Stats.Moved))),
		fmt.Sprintf("%s %s", LabelStyle.Render("Total:"), SizeStyle.Render(humanize.IBytes(uint64(r.Stats.TotalSize)))),
		fmt.Sprintf("%s %s", LabelStyle.Render("New folders:"), ValueStyle.Render(fmt.Sprintf("%d", r.Stats.FoldersCreated))),
		fmt.Sprintf("%s %s", LabelStyle.Render("Took:"), MutedStyle.Render(formatDuration(r.Stats.Duration))),
	}
	if r.Stats.Renamed > 0 {
		parts = append(parts, WarningStyle.Render(fmt.Sprintf("%d renamed", r.Stats.Renamed)))
	}

	content := strings.Join(parts, "  ")
	if r.Status != "" {
		style := SuccessStyle
		if r.Error != "" {
			style = ErrorStyle
		}
		content += "\n" + style.Render(r.Status)
	}

	if r.Error != "" {
		return ErrorBox.MarginTop(1).Render(content)
	}
	return FooterBox.Render(content)
}

// padLeft pads s with spaces on the left to width.
func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// formatDuration formats a duration in a human-friendly way.
func formatDuration(d time.Duration) string {
	sec := d.Seconds()
	if sec < 1 {
		return fmt.Sprintf("%.0fms", sec*1000)
	}
	if sec < 60 {
		return fmt.Sprintf("%.1fs", sec)
	}
	minutes := int(sec) / 60
	seconds := int(sec) % 60
	return fmt.Sprintf("%dm %ds", minutes, seconds)
}

func init() {
	Register("pretty", func() Formatter {
		return &PrettyFormatter{}
	})
}

var _ Formatter = (*PrettyFormatter)(nil)
