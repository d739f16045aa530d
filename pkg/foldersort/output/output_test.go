package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jamesainslie/foldersort/pkg/foldersort/organizer"
	"github.com/jamesainslie/foldersort/pkg/foldersort/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleOutcome() *session.Outcome {
	return &session.Outcome{
		RunID:  "0b6f1c7e-4a4b-4c84-9d1e-3f0a5e9b2c11",
		Target: "/home/user/Downloads",
		Result: &organizer.Result{
			Target: "/home/user/Downloads",
			Moves: []organizer.Move{
				{
					Source:      "/home/user/Downloads/report.pdf",
					Destination: "/home/user/Downloads/pdf/2024-06-15/report_1.pdf",
					Key:         organizer.Key{Ext: "pdf", Date: "2024-06-15"},
					Size:        2048,
					Renamed:     true,
				},
				{
					Source:      "/home/user/Downloads/notes",
					Destination: "/home/user/Downloads/no.extension/2024-06-16/notes",
					Key:         organizer.Key{Date: "2024-06-16"},
					Size:        10,
				},
			},
			Skipped: []organizer.Skip{
				{Path: "/home/user/Downloads/photos", Reason: organizer.SkipDirectory},
				{Path: "/home/user/Downloads/App.lnk", Reason: organizer.SkipExcludedSuffix},
			},
			CreatedDirs: []string{"/home/user/Downloads/no.extension", "/home/user/Downloads/no.extension/2024-06-16"},
		},
		EmptyFolders: []string{"/home/user/Downloads/old", "/home/user/Downloads/tmp"},
		Removed:      []string{"/home/user/Downloads/old", "/home/user/Downloads/tmp"},
		Cleanup:      session.CleanupCleaned,
		Status:       session.DeletedMessage(2),
		Started:      time.Date(2024, 6, 16, 9, 0, 0, 0, time.UTC),
		Duration:     1500 * time.Millisecond,
	}
}

func TestFromOutcome(t *testing.T) {
	r := FromOutcome(sampleOutcome())

	require.Len(t, r.Moves, 2)
	assert.Equal(t, "report.pdf", r.Moves[0].Name)
	assert.Equal(t, "pdf/2024-06-15/report_1.pdf", r.Moves[0].RelDest)
	assert.Equal(t, "pdf/2024-06-15", r.Moves[0].Folder)
	assert.Equal(t, "2.0 KiB", r.Moves[0].SizeHuman)
	assert.True(t, r.Moves[0].Renamed)

	assert.Equal(t, Stats{
		Moved:          2,
		Renamed:        1,
		Skipped:        2,
		FoldersCreated: 2,
		EmptyFound:     2,
		EmptyRemoved:   2,
		TotalSize:      2058,
		Duration:       1500 * time.Millisecond,
	}, r.Stats)
	assert.Equal(t, "cleaned", r.Cleanup)
	assert.Equal(t, "excluded-suffix", r.Skipped[1].Reason)
	assert.Empty(t, r.Error)
}

func TestFromOutcome_Failure(t *testing.T) {
	out := &session.Outcome{
		Cleanup: session.CleanupNotRun,
		Status:  session.MsgNoFolder,
		Err:     organizer.ErrNoFolderSelected,
	}

	r := FromOutcome(out)
	assert.Equal(t, "no folder selected", r.Error)
	assert.Empty(t, r.Moves)
	assert.NotNil(t, r.Moves)
	assert.Equal(t, session.MsgNoFolder, r.Status)
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	reg.Register("b", func() Formatter { return &PlainFormatter{} })
	reg.Register("a", func() Formatter { return &PathsFormatter{} })

	assert.Equal(t, []string{"a", "b"}, reg.Available())

	f, err := reg.Get("a")
	require.NoError(t, err)
	assert.IsType(t, &PathsFormatter{}, f)

	_, err = reg.Get("missing")
	assert.EqualError(t, err, "unknown formatter: missing")
}

func TestDefaultRegistry(t *testing.T) {
	assert.Equal(t, []string{
		"csv", "json", "jsonl", "null", "paths", "plain", "pretty", "table", "template", "tsv", "yaml",
	}, Available())

	for _, name := range Available() {
		t.Run(name, func(t *testing.T) {
			f, err := Get(name)
			require.NoError(t, err)

			var buf bytes.Buffer
			require.NoError(t, f.Format(&buf, FromOutcome(sampleOutcome())))
			assert.NotEmpty(t, buf.String())
		})
	}
}

func format(t *testing.T, f Formatter, r *Result) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, f.Format(&buf, r))
	return buf.String()
}

func TestPrettyFormatter(t *testing.T) {
	out := format(t, &PrettyFormatter{}, FromOutcome(sampleOutcome()))

	assert.Contains(t, out, "/home/user/Downloads")
	assert.Contains(t, out, "pdf/2024-06-15/")
	assert.Contains(t, out, "no.extension/2024-06-16/")
	assert.Contains(t, out, "report_1.pdf")
	assert.Contains(t, out, "excluded-suffix 1")
	assert.Contains(t, out, "removed")
	assert.Contains(t, out, "Files organized successfully! Deleted 2 empty folder(s).")
}

func TestPrettyFormatter_Empty(t *testing.T) {
	r := FromOutcome(&session.Outcome{Target: "/x", Status: session.MsgSuccess})
	out := format(t, &PrettyFormatter{}, r)

	assert.Contains(t, out, "No files to organize")
	assert.Contains(t, out, session.MsgSuccess)
}

func TestPrettyFormatter_DryRun(t *testing.T) {
	o := sampleOutcome()
	o.Result.DryRun = true
	out := format(t, &PrettyFormatter{}, FromOutcome(o))

	assert.Contains(t, out, "dry run")
}

func TestPrettyFormatter_Error(t *testing.T) {
	o := &session.Outcome{Target: "/x", Err: errors.New("boom"), Status: "Organizing failed: boom"}
	out := format(t, &PrettyFormatter{}, FromOutcome(o))

	assert.Contains(t, out, "Organizing failed: boom")
}

func TestPlainFormatter(t *testing.T) {
	out := format(t, &PlainFormatter{}, FromOutcome(sampleOutcome()))
	lines := strings.Split(strings.TrimSpace(out), "\n")

	require.Len(t, lines, 4)
	assert.Equal(t, []string{"SIZE", "FROM", "TO"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"2.0", "KiB", "report.pdf", "pdf/2024-06-15/report_1.pdf"}, strings.Fields(lines[1]))
	assert.Equal(t, session.DeletedMessage(2), lines[3])
}

func TestJSONFormatter(t *testing.T) {
	out := format(t, &JSONFormatter{}, FromOutcome(sampleOutcome()))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))

	assert.Equal(t, "/home/user/Downloads", decoded["target"])
	assert.Equal(t, "cleaned", decoded["cleanup"])
	stats := decoded["stats"].(map[string]interface{})
	assert.Equal(t, "1.5s", stats["duration"])
	assert.Equal(t, float64(2), stats["moved"])
	assert.Len(t, decoded["moves"], 2)
	assert.NotContains(t, decoded, "error")
}

func TestJSONLFormatter(t *testing.T) {
	out := format(t, &JSONLFormatter{}, FromOutcome(sampleOutcome()))
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)

	var m MoveInfo
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &m))
	assert.Equal(t, "/home/user/Downloads/report.pdf", m.Source)
	assert.True(t, m.Renamed)
}

func TestYAMLFormatter(t *testing.T) {
	out := format(t, &YAMLFormatter{}, FromOutcome(sampleOutcome()))

	var decoded map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "/home/user/Downloads", decoded["target"])
	assert.Contains(t, out, "rel_dest: pdf/2024-06-15/report_1.pdf")
}

func TestTableFormatter(t *testing.T) {
	out := format(t, &TableFormatter{}, FromOutcome(sampleOutcome()))

	assert.Contains(t, out, "FROM")
	assert.Contains(t, out, "report.pdf")
	assert.Contains(t, out, "no.extension/2024-06-16/notes")
	assert.Contains(t, strings.ToUpper(out), "2 MOVED")
	assert.Contains(t, out, "╭")
}

func TestCSVFormatter(t *testing.T) {
	out := format(t, &CSVFormatter{}, FromOutcome(sampleOutcome()))
	lines := strings.Split(strings.TrimSpace(out), "\n")

	require.Len(t, lines, 3)
	assert.Equal(t, "source,destination,folder,size,renamed", lines[0])
	assert.Equal(t, "/home/user/Downloads/report.pdf,/home/user/Downloads/pdf/2024-06-15/report_1.pdf,pdf/2024-06-15,2048,true", lines[1])
}

func TestTSVFormatter(t *testing.T) {
	out := format(t, &TSVFormatter{}, FromOutcome(sampleOutcome()))
	assert.True(t, strings.HasPrefix(out, "SOURCE\tDESTINATION\tSIZE\tRENAMED\n"))
	assert.Contains(t, out, "/home/user/Downloads/notes\t/home/user/Downloads/no.extension/2024-06-16/notes\t10\tfalse\n")
}

func TestPathsFormatters(t *testing.T) {
	r := FromOutcome(sampleOutcome())

	assert.Equal(t,
		"/home/user/Downloads/pdf/2024-06-15/report_1.pdf\n/home/user/Downloads/no.extension/2024-06-16/notes\n",
		format(t, &PathsFormatter{}, r))
	assert.Equal(t,
		"/home/user/Downloads/pdf/2024-06-15/report_1.pdf\x00/home/user/Downloads/no.extension/2024-06-16/notes\x00",
		format(t, &NullFormatter{}, r))
}

func TestTemplateFormatter(t *testing.T) {
	f := NewTemplateFormatter(`{{.Stats.Moved}} files, {{bytes .Stats.TotalSize}}, {{duration .Stats.Duration}}, {{date .Started "2006-01-02"}}`)
	out := format(t, f, FromOutcome(sampleOutcome()))
	assert.Equal(t, "2 files, 2.0 KiB, 1.5s, 2024-06-16", out)

	f.SetTemplate(`{{range .Moves}}{{.Folder}};{{end}}`)
	assert.Equal(t, "pdf/2024-06-15;no.extension/2024-06-16;", format(t, f, FromOutcome(sampleOutcome())))
}

func TestTemplateFormatter_Invalid(t *testing.T) {
	f := NewTemplateFormatter("{{.Nope")
	var buf bytes.Buffer
	assert.Error(t, f.Format(&buf, FromOutcome(sampleOutcome())))
}
