package organizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtension(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"a.txt", "txt"},
		{"b.TXT", "txt"},
		{"archive.tar.GZ", "gz"},
		{"notes", ""},
		{"trailing.", ""},
		{".bashrc", "bashrc"},
		{"My File (1).Jpeg", "jpeg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Extension(tt.name))
		})
	}
}

func TestCollisionName(t *testing.T) {
	tests := []struct {
		name string
		n    int
		want string
	}{
		{"report.pdf", 0, "report.pdf"},
		{"report.pdf", 1, "report_1.pdf"},
		{"Report.PDF", 12, "Report_12.PDF"},
		{"archive.tar.gz", 2, "archive.tar_2.gz"},
		{"notes", 3, "notes_3"},
		{".bashrc", 1, "_1.bashrc"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, CollisionName(tt.name, tt.n))
		})
	}
}

func TestKeyDir(t *testing.T) {
	assert.Equal(t, "pdf", Key{Ext: "pdf"}.Dir("none"))
	assert.Equal(t, "none", Key{}.Dir("none"))
	assert.Equal(t, "none/2024-06-15", Key{Date: "2024-06-15"}.Dir("none"))
	assert.Equal(t, "pdf/2024-06-15", Key{Ext: "pdf", Date: "2024-06-15"}.String())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "file", KindRegular.String())
	assert.Equal(t, "directory", KindDir.String())
	assert.Equal(t, "symlink", KindSymlink.String())
	assert.Equal(t, "other", KindOther.String())
}
