package internal

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renamed(name, canonical string) *MediaFile {
	m := &MediaFile{Path: "/p/" + name, Filename: name, Hash: "abc"}
	_ = m.SetCanonical(canonical)
	return m
}

func TestRenameSession_Counts(t *testing.T) {
	var out bytes.Buffer
	s := NewRenameSession("/p", false, &out, NopLogger())
	s.LogSessionStart(4)

	s.LogRenamed(renamed("a.jpg", "2023-10-01-1000-00-abcde.jpg"))
	s.LogUnchanged(renamed("b.jpg", "b.jpg"))
	s.LogSkipped(renamed("c.jpg", "x.jpg"), &CollisionError{Src: "/p/c.jpg", Dst: "/p/x.jpg"})

	unreadable := &MediaFile{Filename: "d.jpg", HashErr: &UnreadableFileError{Path: "/p/d.jpg", Err: errors.New("input/output error")}}
	s.LogUnreadable(unreadable)

	stats := s.LogSessionEnd()
	assert.Equal(t, RenameStats{TotalScanned: 4, Renamed: 1, Unchanged: 1, Skipped: 1, Unreadable: 1}, stats)
	assert.Equal(t, stats, s.GetStats())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Renamed a.jpg to 2023-10-01-1000-00-abcde.jpg", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "Skipped c.jpg: target already exists"), lines[1])

	errs := s.Errors()
	assert.Equal(t, 2, errs.Total)
	assert.Equal(t, 1, errs.ByCategory[ErrorCategoryCollision])
	assert.Equal(t, 1, errs.ByCategory[ErrorCategoryUnreadable])
}

func TestRenameSession_DryRunWording(t *testing.T) {
	var out bytes.Buffer
	s := NewRenameSession("/p", true, &out, NopLogger())
	s.LogRenamed(renamed("a.jpg", "b.jpg"))

	assert.Equal(t, "[dry-run] would rename a.jpg to b.jpg\n", out.String())
	assert.NotEmpty(t, s.ID)
}
