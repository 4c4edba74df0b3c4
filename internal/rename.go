package internal

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"syscall"
)

// RenameOutcome describes what Commit did.
type RenameOutcome int

const (
	OutcomeUnchanged RenameOutcome = iota // already at the target name
	OutcomeRenamed
)

func (o RenameOutcome) String() string {
	if o == OutcomeRenamed {
		return "renamed"
	}
	return "unchanged"
}

// renameNoReplaceFunc is swappable so tests can simulate filesystem failures.
var renameNoReplaceFunc = renameNoReplace

// Renamer moves files to their canonical names without ever overwriting.
type Renamer struct {
	DryRun bool
}

// Commit renames src to dst. The move is a single rename(2); afterwards exactly
// one of the two names exists. An existing dst that is not src is a *CollisionError.
func (r *Renamer) Commit(src, dst string) (RenameOutcome, error) {
	src, dst = filepath.Clean(src), filepath.Clean(dst)
	if src == dst {
		return OutcomeUnchanged, nil
	}

	srcInfo, err := os.Lstat(src)
	if err != nil {
		return OutcomeUnchanged, err
	}

	caseOnly := false
	if dstInfo, err := os.Lstat(dst); err == nil {
		// On case-folding filesystems dst may be src itself under another case.
		// A hardlink under a different name is still a collision.
		if !os.SameFile(srcInfo, dstInfo) || !sameNameFolded(src, dst) {
			return OutcomeUnchanged, &CollisionError{Src: src, Dst: dst}
		}
		caseOnly = true
	} else if !errors.Is(err, os.ErrNotExist) {
		return OutcomeUnchanged, err
	}

	if r.DryRun {
		return OutcomeRenamed, nil
	}

	if caseOnly {
		err = os.Rename(src, dst)
	} else {
		err = renameNoReplaceFunc(src, dst)
	}
	if err != nil {
		switch {
		case errors.Is(err, os.ErrExist):
			return OutcomeUnchanged, &CollisionError{Src: src, Dst: dst}
		case isEXDEV(err):
			return OutcomeUnchanged, &CrossDeviceError{Src: src, Dst: dst, Err: err}
		}
		return OutcomeUnchanged, err
	}
	return OutcomeRenamed, nil
}

// sameNameFolded reports whether src and dst differ only in letter case.
func sameNameFolded(src, dst string) bool {
	return filepath.Dir(src) == filepath.Dir(dst) && strings.EqualFold(filepath.Base(src), filepath.Base(dst))
}

// renameChecked is the portable path: re-check, then rename.
func renameChecked(src, dst string) error {
	if _, err := os.Lstat(dst); err == nil {
		return &os.LinkError{Op: "rename", Old: src, New: dst, Err: os.ErrExist}
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return os.Rename(src, dst)
}

func isEXDEV(err error) bool {
	if errors.Is(err, syscall.EXDEV) {
		return true
	}
	var le *os.LinkError
	return errors.As(err, &le) && errors.Is(le.Err, syscall.EXDEV)
}
