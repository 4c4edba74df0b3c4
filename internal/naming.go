package internal

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
)

const (
	nameDateFormat  = "2006-01-02-1504-05"
	unknownDate     = "unknown_date"
	unknownIdentity = "unknown"
)

// identityPrefixes are the short rungs tried before the full identity.
var identityPrefixes = []int{5, 8}

// NameRegistry holds the canonical names claimed during one resolution pass.
// Names compare case-insensitively so a pass is also safe on case-folding filesystems.
type NameRegistry struct {
	mu      sync.Mutex
	claimed map[string]string // lower-cased name -> owner path ("" for files outside the batch)
}

func NewNameRegistry() *NameRegistry {
	return &NameRegistry{claimed: make(map[string]string)}
}

// Claim takes name for owner. It succeeds if the name is free or already held by owner.
func (r *NameRegistry) Claim(name, owner string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := strings.ToLower(name)
	if held, ok := r.claimed[key]; ok {
		return owner != "" && held == owner
	}
	r.claimed[key] = owner
	return true
}

// Reserve marks name as taken by a file that is not part of the batch.
func (r *NameRegistry) Reserve(name string) {
	r.reserveFor(name, "")
}

func (r *NameRegistry) reserveFor(name, owner string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := strings.ToLower(name)
	if _, ok := r.claimed[key]; !ok {
		r.claimed[key] = owner
	}
}

// Taken reports whether name is held by anyone.
func (r *NameRegistry) Taken(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.claimed[strings.ToLower(name)]
	return ok
}

// Resolver computes canonical names of the form {date}-{identity}{ext}.
type Resolver struct{}

func NewResolver() *Resolver { return &Resolver{} }

func dateComponent(m *MediaFile) string {
	if m.CaptureTime.IsZero() {
		return unknownDate
	}
	return m.CaptureTime.Format(nameDateFormat)
}

// identityComponent is the author fingerprint, else the content hash, else "unknown".
func identityComponent(m *MediaFile) string {
	switch {
	case m.Author != "":
		return m.Author
	case m.Hashed():
		return m.Hash
	default:
		return unknownIdentity
	}
}

// ladder lists the candidate names for m in the order they are tried,
// excluding the numbered forms that follow the last rung.
func ladder(m *MediaFile) []string {
	date := dateComponent(m)
	id := identityComponent(m)
	ext := strings.ToLower(filepath.Ext(m.Filename))

	var names []string
	seen := make(map[string]bool)
	add := func(idPart string) {
		n := date + "-" + idPart + ext
		if !seen[n] {
			seen[n] = true
			names = append(names, n)
		}
	}
	for _, p := range identityPrefixes {
		if id != unknownIdentity && len(id) > p {
			add(id[:p])
		}
	}
	add(id)
	return names
}

// numbered builds the disambiguated form base_N.ext of the last rung.
func numbered(last string, n int) string {
	ext := filepath.Ext(last)
	return fmt.Sprintf("%s_%d%s", strings.TrimSuffix(last, ext), n, ext)
}

// onLadder reports whether name is one of m's candidate names, numbered forms included.
func onLadder(m *MediaFile, name string) bool {
	rungs := ladder(m)
	for _, r := range rungs {
		if name == r {
			return true
		}
	}
	last := rungs[len(rungs)-1]
	ext := filepath.Ext(last)
	base := strings.TrimSuffix(last, ext) + "_"
	if !strings.HasPrefix(name, base) || !strings.HasSuffix(name, ext) {
		return false
	}
	digits := strings.TrimSuffix(strings.TrimPrefix(name, base), ext)
	n, err := strconv.Atoi(digits)
	return err == nil && n >= 2 && strconv.Itoa(n) == digits
}

// Resolve claims the first free candidate for m in reg and records it on m.
func (r *Resolver) Resolve(m *MediaFile, reg *NameRegistry) (string, error) {
	rungs := ladder(m)
	name := ""
	for _, candidate := range rungs {
		if reg.Claim(candidate, m.Path) {
			name = candidate
			break
		}
	}
	if name == "" {
		last := rungs[len(rungs)-1]
		for n := 2; ; n++ {
			candidate := numbered(last, n)
			if reg.Claim(candidate, m.Path) {
				name = candidate
				break
			}
		}
	}
	if err := m.SetCanonical(name); err != nil {
		return "", err
	}
	return name, nil
}

// ResolveAll assigns canonical names to a whole batch.
//
// existing holds every entry name currently in the folder. Names of files outside
// the batch are never targeted, files already sitting on one of their own candidate
// names keep it, and no record is sent to another record's current name, so the
// renames that follow are independent of each other and a second run is a no-op.
func (r *Resolver) ResolveAll(records []*MediaFile, existing []string) (*NameRegistry, error) {
	reg := NewNameRegistry()

	inBatch := make(map[string]bool, len(records))
	for _, m := range records {
		inBatch[m.Filename] = true
	}
	for _, name := range existing {
		if !inBatch[name] {
			reg.Reserve(name)
		}
	}

	ordered := make([]*MediaFile, len(records))
	copy(ordered, records)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Filename < ordered[j].Filename })

	var pending []*MediaFile
	for _, m := range ordered {
		if onLadder(m, m.Filename) && reg.Claim(m.Filename, m.Path) {
			if err := m.SetCanonical(m.Filename); err != nil {
				return nil, err
			}
			continue
		}
		pending = append(pending, m)
	}

	for _, m := range pending {
		reg.reserveFor(m.Filename, m.Path)
	}

	for _, m := range pending {
		if _, err := r.Resolve(m, reg); err != nil {
			return nil, err
		}
	}
	return reg, nil
}
