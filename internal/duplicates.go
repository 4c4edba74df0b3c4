package internal

import "sort"

// DuplicateSet is a group of files sharing one content hash.
type DuplicateSet struct {
	Hash  string       `json:"hash"`
	Files []*MediaFile `json:"-"`
	Size  int64        `json:"size_bytes"`
}

// Names returns the member filenames in sorted order.
func (d DuplicateSet) Names() []string {
	names := make([]string, len(d.Files))
	for i, f := range d.Files {
		names[i] = f.Filename
	}
	return names
}

// FindDuplicates groups records by content hash and keeps groups of two or more.
// Records without a usable hash never appear in a group.
func FindDuplicates(records []*MediaFile) []DuplicateSet {
	groups := make(map[string][]*MediaFile)
	for _, r := range records {
		if r == nil || !r.Hashed() {
			continue
		}
		groups[r.Hash] = append(groups[r.Hash], r)
	}

	var duplicates []DuplicateSet
	for hash, files := range groups {
		if len(files) < 2 {
			continue
		}
		sort.Slice(files, func(i, j int) bool { return files[i].Filename < files[j].Filename })
		duplicates = append(duplicates, DuplicateSet{
			Hash:  hash,
			Files: files,
			Size:  files[0].Size,
		})
	}

	sort.Slice(duplicates, func(i, j int) bool { return duplicates[i].Hash < duplicates[j].Hash })
	return duplicates
}
