// Package locate enumerates candidate documents under a root and groups
// them by the candidate id embedded in each filename.
package locate

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

const documentExt = ".pdf"

var (
	idSplit   = regexp.MustCompile(`[\s-]+`)
	nameSplit = regexp.MustCompile(`[^a-zA-Z]+`)
)

// nameStoplist holds stem tokens that describe the document rather than
// the candidate, excluded when deriving a full name from a CV filename.
var nameStoplist = map[string]struct{}{
	"cv": {}, "resume": {}, "curriculum": {}, "vitae": {},
	"application": {}, "cover": {}, "letter": {},
	"science": {}, "scientist": {}, "research": {}, "analyst": {},
	"engineer": {}, "data": {}, "msc": {}, "degree": {},
}

// Grouping maps a candidate id to that candidate's document paths, in
// filesystem traversal order.
type Grouping map[int][]string

// CandidateIDs returns the grouped ids in ascending order.
func (g Grouping) CandidateIDs() []int {
	ids := make([]int, 0, len(g))
	for id := range g {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Locate walks the directory tree under root and groups every supported
// document by candidate id. Files whose name yields no id are silently
// excluded; an unreadable root is the only error.
func Locate(root string) (Grouping, error) {
	grouping := make(Grouping)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), documentExt) {
			return nil
		}
		id, ok := IDFromPath(path)
		if !ok {
			return nil
		}
		grouping[id] = append(grouping[id], path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk root %s: %w", root, err)
	}
	return grouping, nil
}

// IDFromPath derives the candidate id from a document path: the first
// token of the filename stem, split on whitespace/hyphen runs, when it
// is entirely numeric. Returns false for unattributable filenames.
func IDFromPath(path string) (int, bool) {
	token := idSplit.Split(stem(path), 2)[0]
	if token == "" {
		return 0, false
	}
	for _, r := range token {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	id, err := strconv.Atoi(token)
	if err != nil {
		return 0, false
	}
	return id, true
}

// NameFromPath derives a candidate's full name from a CV filename: the
// distinct alphabetic tokens of the stem, longer than one letter and not
// in the stoplist, joined by spaces in first-occurrence order.
func NameFromPath(path string) string {
	seen := make(map[string]struct{})
	var result []string
	for _, token := range nameSplit.Split(stem(path), -1) {
		if len(token) <= 1 {
			continue
		}
		lower := strings.ToLower(token)
		if _, stop := nameStoplist[lower]; stop {
			continue
		}
		if _, dup := seen[lower]; dup {
			continue
		}
		seen[lower] = struct{}{}
		result = append(result, token)
	}
	return strings.Join(result, " ")
}

// stem returns the filename without directory or extension.
func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
