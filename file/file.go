package file

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

var ScoreExtensions = []string{".txt", ".xml", ".json", ".mid", ".midi"}

func IsScore(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range ScoreExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// GatherScorePaths returns paths with every directory replaced by the score
// files below it, in lexical order. File arguments are kept as given.
func GatherScorePaths(paths []string) ([]string, error) {
	var res []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, errors.Wrapf(err, "gathering %s", path)
		}
		if !info.IsDir() {
			res = append(res, path)
			continue
		}

		var found []string
		walk := func(s string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && IsScore(s) {
				found = append(found, s)
			}
			return nil
		}
		if err := filepath.WalkDir(path, walk); err != nil {
			return nil, errors.Wrapf(err, "walking %s", path)
		}
		sort.Strings(found)
		res = append(res, found...)
	}
	return res, nil
}
