package artifact

import (
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/turbot/brewery-pipeline/types"
)

// DiscoverFiles walks root recursively and returns every regular file whose name matches filter, sorted by path
func DiscoverFiles(root string, filter types.SuffixFilter) ([]string, error) {
	var res []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if filter.Matches(path) {
			res = append(res, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(res)
	return res, nil
}
