// fs.go holds a tiny helper for walking a template tree, since
// template.ParseFS patterns cannot express "**/*.html".
package theme

import (
	"errors"
	"io/fs"
	"strings"
)

// CollectHTML walks dir inside fsys and returns every *.html path, in
// lexical order, ready for template.ParseFS.  A missing dir yields no
// files and no error.
func CollectHTML(fsys fs.FS, dir string) ([]string, error) {
	var files []string

	err := fs.WalkDir(fsys, dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(strings.ToLower(d.Name()), ".html") {
			files = append(files, p)
		}
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return files, nil
}
