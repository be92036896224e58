//go:build windows

package pdf

import "os"

// openFileNoFollow opens a file for writing.
// O_NOFOLLOW is not available on Windows; symlink creation requires
// elevated privileges there, so plain OpenFile is acceptable.
func openFileNoFollow(path string, flag int, perm os.FileMode) (*os.File, error) {
	return os.OpenFile(path, flag, perm)
}
