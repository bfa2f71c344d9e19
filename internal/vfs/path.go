// SPDX-License-Identifier: MPL-2.0

package vfs

import "strings"

// Separator is the path separator. The VFS uses forward slashes on every
// platform; it never touches the host filesystem.
const Separator = "/"

// Resolve turns a path string plus a current-directory context into a
// canonical segment sequence. A path starting with the separator is
// absolute; anything else is resolved against cwd. "." segments are
// dropped and ".." pops the last accumulated segment, silently staying at
// root on underflow. Resolve performs no existence checks.
func Resolve(cwd []string, path string) []string {
	var segs []string
	if !strings.HasPrefix(path, Separator) {
		segs = append(segs, cwd...)
	}
	for _, seg := range strings.Split(path, Separator) {
		switch seg {
		case "", ".":
			// skip
		case "..":
			if len(segs) > 0 {
				segs = segs[:len(segs)-1]
			}
		default:
			segs = append(segs, seg)
		}
	}
	return segs
}

// DisplayPath joins segments into the canonical display form: leading
// separator, segments joined by separators, "/" for the empty sequence.
func DisplayPath(segs []string) string {
	return Separator + strings.Join(segs, Separator)
}

// SplitEntry splits a path string into its directory part (everything up to
// and including the last separator) and the final name part. A path with no
// separator has an empty directory part. Completion uses this to resolve
// the directory while prefix-matching the name.
func SplitEntry(path string) (dir, name string) {
	i := strings.LastIndex(path, Separator)
	if i < 0 {
		return "", path
	}
	return path[:i+1], path[i+1:]
}

// ValidateName rejects empty names and names containing a separator.
// Bare-name operations (mkdir, rmdir) accept only a single segment.
func ValidateName(name string) error {
	if name == "" || strings.Contains(name, Separator) {
		return &Error{Op: "validate", Path: name, Err: ErrInvalidName}
	}
	return nil
}
