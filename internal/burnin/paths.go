package burnin

import "strings"

// NormalizeFilterPath rewrites a filesystem path for use inside an ffmpeg
// filter argument, where backslashes and colons are syntax.
func NormalizeFilterPath(path string) string {
	p := strings.ReplaceAll(path, `\`, "/")
	p = strings.ReplaceAll(p, ":", `\:`)
	return p
}
