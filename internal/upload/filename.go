package upload

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// SecureFilename reduces name to a flat ASCII filename: unicode is folded,
// path separators become word breaks, whitespace runs become underscores,
// and anything outside [A-Za-z0-9_.-] is dropped. The result may be empty.
func SecureFilename(name string) string {
	folded := norm.NFKD.String(name)

	var sb strings.Builder
	for _, r := range folded {
		if r < 0x80 {
			sb.WriteRune(r)
		}
	}
	ascii := sb.String()

	ascii = strings.NewReplacer("/", " ", `\`, " ").Replace(ascii)
	joined := strings.Join(strings.Fields(ascii), "_")
	return strings.Trim(unsafeFilenameChars.ReplaceAllString(joined, ""), "._")
}
