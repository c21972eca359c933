package layout

import (
	"regexp"
	"strconv"
)

var chromeVersion = regexp.MustCompile(`Chrome/(\d+)`)

// DetectStickyBug reports whether userAgent is a browser whose sticky
// positioning breaks table layouts (Chrome 105). Callers set
// TableOptions.DisableSticky when it returns true.
func DetectStickyBug(userAgent string) bool {
	m := chromeVersion.FindStringSubmatch(userAgent)
	if m == nil {
		return false
	}
	v, err := strconv.Atoi(m[1])
	return err == nil && v == 105
}
