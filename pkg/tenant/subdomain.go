package tenant

import (
	"fmt"
	"regexp"
	"strings"
)

// maxLabelLength is the DNS limit for a single label.
const maxLabelLength = 63

var labelPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)

// ValidLabel reports whether s can be used as a subdomain label.
func ValidLabel(s string) bool {
	return len(s) <= maxLabelLength && labelPattern.MatchString(s)
}

// Label derives a subdomain label from a store name at signup: lowercase,
// non-alphanumeric runs collapsed to single hyphens, truncated to the DNS
// label limit. Returns ErrInvalidLabel when nothing usable remains.
func Label(name string) (string, error) {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(name) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			b.WriteByte('-')
			lastHyphen = true
		}
	}

	label := strings.Trim(b.String(), "-")
	if len(label) > maxLabelLength {
		label = strings.Trim(label[:maxLabelLength], "-")
	}
	if !ValidLabel(label) || label == "" {
		return "", fmt.Errorf("%w: derived from %q", ErrInvalidLabel, name)
	}
	return label, nil
}
