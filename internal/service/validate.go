package service

import (
	"fmt"
	"net/url"
	"strings"
)

var acceptedSchemes = []string{"http://", "https://"}

// ValidateTargetURL reports whether rawURL may be shortened: it must start
// with an accepted scheme and carry a host. The input is checked as given,
// without trimming or case folding.
func ValidateTargetURL(rawURL string) error {
	const op = "service.ValidateTargetURL"

	if rawURL == "" {
		return fmt.Errorf("%s: url is required: %w", op, ErrInvalidURL)
	}

	hasScheme := false
	for _, scheme := range acceptedSchemes {
		if strings.HasPrefix(rawURL, scheme) {
			hasScheme = true
			break
		}
	}
	if !hasScheme {
		return fmt.Errorf("%s: url must start with http:// or https://: %w", op, ErrInvalidURL)
	}

	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return fmt.Errorf("%s: url has no valid host: %w", op, ErrInvalidURL)
	}

	return nil
}
