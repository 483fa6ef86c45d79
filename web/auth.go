// Package web holds the small HTTP boundary helpers the database layer
// is commonly paired with: credential extraction and HTTP date
// handling.
package web

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

// BasicAuth extracts the username and password from an Authorization
// header value of the Basic scheme.
func BasicAuth(headerValue string) (username, password string, err error) {
	scheme, payload, found := strings.Cut(headerValue, " ")
	if !found || !strings.EqualFold(scheme, "Basic") {
		return "", "", fmt.Errorf("web: not a Basic authorization header")
	}
	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", "", fmt.Errorf("web: malformed Basic credentials: %w", err)
	}
	username, password, found = strings.Cut(string(decoded), ":")
	if !found {
		return "", "", fmt.Errorf("web: malformed Basic credentials")
	}
	return username, password, nil
}

// FormatHTTPDate renders t as an RFC 1123 date in GMT, the form HTTP
// headers require.
func FormatHTTPDate(t time.Time) string {
	return t.UTC().Format(http1123)
}

// ParseHTTPDate parses an HTTP date header value. The obsolete RFC 850
// and asctime forms are accepted alongside RFC 1123.
func ParseHTTPDate(s string) (time.Time, error) {
	for _, layout := range []string{http1123, time.RFC850, time.ANSIC} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("web: unparseable HTTP date %q", s)
}

const http1123 = "Mon, 02 Jan 2006 15:04:05 GMT"
