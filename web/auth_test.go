package web

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasicAuth(t *testing.T) {
	user, pass, err := BasicAuth("Basic Zm9vOmJhcg==")
	require.NoError(t, err)
	assert.Equal(t, "foo", user)
	assert.Equal(t, "bar", pass)
}

func TestBasicAuthCaseInsensitiveScheme(t *testing.T) {
	user, pass, err := BasicAuth("basic Zm9vOmJhcg==")
	require.NoError(t, err)
	assert.Equal(t, "foo", user)
	assert.Equal(t, "bar", pass)
}

func TestBasicAuthRejectsMalformed(t *testing.T) {
	for _, header := range []string{
		"",
		"Basic",
		"Basic bad",
		"Bearer Zm9vOmJhcg==",
		"Basic Zm9vYmFy", // decodes to "foobar", no colon
	} {
		_, _, err := BasicAuth(header)
		assert.Error(t, err, header)
	}
}

func TestHTTPDateRoundTrip(t *testing.T) {
	when := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	s := FormatHTTPDate(when)
	assert.Equal(t, "Wed, 01 May 2024 12:30:00 GMT", s)

	parsed, err := ParseHTTPDate(s)
	require.NoError(t, err)
	assert.True(t, when.Equal(parsed))
}

func TestParseHTTPDateObsoleteForms(t *testing.T) {
	for _, s := range []string{
		"Wednesday, 01-May-24 12:30:00 GMT",
		"Wed May  1 12:30:00 2024",
	} {
		parsed, err := ParseHTTPDate(s)
		require.NoError(t, err, s)
		assert.Equal(t, 2024, parsed.Year(), s)
	}
}

func TestParseHTTPDateRejectsGarbage(t *testing.T) {
	_, err := ParseHTTPDate("yesterday")
	assert.Error(t, err)
}
