// Package routepath normalizes and validates request paths before they are
// handed to the route matcher. Cleaning is strictly lexical: it never
// percent-decodes the path, so route literals compare against the raw bytes
// the client sent. Decoding happens per captured segment via DecodeSegment.
package routepath

import (
	"errors"
	"net/url"
	"strings"
)

// Result reports the outcome of cleaning a location string.
type Result struct {
	// Path is the cleaned path without the query string.
	Path string

	// Query is the raw query string without the leading "?".
	Query string

	// Changed is true when Path differs from the path that was passed in.
	// Callers typically replace the current history entry when set.
	Changed bool
}

// Cleaning and decoding errors.
var (
	ErrInvalidPath          = errors.New("invalid path")
	ErrBackslash            = errors.New("path contains backslash")
	ErrNullByte             = errors.New("path contains null byte")
	ErrInvalidPercentEscape = errors.New("invalid percent escape sequence")
	ErrPathEscapesRoot      = errors.New("path escapes root via ..")
	ErrEncodedSlash         = errors.New("encoded slash (%2F) in single-segment capture")
)

// Clean normalizes a location's path portion:
//
//   - ensures a leading "/"
//   - collapses duplicate slashes (/blog//post -> /blog/post)
//   - removes "." segments and resolves ".." segments
//   - strips the trailing slash (except for root "/")
//
// The query string, if any, is split off and preserved untouched.
//
// Inputs are rejected outright when they contain a backslash, a NUL byte
// (literal or %00), an invalid percent escape, or a ".." that would climb
// above the root.
func Clean(input string) (Result, error) {
	if input == "" {
		return Result{Path: "/", Changed: true}, nil
	}

	path, query, _ := strings.Cut(input, "?")

	// SECURITY: backslashes and NUL bytes have no business in a route path.
	if strings.Contains(path, "\\") {
		return Result{}, ErrBackslash
	}
	if strings.Contains(path, "\x00") || strings.Contains(strings.ToUpper(path), "%00") {
		return Result{}, ErrNullByte
	}

	if strings.Contains(path, "%") {
		if err := checkPercentEscapes(path); err != nil {
			return Result{}, err
		}
	}

	original := path

	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	for strings.Contains(path, "//") {
		path = strings.ReplaceAll(path, "//", "/")
	}

	var kept []string
	for _, seg := range strings.Split(path, "/") {
		switch seg {
		case "", ".":
			continue
		case "..":
			if len(kept) == 0 {
				// SECURITY: ".." above root.
				return Result{}, ErrPathEscapesRoot
			}
			kept = kept[:len(kept)-1]
		default:
			kept = append(kept, seg)
		}
	}

	path = "/" + strings.Join(kept, "/")
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}

	return Result{
		Path:    path,
		Query:   query,
		Changed: path != original,
	}, nil
}

// CleanLocation cleans a navigation target and re-attaches its query string.
// Navigation targets must be rooted relative paths; full URLs and
// protocol-relative URLs are rejected to keep redirects on-origin.
func CleanLocation(location string) (string, error) {
	if strings.HasPrefix(location, "http://") ||
		strings.HasPrefix(location, "https://") ||
		strings.HasPrefix(location, "//") {
		return "", ErrInvalidPath
	}
	if !strings.HasPrefix(location, "/") {
		return "", ErrInvalidPath
	}

	result, err := Clean(location)
	if err != nil {
		return "", err
	}
	if result.Query != "" {
		return result.Path + "?" + result.Query, nil
	}
	return result.Path, nil
}

// Split cuts a location into its path and query parts. The query is
// returned without the leading "?".
func Split(location string) (path, query string) {
	path, query, _ = strings.Cut(location, "?")
	return path, query
}

// Segments splits a cleaned path into its raw, still-encoded segments.
// The root path yields nil.
func Segments(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

// DecodeSegment percent-decodes one captured path segment. Unless allowSlash
// is set, a decoded "/" (an encoded %2F) is rejected: a single-segment
// capture must not smuggle extra path structure past the matcher.
func DecodeSegment(segment string, allowSlash bool) (string, error) {
	decoded, err := url.PathUnescape(segment)
	if err != nil {
		return "", ErrInvalidPercentEscape
	}
	if !allowSlash && strings.Contains(decoded, "/") {
		return "", ErrEncodedSlash
	}
	return decoded, nil
}

// checkPercentEscapes verifies every "%" begins a valid two-hex-digit escape.
func checkPercentEscapes(path string) error {
	for i := 0; i < len(path); {
		if path[i] != '%' {
			i++
			continue
		}
		if i+2 >= len(path) {
			return ErrInvalidPercentEscape
		}
		if !isHexDigit(path[i+1]) || !isHexDigit(path[i+2]) {
			return ErrInvalidPercentEscape
		}
		i += 3
	}
	return nil
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
