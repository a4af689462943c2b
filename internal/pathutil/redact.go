// Package pathutil shortens filesystem paths for messages sent to clients.
package pathutil

import (
	"path/filepath"
	"strings"
)

// RedactPath keeps only the parent directory and file name of path, so
// "/data/users/ana/out/feature_stats.db" becomes ".../out/feature_stats.db".
func RedactPath(path string) string {
	if path == "" {
		return ""
	}
	cleaned := filepath.Clean(path)
	base := filepath.Base(cleaned)
	parent := filepath.Base(filepath.Dir(cleaned))
	if parent == "." || parent == string(filepath.Separator) {
		return base
	}
	return ".../" + parent + "/" + base
}

// RedactError replaces every occurrence of path in err's message with its
// redacted form. A nil err stays nil.
func RedactError(err error, path string) error {
	if err == nil || path == "" {
		return err
	}
	msg := err.Error()
	if !strings.Contains(msg, path) {
		return err
	}
	return &redactedError{msg: strings.ReplaceAll(msg, path, RedactPath(path)), err: err}
}

type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }

func (e *redactedError) Unwrap() error { return e.err }
