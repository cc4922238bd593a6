package webdocs

import "errors"

// ErrPackageNotFound indicates a package page was requested for a name absent from the index.
var ErrPackageNotFound = errors.New("package not found")

// ErrTemplate wraps failures to read the base template.
var ErrTemplate = errors.New("read base template")
