package errors

// Convenience functions for common error patterns

// Config errors

func ConfigNotFound(path string) *DocsError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ConfigInvalid(path string, cause error) *DocsError {
	return Wrap(cause, CategoryConfig, SeverityFatal, "configuration file invalid").
		WithContext("path", path)
}

func ValidationFailed(field, reason string) *DocsError {
	return New(CategoryValidation, SeverityFatal, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

// Generation errors

func IndexLoadFailed(root string, cause error) *DocsError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "package index could not be loaded").
		WithContext("root", root)
}

func TemplateMissing(path string, cause error) *DocsError {
	return Wrap(cause, CategoryTemplate, SeverityFatal, "base template could not be read").
		WithContext("path", path)
}

func RenderFailed(page string, cause error) *DocsError {
	return Wrap(cause, CategoryRender, SeverityError, "page rendering failed").
		WithContext("page", page)
}

func WriteFailed(path string, cause error) *DocsError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "writing output failed").
		WithContext("path", path)
}

func NotFound(what, name string) *DocsError {
	return New(CategoryNotFound, SeverityError, what+" not found").
		WithContext("name", name)
}

func BrokenLinks(count int) *DocsError {
	return New(CategoryLinks, SeverityError, "broken links found").
		WithContext("count", count)
}

// Internal errors

func InternalError(message string, cause error) *DocsError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
