package packaging

import "errors"

var (
	// ErrNoPackages indicates the packages directory holds no package.json manifests.
	ErrNoPackages = errors.New("no packages found")

	// ErrDuplicatePackage indicates two package directories declare the same name.
	ErrDuplicatePackage = errors.New("duplicate package name")

	// ErrInvalidManifest indicates a package.json could not be decoded.
	ErrInvalidManifest = errors.New("invalid package manifest")

	// ErrInvalidTree indicates a file tree in the legacy JSON form is malformed.
	ErrInvalidTree = errors.New("invalid file tree")
)
