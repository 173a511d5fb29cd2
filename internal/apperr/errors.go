// Package apperr defines the sentinel errors shared across packages.
package apperr

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrRootNotFound      = errors.New("vault root does not exist")
	ErrRootNotADirectory = errors.New("vault root is not a directory")
	ErrUndecodable       = errors.New("undecodable frontmatter")
	ErrUnsupportedValue  = errors.New("unsupported value")
)
