// Package static resolves request targets to files under a single web root.
//
// Resolution is confined: the joined path is canonicalized (cleaned,
// symlinks resolved, made absolute) and accepted only when it lies
// strictly inside the canonical root and names a regular file. Anything
// else, including traversal attempts and symlinks pointing out of the
// root, is reported as domain.ErrResourceNotFound, exactly like a file
// that does not exist.
package static
