package doc

import (
	"github.com/cockroachdb/errors"
)

var (
	// ErrMalformedDeclaration reports a structural inconsistency in the input,
	// such as a member whose enclosing type is unknown.
	ErrMalformedDeclaration = errors.New("malformed declaration")

	// ErrDuplicateDeclaration reports two declarations with the same qualified name.
	ErrDuplicateDeclaration = errors.New("duplicate declaration")
)

func malformed(format string, args ...any) error {
	return errors.Wrapf(ErrMalformedDeclaration, format, args...)
}

func duplicate(q QualifiedName) error {
	return errors.WithHint(
		errors.Wrapf(ErrDuplicateDeclaration, "%s", q),
		"every package, type, field and method signature must be declared once",
	)
}
