package iconmod

import (
	"errors"

	"github.com/Sumatoshi-tech/codemod/pkg/syntax"
)

// Sentinel errors matched by the typed errors below through errors.Is.
var (
	ErrUnsupportedAttribute = errors.New("unsupported attribute")
	ErrUnmappedIcon         = errors.New("unmapped icon")
)

// SpreadAttribute is reported as the attribute name of a `{...props}` spread.
const SpreadAttribute = "JSXSpreadAttribute"

// UnsupportedAttributeError reports an icon usage carrying an attribute that
// cannot be translated to the new component API.
type UnsupportedAttributeError struct {
	Attribute string
}

func (e *UnsupportedAttributeError) Error() string {
	return "Unsupported prop found: " + e.Attribute
}

// Unwrap exposes ErrUnsupportedAttribute.
func (e *UnsupportedAttributeError) Unwrap() error {
	return ErrUnsupportedAttribute
}

// UnmappedIconError reports an icon name with no entry in the icon map.
// Name is empty when the usage had no plain string `name` attribute.
type UnmappedIconError struct {
	Name string
}

func (e *UnmappedIconError) Error() string {
	return `Icon "` + e.Name + `" not found in the map, aborting file.`
}

// Unwrap exposes ErrUnmappedIcon.
func (e *UnmappedIconError) Unwrap() error {
	return ErrUnmappedIcon
}

// ErrorKind classifies the outcome of transforming one file.
type ErrorKind int

// Error kinds.
const (
	KindNone ErrorKind = iota
	KindUnsupportedAttribute
	KindUnmappedIcon
	KindSyntax
	KindOther
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindUnsupportedAttribute:
		return "unsupported_attribute"
	case KindUnmappedIcon:
		return "unmapped_icon"
	case KindSyntax:
		return "syntax"
	case KindOther:
		return "other"
	default:
		return "unknown"
	}
}

// KindOf maps an error returned by a transform to its kind.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrUnsupportedAttribute):
		return KindUnsupportedAttribute
	case errors.Is(err, ErrUnmappedIcon):
		return KindUnmappedIcon
	case errors.Is(err, syntax.ErrSyntax):
		return KindSyntax
	default:
		return KindOther
	}
}
