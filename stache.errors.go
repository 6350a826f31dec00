package stache

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/itsatony/go-cuserr"

	"github.com/itsatony/go-stache/internal"
)

// Error message constants - ALL error messages must be constants (NO MAGIC STRINGS)
const (
	// Parse errors
	ErrMsgParseFailed     = "template parsing failed"
	ErrMsgNullTemplate    = "template is absent"
	ErrMsgUnknownTag      = "unknown tag"
	ErrMsgUnexpectedTag   = "tag not permitted in this context"
	ErrMsgUnmatchedClose  = "unmatched closing tag"
	ErrMsgUnterminatedTag = "unterminated tag"
	ErrMsgDuplicateElse   = "duplicate else branch"
	ErrMsgBadArguments    = "invalid tag arguments"

	// Render errors
	ErrMsgRenderFailed  = "template rendering failed"
	ErrMsgKeyNotFound   = "key not found"
	ErrMsgBadCollection = "value is not a collection"
	ErrMsgFormatFailed  = "format specifier failed"
	ErrMsgMaxDepth      = "maximum nesting depth exceeded"

	// Registration errors
	ErrMsgNilDefinition = "tag definition cannot be nil"
	ErrMsgEmptyTagName  = "tag name cannot be empty"

	// Document errors
	ErrMsgFrontmatterUnclosed = "frontmatter is never closed"
	ErrMsgFrontmatterTooLarge = "frontmatter exceeds size limit"
	ErrMsgFrontmatterInvalid  = "frontmatter is not valid YAML"
	ErrMsgDocumentReadFailed  = "failed to read document"
)

// Error code constants for categorization
const (
	ErrCodeParse    = "STACHE_PARSE"
	ErrCodeRender   = "STACHE_RENDER"
	ErrCodeRegistry = "STACHE_REGISTRY"
	ErrCodeDocument = "STACHE_DOCUMENT"
)

// Position represents a location in the source template
type Position struct {
	Offset int // Byte offset from start
	Line   int // 1-indexed line number
	Column int // 1-indexed column number
}

// String returns a human-readable position string
func (p Position) String() string {
	return fmt.Sprintf("line %d, column %d", p.Line, p.Column)
}

// fromInternalPosition converts an internal position
func fromInternalPosition(p internal.Position) Position {
	return Position{Offset: p.Offset, Line: p.Line, Column: p.Column}
}

// withPosition attaches position metadata to a cuserr error
func withPosition(err *cuserr.CustomError, pos Position) *cuserr.CustomError {
	return err.
		WithMetadata(MetaKeyLine, strconv.Itoa(pos.Line)).
		WithMetadata(MetaKeyColumn, strconv.Itoa(pos.Column)).
		WithMetadata(MetaKeyOffset, strconv.Itoa(pos.Offset))
}

// NewParseError creates a generic parse error with position context
func NewParseError(msg string, pos Position, cause error) error {
	var err *cuserr.CustomError
	if cause != nil {
		err = cuserr.WrapStdError(cause, ErrCodeParse, msg)
	} else {
		err = cuserr.NewValidationError(ErrCodeParse, msg)
	}
	return withPosition(err, pos)
}

// NewNullTemplateError creates the absent-template error
func NewNullTemplateError() error {
	return cuserr.NewValidationError(ErrCodeParse, ErrMsgNullTemplate)
}

// NewUnknownTagError creates an error for an unregistered tag name
func NewUnknownTagError(tagName string, pos Position) error {
	return withPosition(
		cuserr.NewNotFoundError(MetaKeyTag, ErrMsgUnknownTag).
			WithMetadata(MetaKeyTag, tagName), pos)
}

// NewUnexpectedTagError creates an error for a tag outside its legal context
func NewUnexpectedTagError(tagName string, pos Position) error {
	return withPosition(
		cuserr.NewValidationError(ErrCodeParse, ErrMsgUnexpectedTag).
			WithMetadata(MetaKeyTag, tagName), pos)
}

// NewUnmatchedCloseError creates an error for a closer without its opener
func NewUnmatchedCloseError(tagName string, pos Position) error {
	return withPosition(
		cuserr.NewValidationError(ErrCodeParse, ErrMsgUnmatchedClose).
			WithMetadata(MetaKeyTag, tagName), pos)
}

// NewUnterminatedTagError creates an error for an opener without its closer
func NewUnterminatedTagError(tagName string, pos Position) error {
	err := cuserr.NewValidationError(ErrCodeParse, ErrMsgUnterminatedTag)
	if tagName != "" {
		err = err.WithMetadata(MetaKeyTag, tagName)
	}
	return withPosition(err, pos)
}

// NewDuplicateElseError creates an error for a second else branch
func NewDuplicateElseError(pos Position) error {
	return withPosition(
		cuserr.NewValidationError(ErrCodeParse, ErrMsgDuplicateElse), pos)
}

// NewBadArgumentsError creates an error for malformed, missing, or excess
// tag arguments
func NewBadArgumentsError(reason, tagName string, pos Position) error {
	err := cuserr.NewValidationError(ErrCodeParse, ErrMsgBadArguments).
		WithMetadata(MetaKeyReason, reason)
	if tagName != "" {
		err = err.WithMetadata(MetaKeyTag, tagName)
	}
	return withPosition(err, pos)
}

// NewKeyNotFoundError creates a runtime path resolution error
func NewKeyNotFoundError(path string) error {
	return cuserr.NewNotFoundError(MetaKeyKey, ErrMsgKeyNotFound).
		WithMetadata(MetaKeyPath, path)
}

// NewBadCollectionError creates an error for iterating a non-collection
func NewBadCollectionError(path string, pos Position) error {
	return withPosition(
		cuserr.NewValidationError(ErrCodeRender, ErrMsgBadCollection).
			WithMetadata(MetaKeyPath, path), pos)
}

// NewFormatError creates an error for a failed format specifier
func NewFormatError(format string, pos Position, cause error) error {
	var err *cuserr.CustomError
	if cause != nil {
		err = cuserr.WrapStdError(cause, ErrCodeRender, ErrMsgFormatFailed)
	} else {
		err = cuserr.NewValidationError(ErrCodeRender, ErrMsgFormatFailed)
	}
	return withPosition(err.WithMetadata(MetaKeyFormat, format), pos)
}

// NewMaxDepthError creates an error for exceeding the nesting depth limit
func NewMaxDepthError() error {
	return cuserr.NewValidationError(ErrCodeRender, ErrMsgMaxDepth)
}

// NewRenderError creates a generic render error
func NewRenderError(msg string, tagName string, pos Position, cause error) error {
	var err *cuserr.CustomError
	if cause != nil {
		err = cuserr.WrapStdError(cause, ErrCodeRender, msg)
	} else {
		err = cuserr.NewValidationError(ErrCodeRender, msg)
	}
	if tagName != "" {
		err = err.WithMetadata(MetaKeyTag, tagName)
	}
	return withPosition(err, pos)
}

// NewNilDefinitionError creates a registration error for a nil definition
func NewNilDefinitionError() error {
	return cuserr.NewValidationError(ErrCodeRegistry, ErrMsgNilDefinition)
}

// NewEmptyTagNameError creates a registration error for an empty tag name
func NewEmptyTagNameError() error {
	return cuserr.NewValidationError(ErrCodeRegistry, ErrMsgEmptyTagName)
}

// wrapParseError maps internal lexer/parser errors onto the public
// taxonomy
func wrapParseError(err error) error {
	var lexErr *internal.LexerError
	if errors.As(err, &lexErr) {
		pos := fromInternalPosition(lexErr.Position)
		switch lexErr.Code {
		case internal.CodeUnterminatedTag:
			return NewUnterminatedTagError("", pos)
		case internal.CodeBadArguments:
			return NewBadArgumentsError(lexErr.Message, "", pos)
		default:
			return NewParseError(ErrMsgParseFailed, pos, lexErr)
		}
	}

	var parseErr *internal.ParserError
	if errors.As(err, &parseErr) {
		pos := fromInternalPosition(parseErr.Position)
		switch parseErr.Code {
		case internal.CodeUnknownTag:
			return NewUnknownTagError(parseErr.TagName, pos)
		case internal.CodeUnexpectedTag:
			return NewUnexpectedTagError(parseErr.TagName, pos)
		case internal.CodeUnmatchedClose:
			return NewUnmatchedCloseError(parseErr.TagName, pos)
		case internal.CodeUnterminatedTag:
			return NewUnterminatedTagError(parseErr.TagName, pos)
		case internal.CodeDuplicateElse:
			return NewDuplicateElseError(pos)
		case internal.CodeBadArguments:
			return NewBadArgumentsError(parseErr.Message, parseErr.TagName, pos)
		default:
			return NewParseError(ErrMsgParseFailed, pos, parseErr)
		}
	}

	return NewParseError(ErrMsgParseFailed, Position{}, err)
}

// wrapRenderError maps internal render errors onto the public taxonomy.
// Errors that are already cuserr values (from user tag behaviors) pass
// through untouched.
func wrapRenderError(err error) error {
	var custom *cuserr.CustomError
	if errors.As(err, &custom) {
		return err
	}

	var resolveErr *internal.ResolveError
	if errors.As(err, &resolveErr) {
		return NewKeyNotFoundError(resolveErr.Path)
	}

	var renderErr *internal.RenderError
	if errors.As(err, &renderErr) {
		pos := fromInternalPosition(renderErr.Position)
		switch renderErr.Code {
		case internal.CodeKeyNotFound:
			return NewKeyNotFoundError(renderErr.Detail)
		case internal.CodeBadCollection:
			return NewBadCollectionError(renderErr.Detail, pos)
		case internal.CodeFormatFailed:
			return NewFormatError(renderErr.Detail, pos, renderErr.Cause)
		case internal.CodeMaxDepth:
			return NewMaxDepthError()
		default:
			return NewRenderError(renderErr.Message, renderErr.TagName, pos, renderErr.Cause)
		}
	}

	return NewRenderError(ErrMsgRenderFailed, "", Position{}, err)
}
