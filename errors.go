package rstpost

import (
	"errors"

	"github.com/alnah/go-rstpost/internal/dateutil"
	"github.com/alnah/go-rstpost/internal/directive"
	"github.com/alnah/go-rstpost/internal/docinfo"
	"github.com/alnah/go-rstpost/internal/pipeline"
)

// Sentinel errors for library operations.
var (
	ErrUnsupportedSource = errors.New("unsupported source file")
	ErrReadSource        = errors.New("reading source failed")
	ErrStyleNotFound     = errors.New("highlight style not found")
	ErrPoolClosed        = errors.New("reader pool closed")
	ErrHeadingLevel      = errors.New("heading level must be between 1 and 6")

	// Conversion errors.
	ErrConversion = pipeline.ErrConversion
	ErrDirective  = pipeline.ErrDirective
	ErrBaseURL    = pipeline.ErrBaseURL
	ErrDocInfo    = docinfo.ErrParse

	// Directive validation errors, wrapped in ErrDirective.
	ErrUnknownDirective  = directive.ErrUnknownDirective
	ErrInvalidArguments  = directive.ErrInvalidArguments
	ErrUnknownOption     = directive.ErrUnknownOption
	ErrInvalidOption     = directive.ErrInvalidOption
	ErrMissingContent    = directive.ErrMissingContent
	ErrUnexpectedContent = directive.ErrUnexpectedContent

	// Date errors.
	ErrInvalidDate       = dateutil.ErrInvalidDate
	ErrInvalidDateFormat = dateutil.ErrInvalidDateFormat
)
