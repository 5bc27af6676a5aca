package errors

// Kind classifies an error by where in the pipeline it originated.
type Kind string

const (
	// KindUnsupportedKey is returned by a generator asked for a key outside its declared outputs.
	KindUnsupportedKey Kind = "unsupported_key"
	// KindGenerationFailure marks a failed main generator output. Fatal for the page.
	KindGenerationFailure Kind = "generation_failure"
	// KindTransformFailure marks a failed processor. Fatal for the page.
	KindTransformFailure Kind = "transform_failure"
	// KindMissingGenerator is recovered locally by the rewriter and only surfaces in logs.
	KindMissingGenerator Kind = "missing_generator"
	// KindMalformedExternalDocument marks an unreadable or unparseable external structured-data file.
	KindMalformedExternalDocument Kind = "malformed_external_document"

	KindConfig     Kind = "config"
	KindFileSystem Kind = "filesystem"
)

// Sentinels for errors.Is. They match any SSGError of the same kind.
var (
	ErrUnsupportedKey            = &SSGError{kind: KindUnsupportedKey}
	ErrGenerationFailure         = &SSGError{kind: KindGenerationFailure}
	ErrTransformFailure          = &SSGError{kind: KindTransformFailure}
	ErrMissingGenerator          = &SSGError{kind: KindMissingGenerator}
	ErrMalformedExternalDocument = &SSGError{kind: KindMalformedExternalDocument}
	ErrConfig                    = &SSGError{kind: KindConfig}
	ErrFileSystem                = &SSGError{kind: KindFileSystem}
)
