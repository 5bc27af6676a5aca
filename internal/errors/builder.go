package errors

// Builder provides a fluent API for creating SSGError values.
type Builder struct {
	err SSGError
}

// New starts an error of the given kind.
func New(kind Kind, message string) *Builder {
	return &Builder{err: SSGError{kind: kind, message: message}}
}

// Wrap starts an error of the given kind around an existing cause.
func Wrap(cause error, kind Kind, message string) *Builder {
	return &Builder{err: SSGError{kind: kind, message: message, cause: cause}}
}

func (b *Builder) WithComponent(name string) *Builder {
	b.err.component = name
	return b
}

func (b *Builder) WithPath(path string) *Builder {
	b.err.path = path
	return b
}

func (b *Builder) Wrap(cause error) *Builder {
	b.err.cause = cause
	return b
}

// WithContext adds a context key-value pair.
func (b *Builder) WithContext(key string, value any) *Builder {
	if b.err.context == nil {
		b.err.context = make(map[string]any)
	}
	b.err.context[key] = value
	return b
}

// Build creates the final SSGError.
func (b *Builder) Build() *SSGError {
	out := b.err
	return &out
}

// Convenience constructors for the pipeline's common failures

// UnsupportedKey reports a generator asked for a key it does not declare.
func UnsupportedKey(component, key string) *SSGError {
	return New(KindUnsupportedKey, "unsupported output key "+quote(key)).
		WithComponent(component).
		WithContext("key", key).
		Build()
}

// GenerationFailure wraps a failed main generator output.
func GenerationFailure(component string, cause error) *SSGError {
	return Wrap(cause, KindGenerationFailure, "main output failed").WithComponent(component).Build()
}

// TransformFailure wraps a failed processor.
func TransformFailure(component string, cause error) *SSGError {
	return Wrap(cause, KindTransformFailure, "processor failed").WithComponent(component).Build()
}

// MalformedExternalDocument wraps a failure to read or parse an external document.
func MalformedExternalDocument(component, file string, cause error) *SSGError {
	return Wrap(cause, KindMalformedExternalDocument, "cannot use "+quote(file)).
		WithComponent(component).
		WithContext("file", file).
		Build()
}

// ConfigError reports invalid configuration.
func ConfigError(message string) *Builder {
	return New(KindConfig, message)
}

func quote(s string) string {
	return "'" + s + "'"
}
