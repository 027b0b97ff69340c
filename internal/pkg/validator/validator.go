package validator

// Validator validates structs annotated with `validate` tags.
type Validator interface {
	// Validate returns nil when data satisfies its tags, otherwise an error
	// describing the violated fields.
	Validate(data any) error
}
