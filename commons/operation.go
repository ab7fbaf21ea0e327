package commons

// Operation represents a host command for a composer.
type Operation struct {
	// Type represents the operation type, for example, format, reset.
	Type OperationType `json:"type"`

	// Format names the format to toggle for format operations.
	Format string `json:"format,omitempty"`

	// Value represents the content of the operation. Used by load.
	Value string `json:"value,omitempty"`
}

// OperationType represents the type of an operation.
type OperationType string

const (
	FormatOperation OperationType = "format"
	ResetOperation  OperationType = "reset"
	LoadOperation   OperationType = "load"
	FocusOperation  OperationType = "focus"
)
