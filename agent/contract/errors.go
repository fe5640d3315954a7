package contract

import "errors"

var (
	ErrModelInvoke      = errors.New("model invoke failed")
	ErrPromptMissing    = errors.New("required prompt is missing")
	ErrValidation       = errors.New("validation failed")
	ErrEmptyCompletion  = errors.New("completion has no choices")
	ErrGatewayTimeout   = errors.New("completion gateway timed out")
	ErrMethodNotFound   = errors.New("method not found")
	ErrUnknownTool      = errors.New("unknown tool")
	ErrResourceNotFound = errors.New("resource not found")
)
