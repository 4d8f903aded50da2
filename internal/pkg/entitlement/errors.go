package entitlement

import "errors"

var (
	// ErrMalformedPayload means the webhook body could not be decoded or is
	// missing fields the event kind requires.
	ErrMalformedPayload = errors.New("malformed webhook payload")

	// ErrSubjectNotFound means the event references an account we do not
	// know. Transitions never create accounts implicitly.
	ErrSubjectNotFound = errors.New("webhook subject not found")
)
