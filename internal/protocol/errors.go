package protocol

const (
	// Protocol/transport validation.
	ErrBadRequest    = "E_BAD_REQUEST"
	ErrUnknownAction = "E_UNKNOWN_ACTION"

	// Session registry.
	ErrDuplicateIdentity = "E_DUPLICATE_IDENTITY"

	// Dispatch layer.
	ErrInvalidTransition = "E_INVALID_TRANSITION"
	ErrTargetNotFound    = "E_TARGET_NOT_FOUND"
	ErrTargetUnreachable = "E_TARGET_UNREACHABLE"

	// Fanout.
	ErrDeliveryFailure = "E_DELIVERY_FAILURE"
)

var knownCodes = map[string]struct{}{
	ErrBadRequest:        {},
	ErrUnknownAction:     {},
	ErrDuplicateIdentity: {},
	ErrInvalidTransition: {},
	ErrTargetNotFound:    {},
	ErrTargetUnreachable: {},
	ErrDeliveryFailure:   {},
}

func IsKnownCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := knownCodes[code]
	return ok
}
