package datum

import "errors"

var (
	ErrInvalidFormat  = errors.New("datum: invalid format")
	ErrValueMismatch  = errors.New("datum: value does not match format")
	ErrMissingID      = errors.New("datum: missing id")
	ErrTimestampRange = errors.New("datum: timestamp outside int32 seconds")
	ErrTextEncoding   = errors.New("datum: text not representable in ISO-8859-1")
)
