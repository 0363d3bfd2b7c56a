package jqdata

import (
	"strconv"
)

// Command is one remote operation producing T. Its exported fields, encoded
// with their json tags, are flattened into the request envelope.
type Command[T any] interface {
	Method() string
	Consumer() Consumer[T]
}

// Descriptor binds a method name to its response format.
type Descriptor struct {
	Method string         `json:"method"`
	Format ResponseFormat `json:"format"`
}

// Describe returns the descriptor of cmd.
func Describe[T any](cmd Command[T]) Descriptor {
	return Descriptor{Method: cmd.Method(), Format: cmd.Consumer().Format()}
}

// Int parses a scalar body as a decimal integer.
func Int() Consumer[int] {
	return Scalar(strconv.Atoi)
}

// Float parses a scalar body as a float.
func Float() Consumer[float64] {
	return Scalar(func(s string) (float64, error) {
		return strconv.ParseFloat(s, 64)
	})
}
