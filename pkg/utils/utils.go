package utils

import "log"

// ToPointer returns a pointer to the given value.
func ToPointer[T any](value T) *T {
	return &value
}

// GoSafe runs the given function in a new goroutine and recovers from any panic.
func GoSafe(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[Panic Recovered] %v", r)
			}
		}()
		fn()
	}()
}
