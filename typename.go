package mediator

import "fmt"

// TypeName returns the Go type name of v, e.g. "*orders.PlaceOrder".
func TypeName(v any) string {
	return fmt.Sprintf("%T", v)
}
