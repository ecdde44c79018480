package service

import "fmt"

// InsufficientBalanceError reports a spend attempt that exceeds the
// user's heart value. It carries the amounts so handlers can tell the
// caller how short they are.
type InsufficientBalanceError struct {
	Required  int64
	Available int64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient heart value: need %d, have %d", e.Required, e.Available)
}
