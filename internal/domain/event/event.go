// internal/domain/event/event.go
package event

// Code identifies one of the six fixed anchor types. It lives in its own
// leaf package so that both anchor and template can name the type without
// importing each other; anchor aliases it as EventCode and declares the
// constant set.
type Code string
