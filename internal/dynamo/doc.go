// Package dynamo provides shared primitives for the ball-pit simulation.
//
// It holds the domain errors every other package reports through:
//
//   - [ErrInvalidConfig]: configuration rejected at construction
//   - [ConfigurationError]: the field, value and reason behind a rejection
//   - [ErrDisposed], [ErrNotStarted], [ErrAlreadyStarted]: lifecycle misuse
//
// # Example
//
//	cfg := config.DefaultConfig()
//	cfg.Count = 0
//	if err := cfg.Validate(); errors.Is(err, dynamo.ErrInvalidConfig) {
//	    var ce *dynamo.ConfigurationError
//	    errors.As(err, &ce) // ce.Field == "count"
//	}
package dynamo
