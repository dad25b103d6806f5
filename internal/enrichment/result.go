package enrichment

// Result is either Enriched (Fallback == false) or a deterministic Fallback
// built from the input alone. Both carry fields valid for persistence.
type Result[T any] struct {
	Fields   T
	Fallback bool
	// Err explains why the fallback was used.
	Err error
}

func enriched[T any](fields T) Result[T] {
	return Result[T]{Fields: fields}
}

func fallback[T any](fields T, err error) Result[T] {
	return Result[T]{Fields: fields, Fallback: true, Err: err}
}
