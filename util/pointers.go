package util

// Ptr returns a pointer to v. Optional settings whose zero value is a real
// choice, such as verify_ssl=false or rate_limit=0, are set through it.
func Ptr[T any](v T) *T {
	return &v
}

// ValueOr returns *p, or fallback when p is nil.
func ValueOr[T any](p *T, fallback T) T {
	if p != nil {
		return *p
	}
	return fallback
}
