package ptr

// Ref returns a pointer to the value passed as argument. Handy for optional
// fields like workout notes in struct literals.
func Ref[T any](v T) *T {
	return &v
}
