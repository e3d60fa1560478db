// Package collections provides generic slice helpers.
package collections

// Apply applies the applicator function to each item in the input slice.
func Apply[T, V any](items []T, applicator func(T) V) []V {
	result := make([]V, len(items))
	for i, item := range items {
		result[i] = applicator(item)
	}

	return result
}

// ApplyIndexed is Apply with the item's position passed along.
func ApplyIndexed[T, V any](items []T, applicator func(int, T) V) []V {
	result := make([]V, len(items))
	for i, item := range items {
		result[i] = applicator(i, item)
	}

	return result
}

// ApplyVariadic is Apply over variadic arguments.
func ApplyVariadic[T, V any](applicator func(T) V, items ...T) []V {
	return Apply(items, applicator)
}
