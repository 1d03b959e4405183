package collections

// TransformMap transforms each value in a map using the provided operation
func TransformMap[K comparable, V any, F any](
	items map[K]V,
	operation func(V) F,
) map[K]F {
	result := make(map[K]F)
	for key, value := range items {
		result[key] = operation(value)
	}
	return result
}

// TransformSlice transforms each element of a slice using the provided operation
func TransformSlice[V any, F any](items []V, operation func(V) F) []F {
	result := make([]F, len(items))
	for i, item := range items {
		result[i] = operation(item)
	}
	return result
}
