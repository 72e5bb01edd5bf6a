package automaton

func grow[T any](s []T, size int) []T {
	if len(s) >= size {
		return s
	}
	var empty T
	for i := len(s); i < size; i++ {
		s = append(s, empty)
	}
	return s
}
