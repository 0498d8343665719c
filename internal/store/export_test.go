package store

// FastKDF drops scrypt cost for the duration of a test.
func FastKDF() (restore func()) {
	prev := scryptParams
	scryptParams = [3]int{1 << 10, 8, 1}
	return func() { scryptParams = prev }
}
