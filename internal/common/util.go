package common

// WipeByteArray overwrites b with zeros. Used to drop derived keys and
// passwords from memory after use. A nil slice is ignored.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
