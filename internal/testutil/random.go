package testutil

// FixedRandom is an io.Reader that repeats one byte forever, making random
// padding predictable: FixedRandom(0xab) pads with "ababab...".
type FixedRandom byte

// Read fills p with the fixed byte.
func (r FixedRandom) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(r)
	}
	return len(p), nil
}
