// Package compression abstracts the at-rest compression applied to
// stored document content.
package compression

type Compressor interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
}
