package storage

// Byte offsets of the persisted settings record. The layout is fixed:
// one sentinel byte followed by the two range bounds as 4-byte IEEE-754
// floats in native byte order.
const (
	AddrInitFlag = 0
	AddrLower    = 1
	AddrUpper    = 5
	RegionSize   = 9
)

// ErasedByte fills a region that has never been committed. It mirrors the
// erase pattern of flash-backed settings memory, so a blank region reads
// as garbage floats and a sentinel that matches nothing meaningful.
const ErasedByte byte = 0xFF

// Region is a small byte-addressable settings area with explicit commit.
// Writes mutate a RAM image only; nothing reaches durable storage until
// Commit. Reads always come from the RAM image.
type Region interface {
	ReadByte(off int) byte
	WriteByte(off int, b byte)
	ReadFloat(off int) float32
	WriteFloat(off int, v float32)
	Commit() error
}
