package ion

// ivm is the 4-byte Ion 1.0 binary version marker.
var ivm = [4]byte{0xE0, 0x01, 0x00, 0xEA}

// scratchInitialSize is the starting capacity of a Cursor's reusable
// scratch buffer, used when a payload isn't fully present in the source's
// peek buffer.
const scratchInitialSize = 512
