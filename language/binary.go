package language

import "bytes"

// binarySniffLen bounds how many leading bytes are inspected for binary
// detection.
const binarySniffLen = 512

// IsBinary reports whether data looks like binary content. A NUL byte within
// the leading window marks the content as binary; text files never contain
// one.
func IsBinary(data []byte) bool {
	window := data
	if len(window) > binarySniffLen {
		window = window[:binarySniffLen]
	}
	return bytes.IndexByte(window, 0) >= 0
}
