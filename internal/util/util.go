package util

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Box-drawn dump of raw bytes as big-endian u16 words. header marks how many
// leading bytes belong to a fixed header, those rows get a heavier border.
func PrettyPrint(data []byte, limit int, header int) string {
	if limit > len(data) {
		limit = len(data)
	}

	const bytesPerRow = 32
	var b strings.Builder
	b.WriteString("┏━━━━━━━━┳━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━┓\n")
	fmt.Fprintf(&b, "┃ Offset ┃ u16 Chunks (BigEndian) - %5d bytes (0x%04x)                                       ┃\n",
		len(data), len(data))
	b.WriteString("┣━━━━━━━━╋━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━┫\n")

	for i := 0; i < limit; i += bytesPerRow {
		if i < header {
			fmt.Fprintf(&b, "┃ 0x%04x ┣ ", i)
		} else {
			fmt.Fprintf(&b, "┃ 0x%04x ┃ ", i)
		}

		for j := 0; j < bytesPerRow; j += 2 {
			if i+j+1 < limit {
				fmt.Fprintf(&b, "%04x ", binary.BigEndian.Uint16(data[i+j:i+j+2]))
			}
			// Space every 8 bytes to keep your eyes from crossing
			if (j+2)%8 == 0 {
				b.WriteString(" ")
			}
		}
		if i < header {
			b.WriteString("┫\n")
		} else {
			b.WriteString("┃\n")
		}
	}
	b.WriteString("┗━━━━━━━━┻━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━┛\n")

	return b.String()
}

// rounds n up to the next multiple of align (align must be a power of two)
func AlignUp(n uint64, align uint64) uint64 {
	return (n + align - 1) &^ (align - 1)
}
