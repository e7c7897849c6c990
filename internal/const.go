// Constants
package internal

import (
	"encoding/binary"
)

const OS_PAGE			= 0x1000

// slab sizing, slot indices are uint32
const SLAB_DEFAULT_SLOTS	= 0x10
const SLAB_MAX_SLOTS		= 1 << 30

// memfs data blocks
const BLOCK_SIZE		= 0x1000
const BLOCK_HEADER		= 0x10
const BLOCK_PAYLOAD		= BLOCK_SIZE - BLOCK_HEADER
const FS_DEFAULT_INODES	= 0x40
const FS_DEFAULT_BLOCKS	= 0x10
// largest file, holes included. Well under SLAB_MAX_SLOTS * BLOCK_PAYLOAD.
const FS_MAX_FILE_SIZE	= 1 << 30

// fd range handed out by a Proc, same as a small unix process table:
// 0-2 are reserved for stdio.
const FD_FIRST 			= 3
const FD_LAST			= 256

// This is an alias for endianness effectively, so we only define endianness in one place (here).
var Bin = binary.BigEndian
