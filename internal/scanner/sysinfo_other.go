//go:build !unix

package scanner

import "io/fs"

// getSysInfo no tiene inodos fuera de unix: los hardlinks no se detectan.
func getSysInfo(fs.FileInfo) (dev, inode, links uint64) {
	return 0, 0, 0
}
