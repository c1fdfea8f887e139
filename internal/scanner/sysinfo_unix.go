//go:build unix

package scanner

import (
	"io/fs"
	"syscall"
)

// getSysInfo extrae DeviceID, Inode y número de enlaces de forma "segura".
// Si el FileInfo no viene del sistema operativo (ej: MemMapFs) devuelve ceros.
func getSysInfo(info fs.FileInfo) (dev, inode, links uint64) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok || stat == nil {
		return 0, 0, 0
	}
	return uint64(stat.Dev), uint64(stat.Ino), uint64(stat.Nlink)
}
