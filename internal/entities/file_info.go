package entities

import (
	"time"
)

// FileRecord representa un archivo en disco con los metadatos capturados
// durante el recorrido.
type FileRecord struct {
	Path     string
	Size     int64
	ModTime  time.Time
	DeviceID uint64
	Inode    uint64
	Links    uint64
}

// SizeIndex agrupa archivos por tamaño.
// Map: [Tamaño] -> [Archivos en orden de recorrido]
type SizeIndex map[int64][]*FileRecord

// Add agrega un archivo a su cubeta de tamaño.
func (s SizeIndex) Add(f *FileRecord) {
	s[f.Size] = append(s[f.Size], f)
}

// Prune elimina tamaño 0 y todas las cubetas con un único archivo.
func (s SizeIndex) Prune() {
	delete(s, 0)
	for size, files := range s {
		if len(files) < 2 {
			delete(s, size)
		}
	}
}

// Count devuelve el número total de archivos indexados.
func (s SizeIndex) Count() int {
	n := 0
	for _, files := range s {
		n += len(files)
	}
	return n
}

// HashKey identifica una cubeta de hash: mismo tamaño y mismo digest.
type HashKey struct {
	Size   int64
	Digest string
}

// HashIndex agrupa archivos por (tamaño, digest).
type HashIndex map[HashKey][]*FileRecord

// Add agrega un archivo a la cubeta de su clave.
func (h HashIndex) Add(key HashKey, f *FileRecord) {
	h[key] = append(h[key], f)
}

// Prune elimina las cubetas con un único archivo.
func (h HashIndex) Prune() {
	for key, files := range h {
		if len(files) < 2 {
			delete(h, key)
		}
	}
}

// Count devuelve el número total de archivos indexados.
func (h HashIndex) Count() int {
	n := 0
	for _, files := range h {
		n += len(files)
	}
	return n
}

// DuplicateGroup es un conjunto de al menos dos archivos idénticos byte a byte.
// Files[0] es el archivo que se conserva al borrar.
type DuplicateGroup struct {
	Key   HashKey
	Files []*FileRecord
}

// Paths devuelve las rutas del grupo en orden.
func (g DuplicateGroup) Paths() []string {
	paths := make([]string, len(g.Files))
	for i, f := range g.Files {
		paths[i] = f.Path
	}
	return paths
}

// Reclaimable son los bytes que se liberan borrando todo salvo el primero.
func (g DuplicateGroup) Reclaimable() int64 {
	if len(g.Files) < 2 {
		return 0
	}
	return g.Key.Size * int64(len(g.Files)-1)
}
