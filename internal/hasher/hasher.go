package hasher

import (
	"encoding/hex"
	"hash"
	"io"
	"sync"

	"github.com/spf13/afero"
)

// BlockSize optimiza la lectura del disco (32KB es un buen estándar)
const BlockSize = 32 * 1024

// bufferPool reutiliza los buffers de lectura entre workers.
var bufferPool = sync.Pool{
	New: func() any {
		b := make([]byte, BlockSize)
		return &b
	},
}

// Hasher calcula digests de archivos con un algoritmo fijo.
// Es seguro para uso concurrente.
type Hasher struct {
	fs       afero.Fs
	alg      Algorithm
	hashPool sync.Pool
}

// New crea un Hasher sobre fs para el algoritmo dado.
func New(fs afero.Fs, alg Algorithm) *Hasher {
	h := &Hasher{fs: fs, alg: alg}
	h.hashPool.New = func() any {
		return alg.New()
	}
	return h
}

// Algorithm devuelve la estrategia activa.
func (h *Hasher) Algorithm() Algorithm {
	return h.alg
}

// HashFile calcula el digest completo en hexadecimal leyendo en bloques.
// El archivo se cierra siempre, también en error.
func (h *Hasher) HashFile(path string) (string, error) {
	file, err := h.fs.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	d := h.hashPool.Get().(hash.Hash)
	d.Reset()
	defer h.hashPool.Put(d)

	bufPtr := bufferPool.Get().(*[]byte)
	defer bufferPool.Put(bufPtr)

	// Envolvemos en un Reader mínimo para que CopyBuffer use nuestro buffer
	// y no un WriterTo/ReaderFrom del archivo.
	if _, err := io.CopyBuffer(d, struct{ io.Reader }{file}, *bufPtr); err != nil {
		return "", err
	}

	return hex.EncodeToString(d.Sum(nil)), nil
}
