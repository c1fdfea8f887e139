package engine

import (
	"bytes"
	"errors"
	"io"

	"github.com/spf13/afero"

	"github.com/soyunomas/finddupes/internal/hasher"
)

// sameContent compara dos archivos byte a byte, sin atajos por metadatos.
// Ambos descriptores se cierran en cualquier camino.
func sameContent(fs afero.Fs, a, b string) (bool, error) {
	fa, err := fs.Open(a)
	if err != nil {
		return false, err
	}
	defer fa.Close()

	fb, err := fs.Open(b)
	if err != nil {
		return false, err
	}
	defer fb.Close()

	bufA := make([]byte, hasher.BlockSize)
	bufB := make([]byte, hasher.BlockSize)

	for {
		na, errA := io.ReadFull(fa, bufA)
		nb, errB := io.ReadFull(fb, bufB)

		if !bytes.Equal(bufA[:na], bufB[:nb]) {
			return false, nil
		}

		endA, endB := isEOF(errA), isEOF(errB)
		if errA != nil && !endA {
			return false, errA
		}
		if errB != nil && !endB {
			return false, errB
		}
		if endA || endB {
			return endA && endB, nil
		}
	}
}

func isEOF(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}
