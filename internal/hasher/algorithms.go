package hasher

import (
	"crypto/md5"
	"encoding/binary"
	"errors"
	"fmt"
	"hash"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/zeebo/blake3"
	"github.com/zeebo/xxh3"
	"golang.org/x/crypto/blake2b"
)

// Nombres de los algoritmos registrados.
const (
	XXH3    = "xxh3"
	XXHash  = "xxhash"
	MD5     = "md5"
	BLAKE3  = "blake3"
	BLAKE2b = "blake2b"
)

// Default es el algoritmo rápido preferido.
const Default = XXH3

// Fallback es el algoritmo criptográfico usado cuando se fuerza o cuando el
// rápido no está disponible.
const Fallback = MD5

var ErrUnknownAlgorithm = errors.New("unknown hash algorithm")

// Algorithm es una estrategia de hash seleccionada una sola vez al arrancar.
type Algorithm struct {
	Name   string
	Crypto bool
	New    func() hash.Hash
}

// Available indica si el algoritmo puede construir digests.
func (a Algorithm) Available() bool {
	return a.New != nil
}

var registry = map[string]Algorithm{
	XXH3:    {Name: XXH3, New: newXXH3},
	XXHash:  {Name: XXHash, New: func() hash.Hash { return xxhash.New() }},
	MD5:     {Name: MD5, Crypto: true, New: md5.New},
	BLAKE3:  {Name: BLAKE3, Crypto: true, New: func() hash.Hash { return blake3.New() }},
	BLAKE2b: {Name: BLAKE2b, Crypto: true, New: newBLAKE2b},
}

// Names devuelve los algoritmos registrados en orden alfabético.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Select resuelve la estrategia de hash.
// forceMD5 tiene prioridad sobre name; un nombre vacío elige Default.
// Si el algoritmo pedido no está disponible se devuelve Fallback y fellBack=true.
func Select(name string, forceMD5 bool) (alg Algorithm, fellBack bool, err error) {
	if forceMD5 {
		name = MD5
	}
	if name == "" {
		name = Default
	}

	alg, ok := registry[strings.ToLower(name)]
	if !ok {
		return Algorithm{}, false, fmt.Errorf("%w: %q (available: %s)", ErrUnknownAlgorithm, name, strings.Join(Names(), ", "))
	}
	if alg.Available() {
		return alg, false, nil
	}

	fb := registry[Fallback]
	if !fb.Available() {
		return Algorithm{}, false, fmt.Errorf("%w: neither %s nor %s available", ErrUnknownAlgorithm, name, Fallback)
	}
	return fb, true, nil
}

// xxh3Digest adapta XXH3-128 a hash.Hash. Sum escribe Hi y Lo en big-endian,
// igual que el hexdigest canónico.
type xxh3Digest struct {
	h *xxh3.Hasher
}

func newXXH3() hash.Hash {
	return &xxh3Digest{h: xxh3.New()}
}

func (d *xxh3Digest) Write(p []byte) (int, error) { return d.h.Write(p) }
func (d *xxh3Digest) Reset()                      { d.h.Reset() }
func (d *xxh3Digest) Size() int                   { return 16 }
func (d *xxh3Digest) BlockSize() int              { return 64 }

func (d *xxh3Digest) Sum(b []byte) []byte {
	s := d.h.Sum128()
	b = binary.BigEndian.AppendUint64(b, s.Hi)
	return binary.BigEndian.AppendUint64(b, s.Lo)
}

func newBLAKE2b() hash.Hash {
	// Sin clave New256 nunca falla.
	h, _ := blake2b.New256(nil)
	return h
}
