package engine

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/soyunomas/finddupes/internal/entities"
)

// Definimos las estrategias de conservación disponibles
type KeepStrategy int

const (
	KeepFirst KeepStrategy = iota // Default: orden de recorrido
	KeepShortestPath
	KeepLongestPath
	KeepOldest
	KeepNewest
)

var strategyNames = map[KeepStrategy]string{
	KeepFirst:        "first",
	KeepShortestPath: "shortest",
	KeepLongestPath:  "longest",
	KeepOldest:       "oldest",
	KeepNewest:       "newest",
}

func (s KeepStrategy) String() string {
	if n, ok := strategyNames[s]; ok {
		return n
	}
	return fmt.Sprintf("KeepStrategy(%d)", int(s))
}

// ParseKeepStrategy convierte el nombre de la flag en estrategia.
func ParseKeepStrategy(name string) (KeepStrategy, error) {
	for s, n := range strategyNames {
		if strings.EqualFold(n, name) {
			return s, nil
		}
	}
	return KeepFirst, fmt.Errorf("unknown keep strategy %q (available: first, shortest, longest, oldest, newest)", name)
}

type fileOrder func(a, b *entities.FileRecord) int

func byPathLen(a, b *entities.FileRecord) int { return cmp.Compare(len(a.Path), len(b.Path)) }

func byModTime(a, b *entities.FileRecord) int { return a.ModTime.Compare(b.ModTime) }

func reverse(f fileOrder) fileOrder {
	return func(a, b *entities.FileRecord) int { return f(b, a) }
}

// orderFor devuelve la cadena de criterios de cada estrategia: primero el
// suyo, luego la longitud de ruta y por último el orden alfabético.
func orderFor(strategy KeepStrategy) []fileOrder {
	switch strategy {
	case KeepShortestPath:
		return []fileOrder{byPathLen}
	case KeepLongestPath:
		return []fileOrder{reverse(byPathLen)}
	case KeepOldest:
		return []fileOrder{byModTime, byPathLen}
	case KeepNewest:
		return []fileOrder{reverse(byModTime), byPathLen}
	}
	return nil
}

// sortGroups deja en Files[0] el archivo que se conserva.
// Con KeepFirst se respeta el orden de inserción del verificador.
func sortGroups(groups []entities.DuplicateGroup, strategy KeepStrategy) {
	order := orderFor(strategy)
	if order == nil {
		return
	}
	for _, g := range groups {
		slices.SortStableFunc(g.Files, func(a, b *entities.FileRecord) int {
			for _, f := range order {
				if c := f(a, b); c != 0 {
					return c
				}
			}
			return strings.Compare(a.Path, b.Path)
		})
	}
}

// sortedSizes devuelve los tamaños en orden ascendente.
func sortedSizes(idx entities.SizeIndex) []int64 {
	sizes := make([]int64, 0, len(idx))
	for s := range idx {
		sizes = append(sizes, s)
	}
	slices.Sort(sizes)
	return sizes
}

// sortedHashKeys ordena por tamaño y luego por digest para que la salida
// no dependa del orden de iteración del mapa.
func sortedHashKeys(idx entities.HashIndex) []entities.HashKey {
	keys := make([]entities.HashKey, 0, len(idx))
	for k := range idx {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b entities.HashKey) int {
		if c := cmp.Compare(a.Size, b.Size); c != 0 {
			return c
		}
		return strings.Compare(a.Digest, b.Digest)
	})
	return keys
}
