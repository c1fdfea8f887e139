package scanner

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/soyunomas/finddupes/internal/entities"
)

// DefaultDirExcludes son los directorios que nunca se recorren.
var DefaultDirExcludes = []string{
	".AppleDB",
	".AppleDesktop",
	".AppleDouble",
	".RECYCLER",
	".Spotlight-V100",
	".thumbs",
	".DS_Store",
	".Trash",
	".git",
	".svn",
	"CVS",
	"Network Trash Folder",
	"RCS",
	"SCCS",
	"__pycache__",
}

// Config define las reglas para el escaneo.
type Config struct {
	MinSize          int64    // Excluye tamaño <= MinSize (0 = sin mínimo)
	MaxSize          int64    // Excluye tamaño >= MaxSize (0 = sin máximo)
	IncludeHardlinks bool     // No suprimir rutas que comparten inodo
	ExcludeDirs      []string // Carpetas a ignorar
	ExcludeFiles     []string // Archivos a ignorar
}

// Result es la salida del recorrido: el índice por tamaño ya podado y los contadores.
type Result struct {
	Sizes        entities.SizeIndex
	Roots        int // Raíces válidas recorridas
	Traversed    int64
	SkippedMin   int64 // Vacíos o <= MinSize
	SkippedMax   int64
	SkippedLinks int64
	Unreadable   int64
}

type sysID struct {
	dev, inode uint64
}

// FileScanner encapsula la lógica de recorrido del sistema de archivos.
type FileScanner struct {
	fs       afero.Fs
	cfg      Config
	log      logrus.Ext1FieldLogger
	excDirs  map[string]struct{} // Optimización O(1)
	excFiles map[string]struct{}
}

// New crea una nueva instancia del escáner con configuración.
func New(fs afero.Fs, cfg Config, log logrus.Ext1FieldLogger) *FileScanner {
	return &FileScanner{
		fs:       fs,
		cfg:      cfg,
		log:      log,
		excDirs:  toSet(cfg.ExcludeDirs),
		excFiles: toSet(cfg.ExcludeFiles),
	}
}

func toSet(names []string) map[string]struct{} {
	m := make(map[string]struct{}, len(names))
	for _, n := range names {
		m[n] = struct{}{}
	}
	return m
}

// Scan recorre las raíces en orden y devuelve el índice por tamaño.
// Las raíces inexistentes o que no son directorios se saltan con un aviso.
func (s *FileScanner) Scan(roots []string) *Result {
	res := &Result{Sizes: entities.SizeIndex{}}

	for _, root := range roots {
		info, err := s.fs.Stat(root)
		if err != nil || !info.IsDir() {
			s.log.Warnf("Directory doesn't exist or not a directory: %s (Skipping)", root)
			continue
		}
		res.Roots++
		s.walkRoot(root, res)
	}

	res.Sizes.Prune()
	return res
}

// walkRoot recorre una raíz. El conjunto de inodos vistos es propio de cada raíz.
func (s *FileScanner) walkRoot(root string, res *Result) {
	seen := make(map[sysID]struct{})

	// Una raíz que es symlink a directorio se recorre a través del enlace.
	start := root
	if lst, ok := s.fs.(afero.Lstater); ok {
		if fi, _, err := lst.LstatIfPossible(root); err == nil && fi.Mode()&os.ModeSymlink != 0 {
			start = root + string(filepath.Separator)
		}
	}

	_ = afero.Walk(s.fs, start, func(path string, info os.FileInfo, err error) error {
		// Errores de acceso (permisos, archivos que desaparecen): se ignoran
		if err != nil || info == nil {
			return nil
		}

		name := info.Name()
		if info.IsDir() {
			if path != start && s.excludedDir(name) {
				return filepath.SkipDir
			}
			return nil
		}

		if s.excludedFile(name) {
			return nil
		}
		// Un symlink a directorio no es un archivo: ni se cuenta ni se sigue
		if info.Mode()&os.ModeSymlink != 0 {
			if target, err := s.fs.Stat(path); err == nil && target.IsDir() {
				return nil
			}
		}
		res.Traversed++

		// Symlinks, FIFOs, sockets y dispositivos nunca son candidatos
		if !info.Mode().IsRegular() {
			return nil
		}

		if !s.readable(path) {
			res.Unreadable++
			s.log.Tracef("unreadable %s", path)
			return nil
		}

		size := info.Size()
		if size == 0 || (s.cfg.MinSize > 0 && size <= s.cfg.MinSize) {
			res.SkippedMin++
			return nil
		}
		if s.cfg.MaxSize > 0 && size >= s.cfg.MaxSize {
			res.SkippedMax++
			return nil
		}

		dev, inode, links := getSysInfo(info)
		if links > 1 && !s.cfg.IncludeHardlinks {
			id := sysID{dev, inode}
			if _, dup := seen[id]; dup {
				res.SkippedLinks++
				s.log.Tracef("inode %d %s", inode, path)
				return nil
			}
			seen[id] = struct{}{}
		}

		res.Sizes.Add(&entities.FileRecord{
			Path:     path,
			Size:     size,
			ModTime:  info.ModTime(),
			DeviceID: dev,
			Inode:    inode,
			Links:    links,
		})
		return nil
	})
}

func (s *FileScanner) excludedDir(name string) bool {
	if strings.HasSuffix(name, "~") {
		return true
	}
	_, ok := s.excDirs[name]
	return ok
}

func (s *FileScanner) excludedFile(name string) bool {
	if strings.HasSuffix(name, "~") {
		return true
	}
	_, ok := s.excFiles[name]
	return ok
}

// readable abre y cierra el archivo para confirmar permiso de lectura.
func (s *FileScanner) readable(path string) bool {
	f, err := s.fs.Open(path)
	if err != nil {
		return false
	}
	_ = f.Close()
	return true
}
