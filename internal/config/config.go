package config

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/soyunomas/finddupes/internal/engine"
	"github.com/soyunomas/finddupes/internal/hasher"
	"github.com/soyunomas/finddupes/internal/scanner"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config reúne todas las opciones de la línea de comandos.
type Config struct {
	Delete    bool
	Hardlinks bool
	MD5       bool // --md5 / --no-md5: gana la última que aparezca
	Hash      string
	MinSize   int64
	MaxSize   int64
	Verbose   int
	Excludes  []string
	Keep      string
	Jobs      int
}

// RegisterFlags declara las flags sobre fs con sus valores por defecto.
func (c *Config) RegisterFlags(fs *pflag.FlagSet) {
	fs.BoolVarP(&c.Delete, "delete", "d", false, "delete the duplicate files, keeping the first of each group")
	fs.BoolVarP(&c.Hardlinks, "hardlinks", "l", false, "include hardlinked files")
	fs.VarPF(md5Switch{&c.MD5, true}, "md5", "", "use md5 hash").NoOptDefVal = "true"
	fs.VarPF(md5Switch{&c.MD5, false}, "no-md5", "", "do not use md5 hash (default)").NoOptDefVal = "true"
	fs.StringVar(&c.Hash, "hash", hasher.Default, fmt.Sprintf("hash algorithm %v", hasher.Names()))
	fs.Int64Var(&c.MinSize, "min", 0, "exclude files of this size in bytes or smaller (0 = no minimum)")
	fs.Int64Var(&c.MaxSize, "max", 0, "exclude files of this size in bytes or larger (0 = no maximum)")
	fs.CountVarP(&c.Verbose, "verbose", "v", "be more verbose (repeatable)")
	fs.StringSliceVarP(&c.Excludes, "exclude", "e", nil, "additional file or directory names to skip")
	fs.StringVarP(&c.Keep, "keep", "k", engine.KeepFirst.String(), "which copy to keep: first, shortest, longest, oldest, newest")
	fs.IntVarP(&c.Jobs, "jobs", "j", 0, "number of hashing workers (0 = number of CPUs)")
}

// Validate comprueba rangos y combinaciones de flags.
func (c *Config) Validate() error {
	if c.MinSize < 0 {
		return fmt.Errorf("%w: --min must not be negative", ErrInvalidConfig)
	}
	if c.MaxSize < 0 {
		return fmt.Errorf("%w: --max must not be negative", ErrInvalidConfig)
	}
	if c.MinSize > 0 && c.MaxSize > 0 && c.MinSize >= c.MaxSize {
		return fmt.Errorf("%w: --min (%d) must be lower than --max (%d)", ErrInvalidConfig, c.MinSize, c.MaxSize)
	}
	if c.Jobs < 0 {
		return fmt.Errorf("%w: --jobs must not be negative", ErrInvalidConfig)
	}
	if _, err := engine.ParseKeepStrategy(c.Keep); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, _, err := hasher.Select(c.Hash, c.MD5); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// md5Switch escribe sobre el mismo bool desde --md5 y --no-md5, así que
// el valor final lo decide la última flag de la línea de comandos.
type md5Switch struct {
	target *bool
	on     bool
}

func (s md5Switch) Set(v string) error {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return err
	}
	*s.target = b == s.on
	return nil
}

func (s md5Switch) String() string {
	if s.target == nil {
		return "false"
	}
	return strconv.FormatBool(*s.target == s.on)
}

func (s md5Switch) Type() string { return "bool" }

// Algorithm selecciona la estrategia de hash una única vez.
func (c *Config) Algorithm(log logrus.FieldLogger) (hasher.Algorithm, error) {
	alg, fellBack, err := hasher.Select(c.Hash, c.MD5)
	if err != nil {
		return hasher.Algorithm{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if fellBack {
		log.Warnf("%s unavailable, falling back to %s", c.Hash, alg.Name)
	}
	return alg, nil
}

// Options traduce la configuración a opciones del motor.
func (c *Config) Options(alg hasher.Algorithm) (engine.Options, error) {
	strategy, err := engine.ParseKeepStrategy(c.Keep)
	if err != nil {
		return engine.Options{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	dirs := append(append([]string{}, scanner.DefaultDirExcludes...), c.Excludes...)
	return engine.Options{
		Scan: scanner.Config{
			MinSize:          c.MinSize,
			MaxSize:          c.MaxSize,
			IncludeHardlinks: c.Hardlinks,
			ExcludeDirs:      dirs,
			ExcludeFiles:     append([]string{}, c.Excludes...),
		},
		Algorithm: alg,
		Workers:   c.Jobs,
		Strategy:  strategy,
	}, nil
}

// LogLevel traduce -v a niveles de logrus.
func (c *Config) LogLevel() logrus.Level {
	switch {
	case c.Verbose <= 0:
		return logrus.WarnLevel
	case c.Verbose == 1:
		return logrus.InfoLevel
	case c.Verbose == 2:
		return logrus.DebugLevel
	default:
		return logrus.TraceLevel
	}
}

// NewLogger crea el logger de diagnóstico según la verbosidad.
func (c *Config) NewLogger(w io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetLevel(c.LogLevel())
	log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp:       true,
		DisableLevelTruncation: true,
	})
	return log
}
