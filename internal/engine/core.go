package engine

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/soyunomas/finddupes/internal/entities"
	"github.com/soyunomas/finddupes/internal/hasher"
	"github.com/soyunomas/finddupes/internal/scanner"
)

var ErrNoAlgorithm = errors.New("no hash algorithm configured")

type Options struct {
	Scan      scanner.Config
	Algorithm hasher.Algorithm
	Workers   int // 0 = runtime.NumCPU()
	Strategy  KeepStrategy
}

type Stats struct {
	Scan           *scanner.Result
	SizeCandidates int
	HashCandidates int
	HashFailures   int64
	Groups         []entities.DuplicateGroup
	Duration       time.Duration
}

// Reclaimable suma los bytes que liberaría el borrado.
func (s *Stats) Reclaimable() int64 {
	var n int64
	for _, g := range s.Groups {
		n += g.Reclaimable()
	}
	return n
}

// Duplicates cuenta los archivos que sobran (todos menos el primero de cada grupo).
func (s *Stats) Duplicates() int {
	n := 0
	for _, g := range s.Groups {
		n += len(g.Files) - 1
	}
	return n
}

type Runner struct {
	fs     afero.Fs
	opts   Options
	log    logrus.Ext1FieldLogger
	hasher *hasher.Hasher
}

func New(fs afero.Fs, opts Options, log logrus.Ext1FieldLogger) *Runner {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	r := &Runner{fs: fs, opts: opts, log: log}
	if opts.Algorithm.Available() {
		r.hasher = hasher.New(fs, opts.Algorithm)
	}
	return r
}

// Run ejecuta el pipeline completo. Ninguna etapa empieza antes de que la
// anterior termine para todas las raíces.
func (r *Runner) Run(roots []string) (*Stats, error) {
	if r.hasher == nil {
		return nil, ErrNoAlgorithm
	}
	start := time.Now()

	// --- PASO 1: SCANNER ---
	r.log.Debugf("scanning %d root(s)", len(roots))
	scan := scanner.New(r.fs, r.opts.Scan, r.log).Scan(roots)
	if scan.Roots == 0 {
		r.log.Warn("no usable directories to scan")
	}
	sizeCandidates := scan.Sizes.Count()
	r.log.Debugf("%d files found, %d size candidates", scan.Traversed, sizeCandidates)

	// --- PASO 2: HASHING ---
	r.log.Debugf("Using %s", r.hasher.Algorithm().Name)
	hashes, failures := r.bucketByHash(scan.Sizes)
	r.log.Debugf("%d candidates after hashing", hashes.Count())

	// --- PASO 3: COMPARACIÓN BYTE A BYTE ---
	groups := r.verify(hashes)

	// --- PASO 4: ORDENAR ---
	sortGroups(groups, r.opts.Strategy)

	return &Stats{
		Scan:           scan,
		SizeCandidates: sizeCandidates,
		HashCandidates: hashes.Count(),
		HashFailures:   failures,
		Groups:         groups,
		Duration:       time.Since(start),
	}, nil
}

// bucketByHash calcula el digest de cada candidato con un pool de workers.
// Los resultados se guardan por posición, así que la agrupación no depende
// del orden en que terminan los workers.
func (r *Runner) bucketByHash(sizes entities.SizeIndex) (entities.HashIndex, int64) {
	var jobs []*entities.FileRecord
	for _, size := range sortedSizes(sizes) {
		jobs = append(jobs, sizes[size]...)
	}

	type result struct {
		digest string
		err    error
	}
	results := make([]result, len(jobs))

	var g errgroup.Group
	g.SetLimit(r.opts.Workers)
	for i, f := range jobs {
		i, f := i, f
		g.Go(func() error {
			d, err := r.hasher.HashFile(f.Path)
			results[i] = result{d, err}
			return nil
		})
	}
	_ = g.Wait()

	index := entities.HashIndex{}
	var failures int64
	for i, f := range jobs {
		if err := results[i].err; err != nil {
			failures++
			r.log.Warnf("Error (%v) while reading (%s)", err, f.Path)
			continue
		}
		index.Add(entities.HashKey{Size: f.Size, Digest: results[i].digest}, f)
	}
	index.Prune()
	return index, failures
}

// verify parte cada cubeta de hash en grupos idénticos byte a byte.
// Una colisión de hash produce grupos separados; los grupos de uno se descartan.
func (r *Runner) verify(index entities.HashIndex) []entities.DuplicateGroup {
	var groups []entities.DuplicateGroup

	for _, key := range sortedHashKeys(index) {
		remaining := index[key]
		for len(remaining) > 0 {
			pivot := remaining[0]
			cluster := []*entities.FileRecord{pivot}
			var rest []*entities.FileRecord

			for _, other := range remaining[1:] {
				same, err := sameContent(r.fs, pivot.Path, other.Path)
				if err != nil {
					r.log.Warnf("Error (%v) while comparing (%s) with (%s)", err, pivot.Path, other.Path)
				}
				if same {
					cluster = append(cluster, other)
				} else {
					rest = append(rest, other)
				}
			}

			remaining = rest
			if len(cluster) > 1 {
				groups = append(groups, entities.DuplicateGroup{Key: key, Files: cluster})
			}
		}
	}
	return groups
}

func (o Options) String() string {
	return fmt.Sprintf("hash=%s workers=%d keep=%s min=%d max=%d hardlinks=%t",
		o.Algorithm.Name, o.Workers, o.Strategy, o.Scan.MinSize, o.Scan.MaxSize, o.Scan.IncludeHardlinks)
}
