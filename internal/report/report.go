package report

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/rodaine/table"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/soyunomas/finddupes/internal/engine"
	"github.com/soyunomas/finddupes/internal/entities"
	"github.com/soyunomas/finddupes/internal/scanner"
)

// Reporter escribe el resultado en texto plano y ejecuta el borrado.
type Reporter struct {
	w      io.Writer
	fs     afero.Fs
	log    logrus.FieldLogger
	header *color.Color
}

func New(w io.Writer, fs afero.Fs, log logrus.FieldLogger) *Reporter {
	return &Reporter{
		w:      w,
		fs:     fs,
		log:    log,
		header: color.New(color.FgYellow, color.Bold),
	}
}

// DeleteResult resume el borrado. Err agrupa todos los fallos.
type DeleteResult struct {
	Removed int
	Failed  int
	Bytes   int64
	Err     error
}

func (r *Reporter) Traversed(n int64) {
	fmt.Fprintf(r.w, "Traversed %d files\n", n)
}

// Skipped imprime los contadores de archivos descartados por tamaño.
// Sólo se informa del umbral que esté configurado.
func (r *Reporter) Skipped(res *scanner.Result, minSize, maxSize int64) {
	if minSize > 0 {
		fmt.Fprintf(r.w, "Min size skipped: %d\n", res.SkippedMin)
	}
	if maxSize > 0 {
		fmt.Fprintf(r.w, "Max size skipped: %d\n", res.SkippedMax)
	}
}

// Groups imprime cada grupo numerado desde 1, una ruta por línea.
// Con deleteMode conserva Files[0] y borra el resto justo debajo de su grupo;
// un fallo se registra y se continúa. Sin deleteMode devuelve nil.
func (r *Reporter) Groups(groups []entities.DuplicateGroup, deleteMode bool) *DeleteResult {
	if len(groups) == 0 {
		fmt.Fprintln(r.w, "No duplicates found")
	}

	var res DeleteResult
	var errs []error
	for i, g := range groups {
		r.header.Fprintf(r.w, "%d:", i+1)
		fmt.Fprintln(r.w)
		for _, f := range g.Files {
			fmt.Fprintf(r.w, "  %s\n", f.Path)
		}
		if deleteMode {
			errs = append(errs, r.remove(g, &res)...)
		}
	}

	if !deleteMode {
		return nil
	}
	res.Err = errors.Join(errs...)
	return &res
}

func (r *Reporter) remove(g entities.DuplicateGroup, res *DeleteResult) []error {
	var errs []error
	for _, f := range g.Files[1:] {
		if err := r.fs.Remove(f.Path); err != nil {
			res.Failed++
			r.log.Errorf("Error removing %s: %v", f.Path, err)
			errs = append(errs, err)
			continue
		}
		res.Removed++
		res.Bytes += f.Size
		fmt.Fprintf(r.w, "  Removed %s\n", f.Path)
	}
	return errs
}

// Summary imprime una tabla con los contadores de cada etapa.
// del puede ser nil si no se pidió borrado.
func (r *Reporter) Summary(stats *engine.Stats, del *DeleteResult) {
	fmt.Fprintln(r.w)
	tbl := table.New("Stage", "Files").WithWriter(r.w)
	tbl.AddRow("traversed", stats.Scan.Traversed)
	if stats.Scan.SkippedLinks > 0 {
		tbl.AddRow("hardlinks skipped", stats.Scan.SkippedLinks)
	}
	if stats.Scan.Unreadable > 0 {
		tbl.AddRow("unreadable", stats.Scan.Unreadable)
	}
	tbl.AddRow("same size", stats.SizeCandidates)
	tbl.AddRow("same hash", stats.HashCandidates)
	if stats.HashFailures > 0 {
		tbl.AddRow("hash errors", stats.HashFailures)
	}
	tbl.AddRow("duplicates", stats.Duplicates())
	if del != nil {
		tbl.AddRow("removed", del.Removed)
		if del.Failed > 0 {
			tbl.AddRow("remove errors", del.Failed)
		}
	}
	tbl.Print()

	if del != nil {
		fmt.Fprintf(r.w, "Space freed: %s\n", humanize.Bytes(uint64(del.Bytes)))
	} else {
		fmt.Fprintf(r.w, "Space reclaimable: %s\n", humanize.Bytes(uint64(stats.Reclaimable())))
	}
	fmt.Fprintf(r.w, "Elapsed: %s\n", stats.Duration.Round(time.Millisecond))
}
