package report

import (
	"bytes"
	"errors"
	"strings"
	"syscall"
	"testing"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/spf13/afero"

	"github.com/soyunomas/finddupes/internal/engine"
	"github.com/soyunomas/finddupes/internal/entities"
	"github.com/soyunomas/finddupes/internal/hasher"
	"github.com/soyunomas/finddupes/internal/scanner"
)

func init() {
	color.NoColor = true
}

func group(size int64, paths ...string) entities.DuplicateGroup {
	g := entities.DuplicateGroup{Key: entities.HashKey{Size: size}}
	for _, p := range paths {
		g.Files = append(g.Files, &entities.FileRecord{Path: p, Size: size})
	}
	return g
}

func TestGroups(t *testing.T) {
	var buf bytes.Buffer
	log, _ := test.NewNullLogger()
	r := New(&buf, afero.NewMemMapFs(), log)

	if res := r.Groups([]entities.DuplicateGroup{
		group(3, "/a/1", "/b/1"),
		group(5, "/a/2", "/b/2", "/c/2"),
	}, false); res != nil {
		t.Errorf("report-only run returned %+v", res)
	}

	want := "1:\n  /a/1\n  /b/1\n2:\n  /a/2\n  /b/2\n  /c/2\n"
	if buf.String() != want {
		t.Errorf("output =\n%q\nwant\n%q", buf.String(), want)
	}
}

func TestGroupsEmpty(t *testing.T) {
	var buf bytes.Buffer
	log, _ := test.NewNullLogger()
	New(&buf, afero.NewMemMapFs(), log).Groups(nil, false)
	if buf.String() != "No duplicates found\n" {
		t.Errorf("output = %q", buf.String())
	}
}

func TestTraversed(t *testing.T) {
	var buf bytes.Buffer
	log, _ := test.NewNullLogger()
	New(&buf, afero.NewMemMapFs(), log).Traversed(42)
	if buf.String() != "Traversed 42 files\n" {
		t.Errorf("output = %q", buf.String())
	}
}

func TestDeleteKeepsFirst(t *testing.T) {
	fs := afero.NewMemMapFs()
	content := strings.Repeat("z", 100)
	_ = fs.MkdirAll("/t/a", 0o755)
	_ = fs.MkdirAll("/t/b", 0o755)
	_ = afero.WriteFile(fs, "/t/a/x.txt", []byte(content), 0o644)
	_ = afero.WriteFile(fs, "/t/b/x.txt", []byte(content), 0o644)

	log, _ := test.NewNullLogger()
	alg, _, _ := hasher.Select("", false)
	runner := engine.New(fs, engine.Options{
		Scan:      scanner.Config{ExcludeDirs: scanner.DefaultDirExcludes},
		Algorithm: alg,
	}, log)
	stats, err := runner.Run([]string{"/t"})
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	r := New(&buf, fs, log)
	res := r.Groups(stats.Groups, true)

	if res.Err != nil || res.Removed != 1 || res.Bytes != 100 {
		t.Fatalf("delete result = %+v", res)
	}
	if ok, _ := afero.Exists(fs, "/t/a/x.txt"); !ok {
		t.Error("keeper /t/a/x.txt was removed")
	}
	if ok, _ := afero.Exists(fs, "/t/b/x.txt"); ok {
		t.Error("duplicate /t/b/x.txt still exists")
	}
	want := "1:\n  /t/a/x.txt\n  /t/b/x.txt\n  Removed /t/b/x.txt\n"
	if buf.String() != want {
		t.Errorf("output =\n%q\nwant\n%q", buf.String(), want)
	}
}

func TestDeleteContinuesOnError(t *testing.T) {
	base := afero.NewMemMapFs()
	for _, p := range []string{"/r/a", "/r/b", "/r/c", "/r/d"} {
		_ = afero.WriteFile(base, p, []byte("data"), 0o644)
	}
	ro := afero.NewReadOnlyFs(base)

	var buf bytes.Buffer
	log, hook := test.NewNullLogger()
	r := New(&buf, ro, log)
	res := r.Groups([]entities.DuplicateGroup{
		group(4, "/r/a", "/r/b"),
		group(4, "/r/c", "/r/d"),
	}, true)

	if res.Failed != 2 || res.Removed != 0 {
		t.Errorf("result = %+v, want 2 failures", res)
	}
	if res.Err == nil || !errors.Is(res.Err, syscall.EPERM) {
		t.Errorf("Err = %v, want joined EPERM", res.Err)
	}
	if len(hook.AllEntries()) != 2 {
		t.Errorf("logged %d entries, want 2", len(hook.AllEntries()))
	}
	if strings.Contains(buf.String(), "Removed") {
		t.Errorf("no removal line expected, got %q", buf.String())
	}
}

func TestDeleteInterleavesWithGroups(t *testing.T) {
	fs := afero.NewMemMapFs()
	for _, p := range []string{"/a/1", "/b/1", "/a/2", "/b/2", "/c/2"} {
		_ = afero.WriteFile(fs, p, []byte("data"), 0o644)
	}

	var buf bytes.Buffer
	log, _ := test.NewNullLogger()
	res := New(&buf, fs, log).Groups([]entities.DuplicateGroup{
		group(4, "/a/1", "/b/1"),
		group(4, "/a/2", "/b/2", "/c/2"),
	}, true)

	if res.Err != nil || res.Removed != 3 || res.Bytes != 12 {
		t.Fatalf("delete result = %+v", res)
	}
	want := "1:\n  /a/1\n  /b/1\n  Removed /b/1\n" +
		"2:\n  /a/2\n  /b/2\n  /c/2\n  Removed /b/2\n  Removed /c/2\n"
	if buf.String() != want {
		t.Errorf("output =\n%q\nwant\n%q", buf.String(), want)
	}
}

func TestSkipped(t *testing.T) {
	res := &scanner.Result{SkippedMin: 3, SkippedMax: 2}
	tests := []struct {
		name     string
		min, max int64
		want     string
	}{
		{"none", 0, 0, ""},
		{"min", 10, 0, "Min size skipped: 3\n"},
		{"max", 0, 10, "Max size skipped: 2\n"},
		{"both", 1, 10, "Min size skipped: 3\nMax size skipped: 2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log, _ := test.NewNullLogger()
			New(&buf, afero.NewMemMapFs(), log).Skipped(res, tt.min, tt.max)
			if buf.String() != tt.want {
				t.Errorf("output = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestSummary(t *testing.T) {
	stats := &engine.Stats{
		Scan:           &scanner.Result{Traversed: 10, SkippedLinks: 1},
		SizeCandidates: 4,
		HashCandidates: 3,
		Groups:         []entities.DuplicateGroup{group(2000, "/a", "/b", "/c")},
	}

	var buf bytes.Buffer
	log, _ := test.NewNullLogger()
	New(&buf, afero.NewMemMapFs(), log).Summary(stats, nil)

	out := buf.String()
	for _, want := range []string{"traversed", "hardlinks skipped", "same size", "duplicates", "Space reclaimable: 4.0 kB"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "unreadable") {
		t.Errorf("zero counters should be omitted:\n%s", out)
	}
}
