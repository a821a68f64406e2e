package ocrmypdf

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kirillkom/pdf-archivist/internal/core/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// writeStub creates an executable shell script standing in for the ocrmypdf
// binary. Positional arguments: $8 is the input path, $9 the output path.
func writeStub(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ocrmypdf-stub")
	script := "#!/bin/sh\n" + body + "\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

type repairerFake struct {
	err     error
	calls   int
	source  string
	output  string
	noWrite bool
}

func (f *repairerFake) Repair(_ context.Context, sourcePath, outputPath string) error {
	f.calls++
	f.source = sourcePath
	f.output = outputPath
	if f.err != nil {
		return f.err
	}
	if f.noWrite {
		return nil
	}
	return os.WriteFile(outputPath, []byte("%PDF-1.7 repaired"), 0o644)
}

type repairCounter struct{ attempts int }

func (c *repairCounter) RepairAttempt() { c.attempts++ }

func writeSource(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	source := filepath.Join(dir, "scan.pdf")
	if err := os.WriteFile(source, []byte("%PDF-1.4"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	return source, filepath.Join(dir, "scan_ocr_temp.pdf")
}

func TestRecognizeSuccess(t *testing.T) {
	stub := writeStub(t, `touch "$9"`)
	source, output := writeSource(t)

	engine := New(stub, "deu+eng", &repairerFake{}, nil, testLogger())
	if err := engine.Recognize(context.Background(), source, output); err != nil {
		t.Fatalf("Recognize() error = %v", err)
	}
	if _, err := os.Stat(output); err != nil {
		t.Fatalf("output missing: %v", err)
	}
}

func TestRecognizeRepairsRasterizerFailureOnce(t *testing.T) {
	stub := writeStub(t, `case "$8" in
*_repaired_temp*) touch "$9"; exit 0;;
*) echo "ghostscript rasterize failed" >&2; exit 7;;
esac`)
	source, output := writeSource(t)
	repairer := &repairerFake{}
	counter := &repairCounter{}

	engine := New(stub, "deu+eng", repairer, counter, testLogger())
	if err := engine.Recognize(context.Background(), source, output); err != nil {
		t.Fatalf("Recognize() error = %v", err)
	}

	if repairer.calls != 1 {
		t.Fatalf("expected exactly one repair, got %d", repairer.calls)
	}
	if counter.attempts != 1 {
		t.Fatalf("expected one counted repair attempt, got %d", counter.attempts)
	}
	if repairer.source != source {
		t.Fatalf("repair ran on %q, want %q", repairer.source, source)
	}
	wantTemp := filepath.Join(filepath.Dir(source), "scan_repaired_temp.pdf")
	if repairer.output != wantTemp {
		t.Fatalf("repaired temp at %q, want %q", repairer.output, wantTemp)
	}
	if _, err := os.Stat(output); err != nil {
		t.Fatalf("output missing after retry: %v", err)
	}
	if _, err := os.Stat(wantTemp); !os.IsNotExist(err) {
		t.Fatalf("repaired temp not cleaned up")
	}
}

func TestRecognizeRepairsAtMostOnce(t *testing.T) {
	stub := writeStub(t, `echo "ghostscript rasterize failed" >&2; exit 7`)
	source, output := writeSource(t)
	repairer := &repairerFake{}

	engine := New(stub, "deu+eng", repairer, nil, testLogger())
	err := engine.Recognize(context.Background(), source, output)
	if !domain.IsKind(err, domain.ErrRasterizer) {
		t.Fatalf("expected ErrRasterizer after failed retry, got %v", err)
	}
	if repairer.calls != 1 {
		t.Fatalf("expected exactly one repair, got %d", repairer.calls)
	}
	wantTemp := filepath.Join(filepath.Dir(source), "scan_repaired_temp.pdf")
	if _, statErr := os.Stat(wantTemp); !os.IsNotExist(statErr) {
		t.Fatalf("repaired temp not cleaned up after failed retry")
	}
}

func TestRecognizeWrapsRepairFailure(t *testing.T) {
	stub := writeStub(t, `echo "ghostscript rasterize failed" >&2; exit 7`)
	source, output := writeSource(t)
	repairer := &repairerFake{err: errors.New("gs exploded")}

	engine := New(stub, "deu+eng", repairer, nil, testLogger())
	err := engine.Recognize(context.Background(), source, output)
	if !domain.IsKind(err, domain.ErrRepairFailed) {
		t.Fatalf("expected ErrRepairFailed, got %v", err)
	}
}

func TestRecognizeOrdinaryExitIsNotRepaired(t *testing.T) {
	stub := writeStub(t, `echo "input file is encrypted" >&2; exit 2`)
	source, output := writeSource(t)
	repairer := &repairerFake{}

	engine := New(stub, "deu+eng", repairer, nil, testLogger())
	err := engine.Recognize(context.Background(), source, output)
	if !domain.IsKind(err, domain.ErrToolExecution) {
		t.Fatalf("expected ErrToolExecution, got %v", err)
	}
	if repairer.calls != 0 {
		t.Fatalf("repair triggered for a non-rasterizer failure")
	}
	if !strings.Contains(err.Error(), "encrypted") {
		t.Fatalf("stderr missing from error: %v", err)
	}
}

// Exit code 7 alone is not enough; the stderr must mention ghostscript.
func TestRecognizeExitSevenWithoutSignatureIsNotRepaired(t *testing.T) {
	stub := writeStub(t, `echo "unrelated failure" >&2; exit 7`)
	source, output := writeSource(t)
	repairer := &repairerFake{}

	engine := New(stub, "deu+eng", repairer, nil, testLogger())
	err := engine.Recognize(context.Background(), source, output)
	if !domain.IsKind(err, domain.ErrToolExecution) {
		t.Fatalf("expected ErrToolExecution, got %v", err)
	}
	if repairer.calls != 0 {
		t.Fatalf("repair triggered without the rasterizer signature")
	}
}

func TestRecognizeMissingBinary(t *testing.T) {
	source, output := writeSource(t)
	engine := New("definitely-missing-ocr-binary", "deu+eng", &repairerFake{}, nil, testLogger())

	err := engine.Recognize(context.Background(), source, output)
	if !domain.IsKind(err, domain.ErrToolNotFound) {
		t.Fatalf("expected ErrToolNotFound, got %v", err)
	}
}

func TestRecognizeMissingOutputAfterCleanExit(t *testing.T) {
	stub := writeStub(t, `exit 0`)
	source, output := writeSource(t)

	engine := New(stub, "deu+eng", &repairerFake{}, nil, testLogger())
	err := engine.Recognize(context.Background(), source, output)
	if !domain.IsKind(err, domain.ErrToolExecution) {
		t.Fatalf("expected ErrToolExecution for missing output, got %v", err)
	}
}
