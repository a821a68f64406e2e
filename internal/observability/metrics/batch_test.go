package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kirillkom/pdf-archivist/internal/core/domain"
)

func TestFinishFileCountsByStatus(t *testing.T) {
	m := NewBatchMetrics("pdf-archivist")

	m.StartFile()
	m.FinishFile(2*time.Second, nil)
	m.StartFile()
	m.FinishFile(time.Second, domain.WrapError(domain.ErrEmptyText, "extract text", errors.New("no text")))

	if got := testutil.ToFloat64(m.filesTotal.WithLabelValues("pdf-archivist", "success")); got != 1 {
		t.Fatalf("success count = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.filesTotal.WithLabelValues("pdf-archivist", "error")); got != 1 {
		t.Fatalf("error count = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.filesInFlight); got != 0 {
		t.Fatalf("in-flight gauge = %v, want 0", got)
	}
	if got := testutil.ToFloat64(m.stageFailures.WithLabelValues("pdf-archivist", "extract")); got != 1 {
		t.Fatalf("extract stage failures = %v, want 1", got)
	}
}

func TestStageForError(t *testing.T) {
	wrap := func(kind error) error {
		return domain.WrapError(kind, "op", errors.New("boom"))
	}
	cases := []struct {
		err  error
		want string
	}{
		{wrap(domain.ErrRepairFailed), "repair"},
		{wrap(domain.ErrToolNotFound), "ocr"},
		{wrap(domain.ErrToolExecution), "ocr"},
		{wrap(domain.ErrRasterizer), "ocr"},
		{wrap(domain.ErrEmptyText), "extract"},
		{wrap(domain.ErrClassificationParse), "classify"},
		{wrap(domain.ErrClassificationTransport), "classify"},
		{wrap(domain.ErrMoveFailed), "move"},
		{errors.New("anything else"), "other"},
	}
	for _, c := range cases {
		if got := stageForError(c.err); got != c.want {
			t.Fatalf("stageForError(%v) = %q, want %q", c.err, got, c.want)
		}
	}
}

func TestRepairAttemptCounter(t *testing.T) {
	m := NewBatchMetrics("pdf-archivist")
	m.RepairAttempt()
	m.RepairAttempt()
	if got := testutil.ToFloat64(m.repairAttempts); got != 2 {
		t.Fatalf("repair attempts = %v, want 2", got)
	}
}
