package usecase

import (
	"testing"

	"github.com/kirillkom/pdf-archivist/internal/core/domain"
)

func TestResolveNamingAcceptsISODate(t *testing.T) {
	n := resolveNaming(domain.Classification{
		Date:     "2024-05-15",
		Sender:   "Finanzamt München",
		Title:    "Steuerbescheid 2023",
		Category: "Steuer",
	}, "scan.pdf", testLogger())

	if n.Category != "Steuer" {
		t.Fatalf("unexpected category %q", n.Category)
	}
	if n.Filename != "2024-05-15 - Finanzamt_München - Steuerbescheid_2023.pdf" {
		t.Fatalf("unexpected filename %q", n.Filename)
	}
}

func TestResolveNamingSubstitutesSentinelForBadDates(t *testing.T) {
	for _, date := range []string{"15.05.2024", "", "null", "2024-13-01", "2024-05-15T10:00:00"} {
		n := resolveNaming(domain.Classification{
			Date: date, Sender: "S", Title: "T", Category: "Bank",
		}, "scan.pdf", testLogger())
		if n.Filename != NoDateSentinel+" - S - T.pdf" {
			t.Fatalf("date %q: expected sentinel filename, got %q", date, n.Filename)
		}
	}
}

func TestResolveNamingFallbackLabels(t *testing.T) {
	n := resolveNaming(domain.Classification{
		Date: "2024-05-15", Sender: "???", Title: "***", Category: "  ",
	}, "scan.pdf", testLogger())

	if n.Category != fallbackCategory {
		t.Fatalf("expected fallback category, got %q", n.Category)
	}
	want := "2024-05-15 - " + fallbackSender + " - " + fallbackTitle + ".pdf"
	if n.Filename != want {
		t.Fatalf("expected %q, got %q", want, n.Filename)
	}
}

func TestResolveNamingUnderscoresCategoryWhitespace(t *testing.T) {
	n := resolveNaming(domain.Classification{
		Date: "2024-05-15", Sender: "S", Title: "T", Category: "alte  Unterlagen",
	}, "scan.pdf", testLogger())
	if n.Category != "Alte_Unterlagen" {
		t.Fatalf("expected Alte_Unterlagen, got %q", n.Category)
	}
}

// The model's category is deliberately not clamped to the configured list;
// an unknown value becomes its own archive directory after sanitization.
func TestResolveNamingKeepsCategoryOutsideConfiguredList(t *testing.T) {
	n := resolveNaming(domain.Classification{
		Date: "2024-05-15", Sender: "S", Title: "T", Category: "Quittungen",
	}, "scan.pdf", testLogger())
	if n.Category != "Quittungen" {
		t.Fatalf("expected unknown category to pass through, got %q", n.Category)
	}
}
