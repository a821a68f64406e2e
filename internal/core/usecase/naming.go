package usecase

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/kirillkom/pdf-archivist/internal/core/domain"
)

// NoDateSentinel replaces an absent or invalid issue date in the filename.
const NoDateSentinel = "NODATE"

const (
	fallbackSender   = "Unbekannter_Absender"
	fallbackTitle    = "Unbenannter_Titel"
	fallbackCategory = "Sonstiges"
)

const isoDateLayout = "2006-01-02"

type naming struct {
	Category string
	Filename string
}

// resolveNaming validates and sanitizes the classification into the category
// directory name and the final filename "{date} - {sender} - {title}.pdf".
// The category is used as returned by the model after sanitization; it is not
// clamped to the configured list.
func resolveNaming(cls domain.Classification, originalName string, logger *slog.Logger) naming {
	date := strings.TrimSpace(cls.Date)
	if _, err := time.Parse(isoDateLayout, date); err != nil {
		logger.Warn("invalid_or_missing_date",
			"file", originalName, "date", cls.Date, "sentinel", NoDateSentinel)
		date = NoDateSentinel
	}

	sender := nameComponent(cls.Sender, fallbackSender)
	title := nameComponent(cls.Title, fallbackTitle)
	category := nameComponent(capitalizeFirst(cls.Category), fallbackCategory)

	return naming{
		Category: category,
		Filename: fmt.Sprintf("%s - %s - %s.pdf", date, sender, title),
	}
}

func nameComponent(raw, fallback string) string {
	name := domain.SanitizeName(strings.TrimSpace(raw))
	name = domain.CollapseWhitespace(name)
	if name == "" {
		return fallback
	}
	return name
}

func capitalizeFirst(s string) string {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) == 0 {
		return ""
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
