package ollama

import (
	"fmt"
	"strings"
)

func buildClassificationPrompt(text string, categories []string, maxChars int) string {
	snippet := text
	if maxChars > 0 && len(snippet) > maxChars {
		snippet = snippet[:maxChars]
	}

	return fmt.Sprintf(`Analyze the following text from a scanned document (letter, invoice, official notice).
Extract the requested information and return it exclusively as a single JSON object with exactly these keys:
1. "date": the main date of the document (issue date, invoice date). Prefer the first or most prominent date. Always format it as YYYY-MM-DD; convert German dates like DD.MM.YYYY. Return "null" when no date is found.
2. "sender": the name of the institution or company that sent the document (e.g. "Finanzamt München", "Stadtwerke Beispielstadt"). Give only the institution, even when a person signed on its behalf. Return "Unbekannt" when no sender is identifiable.
3. "title": a short, concise title for the document. Use the subject line ("Betreff:", "Subject:") when present; otherwise summarize the main purpose in 3-6 words.
4. "category": exactly one of the following categories, chosen by sender and content: %s.

Here is the extracted text:
--- TEXT START ---
%s
--- TEXT END ---

Return ONLY the JSON object, with no leading or trailing text. Example:
{
  "date": "2024-05-15",
  "sender": "Beispiel GmbH",
  "title": "Rechnung Nr. 12345",
  "category": "Rechnung"
}`, strings.Join(categories, ", "), snippet)
}
