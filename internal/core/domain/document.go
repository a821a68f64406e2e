package domain

// Document is a single inbox file moving through the pipeline. It is owned
// exclusively by the batch iteration that created it; the original file is
// deleted only after a verified move into the archive.
type Document struct {
	OriginalName string
	OriginalPath string
	OCRPath      string
	Text         string
	Result       *Classification
	FinalPath    string
}

// Classification is the fixed record the language model must return.
// Date is ISO 8601 or empty/"null" when unknown; Category is expected to come
// from the configured category list but is stored as returned.
type Classification struct {
	Date     string `json:"date"`
	Sender   string `json:"sender"`
	Title    string `json:"title"`
	Category string `json:"category"`
}

// SuccessRecord describes one archived file.
type SuccessRecord struct {
	Original    string `json:"original"`
	NewName     string `json:"new"`
	Destination string `json:"destination"`
}

// BatchSummary is finalized at batch end and emitted to the log only.
type BatchSummary struct {
	RunID       string
	Total       int
	Succeeded   int
	Failed      int
	FailedFiles []string
	Successes   []SuccessRecord
}
