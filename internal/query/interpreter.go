package query

import (
	"errors"
	"strings"

	"taskchat/internal/models"
)

// ErrEmptyMessage is returned for blank chat text.
var ErrEmptyMessage = errors.New("message is required")

// Interpreter applies the keyword rules in a fixed order; the first rule that
// matches decides the intent.
type Interpreter struct {
	vocab Vocabulary
}

// New returns an interpreter using vocab.
func New(vocab Vocabulary) *Interpreter {
	return &Interpreter{vocab: vocab}
}

var defaultInterpreter = New(DefaultVocabulary())

// Interpret uses the built-in vocabulary.
func Interpret(text string, folders []string) (Intent, error) {
	return defaultInterpreter.Interpret(text, folders)
}

// Interpret classifies text. folders are the folder names present in the
// current snapshot; they are used to recognise a folder filter.
func (in *Interpreter) Interpret(text string, folders []string) (Intent, error) {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return Intent{}, ErrEmptyMessage
	}

	v := in.vocab
	switch {
	case containsAny(lower, v.Status):
		return Intent{Kind: StatusBreakdown}, nil
	case containsAny(lower, v.Priority):
		for _, level := range models.PriorityLevels() {
			if strings.Contains(lower, string(level)) {
				return Intent{Kind: PriorityFilter, Priority: level}, nil
			}
		}
		return Intent{Kind: PriorityBreakdown}, nil
	case containsAny(lower, v.Workload):
		return Intent{Kind: Workload}, nil
	case containsAny(lower, v.Overdue):
		return Intent{Kind: Overdue}, nil
	case containsAny(lower, v.Folder):
		for _, folder := range folders {
			name := strings.ToLower(strings.TrimSpace(folder))
			if name != "" && strings.Contains(lower, name) {
				return Intent{Kind: FolderFilter, Folder: folder}, nil
			}
		}
		return Intent{Kind: FolderList}, nil
	case containsAny(lower, v.AllTasks):
		return Intent{Kind: AllTasks}, nil
	case containsAny(lower, v.Export):
		format := FormatCSV
		if containsAny(lower, v.ExcelWords) {
			format = FormatXLSX
		}
		return Intent{Kind: Export, Format: format}, nil
	case containsAny(lower, v.Summary):
		return Intent{Kind: Summary}, nil
	default:
		return Intent{Kind: Help}, nil
	}
}

func containsAny(text string, words []string) bool {
	for _, word := range words {
		if word != "" && strings.Contains(text, word) {
			return true
		}
	}
	return false
}
