package query

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Vocabulary holds the keywords each rule looks for. Matching is substring
// containment on lower-cased text.
type Vocabulary struct {
	Status     []string `yaml:"status"`
	Priority   []string `yaml:"priority"`
	Workload   []string `yaml:"workload"`
	Overdue    []string `yaml:"overdue"`
	Folder     []string `yaml:"folder"`
	AllTasks   []string `yaml:"all_tasks"`
	Export     []string `yaml:"export"`
	ExcelWords []string `yaml:"excel_words"`
	Summary    []string `yaml:"summary"`
}

// DefaultVocabulary returns the built-in keyword lists.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Status:     []string{"status", "distribution", "breakdown"},
		Priority:   []string{"priority"},
		Workload:   []string{"assignee", "assigned", "workload", "who has"},
		Overdue:    []string{"overdue"},
		Folder:     []string{"folder"},
		AllTasks:   []string{"all tasks", "show all", "list all", "everything"},
		Export:     []string{"export", "download", "csv", "excel", "xlsx"},
		ExcelWords: []string{"excel", "xlsx"},
		Summary:    []string{"summary", "overview", "stats", "statistics"},
	}
}

// LoadVocabulary reads a YAML override file. Rules missing from the file keep
// their default keywords.
func LoadVocabulary(path string) (Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Vocabulary{}, fmt.Errorf("read vocabulary %s: %w", path, err)
	}
	vocab, err := ParseVocabulary(data)
	if err != nil {
		return Vocabulary{}, fmt.Errorf("parse vocabulary %s: %w", path, err)
	}
	return vocab, nil
}

// ParseVocabulary decodes YAML overrides on top of the defaults. Unknown rule
// names are rejected.
func ParseVocabulary(data []byte) (Vocabulary, error) {
	var override Vocabulary
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&override); err != nil && !errors.Is(err, io.EOF) {
		return Vocabulary{}, err
	}

	vocab := DefaultVocabulary()
	merge(&vocab.Status, override.Status)
	merge(&vocab.Priority, override.Priority)
	merge(&vocab.Workload, override.Workload)
	merge(&vocab.Overdue, override.Overdue)
	merge(&vocab.Folder, override.Folder)
	merge(&vocab.AllTasks, override.AllTasks)
	merge(&vocab.Export, override.Export)
	merge(&vocab.ExcelWords, override.ExcelWords)
	merge(&vocab.Summary, override.Summary)
	return vocab, nil
}

func merge(dst *[]string, src []string) {
	words := normalizeWords(src)
	if len(words) == 0 {
		return
	}
	*dst = words
}

func normalizeWords(words []string) []string {
	out := make([]string, 0, len(words))
	for _, word := range words {
		word = strings.ToLower(strings.TrimSpace(word))
		if word == "" {
			continue
		}
		out = append(out, word)
	}
	return out
}
