// Package questionbank loads question banks from YAML and imports them into
// the question repository.
package questionbank

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"grindccat/internal/model"
)

// Version is the bank format understood by Parse.
const Version = 1

//go:embed default.yaml
var defaultBank []byte

// ErrInvalidBank wraps every validation failure.
var ErrInvalidBank = errors.New("invalid question bank")

// Entry is one question as written in a bank file. Answer is the 0-based
// index of the correct option. Categories other than model.CategoryVerbal and
// model.CategoryMath are stored but never drawn.
type Entry struct {
	Category    string   `yaml:"category"`
	Text        string   `yaml:"text"`
	Options     []string `yaml:"options"`
	Answer      int      `yaml:"answer"`
	Explanation string   `yaml:"explanation"`
}

// Bank is a parsed bank file.
type Bank struct {
	Version   int     `yaml:"version"`
	Questions []Entry `yaml:"questions"`
}

// Parse decodes and validates a bank.
func Parse(data []byte) (*Bank, error) {
	var b Bank
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("decode question bank: %w", err)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

// LoadFile parses the bank at path.
func LoadFile(path string) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question bank: %w", err)
	}
	b, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

// Default returns the bank embedded in the binary.
func Default() *Bank {
	b, err := Parse(defaultBank)
	if err != nil {
		panic(fmt.Sprintf("embedded question bank: %v", err))
	}
	return b
}

// Validate checks the version and every entry. Texts must be unique because
// imports upsert by text.
func (b *Bank) Validate() error {
	if b.Version != Version {
		return fmt.Errorf("%w: unsupported version %d", ErrInvalidBank, b.Version)
	}
	if len(b.Questions) == 0 {
		return fmt.Errorf("%w: no questions", ErrInvalidBank)
	}

	seen := make(map[string]int, len(b.Questions))
	for i, e := range b.Questions {
		if err := e.validate(); err != nil {
			return fmt.Errorf("%w: question %d: %s", ErrInvalidBank, i+1, err)
		}
		key := strings.TrimSpace(e.Text)
		if j, dup := seen[key]; dup {
			return fmt.Errorf("%w: question %d repeats the text of question %d", ErrInvalidBank, i+1, j+1)
		}
		seen[key] = i
	}
	return nil
}

func (e Entry) validate() error {
	if strings.TrimSpace(e.Category) == "" {
		return errors.New("category is empty")
	}
	if strings.TrimSpace(e.Text) == "" {
		return errors.New("text is empty")
	}
	if len(e.Options) < 2 {
		return errors.New("needs at least 2 options")
	}
	for _, o := range e.Options {
		if strings.TrimSpace(o) == "" {
			return errors.New("option is empty")
		}
	}
	if e.Answer < 0 || e.Answer >= len(e.Options) {
		return fmt.Errorf("answer %d out of range", e.Answer)
	}
	return nil
}

// Question converts the entry to a model.Question without an ID.
func (e Entry) Question() model.Question {
	return model.Question{
		Category:      strings.TrimSpace(e.Category),
		Text:          strings.TrimSpace(e.Text),
		Options:       e.Options,
		CorrectAnswer: e.Answer,
		Explanation:   strings.TrimSpace(e.Explanation),
	}
}
