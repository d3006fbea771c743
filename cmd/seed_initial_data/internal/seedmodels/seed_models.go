package seedmodels

import (
	"fmt"
	"io"

	"maths-quest/internal/domain"

	"gopkg.in/yaml.v3"
)

// SeedQuestion defines a question in the YAML seed file.
type SeedQuestion struct {
	Theme              string   `yaml:"theme"`
	Text               string   `yaml:"text"`
	Options            []string `yaml:"options"`
	CorrectOptionIndex int      `yaml:"correct_option_index"`
	Hint               string   `yaml:"hint"`
}

// SeedTopic defines a topic and its questions in the YAML seed file.
type SeedTopic struct {
	ID          string         `yaml:"id"`
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Icon        string         `yaml:"icon"`
	Questions   []SeedQuestion `yaml:"questions"`
}

// SeedFile is the document root.
type SeedFile struct {
	Topics []SeedTopic `yaml:"topics"`
}

// Decode reads a seed file and checks every question.
func Decode(r io.Reader) (*SeedFile, error) {
	var f SeedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to decode seed file: %w", err)
	}
	for _, t := range f.Topics {
		topic := t.ToDomain()
		if err := topic.Validate(); err != nil {
			return nil, fmt.Errorf("topic %q: %w", t.ID, err)
		}
		for i, sq := range t.Questions {
			q := sq.ToDomain(t.ID)
			if err := q.Validate(); err != nil {
				return nil, fmt.Errorf("topic %s question %d: %w", t.ID, i+1, err)
			}
		}
	}
	return &f, nil
}

func (t SeedTopic) ToDomain() domain.Topic {
	return domain.Topic{ID: t.ID, Name: t.Name, Description: t.Description, Icon: t.Icon}
}

func (q SeedQuestion) ToDomain(topicID string) domain.Question {
	return domain.Question{
		TopicID:            topicID,
		Theme:              q.Theme,
		Text:               q.Text,
		Options:            q.Options,
		CorrectOptionIndex: q.CorrectOptionIndex,
		Hint:               q.Hint,
	}
}
