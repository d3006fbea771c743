package models

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// StringSlice stores a string list as a JSON array in a CLOB column.
type StringSlice []string

// Value implements the driver.Valuer interface
func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		// nil is stored as an empty JSON array so the IS JSON check holds
		return "[]", nil
	}
	jsonData, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil
}

// Scan implements the sql.Scanner interface
func (s *StringSlice) Scan(value interface{}) error {
	b, err := jsonBytes(value, "StringSlice")
	if err != nil {
		return err
	}
	if b == nil {
		*s = StringSlice{}
		return nil
	}
	return json.Unmarshal(b, s)
}

// jsonBytes normalises what Oracle drivers hand back for a CLOB. A nil
// result means NULL, empty or a literal "null".
func jsonBytes(value interface{}, typeName string) ([]byte, error) {
	var b []byte
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return nil, errors.New(typeName + " Scan: unsupported type " + fmt.Sprintf("%T", value))
	}
	if len(b) == 0 || string(b) == "null" {
		return nil, nil
	}
	return b, nil
}

// Topic row
type Topic struct {
	ID          string         `db:"ID"`
	Name        string         `db:"NAME"`
	Description sql.NullString `db:"DESCRIPTION"`
	Icon        sql.NullString `db:"ICON"`
	CreatedAt   time.Time      `db:"CREATED_AT"`
	UpdatedAt   time.Time      `db:"UPDATED_AT"`
}

// Question row; Options holds the ordered choices as JSON.
type Question struct {
	ID                 string         `db:"ID"`
	TopicID            string         `db:"TOPIC_ID"`
	Theme              string         `db:"THEME"`
	QuestionText       string         `db:"QUESTION_TEXT"`
	Options            StringSlice    `db:"OPTIONS"`
	CorrectOptionIndex int            `db:"CORRECT_OPTION_INDEX"`
	Hint               sql.NullString `db:"HINT"`
	CreatedAt          time.Time      `db:"CREATED_AT"`
	UpdatedAt          time.Time      `db:"UPDATED_AT"`
	DeletedAt          sql.NullTime   `db:"DELETED_AT"`
}
