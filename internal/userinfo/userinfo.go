// Package userinfo manages the user.data.json record consumed by the
// tools server's personal-data tool.
//
// The record is a JSON object with four required fields: birthday
// (YYYY-MM-DD), email, phone, and addresss (a non-empty list). The
// "addresss" spelling is the on-disk wire format the server reads;
// correcting it here would orphan every existing record.
package userinfo

import (
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/ezpy/ezdev/internal/errors"
)

// RequiredFields lists the record fields the tools server asserts on.
var RequiredFields = []string{"birthday", "email", "phone", "addresss"}

// FilePerm is the permission for the user-data file; it holds personal
// information and should not be group or world readable.
const FilePerm = 0o600

// Load reads and decodes the record at path.
// A missing file returns an empty record and no error; bootstrap
// treats it the same as a record with every field missing.
func Load(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]any{}, nil
		}
		return nil, errors.Wrapf(err, "reading %s", path)
	}

	var record map[string]any
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, errors.Wrapf(errors.ErrUserDataInvalid, "%s is not a JSON object: %v", path, err)
	}
	return record, nil
}

// Missing returns the required fields absent or empty in the record.
func Missing(record map[string]any) []string {
	var missing []string
	for _, field := range RequiredFields {
		if fieldMissing(field, record[field]) {
			missing = append(missing, field)
		}
	}
	return missing
}

func fieldMissing(field string, value any) bool {
	switch field {
	case "addresss":
		list, ok := value.([]any)
		if !ok {
			return true
		}
		for _, item := range list {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				return false
			}
		}
		return true
	case "birthday":
		s, ok := value.(string)
		if !ok {
			return true
		}
		_, err := time.Parse("2006-01-02", s)
		return err != nil
	default:
		s, ok := value.(string)
		return !ok || strings.TrimSpace(s) == ""
	}
}

// Validate checks that the record at path exists and is complete.
// The error names every missing field so the operator knows what to fix.
func Validate(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return errors.Wrapf(errors.ErrUserDataInvalid, "%s not found", path)
		}
		return errors.Wrapf(err, "stat %s", path)
	}

	record, err := Load(path)
	if err != nil {
		return err
	}
	if missing := Missing(record); len(missing) > 0 {
		return errors.Wrapf(errors.ErrUserDataInvalid,
			"%s is missing fields: %s", path, strings.Join(missing, ", "))
	}
	return nil
}

// Save writes the record to path as indented JSON with private permissions.
func Save(path string, record map[string]any) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding user data")
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, FilePerm); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	return nil
}
