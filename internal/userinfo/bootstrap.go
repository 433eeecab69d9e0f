package userinfo

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/ezpy/ezdev/internal/errors"
)

// Prompter collects missing record fields interactively.
type Prompter struct {
	reader *bufio.Reader
	writer io.Writer
}

// NewPrompter creates a Prompter using stdin and stdout.
func NewPrompter() *Prompter {
	return NewPrompterWithIO(os.Stdin, os.Stdout)
}

// NewPrompterWithIO creates a Prompter with custom reader and writer for testing.
func NewPrompterWithIO(r io.Reader, w io.Writer) *Prompter {
	return &Prompter{
		reader: bufio.NewReader(r),
		writer: w,
	}
}

// Bootstrap ensures the record at path exists with all required fields.
// Only missing fields are prompted for; a complete record is left
// byte-for-byte untouched, making repeated invocations safe.
func Bootstrap(path string, p *Prompter) error {
	record, err := Load(path)
	if err != nil {
		return err
	}

	missing := Missing(record)
	if len(missing) == 0 {
		fmt.Fprintf(p.writer, "%s is complete, nothing to do\n", path)
		return nil
	}

	fmt.Fprintf(p.writer, "Completing %s (%d field(s) missing)\n", path, len(missing))
	for _, field := range missing {
		value, err := p.promptField(field)
		if err != nil {
			return err
		}
		record[field] = value
	}

	if err := Save(path, record); err != nil {
		return err
	}
	fmt.Fprintf(p.writer, "Saved %s\n", path)
	return nil
}

func (p *Prompter) promptField(field string) (any, error) {
	switch field {
	case "addresss":
		return p.promptAddresses()
	case "birthday":
		return p.promptBirthday()
	default:
		return p.promptString(field)
	}
}

func (p *Prompter) readLine(prompt string) (string, error) {
	fmt.Fprint(p.writer, prompt)
	line, err := p.reader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		if err == io.EOF {
			return "", errors.New("input closed before record was complete")
		}
		return "", errors.Wrap(err, "reading input")
	}
	return strings.TrimSpace(line), nil
}

func (p *Prompter) promptString(field string) (string, error) {
	for {
		value, err := p.readLine(fmt.Sprintf("%s: ", field))
		if err != nil {
			return "", err
		}
		if value != "" {
			return value, nil
		}
		fmt.Fprintf(p.writer, "  (%s is required)\n", field)
	}
}

func (p *Prompter) promptBirthday() (string, error) {
	for {
		value, err := p.readLine("birthday (YYYY-MM-DD): ")
		if err != nil {
			return "", err
		}
		if _, parseErr := time.Parse("2006-01-02", value); parseErr == nil {
			return value, nil
		}
		fmt.Fprintln(p.writer, "  Invalid date format. Use YYYY-MM-DD.")
	}
}

func (p *Prompter) promptAddresses() ([]any, error) {
	fmt.Fprintln(p.writer, "addresss (one per line, blank line to stop):")
	var addresses []any
	for {
		value, err := p.readLine("  address> ")
		if err != nil {
			return nil, err
		}
		if value == "" {
			if len(addresses) == 0 {
				fmt.Fprintln(p.writer, "  (at least one address required)")
				continue
			}
			return addresses, nil
		}
		addresses = append(addresses, value)
	}
}
