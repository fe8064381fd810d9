package vocab

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

const NameColumn = "name"

var (
	ErrNoNameColumn = errors.New("no name column")
	ErrEmpty        = errors.New("vocabulary is empty")
)

// Names is the closed set of car names seen at training time. It is
// read-only once loaded.
type Names struct {
	list []string
	set  map[string]struct{}
}

// NewNames builds a vocabulary from values, dropping blanks and duplicates
// while keeping first-seen order.
func NewNames(values []string) *Names {
	n := &Names{set: make(map[string]struct{}, len(values))}
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := n.set[v]; ok {
			continue
		}
		n.set[v] = struct{}{}
		n.list = append(n.list, v)
	}
	return n
}

// LoadNames reads the "name" column of a CSV file.
func LoadNames(path string) (*Names, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	n, err := ReadNames(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return n, nil
}

func ReadNames(r io.Reader) (*Names, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrNoNameColumn
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	col := -1
	for i, h := range header {
		if strings.TrimSpace(strings.TrimPrefix(h, "\uFEFF")) == NameColumn {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, ErrNoNameColumn
	}

	var values []string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		if col < len(rec) {
			values = append(values, rec[col])
		}
	}

	n := NewNames(values)
	if n.Len() == 0 {
		return nil, ErrEmpty
	}
	return n, nil
}

func (n *Names) Contains(name string) bool {
	_, ok := n.set[name]
	return ok
}

// List returns a copy of the names in first-seen order.
func (n *Names) List() []string {
	out := make([]string, len(n.list))
	copy(out, n.list)
	return out
}

func (n *Names) Len() int {
	return len(n.list)
}
