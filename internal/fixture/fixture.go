package fixture

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alphabill-org/digitalcash/txsystem/cash"
	"gopkg.in/yaml.v3"
)

var (
	ErrEmptyDocument = errors.New("fixture document is empty")
	ErrInvalidEntry  = errors.New("transaction entry must contain exactly one of mint or transfer")
)

type (
	// Document is a genesis state together with an ordered transaction sequence.
	Document struct {
		Initial Genesis `yaml:"genesis"`
		Entries []Entry `yaml:"transactions,omitempty"`
	}

	Genesis struct {
		// NextSerial overrides the serial counter derived from the bill count.
		NextSerial *uint64     `yaml:"nextSerial,omitempty"`
		Bills      []cash.Bill `yaml:"bills"`
	}

	Entry struct {
		Mint     *cash.Mint     `yaml:"mint,omitempty"`
		Transfer *cash.Transfer `yaml:"transfer,omitempty"`
	}
)

// Load reads a fixture document from a YAML file.
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open fixture file: %w", err)
	}
	defer f.Close()
	doc, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load fixture %s: %w", path, err)
	}
	return doc, nil
}

// Decode reads a single YAML document from r. Unknown keys are rejected.
func Decode(r io.Reader) (*Document, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	doc := &Document{}
	if err := dec.Decode(doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyDocument
		}
		return nil, fmt.Errorf("fixture decode error: %w", err)
	}
	for i, e := range doc.Entries {
		if (e.Mint == nil) == (e.Transfer == nil) {
			return nil, fmt.Errorf("%w: entry %d", ErrInvalidEntry, i)
		}
	}
	return doc, nil
}

// Genesis builds the initial state. Bills are imported in bulk, so unless
// nextSerial is given the counter equals the number of listed bills.
func (d *Document) Genesis() *cash.State {
	s := cash.NewStateFromBills(d.Initial.Bills...)
	if d.Initial.NextSerial != nil {
		s.SetSerial(*d.Initial.NextSerial)
	}
	return s
}

func (d *Document) Transactions() []cash.Transaction {
	txs := make([]cash.Transaction, 0, len(d.Entries))
	for _, e := range d.Entries {
		if e.Mint != nil {
			txs = append(txs, e.Mint)
		} else {
			txs = append(txs, e.Transfer)
		}
	}
	return txs
}

// NewDocument creates a document with genesis s and no transactions.
func NewDocument(s *cash.State) *Document {
	n := s.NextSerial()
	return &Document{Initial: Genesis{NextSerial: &n, Bills: s.Bills()}}
}

// EncodeState writes s as a fixture document that can be used as the genesis
// of a further replay.
func EncodeState(w io.Writer, s *cash.State) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(NewDocument(s)); err != nil {
		return fmt.Errorf("state encode error: %w", err)
	}
	return enc.Close()
}
