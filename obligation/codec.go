package obligation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xraph/lendbook/types"
)

// storedRecord is the lenient on-disk shape of an Obligation. Dates and
// amounts stay raw so older or hand-edited blobs still load.
type storedRecord struct {
	ID           string          `json:"id"`
	Type         Type            `json:"type"`
	PersonName   string          `json:"personName"`
	Amount       json.RawMessage `json:"amount"`
	Reason       string          `json:"reason"`
	BorrowedDate json.RawMessage `json:"borrowedDate"`
	DueDate      json.RawMessage `json:"dueDate"`
	IsPaid       bool            `json:"isPaid"`
	WalletID     string          `json:"walletId"`
	Notes        string          `json:"notes"`
}

// dateLayouts are tried in order for string dates.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Decode parses a persisted blob: a JSON array of obligations. Records
// written before the type field existed, or with an unknown type, load as
// borrowed. Null array entries are dropped.
//
// A blob that is not a JSON array yields no records and an error. Otherwise
// every readable record is returned; records that cannot be read are
// skipped and reported together in the returned error.
func Decode(blob []byte) ([]*Obligation, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(blob, &raw); err != nil {
		return nil, fmt.Errorf("obligation: decode blob: %w", err)
	}

	out := make([]*Obligation, 0, len(raw))
	var skipped []error
	for i, msg := range raw {
		if isNull(msg) {
			continue
		}
		o, err := decodeRecord(msg)
		if err != nil {
			skipped = append(skipped, fmt.Errorf("obligation: skip record %d: %w", i, err))
			continue
		}
		out = append(out, o)
	}
	return out, errors.Join(skipped...)
}

func decodeRecord(msg json.RawMessage) (*Obligation, error) {
	var r storedRecord
	if err := json.Unmarshal(msg, &r); err != nil {
		return nil, err
	}

	amount, err := decodeAmount(r.Amount)
	if err != nil {
		return nil, fmt.Errorf("amount: %w", err)
	}
	borrowed, err := decodeDate(r.BorrowedDate)
	if err != nil {
		return nil, fmt.Errorf("borrowedDate: %w", err)
	}
	due, err := decodeDate(r.DueDate)
	if err != nil {
		return nil, fmt.Errorf("dueDate: %w", err)
	}

	o := &Obligation{
		ID:           r.ID,
		Type:         r.Type,
		PersonName:   r.PersonName,
		Amount:       amount,
		Reason:       r.Reason,
		BorrowedDate: borrowed,
		DueDate:      due,
		IsPaid:       r.IsPaid,
		WalletID:     r.WalletID,
		Notes:        r.Notes,
	}
	if !o.Type.IsValid() {
		o.Type = TypeBorrowed
	}
	return o, nil
}

// decodeAmount reads a JSON number or a quoted decimal. Missing amounts are
// zero. Stored numbers may use exponent notation.
func decodeAmount(msg json.RawMessage) (types.Amount, error) {
	if isNull(msg) {
		return 0, nil
	}
	s := string(msg)
	if msg[0] == '"' {
		if err := json.Unmarshal(msg, &s); err != nil {
			return 0, err
		}
		if strings.TrimSpace(s) == "" {
			return 0, nil
		}
	}
	return types.ParseNumber(s)
}

// decodeDate reads an ISO-8601 string, a date-only string or epoch
// milliseconds. Missing or empty dates are the zero time. Strings without a
// zone are read as UTC.
func decodeDate(msg json.RawMessage) (time.Time, error) {
	if isNull(msg) {
		return time.Time{}, nil
	}
	if msg[0] != '"' {
		ms, err := strconv.ParseInt(string(msg), 10, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("not a date: %s", msg)
		}
		return time.UnixMilli(ms).UTC(), nil
	}

	var s string
	if err := json.Unmarshal(msg, &s); err != nil {
		return time.Time{}, err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("not a date: %q", s)
}

func isNull(msg json.RawMessage) bool {
	msg = bytes.TrimSpace(msg)
	return len(msg) == 0 || bytes.Equal(msg, []byte("null"))
}

// Encode serializes the full set as a JSON array. A nil set encodes as [].
func Encode(list []*Obligation) ([]byte, error) {
	if list == nil {
		list = []*Obligation{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return nil, fmt.Errorf("obligation: encode blob: %w", err)
	}
	return data, nil
}
