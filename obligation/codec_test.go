package obligation_test

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/xraph/lendbook/obligation"
	"github.com/xraph/lendbook/types"
)

func TestDecodeLegacyBlob(t *testing.T) {
	blob := []byte(`[
		{"id":"1700000000000","personName":"Alex","amount":12.5,"reason":"taxi",
		 "borrowedDate":"2024-01-01T00:00:00.000Z","dueDate":"2024-02-01T00:00:00.000Z",
		 "isPaid":false,"walletId":"w1"},
		{"id":"1700000000001","type":"lent","personName":"Sam","amount":50,"reason":"lunch",
		 "borrowedDate":"2024-01-02T00:00:00.000Z","dueDate":"2024-01-09T00:00:00.000Z",
		 "isPaid":true,"walletId":"w2","notes":"cash"},
		{"id":"1700000000002","type":"weird","personName":"Kai","amount":1,"reason":"",
		 "borrowedDate":"2024-01-03T00:00:00.000Z","dueDate":"2024-01-04T00:00:00.000Z",
		 "isPaid":false,"walletId":"w1"},
		null
	]`)

	list, err := obligation.Decode(blob)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 records, got %d", len(list))
	}

	if list[0].Type != obligation.TypeBorrowed {
		t.Errorf("missing type should backfill to borrowed, got %q", list[0].Type)
	}
	if list[1].Type != obligation.TypeLent {
		t.Errorf("explicit lent should survive, got %q", list[1].Type)
	}
	if list[2].Type != obligation.TypeBorrowed {
		t.Errorf("unknown type should load as borrowed, got %q", list[2].Type)
	}
	if list[0].Amount != types.Cents(1250) {
		t.Errorf("amount = %v, want 12.50", list[0].Amount)
	}
	if !list[0].BorrowedDate.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("borrowedDate = %v", list[0].BorrowedDate)
	}
	if list[1].Notes != "cash" || !list[1].IsPaid {
		t.Errorf("unexpected record: %+v", list[1])
	}
}

func TestDecodeMalformed(t *testing.T) {
	for _, blob := range []string{`{`, `{"id":"x"}`, `[{"amount":"many"}]`} {
		if _, err := obligation.Decode([]byte(blob)); err == nil {
			t.Errorf("expected error for %s", blob)
		}
	}
}

func TestDecodeLenientDates(t *testing.T) {
	blob := []byte(`[
		{"id":"a","type":"lent","personName":"Alex","amount":50,
		 "borrowedDate":"2024-01-01","dueDate":"","isPaid":false,"walletId":"w1"},
		{"id":"b","type":"lent","personName":"Sam","amount":"7.5",
		 "borrowedDate":1704067200000,"dueDate":null,"isPaid":false,"walletId":"w1"},
		{"id":"c","type":"borrowed","personName":"Kai","amount":1e-2,
		 "borrowedDate":"2024-01-01T10:30:00","isPaid":false,"walletId":"w1"}
	]`)

	list, err := obligation.Decode(blob)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 records, got %d", len(list))
	}

	jan1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if !list[0].BorrowedDate.Equal(jan1) || !list[0].DueDate.IsZero() {
		t.Errorf("record a dates: %v %v", list[0].BorrowedDate, list[0].DueDate)
	}
	if !list[1].BorrowedDate.Equal(jan1) || !list[1].DueDate.IsZero() || list[1].Amount != types.MustParse("7.5") {
		t.Errorf("record b: %+v", list[1])
	}
	if !list[2].BorrowedDate.Equal(jan1.Add(10*time.Hour+30*time.Minute)) || list[2].Amount != types.Cents(1) {
		t.Errorf("record c: %+v", list[2])
	}
}

func TestDecodeSkipsUnreadableRecords(t *testing.T) {
	blob := []byte(`[
		{"id":"good","type":"lent","personName":"Alex","amount":50,
		 "borrowedDate":"2024-01-01T00:00:00.000Z","dueDate":"2024-02-01T00:00:00.000Z","walletId":"w1"},
		{"id":"bad-date","personName":"Sam","amount":5,"borrowedDate":"next tuesday"},
		{"id":"bad-amount","personName":"Kim","amount":"lots"},
		"not a record"
	]`)

	list, err := obligation.Decode(blob)
	if err == nil {
		t.Fatal("expected an error describing the skipped records")
	}
	if len(list) != 1 || list[0].ID != "good" || list[0].Amount != types.Units(50) {
		t.Fatalf("expected only the good record, got %+v", list)
	}
	for _, want := range []string{"record 1", "record 2", "record 3"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	list := fixture()
	list[0].Notes = "first"

	blob, err := obligation.Encode(list)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	back, err := obligation.Decode(blob)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !reflect.DeepEqual(back, list) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", back, list)
	}
}

func TestEncodeNil(t *testing.T) {
	blob, err := obligation.Encode(nil)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if string(blob) != "[]" {
		t.Errorf("Encode(nil) = %s, want []", blob)
	}
}
