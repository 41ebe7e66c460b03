package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/juju/clock/testclock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xraph/lendbook"
	"github.com/xraph/lendbook/api"
	"github.com/xraph/lendbook/i18n"
	"github.com/xraph/lendbook/id"
	"github.com/xraph/lendbook/obligation"
	"github.com/xraph/lendbook/store/memory"
	"github.com/xraph/lendbook/transaction"
	"github.com/xraph/lendbook/types"
)

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

type recorder struct {
	mu     sync.Mutex
	inputs []transaction.Input
	err    error
}

func (r *recorder) CreateTransaction(_ context.Context, in transaction.Input) (*transaction.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	r.inputs = append(r.inputs, in)
	return &transaction.Transaction{ID: id.NewTransactionID(), Input: in, RecordedAt: now}, nil
}

func (r *recorder) last() transaction.Input {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.inputs[len(r.inputs)-1]
}

func setup(t *testing.T, opts ...api.Option) (http.Handler, *lendbook.Book, *recorder) {
	t.Helper()
	rec := &recorder{}
	b := lendbook.New(memory.New(), rec, lendbook.WithClock(testclock.NewClock(now)))
	return api.NewServer(b, opts...).Handler(), b, rec
}

func do(t *testing.T, h http.Handler, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != "" {
		rd = bytes.NewReader([]byte(body))
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func addLent(t *testing.T, b *lendbook.Book, person string, due time.Time) *obligation.Obligation {
	t.Helper()
	o, err := b.Add(context.Background(), obligation.Draft{
		Type: obligation.TypeLent, PersonName: person, Amount: types.Units(50),
		Reason: "lunch", BorrowedDate: now, DueDate: due, WalletID: "w1",
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	return o
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return v
}

func TestHealthz(t *testing.T) {
	h, _, _ := setup(t)
	w := do(t, h, http.MethodGet, "/healthz", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestAddObligation(t *testing.T) {
	h, _, rec := setup(t)

	body := `{"type":"lent","personName":"Alex","amount":50,"reason":"lunch",
		"borrowedDate":"2025-06-01T00:00:00Z","dueDate":"2025-07-01T00:00:00Z","walletId":"w1"}`
	w := do(t, h, http.MethodPost, "/obligations", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	o := decode[obligation.Obligation](t, w)
	if o.ID == "" || o.Amount != types.Units(50) || o.IsPaid {
		t.Errorf("unexpected obligation: %+v", o)
	}
	if in := rec.last(); in.Type != transaction.TypeExpense {
		t.Errorf("expected EXPENSE, got %s", in.Type)
	}
}

func TestAddValidationError(t *testing.T) {
	h, _, _ := setup(t)
	w := do(t, h, http.MethodPost, "/obligations", `{"type":"gift","amount":1}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	w = do(t, h, http.MethodPost, "/obligations", `{not json`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad JSON, got %d", w.Code)
	}
	w = do(t, h, http.MethodPost, "/obligations", `{"type":"lent","amount":1e3}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for exponent amount, got %d", w.Code)
	}
}

func TestAddRecorderFailure(t *testing.T) {
	h, b, rec := setup(t)
	rec.err = errors.New("wallet offline")

	w := do(t, h, http.MethodPost, "/obligations", `{"type":"lent","personName":"A","amount":1,"walletId":"w1"}`)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
	if n := len(b.List(context.Background())); n != 0 {
		t.Errorf("nothing should be stored, got %d", n)
	}
}

func TestAddLocalized(t *testing.T) {
	bundle, err := i18n.NewBundle()
	if err != nil {
		t.Fatal(err)
	}
	h, _, rec := setup(t, api.WithBundle(bundle))

	w := do(t, h, http.MethodPost, "/obligations",
		`{"type":"lent","personName":"Alex","amount":5,"reason":"Kaffee","walletId":"w1"}`,
		"Accept-Language", "de-DE,de;q=0.9")
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	if got := rec.last().Description; got != "An Alex verliehen: Kaffee" {
		t.Errorf("description = %q", got)
	}
}

func TestGetAndNotFound(t *testing.T) {
	h, b, _ := setup(t)
	o := addLent(t, b, "Alex", now)

	w := do(t, h, http.MethodGet, "/obligations/"+o.ID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := decode[obligation.Obligation](t, w); got.ID != o.ID {
		t.Errorf("got %s", got.ID)
	}

	if w := do(t, h, http.MethodGet, "/obligations/missing", ""); w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestListFilters(t *testing.T) {
	h, b, _ := setup(t)
	addLent(t, b, "Alex", now.AddDate(0, 0, -1))
	addLent(t, b, "Sam", now.AddDate(0, 0, 3))

	cases := []struct {
		query string
		want  int
	}{
		{"", 2},
		{"?status=all", 2},
		{"?status=unpaid", 2},
		{"?status=paid", 0},
		{"?status=overdue", 1},
		{"?person=ale", 1},
		{"?q=LUNCH", 2},
		{"?status=overdue&person=sam", 0},
	}
	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			w := do(t, h, http.MethodGet, "/obligations"+tc.query, "")
			if w.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", w.Code)
			}
			if got := decode[[]obligation.Obligation](t, w); len(got) != tc.want {
				t.Errorf("got %d records, want %d", len(got), tc.want)
			}
		})
	}

	if w := do(t, h, http.MethodGet, "/obligations?status=bogus", ""); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestMarkPaidFlow(t *testing.T) {
	h, b, rec := setup(t)
	o := addLent(t, b, "Alex", now)

	w := do(t, h, http.MethodPost, "/obligations/"+o.ID+"/paid", `{"walletId":"w2"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if got := decode[obligation.Obligation](t, w); !got.IsPaid {
		t.Error("expected isPaid")
	}
	if in := rec.last(); in.Type != transaction.TypeIncome || in.WalletID != "w2" {
		t.Errorf("unexpected transaction: %+v", in)
	}

	if w := do(t, h, http.MethodPost, "/obligations/"+o.ID+"/paid", ""); w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	if w := do(t, h, http.MethodPost, "/obligations/missing/paid", ""); w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}

	w = do(t, h, http.MethodPost, "/obligations/"+o.ID+"/unpaid", "")
	if w.Code != http.StatusOK || decode[obligation.Obligation](t, w).IsPaid {
		t.Errorf("unpaid failed: %d %s", w.Code, w.Body.String())
	}
}

func TestUpdateAndDelete(t *testing.T) {
	h, b, _ := setup(t)
	o := addLent(t, b, "Alex", now)

	w := do(t, h, http.MethodPatch, "/obligations/"+o.ID, `{"reason":"dinner"}`)
	if w.Code != http.StatusOK || decode[obligation.Obligation](t, w).Reason != "dinner" {
		t.Fatalf("update failed: %d %s", w.Code, w.Body.String())
	}
	for _, body := range []string{`{"type":"gift"}`, `{"amount":-5}`, `{"amount":1e3}`} {
		if w := do(t, h, http.MethodPatch, "/obligations/"+o.ID, body); w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", body, w.Code)
		}
	}
	if got, _ := b.Get(context.Background(), o.ID); got.Amount != o.Amount || got.Type != obligation.TypeLent {
		t.Errorf("rejected patch changed the record: %+v", got)
	}
	if w := do(t, h, http.MethodPatch, "/obligations/missing", `{"reason":"x"}`); w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}

	if w := do(t, h, http.MethodDelete, "/obligations/"+o.ID, ""); w.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", w.Code)
	}
	if w := do(t, h, http.MethodDelete, "/obligations/"+o.ID, ""); w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestExportClearImport(t *testing.T) {
	h, b, _ := setup(t)
	addLent(t, b, "Alex", now)
	addLent(t, b, "Sam", now)

	w := do(t, h, http.MethodGet, "/export", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	exported := w.Body.String()

	if w := do(t, h, http.MethodDelete, "/obligations", ""); w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if n := len(b.List(context.Background())); n != 0 {
		t.Fatalf("expected empty book, got %d", n)
	}

	w = do(t, h, http.MethodPost, "/import", exported)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := decode[map[string]int](t, w); got["imported"] != 2 {
		t.Errorf("imported = %v", got)
	}
}

func TestStatistics(t *testing.T) {
	h, b, _ := setup(t)
	addLent(t, b, "Alex", now.AddDate(0, 0, -1))

	w := do(t, h, http.MethodGet, "/statistics", "")
	st := decode[obligation.Statistics](t, w)
	if st.TotalLent != types.Units(50) || st.OverdueLent != types.Units(50) || st.Count != 1 {
		t.Errorf("unexpected statistics: %+v", st)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := prometheus.NewCounter(prometheus.CounterOpts{Name: "lendbook_test_total", Help: "test"})
	reg.MustRegister(c)
	c.Inc()

	h, _, _ := setup(t, api.WithMetrics(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	w := do(t, h, http.MethodGet, "/metrics", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "lendbook_test_total 1") {
		t.Errorf("unexpected metrics response: %d %s", w.Code, w.Body.String())
	}
}
