package obligation_test

import (
	"testing"
	"time"

	"github.com/xraph/lendbook/obligation"
)

func ids(list []*obligation.Obligation) []string {
	out := make([]string, len(list))
	for i, o := range list {
		out[i] = o.ID
	}
	return out
}

func equalIDs(t *testing.T, got []*obligation.Obligation, want ...string) {
	t.Helper()
	g := ids(got)
	if len(g) != len(want) {
		t.Fatalf("got ids %v, want %v", g, want)
	}
	for i := range g {
		if g[i] != want[i] {
			t.Fatalf("got ids %v, want %v", g, want)
		}
	}
}

func fixture() []*obligation.Obligation {
	day := 24 * time.Hour
	return []*obligation.Obligation{
		sample("a", obligation.TypeBorrowed, "Alex Smith", 10, base.Add(-3*day), base.Add(2*day), false),
		sample("b", obligation.TypeLent, "Jordan", 20, base.Add(-1*day), base.Add(-1*day), false),
		sample("c", obligation.TypeLent, "alexandra", 30, base.Add(-2*day), base.Add(-5*day), true),
		sample("d", obligation.TypeBorrowed, "Morgan", 40, base.Add(-5*day), base.Add(-2*day), false),
	}
}

func TestSortByBorrowedDesc(t *testing.T) {
	list := fixture()
	obligation.SortByBorrowedDesc(list)
	equalIDs(t, list, "b", "c", "a", "d")
}

func TestSortByDueAsc(t *testing.T) {
	list := fixture()
	obligation.SortByDueAsc(list)
	equalIDs(t, list, "c", "d", "b", "a")
}

func TestSortIsStable(t *testing.T) {
	list := []*obligation.Obligation{
		sample("x", obligation.TypeLent, "p", 1, base, base, false),
		sample("y", obligation.TypeLent, "p", 1, base, base, false),
		sample("z", obligation.TypeLent, "p", 1, base, base, false),
	}
	obligation.SortByBorrowedDesc(list)
	equalIDs(t, list, "x", "y", "z")
}

func TestFilters(t *testing.T) {
	list := fixture()

	equalIDs(t, obligation.Filter(list, obligation.Paid), "c")
	equalIDs(t, obligation.Filter(list, obligation.Unpaid), "a", "b", "d")
	equalIDs(t, obligation.Filter(list, obligation.OverdueAt(base)), "b", "d")
	equalIDs(t, obligation.Filter(list, obligation.OfType(obligation.TypeLent)), "b", "c")
	equalIDs(t, obligation.Filter(list, obligation.All(obligation.OfType(obligation.TypeBorrowed), obligation.Unpaid)), "a", "d")
}

func TestPersonContains(t *testing.T) {
	list := fixture()
	equalIDs(t, obligation.Filter(list, obligation.PersonContains("alex")), "a", "c")
	equalIDs(t, obligation.Filter(list, obligation.PersonContains("SMITH")), "a")
	equalIDs(t, obligation.Filter(list, obligation.PersonContains("nobody")))
}

func TestMatches(t *testing.T) {
	list := fixture()
	list[1].Notes = "Paid back half in CASH"
	list[3].Reason = "Concert tickets"

	tests := []struct {
		query string
		want  []string
	}{
		{"alex", []string{"a", "c"}},
		{"cash", []string{"b"}},
		{"TICKETS", []string{"d"}},
		{"reason", []string{"a", "b", "c"}},
		{"zzz", nil},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			equalIDs(t, obligation.Filter(list, obligation.Matches(tt.query)), tt.want...)
		})
	}
}

func TestCloneAll(t *testing.T) {
	list := fixture()
	copies := obligation.CloneAll(list)
	copies[0].PersonName = "changed"
	if list[0].PersonName == "changed" {
		t.Error("CloneAll shares records with the input")
	}
}
