package i18n_test

import (
	"slices"
	"testing"

	"github.com/xraph/lendbook/i18n"
)

func TestFallback(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{i18n.KeyLentTransaction, "Lent to Alex: lunch"},
		{i18n.KeyBorrowedTransaction, "Borrowed from Alex: lunch"},
		{i18n.KeyLentRecovered, "Recovered from Alex: lunch"},
		{i18n.KeyBorrowedRepaid, "Repaid to Alex: lunch"},
		{"unknown.key", "unknown.key"},
	}

	var tr i18n.Translator = i18n.Fallback{}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := tr.Translate(tt.key, i18n.Params("Alex", "lunch")); got != tt.want {
				t.Errorf("Translate = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFallbackMissingParams(t *testing.T) {
	got := i18n.Fallback{}.Translate(i18n.KeyLentTransaction, nil)
	if got != "Lent to : " {
		t.Errorf("Translate = %q", got)
	}
}

func TestFunc(t *testing.T) {
	tr := i18n.Func(func(key string, params map[string]any) string {
		return key + ":" + params[i18n.ParamPerson].(string)
	})
	if got := tr.Translate("k", i18n.Params("Sam", "")); got != "k:Sam" {
		t.Errorf("Translate = %q", got)
	}
}

func TestBundleLanguages(t *testing.T) {
	b, err := i18n.NewBundle()
	if err != nil {
		t.Fatalf("NewBundle: %v", err)
	}
	langs := b.Languages()
	for _, want := range []string{"en", "de", "ru"} {
		if !slices.Contains(langs, want) {
			t.Errorf("missing language %q in %v", want, langs)
		}
	}
}

func TestLocalizer(t *testing.T) {
	b, err := i18n.NewBundle()
	if err != nil {
		t.Fatalf("NewBundle: %v", err)
	}

	tests := []struct {
		name  string
		langs []string
		key   string
		want  string
	}{
		{"english", []string{"en"}, i18n.KeyLentTransaction, "Lent to Alex: lunch"},
		{"german", []string{"de"}, i18n.KeyBorrowedRepaid, "An Alex zurückgezahlt: lunch"},
		{"accept-language", []string{"de-DE,de;q=0.9,en;q=0.8"}, i18n.KeyLentRecovered, "Von Alex zurückerhalten: lunch"},
		{"unsupported language uses english", []string{"fr"}, i18n.KeyBorrowedTransaction, "Borrowed from Alex: lunch"},
		{"unknown key falls back", []string{"de"}, "nope", "nope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := b.Localizer(tt.langs...).Translate(tt.key, i18n.Params("Alex", "lunch"))
			if got != tt.want {
				t.Errorf("Translate = %q, want %q", got, tt.want)
			}
		})
	}
}
