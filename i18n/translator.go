// Package i18n supplies the description strings a Book attaches to wallet
// transactions.
//
// A Translator maps a message key and parameters to text. Fallback produces
// fixed English sentences and is what a Book uses when nothing else is
// configured. Bundle loads the embedded YAML locales through go-i18n and
// hands out per-language Localizers.
package i18n

import "fmt"

// Message keys used by the Book.
const (
	KeyLentTransaction     = "borrowed.lent_transaction"
	KeyBorrowedTransaction = "borrowed.borrowed_transaction"
	KeyLentRecovered       = "borrowed.lent_recovered"
	KeyBorrowedRepaid      = "borrowed.borrowed_repaid"
)

// Parameter names interpolated into the messages above.
const (
	ParamPerson = "person"
	ParamReason = "reason"
)

// Translator resolves a message key to display text.
type Translator interface {
	Translate(key string, params map[string]any) string
}

// Func is an adapter to use a plain function as a Translator.
type Func func(key string, params map[string]any) string

// Translate implements Translator.
func (f Func) Translate(key string, params map[string]any) string {
	return f(key, params)
}

// Fallback renders the built-in English sentences. Unknown keys come back
// unchanged.
type Fallback struct{}

var fallbackFormats = map[string]string{
	KeyLentTransaction:     "Lent to %v: %v",
	KeyBorrowedTransaction: "Borrowed from %v: %v",
	KeyLentRecovered:       "Recovered from %v: %v",
	KeyBorrowedRepaid:      "Repaid to %v: %v",
}

// Translate implements Translator.
func (Fallback) Translate(key string, params map[string]any) string {
	format, ok := fallbackFormats[key]
	if !ok {
		return key
	}
	return fmt.Sprintf(format, param(params, ParamPerson), param(params, ParamReason))
}

func param(params map[string]any, name string) any {
	if v, ok := params[name]; ok && v != nil {
		return v
	}
	return ""
}

// Params builds the parameter map for a counterparty and reason.
func Params(person, reason string) map[string]any {
	return map[string]any{ParamPerson: person, ParamReason: reason}
}
