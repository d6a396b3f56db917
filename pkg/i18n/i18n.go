// Package i18n holds the Indonesian and English message tables.
//
// The active language follows the selected currency: IDR reads Indonesian, anything else English.
package i18n

import (
	"fmt"

	"github.com/FACorreiaa/expense-tracker/pkg/money"
)

// Lang is a message table identifier.
type Lang string

const (
	ID Lang = "id"
	EN Lang = "en"
)

// Message keys used by the server.
const (
	KeyCategoryCreated    = "category_created"
	KeyCategoryUpdated    = "category_updated"
	KeyCategoryDeleted    = "category_deleted"
	KeyTransactionCreated = "transaction_created"
	KeyTransactionUpdated = "transaction_updated"
	KeyTransactionDeleted = "transaction_deleted"
	KeyValidationFailed   = "validation_failed"
	KeyNotFound           = "not_found"
	KeyImportCompleted    = "import_completed"
	KeyImportNoDataRows   = "import_no_data_rows"
	KeyImportMissingCols  = "import_missing_columns"
	KeyNoDataToExport     = "no_data_to_export"
	KeyFailedToLoad       = "failed_to_load"
)

// Translator resolves keys against one table.
type Translator struct {
	lang  Lang
	table map[string]string
}

// ForCurrency picks the table for a currency code.
func ForCurrency(c money.Currency) *Translator {
	if c == money.IDR {
		return For(ID)
	}
	return For(EN)
}

// For returns the translator for lang, falling back to English.
func For(lang Lang) *Translator {
	table, ok := tables[lang]
	if !ok {
		lang, table = EN, tables[EN]
	}
	return &Translator{lang: lang, table: table}
}

// Lang reports the table in use.
func (t *Translator) Lang() Lang {
	return t.lang
}

// T formats the message for key. Unknown keys are returned unchanged.
func (t *Translator) T(key string, args ...any) string {
	msg, ok := t.table[key]
	if !ok {
		return key
	}
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}

// Messages returns a copy of the full table, for clients rendering the UI.
func (t *Translator) Messages() map[string]string {
	out := make(map[string]string, len(t.table))
	for k, v := range t.table {
		out[k] = v
	}
	return out
}

var tables = map[Lang]map[string]string{
	ID: idMessages,
	EN: enMessages,
}
