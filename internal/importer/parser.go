package importer

import "github.com/spacebrain/backend/internal/models"

// minFields is the number of fields a statement row must carry to be
// imported. The trailing second message line is optional; some exports
// drop it on rows without a remittance note.
const minFields = 9

// ParseRow converts one delimited statement row into a bank transaction.
// Rows with fewer than nine fields are rejected whole; a rejected row
// never yields a partial record.
func ParseRow(fields []string) (models.BankTransaction, bool) {
	if len(fields) < minFields {
		return models.BankTransaction{}, false
	}

	tx := models.BankTransaction{
		ValutaDate:    fields[0],
		Reference:     fields[1],
		Type:          fields[2],
		Amount:        fields[3],
		Currency:      fields[4],
		Date:          fields[5],
		SourceAccount: fields[6],
		Name:          fields[7],
		Message1:      fields[8],
	}
	if len(fields) > 9 {
		tx.Message2 = fields[9]
	}
	return tx, true
}
