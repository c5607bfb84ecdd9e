package models

// BankTransaction is one row of a semicolon-delimited bank statement
// export. Fields are stored exactly as they appear in the file; type
// coercion of dates and amounts is left to downstream consumers.
type BankTransaction struct {
	ID            int    `json:"id"`
	ValutaDate    string `json:"valutaDate"`
	Reference     string `json:"reference"`
	Type          string `json:"type"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	Date          string `json:"date"`
	SourceAccount string `json:"sourceAccount"`
	Name          string `json:"name"`
	Message1      string `json:"message1"`
	Message2      string `json:"message2"`
	BatchID       string `json:"batchId,omitempty"`
}
