package transaction

// Transaction is the API response model for a ledger transaction.
// It is used only for responses, not for request bodies.
type Transaction struct {
	ID              string `json:"id" doc:"Transaction UUID"`
	OwnerID         string `json:"ownerID" doc:"Owner UUID"`
	Amount          string `json:"amount" doc:"Signed decimal amount, negative for outflows"`
	Currency        string `json:"currency" doc:"ISO currency code"`
	Merchant        string `json:"merchant,omitempty" doc:"Optional merchant label"`
	RawDescription  string `json:"rawDescription" doc:"Free-text description"`
	Category        string `json:"category,omitempty" doc:"Optional category label"`
	TransactionDate string `json:"transactionDate" doc:"RFC3339 transaction date"`
}
