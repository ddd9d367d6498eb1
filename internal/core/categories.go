package core

var categories = map[TransactionType][]string{
	Income: {
		"Freelance", "Upwork", "Fiverr", "Client Direct", "Salary",
		"Investment", "Bonus", "Refund", "Other Income",
	},
	Expense: {
		"Food", "Transport", "Bills", "Rent", "Server/Hosting", "Software",
		"Marketing", "Office", "Shopping", "Entertainment", "Healthcare",
		"Education", "Personal", "Other Expense",
	},
}

// Categories returns the suggested categories for a transaction type.
// Transfers have none. Categories are suggestions: any text is accepted.
func Categories(t TransactionType) []string {
	return append([]string(nil), categories[t]...)
}

// DefaultWallets are created on first start when no wallet exists.
var DefaultWallets = []Wallet{
	{Name: "Main LKR Account", Currency: LKR},
	{Name: "Crypto Wallet", Currency: USDT},
	{Name: "USD Account", Currency: USD},
}
