package domain

// AccountType distinguishes how an account's current balance is computed:
// asset accounts aggregate their sub-accounts recursively, security
// sub-accounts carry their own share balance.
type AccountType string

const (
	AccountTypeAsset    AccountType = "asset"
	AccountTypeSecurity AccountType = "security"
)

// Account is a ledger account. Balances are stored in minor units and scaled
// by DecimalPlaces when read, so the repository reports exact decimals.
type Account struct {
	ID            int64
	ParentID      *int64
	Name          string
	Type          AccountType
	DecimalPlaces int
}
