package enum

// Ledger identifies which money position an entry belongs to
type Ledger string

const (
	LedgerCash    Ledger = "cash"
	LedgerVirtual Ledger = "virtual"
)

// Valid reports whether the ledger is one of the known values
func (l Ledger) Valid() bool {
	return l == LedgerCash || l == LedgerVirtual
}

// EntryKind is the movement type of a ledger entry
type EntryKind string

const (
	EntryKindIncome     EntryKind = "income"
	EntryKindExpense    EntryKind = "expense"
	EntryKindWithdrawal EntryKind = "withdrawal"
	EntryKindDeposit    EntryKind = "deposit"
)

// Valid reports whether the kind is one of the known values
func (k EntryKind) Valid() bool {
	switch k {
	case EntryKindIncome, EntryKindExpense, EntryKindWithdrawal, EntryKindDeposit:
		return true
	}
	return false
}

// Sign returns +1 for kinds that increase the balance and -1 for kinds that decrease it
func (k EntryKind) Sign() int64 {
	switch k {
	case EntryKindIncome, EntryKindDeposit:
		return 1
	default:
		return -1
	}
}

// PaymentMethod maps to the ledger that books the income
type PaymentMethod string

const (
	PaymentMethodCash    PaymentMethod = "cash"
	PaymentMethodVirtual PaymentMethod = "virtual"
)

// Valid reports whether the method is one of the known values
func (m PaymentMethod) Valid() bool {
	return m == PaymentMethodCash || m == PaymentMethodVirtual
}

// Ledger returns the ledger the payment method settles into
func (m PaymentMethod) Ledger() Ledger {
	if m == PaymentMethodVirtual {
		return LedgerVirtual
	}
	return LedgerCash
}
