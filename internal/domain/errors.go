package domain

import "errors"

// Domain errors
var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrBudgetNotFound       = errors.New("budget not found")
	ErrTagNotFound          = errors.New("tag not found")
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrSettingsNotFound     = errors.New("user settings not found")
	ErrNameRequired         = errors.New("name is required")
	ErrNameTooLong          = errors.New("name exceeds maximum length")
	ErrDuplicateName        = errors.New("name already in use")
	ErrNodeOwnsTransactions = errors.New("node budgets cannot own transactions")
	ErrRootImmutable        = errors.New("the root budget cannot be modified")
)
