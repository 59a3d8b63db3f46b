package core

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// Transaction type tags as recorded by the ledger. The column is a free-form
// string: these values are what the forms submit, but other values are stored
// as-is.
const (
	TypeIncome  = "RECEITA"
	TypeExpense = "DESPESA"
)

type (
	// User is an account that owns ledger entries. PasswordHash holds a
	// salted one-way hash, never the plaintext.
	User struct {
		ID           int64
		Username     string
		PasswordHash string
	}

	// Transaction is a single ledger entry owned by exactly one user.
	// Date is kept as the string the user submitted, without parsing.
	Transaction struct {
		ID          int64
		UserID      int64
		Type        string
		Category    string
		Value       float64
		Description string
		Date        string
	}
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidPassword = errors.New("invalid password")
	ErrAuthRequired    = errors.New("authentication required")
	ErrInvalidValue    = errors.New("invalid value")
)

// ParseValue parses the monetary amount of a transaction.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and
// returns ErrInvalidValue for anything that is not a finite number. Callers
// parse before writing so that a malformed amount never reaches the store.
func ParseValue(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidValue
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, ErrInvalidValue
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrInvalidValue
	}
	return v, nil
}
