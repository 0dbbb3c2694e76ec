package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// DefaultAddress marks a user that has not set a delivery address yet.
const DefaultAddress = "ADDRESS_NOT_SET"

// User is a registered shopper with a spendable wallet balance.
type User struct {
	ID           string          `json:"_id"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	PasswordHash string          `json:"-"`
	WalletMoney  decimal.Decimal `json:"walletMoney"`
	Address      string          `json:"address"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// IsPasswordMatch reports whether password matches the stored bcrypt hash.
func (u *User) IsPasswordMatch(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// HasSetNonDefaultAddress reports whether the user replaced the placeholder address.
func (u *User) HasSetNonDefaultAddress() bool {
	return u.Address != DefaultAddress
}
