package password

import (
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"orderservice/pkg/order/domain/model"
)

func NewBcryptManager(cost int) model.PasswordManager {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &bcryptManager{cost: cost}
}

type bcryptManager struct {
	cost int
}

func (m *bcryptManager) Hash(plainTextPassword string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), m.cost)
	if err != nil {
		return "", errors.Wrap(err, "failed to hash password")
	}
	return string(hash), nil
}
