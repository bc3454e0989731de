package services

import "golang.org/x/crypto/bcrypt"

type BcryptHasher struct {
}

func (b *BcryptHasher) DefaultCost() int {
	return bcrypt.DefaultCost
}

func (b *BcryptHasher) GenerateFromPassword(password []byte, cost int) ([]byte, error) {
	return bcrypt.GenerateFromPassword(password, cost)
}

func (b *BcryptHasher) CompareHashAndPassword(storedPassword []byte, userPassword []byte) error {
	return bcrypt.CompareHashAndPassword(storedPassword, userPassword)
}
