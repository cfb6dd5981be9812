package model

import "github.com/go-faster/errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrEmailTaken         = errors.New("Email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrForbidden          = errors.New("you don't have permission")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrItemNotInCart      = errors.New("product is not in cart")
)
