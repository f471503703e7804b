package jwt

import "errors"

var (
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrInvalidToken     = errors.New("invalid token")
	ErrInvalidSubject   = errors.New("token subject is not a player id")
)
