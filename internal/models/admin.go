package models

import "github.com/golang-jwt/jwt/v5"

// AdminScope is the only scope admin tokens carry.
const AdminScope = "admin"

// AdminClaims is the JWT payload of an admin bearer token.
type AdminClaims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}
