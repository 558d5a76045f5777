package jwt

import "github.com/golang-jwt/jwt"

// Claims defines the structure of the identity token presented by clients.
// Tokens are issued by the identity provider; the subject claim is the stable
// user identity the chat core routes on.
type Claims struct {
	// StandardClaims embeds the registered JWT fields such as Subject (sub),
	// ExpiresAt (exp), IssuedAt (iat) and Issuer (iss).
	jwt.StandardClaims

	// Email is the address the provider verified for the subject, if any.
	Email string `json:"email,omitempty"`

	// Name is the provider-side display name, used as the initial display name.
	Name string `json:"name,omitempty"`
}
