// devtoken mints identity tokens signed with the server's JWT secret so the
// chat endpoints can be exercised locally without the external identity provider.
//
//	devtoken --sub u1 --name Alice
//	wscat -c "ws://localhost:8080/ws/chat/u2?token=$(devtoken --sub u1)"
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"chatrelay/internal/pkg/auth/jwt"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	// a missing .env is fine, flags and the environment still apply
	_ = godotenv.Load()

	var (
		subject string
		email   string
		name    string
		secret  string
		issuer  string
		ttl     time.Duration
	)

	flagSet := pflag.NewFlagSet("devtoken", pflag.ContinueOnError)
	flagSet.StringVarP(&subject, "sub", "s", "", "user identity to put in the sub claim (required)")
	flagSet.StringVar(&email, "email", "", "email claim")
	flagSet.StringVar(&name, "name", "", "display name claim")
	flagSet.StringVar(&secret, "secret", os.Getenv("JWT_SECRET"), "HMAC secret (default: $JWT_SECRET)")
	flagSet.StringVar(&issuer, "issuer", os.Getenv("JWT_ISSUER"), "issuer claim (default: $JWT_ISSUER or "+jwt.DefaultIssuer+")")
	flagSet.DurationVar(&ttl, "ttl", jwt.IdentityExpiration, "token lifetime")

	if err := flagSet.Parse(args); err != nil {
		return err
	}

	if subject == "" {
		return errors.New("--sub is required")
	}
	if secret == "" {
		return errors.New("no secret: pass --secret or set JWT_SECRET")
	}
	if ttl <= 0 {
		return fmt.Errorf("--ttl must be positive, got %s", ttl)
	}

	claims := &jwt.Claims{Email: email, Name: name}
	claims.Subject = subject
	claims.Issuer = issuer

	token, err := jwt.GenerateToken(claims, secret, ttl)
	if err != nil {
		return fmt.Errorf("sign token: %w", err)
	}

	fmt.Println(token)
	return nil
}
