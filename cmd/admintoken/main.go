package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/noah-isme/slugtistics-api/internal/service"
	"github.com/noah-isme/slugtistics-api/pkg/config"
)

// admintoken mints a bearer token for the /admin routes using the server's JWT settings.
func main() {
	subject := flag.String("subject", "", "operator name recorded in the token")
	ttl := flag.Duration("ttl", 0, "token lifetime; defaults to JWT_EXPIRATION")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	tokens := service.NewAdminTokenService(service.AdminTokenConfig{
		Secret:     cfg.JWT.Secret,
		Issuer:     cfg.JWT.Issuer,
		Expiration: cfg.JWT.Expiration,
	})
	token, err := tokens.Issue(*subject, *ttl)
	if err != nil {
		log.Fatalf("failed to issue token: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(token); err != nil {
		log.Fatalf("failed to write token: %v", err)
	}
}
