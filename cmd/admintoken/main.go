// Command admintoken prints a signed bearer token for the admin API.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"certbot/config"
	"certbot/internal/adapters/auth"
	"certbot/internal/domain"
)

func main() {
	subject := flag.String("subject", "", "operator identity recorded in the token (required)")
	expiry := flag.Duration("expiry", 24*time.Hour, "token lifetime")
	flag.Parse()

	logger := config.NewLogger()
	if *subject == "" {
		flag.Usage()
		os.Exit(2)
	}
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if cfg.JWTSecret == "" {
		logger.Error("JWT_SECRET is not set")
		os.Exit(1)
	}

	var issuer domain.TokenIssuer = auth.NewJWT(cfg.JWTSecret)
	token, err := issuer.Issue(*subject, []string{domain.RoleAdmin}, *expiry)
	if err != nil {
		logger.Error("failed to issue token", "error", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
