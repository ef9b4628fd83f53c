// Command token mints an access token for local development and operations.
//
//	token -user <id> [-email a@b.c] [-role admin] [-team <team id>] [-ttl 24h]
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"communitycalendar/config"
	"communitycalendar/internal/adapters/auth"
	"communitycalendar/internal/domain"
)

func main() {
	userID := flag.String("user", "", "subject user id (required)")
	email := flag.String("email", "", "email claim")
	roles := flag.String("role", domain.RoleMember, "comma-separated roles")
	team := flag.String("team", "", "team id claim")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	logger := config.NewLogger("token")
	if *userID == "" {
		fmt.Fprintln(os.Stderr, "token: -user is required")
		flag.Usage()
		os.Exit(2)
	}
	cfg, err := config.Load()
	if err != nil {
		logger.Error("load config", "err", err)
		os.Exit(1)
	}
	if cfg.JWTSecret == "" {
		logger.Error("JWT_SECRET is not set")
		os.Exit(1)
	}

	token, err := auth.NewJWTIssuer(cfg.JWTSecret).Issue(principal(*userID, *email, *roles, *team), *ttl)
	if err != nil {
		logger.Error("issue token", "err", err)
		os.Exit(1)
	}
	fmt.Println(token)
}

func principal(userID, email, roles, team string) domain.Principal {
	p := domain.Principal{UserID: userID, Email: email}
	for _, r := range strings.Split(roles, ",") {
		if r = strings.TrimSpace(r); r != "" {
			p.Roles = append(p.Roles, r)
		}
	}
	if team != "" {
		p.TeamID = &team
	}
	return p
}
