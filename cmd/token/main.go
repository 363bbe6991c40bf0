// Command token mints a bearer token for the write routes, signed with
// JWT_SECRET from the environment (or .env).
//
//	go run ./cmd/token -sub alice -ttl 24h
//	go run ./cmd/token -verify "$TOKEN"
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	jwtutil "libraryapi/util/jwt"

	"github.com/joho/godotenv"
)

func main() {
	sub := flag.String("sub", "librarian", "token subject")
	role := flag.String("role", jwtutil.RoleLibrarian, "role claim")
	ttl := flag.Duration("ttl", 12*time.Hour, "token lifetime")
	verify := flag.String("verify", "", "print the claims of this token instead of minting one")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	_ = godotenv.Load()
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Error("JWT_SECRET is not set")
		os.Exit(1)
	}

	if *verify != "" {
		claims, err := jwtutil.ParseAuth(*verify, secret)
		if err != nil {
			log.Error("invalid token", "err", err)
			os.Exit(1)
		}
		for k, v := range claims {
			fmt.Printf("%s=%v\n", k, v)
		}
		return
	}

	tok, err := jwtutil.Issue(secret, *sub, *role, *ttl)
	if err != nil {
		log.Error("issue token", "err", err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
