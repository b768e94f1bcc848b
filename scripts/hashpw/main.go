// Command hashpw prints an AUTH_USERS entry for a staff account.
//
//	go run ./scripts/hashpw -user maria -password secret
//	maria:$2a$10$...
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	user := flag.String("user", "", "username")
	password := flag.String("password", "", "plain-text password")
	cost := flag.Int("cost", bcrypt.DefaultCost, "bcrypt cost")
	check := flag.String("check", "", "existing hash to verify against -password instead of hashing")
	flag.Parse()

	if *password == "" {
		log.Fatal("-password is required")
	}

	if *check != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(*check), []byte(*password)); err != nil {
			log.Fatalf("FAIL: %v", err)
		}
		fmt.Println("PASS - hash matches password")
		return
	}

	name := strings.ToLower(strings.TrimSpace(*user))
	if name == "" || strings.ContainsAny(name, ":,") {
		log.Fatal("-user is required and must not contain ':' or ','")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(*password), *cost)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}
	fmt.Printf("%s:%s\n", name, hash)
}
