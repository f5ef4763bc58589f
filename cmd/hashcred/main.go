package main // hashcred produces bcrypt hashes for the credential file

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/family-travel-blog/internal/utils"
)

// hashcred hashes a password for pasting into the users JSON file:
//
//	hashcred [-cost N] [password]
//
// Without an argument the password is read from stdin, so it does not
// land in the shell history. The cost defaults to bcrypt.DefaultCost
// and can also be set through BCRYPT_COST.
func main() {
	cost := flag.Int("cost", defaultCost(), "bcrypt cost (4..31)")
	flag.Parse()

	plain := flag.Arg(0)
	if plain == "" {
		fmt.Fprint(os.Stderr, "password: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			log.Fatalf("read password: %v", err)
		}
		plain = strings.TrimRight(line, "\r\n")
	}
	if plain == "" {
		log.Fatal("empty password")
	}

	hash, err := utils.HashPassword(plain, *cost)
	if err != nil {
		log.Fatalf("hash: %v", err)
	}
	fmt.Println(hash)
}

// defaultCost honors BCRYPT_COST when set, otherwise bcrypt's default.
func defaultCost() int {
	if s := os.Getenv("BCRYPT_COST"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
	}
	return bcrypt.DefaultCost
}
