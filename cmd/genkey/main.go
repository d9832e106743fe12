package main

import (
	"fmt"
	"os"

	"github.com/eldtechnologies/keywordbot/internal/crypto"
)

// genkey prints a random channel secret for running the bot and the
// simulator locally without a LINE channel.
func main() {
	secret, err := crypto.NewChannelSecret()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	fmt.Printf("LINE_CHANNEL_SECRET=%s\n", secret)
}
