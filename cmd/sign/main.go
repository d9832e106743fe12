package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"

	"github.com/eldtechnologies/keywordbot/internal/crypto"
)

func main() {
	secret := flag.String("secret", os.Getenv("LINE_CHANNEL_SECRET"), "Channel secret (default $LINE_CHANNEL_SECRET)")
	bodyFile := flag.String("body", "", "File containing request body (or use stdin)")
	verify := flag.String("verify", "", "Check this signature against the body instead of printing one")
	flag.Parse()

	if *secret == "" {
		fmt.Fprintln(os.Stderr, "Usage: sign -secret <channel-secret> [-body <file>] [-verify <signature>]")
		fmt.Fprintln(os.Stderr, "  Reads body from stdin if -body not specified")
		os.Exit(1)
	}

	// Read body
	var body []byte
	var err error
	if *bodyFile != "" {
		body, err = os.ReadFile(*bodyFile)
	} else {
		body, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read body: %v\n", err)
		os.Exit(1)
	}

	if *verify != "" {
		if !webhook.ValidateSignature(*secret, *verify, body) {
			fmt.Fprintln(os.Stderr, "Signature mismatch")
			os.Exit(1)
		}
		fmt.Println("Signature OK")
		return
	}

	fmt.Printf("%s: %s\n", crypto.SignatureHeader, crypto.Sign(*secret, body))
}
