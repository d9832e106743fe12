// linesim - send simulated LINE webhook events to a running keyword bot
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/eldtechnologies/keywordbot/clients/go/linesim"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	baseURL := os.Getenv("BOT_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	client := linesim.NewClient(baseURL, os.Getenv("LINE_CHANNEL_SECRET"))
	cmd := os.Args[1]

	switch cmd {
	case "text":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: linesim text <message>")
			os.Exit(1)
		}
		res, err := client.SendText(strings.Join(os.Args[2:], " "))
		exitOnError(err)
		printResult(res)

	case "postback":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: linesim postback <data>")
			os.Exit(1)
		}
		res, err := client.SendPostback(os.Args[2])
		exitOnError(err)
		printResult(res)

	case "add":
		if len(os.Args) < 4 {
			fmt.Fprintln(os.Stderr, "Usage: linesim add <keyword> <response>")
			os.Exit(1)
		}
		res, err := client.SendText(fmt.Sprintf("新增功能;%s;%s", os.Args[2], os.Args[3]))
		exitOnError(err)
		printResult(res)

	case "health":
		resp, err := client.Health()
		exitOnError(err)
		printJSON(resp)

	case "help", "--help", "-h":
		usage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println(`linesim - LINE webhook simulator for the keyword bot

Usage: linesim <command> [options]

Commands:
  text <message>           Send a text message event
  postback <data>          Send a postback (button press) event
  add <keyword> <response> Send the add-keyword admin command
  health                   Check bot health

The bot's replies go to the reply API, so run the bot with
LINE_API_ENDPOINT pointing at a stub to see them.

Environment:
  BOT_URL               Bot base URL (default: http://localhost:8080)
  LINE_CHANNEL_SECRET   Secret used to sign events`)
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func printResult(res *linesim.Result) {
	fmt.Printf("event %s -> %d %s\n", res.Event.WebhookEventID, res.Status, res.Body)
}

func printJSON(v interface{}) {
	data, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(data))
}
