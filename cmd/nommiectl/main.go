// Command nommiectl is a flag-based smoke-test client for the HTTP API:
// global flags plus a verb (flag.Arg(0)) dispatch to one subcommand per
// endpoint.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/robpatriot/nommie/internal/authtoken"
)

var (
	serverURL  = flag.String("url", "http://127.0.0.1:8080", "base URL of the nommiesrv instance")
	authSecret = flag.String("secret", "", "AUTH_SECRET used to mint a local bearer token (mint-token, or any authenticated command)")
	subject    = flag.String("sub", "", "subject (user external id) for mint-token / authenticated commands")
	email      = flag.String("email", "", "email claim for mint-token / authenticated commands")
	token      = flag.String("token", "", "bearer token to use instead of minting one")
	gameID     = flag.String("game", "", "game id for game-scoped commands")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [global flags] <command> [args]\n", os.Args[0])
		fmt.Fprintln(os.Stderr, "Commands:")
		fmt.Fprintln(os.Stderr, "  mint-token                  Print a bearer token for -sub/-email")
		fmt.Fprintln(os.Stderr, "  create-game                 Create a game")
		fmt.Fprintln(os.Stderr, "  games                       List games")
		fmt.Fprintln(os.Stderr, "  join                        Join -game")
		fmt.Fprintln(os.Stderr, "  add-ai                      Add an AI seat to -game")
		fmt.Fprintln(os.Stderr, "  ready                       Mark self ready in -game")
		fmt.Fprintln(os.Stderr, "  state                       Print -game's snapshot (JSON)")
		fmt.Fprintln(os.Stderr, "  summary                     Print -game's final summary (JSON)")
		fmt.Fprintln(os.Stderr, "  bid N                       Bid N in -game")
		fmt.Fprintln(os.Stderr, "  trump S                     Choose trump suit S (S|H|D|C) in -game")
		fmt.Fprintln(os.Stderr, "  play CARD                   Play CARD (e.g. AS, TH, 2C) in -game")
		fmt.Fprintln(os.Stderr, "  delete                      Delete -game")
		fmt.Fprintln(os.Stderr, "\nGlobal flags:")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	cmd := flag.Arg(0)

	if cmd == "mint-token" {
		requireSecret()
		tok, err := authtoken.Issue(*authSecret, *subject, *email, 24*time.Hour)
		if err != nil {
			fatalf("mint-token: %v", err)
		}
		fmt.Println(tok)
		return
	}

	bearer := *token
	if bearer == "" {
		requireSecret()
		var err error
		bearer, err = authtoken.Issue(*authSecret, *subject, *email, time.Hour)
		if err != nil {
			fatalf("mint bearer token: %v", err)
		}
	}

	c := &apiClient{baseURL: *serverURL, bearer: bearer}

	var err error
	switch cmd {
	case "create-game":
		err = c.do(http.MethodPost, "/api/create_game", nil)
	case "games":
		err = c.do(http.MethodGet, "/api/games", nil)
	case "join":
		requireGame()
		err = c.do(http.MethodPost, "/api/game/"+*gameID+"/join", nil)
	case "add-ai":
		requireGame()
		err = c.do(http.MethodPost, "/api/game/"+*gameID+"/add_ai", nil)
	case "ready":
		requireGame()
		err = c.do(http.MethodPost, "/api/game/"+*gameID+"/ready", nil)
	case "state":
		requireGame()
		err = c.do(http.MethodGet, "/api/game/"+*gameID+"/state", nil)
	case "summary":
		requireGame()
		err = c.do(http.MethodGet, "/api/game/"+*gameID+"/summary", nil)
	case "bid":
		requireGame()
		if flag.NArg() < 2 {
			fatalf("bid requires a value, e.g. %s bid 3", os.Args[0])
		}
		n, convErr := strconv.Atoi(flag.Arg(1))
		if convErr != nil {
			fatalf("invalid bid %q: %v", flag.Arg(1), convErr)
		}
		err = c.do(http.MethodPost, "/api/game/"+*gameID+"/bid", map[string]interface{}{"bid": n})
	case "trump":
		requireGame()
		if flag.NArg() < 2 {
			fatalf("trump requires a suit, e.g. %s trump S", os.Args[0])
		}
		err = c.do(http.MethodPost, "/api/game/"+*gameID+"/trump", map[string]interface{}{"trump_suit": flag.Arg(1)})
	case "play":
		requireGame()
		if flag.NArg() < 2 {
			fatalf("play requires a card, e.g. %s play AS", os.Args[0])
		}
		err = c.do(http.MethodPost, "/api/game/"+*gameID+"/play", map[string]interface{}{"card": flag.Arg(1)})
	case "delete":
		requireGame()
		err = c.do(http.MethodDelete, "/api/game/"+*gameID, nil)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		fatalf("%v", err)
	}
}

type apiClient struct {
	baseURL string
	bearer  string
}

func (c *apiClient) do(method, path string, body interface{}) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.bearer)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	var pretty bytes.Buffer
	if len(raw) > 0 && json.Indent(&pretty, raw, "", "  ") == nil {
		fmt.Println(pretty.String())
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}
	return nil
}

func requireSecret() {
	if *authSecret == "" {
		fatalf("-secret is required")
	}
	if *subject == "" {
		fatalf("-sub is required")
	}
}

func requireGame() {
	if *gameID == "" {
		fatalf("-game is required")
	}
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "nommiectl: "+format+"\n", args...)
	os.Exit(1)
}
