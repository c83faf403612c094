package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/websocket"
)

// Smoke check against a running server: registers two players, joins
// them into one game and watches state frames come in over the socket
// while the first player rolls.
func main() {
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}
	base := fmt.Sprintf("http://127.0.0.1:%s/api/v1", port)

	tokenA := register(base, "smokeA", "smoke-pass")
	_ = register(base, "smokeB", "smoke-pass")

	gameID := join(base, "smokeA", "smoke-pass")
	gameID2 := join(base, "smokeB", "smoke-pass")
	if gameID != gameID2 {
		log.Fatalf("players did not pair: %s vs %s", gameID, gameID2)
	}
	log.Printf("paired in game %s", gameID)

	// use 127.0.0.1 to prefer IPv4 (avoid resolving to [::1])
	wsURL := fmt.Sprintf("ws://127.0.0.1:%s/ws?token=%s&game=%s", port, tokenA, gameID)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		log.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	post(base+"/roll", map[string]any{"nick": "smokeA", "password": "smoke-pass", "game_id": gameID})

	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		log.Fatalf("no state frame after roll: %v", err)
	}
	log.Printf("state frame: %s", msg)
	log.Println("smoke check passed")
}

func register(base, nick, password string) string {
	body := post(base+"/register", map[string]any{"nick": nick, "password": password})
	token, _ := body["token"].(string)
	if token == "" {
		log.Fatalf("register %s: no token in response", nick)
	}
	return token
}

func join(base, nick, password string) string {
	body := post(base+"/join", map[string]any{"nick": nick, "password": password, "size": 3, "group": 1})
	id, _ := body["game_id"].(string)
	if id == "" {
		log.Fatalf("join %s: no game_id in response", nick)
	}
	return id
}

func post(url string, payload map[string]any) map[string]any {
	raw, _ := json.Marshal(payload)
	res, err := http.Post(url, "application/json", bytes.NewReader(raw))
	if err != nil {
		log.Fatalf("POST %s: %v", url, err)
	}
	defer res.Body.Close()

	var body map[string]any
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		log.Fatalf("POST %s: decode: %v", url, err)
	}
	if res.StatusCode != http.StatusOK {
		log.Fatalf("POST %s: status %d: %v", url, res.StatusCode, body)
	}
	return body
}
