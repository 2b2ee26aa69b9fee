package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/gorilla/websocket"
)

// watch subscribes to a snapshot topic and prints every event until
// interrupted.
func (c *client) watch(topic string) error {
	token := c.storedToken()
	if token == "" {
		return fmt.Errorf("not logged in; run poolctl login first")
	}

	wsURL := strings.Replace(c.baseURL, "http", "ws", 1) + "/api/ws?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(map[string]string{"action": "subscribe", "topic": topic}); err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}
	fmt.Printf("watching %s (ctrl-c to stop)\n", topic)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)

	events := make(chan json.RawMessage)
	errs := make(chan error, 1)
	go func() {
		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				errs <- err
				return
			}
			events <- raw
		}
	}()

	for {
		select {
		case raw := <-events:
			var pretty map[string]interface{}
			if err := json.Unmarshal(raw, &pretty); err != nil {
				fmt.Println(string(raw))
				continue
			}
			out, _ := json.MarshalIndent(pretty, "", "  ")
			fmt.Println(string(out))
		case err := <-errs:
			return fmt.Errorf("connection lost: %w", err)
		case <-stop:
			conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return nil
		}
	}
}
