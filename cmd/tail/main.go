package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/gorilla/websocket"
)

// tail attaches to the addon's stream sink and prints diagnostics
// events as they happen.
func main() {
	var url string
	flag.StringVar(&url, "url", "ws://127.0.0.1:7311/tail", "stream sink endpoint")
	flag.Parse()

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "dial:", err)
		os.Exit(1)
	}
	defer conn.Close()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	go func() {
		<-interrupt
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		conn.Close()
		os.Exit(0)
	}()

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			fmt.Fprintln(os.Stderr, "read:", err)
			os.Exit(1)
		}
		fmt.Println(string(payload))
	}
}
