package main

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

const (
	MsgTypeListTowns  = 101
	MsgTypeCreateTown = 102
	MsgTypeJoinTown   = 103
	MsgTypeMovement   = 201
	MsgTypeChat       = 202
)

// send formats and sends a message to the WebSocket server.
func send(c *websocket.Conn, msgID uint16, data []byte) error {
	packet := make([]byte, 4+len(data))
	binary.BigEndian.PutUint16(packet[0:2], msgID)
	binary.BigEndian.PutUint16(packet[2:4], uint16(len(data)))
	copy(packet[4:], data)

	return c.WriteMessage(websocket.BinaryMessage, packet)
}

func sendJSON(c *websocket.Conn, msgID uint16, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return send(c, msgID, data)
}

func main() {
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	u := url.URL{Scheme: "ws", Host: "localhost:8080", Path: "/ws"}
	log.Printf("Connecting to %s", u.String())

	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("Dial failed: %v", err)
	}
	defer c.Close()

	done := make(chan struct{})

	// Read loop
	go func() {
		defer close(done)
		for {
			_, message, err := c.ReadMessage()
			if err != nil {
				log.Println("Read error:", err)
				return
			}
			if len(message) < 4 {
				log.Printf("Received invalid packet of size %d", len(message))
				continue
			}
			msgID := binary.BigEndian.Uint16(message[0:2])
			data := message[4:]
			log.Printf("<- RECV (ID: %d): %s", msgID, string(data))
		}
	}()

	log.Println("Commands: list | create <name> | join <townID> <userName> | move <x> <y> | chat <text>")

	// Write loop
	reader := bufio.NewReader(os.Stdin)
	for {
		select {
		case <-done:
			return
		case <-interrupt:
			log.Println("Interrupt received, closing connection.")
			err := c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			if err != nil {
				log.Println("Write close error:", err)
			}
			select {
			case <-done:
			case <-time.After(time.Second):
			}
			return
		default:
			text, _ := reader.ReadString('\n')
			fields := strings.Fields(strings.TrimSpace(text))
			if len(fields) == 0 {
				continue
			}

			var err error
			switch fields[0] {
			case "list":
				err = send(c, MsgTypeListTowns, []byte{})
			case "create":
				if len(fields) < 2 {
					log.Println("Usage: create <name>")
					continue
				}
				err = sendJSON(c, MsgTypeCreateTown, map[string]interface{}{
					"friendlyName":     strings.Join(fields[1:], " "),
					"isPubliclyListed": true,
				})
			case "join":
				if len(fields) < 3 {
					log.Println("Usage: join <townID> <userName>")
					continue
				}
				err = sendJSON(c, MsgTypeJoinTown, map[string]string{
					"townID":   fields[1],
					"userName": fields[2],
				})
			case "move":
				if len(fields) < 3 {
					log.Println("Usage: move <x> <y>")
					continue
				}
				x, _ := strconv.ParseFloat(fields[1], 64)
				y, _ := strconv.ParseFloat(fields[2], 64)
				err = sendJSON(c, MsgTypeMovement, map[string]interface{}{
					"x":        x,
					"y":        y,
					"rotation": "front",
					"moving":   false,
				})
			case "chat":
				if len(fields) < 2 {
					log.Println("Usage: chat <text>")
					continue
				}
				err = sendJSON(c, MsgTypeChat, map[string]string{
					"body": strings.Join(fields[1:], " "),
				})
			default:
				log.Printf("Unknown command: %s", fields[0])
				continue
			}

			if err != nil {
				log.Println("Write error:", err)
				return
			}
			log.Printf("-> SENT: %s", fields[0])
		}
	}
}
