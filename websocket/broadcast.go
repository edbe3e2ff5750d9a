// file: websocket/broadcast.go
package websocket

import (
	"encoding/json"

	"hackathon-portal/logger"
)

// broadcast carries marshalled messages from controllers to the pump.
var broadcast = make(chan []byte, 256)

// HandleMessages listens for messages on the broadcast channel and
// distributes them to all connected admin feeds. Run once from main.
func HandleMessages() {
	for msg := range broadcast {
		connectionsMu.Lock()
		for c := range connections {
			select {
			case c.send <- msg:
			default:
				logger.Warn.Printf("Dropping broadcast message for connection %v", c.conn.RemoteAddr())
			}
		}
		connectionsMu.Unlock()
	}
}

// BroadcastPaymentStatus notifies every connected admin dashboard that a
// team's payment status changed.
func BroadcastPaymentStatus(teamID, status string) {
	msg, err := json.Marshal(map[string]string{
		"action":        "paymentStatus",
		"teamId":        teamID,
		"paymentStatus": status,
	})
	if err != nil {
		logger.Error.Printf("Error marshalling status broadcast: %v", err)
		return
	}

	logger.Debug.Printf("Broadcasting payment status for team %s: %s", teamID, status)
	broadcast <- msg
}

// SendBroadcastMessage allows raw byte data to be sent over the broadcast channel
func SendBroadcastMessage(data []byte) {
	broadcast <- data
}
