// Command client is the terminal client for the six backend.
package main

import (
	"fmt"
	"os"
	"time"

	"six/backend/internal/client"
	"six/backend/internal/sealed"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	c := client.NewClient(os.Getenv("SIX_URL"), "")
	if raw := os.Getenv("SIX_KEY"); raw != "" {
		key, err := sealed.DecodeKey(raw)
		exitOnError(err)
		c.Key = key
	}

	cmd := os.Args[1]
	if cmd != "genkey" && cmd != "help" && cmd != "--help" && cmd != "-h" {
		_, err := c.EnsureIdentity()
		exitOnError(err)
	}

	switch cmd {
	case "identity":
		fmt.Println(c.Identity.GetOrCreate())

	case "genkey":
		key, err := sealed.GenerateKey()
		exitOnError(err)
		fmt.Println(sealed.EncodeKey(key))

	case "create":
		name := ""
		if len(os.Args) > 2 {
			name = os.Args[2]
		}
		room, err := c.CreateRoom(name, os.Getenv("SIX_COLOR"))
		exitOnError(err)
		fmt.Printf("Created room: %s\n", room.ID)

	case "join":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: client join <room_id>")
			os.Exit(1)
		}
		room, err := c.JoinRoom(os.Args[2], os.Getenv("SIX_COLOR"))
		exitOnError(err)
		fmt.Printf("Joined room: %s\n", room.ID)

	case "room":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: client room <room_id>")
			os.Exit(1)
		}
		view, err := c.GetRoom(os.Args[2])
		exitOnError(err)
		remaining := time.Duration(view.RemainingSeconds) * time.Second
		fmt.Printf("%s  %q  closes in %s\n", view.Room.ID, view.Room.Name, remaining)

	case "rename":
		if len(os.Args) < 4 {
			fmt.Fprintln(os.Stderr, "Usage: client rename <room_id> <name>")
			os.Exit(1)
		}
		room, err := c.RenameRoom(os.Args[2], os.Args[3])
		exitOnError(err)
		fmt.Printf("Room is now %q\n", room.Name)

	case "read":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: client read <room_id>")
			os.Exit(1)
		}
		msgs, err := c.Messages(os.Args[2])
		exitOnError(err)
		me := c.Identity.GetOrCreate()
		for _, m := range msgs {
			from := "them"
			if m.SenderID == me {
				from = "me"
			}
			ts := m.CreatedAt.Format("15:04:05")
			if m.IsMedia() {
				state := "hidden"
				if m.IsMediaRevealed {
					state = m.MediaURL
				}
				fmt.Printf("[%s] %s: <%s %s> (%s)\n", ts, from, m.MediaType, state, m.ID)
			} else {
				fmt.Printf("[%s] %s: %s (%s)\n", ts, from, m.Content, m.ID)
			}
		}

	case "send":
		if len(os.Args) < 4 {
			fmt.Fprintln(os.Stderr, "Usage: client send <room_id> <text>")
			os.Exit(1)
		}
		msg, err := c.SendText(os.Args[2], os.Args[3])
		exitOnError(err)
		fmt.Printf("Sent: %s\n", msg.ID)

	case "upload":
		if len(os.Args) < 4 {
			fmt.Fprintln(os.Stderr, "Usage: client upload <room_id> <file>")
			os.Exit(1)
		}
		res, err := c.Upload(os.Args[2], os.Args[3])
		exitOnError(err)
		msg, err := c.SendMedia(os.Args[2], res.URL, res.MediaType)
		exitOnError(err)
		fmt.Printf("Sent %s message: %s\n", res.MediaType, msg.ID)

	case "mark-read":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: client mark-read <message_id>")
			os.Exit(1)
		}
		msg, err := c.MarkRead(os.Args[2])
		exitOnError(err)
		if msg.ExpiresAt != nil {
			fmt.Printf("Read; expires at %s\n", msg.ExpiresAt.Format("15:04:05"))
		}

	case "reveal":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: client reveal <message_id>")
			os.Exit(1)
		}
		msg, err := c.Reveal(os.Args[2])
		exitOnError(err)
		fmt.Printf("Revealed: %s\n", msg.MediaURL)

	case "typing":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: client typing <room_id>")
			os.Exit(1)
		}
		sent, err := c.Typing(os.Args[2], os.Getenv("SIX_COLOR"))
		exitOnError(err)
		if !sent {
			fmt.Println("Throttled.")
		}

	case "history":
		for _, e := range c.RecentRooms() {
			role := "guest"
			if e.IsCreator {
				role = "creator"
			}
			name := e.RoomName
			if name == "" {
				name = "(unnamed)"
			}
			fmt.Printf("  %s  %s  %s  visited %s\n",
				e.RoomID, name, role, e.LastVisitedAt.Format("2006-01-02 15:04"))
		}

	case "help", "--help", "-h":
		usage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println(`six client - ephemeral two-party chat

Usage: client <command> [options]

Commands:
  identity                Print the local anonymous identity
  create [name]           Create a room
  join <room_id>          Take the guest slot of a room
  room <room_id>          Show a room and its closure countdown
  rename <room_id> <name> Rename a room
  read <room_id>          Read the room's live messages
  send <room_id> <text>   Send a text message
  upload <room_id> <file> Upload a blob and send it as a media message
  mark-read <msg_id>      Mark a partner message read (starts its expiry)
  reveal <msg_id>         Reveal a hidden media message
  typing <room_id>        Send a typing signal
  history                 List recently visited rooms
  genkey                  Generate a room encryption key

Environment:
  SIX_URL      Server URL (default: http://localhost:8080)
  SIX_CONFIG   Config directory (default: ~/.six)
  SIX_KEY      Room encryption key (from genkey)
  SIX_COLOR    Preferred accent color`)
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
