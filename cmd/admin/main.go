package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"six/backend/internal/config"
	"six/backend/internal/lifecycle"
	"six/backend/internal/storage"
	"six/backend/internal/sweeper"
)

func main() {
	cfg := config.Load()

	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	store := storage.NewService(db, nil) // no redis needed for admin CLI
	policy := lifecycle.NewPolicy(cfg.RoomTTL)

	if len(os.Args) < 2 {
		fmt.Println("Usage: admin <command> [args]")
		fmt.Println("Commands: inspect <room_id> | close <room_id> | sweep")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "inspect":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin inspect <room_id>")
			os.Exit(1)
		}
		if err := inspectRoom(store, policy, os.Args[2]); err != nil {
			log.Fatalf("error inspecting room: %v", err)
		}
	case "close":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin close <room_id>")
			os.Exit(1)
		}
		if err := store.CloseRoom(os.Args[2]); err != nil {
			log.Fatalf("error closing room: %v", err)
		}
		fmt.Printf("Room %s has been closed.\n", os.Args[2])
	case "sweep":
		sweeper.New(store, policy, cfg.SweepInterval).Sweep()
		fmt.Println("Sweep complete.")
	default:
		fmt.Println("Unknown command")
		os.Exit(1)
	}
}

func inspectRoom(s storage.Storage, policy lifecycle.Policy, roomID string) error {
	room, err := s.GetRoomByID(roomID)
	if err != nil {
		return err
	}
	if room == nil {
		return fmt.Errorf("room %s not found", roomID)
	}

	now := time.Now()
	fmt.Printf("Room:          %s\n", room.ID)
	fmt.Printf("Name:          %q\n", room.Name)
	fmt.Printf("Status:        %s\n", room.Status)
	fmt.Printf("Creator:       %s (%s)\n", room.CreatorID, room.CreatorColor)
	if room.HasGuest() {
		fmt.Printf("Guest:         %s (%s)\n", *room.GuestID, *room.GuestColor)
	} else {
		fmt.Println("Guest:         <empty slot>")
	}
	fmt.Printf("Created:       %s\n", room.CreatedAt.Format(time.RFC3339))
	fmt.Printf("Last activity: %s\n", room.LastActivityAt.Format(time.RFC3339))
	if policy.IsClosed(room, now) {
		fmt.Println("Lifecycle:     closed")
	} else {
		fmt.Printf("Lifecycle:     active, %s remaining\n", policy.Remaining(room, now).Round(time.Second))
	}
	return nil
}
