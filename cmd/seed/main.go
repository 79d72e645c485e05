package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"atlas/internal/config"
	"atlas/internal/database"
	"atlas/internal/domain"
)

// seed wipes booking data and loads a small demo dataset: one user per
// role, a few workspace types and workspaces, and some future bookings.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	for _, table := range []string{"bookings", "workspaces", "workspace_types", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			log.Fatalf("wipe %s: %v", table, err)
		}
	}

	users := []struct {
		email string
		name  string
		role  domain.Role
	}{
		{"admin@atlas.local", "Ava", domain.RoleAdmin},
		{"employee@atlas.local", "Eli", domain.RoleEmployee},
		{"learner@atlas.local", "Lia", domain.RoleLearner},
		{"guest@atlas.local", "Gus", domain.RoleGeneral},
	}

	byEmail := map[string]int64{}
	for _, u := range users {
		hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("hash: %v", err)
		}
		row := domain.User{
			Email:        u.email,
			PasswordHash: string(hash),
			FirstName:    u.name,
			Role:         u.role,
			IsActive:     true,
		}
		if err := db.Create(&row).Error; err != nil {
			log.Fatalf("seed user %s: %v", u.email, err)
		}
		byEmail[u.email] = row.ID
	}

	meetingRoom := domain.WorkspaceType{
		Name:      "Meeting Room",
		Capacity:  8,
		Amenities: []string{"display", "whiteboard"},
	}
	focusPod := domain.WorkspaceType{
		Name:      "Focus Pod",
		Capacity:  1,
		Amenities: []string{"desk lamp"},
	}
	for _, wt := range []*domain.WorkspaceType{&meetingRoom, &focusPod} {
		if err := db.Create(wt).Error; err != nil {
			log.Fatalf("seed type %s: %v", wt.Name, err)
		}
	}

	workspaces := []domain.Workspace{
		{Name: "Boardroom", Location: "HQ", Floor: "2", WorkspaceTypeID: meetingRoom.ID, IsActive: true},
		{Name: "Huddle A", Location: "HQ", Floor: "1", WorkspaceTypeID: meetingRoom.ID, IsActive: true},
		{Name: "Pod 1", Location: "HQ", Floor: "1", WorkspaceTypeID: focusPod.ID, IsActive: true},
		{Name: "Pod 2", Location: "Annex", Floor: "G", WorkspaceTypeID: focusPod.ID, IsActive: false},
	}
	for i := range workspaces {
		if err := db.Create(&workspaces[i]).Error; err != nil {
			log.Fatalf("seed workspace %s: %v", workspaces[i].Name, err)
		}
	}

	tomorrow := time.Now().Truncate(time.Hour).Add(24 * time.Hour)
	bookings := []domain.Booking{
		{
			WorkspaceID: workspaces[0].ID,
			UserID:      byEmail["employee@atlas.local"],
			StartTime:   tomorrow.Add(9 * time.Hour),
			EndTime:     tomorrow.Add(10 * time.Hour),
			Purpose:     "standup",
			Attendees:   6,
			Status:      domain.BookingConfirmed,
		},
		{
			WorkspaceID: workspaces[2].ID,
			UserID:      byEmail["learner@atlas.local"],
			StartTime:   tomorrow.Add(13 * time.Hour),
			EndTime:     tomorrow.Add(15 * time.Hour),
			Purpose:     "study session",
			Attendees:   1,
			Status:      domain.BookingConfirmed,
		},
	}
	for i := range bookings {
		if err := db.Create(&bookings[i]).Error; err != nil {
			log.Fatalf("seed booking: %v", err)
		}
	}

	log.Printf("seeded %d users, 2 types, %d workspaces, %d bookings", len(users), len(workspaces), len(bookings))
}
