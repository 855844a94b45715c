package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tacops/movetrack/backend/internal/config"
	"github.com/tacops/movetrack/backend/internal/database"
	"github.com/tacops/movetrack/backend/internal/fingerprint"
	"github.com/tacops/movetrack/backend/internal/models"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	db, err := database.Connect(cfg.DatabasePath)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.UserAudit{},
		&models.Soldier{},
		&models.Movement{},
		&models.MovementAudit{},
		&models.Setting{},
		&models.Notification{},
		&models.NotificationProvider{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	fmt.Println("✓ Database migrated successfully")

	// Seed Soldiers
	soldiers := []models.Soldier{
		{
			UUID:          uuid.NewString(),
			ServiceNumber: "S100001",
			FullName:      "John Doe",
			Rank:          "Sergeant",
			Unit:          "1st Battalion",
			Active:        true,
		},
		{
			UUID:          uuid.NewString(),
			ServiceNumber: "S100002",
			FullName:      "Jane Roe",
			Rank:          "Corporal",
			Unit:          "2nd Battalion",
			Active:        true,
		},
		{
			UUID:          uuid.NewString(),
			ServiceNumber: "S100003",
			FullName:      "Sam Poe",
			Rank:          "Private",
			Unit:          "1st Battalion",
			Active:        true,
		},
	}

	for _, soldier := range soldiers {
		result := db.Where("service_number = ?", soldier.ServiceNumber).FirstOrCreate(&soldier)
		if result.Error != nil {
			log.Printf("Failed to seed soldier %s: %v", soldier.ServiceNumber, result.Error)
		} else if result.RowsAffected > 0 {
			fmt.Printf("✓ Created soldier: %s (%s)\n", soldier.FullName, soldier.ServiceNumber)
		} else {
			fmt.Printf("  Soldier already exists: %s\n", soldier.ServiceNumber)
		}
	}

	// Seed Settings
	settings := []models.Setting{
		{Key: "app_name", Value: "MoveTrack", Type: "string", Category: "general"},
		{Key: "default_movement_type", Value: "transfer", Type: "string", Category: "movements"},
		{Key: "review_digest_enabled", Value: "true", Type: "bool", Category: "movements"},
	}

	for _, setting := range settings {
		result := db.Where("key = ?", setting.Key).FirstOrCreate(&setting)
		if result.Error != nil {
			log.Printf("Failed to seed setting %s: %v", setting.Key, result.Error)
		} else if result.RowsAffected > 0 {
			fmt.Printf("✓ Created setting: %s = %s\n", setting.Key, setting.Value)
		} else {
			fmt.Printf("  Setting already exists: %s\n", setting.Key)
		}
	}

	// Seed default admin user
	defaultAdminEmail := os.Getenv("MT_DEFAULT_ADMIN_EMAIL")
	if defaultAdminEmail == "" {
		defaultAdminEmail = "admin@localhost"
	}
	defaultAdminPassword := os.Getenv("MT_DEFAULT_ADMIN_PASSWORD")
	forceAdmin := os.Getenv("MT_FORCE_DEFAULT_ADMIN") == "1"

	admin := models.User{
		UUID:     uuid.NewString(),
		Email:    defaultAdminEmail,
		FullName: "Administrator",
		Role:     models.RoleAdmin,
		Enabled:  true,
	}

	if defaultAdminPassword != "" {
		if err := admin.SetPassword(defaultAdminPassword); err != nil {
			log.Printf("Failed to hash default admin password: %v", err)
		}
	} else {
		// Without MT_DEFAULT_ADMIN_PASSWORD the account is not loginable
		admin.PasswordHash = "$2a$10$example_hashed_password"
	}

	var existing models.User
	if err := db.Where("email = ?", admin.Email).First(&existing).Error; err != nil {
		if result := db.Create(&admin); result.Error != nil {
			log.Printf("Failed to seed admin user: %v", result.Error)
		} else {
			fmt.Printf("✓ Created default admin: %s\n", admin.Email)
		}
	} else if forceAdmin && defaultAdminPassword != "" {
		if err := existing.SetPassword(defaultAdminPassword); err == nil {
			existing.Role = models.RoleAdmin
			existing.Enabled = true
			db.Save(&existing)
			fmt.Printf("✓ Reset admin password for: %s\n", existing.Email)
		} else {
			log.Printf("Failed to update existing admin password: %v", err)
		}
	} else {
		fmt.Printf("  User already exists: %s\n", existing.Email)
	}

	// Seed a sample movement so the dashboard has data on first boot
	var soldier models.Soldier
	if err := db.Where("service_number = ?", "S100001").First(&soldier).Error; err == nil {
		start := time.Now().Truncate(24 * time.Hour).Add(9 * time.Hour)
		end := start.Add(6 * time.Hour)
		movement := models.Movement{
			UUID:         uuid.NewString(),
			SoldierID:    soldier.ID,
			StartTime:    start,
			EndTime:      end,
			FromLocation: "Base A",
			ToLocation:   "Sector 7",
			MovementType: "transfer",
			Status:       models.MovementStatusPending,
			TAAmount:     decimal.NewFromInt(150),
			Fingerprint:  fingerprint.ComputeAt(fmt.Sprint(soldier.ID), start, "Base A", "Sector 7"),
		}
		result := db.Where("movement_fingerprint = ?", movement.Fingerprint).FirstOrCreate(&movement)
		if result.Error != nil {
			log.Printf("Failed to seed movement: %v", result.Error)
		} else if result.RowsAffected > 0 {
			fmt.Printf("✓ Created sample movement: %s -> %s\n", movement.FromLocation, movement.ToLocation)
		} else {
			fmt.Println("  Sample movement already exists")
		}
	}

	fmt.Println("\n✓ Database seeding completed successfully!")
}
