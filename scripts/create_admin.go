// Bootstrap an admin account.
//
// Registration only creates child and parent accounts, so the first
// admin has to be created out of band. Run once after deployment.
//
// Usage: go run scripts/create_admin.go -email admin@example.com -password <secret>

package main

import (
	"flag"
	"log"
	"os"

	"github.com/meytoof/MentorAI-sub000/internal/config"
	"github.com/meytoof/MentorAI-sub000/internal/model"
	"github.com/meytoof/MentorAI-sub000/pkg/database"
	"github.com/meytoof/MentorAI-sub000/pkg/logger"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

func main() {
	name := flag.String("name", "Admin", "display name for the admin account")
	email := flag.String("email", "", "email address for the admin account")
	password := flag.String("password", "", "password for the admin account")
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("both -email and -password are required")
	}

	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to read config file: %v", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("Failed to parse config file: %v", err)
	}

	logger.InitLogger(&cfg)

	db, err := database.InitDB(&cfg.Database, false)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}

	var count int64
	db.Model(&model.User{}).Where("email = ?", *email).Count(&count)
	if count > 0 {
		log.Fatalf("An account with email %s already exists", *email)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	admin := &model.User{
		Name:     *name,
		Email:    *email,
		Password: string(hashed),
		Role:     model.Admin,
		Language: "fr",
	}
	if err := db.Create(admin).Error; err != nil {
		log.Fatalf("Failed to create admin account: %v", err)
	}

	log.Printf("Admin account %s created (id=%d)", *email, admin.ID)
}
