package cmd

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		gormDB, err := initGorm(db)
		if err != nil {
			log.Fatalf("failed to init orm: %v", err)
		}

		if clearData {
			for _, table := range []string{
				"device_tokens", "photos", "incomes", "reimbursements",
				"task_assignments", "tasks", "projects",
				"company_memberships", "companies", "users",
			} {
				if err := gormDB.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
					log.Fatalf("failed to clear table %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		password := "password"
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

		adminID := ensureUser(gormDB, "wira@mail.com", "Wira Admin", string(hash))
		staffID := ensureUser(gormDB, "budi@mail.com", "Budi Mandor", string(hash))

		companyID := ""
		if err := gormDB.Raw("SELECT id FROM companies WHERE name = ?", "Wira Konstruksi").Row().Scan(&companyID); err != nil {
			companyID = uuid.New().String()
			if err := gormDB.Exec("INSERT INTO companies (id, name, description, owner_user_id, member_count, created_at, updated_at) VALUES (?, ?, ?, ?, 2, now(), now())",
				companyID, "Wira Konstruksi", "sample construction company", adminID).Error; err != nil {
				log.Fatalf("failed to insert company: %v", err)
			}
			fmt.Println("Seeded company: Wira Konstruksi")
		}

		ensureMembership(gormDB, adminID, companyID, "admin")
		ensureMembership(gormDB, staffID, companyID, "staff")

		for _, id := range []string{adminID, staffID} {
			if err := gormDB.Exec("UPDATE users SET company_id = ?, updated_at = now() WHERE id = ?", companyID, id).Error; err != nil {
				log.Fatalf("failed to attach user to company: %v", err)
			}
		}

		var exists int
		if err := gormDB.Raw("SELECT 1 FROM projects WHERE company_id = ? AND name = ?", companyID, "Rumah Tipe 45").Row().Scan(&exists); err != nil {
			if err := gormDB.Exec("INSERT INTO projects (id, company_id, name, description, address, status, budget, actual_cost, revenue, created_at, updated_at) VALUES (?, ?, ?, ?, ?, 'planning', 350000000, 0, 0, now(), now())",
				uuid.New().String(), companyID, "Rumah Tipe 45", "sample housing project", "Jl. Melati No. 4").Error; err != nil {
				log.Fatalf("failed to insert project: %v", err)
			}
			fmt.Println("Seeded project: Rumah Tipe 45")
		}

		fmt.Println("Seed data ready. Sample users:", "wira@mail.com (admin), budi@mail.com (staff), password: password")
	},
}

func ensureUser(db *gorm.DB, email, name, passwordHash string) string {
	var id string
	if err := db.Raw("SELECT id FROM users WHERE email = ?", email).Row().Scan(&id); err == nil {
		fmt.Printf("user %s already exists\n", email)
		return id
	}

	id = uuid.New().String()
	if err := db.Exec("INSERT INTO users (id, email, name, password_hash, is_active, created_at, updated_at) VALUES (?, ?, ?, ?, true, now(), now())",
		id, email, name, passwordHash).Error; err != nil {
		log.Fatalf("failed to insert user %s: %v", email, err)
	}
	fmt.Println("Seeded user:", email)
	return id
}

func ensureMembership(db *gorm.DB, userID, companyID, role string) {
	var exists int
	if err := db.Raw("SELECT 1 FROM company_memberships WHERE user_id = ? AND company_id = ?", userID, companyID).Row().Scan(&exists); err == nil {
		return
	}

	if err := db.Exec("INSERT INTO company_memberships (user_id, company_id, role, joined_at, updated_at) VALUES (?, ?, ?, now(), now())",
		userID, companyID, role).Error; err != nil {
		log.Fatalf("failed to insert membership for %s: %v", userID, err)
	}
	fmt.Printf("Seeded %s membership for user %s\n", role, userID)
}
