package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"github.com/noah-isme/college-erp-api/internal/models"
	"github.com/noah-isme/college-erp-api/internal/repository"
	"github.com/noah-isme/college-erp-api/internal/service"
	"github.com/noah-isme/college-erp-api/pkg/config"
	"github.com/noah-isme/college-erp-api/pkg/database"
	"github.com/noah-isme/college-erp-api/pkg/logger"
)

type seedUser struct {
	name       string
	email      string
	password   string
	role       models.UserRole
	department string
	employeeID string
	enrollment string
	semester   int
}

var seedDepartments = []models.Department{
	{Name: "Computer Science", Code: "CS", Description: "Department of Computer Science and Engineering"},
	{Name: "Electrical Engineering", Code: "EE", Description: "Department of Electrical Engineering"},
}

var seedUsers = []seedUser{
	{name: "Admin User", email: "admin@college.edu", password: "admin123", role: models.RoleAdmin},
	{name: "Faculty User", email: "faculty@college.edu", password: "faculty123", role: models.RoleFaculty, department: "CS", employeeID: "FAC001"},
	{name: "Student User", email: "student@college.edu", password: "student123", role: models.RoleStudent, department: "CS", enrollment: "CS2024001", semester: 1},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx := context.Background()
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("connect postgres", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	if err := database.Migrate(ctx, db); err != nil {
		logr.Fatal("migrate schema", zap.Error(err))
	}

	departments := repository.NewDepartmentRepository(db)
	users := repository.NewUserRepository(db)

	codes := make(map[string]string, len(seedDepartments))
	for _, dept := range seedDepartments {
		dept := dept
		existing, err := findDepartment(ctx, departments, dept.Code)
		if err != nil {
			logr.Fatal("look up department", zap.String("code", dept.Code), zap.Error(err))
		}
		if existing != nil {
			codes[dept.Code] = existing.ID
			logr.Info("department exists, skipping", zap.String("code", dept.Code))
			continue
		}
		if err := departments.Create(ctx, &dept); err != nil {
			logr.Fatal("create department", zap.String("code", dept.Code), zap.Error(err))
		}
		codes[dept.Code] = dept.ID
		logr.Info("department created", zap.String("code", dept.Code), zap.String("id", dept.ID))
	}

	for _, su := range seedUsers {
		su := su
		exists, err := users.ExistsByEmail(ctx, su.email, "")
		if err != nil {
			logr.Fatal("look up user", zap.String("email", su.email), zap.Error(err))
		}
		if exists {
			logr.Info("user exists, skipping", zap.String("email", su.email))
			continue
		}
		hash, err := service.HashPassword(su.password, cfg.Security.BcryptCost)
		if err != nil {
			logr.Fatal("hash password", zap.Error(err))
		}
		user := &models.User{
			Name:         su.name,
			Email:        su.email,
			PasswordHash: hash,
			Role:         su.role,
			Status:       models.UserStatusActive,
		}
		if id, ok := codes[su.department]; ok {
			user.DepartmentID = &id
		}
		if su.employeeID != "" {
			user.EmployeeID = &su.employeeID
		}
		if su.enrollment != "" {
			user.EnrollmentNumber = &su.enrollment
			semester := su.semester
			user.Semester = &semester
		}
		if err := users.Create(ctx, user); err != nil {
			logr.Fatal("create user", zap.String("email", su.email), zap.Error(err))
		}
		logr.Info("user created", zap.String("email", su.email), zap.String("role", string(su.role)))
	}

	logr.Info("seed complete")
}

func findDepartment(ctx context.Context, repo *repository.DepartmentRepository, code string) (*models.Department, error) {
	all, err := repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].Code == code {
			return &all[i], nil
		}
	}
	return nil, nil
}
