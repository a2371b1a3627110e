package database

import (
	"fmt"
	"log"
	"time"

	"ems-portal/config"
	"ems-portal/internal/models"
)

// SeedData creates initial data for development
func SeedData(cfg *config.Config) error {
	if !cfg.Dev.SeedData {
		return nil
	}

	log.Println("Seeding development data...")

	var adminUser models.User
	err := DB.Where("email = ?", cfg.Admin.Email).First(&adminUser).Error
	if err == nil {
		log.Println("Admin user already exists, skipping seed data")
		return nil
	}

	admin := &models.User{
		Email:     cfg.Admin.Email,
		Password:  cfg.Admin.Password,
		FirstName: "Admin",
		LastName:  "Administrator",
		Role:      models.RoleAdmin,
		IsActive:  true,
	}
	if err := DB.Create(admin).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	hrManager := &models.User{
		Email:     "hr@ems-portal.local",
		Password:  "hr123456",
		FirstName: "Hanna",
		LastName:  "Personal",
		Role:      models.RoleHRManager,
		IsActive:  true,
	}
	if err := DB.Create(hrManager).Error; err != nil {
		return fmt.Errorf("failed to create HR manager: %w", err)
	}

	employeeUser := &models.User{
		Email:     "employee@ems-portal.local",
		Password:  "employee123",
		FirstName: "Erik",
		LastName:  "Mitarbeiter",
		Role:      models.RoleEmployee,
		IsActive:  true,
		Phone:     "+49 151 12345678",
	}
	if err := DB.Create(employeeUser).Error; err != nil {
		return fmt.Errorf("failed to create employee user: %w", err)
	}

	applicant := &models.User{
		Email:     "applicant@example.com",
		Password:  "applicant123",
		FirstName: "Anna",
		LastName:  "Bewerber",
		Role:      models.RoleApplicant,
		IsActive:  true,
	}
	if err := DB.Create(applicant).Error; err != nil {
		return fmt.Errorf("failed to create applicant user: %w", err)
	}

	engineering := &models.Department{
		Name:        "Engineering",
		Description: "Product development and platform operations",
	}
	if err := DB.Create(engineering).Error; err != nil {
		return fmt.Errorf("failed to create department: %w", err)
	}

	peopleOps := &models.Department{
		Name:        "People Operations",
		Description: "Recruiting, payroll and employee care",
	}
	if err := DB.Create(peopleOps).Error; err != nil {
		return fmt.Errorf("failed to create department: %w", err)
	}

	employee := &models.Employee{
		UserID:       employeeUser.ID,
		EmployeeID:   "EMP-0001",
		DepartmentID: &engineering.ID,
		Position:     "Software Engineer",
		HireDate:     time.Now().AddDate(-2, 0, 0),
		Salary:       58000,
		Status:       models.EmployeeStatusActive,
	}
	if err := DB.Create(employee).Error; err != nil {
		return fmt.Errorf("failed to create employee profile: %w", err)
	}

	job := &models.JobRequirement{
		RoleName:               "Senior React Developer",
		Department:             "Engineering",
		RequiredSkills:         models.StringList{"React", "TypeScript", "Node.js", "Tailwind CSS"},
		MinimumYearsExperience: 5,
		EducationLevel:         "Bachelor",
		Responsibilities:       models.StringList{"Build and maintain the applicant portal frontend", "Review code and mentor juniors"},
		Status:                 models.JobStatusOpen,
		CreatedBy:              hrManager.ID,
	}
	if err := DB.Create(job).Error; err != nil {
		return fmt.Errorf("failed to create job requirement: %w", err)
	}

	backendJob := &models.JobRequirement{
		RoleName:               "Backend Engineer",
		Department:             "Engineering",
		RequiredSkills:         models.StringList{"Go", "PostgreSQL", "Docker"},
		MinimumYearsExperience: 3,
		Status:                 models.JobStatusOpen,
		CreatedBy:              hrManager.ID,
	}
	if err := DB.Create(backendJob).Error; err != nil {
		return fmt.Errorf("failed to create job requirement: %w", err)
	}

	candidate := &models.Candidate{
		UserID:            &applicant.ID,
		FullName:          applicant.FullName(),
		Email:             applicant.Email,
		Skills:            models.StringList{"React", "JavaScript", "CSS", "HTML", "Redux"},
		YearsOfExperience: 4,
		ResumeFileName:    "anna_bewerber.pdf",
		ParsedResume: models.ParsedResume{
			Name:   applicant.FullName(),
			Email:  applicant.Email,
			Skills: []string{"React", "JavaScript", "CSS", "HTML", "Redux"},
		},
		AppliedRoleID:   job.ID,
		AppliedRoleName: job.RoleName,
		FitScore:        42,
		Status:          models.CandidateStatusApplied,
	}
	if err := DB.Create(candidate).Error; err != nil {
		return fmt.Errorf("failed to create sample candidate: %w", err)
	}

	log.Printf("Seed data created successfully:")
	log.Printf("  Admin: %s / %s", cfg.Admin.Email, cfg.Admin.Password)
	log.Printf("  HR Manager: %s / hr123456", hrManager.Email)
	log.Printf("  Employee: %s / employee123", employeeUser.Email)
	log.Printf("  Applicant: %s / applicant123", applicant.Email)

	return nil
}
