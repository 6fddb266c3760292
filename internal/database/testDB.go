package database

import (
	"context"
	"fmt"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	// Load env
	_ "github.com/joho/godotenv/autoload"

	m "CampusCred-backend/internal/model"
	"CampusCred-backend/internal/utilities"
)

var testDBInstance *DBinstanceStruct
var teardown func(context.Context, ...testcontainers.TerminateOption) error

// Exported test users & profiles
var (
	TestAdminUser     m.User
	TestUserStudent1  m.User
	TestUserStudent2  m.User
	TestUserRecruiter m.User
	TestStudent1      m.StudentProfile
	TestStudent2      m.StudentProfile
	TestRecruiter     m.RecruiterProfile

	// Shared plain password for all seeded users
	TestSeedPassword = "SeedPass123!"

	// Seeded postings, one per lifecycle stage
	TestPostingDraft    m.Posting
	TestPostingPending  m.Posting
	TestPostingApproved m.Posting
)

// GetTestDB starts a PostgreSQL test container and returns a teardown function,
// the DB instance, and any error encountered during setup.
func GetTestDB() (func(context.Context, ...testcontainers.TerminateOption) error, *DBinstanceStruct, error) {

	if testDBInstance != nil && teardown != nil {
		return teardown, testDBInstance, nil
	}

	// Database configuration
	var (
		dbName = "database"
		dbPwd  = "password"
		dbUser = "user"
	)

	dbContainer, err := postgres.Run(
		context.Background(),
		"postgres:latest",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
	)
	if err != nil {
		return nil, nil, err
	}

	dbHost, err := dbContainer.Host(context.Background())
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	dbPort, err := dbContainer.MappedPort(context.Background(), nat.Port("5432/tcp"))
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	config := &DBConfig{
		useConstr: true,
		Constr:    fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable", dbHost, dbPort.Port(), dbUser, dbPwd, dbName),
	}

	db, err := NewDBInstance(config)
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	if err := seedTestData(db); err != nil {
		_ = dbContainer.Terminate(context.Background())
		return nil, nil, err
	}

	testDBInstance = db
	teardown = dbContainer.Terminate

	return dbContainer.Terminate, db, nil
}

// seedTestData inserts sample students, a recruiter and postings if empty.
func seedTestData(db *DBinstanceStruct) error {
	// Ignore any admin user created during NewDBInstance
	var userCount int64
	if err := db.Model(&m.User{}).Where("role <> ?", m.RoleAdmin).Count(&userCount).Error; err != nil {
		return err
	}
	if userCount > 0 {
		return fmt.Errorf("test database unexpectedly seeded already")
	}

	hashedPwd, errHash := utilities.HashPassword(TestSeedPassword)
	if errHash != nil {
		return errHash
	}

	userSpecs := []struct {
		username string
		email    string
		role     string
	}{
		{"student_1", "student1@example.edu", m.RoleStudent},
		{"student_2", "student2@example.edu", m.RoleStudent},
		{"recruiter_1", "recruiter@techcorp.com", m.RoleRecruiter},
		{"tpo_admin", "tpo@example.edu", m.RoleAdmin},
	}

	users := make([]m.User, 0, len(userSpecs))
	for _, s := range userSpecs {
		email := s.email
		users = append(users, m.User{
			ID:       uuid.New(),
			Username: s.username,
			Email:    &email,
			Role:     s.role,
			Password: hashedPwd,
		})
	}

	if err := db.Create(&users).Error; err != nil {
		return err
	}

	for _, u := range users {
		switch u.Username {
		case "student_1":
			TestUserStudent1 = u
		case "student_2":
			TestUserStudent2 = u
		case "recruiter_1":
			TestUserRecruiter = u
		case "tpo_admin":
			TestAdminUser = u
		}
	}

	students := []m.StudentProfile{
		{
			UserID: TestUserStudent1.ID,
			EditableStudentInfo: m.EditableStudentInfo{
				FirstName: "Aman",
				LastName:  "Gupta",
				CGPA:      8.5,
				Branch:    "CS",
				Skills:    pq.StringArray{"React", "Tailwind", "JavaScript"},
			},
			CredibilityScore: 95,
			PlacementStatus:  m.PlacementActive,
			Internships: []m.Internship{
				{Company: "TechCorp", Role: "Frontend Intern", Type: "internship"},
			},
		},
		{
			UserID: TestUserStudent2.ID,
			EditableStudentInfo: m.EditableStudentInfo{
				FirstName: "Sneha",
				LastName:  "Kapur",
				CGPA:      9.1,
				Branch:    "IT",
				Skills:    pq.StringArray{"Node.js", "React", "MongoDB"},
			},
			CredibilityScore: 98,
			PlacementStatus:  m.PlacementPlaced,
			Internships: []m.Internship{
				{Company: "GlobalSync", Role: "Fullstack Intern", Type: "internship"},
				{Company: "TechCorp", Role: "Backend Intern", Type: "internship"},
			},
		},
	}
	if err := db.Create(&students).Error; err != nil {
		return err
	}
	TestStudent1 = students[0]
	TestStudent2 = students[1]

	recruiter := m.RecruiterProfile{
		UserID:      TestUserRecruiter.ID,
		CompanyName: "TechCorp Solutions",
		Designation: "Senior Talent Acquisition",
	}
	if err := db.Create(&recruiter).Error; err != nil {
		return err
	}
	TestRecruiter = recruiter

	deadline := time.Now().AddDate(0, 1, 0)
	postings := []m.Posting{
		{
			RecruiterID: recruiter.UserID,
			EditablePostingInfo: m.EditablePostingInfo{
				JobTitle:        "Frontend Intern",
				Type:            "Internship",
				Location:        "Remote",
				Stipend:         "25,000",
				RequiredSkills:  pq.StringArray{"React", "Tailwind"},
				AllowedBranches: pq.StringArray{"CS", "IT"},
				MinCGPA:         7.5,
				Description:     "We are looking for a passionate Frontend Intern.",
				Deadline:        &deadline,
			},
			Status: m.StatusDraft,
		},
		{
			RecruiterID: recruiter.UserID,
			EditablePostingInfo: m.EditablePostingInfo{
				JobTitle:        "Associate Software Engineer",
				Type:            "Placement",
				Location:        "Onsite - Bangalore",
				Stipend:         "12 LPA",
				RequiredSkills:  pq.StringArray{"Java", "SQL", "Spring Boot"},
				AllowedBranches: pq.StringArray{"CS", "IT", "EC"},
				MinCGPA:         8.0,
				Description:     "Join our core engineering team.",
				Deadline:        &deadline,
			},
			Status: m.StatusPendingApproval,
		},
		{
			RecruiterID: recruiter.UserID,
			EditablePostingInfo: m.EditablePostingInfo{
				JobTitle:        "Data Analyst Intern",
				Type:            "Internship",
				Location:        "Hybrid - Pune",
				Stipend:         "18,000",
				RequiredSkills:  pq.StringArray{"SQL", "Python"},
				AllowedBranches: pq.StringArray{"CS", "IT"},
				MinCGPA:         7.0,
				Description:     "Support data cleansing and dashboards.",
				Deadline:        &deadline,
			},
			Status: m.StatusApproved,
		},
	}
	if err := db.Create(&postings).Error; err != nil {
		return err
	}

	for i := range postings {
		entry := m.AuditEntry{
			PostingID: postings[i].ID,
			Action:    m.AuditCreated,
			Actor:     recruiter.UserID,
			Timestamp: time.Now(),
		}
		if err := db.Create(&entry).Error; err != nil {
			return err
		}
	}

	TestPostingDraft = postings[0]
	TestPostingPending = postings[1]
	TestPostingApproved = postings[2]

	return nil
}
