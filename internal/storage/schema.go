package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// InitSchema creates all necessary tables and indexes.
// Note: WAL mode is configured in db.go's configureConnection function.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if err := createStudentsTable(ctx, db); err != nil {
		return err
	}

	if err := createOfficesTable(ctx, db); err != nil {
		return err
	}

	if err := createSalariesTable(ctx, db); err != nil {
		return err
	}

	return createCollegesTable(ctx, db)
}

func createStudentsTable(ctx context.Context, db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS Students (
		Id TEXT PRIMARY KEY,
		Name TEXT NOT NULL,
		Email TEXT,
		Department TEXT,
		CollegeId TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_students_name ON Students(Name);
	CREATE INDEX IF NOT EXISTS idx_students_department ON Students(Department);
	`

	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("create Students table: %w", err)
	}

	return nil
}

func createOfficesTable(ctx context.Context, db *sql.DB) error {
	// The UNIQUE constraint on StudentId backs the write-once contract.
	query := `
	CREATE TABLE IF NOT EXISTS Offices (
		OfficeId TEXT PRIMARY KEY,
		StudentId TEXT NOT NULL UNIQUE,
		Building TEXT,
		Room TEXT
	);
	`

	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("create Offices table: %w", err)
	}

	return nil
}

func createSalariesTable(ctx context.Context, db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS Salaries (
		StudentId TEXT NOT NULL,
		Year INTEGER NOT NULL,
		AmountUsd INTEGER NOT NULL,
		PRIMARY KEY (StudentId, Year)
	);
	`

	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("create Salaries table: %w", err)
	}

	return nil
}

func createCollegesTable(ctx context.Context, db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS Colleges (
		Id TEXT PRIMARY KEY,
		Name TEXT NOT NULL,
		Url TEXT
	);
	`

	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("create Colleges table: %w", err)
	}

	return nil
}
