// Command migrate applies the .sql files in the migrations directory, in
// lexical order, one transaction per file. With -list it prints the tables
// that exist instead of applying anything.
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "github.com/lib/pq"
)

func main() {
	dir := flag.String("dir", "migrations", "directory holding the .sql files")
	list := flag.Bool("list", false, "print the public tables and exit")
	flag.Parse()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatalf("ping database: %v", err)
	}

	if *list {
		if err := printTables(db); err != nil {
			log.Fatal(err)
		}
		return
	}

	applied, failed, err := applyDir(db, *dir)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("migrations finished: %d applied, %d failed", applied, failed)
	if failed > 0 {
		os.Exit(1)
	}
}

func printTables(db *sql.DB) error {
	rows, err := db.Query(
		"SELECT tablename FROM pg_tables WHERE schemaname = 'public' ORDER BY tablename")
	if err != nil {
		return err
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return err
		}
		fmt.Println(name)
		count++
	}
	fmt.Printf("%d tables\n", count)
	return rows.Err()
}

func applyDir(db *sql.DB, dir string) (applied, failed int, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, 0, fmt.Errorf("read %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return applied, failed, fmt.Errorf("read %s: %w", name, err)
		}
		script := string(data)
		if strings.TrimSpace(script) == "" {
			continue
		}
		if err := applyOne(db, script); err != nil {
			log.Printf("%s: %v", name, err)
			failed++
			continue
		}
		log.Printf("%s: applied", name)
		applied++
	}
	return applied, failed, nil
}

// applyOne runs a migration script inside its own transaction so a failing
// file leaves the schema where the previous file left it.
func applyOne(db *sql.DB, script string) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(script); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}
