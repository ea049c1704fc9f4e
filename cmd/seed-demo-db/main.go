// Command seed-demo-db creates and populates the demo task database.
// With -churn it keeps mutating rows so a watching tui-listview instance
// shows live animated updates.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

var categories = []string{"inbox", "home", "work"}

var titles = []string{
	"water plants",
	"vacuum stairs",
	"review patch",
	"write report",
	"buy groceries",
	"call dentist",
	"fix the bike",
	"read chapter",
}

func main() {
	dbPath := flag.String("db", "demo.db", "Path to the database to create")
	churn := flag.Duration("churn", 0, "Keep mutating rows at this interval (0 = seed once and exit)")
	flag.Parse()

	if err := run(*dbPath, *churn); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(dbPath string, churn time.Duration) error {
	ctx := context.Background()

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := ensureSchema(ctx, db); err != nil {
		return err
	}
	if err := seed(ctx, db); err != nil {
		return err
	}
	fmt.Printf("Seeded %s\n", dbPath)

	if churn <= 0 {
		return nil
	}

	fmt.Printf("Churning every %s, Ctrl-C to stop\n", churn)
	ticker := time.NewTicker(churn)
	defer ticker.Stop()
	for range ticker.C {
		if err := mutate(ctx, db); err != nil {
			log.Printf("mutation failed: %v", err)
		}
	}
	return nil
}

func ensureSchema(ctx context.Context, db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS tasks (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    category TEXT NOT NULL,
    position INTEGER NOT NULL,
    title TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_tasks_category ON tasks(category, position);
`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func seed(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM tasks`); err != nil {
		return fmt.Errorf("clear tasks: %w", err)
	}
	for i, title := range titles {
		category := categories[i%len(categories)]
		_, err := db.ExecContext(ctx,
			`INSERT INTO tasks (category, position, title) VALUES (?, ?, ?)`,
			category, i, title)
		if err != nil {
			return fmt.Errorf("insert task: %w", err)
		}
	}
	return nil
}

// mutate applies one random change: insert, delete, retitle, or move a
// row to another category.
func mutate(ctx context.Context, db *sql.DB) error {
	switch rand.Intn(4) {
	case 0:
		title := titles[rand.Intn(len(titles))]
		category := categories[rand.Intn(len(categories))]
		_, err := db.ExecContext(ctx,
			`INSERT INTO tasks (category, position, title) VALUES (?, ?, ?)`,
			category, rand.Intn(100), title)
		return err
	case 1:
		_, err := db.ExecContext(ctx,
			`DELETE FROM tasks WHERE id IN (SELECT id FROM tasks ORDER BY RANDOM() LIMIT 1)`)
		return err
	case 2:
		title := titles[rand.Intn(len(titles))]
		_, err := db.ExecContext(ctx,
			`UPDATE tasks SET title = ? WHERE id IN (SELECT id FROM tasks ORDER BY RANDOM() LIMIT 1)`,
			title)
		return err
	default:
		category := categories[rand.Intn(len(categories))]
		_, err := db.ExecContext(ctx,
			`UPDATE tasks SET category = ?, position = ? WHERE id IN (SELECT id FROM tasks ORDER BY RANDOM() LIMIT 1)`,
			category, rand.Intn(100))
		return err
	}
}
