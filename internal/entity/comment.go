package entity

type Comment struct {
	ID      int    `json:"id"`
	Content string `json:"content"` // stored sanitized, see internal/validate
}

/*
SQLite Schema:

CREATE TABLE comments (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	content TEXT NOT NULL
);
*/
