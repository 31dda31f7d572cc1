package sqlite

import (
	"database/sql"
	"time"

	"github.com/readquest/readquest/internal/domain"
)

// InsertBook adds a book to a student's shelf.
func (s queries) InsertBook(b domain.Book) (*domain.Book, error) {
	res, err := s.q.Exec(
		`INSERT INTO books (student_id, title, author, total_pages, current_page, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		b.StudentID, b.Title, b.Author, b.TotalPages, b.CurrentPage, b.CreatedAt.Unix(),
	)
	if err != nil {
		return nil, err
	}
	b.ID, err = res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// BookForStudent retrieves a book only if it belongs to the student.
// Returns nil if absent or owned by someone else.
func (s queries) BookForStudent(studentID, bookID int64) (*domain.Book, error) {
	row := s.q.QueryRow(
		`SELECT id, student_id, title, author, total_pages, current_page, created_at
		 FROM books WHERE id = ? AND student_id = ?`, bookID, studentID,
	)
	return scanBook(row)
}

// ListBooks returns a student's shelf, newest first.
func (s queries) ListBooks(studentID int64) ([]domain.Book, error) {
	rows, err := s.q.Query(
		`SELECT id, student_id, title, author, total_pages, current_page, created_at
		 FROM books WHERE student_id = ? ORDER BY created_at DESC, id DESC`, studentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []domain.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, *b)
	}
	return books, rows.Err()
}

// UpdateBookPage sets a book's current page.
func (s queries) UpdateBookPage(bookID int64, page int) error {
	_, err := s.q.Exec(`UPDATE books SET current_page = ? WHERE id = ?`, page, bookID)
	return err
}

func scanBook(sc scanner) (*domain.Book, error) {
	var b domain.Book
	var createdAt int64
	err := sc.Scan(&b.ID, &b.StudentID, &b.Title, &b.Author,
		&b.TotalPages, &b.CurrentPage, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil // Not found, no error
	}
	if err != nil {
		return nil, err
	}
	b.CreatedAt = time.Unix(createdAt, 0)
	return &b, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}
