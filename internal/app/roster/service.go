// Package roster manages classes and student identity: join codes, the
// (class, nickname) → student upsert, and teacher admin operations.
package roster

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/readquest/readquest/internal/domain"
	"github.com/readquest/readquest/internal/infra/sqlite"
)

// reflectionListLimit caps the teacher reflection feed.
const reflectionListLimit = 200

// Service manages rosters.
type Service struct {
	db  *sqlite.DB
	now func() time.Time
}

// NewService creates a roster service.
func NewService(db *sqlite.DB) *Service {
	return &Service{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// CreateClass creates a class with a fresh 6-character join code.
func (s *Service) CreateClass(name string) (*domain.Class, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "My Class"
	}
	code := newClassCode()
	class, err := s.db.InsertClass(code, name, s.now())
	if err != nil {
		return nil, fmt.Errorf("create class: %w", err)
	}
	return class, nil
}

// Join resolves (class code, nickname) to a stable student, creating the
// student on first join. Joining again with the same nickname returns the
// same student.
func (s *Service) Join(classCode, nickname string) (*domain.Student, error) {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return nil, domain.ErrEmptyNickname
	}

	class, err := s.db.ClassByCode(normalizeCode(classCode))
	if err != nil {
		return nil, fmt.Errorf("lookup class: %w", err)
	}
	if class == nil {
		return nil, domain.ErrClassNotFound
	}

	student, err := s.db.UpsertStudent(class.ID, nickname, s.now())
	if err != nil {
		return nil, fmt.Errorf("upsert student: %w", err)
	}
	return student, nil
}

// Students returns a class roster with stats.
func (s *Service) Students(classCode string) ([]domain.StudentSummary, error) {
	class, err := s.db.ClassByCode(normalizeCode(classCode))
	if err != nil {
		return nil, fmt.Errorf("lookup class: %w", err)
	}
	if class == nil {
		return nil, domain.ErrClassNotFound
	}
	return s.db.ListStudents(class.ID)
}

// Reflections returns a class's reflection submissions, newest first.
func (s *Service) Reflections(classCode string) ([]domain.ClassReflection, error) {
	class, err := s.db.ClassByCode(normalizeCode(classCode))
	if err != nil {
		return nil, fmt.Errorf("lookup class: %w", err)
	}
	if class == nil {
		return nil, domain.ErrClassNotFound
	}
	return s.db.ListClassReflections(class.ID, reflectionListLimit)
}

// GrantCoins credits coins to a student (teacher reward). The amount joins
// both the spendable balance and the monotonic lifetime total.
func (s *Service) GrantCoins(studentID, amount int64) (domain.StudentStats, error) {
	if amount <= 0 {
		return domain.StudentStats{}, fmt.Errorf("coin amount must be positive, got %d", amount)
	}
	student, err := s.db.GetStudent(studentID)
	if err != nil {
		return domain.StudentStats{}, fmt.Errorf("lookup student: %w", err)
	}
	if student == nil {
		return domain.StudentStats{}, domain.ErrStudentNotFound
	}
	if err := s.db.AddCoins(studentID, amount); err != nil {
		return domain.StudentStats{}, fmt.Errorf("grant coins: %w", err)
	}
	return s.db.StudentStats(studentID)
}

// RemoveStudent deletes a student and all their records.
func (s *Service) RemoveStudent(studentID int64) error {
	return s.db.DeleteStudent(studentID)
}

// newClassCode derives a short, human-typeable join code.
func newClassCode() string {
	raw := strings.ToUpper(uuid.New().String())
	return strings.ReplaceAll(raw, "-", "")[:6]
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
