package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// interviewModel is the gorm persistence shape for Interview.
type interviewModel struct {
	ID             string    `gorm:"primaryKey;size:36;column:id"`
	CandidateName  string    `gorm:"size:255;not null;column:candidate_name"`
	CandidateEmail string    `gorm:"size:255;column:candidate_email"`
	Position       string    `gorm:"size:255;column:position"`
	Date           string    `gorm:"size:10;column:date"`
	Time           string    `gorm:"size:5;column:time"`
	Duration       string    `gorm:"size:32;column:duration"`
	Type           string    `gorm:"size:32;column:type"`
	Interviewers   string    `gorm:"type:text;column:interviewers"`
	Notes          string    `gorm:"type:text;column:notes"`
	Status         string    `gorm:"size:16;index;column:status"`
	CreatedAt      time.Time `gorm:"not null;column:created_at"`
	ScheduledAt    time.Time `gorm:"index;not null;column:scheduled_at"`
}

func (interviewModel) TableName() string {
	return "interviews"
}

func (m *interviewModel) toDomain() *Interview {
	var interviewers []string
	if m.Interviewers != "" {
		interviewers = strings.Split(m.Interviewers, ",")
	}
	return &Interview{
		ID:             m.ID,
		CandidateName:  m.CandidateName,
		CandidateEmail: m.CandidateEmail,
		Position:       m.Position,
		Date:           m.Date,
		Time:           m.Time,
		Duration:       m.Duration,
		Type:           m.Type,
		Interviewers:   interviewers,
		Notes:          m.Notes,
		Status:         Status(m.Status),
		CreatedAt:      m.CreatedAt,
		ScheduledAt:    m.ScheduledAt,
	}
}

func toModel(iv *Interview) *interviewModel {
	return &interviewModel{
		ID:             iv.ID,
		CandidateName:  iv.CandidateName,
		CandidateEmail: iv.CandidateEmail,
		Position:       iv.Position,
		Date:           iv.Date,
		Time:           iv.Time,
		Duration:       iv.Duration,
		Type:           iv.Type,
		Interviewers:   strings.Join(iv.Interviewers, ","),
		Notes:          iv.Notes,
		Status:         string(iv.Status),
		CreatedAt:      iv.CreatedAt,
		ScheduledAt:    iv.ScheduledAt,
	}
}

// PostgresRepository persists interviews in PostgreSQL via gorm.
type PostgresRepository struct {
	db *gorm.DB
}

// NewPostgresRepository opens a connection and migrates the schema.
func NewPostgresRepository(dsn string) (*PostgresRepository, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.AutoMigrate(&interviewModel{}); err != nil {
		return nil, fmt.Errorf("migrate interviews: %w", err)
	}
	return &PostgresRepository{db: db}, nil
}

// Create inserts a new interview record, assigning ID, status and
// creation time when unset.
func (r *PostgresRepository) Create(ctx context.Context, iv *Interview) error {
	applyDefaults(iv)
	if err := r.db.WithContext(ctx).Create(toModel(iv)).Error; err != nil {
		return fmt.Errorf("create interview: %w", err)
	}
	return nil
}

// Get fetches one interview by ID.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*Interview, error) {
	var m interviewModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get interview: %w", err)
	}
	return m.toDomain(), nil
}

// List returns all interviews in ascending scheduled-time order.
func (r *PostgresRepository) List(ctx context.Context) ([]*Interview, error) {
	var ms []*interviewModel
	if err := r.db.WithContext(ctx).Order("scheduled_at asc").Find(&ms).Error; err != nil {
		return nil, fmt.Errorf("list interviews: %w", err)
	}
	out := make([]*Interview, len(ms))
	for i, m := range ms {
		out[i] = m.toDomain()
	}
	return out, nil
}

// UpdateStatus sets the status of one interview.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, status Status) error {
	res := r.db.WithContext(ctx).Model(&interviewModel{}).Where("id = ?", id).Update("status", string(status))
	if res.Error != nil {
		return fmt.Errorf("update interview status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func applyDefaults(iv *Interview) {
	if iv.ID == "" {
		iv.ID = uuid.NewString()
	}
	if iv.Status == "" {
		iv.Status = StatusUpcoming
	}
	if iv.CreatedAt.IsZero() {
		iv.CreatedAt = time.Now().UTC()
	}
}
