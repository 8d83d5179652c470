package models

import (
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
)

const name string = "github.com/adzkyyy/adCTF/cmd/server/internal/models"

var tracer = otel.Tracer(name)

// Derived from gorm.Model
type Model struct {
	CreatedAt time.Time
	UpdatedAt time.Time
	ID        uuid.UUID `gorm:"primaryKey;default:gen_random_uuid()"`
}

// Config is the singleton challenge state. Exactly one row exists at all
// times; EnsureConfig creates it at bootstrap and nothing ever deletes it.
type Config struct {
	ID                  int64 `gorm:"primaryKey"`
	ChallengeStarted    bool
	TickDurationSeconds int
	// Informational mirror of the tick row count, bumped in the same
	// transaction as every tick insert.
	TicksCount int64
	UpdatedAt  time.Time
}

// Tick is one discrete time step. Rows are append-only and the id is the
// single source of truth for round derivation.
type Tick struct {
	ID        int64 `gorm:"primaryKey"`
	CreatedAt time.Time
}

// User is a competing team. Managed by the admin surface; read-only here.
type User struct {
	Model
	Username string `gorm:"uniqueIndex"`
	HostIP   string
	IsAdmin  bool
}

// Challenge is a competition target service.
type Challenge struct {
	Model
	Name        string `gorm:"uniqueIndex"`
	Title       string
	Port        int
	Description string
	Category    string
}

// Submission records one successful attack. There is deliberately no tick
// reference on it; defense scoring only uses aggregate counts.
type Submission struct {
	Model
	AttackerID uuid.UUID `gorm:"index"`
	TargetID   uuid.UUID `gorm:"index"`
	ChallID    uuid.UUID `gorm:"index"`
}

// Check is one health-check outcome for a (user, challenge) pair at a tick.
type Check struct {
	Model
	UserID  uuid.UUID `gorm:"index"`
	ChallID uuid.UUID `gorm:"index"`
	TickID  int64     `gorm:"index"`
	Status  string
}
