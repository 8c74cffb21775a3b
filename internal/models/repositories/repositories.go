package repositories

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type BaseModel struct {
	ID        uuid.UUID `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type Event struct {
	BaseModel
	Title       string       `db:"title"`
	Description string       `db:"description"`
	StartDate   time.Time    `db:"start_date"`
	EndDate     sql.NullTime `db:"end_date"`
	Location    string       `db:"location"`
	Category    string       `db:"category"`
	Price       string       `db:"price"`
	Source      string       `db:"source"`
	SourceURL   string       `db:"source_url"`
	ImageURL    string       `db:"image_url"`
}
