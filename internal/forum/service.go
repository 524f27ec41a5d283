// Package forum holds the domain rules of the forum: who may act on content,
// how votes aggregate into scores, how moderation transitions visibility and
// how verification gates posting rights. Every operation takes the acting
// user explicitly; nothing in here knows about HTTP.
package forum

import (
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type Service struct {
	db  *gorm.DB
	log zerolog.Logger
}

func NewService(db *gorm.DB, log zerolog.Logger) *Service {
	return &Service{db: db, log: log}
}
