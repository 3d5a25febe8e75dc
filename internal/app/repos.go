package app

import (
	"gorm.io/gorm"

	"github.com/brightsteps/sessionscribe-backend/internal/logger"
	"github.com/brightsteps/sessionscribe-backend/internal/repos"
)

type Repos struct {
	User          repos.UserRepo
	UserToken     repos.UserTokenRepo
	Client        repos.ClientRepo
	SessionReport repos.SessionReportRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:          repos.NewUserRepo(db, log),
		UserToken:     repos.NewUserTokenRepo(db, log),
		Client:        repos.NewClientRepo(db, log),
		SessionReport: repos.NewSessionReportRepo(db, log),
	}
}
