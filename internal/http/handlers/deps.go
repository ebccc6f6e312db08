package handlers

import (
	"github.com/jmoiron/sqlx"

	"fintrack/internal/auth"
	"fintrack/internal/config"
	"fintrack/internal/events"
	"fintrack/internal/repos"
	"fintrack/internal/services"
)

type Deps struct {
	DB   *sqlx.DB
	Auth *services.AuthService

	AuthHandler      *AuthHandler
	CategoryHandler  *CategoryHandler
	OperationHandler *OperationHandler
	AdminHandler     *AdminHandler
}

// NewDeps wires repos and services over db. A nil ledger uses the revoked_tokens table.
func NewDeps(db *sqlx.DB, cfg config.Config, ledger services.RevocationLedger, pub events.Publisher) *Deps {
	if ledger == nil {
		ledger = repos.NewRevokedTokenRepo(db)
	}
	if pub == nil {
		pub = events.Nop{}
	}
	userRepo := repos.NewUserRepo(db)
	catRepo := repos.NewCategoryRepo(db)
	opRepo := repos.NewOperationRepo(db)

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL)
	authSvc := services.NewAuthService(userRepo, tokens, ledger, pub)
	if cfg.BcryptCost > 0 {
		authSvc.HashCost = cfg.BcryptCost
	}

	return &Deps{
		DB:               db,
		Auth:             authSvc,
		AuthHandler:      &AuthHandler{Auth: authSvc},
		CategoryHandler:  &CategoryHandler{Categories: services.NewCategoryService(catRepo)},
		OperationHandler: &OperationHandler{Operations: services.NewOperationService(opRepo, catRepo)},
		AdminHandler:     &AdminHandler{Admin: services.NewAdminService(userRepo, pub)},
	}
}
