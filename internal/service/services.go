package service

import (
	"github.com/brightlend/naming-service/internal/config"
	"github.com/brightlend/naming-service/internal/repository"
)

type Services struct {
	Naming *NamingService
	User   *UserService
	Loan   *LoanService
}

func NewServices(repos *repository.Repositories, registrar Registrar, cfg *config.Config) *Services {
	return &Services{
		Naming: NewNamingService(repos.User, repos.Registration, registrar),
		User:   NewUserService(repos.User, cfg),
		Loan:   NewLoanService(repos.Loan, repos.User),
	}
}
