package user

import (
	"context"

	"github.com/gradefinalboss/gradeboss/core"
)

// serviceMock sends emails synchronously so tests can assert on them.
type serviceMock struct {
	service
}

func NewServiceMock(conf *core.Config, repo Repository, mailSvc core.EmailService, logger core.Logger) Service {
	return &serviceMock{
		service: service{
			repo:    repo,
			mailSvc: mailSvc,
			logger:  logger,
			tokens:  newTokenGenerator(conf),
		},
	}
}

func (svc *serviceMock) Create(ctx context.Context, nu NewUser) (User, error) {
	usr, err := svc.create(ctx, nu)
	if err != nil {
		return User{}, err
	}
	// run synchronously
	svc.sendWelcomeMail(usr)
	return usr, nil
}

func (svc *serviceMock) RequestPasswordReset(ctx context.Context, email string) error {
	usr, err := svc.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if !usr.IsActive {
		return ErrNotFound
	}
	// run synchronously
	svc.sendPasswordResetMail(usr)
	return nil
}

// MakeToken exposes the password reset token of usr to tests.
func (svc *serviceMock) MakeToken(usr User) (string, error) {
	return svc.tokens.make(usr)
}
