package main

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/gradefinalboss/gradeboss/core"
	"github.com/gradefinalboss/gradeboss/core/user"
)

// addUser updates or creates an active user.User
func (cli *commandLine) addUser(name, email, pwd string) error {
	ctx := context.Background()
	nu := user.NewUser{
		Name:            core.CleanString(name),
		Email:           core.CleanString(email, true /* lower */),
		Password:        pwd,
		PasswordConfirm: pwd,
	}
	if err := cli.validate.Struct(nu); err != nil {
		return cli.validationError(err)
	}

	now := user.NowFunc().UTC()
	usr, err := cli.usrRepo.GetUser(ctx, user.GetFilter{Email: nu.Email})
	exists := err == nil
	if err != nil {
		if errors.Cause(err) != user.ErrNotFound {
			return err
		}
		usr = user.User{ID: uuid.New().String(), Email: nu.Email, CreatedAt: now}
	}

	usr.Name = nu.Name
	usr.IsActive = true
	usr.UpdatedAt = now
	if err = usr.SetPassword(pwd); err != nil {
		return err
	}

	if exists {
		if _, err = cli.usrRepo.UpdateUser(ctx, usr); err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "user %s updated\n", nu.Email)
		return nil
	}
	if _, err = cli.usrRepo.CreateUser(ctx, usr); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "user %s created\n", nu.Email)
	return nil
}

// validationError turns the first validator error into a readable error.
func (cli *commandLine) validationError(err error) error {
	vErrs, ok := errors.Cause(err).(validator.ValidationErrors)
	if !ok || len(vErrs) == 0 {
		return err
	}
	fe := vErrs[0]
	return fmt.Errorf("%s: %s", fe.Field(), fe.Translate(cli.translator))
}
