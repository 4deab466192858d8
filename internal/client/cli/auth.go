package cli

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/gophtodo/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Form rules for the account prompts.
const (
	minNameLength     = 3
	minPasswordLength = 6
)

var (
	errNameTooShort     = fmt.Errorf("name must be at least %d characters", minNameLength)
	errBadEmail         = errors.New("please enter a valid email address")
	errPasswordTooShort = fmt.Errorf("password must be at least %d characters", minPasswordLength)
	errPasswordMismatch = errors.New("passwords do not match")
)

func validateEmail(email string) error {
	if email == "" || !strings.Contains(email, "@") {
		return errBadEmail
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return errBadEmail
	}
	return nil
}

func validatePassword(pw []byte) error {
	if utf8.RuneCount(pw) < minPasswordLength {
		return errPasswordTooShort
	}
	return nil
}

func validateRegistration(name, email string, pw, confirmPw []byte) error {
	if utf8.RuneCountInString(strings.TrimSpace(name)) < minNameLength {
		return errNameTooShort
	}
	if err := validateEmail(email); err != nil {
		return err
	}
	if err := validatePassword(pw); err != nil {
		return err
	}
	if string(pw) != string(confirmPw) {
		return errPasswordMismatch
	}
	return nil
}

// Register prompts for name, email and password (twice), validates the form
// and creates the account. A successful registration also logs the user in.
//
// Form errors are returned; a rejected registration (duplicate email) is
// reported as an error toast and returns nil.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, "Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	again, err := getPassword(a.reader, "Confirm password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(again)

	if err := validateRegistration(name, email, password, again); err != nil {
		return err
	}

	res := a.authService.Register(ctx, name, email, password)
	if !res.Success {
		a.notifications.Error(ctx, res.Message)
		return nil
	}
	a.notifications.Success(ctx, res.Message)
	return nil
}

// Login prompts for credentials and tries to authenticate. Unknown email and
// wrong password produce the same error toast.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	if err := validateEmail(email); err != nil {
		return err
	}

	password, err := getPassword(a.reader, "Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := validatePassword(password); err != nil {
		return err
	}

	res := a.authService.Login(ctx, email, password)
	if !res.Success {
		a.notifications.Error(ctx, res.Message)
		return nil
	}
	a.notifications.Success(ctx, res.Message)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		a.println("Not logged in.")
		return nil
	}
	a.authService.Logout(ctx)
	a.notifications.Info(ctx, "Logged out")
	return nil
}

func (a *App) WhoAmI(_ context.Context) error {
	u := a.authService.CurrentUser()
	if u == nil {
		a.println("Not logged in.")
		return nil
	}
	a.println(fmt.Sprintf("%s <%s>", u.Name, u.Email))
	return nil
}
