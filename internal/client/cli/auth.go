package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/okulikov/handtext/internal/client/session"
	"github.com/okulikov/handtext/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for an email, a password and the profile fields, then
// creates the account and its profile document in one go. On success the
// session is authenticated right away, so no separate login is needed.
//
// A partial registration (account created, profile write failed) is
// reported to the user; a plain "login" afterwards still works, and the
// profile can be saved later with "save". The password byte slice is
// securely wiped before returning.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	fullName, err := getSimpleText(a.reader, "Enter full name", os.Stdout)
	if err != nil {
		return err
	}
	age, err := getSimpleText(a.reader, "Enter age", os.Stdout)
	if err != nil {
		return err
	}
	profession, err := getSimpleText(a.reader, "Enter profession", os.Stdout)
	if err != nil {
		return err
	}

	fields := session.RegistrationFields{FullName: fullName, Age: age, Profession: profession}
	if err := a.session.SignUp(ctx, email, string(password), fields); err != nil {
		switch {
		case errors.Is(err, common.ErrPartialRegistration):
			fmt.Println("Account created, but saving the profile failed. Log in and use 'save' to retry.")
		case errors.Is(err, common.ErrValidation):
			fmt.Println("All fields are required:", err)
		default:
			fmt.Println("Registration failed:", err)
		}
		return err
	}

	fmt.Println("Success!")
	return nil
}

// Login prompts the user for credentials and tries to authenticate.
// The password is securely wiped before returning.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.session.SignIn(ctx, email, string(password)); err != nil {
		if errors.Is(err, common.ErrInvalidCredentials) {
			fmt.Println("Invalid email or password.")
		} else {
			fmt.Println("Login failed:", err)
		}
		return err
	}

	fmt.Println("Logged in as", email)
	return nil
}

// Logout drops the session and all cached profile state. Already being
// anonymous is not an error.
func (a *App) Logout(ctx context.Context) error {
	a.session.SignOut()
	a.profiles.Reset()
	fmt.Println("Logged out.")
	return nil
}
