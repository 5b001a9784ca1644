package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/okulikov/handtext/internal/client/profile"
	"github.com/okulikov/handtext/internal/common"
)

// ShowProfile loads the signed-in user's profile document and prints it.
func (a *App) ShowProfile(ctx context.Context) error {
	sess := a.session.Session()

	p, err := a.profiles.Load(ctx, sess, sess.UserID)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrUnauthorized):
			fmt.Println("Log in first.")
		case errors.Is(err, common.ErrNotFound):
			fmt.Println("No profile yet. Use 'save' to create one.")
		default:
			fmt.Println("Could not load profile:", err)
		}
		return err
	}

	fmt.Println("Full name: ", p.FullName)
	fmt.Println("Age:       ", p.Age)
	fmt.Println("Profession:", p.Profession)
	fmt.Println("Email:     ", p.Email)
	return nil
}

// SaveProfile prompts for the editable profile fields and writes them to
// the remote document. The email is never rewritten here.
func (a *App) SaveProfile(ctx context.Context) error {
	sess := a.session.Session()

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

	fields := profile.Fields{FullName: fullName, Age: age, Profession: profession}
	if err := a.profiles.Save(ctx, sess, sess.UserID, fields); err != nil {
		switch {
		case errors.Is(err, common.ErrUnauthorized):
			fmt.Println("Log in first.")
		case errors.Is(err, common.ErrValidation):
			fmt.Println("All fields are required:", err)
		default:
			fmt.Println("Could not save profile:", err)
		}
		return err
	}

	fmt.Println("Profile saved.")
	return nil
}
