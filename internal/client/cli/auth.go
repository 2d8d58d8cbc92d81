package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/portfolio/internal/client/client"
	"github.com/dmitrijs2005/portfolio/internal/client/models"
)

func (a *App) Register(ctx context.Context) error {
	if a.isLoggedIn() {
		fmt.Fprintln(a.out, "Already logged in, log out first.")
		return nil
	}

	var p models.Profile
	fields := []struct {
		prompt string
		dst    *string
	}{
		{"Username", &p.Username},
		{"Email", &p.Email},
		{"First name", &p.FirstName},
		{"Last name", &p.LastName},
	}
	for _, f := range fields {
		v, err := GetSimpleText(a.reader, f.prompt, a.out)
		if err != nil {
			return err
		}
		*f.dst = v
	}

	pw, err := GetPassword(a.out)
	if err != nil {
		return err
	}
	p.Password = pw

	s, err := a.session.Register(ctx, p)
	if err != nil {
		a.reportError(ctx, "Registration failed", err)
		return err
	}

	fmt.Fprintf(a.out, "Welcome, %s! Your account has been created.\n", s.User.DisplayName)
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}

	pw, err := GetPassword(a.out)
	if err != nil {
		return err
	}

	s, err := a.session.Login(ctx, email, pw)
	if err != nil {
		a.reportError(ctx, "Login failed", err)
		return err
	}

	fmt.Fprintf(a.out, "Logged in as %s.\n", s.User.DisplayName)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.session.Logout(ctx)
	return nil
}

func (a *App) Whoami(ctx context.Context) error {
	u := a.session.CurrentUser()
	if u == nil {
		fmt.Fprintln(a.out, "Not logged in.")
		return nil
	}
	a.printUser(u)
	return nil
}

// Refresh reloads the profile from the server.
func (a *App) Refresh(ctx context.Context) error {
	u, err := a.session.RefreshUser(ctx)
	if err != nil {
		a.reportError(ctx, "Refresh failed", err)
		return err
	}
	a.printUser(u)
	return nil
}

func (a *App) printUser(u *models.UserSummary) {
	fmt.Fprintf(a.out, "%s (@%s)\n", u.DisplayName, u.Username)
	fmt.Fprintf(a.out, "  email: %s\n  role:  %s\n", u.Email, u.Role)
	fmt.Fprintf(a.out, "  theme: %s, notifications: %t, voice assistant: %t\n",
		u.Preferences.Theme, u.Preferences.Notifications, u.Preferences.VoiceAssistant)
}

// reportError prints a user-facing line. Server messages are shown as is.
func (a *App) reportError(ctx context.Context, what string, err error) {
	var apiErr *client.APIError
	switch {
	case errors.As(err, &apiErr):
		fmt.Fprintf(a.out, "%s: %s\n", what, apiErr.Error())
	case errors.Is(err, client.ErrUnavailable):
		fmt.Fprintf(a.out, "%s: %s\n", what, client.ErrUnavailable.Error())
	default:
		fmt.Fprintf(a.out, "%s: %v\n", what, err)
	}
	a.logger.Debug(ctx, what, "error", err)
}
