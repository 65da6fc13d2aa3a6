package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sbakhtiari/adminctl/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login walks the two-step OTP flow: identifier first, then the delivered
// code. Typing "back" at the code prompt abandons the pending code and
// returns to the identifier step.
func (a *App) Login(ctx context.Context) error {
	if a.isLoggedIn() {
		fmt.Println("Already logged in.")
		return nil
	}

	identifier, err := getSimpleText(a.reader, "Enter phone number or email", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.auth.RequestCode(ctx, identifier); err != nil {
		fmt.Println("Could not send code:", err.Error())
		return err
	}
	fmt.Println("Verification code sent.")

	for {
		code, err := getSimpleText(a.reader, "Enter the 6-digit code (or 'back' to change identifier)", os.Stdout)
		if err != nil {
			return err
		}

		if strings.EqualFold(code, "back") {
			a.auth.Reset()
			fmt.Println("Login cancelled.")
			return nil
		}

		if err := a.auth.VerifyCode(ctx, code); err != nil {
			fmt.Println("Verification failed:", err.Error())
			continue
		}

		fmt.Println("Logged in.")
		return nil
	}
}

// Logout drops the session locally no matter what the server says.
func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		fmt.Println("Warning:", err.Error())
	}
	a.setMode(ctx, ModeUnknown)
	fmt.Println("Logged out.")
	return nil
}

// Probe checks that the current access token is accepted by the backend.
func (a *App) Probe(ctx context.Context) {
	if !a.requireAuth() {
		return
	}
	if err := a.auth.Probe(ctx); err != nil {
		a.handleRemoteErr(ctx, err)
		if errors.Is(err, common.ErrUnauthorized) {
			a.setMode(ctx, ModeUnknown)
		} else {
			a.setMode(ctx, ModeOffline)
		}
		return
	}
	a.setMode(ctx, ModeOnline)
	fmt.Println("Token accepted by server.")
}
