package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sbakhtiari/adminctl/internal/client/api"
)

func (a *App) List(ctx context.Context) {
	if !a.requireAuth() {
		return
	}

	users, err := a.users.List(ctx)
	if err != nil {
		a.handleRemoteErr(ctx, err)
		return
	}

	if len(users) == 0 {
		fmt.Println("No users found.")
		return
	}
	for _, u := range users {
		fmt.Println(u)
	}
}

func (a *App) CreateUser(ctx context.Context) {
	if !a.requireAuth() {
		return
	}

	username, err := getSimpleText(a.reader, "Username (required)", os.Stdout)
	if err != nil {
		return
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return
	}
	email, err := getSimpleText(a.reader, "Email (optional)", os.Stdout)
	if err != nil {
		return
	}
	phone, err := getSimpleText(a.reader, "Phone (optional)", os.Stdout)
	if err != nil {
		return
	}
	firstName, err := getSimpleText(a.reader, "First name (optional)", os.Stdout)
	if err != nil {
		return
	}
	lastName, err := getSimpleText(a.reader, "Last name (optional)", os.Stdout)
	if err != nil {
		return
	}
	active, err := getSimpleText(a.reader, "Active? [Y/n]", os.Stdout)
	if err != nil {
		return
	}

	req := api.CreateUserRequest{
		Username:  username,
		Password:  string(password),
		Email:     email,
		Phone:     phone,
		FirstName: firstName,
		LastName:  lastName,
		IsActive:  !strings.EqualFold(active, "n"),
	}

	created, err := a.users.Create(ctx, req)
	if err != nil {
		a.handleRemoteErr(ctx, err)
		return
	}
	fmt.Printf("Created user #%d %s\n", created.ID, created.Username)
}

func (a *App) UpdateUser(ctx context.Context, args []string) {
	if !a.requireAuth() {
		return
	}

	id, ok := a.parseID(args, "update")
	if !ok {
		return
	}

	fmt.Println("Leave a field empty to keep its current value.")
	req := api.UpdateUserRequest{}
	prompts := []struct {
		label string
		dst   **string
	}{
		{"Username", &req.Username},
		{"Email", &req.Email},
		{"Phone", &req.Phone},
		{"First name", &req.FirstName},
		{"Last name", &req.LastName},
	}
	for _, p := range prompts {
		v, err := getSimpleText(a.reader, p.label, os.Stdout)
		if err != nil {
			return
		}
		if v != "" {
			*p.dst = &v
		}
	}

	active, err := getSimpleText(a.reader, "Active? [y/n/empty]", os.Stdout)
	if err != nil {
		return
	}
	switch strings.ToLower(active) {
	case "y":
		v := true
		req.IsActive = &v
	case "n":
		v := false
		req.IsActive = &v
	}

	updated, err := a.users.Update(ctx, id, req)
	if err != nil {
		a.handleRemoteErr(ctx, err)
		return
	}
	fmt.Printf("Updated user #%d\n", updated.ID)
}

func (a *App) DeleteUser(ctx context.Context, args []string) {
	if !a.requireAuth() {
		return
	}

	id, ok := a.parseID(args, "delete")
	if !ok {
		return
	}

	confirm, err := getSimpleText(a.reader, fmt.Sprintf("Delete user #%d? [y/N]", id), os.Stdout)
	if err != nil {
		return
	}
	if !strings.EqualFold(confirm, "y") {
		fmt.Println("Cancelled.")
		return
	}

	if err := a.users.Delete(ctx, id); err != nil {
		a.handleRemoteErr(ctx, err)
		return
	}
	fmt.Printf("Deleted user #%d\n", id)
}

func (a *App) Me(ctx context.Context) {
	if !a.requireAuth() {
		return
	}

	me, err := a.users.Me(ctx)
	if err != nil {
		a.handleRemoteErr(ctx, err)
		return
	}
	fmt.Println(me)
}

func (a *App) parseID(args []string, usage string) (int64, bool) {
	if len(args) == 0 {
		fmt.Printf("Usage: %s <id>\n", usage)
		return 0, false
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Println("Invalid id:", args[0])
		return 0, false
	}
	return id, true
}
