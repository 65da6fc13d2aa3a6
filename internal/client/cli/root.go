package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

func (a *App) getStatus() string {
	s := ""
	if a.isLoggedIn() {
		s = "auth"
	}
	if mode := a.getMode(); mode != ModeUnknown {
		if s != "" {
			s += " "
		}
		s += string(mode)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

func (a *App) Root(ctx context.Context) {

	fmt.Println("Welcome to adminctl (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	go a.StartSessionWatcher(ctx, a.config.ProbeInterval)

	for {
		fmt.Printf("adm %s> ", a.getStatus())
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Println("Available commands: list, create, update <id>, delete <id>, me, token, probe, logout, exit")
			} else {
				fmt.Println("Available commands: login, exit")
			}

		case "login":
			a.Login(ctx)
		case "logout":
			a.Logout(ctx)
		case "list":
			a.List(ctx)
		case "create":
			a.CreateUser(ctx)
		case "update":
			a.UpdateUser(ctx, args)
		case "delete":
			a.DeleteUser(ctx, args)
		case "me":
			a.Me(ctx)
		case "token":
			a.TokenInfo(ctx)
		case "probe":
			a.Probe(ctx)
		case "exit", "quit":
			fmt.Println("Bye!")
			return
		default:
			fmt.Println("Unknown command:", cmd)
		}
	}
}
