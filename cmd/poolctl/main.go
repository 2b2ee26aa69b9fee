// Command poolctl is a terminal client for the poolpal server: account
// management, friends, shared expense pools and chat, plus a live watch
// mode over the WebSocket feed.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const usage = `poolctl - poolpal terminal client

Usage:
  poolctl <command> [args]

Session:
  register <name> <email> <password>   create an account
  login <email> <password>             log in and store the session token
  verify <token>                       confirm your email address
  resend-verification                  request a fresh verification token
  logout                               discard the stored session token

Account:
  me                                   show your profile
  rename <new name>                    change your display name
  delete-account <password>            delete your account

Friends:
  friends                              list your friends
  request <email>                      send a friend request
  accept <uid>                         accept a pending request
  decline <uid>                        decline a pending request

Pools:
  ledger <friend-uid>                  show the shared pool ledger
  expense <friend-uid> <amount> [reason...]
                                       add an expense to the shared pool
  toggle <pool-id> <expense-id>        flip an expense between open and settled

Chat:
  send <friend-uid> <text...>          send a chat message
  history <friend-uid>                 show the recent message window
  watch <topic>                        stream live snapshots (users/<uid>,
                                       pools/<id>, chats/<id>)

The server address comes from POOLPAL_URL (default http://localhost:8080).
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(2)
	}

	c := newClient()
	cmd, args := os.Args[1], os.Args[2:]

	var err error
	switch cmd {
	case "register":
		err = withArgs(args, 3, func() error { return c.register(args[0], args[1], args[2]) })
	case "login":
		err = withArgs(args, 2, func() error { return c.login(args[0], args[1]) })
	case "verify":
		err = withArgs(args, 1, func() error { return c.verify(args[0]) })
	case "resend-verification":
		err = c.resendVerification()
	case "logout":
		err = c.logout()
	case "me":
		err = c.me()
	case "rename":
		err = withArgs(args, 1, func() error { return c.rename(strings.Join(args, " ")) })
	case "delete-account":
		err = withArgs(args, 1, func() error { return c.deleteAccount(args[0]) })
	case "friends":
		err = c.listFriends()
	case "request":
		err = withArgs(args, 1, func() error { return c.sendRequest(args[0]) })
	case "accept":
		err = withArgs(args, 1, func() error { return c.accept(args[0]) })
	case "decline":
		err = withArgs(args, 1, func() error { return c.decline(args[0]) })
	case "ledger":
		err = withArgs(args, 1, func() error { return c.ledger(args[0]) })
	case "expense":
		err = withArgs(args, 2, func() error {
			amount, parseErr := strconv.ParseFloat(args[1], 64)
			if parseErr != nil {
				return fmt.Errorf("invalid amount %q", args[1])
			}
			return c.addExpense(args[0], amount, strings.Join(args[2:], " "))
		})
	case "toggle":
		err = withArgs(args, 2, func() error { return c.toggleExpense(args[0], args[1]) })
	case "send":
		err = withArgs(args, 2, func() error { return c.sendMessage(args[0], strings.Join(args[1:], " ")) })
	case "history":
		err = withArgs(args, 1, func() error { return c.history(args[0]) })
	case "watch":
		err = withArgs(args, 1, func() error { return c.watch(args[0]) })
	case "help", "--help", "-h":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", cmd, usage)
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func withArgs(args []string, min int, fn func() error) error {
	if len(args) < min {
		return fmt.Errorf("expected at least %d argument(s), got %d (see poolctl help)", min, len(args))
	}
	return fn()
}
