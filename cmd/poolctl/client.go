package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/anragu/poolpal/internal/models"
)

const defaultBaseURL = "http://localhost:8080"

// client wraps the REST API plus the token file that keeps a session
// across invocations.
type client struct {
	http    *resty.Client
	baseURL string
}

func newClient() *client {
	baseURL := os.Getenv("POOLPAL_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	c := &client{
		http:    resty.New().SetTimeout(10 * time.Second),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
	if token := c.storedToken(); token != "" {
		c.http.SetAuthToken(token)
	}
	return c
}

func tokenPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".poolpal-token"
	}
	return filepath.Join(home, ".poolpal", "token")
}

func (c *client) storedToken() string {
	raw, err := os.ReadFile(tokenPath())
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(raw))
}

func (c *client) storeToken(token string) error {
	path := tokenPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(token), 0o600); err != nil {
		return fmt.Errorf("failed to store session token: %w", err)
	}
	c.http.SetAuthToken(token)
	return nil
}

// call performs a JSON request and decodes a 2xx response into out (when
// non-nil). Non-2xx responses surface the server's error message.
func (c *client) call(method, path string, body, out interface{}) error {
	req := c.http.R().SetHeader("Content-Type", "application/json")
	if body != nil {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, c.baseURL+path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	if resp.IsError() {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(resp.Body(), &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s (%s)", apiErr.Error, resp.Status())
		}
		return fmt.Errorf("server returned %s", resp.Status())
	}

	if out != nil {
		if err := json.Unmarshal(resp.Body(), out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}

type sessionPayload struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func (c *client) register(name, email, password string) error {
	var session sessionPayload
	err := c.call("POST", "/api/auth/register", map[string]string{
		"name": name, "email": email, "password": password,
	}, &session)
	if err != nil {
		return err
	}
	if err := c.storeToken(session.Token); err != nil {
		return err
	}
	fmt.Printf("registered as %s (%s)\n", session.User.Name, session.User.UID)
	fmt.Println("check the server log for your verification token, then run: poolctl verify <token>")
	return nil
}

func (c *client) login(email, password string) error {
	var session sessionPayload
	err := c.call("POST", "/api/auth/login", map[string]string{
		"email": email, "password": password,
	}, &session)
	if err != nil {
		return err
	}
	if err := c.storeToken(session.Token); err != nil {
		return err
	}
	fmt.Printf("logged in as %s (%s)\n", session.User.Name, session.User.UID)
	return nil
}

func (c *client) verify(token string) error {
	if err := c.call("POST", "/api/auth/verify", map[string]string{"token": token}, nil); err != nil {
		return err
	}
	fmt.Println("email verified")
	return nil
}

func (c *client) resendVerification() error {
	if err := c.call("POST", "/api/auth/resend-verification", nil, nil); err != nil {
		return err
	}
	fmt.Println("verification token re-issued")
	return nil
}

func (c *client) logout() error {
	if err := os.Remove(tokenPath()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session token: %w", err)
	}
	fmt.Println("logged out")
	return nil
}

func (c *client) me() error {
	var user models.User
	if err := c.call("GET", "/api/auth/me", nil, &user); err != nil {
		return err
	}
	fmt.Printf("%s <%s>\n", user.Name, user.Email)
	fmt.Printf("  uid:      %s\n", user.UID)
	fmt.Printf("  verified: %v\n", user.EmailVerified)
	fmt.Printf("  friends:  %d\n", len(user.Friends))
	if len(user.PendingRequests) > 0 {
		fmt.Printf("  pending requests from: %s\n", strings.Join(user.PendingRequests, ", "))
	}
	if len(user.SentRequests) > 0 {
		fmt.Printf("  sent requests to: %s\n", strings.Join(user.SentRequests, ", "))
	}
	return nil
}

func (c *client) rename(name string) error {
	var user models.User
	if err := c.call("PATCH", "/api/account/name", map[string]string{"name": name}, &user); err != nil {
		return err
	}
	fmt.Printf("name changed to %s\n", user.Name)
	return nil
}

func (c *client) deleteAccount(password string) error {
	if err := c.call("DELETE", "/api/account", map[string]string{"password": password}, nil); err != nil {
		return err
	}
	if err := os.Remove(tokenPath()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("account deleted but failed to remove token file: %w", err)
	}
	fmt.Println("account deleted")
	return nil
}

func (c *client) listFriends() error {
	var payload struct {
		Friends []models.User `json:"friends"`
	}
	if err := c.call("GET", "/api/friends", nil, &payload); err != nil {
		return err
	}
	if len(payload.Friends) == 0 {
		fmt.Println("no friends yet; send a request with: poolctl request <email>")
		return nil
	}
	for _, f := range payload.Friends {
		fmt.Printf("%s  %s <%s>\n", f.UID, f.Name, f.Email)
	}
	return nil
}

func (c *client) sendRequest(email string) error {
	if err := c.call("POST", "/api/friends/requests", map[string]string{"email": email}, nil); err != nil {
		return err
	}
	fmt.Printf("friend request sent to %s\n", email)
	return nil
}

func (c *client) accept(uid string) error {
	if err := c.call("POST", "/api/friends/requests/"+uid+"/accept", nil, nil); err != nil {
		return err
	}
	fmt.Printf("you are now friends with %s\n", uid)
	return nil
}

func (c *client) decline(uid string) error {
	if err := c.call("POST", "/api/friends/requests/"+uid+"/decline", nil, nil); err != nil {
		return err
	}
	fmt.Printf("declined request from %s\n", uid)
	return nil
}

func (c *client) ledger(friendUID string) error {
	var view struct {
		PoolID   string           `json:"pool_id"`
		Expenses []models.Expense `json:"expenses"`
		Open     float64          `json:"open"`
		Settled  float64          `json:"settled"`
	}
	if err := c.call("GET", "/api/pools/"+friendUID, nil, &view); err != nil {
		return err
	}

	fmt.Printf("pool %s\n", view.PoolID)
	if len(view.Expenses) == 0 {
		fmt.Println("  no expenses yet")
		return nil
	}
	for _, e := range view.Expenses {
		mark := " "
		if e.Done {
			mark = "x"
		}
		when := time.Unix(e.CreatedAt, 0).Format("2006-01-02 15:04")
		fmt.Printf("  [%s] %8.2f  %-30s %s by %s  (%s)\n", mark, e.Amount, e.Reason, when, e.AddedByName, e.ID)
	}
	fmt.Printf("open: %.2f  settled: %.2f\n", view.Open, view.Settled)
	return nil
}

func (c *client) addExpense(friendUID string, amount float64, reason string) error {
	body := map[string]interface{}{"amount": amount}
	if reason != "" {
		body["reason"] = reason
	}
	if err := c.call("POST", "/api/pools/"+friendUID+"/expenses", body, nil); err != nil {
		return err
	}
	fmt.Printf("added %.2f to the pool with %s\n", amount, friendUID)
	return nil
}

func (c *client) toggleExpense(poolID, expenseID string) error {
	if err := c.call("POST", "/api/expenses/"+poolID+"/"+expenseID+"/toggle", nil, nil); err != nil {
		return err
	}
	fmt.Println("expense toggled")
	return nil
}

func (c *client) sendMessage(friendUID, text string) error {
	if err := c.call("POST", "/api/chats/"+friendUID+"/messages", map[string]string{"text": text}, nil); err != nil {
		return err
	}
	fmt.Println("sent")
	return nil
}

func (c *client) history(friendUID string) error {
	var payload struct {
		Messages []models.Message `json:"messages"`
	}
	if err := c.call("GET", "/api/chats/"+friendUID+"/messages", nil, &payload); err != nil {
		return err
	}
	if len(payload.Messages) == 0 {
		fmt.Println("no messages yet")
		return nil
	}
	for _, m := range payload.Messages {
		when := time.Unix(m.CreatedAt, 0).Format("15:04")
		fmt.Printf("[%s] %s: %s\n", when, m.SenderName, m.Text)
	}
	return nil
}
