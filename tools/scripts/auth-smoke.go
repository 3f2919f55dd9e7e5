// Package main provides a CI-friendly smoke test for the passage auth flow.
//
// It validates, against a running server:
//   - register -> 201
//   - duplicate register -> 409
//   - login -> 200 with access token + refresh cookie
//   - /me with the access token -> 200
//   - refresh -> 200 with a new pair
//   - replay of the consumed refresh token -> 401
package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"time"
)

func main() {
	baseURL := flag.String("base-url", "http://127.0.0.1:8080", "server base URL")
	timeout := flag.Duration("timeout", 10*time.Second, "per-request timeout")
	flag.Parse()

	if err := run(*baseURL, *timeout); err != nil {
		fmt.Fprintf(os.Stderr, "auth-smoke: FAIL: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("auth-smoke: OK")
}

func run(baseURL string, timeout time.Duration) error {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return err
	}
	client := &http.Client{Jar: jar, Timeout: timeout}

	email := fmt.Sprintf("smoke-%d@example.com", time.Now().UnixNano())
	const pw = "smoke-test-password"

	// Register.
	status, _, err := postJSON(client, baseURL+"/register", map[string]string{"email": email, "password": pw})
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}
	if status != http.StatusCreated {
		return fmt.Errorf("register: status %d, want 201", status)
	}

	// Duplicate register must conflict.
	status, _, err = postJSON(client, baseURL+"/register", map[string]string{"email": email, "password": pw})
	if err != nil {
		return fmt.Errorf("duplicate register: %w", err)
	}
	if status != http.StatusConflict {
		return fmt.Errorf("duplicate register: status %d, want 409", status)
	}

	// Login. The refresh cookie lands in the jar.
	status, body, err := postJSON(client, baseURL+"/login", map[string]string{"email": email, "password": pw})
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("login: status %d, want 200", status)
	}
	var loginResp struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.Unmarshal(body, &loginResp); err != nil || loginResp.AccessToken == "" {
		return errors.New("login: missing access token")
	}
	firstCookie, err := refreshCookieValue(jar, baseURL)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	// /me with the bearer token.
	req, err := http.NewRequest(http.MethodGet, baseURL+"/me", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+loginResp.AccessToken)
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("me: %w", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("me: status %d, want 200", resp.StatusCode)
	}

	// Rotate. The jar swaps in the successor cookie.
	status, _, err = postJSON(client, baseURL+"/refresh", nil)
	if err != nil {
		return fmt.Errorf("refresh: %w", err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("refresh: status %d, want 200", status)
	}
	secondCookie, err := refreshCookieValue(jar, baseURL)
	if err != nil {
		return fmt.Errorf("refresh: %w", err)
	}
	if secondCookie == firstCookie {
		return errors.New("refresh: cookie did not rotate")
	}

	// Replaying the consumed token must be rejected.
	req, err = http.NewRequest(http.MethodPost, baseURL+"/refresh", nil)
	if err != nil {
		return err
	}
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: firstCookie})
	resp, err = noJarClient(timeout).Do(req)
	if err != nil {
		return fmt.Errorf("replay: %w", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		return fmt.Errorf("replay: status %d, want 401", resp.StatusCode)
	}

	return nil
}

func noJarClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

func postJSON(client *http.Client, rawURL string, payload any) (int, []byte, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequest(http.MethodPost, rawURL, body)
	if err != nil {
		return 0, nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	out, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, out, nil
}

func refreshCookieValue(jar http.CookieJar, baseURL string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	for _, c := range jar.Cookies(u) {
		if c.Name == "refreshToken" {
			return c.Value, nil
		}
	}
	return "", errors.New("no refreshToken cookie in jar")
}
