package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrInputClosed is returned when the input stream ends before all parameters
// were collected.
var ErrInputClosed = errors.New("input closed before all parameters were collected")

// Prompter collects run parameters interactively, re-asking until each answer
// validates. It mirrors the flag surface for the core request fields; timeouts
// and output options keep their defaults or flag-provided values.
type Prompter struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{scanner: bufio.NewScanner(in), out: out}
}

// Collect fills the request parameters of cfg from the interactive session.
func (p *Prompter) Collect(cfg *Config) error {
	fmt.Fprintln(p.out, strings.Repeat("=", 50))
	fmt.Fprintln(p.out, "pummel - API Load Tester")
	fmt.Fprintln(p.out, strings.Repeat("=", 50))

	target, err := p.askURL()
	if err != nil {
		return err
	}
	cfg.TargetURL = target

	method, err := p.askMethod()
	if err != nil {
		return err
	}
	cfg.Method = method

	if BodyMethods(method) {
		body, err := p.askBody()
		if err != nil {
			return err
		}
		cfg.Body = body
	}

	rate, err := p.askPositiveInt("Enter target requests per second: ")
	if err != nil {
		return err
	}
	cfg.Rate = rate

	total, err := p.askPositiveInt("Enter total number of requests to send: ")
	if err != nil {
		return err
	}
	cfg.Total = total

	randomUA, err := p.askYesNo("Use random User-Agent headers? (yes/no): ")
	if err != nil {
		return err
	}
	cfg.RandomUserAgent = randomUA

	return nil
}

func (p *Prompter) readLine(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", err
		}
		return "", ErrInputClosed
	}
	return strings.TrimSpace(p.scanner.Text()), nil
}

func (p *Prompter) askURL() (string, error) {
	for {
		answer, err := p.readLine("Enter API URL (e.g., https://example.com/api): ")
		if err != nil {
			return "", err
		}
		if answer == "" {
			fmt.Fprintln(p.out, "URL cannot be empty.")
			continue
		}
		parsed, err := url.Parse(answer)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			fmt.Fprintln(p.out, "Invalid URL format. Please include http:// or https://")
			continue
		}
		return answer, nil
	}
}

func (p *Prompter) askMethod() (string, error) {
	for {
		answer, err := p.readLine("Enter HTTP method (GET/POST/PUT/DELETE): ")
		if err != nil {
			return "", err
		}
		method := strings.ToUpper(answer)
		if allowedMethods[method] {
			return method, nil
		}
		fmt.Fprintln(p.out, "Invalid method. Please enter GET, POST, PUT, or DELETE.")
	}
}

func (p *Prompter) askBody() (string, error) {
	answer, err := p.readLine("Enter request body (JSON format, or press Enter for empty): ")
	if err != nil {
		return "", err
	}
	if answer == "" {
		return "{}", nil
	}
	if !gjson.Valid(answer) {
		fmt.Fprintln(p.out, "Invalid JSON format. Using empty body.")
		return "{}", nil
	}
	return answer, nil
}

func (p *Prompter) askPositiveInt(prompt string) (int, error) {
	for {
		answer, err := p.readLine(prompt)
		if err != nil {
			return 0, err
		}
		value, err := strconv.Atoi(answer)
		if err != nil {
			fmt.Fprintln(p.out, "Please enter a valid number.")
			continue
		}
		if value <= 0 {
			fmt.Fprintln(p.out, "Value must be greater than 0.")
			continue
		}
		return value, nil
	}
}

func (p *Prompter) askYesNo(prompt string) (bool, error) {
	for {
		answer, err := p.readLine(prompt)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(answer) {
		case "yes", "y":
			return true, nil
		case "no", "n":
			return false, nil
		}
		fmt.Fprintln(p.out, "Please enter 'yes' or 'no'.")
	}
}
