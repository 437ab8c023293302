package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/mmcdole/marquee/internal/catalog/ticketmaster"
	"github.com/mmcdole/marquee/internal/config"
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/log"
	"github.com/mmcdole/marquee/internal/tui/styles"
)

// clearSpinnerLine clears the spinner line from the terminal
const clearSpinnerLine = "\r                                    \r"

// runSetupFlow asks for an API key, checks it against the catalog and saves it
func runSetupFlow(cfg *config.Config) error {
	fmt.Println()
	fmt.Println("Welcome to marquee!")
	fmt.Println()
	fmt.Println("An API key for the Ticketmaster Discovery API is required.")
	fmt.Println("Create one at https://developer.ticketmaster.com")
	fmt.Println()

	for {
		apiKey, err := readAPIKey()
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		if apiKey == "" {
			fmt.Println("API key cannot be empty. Please try again.")
			continue
		}

		fmt.Println()
		if err := verifyWithSpinner(cfg, apiKey); err != nil {
			fmt.Printf("✗ %v\n", err)
			if errors.Is(err, domain.ErrAuthFailed) {
				fmt.Println("Please check the key and try again.")
				fmt.Println()
				continue
			}
			return err
		}

		cfg.Catalog.APIKey = apiKey
		break
	}

	if err := config.SaveConfig(cfg, ""); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Println("✓ Configuration saved!")
	fmt.Println()
	fmt.Println("Run marquee again to start browsing.")

	return nil
}

// readAPIKey reads the key without echo when stdin is a terminal
func readAPIKey() (string, error) {
	fmt.Print("Enter your API key: ")

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Println()
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}

	input, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

// verifyWithSpinner runs a one-page search with the key, animating a spinner
func verifyWithSpinner(cfg *config.Config, apiKey string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	client := ticketmaster.NewClient(cfg.Catalog.BaseURL, apiKey, ticketmaster.Options{
		Sort:     domain.SortOrder(cfg.Catalog.Sort),
		RetryMax: 1,
	}, log.NullLogger())

	resultCh := make(chan error, 1)
	go func() {
		_, err := client.SearchEvents(ctx, cfg.Search.DefaultKeyword, 0)
		resultCh <- err
	}()

	frame := 0
	fmt.Printf("\r%s Checking API key...", styles.Spinner(frame))

	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case err := <-resultCh:
			fmt.Print(clearSpinnerLine)
			if err != nil {
				return err
			}
			fmt.Println("✓ API key accepted")
			return nil

		case <-ticker.C:
			frame++
			fmt.Printf("\r%s Checking API key...", styles.Spinner(frame))

		case <-ctx.Done():
			fmt.Print(clearSpinnerLine)
			return fmt.Errorf("key check timed out")
		}
	}
}
