package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard, saves the result to
// path and returns it.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to campusmap! Let's configure your map server.")
	fmt.Println()

	cfg := DefaultConfig()

	portPrompt := promptui.Prompt{
		Label:    "HTTP port",
		Default:  strconv.Itoa(cfg.Server.Port),
		Validate: validatePort,
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(portStr)

	locPrompt := promptui.Prompt{
		Label:   "Location data (path, glob or URL)",
		Default: cfg.Data.Locations,
	}
	if cfg.Data.Locations, err = locPrompt.Run(); err != nil {
		return nil, fmt.Errorf("location data: %w", err)
	}
	if _, err := os.Stat(cfg.Data.Locations); err != nil && !strings.Contains(cfg.Data.Locations, "://") && !strings.ContainsAny(cfg.Data.Locations, "*?[{") {
		fmt.Printf("Note: %s does not exist yet.\n", cfg.Data.Locations)
	}

	usersPrompt := promptui.Prompt{
		Label:   "User file (path or URL)",
		Default: cfg.Data.Users,
	}
	if cfg.Data.Users, err = usersPrompt.Run(); err != nil {
		return nil, fmt.Errorf("user file: %w", err)
	}

	backendPrompt := promptui.Select{
		Label: "Session storage",
		Items: []string{
			"memory - sessions are lost on restart",
			"sqlite - sessions survive restarts",
		},
	}
	backendIdx, _, err := backendPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("session storage: %w", err)
	}
	if backendIdx == 1 {
		cfg.Session.Backend = BackendSQLite
		dbPrompt := promptui.Prompt{
			Label:   "SQLite file",
			Default: cfg.Session.DBPath,
		}
		if cfg.Session.DBPath, err = dbPrompt.Run(); err != nil {
			return nil, fmt.Errorf("sqlite file: %w", err)
		}
	}

	routePrompt := promptui.Select{
		Label: "Compute walking routes",
		Items: []string{"on the server", "in the browser"},
	}
	routeIdx, _, err := routePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("routing: %w", err)
	}
	cfg.Routing.ServerSide = routeIdx == 0

	originsPrompt := promptui.Prompt{
		Label:   "Extra CORS origins (comma-separated, leave blank for localhost only)",
		Default: "",
	}
	originsStr, err := originsPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("cors origins: %w", err)
	}
	cfg.Server.AllowedOrigins = splitAndTrim(originsStr)

	formatPrompt := promptui.Select{
		Label: "Log format",
		Items: []string{"json", "text"},
	}
	if _, cfg.Log.Format, err = formatPrompt.Run(); err != nil {
		return nil, fmt.Errorf("log format: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

func validatePort(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 || n > 65535 {
		return fmt.Errorf("enter a port between 1 and 65535")
	}
	return nil
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
