package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/campusmap/internal/auth"
	"github.com/ziadkadry99/campusmap/internal/progress"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Load and validate the location and user files",
	Long:  `Loads the configured location and user data the way the server does, reports record-level problems and prints a summary.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ctx := context.Background()
		out := cmd.OutOrStdout()

		dir, err := loadDirectory(ctx, cfg)
		if err != nil {
			return err
		}

		var problems []string
		locs := dir.All()
		rep := progress.NewReporter()
		rep.Start(len(locs), "Checking locations")
		for i, l := range locs {
			for _, p := range l.Problems() {
				problems = append(problems, fmt.Sprintf("location #%d %q: %s", i+1, l.DisplayName(), p))
			}
			rep.Update(i+1, l.DisplayName())
		}
		rep.Finish()
		for _, name := range dir.Duplicates() {
			problems = append(problems, fmt.Sprintf("location %q: duplicate name, only the first record is reachable", name))
		}

		users, err := userSource(cfg).Users(ctx)
		if err != nil {
			return fmt.Errorf("loading users from %s: %w", cfg.Data.Users, err)
		}
		hashed := 0
		for i, u := range users {
			if !auth.ValidEmail(strings.TrimSpace(u.Email)) {
				problems = append(problems, fmt.Sprintf("user #%d %q: email is not a university address", i+1, u.Email))
			}
			if u.Password == "" {
				problems = append(problems, fmt.Sprintf("user #%d %q: empty password", i+1, u.Email))
			}
			if auth.IsHash(u.Password) {
				hashed++
			}
		}

		fmt.Fprintf(out, "Locations:  %d (%d categories)\n", dir.Len(), len(dir.ListCategories()))
		for _, c := range dir.ListCategories() {
			fmt.Fprintf(out, "  %-20s %d\n", c, len(dir.FilterByCategory(c)))
		}
		fmt.Fprintf(out, "Users:      %d (%d bcrypt, %d plaintext)\n", len(users), hashed, len(users)-hashed)

		if len(problems) > 0 {
			fmt.Fprintf(out, "\n%d problem(s):\n", len(problems))
			for _, p := range problems {
				fmt.Fprintf(out, "  - %s\n", p)
			}
			return fmt.Errorf("data check found %d problem(s)", len(problems))
		}
		fmt.Fprintln(out, "\nAll records look good.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
